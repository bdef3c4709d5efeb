package orchestrator

import (
	"context"
	"fmt"
	"time"

	"wakeplay/internal/automation"
	"wakeplay/internal/config"
	"wakeplay/internal/memory"
	"wakeplay/internal/resolver"
	"wakeplay/internal/target"
	"wakeplay/internal/template"
	"wakeplay/pkg/logging"
)

// launch is the state of one run through the strategy ladder.
type launch struct {
	o        *Orchestrator
	id       string
	req      target.Request
	observer Observer

	resolved   target.Resolved
	configured []target.Template
	candidates []resolver.Candidate
	keyOrder   []string

	// reset is set once the target has been force-stopped for this launch.
	reset bool
}

func (l *launch) enter(state State, index int, detail string) {
	if index >= 0 {
		logging.Debug("Orchestrator", "Launch %s: %s(%d) %s", l.id, state, index, detail)
	} else {
		logging.Debug("Orchestrator", "Launch %s: %s %s", l.id, state, detail)
	}
	l.observer.Transition(Transition{
		LaunchID: l.id,
		Target:   l.req.Target,
		State:    state,
		Index:    index,
		Detail:   detail,
		At:       l.o.clock.Now(),
	})
}

func (l *launch) run(ctx context.Context) Outcome {
	l.enter(StateStart, -1, l.req.Target)
	if err := l.req.Validate(); err != nil {
		return Failed{Target: l.req.Target, Reason: err}
	}

	snap := config.SnapshotOrEmpty(ctx, l.o.source)
	profile, configured, ok := snap.Profile(l.req.Target)
	if !ok {
		return Failed{Target: l.req.Target, Reason: fmt.Errorf("%s: %w", l.req.Target, ErrUnknownTarget)}
	}
	resolved, ok := target.Resolve(ctx, profile, l.o.packages)
	if !ok {
		return NotInstalled{Target: profile.ID}
	}
	l.resolved = resolved
	l.configured = configured
	l.candidates = l.resolve(ctx)
	l.keyOrder = memory.KeyOrder(profile)

	memo, hit := l.o.memory.Get(ctx, profile.ID, l.req.Identifiers, l.keyOrder...)
	detail := "miss"
	if hit {
		detail = memo.String()
	}
	l.enter(StateCheckMemory, -1, detail)

	order := make([]int, len(l.candidates))
	for i := range order {
		order[i] = i
	}
	searchFirst := false
	if hit {
		switch memo.Kind {
		case memory.KindAutomation:
			return l.fromAutomation(ctx)
		case memory.KindDeepLink:
			if i, ok := l.remembered(memo); ok {
				order = promote(order, i)
			} else {
				logging.Debug("Orchestrator", "Remembered %s matches none of %d candidates", memo, len(order))
			}
		case memory.KindSearch:
			searchFirst = true
		}
	}

	if searchFirst {
		if out, done := l.trySearch(ctx); done {
			return out
		}
	}
	for _, i := range order {
		if err := ctx.Err(); err != nil {
			return l.cancelled(err)
		}
		if out, done := l.tryDeepLink(ctx, i); done {
			return out
		}
	}
	if !searchFirst {
		if out, done := l.trySearch(ctx); done {
			return out
		}
	}
	return l.fromAutomation(ctx)
}

func (l *launch) fromAutomation(ctx context.Context) Outcome {
	if err := ctx.Err(); err != nil {
		return l.cancelled(err)
	}
	if out, done := l.tryAutomation(ctx); done {
		return out
	}
	if err := ctx.Err(); err != nil {
		return l.cancelled(err)
	}
	return l.tryAppOnly(ctx)
}

func (l *launch) tryDeepLink(ctx context.Context, i int) (Outcome, bool) {
	c := l.candidates[i]
	l.enter(StateTryDeepLink, i, fmt.Sprintf("%s (%s)", c.URI, c.Tier))

	if l.resolved.Profile.ForceStop && !l.reset {
		l.reset = true
		if err := l.o.launcher.ForceStop(ctx, l.resolved.Identity); err != nil {
			logging.Warn("Orchestrator", "Force-stop of %s failed: %v", l.resolved.Identity, err)
		}
	}

	launchedAt := l.o.clock.Now()
	if err := l.o.launcher.Open(ctx, c.LaunchAction(l.resolved.Identity)); err != nil {
		return l.transient(ctx, "deep link "+c.URI, err)
	}
	if err := l.settle(ctx, launchedAt); err != nil {
		return l.cancelled(err), true
	}

	l.enter(StateVerify, i, "")
	if !l.o.probe.Verify(ctx, l.resolved, launchedAt) {
		if err := ctx.Err(); err != nil {
			return l.cancelled(err), true
		}
		logging.Info("Orchestrator", "Deep link %s did not bring %s to the foreground", c.URI, l.resolved.Identity)
		return nil, false
	}

	if err := l.o.verified.Record(ctx, l.resolved.Profile.ID, c.Template); err != nil {
		logging.Warn("Orchestrator", "Failed to record verified template for %s: %v", l.resolved.Profile.ID, err)
	}
	strategy := memory.DeepLinkTo(i, c.URI)
	l.remember(ctx, strategy)
	return l.success(strategy, c.URI), true
}

// remembered returns the candidate a deep link memo refers to. The link it
// opened wins over its index, which shifts whenever the verified tier of the
// target is reordered by another key's success.
func (l *launch) remembered(memo memory.Strategy) (int, bool) {
	if memo.URI != "" {
		for i, c := range l.candidates {
			if c.URI == memo.URI {
				return i, true
			}
		}
	}
	if memo.Index >= 0 && memo.Index < len(l.candidates) {
		return memo.Index, true
	}
	return 0, false
}

func (l *launch) trySearch(ctx context.Context) (Outcome, bool) {
	plan, ok := l.o.resolver.Search(l.resolved, l.req)
	if !ok {
		l.enter(StateTrySearch, -1, "no free-text identifier")
		return nil, false
	}
	l.enter(StateTrySearch, -1, plan.Query)

	launchedAt := l.o.clock.Now()
	if err := l.o.launcher.Open(ctx, plan.Action); err != nil {
		return l.transient(ctx, "search", err)
	}
	if err := l.settle(ctx, launchedAt); err != nil {
		return l.cancelled(err), true
	}

	l.enter(StateVerifySearch, -1, "")
	if !l.o.probe.Verify(ctx, l.resolved, launchedAt) {
		if err := ctx.Err(); err != nil {
			return l.cancelled(err), true
		}
		logging.Info("Orchestrator", "Search for %q did not bring %s to the foreground", plan.Query, l.resolved.Identity)
		return nil, false
	}

	l.remember(ctx, memory.Search)
	return l.success(memory.Search, fmt.Sprintf("search %q", plan.Query)), true
}

func (l *launch) tryAutomation(ctx context.Context) (Outcome, bool) {
	l.enter(StateTryAutomation, -1, "")

	launchedAt := l.o.clock.Now()
	if err := l.o.launcher.OpenDefault(ctx, l.resolved.Identity, true); err != nil {
		return l.transient(ctx, "app open", err)
	}
	if err := l.settle(ctx, launchedAt); err != nil {
		return l.cancelled(err), true
	}
	if !l.o.automation.IsActive(ctx) {
		return Failed{Target: l.req.Target, Reason: ErrAutomationUnavailable}, true
	}

	recipe, ok := l.recipe()
	if !ok {
		return nil, false
	}
	res, err := l.runRecipe(ctx, recipe, l.vars())
	if err != nil {
		return l.cancelled(err), true
	}
	if !res.TerminalSucceeded() {
		logging.Info("Orchestrator", "Recipe %s ran %d of %d steps without a successful terminal step",
			recipe.Name, res.Ran(), len(recipe.Steps))
		return nil, false
	}

	l.remember(ctx, memory.Automation)
	return l.success(memory.Automation, "recipe "+recipe.Name), true
}

func (l *launch) tryAppOnly(ctx context.Context) Outcome {
	l.enter(StateTryAppOnly, -1, "")
	if err := l.o.launcher.OpenDefault(ctx, l.resolved.Identity, true); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return l.cancelled(ctxErr)
		}
		return Failed{Target: l.req.Target, Reason: fmt.Errorf("%w: %v", ErrStrategyExhausted, err)}
	}
	l.remember(ctx, memory.AppOnly)
	return l.success(memory.AppOnly, "default screen")
}

// settle waits out the rest of the cold-start budget, dismisses a profile
// picker when the target shows one, and waits the settle period.
func (l *launch) settle(ctx context.Context, launchedAt time.Time) error {
	p := l.resolved.Profile
	if remaining := p.ColdStartBudget() - l.o.clock.Now().Sub(launchedAt); remaining > 0 {
		if err := l.o.clock.Sleep(ctx, remaining); err != nil {
			return err
		}
	}
	if p.ProfilePicker {
		if _, err := l.runRecipe(ctx, automation.ProfileBypass(), nil); err != nil {
			return err
		}
	}
	return l.o.clock.Sleep(ctx, p.SettlePeriod())
}

// runRecipe starts recipe, waits for its schedule to elapse and for the
// fired steps to finish.
func (l *launch) runRecipe(ctx context.Context, recipe automation.Recipe, vars map[string]string) (automation.Result, error) {
	exec := l.o.engine.Run(ctx, recipe, vars)
	if err := l.o.clock.Sleep(ctx, recipe.Duration()); err != nil {
		exec.Cancel()
		return exec.Result(), err
	}
	return exec.Wait(ctx)
}

func (l *launch) recipe() (automation.Recipe, bool) {
	p := l.resolved.Profile
	if len(p.Recipe) > 0 {
		r, err := automation.FromSpec(p.ID, p.Recipe)
		if err == nil {
			return r, true
		}
		logging.Warn("Orchestrator", "Invalid recipe for %s, using search-and-play: %v", p.ID, err)
	}
	if _, ok := resolver.Query(p, l.req); !ok {
		logging.Info("Orchestrator", "No free-text identifier for %s, skipping search-and-play", p.ID)
		return automation.Recipe{}, false
	}
	return automation.SearchAndPlay(l.resolved.Identity), true
}

// vars are the template variables available to recipe steps.
func (l *launch) vars() map[string]string {
	if q, ok := resolver.Query(l.resolved.Profile, l.req); ok {
		return template.RequestVars(l.req, map[string]string{target.IDQuery: q})
	}
	return template.RequestVars(l.req)
}

func (l *launch) resolve(ctx context.Context) []resolver.Candidate {
	p := l.resolved.Profile
	return l.o.resolver.Resolve(p, l.req, resolver.Tiers{
		Verified:   l.o.verified.Templates(ctx, p.ID),
		Configured: l.configured,
		Hardcoded:  p.Templates,
	})
}

func (l *launch) remember(ctx context.Context, s memory.Strategy) {
	if err := l.o.memory.Put(ctx, l.resolved.Profile.ID, l.req.Identifiers, s, l.keyOrder...); err != nil {
		logging.Warn("Orchestrator", "Failed to remember %s for %s: %v", s, l.resolved.Profile.ID, err)
	}
}

func (l *launch) success(s memory.Strategy, method string) Success {
	return Success{
		Target:   l.resolved.Profile.ID,
		Identity: l.resolved.Identity,
		Method:   method,
		Strategy: s,
	}
}

// transient logs a failed action and moves on to the next strategy unless
// the launch was cancelled.
func (l *launch) transient(ctx context.Context, what string, err error) (Outcome, bool) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return l.cancelled(ctxErr), true
	}
	logging.Warn("Orchestrator", "Launch %s: %v", l.id, fmt.Errorf("%s: %w: %v", what, ErrTransientAction, err))
	return nil, false
}

func (l *launch) cancelled(err error) Outcome {
	logging.Info("Orchestrator", "Launch %s cancelled: %v", l.id, err)
	return Failed{Target: l.req.Target, Reason: err}
}

// promote moves index first, keeping the order of the rest.
func promote(order []int, index int) []int {
	out := make([]int, 0, len(order))
	out = append(out, index)
	for _, i := range order {
		if i != index {
			out = append(out, i)
		}
	}
	return out
}
