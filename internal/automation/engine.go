package automation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wakeplay/internal/clock"
	"wakeplay/internal/host"
	"wakeplay/internal/template"
	"wakeplay/pkg/logging"
)

// DefaultPollInterval is the pause between find-and-click attempts.
const DefaultPollInterval = 500 * time.Millisecond

// Engine runs recipes against the host automation service.
type Engine struct {
	automation   host.Automation
	clock        clock.Clock
	templates    *template.Engine
	pollInterval time.Duration
}

// NewEngine creates an Engine. A zero pollInterval uses DefaultPollInterval.
func NewEngine(automation host.Automation, clk clock.Clock, pollInterval time.Duration) *Engine {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Engine{
		automation:   automation,
		clock:        clk,
		templates:    template.New(),
		pollInterval: pollInterval,
	}
}

// StepResult records what happened to one step.
type StepResult struct {
	Index     int
	At        time.Duration
	Action    Action
	Ran       bool
	Succeeded bool
	Err       error
}

// Result summarises an execution.
type Result struct {
	Recipe    string
	Steps     []StepResult
	Terminal  int
	Cancelled bool
}

// TerminalSucceeded reports whether the recipe's terminal step ran and
// succeeded.
func (r Result) TerminalSucceeded() bool {
	if r.Terminal < 0 || r.Terminal >= len(r.Steps) {
		return false
	}
	s := r.Steps[r.Terminal]
	return s.Ran && s.Succeeded
}

// Ran returns the number of steps that executed.
func (r Result) Ran() int {
	n := 0
	for _, s := range r.Steps {
		if s.Ran {
			n++
		}
	}
	return n
}

// Execution is one running recipe. Steps are scheduled on the engine clock;
// fired steps are executed one at a time in schedule order.
type Execution struct {
	engine *Engine
	recipe Recipe
	vars   map[string]string

	mu        sync.Mutex
	timers    []clock.Timer
	pending   int
	cancelled bool
	queue     chan []int
	results   []StepResult

	done     chan struct{}
	stopWait func() bool
}

// Run schedules every step of recipe at its delay from now and returns
// immediately. Step outcomes do not affect later steps. Cancelling ctx has
// the same effect as Execution.Cancel.
func (e *Engine) Run(ctx context.Context, recipe Recipe, vars map[string]string) *Execution {
	x := &Execution{
		engine:  e,
		recipe:  recipe,
		vars:    vars,
		results: make([]StepResult, len(recipe.Steps)),
		done:    make(chan struct{}),
	}
	for i, s := range recipe.Steps {
		x.results[i] = StepResult{Index: i, At: s.At, Action: s.Action}
	}

	// One timer per distinct delay keeps equal-delay steps in declaration
	// order regardless of how the clock orders simultaneous timers.
	var groups [][]int
	for _, idx := range recipe.sorted() {
		if n := len(groups); n > 0 && recipe.Steps[groups[n-1][0]].At == recipe.Steps[idx].At {
			groups[n-1] = append(groups[n-1], idx)
			continue
		}
		groups = append(groups, []int{idx})
	}

	x.queue = make(chan []int, len(groups))
	x.pending = len(groups)

	logging.Info("Automation", "Running recipe %s (%d steps over %s)", recipe.Name, len(recipe.Steps), recipe.Duration())

	x.mu.Lock()
	if x.pending == 0 {
		close(x.queue)
	}
	for _, group := range groups {
		group := group
		x.timers = append(x.timers, e.clock.AfterFunc(recipe.Steps[group[0]].At, func() { x.fire(group) }))
	}
	x.mu.Unlock()

	stopWait := context.AfterFunc(ctx, x.Cancel)
	x.mu.Lock()
	x.stopWait = stopWait
	x.mu.Unlock()

	// Fired steps run to completion even if ctx is cancelled meanwhile.
	go x.work(context.WithoutCancel(ctx))
	return x
}

func (x *Execution) fire(group []int) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.pending--
	if !x.cancelled {
		x.queue <- group
	}
	if x.pending == 0 {
		close(x.queue)
	}
}

// Cancel drops every step that has not fired yet. Steps that already fired
// still complete. Cancel is safe to call more than once.
func (x *Execution) Cancel() {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.cancelled || x.pending == 0 {
		x.cancelled = true
		return
	}
	x.cancelled = true
	dropped := 0
	for _, t := range x.timers {
		if t.Stop() {
			x.pending--
			dropped++
		}
	}
	if x.pending == 0 {
		close(x.queue)
	}
	logging.Info("Automation", "Cancelled recipe %s, dropped %d scheduled step groups", x.recipe.Name, dropped)
}

// Done is closed once every fired step has completed and nothing else will
// run.
func (x *Execution) Done() <-chan struct{} {
	return x.done
}

// Wait blocks until the execution is done or ctx ends.
func (x *Execution) Wait(ctx context.Context) (Result, error) {
	select {
	case <-x.done:
		return x.Result(), nil
	case <-ctx.Done():
		return x.Result(), ctx.Err()
	}
}

// Result returns a snapshot of the step outcomes so far.
func (x *Execution) Result() Result {
	x.mu.Lock()
	defer x.mu.Unlock()
	steps := make([]StepResult, len(x.results))
	copy(steps, x.results)
	return Result{
		Recipe:    x.recipe.Name,
		Steps:     steps,
		Terminal:  x.recipe.TerminalIndex(),
		Cancelled: x.cancelled,
	}
}

func (x *Execution) work(ctx context.Context) {
	defer func() {
		x.mu.Lock()
		stopWait := x.stopWait
		x.mu.Unlock()
		stopWait()
		close(x.done)
	}()

	for group := range x.queue {
		for _, idx := range group {
			ok, err := x.engine.execute(ctx, x.recipe.Steps[idx].Action, x.vars)
			x.mu.Lock()
			x.results[idx].Ran = true
			x.results[idx].Succeeded = ok
			x.results[idx].Err = err
			x.mu.Unlock()

			if err != nil {
				logging.Warn("Automation", "Step %d %s of %s failed: %v", idx, x.recipe.Steps[idx].Action, x.recipe.Name, err)
			} else {
				logging.Debug("Automation", "Step %d %s of %s: %t", idx, x.recipe.Steps[idx].Action, x.recipe.Name, ok)
			}
		}
	}
}

func (e *Engine) execute(ctx context.Context, action Action, vars map[string]string) (bool, error) {
	switch action.Kind {
	case ActionKey:
		if err := e.automation.SendKey(ctx, action.Key); err != nil {
			return false, err
		}
		return true, nil

	case ActionType:
		text, err := e.templates.Render(action.Text, vars)
		if err != nil {
			return false, err
		}
		if err := e.automation.TypeText(ctx, text); err != nil {
			return false, err
		}
		return true, nil

	case ActionClick:
		sel, err := e.renderSelector(action.Selector, vars)
		if err != nil {
			return false, err
		}
		return e.clickWithin(ctx, sel, action.Timeout)

	default:
		return false, fmt.Errorf("unknown action kind %d", action.Kind)
	}
}

// clickWithin retries FindAndClick until it succeeds or timeout elapses.
// Lookup errors are retried like misses; the last one is returned.
func (e *Engine) clickWithin(ctx context.Context, sel host.Selector, timeout time.Duration) (bool, error) {
	deadline := e.clock.Now().Add(timeout)
	var lastErr error
	for {
		clicked, err := e.automation.FindAndClick(ctx, sel)
		if clicked {
			return true, nil
		}
		lastErr = err
		if !e.clock.Now().Before(deadline) {
			return false, lastErr
		}
		wait := e.pollInterval
		if remaining := deadline.Sub(e.clock.Now()); remaining < wait {
			wait = remaining
		}
		if err := e.clock.Sleep(ctx, wait); err != nil {
			return false, err
		}
	}
}

func (e *Engine) renderSelector(sel host.Selector, vars map[string]string) (host.Selector, error) {
	var err error
	if sel.Text, err = e.templates.Render(sel.Text, vars); err != nil {
		return sel, err
	}
	if sel.Description, err = e.templates.Render(sel.Description, vars); err != nil {
		return sel, err
	}
	if sel.Package, err = e.templates.Render(sel.Package, vars); err != nil {
		return sel, err
	}
	return sel, nil
}
