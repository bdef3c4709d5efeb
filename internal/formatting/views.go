package formatting

import (
	"errors"
	"time"

	"wakeplay/internal/config"
	"wakeplay/internal/memory"
	"wakeplay/internal/orchestrator"
	"wakeplay/internal/target"
)

// ProfileView summarises one target profile.
type ProfileView struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name,omitempty" yaml:"name,omitempty"`
	Source     string   `json:"source" yaml:"source"`
	Aliases    []string `json:"aliases" yaml:"aliases"`
	Hardcoded  int      `json:"hardcodedTemplates" yaml:"hardcodedTemplates"`
	Configured int      `json:"configuredTemplates" yaml:"configuredTemplates"`
	Search     bool     `json:"search" yaml:"search"`
	Recipe     bool     `json:"recipe" yaml:"recipe"`
	Quirks     []string `json:"quirks,omitempty" yaml:"quirks,omitempty"`
	ColdStart  string   `json:"coldStart" yaml:"coldStart"`
}

// ProfileViews describes every profile known to snap.
func ProfileViews(snap *config.Snapshot) []ProfileView {
	var out []ProfileView
	for _, p := range snap.Profiles() {
		_, configured, _ := snap.Profile(p.ID)
		_, builtin := target.LookupBuiltin(p.ID)
		_, inConfig := snap.Target(p.ID)

		source := "config"
		switch {
		case builtin && inConfig:
			source = "builtin+config"
		case builtin:
			source = "builtin"
		}

		var quirks []string
		if p.ForceStop {
			quirks = append(quirks, "forceStop")
		}
		if p.ProfilePicker {
			quirks = append(quirks, "profilePicker")
		}

		out = append(out, ProfileView{
			ID:         p.ID,
			Name:       p.Name,
			Source:     source,
			Aliases:    p.Identities(),
			Hardcoded:  len(p.Templates),
			Configured: len(configured),
			Search:     p.Search != nil,
			Recipe:     len(p.Recipe) > 0,
			Quirks:     quirks,
			ColdStart:  formatDuration(p.ColdStartBudget()),
		})
	}
	return out
}

// MemoryView is one remembered launch method.
type MemoryView struct {
	Key      string `json:"key" yaml:"key"`
	Strategy string `json:"strategy" yaml:"strategy"`
	Valid    bool   `json:"valid" yaml:"valid"`
}

// MemoryViews converts stored records.
func MemoryViews(records []memory.Record) []MemoryView {
	out := make([]MemoryView, 0, len(records))
	for _, r := range records {
		v := MemoryView{Key: r.Key, Strategy: r.Raw, Valid: r.Valid}
		if r.Valid {
			v.Strategy = r.Strategy.Encode()
		}
		out = append(out, v)
	}
	return out
}

// OutcomeView is the result of one launch.
type OutcomeView struct {
	LaunchID string   `json:"launchId,omitempty" yaml:"launchId,omitempty"`
	Target   string   `json:"target" yaml:"target"`
	Result   string   `json:"result" yaml:"result"`
	Identity string   `json:"identity,omitempty" yaml:"identity,omitempty"`
	Strategy string   `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Method   string   `json:"method,omitempty" yaml:"method,omitempty"`
	Reason   string   `json:"reason,omitempty" yaml:"reason,omitempty"`
	Trace    []string `json:"trace,omitempty" yaml:"trace,omitempty"`
}

// NewOutcomeView converts an outcome and, optionally, the transitions that
// led to it.
func NewOutcomeView(launchID, targetID string, out orchestrator.Outcome, trace []orchestrator.Transition) OutcomeView {
	v := OutcomeView{LaunchID: launchID, Target: targetID, Result: orchestrator.Kind(out)}
	switch o := out.(type) {
	case orchestrator.Success:
		v.Target = o.Target
		v.Identity = o.Identity
		v.Strategy = o.Strategy.String()
		v.Method = o.Method
	case orchestrator.NotInstalled:
		v.Target = o.Target
		v.Reason = orchestrator.ErrNotInstalled.Error()
	case orchestrator.Failed:
		if o.Reason != nil {
			v.Reason = o.Reason.Error()
		}
		if errors.Is(o.Reason, orchestrator.ErrUnknownTarget) {
			v.Result = "unknownTarget"
		}
	}
	for _, t := range trace {
		v.Trace = append(v.Trace, t.String())
	}
	return v
}

// LaunchView is a tracked background launch.
type LaunchView struct {
	ID        string    `json:"id" yaml:"id"`
	Target    string    `json:"target" yaml:"target"`
	State     string    `json:"state" yaml:"state"`
	Result    string    `json:"result" yaml:"result"`
	Detail    string    `json:"detail,omitempty" yaml:"detail,omitempty"`
	StartedAt time.Time `json:"startedAt" yaml:"startedAt"`
	Duration  string    `json:"duration" yaml:"duration"`
}

// LaunchViews converts tracker statuses. now is used for the duration of
// launches still running.
func LaunchViews(statuses []orchestrator.Status, now time.Time) []LaunchView {
	out := make([]LaunchView, 0, len(statuses))
	for _, s := range statuses {
		end := s.EndedAt
		if end.IsZero() {
			end = now
		}
		v := LaunchView{
			ID:        s.ID,
			Target:    s.Target,
			State:     string(s.State),
			Result:    orchestrator.Kind(s.Outcome),
			StartedAt: s.StartedAt,
			Duration:  formatDuration(end.Sub(s.StartedAt)),
		}
		if s.Outcome != nil {
			v.Detail = s.Outcome.String()
		}
		out = append(out, v)
	}
	return out
}

// CheckStatus is the verdict of one check.
type CheckStatus string

const (
	CheckOK   CheckStatus = "ok"
	CheckWarn CheckStatus = "warn"
	CheckFail CheckStatus = "fail"
)

// CheckView is one line of `wakeplay check`.
type CheckView struct {
	Name   string      `json:"name" yaml:"name"`
	Status CheckStatus `json:"status" yaml:"status"`
	Detail string      `json:"detail,omitempty" yaml:"detail,omitempty"`
}
