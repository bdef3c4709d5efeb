// Package probe answers the only success question wakeplay can ask of a
// target: does it own the foreground now?
package probe

import (
	"context"
	"time"

	"wakeplay/internal/clock"
	"wakeplay/internal/host"
	"wakeplay/internal/target"
	"wakeplay/pkg/logging"
)

// Probe checks foreground ownership through the host automation service.
type Probe struct {
	automation host.Automation
	clock      clock.Clock
}

// New creates a Probe.
func New(automation host.Automation, clk clock.Clock) *Probe {
	return &Probe{automation: automation, clock: clk}
}

// IsForeground reports whether the resolved identity or one of its aliases
// currently owns the foreground.
func (p *Probe) IsForeground(ctx context.Context, resolved target.Resolved) bool {
	identity, ok := p.automation.ForegroundIdentity(ctx)
	if !ok {
		logging.Debug("Probe", "Foreground identity unknown")
		return false
	}
	match := resolved.Matches(identity)
	logging.Debug("Probe", "Foreground is %s (want %s): %t", identity, resolved.Identity, match)
	return match
}

// Verify waits until the profile's cold-start budget has elapsed since
// launchedAt and then checks the foreground. It returns false if ctx ends
// first.
func (p *Probe) Verify(ctx context.Context, resolved target.Resolved, launchedAt time.Time) bool {
	remaining := resolved.Profile.ColdStartBudget() - p.clock.Now().Sub(launchedAt)
	if remaining > 0 {
		if err := p.clock.Sleep(ctx, remaining); err != nil {
			return false
		}
	}
	if ctx.Err() != nil {
		return false
	}
	return p.IsForeground(ctx, resolved)
}
