package orchestrator

import "errors"

var (
	// ErrNotInstalled is the reason reported for NotInstalled outcomes.
	ErrNotInstalled = errors.New("target not installed")

	// ErrStrategyExhausted means every strategy was tried and none brought
	// the target to the foreground.
	ErrStrategyExhausted = errors.New("all launch strategies exhausted")

	// ErrAutomationUnavailable means the automation service was not active
	// when a recipe had to run.
	ErrAutomationUnavailable = errors.New("automation service unavailable")

	// ErrTransientAction marks a single launch action that failed. It is
	// logged and the next strategy is tried; it never reaches an Outcome.
	ErrTransientAction = errors.New("launch action failed")

	// ErrUnknownTarget means no builtin or configured profile has the
	// requested id.
	ErrUnknownTarget = errors.New("unknown target")
)
