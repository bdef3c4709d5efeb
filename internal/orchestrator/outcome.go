package orchestrator

import (
	"errors"
	"fmt"

	"wakeplay/internal/memory"
)

// Outcome is the result of one launch. It is one of Success, NotInstalled
// or Failed.
type Outcome interface {
	fmt.Stringer
	outcome()
}

// Success means the target was confirmed in the foreground (or, for the
// app-only fallback, opened without error).
type Success struct {
	Target   string
	Identity string
	// Method describes what worked, e.g. the deep link URI.
	Method   string
	Strategy memory.Strategy
}

// NotInstalled means none of the target's identities is installed. No
// action was sent to the host.
type NotInstalled struct {
	Target string
}

// Failed means the launch ended without success.
type Failed struct {
	Target string
	Reason error
}

func (Success) outcome()      {}
func (NotInstalled) outcome() {}
func (Failed) outcome()       {}

func (s Success) String() string {
	return fmt.Sprintf("launched %s (%s) via %s: %s", s.Target, s.Identity, s.Strategy, s.Method)
}

func (n NotInstalled) String() string {
	return fmt.Sprintf("%s is not installed", n.Target)
}

func (f Failed) String() string {
	return fmt.Sprintf("failed to launch %s: %v", f.Target, f.Reason)
}

// Unwrap exposes the failure reason to errors.Is.
func (f Failed) Unwrap() error {
	return f.Reason
}

func (f Failed) Error() string {
	return f.String()
}

// Err converts an outcome into an error: nil for Success, an error wrapping
// ErrNotInstalled for NotInstalled and the Failed value itself otherwise.
func Err(o Outcome) error {
	switch v := o.(type) {
	case Success:
		return nil
	case NotInstalled:
		return fmt.Errorf("%s: %w", v.Target, ErrNotInstalled)
	case Failed:
		return v
	case nil:
		return errors.New("no outcome")
	default:
		return fmt.Errorf("unexpected outcome %T", o)
	}
}

// Kind returns a short lowercase label for an outcome.
func Kind(o Outcome) string {
	switch o.(type) {
	case Success:
		return "success"
	case NotInstalled:
		return "notInstalled"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}
