// Package host declares the collaborators wakeplay drives: something that
// can launch applications, something that can observe and poke the UI, and
// something that knows what is installed. internal/adb implements all three
// on top of the adb binary; internal/testing/fake implements them in memory.
package host

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoHandler is returned by Launcher.Open when nothing on the device
// resolves the requested action.
var ErrNoHandler = errors.New("no handler resolves the launch action")

// ErrNotInstalled is returned when the requested identity is absent.
var ErrNotInstalled = errors.New("identity is not installed")

// Action is one structured launch request.
type Action struct {
	// Identity is the package that should handle the action.
	Identity string
	// Intent action; empty means VIEW.
	Action    string
	URI       string
	Component string
	Extras    map[string]string
	// ClearTask asks the host to clear any prior task state of the target.
	ClearTask bool
}

// String renders the action for logs.
func (a Action) String() string {
	var b strings.Builder
	b.WriteString(a.Identity)
	if a.Action != "" {
		fmt.Fprintf(&b, " action=%s", a.Action)
	}
	if a.URI != "" {
		fmt.Fprintf(&b, " uri=%s", a.URI)
	}
	if a.Component != "" {
		fmt.Fprintf(&b, " component=%s", a.Component)
	}
	if len(a.Extras) > 0 {
		keys := make([]string, 0, len(a.Extras))
		for k := range a.Extras {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%s", k, a.Extras[k])
		}
	}
	return b.String()
}

// Selector matches one accessibility node. Empty fields match anything.
type Selector struct {
	Text        string
	Description string
	Package     string
}

func (s Selector) String() string {
	var parts []string
	if s.Text != "" {
		parts = append(parts, fmt.Sprintf("text=%q", s.Text))
	}
	if s.Description != "" {
		parts = append(parts, fmt.Sprintf("desc=%q", s.Description))
	}
	if s.Package != "" {
		parts = append(parts, "pkg="+s.Package)
	}
	return strings.Join(parts, " ")
}

// Launcher issues launch actions.
type Launcher interface {
	// Open starts the target with a structured action. It returns an error
	// wrapping ErrNoHandler when nothing resolves the action.
	Open(ctx context.Context, action Action) error
	// OpenDefault opens the target's main entry point with no content.
	OpenDefault(ctx context.Context, identity string, clearTask bool) error
	// ForceStop terminates the target so the next launch starts cold.
	ForceStop(ctx context.Context, identity string) error
}

// Automation reads and drives the UI.
type Automation interface {
	ForegroundIdentity(ctx context.Context) (string, bool)
	SendKey(ctx context.Context, code KeyCode) error
	TypeText(ctx context.Context, text string) error
	FindAndClick(ctx context.Context, sel Selector) (bool, error)
	IsActive(ctx context.Context) bool
}

// Packages answers installed-identity queries.
type Packages interface {
	IsInstalled(ctx context.Context, identity string) bool
}

// Host bundles every collaborator.
type Host interface {
	Launcher
	Automation
	Packages
}
