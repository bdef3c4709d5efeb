// Package fake provides an in-memory host for tests: it records every call
// in order and lets the test decide which launches bring the target to the
// foreground and which elements can be clicked.
package fake

import (
	"context"
	"fmt"
	"sync"

	"wakeplay/internal/host"
)

// Call is one recorded host interaction.
type Call struct {
	Method string
	Detail string
}

func (c Call) String() string {
	if c.Detail == "" {
		return c.Method
	}
	return c.Method + " " + c.Detail
}

// Host implements host.Host in memory.
type Host struct {
	mu sync.Mutex

	installed  map[string]bool
	foreground string
	active     bool

	// OnOpen decides the outcome of Open. The default succeeds without
	// changing the foreground.
	OnOpen func(h *Host, a host.Action) error
	// OnOpenDefault decides the outcome of OpenDefault. The default brings
	// the identity to the foreground when it is installed.
	OnOpenDefault func(h *Host, identity string) error
	// OnClick decides whether an element matching sel is found. The default
	// finds nothing.
	OnClick func(h *Host, sel host.Selector) (bool, error)

	calls []Call
	opens []host.Action
}

var _ host.Host = (*Host)(nil)

// New returns a host with the automation service active and nothing
// installed.
func New() *Host {
	return &Host{installed: map[string]bool{}, active: true}
}

// Install marks identities as installed.
func (h *Host) Install(identities ...string) *Host {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, id := range identities {
		h.installed[id] = true
	}
	return h
}

// SetForeground sets the identity reported as foreground; empty means unknown.
func (h *Host) SetForeground(identity string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.foreground = identity
}

// SetActive toggles the automation service.
func (h *Host) SetActive(active bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.active = active
}

// Calls returns the recorded interactions in order.
func (h *Host) Calls() []Call {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Call(nil), h.calls...)
}

// Methods returns the method names of the recorded calls.
func (h *Host) Methods() []string {
	calls := h.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Method
	}
	return out
}

// Count returns how often method was called.
func (h *Host) Count(method string) int {
	n := 0
	for _, c := range h.Calls() {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Opens returns the actions passed to Open.
func (h *Host) Opens() []host.Action {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]host.Action(nil), h.opens...)
}

func (h *Host) record(method, detail string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, Call{Method: method, Detail: detail})
}

func (h *Host) Open(_ context.Context, a host.Action) error {
	h.record("Open", a.String())
	h.mu.Lock()
	h.opens = append(h.opens, a)
	installed := h.installed[a.Identity]
	hook := h.OnOpen
	h.mu.Unlock()

	if !installed {
		return fmt.Errorf("%s: %w", a.Identity, host.ErrNoHandler)
	}
	if hook != nil {
		return hook(h, a)
	}
	return nil
}

func (h *Host) OpenDefault(_ context.Context, identity string, clearTask bool) error {
	h.record("OpenDefault", identity)
	h.mu.Lock()
	installed := h.installed[identity]
	hook := h.OnOpenDefault
	h.mu.Unlock()

	if hook != nil {
		return hook(h, identity)
	}
	if !installed {
		return fmt.Errorf("%s: %w", identity, host.ErrNotInstalled)
	}
	h.SetForeground(identity)
	return nil
}

func (h *Host) ForceStop(_ context.Context, identity string) error {
	h.record("ForceStop", identity)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.foreground == identity {
		h.foreground = ""
	}
	return nil
}

func (h *Host) ForegroundIdentity(context.Context) (string, bool) {
	h.record("ForegroundIdentity", "")
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.foreground, h.foreground != ""
}

func (h *Host) SendKey(_ context.Context, code host.KeyCode) error {
	h.record("SendKey", code.String())
	return nil
}

func (h *Host) TypeText(_ context.Context, text string) error {
	h.record("TypeText", text)
	return nil
}

func (h *Host) FindAndClick(_ context.Context, sel host.Selector) (bool, error) {
	h.record("FindAndClick", sel.String())
	h.mu.Lock()
	hook := h.OnClick
	h.mu.Unlock()
	if hook == nil {
		return false, nil
	}
	return hook(h, sel)
}

func (h *Host) IsActive(context.Context) bool {
	h.record("IsActive", "")
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

func (h *Host) IsInstalled(_ context.Context, identity string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.installed[identity]
}

// ForegroundOn returns an OnOpen hook that brings the target to the
// foreground when the opened URI satisfies match.
func ForegroundOn(match func(a host.Action) bool) func(*Host, host.Action) error {
	return func(h *Host, a host.Action) error {
		if match(a) {
			h.SetForeground(a.Identity)
		}
		return nil
	}
}

// ClickText returns an OnClick hook that finds elements whose selector text
// or description is in texts.
func ClickText(texts ...string) func(*Host, host.Selector) (bool, error) {
	set := map[string]bool{}
	for _, t := range texts {
		set[t] = true
	}
	return func(_ *Host, sel host.Selector) (bool, error) {
		return set[sel.Text] || set[sel.Description], nil
	}
}
