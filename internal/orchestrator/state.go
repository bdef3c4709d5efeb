package orchestrator

import (
	"fmt"
	"sync"
	"time"
)

// State is a step of the launch state machine.
type State string

const (
	StateStart         State = "START"
	StateCheckMemory   State = "CHECK_MEMORY"
	StateTryDeepLink   State = "TRY_DEEP_LINK"
	StateVerify        State = "VERIFY"
	StateTrySearch     State = "TRY_SEARCH"
	StateVerifySearch  State = "VERIFY_SEARCH"
	StateTryAutomation State = "TRY_AUTOMATION"
	StateTryAppOnly    State = "TRY_APP_ONLY"
	StateDone          State = "DONE"
)

// Transition is reported every time a launch enters a state.
type Transition struct {
	LaunchID string
	Target   string
	State    State
	// Index is the candidate index for TRY_DEEP_LINK and VERIFY, -1 otherwise.
	Index  int
	Detail string
	At     time.Time
}

func (t Transition) String() string {
	state := string(t.State)
	if t.Index >= 0 {
		state = fmt.Sprintf("%s(%d)", t.State, t.Index)
	}
	if t.Detail == "" {
		return state
	}
	return state + " " + t.Detail
}

// Observer receives launch state transitions. Implementations must be safe
// for concurrent use when launches run in parallel.
type Observer interface {
	Transition(t Transition)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(t Transition)

// Transition calls f(t).
func (f ObserverFunc) Transition(t Transition) {
	f(t)
}

// Recorder is an Observer that keeps every transition.
type Recorder struct {
	mu          sync.Mutex
	transitions []Transition
}

// Transition records t.
func (r *Recorder) Transition(t Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, t)
}

// Transitions returns the recorded transitions in order.
func (r *Recorder) Transitions() []Transition {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Transition(nil), r.transitions...)
}

// Path returns the recorded transitions rendered without details, e.g.
// "TRY_DEEP_LINK(0)".
func (r *Recorder) Path() []string {
	ts := r.Transitions()
	out := make([]string, len(ts))
	for i, t := range ts {
		t.Detail = ""
		out[i] = t.String()
	}
	return out
}

// Reset drops every recorded transition.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = nil
}

type multiObserver []Observer

func (m multiObserver) Transition(t Transition) {
	for _, o := range m {
		if o != nil {
			o.Transition(t)
		}
	}
}
