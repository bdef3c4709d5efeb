package orchestrator

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"wakeplay/internal/target"
	"wakeplay/pkg/logging"
)

// Handle tracks a launch started with Start.
type Handle struct {
	ID        string
	Request   target.Request
	StartedAt time.Time

	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	state   State
	outcome Outcome
	ended   time.Time
}

// Status is a point-in-time view of a handle.
type Status struct {
	ID        string
	Target    string
	State     State
	Outcome   Outcome
	StartedAt time.Time
	EndedAt   time.Time
}

// Done is closed when the launch has finished.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Cancel cancels the launch. It has no effect once the launch is done.
func (h *Handle) Cancel() {
	h.cancel()
}

// Outcome returns the result once the launch is done.
func (h *Handle) Outcome() (Outcome, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.outcome, h.outcome != nil
}

// Wait blocks until the launch is done or ctx ends.
func (h *Handle) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-h.done:
		out, _ := h.Outcome()
		return out, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Status returns the current state of the launch.
func (h *Handle) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Status{
		ID:        h.ID,
		Target:    h.Request.Target,
		State:     h.state,
		Outcome:   h.outcome,
		StartedAt: h.StartedAt,
		EndedAt:   h.ended,
	}
}

// Transition keeps the handle's state current.
func (h *Handle) Transition(t Transition) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = t.State
}

// Start runs a launch in the background. The launch context derives from
// ctx; cancelling either ctx or the handle cancels the launch.
func (o *Orchestrator) Start(ctx context.Context, req target.Request) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		ID:        uuid.NewString(),
		Request:   req,
		StartedAt: o.clock.Now(),
		cancel:    cancel,
		done:      make(chan struct{}),
		state:     StateStart,
	}

	o.mu.Lock()
	o.handles[h.ID] = h
	o.mu.Unlock()

	logging.Info("Orchestrator", "Started launch %s for %s", h.ID, req.Target)

	go func() {
		defer cancel()
		out := o.run(ctx, h.ID, req, h)

		h.mu.Lock()
		h.outcome = out
		h.ended = o.clock.Now()
		h.mu.Unlock()
		close(h.done)

		o.retire(h.ID)
	}()
	return h
}

// Cancel cancels the launch with the given id. It reports false if the id
// is unknown or the launch already finished.
func (o *Orchestrator) Cancel(id string) bool {
	h, ok := o.Get(id)
	if !ok {
		return false
	}
	select {
	case <-h.done:
		return false
	default:
	}
	logging.Info("Orchestrator", "Cancelling launch %s", id)
	h.Cancel()
	return true
}

// Get returns the handle with the given id, running or recently finished.
func (o *Orchestrator) Get(id string) (*Handle, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	h, ok := o.handles[id]
	return h, ok
}

// List returns the status of every tracked launch, oldest first.
func (o *Orchestrator) List() []Status {
	o.mu.RLock()
	out := make([]Status, 0, len(o.handles))
	for _, h := range o.handles {
		out = append(out, h.Status())
	}
	o.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

// retire moves a finished handle into the bounded history.
func (o *Orchestrator) retire(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished = append(o.finished, id)
	for len(o.finished) > o.history {
		delete(o.handles, o.finished[0])
		o.finished = o.finished[1:]
	}
}
