package orchestrator

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"wakeplay/internal/automation"
	"wakeplay/internal/clock"
	"wakeplay/internal/config"
	"wakeplay/internal/host"
	"wakeplay/internal/memory"
	"wakeplay/internal/probe"
	"wakeplay/internal/resolver"
	"wakeplay/internal/target"
	"wakeplay/pkg/logging"
)

// DefaultHistory is the number of finished launches kept for status queries.
const DefaultHistory = 50

// Config holds the collaborators of an Orchestrator. Launcher, Automation
// and Packages are required; everything else has an in-memory or real-time
// default.
type Config struct {
	Launcher   host.Launcher
	Automation host.Automation
	Packages   host.Packages

	// Source provides the configured tier. Nil means built-in profiles only.
	Source config.Source

	Memory   *memory.Memory
	Verified *memory.VerifiedStore

	Resolver *resolver.Resolver
	Engine   *automation.Engine
	Probe    *probe.Probe
	Clock    clock.Clock

	Observer Observer

	// History bounds the number of finished handles kept by the tracker.
	History int
}

// Orchestrator runs launches. It holds no per-launch state outside of the
// handle tracker, so concurrent launches are independent.
type Orchestrator struct {
	launcher   host.Launcher
	automation host.Automation
	packages   host.Packages
	source     config.Source
	memory     *memory.Memory
	verified   *memory.VerifiedStore
	resolver   *resolver.Resolver
	engine     *automation.Engine
	probe      *probe.Probe
	clock      clock.Clock
	observer   Observer

	mu       sync.RWMutex
	handles  map[string]*Handle
	finished []string
	history  int
}

// New creates an orchestrator from cfg.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Launcher == nil || cfg.Automation == nil || cfg.Packages == nil {
		return nil, errors.New("orchestrator requires a launcher, an automation service and a package checker")
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real{}
	}
	if cfg.Memory == nil || cfg.Verified == nil {
		store := memory.NewMapStore()
		if cfg.Memory == nil {
			cfg.Memory = memory.New(store)
		}
		if cfg.Verified == nil {
			cfg.Verified = memory.NewVerifiedStore(store)
		}
	}
	if cfg.Resolver == nil {
		cfg.Resolver = resolver.New()
	}
	if cfg.Engine == nil {
		cfg.Engine = automation.NewEngine(cfg.Automation, cfg.Clock, automation.DefaultPollInterval)
	}
	if cfg.Probe == nil {
		cfg.Probe = probe.New(cfg.Automation, cfg.Clock)
	}
	if cfg.History <= 0 {
		cfg.History = DefaultHistory
	}

	return &Orchestrator{
		launcher:   cfg.Launcher,
		automation: cfg.Automation,
		packages:   cfg.Packages,
		source:     cfg.Source,
		memory:     cfg.Memory,
		verified:   cfg.Verified,
		resolver:   cfg.Resolver,
		engine:     cfg.Engine,
		probe:      cfg.Probe,
		clock:      cfg.Clock,
		observer:   cfg.Observer,
		handles:    make(map[string]*Handle),
		history:    cfg.History,
	}, nil
}

// NewForHost is New with Launcher, Automation and Packages all served by h.
func NewForHost(h host.Host, cfg Config) (*Orchestrator, error) {
	cfg.Launcher = h
	cfg.Automation = h
	cfg.Packages = h
	return New(cfg)
}

// Launch runs one launch to completion on the calling goroutine.
func (o *Orchestrator) Launch(ctx context.Context, req target.Request) Outcome {
	return o.run(ctx, uuid.NewString(), req, nil)
}

// LaunchObserved is Launch with obs receiving this launch's transitions in
// addition to the configured observer.
func (o *Orchestrator) LaunchObserved(ctx context.Context, req target.Request, obs Observer) Outcome {
	return o.run(ctx, uuid.NewString(), req, obs)
}

func (o *Orchestrator) run(ctx context.Context, id string, req target.Request, extra Observer) Outcome {
	l := &launch{
		o:        o,
		id:       id,
		req:      req,
		observer: multiObserver{o.observer, extra},
	}
	out := l.run(ctx)
	l.enter(StateDone, -1, out.String())

	switch out.(type) {
	case Success:
		logging.Info("Orchestrator", "Launch %s: %s", id, out)
	default:
		logging.Warn("Orchestrator", "Launch %s: %s", id, out)
	}
	return out
}
