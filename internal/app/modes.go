package app

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"

	"wakeplay/internal/mcpserver"
	"wakeplay/internal/orchestrator"
	"wakeplay/pkg/logging"
)

// Serve runs the MCP stdio server against the configured device.
//
// Behavior:
//   - Watches targets/ and reloads profiles on change
//   - Notifies systemd readiness when run under a unit with Type=notify
//   - Blocks until the client disconnects or SIGINT/SIGTERM arrives
//   - Cancels launches still running on shutdown
func (a *Application) Serve(ctx context.Context, version string) error {
	orch, err := a.Orchestrator()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.services.WatchTargets(ctx); err != nil {
		logging.Warn("Bootstrap", "Target files will not be reloaded on change: %v", err)
	}

	srv := mcpserver.New(orch, a.services.Source, version)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()
	notifySystemd(daemon.SdNotifyReady)

	select {
	case err = <-errCh:
	case <-ctx.Done():
		logging.Info("Bootstrap", "Shutting down")
	}

	notifySystemd(daemon.SdNotifyStopping)
	cancelRunning(orch)
	return err
}

func notifySystemd(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		logging.Warn("Bootstrap", "Failed to notify systemd: %v", err)
		return
	}
	if sent {
		logging.Debug("Bootstrap", "Notified systemd: %s", state)
	}
}

func cancelRunning(orch *orchestrator.Orchestrator) {
	for _, s := range orch.List() {
		if s.Outcome == nil && orch.Cancel(s.ID) {
			logging.Info("Bootstrap", "Cancelled launch %s for %s", s.ID, s.Target)
		}
	}
}
