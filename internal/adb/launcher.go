package adb

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"wakeplay/internal/host"
	"wakeplay/pkg/logging"
)

const (
	defaultAction = "android.intent.action.VIEW"
	launcherCat   = "android.intent.category.LAUNCHER"

	// FLAG_ACTIVITY_NEW_TASK | FLAG_ACTIVITY_CLEAR_TASK
	clearTaskFlags = "0x10008000"
)

// Open starts the target with am start.
func (c *Client) Open(ctx context.Context, a host.Action) error {
	out, err := c.shell(ctx, startArgs(a)...)
	if err != nil {
		return err
	}
	if msg, failed := startError(out); failed {
		return fmt.Errorf("%s: %w: %s", a.Identity, host.ErrNoHandler, msg)
	}
	logging.Debug(subsystem, "Started %s", a)
	return nil
}

// OpenDefault opens the target's launcher activity through monkey, which
// resolves it without knowing the component. Monkey always starts a new task,
// so clearTask needs no extra flag.
func (c *Client) OpenDefault(ctx context.Context, identity string, clearTask bool) error {
	out, err := c.shell(ctx, "monkey", "-p", identity, "-c", launcherCat, "1")
	if err != nil {
		return err
	}
	if strings.Contains(out, "No activities found") || strings.Contains(out, "monkey aborted") {
		return fmt.Errorf("%s: %w", identity, host.ErrNotInstalled)
	}
	logging.Debug(subsystem, "Opened %s (clearTask=%t)", identity, clearTask)
	return nil
}

// ForceStop stops every process of the target.
func (c *Client) ForceStop(ctx context.Context, identity string) error {
	if _, err := c.shell(ctx, "am", "force-stop", identity); err != nil {
		return err
	}
	logging.Debug(subsystem, "Force-stopped %s", identity)
	return nil
}

// IsInstalled asks the package manager for the identity's APK path.
func (c *Client) IsInstalled(ctx context.Context, identity string) bool {
	out, err := c.shell(ctx, "pm", "path", identity)
	if err != nil {
		logging.Debug(subsystem, "pm path %s: %v", identity, err)
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(out), "package:")
}

// startArgs builds the am start command for a.
func startArgs(a host.Action) []string {
	action := a.Action
	if action == "" {
		action = defaultAction
	}
	args := []string{"am", "start", "-a", action}
	if a.URI != "" {
		args = append(args, "-d", a.URI)
	}
	if a.Identity != "" {
		args = append(args, "-p", a.Identity)
	}
	if a.Component != "" {
		if a.Identity == "" || strings.HasPrefix(a.Component, a.Identity+"/") {
			args = append(args, "-n", a.Component)
		} else {
			logging.Debug(subsystem, "Ignoring component %s for %s", a.Component, a.Identity)
		}
	}

	keys := make([]string, 0, len(a.Extras))
	for k := range a.Extras {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--es", k, a.Extras[k])
	}

	if a.ClearTask {
		args = append(args, "-f", clearTaskFlags)
	}
	return args
}

// startError finds the error line am start prints while exiting 0.
func startError(out string) (string, bool) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Error:") || strings.HasPrefix(line, "Error type") {
			return line, true
		}
	}
	return "", false
}
