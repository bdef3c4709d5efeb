package adb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"wakeplay/internal/host"
	"wakeplay/pkg/logging"
)

const subsystem = "ADB"

// DefaultPath is the adb binary looked up on PATH when none is configured.
const DefaultPath = "adb"

// ErrDeviceUnavailable is returned when the device does not answer.
var ErrDeviceUnavailable = errors.New("device unavailable")

// execCommandContext is a variable to allow mocking in tests
var execCommandContext = exec.CommandContext

// Options selects the adb binary and device.
type Options struct {
	// Path to the adb binary; DefaultPath when empty.
	Path string
	// Serial of the device (adb -s); empty uses the only connected device.
	Serial string
}

// Client drives one device through adb.
type Client struct {
	path   string
	serial string
}

var _ host.Host = (*Client)(nil)

// New creates a client. It fails when the adb binary cannot be found.
func New(opts Options) (*Client, error) {
	path := opts.Path
	if path == "" {
		path = DefaultPath
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, fmt.Errorf("adb command not found: %w", err)
	}
	return &Client{path: resolved, serial: opts.Serial}, nil
}

// Serial returns the configured device serial.
func (c *Client) Serial() string {
	return c.serial
}

// run executes adb with args and returns its standard output.
func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	full := args
	if c.serial != "" {
		full = append([]string{"-s", c.serial}, args...)
	}

	logging.Debug(subsystem, "Running: adb %s", strings.Join(full, " "))

	cmd := execCommandContext(ctx, c.path, full...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stdout.String(), ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		if isOffline(msg) {
			return stdout.String(), fmt.Errorf("adb %s: %w: %s", args[0], ErrDeviceUnavailable, msg)
		}
		return stdout.String(), fmt.Errorf("adb %s failed: %w\nOutput: %s", args[0], err, msg)
	}
	return stdout.String(), nil
}

// shell runs a command on the device. Arguments are quoted for the device
// shell.
func (c *Client) shell(ctx context.Context, args ...string) (string, error) {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = shellQuote(a)
	}
	return c.run(ctx, "shell", strings.Join(quoted, " "))
}

func isOffline(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "no devices") ||
		strings.Contains(msg, "device offline") ||
		(strings.Contains(msg, "device") && strings.Contains(msg, "not found"))
}

var shellSafe = regexp.MustCompile(`^[A-Za-z0-9_./:=,@%+-]+$`)

// shellQuote quotes s for the device shell unless it is made of safe
// characters only.
func shellQuote(s string) string {
	if shellSafe.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
