package adb

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"wakeplay/internal/host"
	"wakeplay/pkg/logging"
)

const dumpPath = "/sdcard/wakeplay_ui.xml"

var (
	resumedPattern = regexp.MustCompile(`(?:mResumedActivity|topResumedActivity|ResumedActivity)[:=]\s*ActivityRecord\{\S+ \S+ ([A-Za-z0-9_.]+)/`)
	focusPattern   = regexp.MustCompile(`mCurrentFocus=Window\{\S+ \S+ ([A-Za-z0-9_.]+)/`)
)

// ForegroundIdentity returns the package of the resumed activity, falling
// back to the focused window.
func (c *Client) ForegroundIdentity(ctx context.Context) (string, bool) {
	out, err := c.shell(ctx, "dumpsys", "activity", "activities")
	if err == nil {
		if pkg, ok := parseForeground(out, resumedPattern); ok {
			return pkg, true
		}
	} else {
		logging.Debug(subsystem, "dumpsys activity failed: %v", err)
	}

	out, err = c.shell(ctx, "dumpsys", "window")
	if err != nil {
		logging.Debug(subsystem, "dumpsys window failed: %v", err)
		return "", false
	}
	return parseForeground(out, focusPattern)
}

func parseForeground(out string, pattern *regexp.Regexp) (string, bool) {
	m := pattern.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", false
	}
	return m[1], true
}

// SendKey injects a key event.
func (c *Client) SendKey(ctx context.Context, code host.KeyCode) error {
	_, err := c.shell(ctx, "input", "keyevent", strconv.Itoa(int(code)))
	return err
}

// TypeText types into the focused field.
func (c *Client) TypeText(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	_, err := c.shell(ctx, "input", "text", escapeInputText(text))
	return err
}

// escapeInputText encodes spaces the way input text expects them.
func escapeInputText(text string) string {
	return strings.ReplaceAll(text, " ", "%s")
}

// FindAndClick dumps the UI tree and taps the centre of the best match. It
// reports false without error when nothing matches.
func (c *Client) FindAndClick(ctx context.Context, sel host.Selector) (bool, error) {
	out, err := c.run(ctx, "shell", "uiautomator dump "+dumpPath+" >/dev/null && cat "+dumpPath)
	if err != nil {
		return false, err
	}
	nodes, err := parseHierarchy(out)
	if err != nil {
		return false, err
	}

	node, ok := findNode(nodes, sel)
	if !ok {
		logging.Debug(subsystem, "No element matches %s", sel)
		return false, nil
	}
	x, y, _ := node.Center()
	if _, err := c.shell(ctx, "input", "tap", strconv.Itoa(x), strconv.Itoa(y)); err != nil {
		return false, err
	}
	logging.Debug(subsystem, "Tapped %s at %d,%d", sel, x, y)
	return true, nil
}

// IsActive reports whether the device answers and is in the device state.
func (c *Client) IsActive(ctx context.Context) bool {
	out, err := c.run(ctx, "get-state")
	if err != nil {
		logging.Debug(subsystem, "get-state failed: %v", err)
		return false
	}
	return strings.TrimSpace(out) == "device"
}
