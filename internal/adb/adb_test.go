package adb

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wakeplay/internal/host"
)

const sampleActivities = `ACTIVITY MANAGER ACTIVITIES (dumpsys activity activities)
Display #0 (activities from top to bottom):
  * Task{5c1d2e3 #41 type=standard A=10123:com.example.tv U=0 visible=true mode=fullscreen}
    mResumedActivity: ActivityRecord{8a7b6c5 u0 com.example.tv/.player.PlayerActivity t41}
  mFocusedApp=ActivityRecord{8a7b6c5 u0 com.example.tv/.player.PlayerActivity t41}
`

const sampleWindow = `WINDOW MANAGER WINDOWS (dumpsys window windows)
  mCurrentFocus=Window{1f2e3d4 u0 com.google.android.tvlauncher/com.google.android.tvlauncher.MainActivity}
`

const sampleDump = `UI hierchary dumped to: /sdcard/wakeplay_ui.xml
<?xml version='1.0' encoding='UTF-8' standalone='yes' ?><hierarchy rotation="0">
<node index="0" text="" class="android.widget.FrameLayout" package="com.example.tv" content-desc="" clickable="false" enabled="true" bounds="[0,0][1920,1080]">
  <node index="0" text="" class="android.widget.ImageButton" package="com.example.tv" content-desc="Search" clickable="true" enabled="true" bounds="[40,40][120,120]" />
  <node index="1" text="Night Shift" class="android.widget.EditText" package="com.example.tv" content-desc="" clickable="true" enabled="true" bounds="[200,40][900,120]" />
  <node index="2" text="" class="android.widget.LinearLayout" package="com.example.tv" content-desc="" clickable="false" enabled="true" bounds="[0,200][1920,600]">
    <node index="0" text="Night Shift: Season 1" class="android.widget.TextView" package="com.example.tv" content-desc="" clickable="true" enabled="true" bounds="[100,200][500,400]" />
    <node index="1" text="Play" class="android.widget.Button" package="com.example.tv" content-desc="" clickable="true" enabled="false" bounds="[600,200][800,300]" />
  </node>
  <node index="3" text="Play" class="android.widget.Button" package="com.example.tv" content-desc="" clickable="true" enabled="true" bounds="[860,900][1060,1000]" />
</node>
</hierarchy>`

func mockExecCommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	cs := []string{"-test.run=TestHelperProcess", "--", name}
	cs = append(cs, args...)
	cmd := exec.CommandContext(ctx, os.Args[0], cs...)
	cmd.Env = []string{"GO_WANT_HELPER_PROCESS=1"}
	return cmd
}

// TestHelperProcess plays the adb binary for the tests below.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+2:]
			break
		}
	}
	if len(args) > 1 && args[0] == "-s" {
		if args[1] == "offline" {
			fmt.Fprintln(os.Stderr, "error: device offline")
			os.Exit(1)
		}
		args = args[2:]
	}
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "no command")
		os.Exit(2)
	}

	switch args[0] {
	case "get-state":
		fmt.Println("device")
		os.Exit(0)
	case "shell":
		cmd := strings.Join(args[1:], " ")
		switch {
		case strings.HasPrefix(cmd, "am start"):
			fmt.Println("Starting: Intent { act=android.intent.action.VIEW }")
			if strings.Contains(cmd, "nothing.here") {
				fmt.Println("Error: Activity not started, unable to resolve Intent")
			}
			os.Exit(0)
		case strings.HasPrefix(cmd, "am force-stop"):
			os.Exit(0)
		case strings.HasPrefix(cmd, "pm path"):
			if strings.HasSuffix(cmd, "com.example.tv") {
				fmt.Println("package:/data/app/com.example.tv-1/base.apk")
				os.Exit(0)
			}
			os.Exit(1)
		case strings.HasPrefix(cmd, "monkey"):
			if strings.Contains(cmd, "com.example.tv") {
				fmt.Println("Events injected: 1")
			} else {
				fmt.Println("** No activities found to run, monkey aborted.")
			}
			os.Exit(0)
		case cmd == "dumpsys activity activities":
			fmt.Print(sampleActivities)
			os.Exit(0)
		case cmd == "dumpsys window":
			fmt.Print(sampleWindow)
			os.Exit(0)
		case strings.HasPrefix(cmd, "uiautomator dump"):
			fmt.Print(sampleDump)
			os.Exit(0)
		case strings.HasPrefix(cmd, "input"):
			os.Exit(0)
		}
	}

	fmt.Fprintf(os.Stderr, "unknown command: %v\n", args)
	os.Exit(1)
}

func mockClient(t *testing.T, serial string) *Client {
	t.Helper()
	old := execCommandContext
	execCommandContext = mockExecCommandContext
	t.Cleanup(func() { execCommandContext = old })
	return &Client{path: "adb", serial: serial}
}

func TestStartArgs(t *testing.T) {
	tests := []struct {
		name   string
		action host.Action
		want   []string
	}{
		{
			name:   "uri with default action",
			action: host.Action{Identity: "com.example.tv", URI: "example://title/42"},
			want:   []string{"am", "start", "-a", "android.intent.action.VIEW", "-d", "example://title/42", "-p", "com.example.tv"},
		},
		{
			name: "component extras and clear task",
			action: host.Action{
				Identity:  "com.example.tv",
				URI:       "example://title/42",
				Component: "com.example.tv/.MainActivity",
				Extras:    map[string]string{"source": "30", "autoplay": "true"},
				ClearTask: true,
			},
			want: []string{
				"am", "start", "-a", "android.intent.action.VIEW", "-d", "example://title/42",
				"-p", "com.example.tv", "-n", "com.example.tv/.MainActivity",
				"--es", "autoplay", "true", "--es", "source", "30",
				"-f", "0x10008000",
			},
		},
		{
			name:   "component of another alias is dropped",
			action: host.Action{Identity: "com.example.mobile", Action: "android.intent.action.SEARCH", Component: "com.example.tv/.Search"},
			want:   []string{"am", "start", "-a", "android.intent.action.SEARCH", "-p", "com.example.mobile"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, startArgs(tt.action))
		})
	}
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "com.example.tv", shellQuote("com.example.tv"))
	assert.Equal(t, "Night%sShift", shellQuote("Night%sShift"))
	assert.Equal(t, "'https://example.com/watch?v=1&t=2'", shellQuote("https://example.com/watch?v=1&t=2"))
	assert.Equal(t, `'Grey'\''s'`, shellQuote("Grey's"))
}

func TestEscapeInputText(t *testing.T) {
	assert.Equal(t, "Night%sShift", escapeInputText("Night Shift"))
}

func TestParseForeground(t *testing.T) {
	pkg, ok := parseForeground(sampleActivities, resumedPattern)
	require.True(t, ok)
	assert.Equal(t, "com.example.tv", pkg)

	pkg, ok = parseForeground("topResumedActivity=ActivityRecord{1a2b u0 com.other.app/.Main t3}", resumedPattern)
	require.True(t, ok)
	assert.Equal(t, "com.other.app", pkg)

	pkg, ok = parseForeground(sampleWindow, focusPattern)
	require.True(t, ok)
	assert.Equal(t, "com.google.android.tvlauncher", pkg)

	_, ok = parseForeground("nothing resumed", resumedPattern)
	assert.False(t, ok)
}

func TestFindNode(t *testing.T) {
	nodes, err := parseHierarchy(sampleDump)
	require.NoError(t, err)

	tests := []struct {
		name       string
		sel        host.Selector
		wantBounds string
		wantFound  bool
	}{
		{name: "description", sel: host.Selector{Description: "search"}, wantBounds: "[40,40][120,120]", wantFound: true},
		{name: "text contains skips edit field", sel: host.Selector{Text: "Night Shift"}, wantBounds: "[100,200][500,400]", wantFound: true},
		{name: "disabled match skipped", sel: host.Selector{Text: "Play"}, wantBounds: "[860,900][1060,1000]", wantFound: true},
		{name: "package filter", sel: host.Selector{Text: "Play", Package: "com.other"}, wantFound: false},
		{name: "empty selector", sel: host.Selector{}, wantFound: false},
		{name: "missing", sel: host.Selector{Text: "Settings"}, wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := findNode(nodes, tt.sel)
			assert.Equal(t, tt.wantFound, ok)
			if tt.wantFound {
				assert.Equal(t, tt.wantBounds, n.Bounds)
			}
		})
	}
}

func TestUINode_Center(t *testing.T) {
	x, y, ok := UINode{Bounds: "[860,900][1060,1000]"}.Center()
	require.True(t, ok)
	assert.Equal(t, 960, x)
	assert.Equal(t, 950, y)

	_, _, ok = UINode{Bounds: "[0,0][0,0]"}.Center()
	assert.False(t, ok)
}

func TestParseHierarchy_Errors(t *testing.T) {
	_, err := parseHierarchy("ERROR: could not get idle state.")
	assert.Error(t, err)
}

func TestClient_Launching(t *testing.T) {
	c := mockClient(t, "emulator-5554")
	ctx := context.Background()

	require.NoError(t, c.Open(ctx, host.Action{Identity: "com.example.tv", URI: "example://title/42", ClearTask: true}))

	err := c.Open(ctx, host.Action{Identity: "com.example.tv", URI: "nothing.here://x"})
	assert.ErrorIs(t, err, host.ErrNoHandler)

	assert.NoError(t, c.OpenDefault(ctx, "com.example.tv", true))
	assert.ErrorIs(t, c.OpenDefault(ctx, "com.missing", true), host.ErrNotInstalled)
	assert.NoError(t, c.ForceStop(ctx, "com.example.tv"))

	assert.True(t, c.IsInstalled(ctx, "com.example.tv"))
	assert.False(t, c.IsInstalled(ctx, "com.missing"))
}

func TestClient_Automation(t *testing.T) {
	c := mockClient(t, "")
	ctx := context.Background()

	pkg, ok := c.ForegroundIdentity(ctx)
	require.True(t, ok)
	assert.Equal(t, "com.example.tv", pkg)

	assert.True(t, c.IsActive(ctx))
	assert.NoError(t, c.SendKey(ctx, host.KeyDpadCenter))
	assert.NoError(t, c.TypeText(ctx, "Night Shift"))

	clicked, err := c.FindAndClick(ctx, host.Selector{Text: "Play", Package: "com.example.tv"})
	require.NoError(t, err)
	assert.True(t, clicked)

	clicked, err = c.FindAndClick(ctx, host.Selector{Text: "Settings"})
	require.NoError(t, err)
	assert.False(t, clicked)
}

func TestClient_OfflineDevice(t *testing.T) {
	c := mockClient(t, "offline")
	ctx := context.Background()

	assert.False(t, c.IsActive(ctx))
	_, ok := c.ForegroundIdentity(ctx)
	assert.False(t, ok)
	err := c.Open(ctx, host.Action{Identity: "com.example.tv"})
	assert.ErrorIs(t, err, ErrDeviceUnavailable)
}
