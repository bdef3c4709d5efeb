package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"wakeplay/internal/orchestrator"
)

func TestSetVersion(t *testing.T) {
	originalVersion := rootCmd.Version
	defer SetVersion(originalVersion)

	SetVersion("1.2.3-test")
	assert.Equal(t, "1.2.3-test", GetVersion())
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "wakeplay", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)

	for _, flag := range []string{"config-path", "debug", "device", "output", "quiet"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestSubcommands(t *testing.T) {
	found := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		found[c.Name()] = true
	}
	for _, expected := range []string{"version", "launch", "targets", "memory", "check", "serve"} {
		assert.True(t, found[expected], "expected subcommand %s", expected)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "generic", err: errors.New("boom"), want: ExitCodeError},
		{name: "not installed", err: orchestrator.Err(orchestrator.NotInstalled{Target: "hulu"}), want: ExitCodeNotInstalled},
		{name: "launch failed", err: orchestrator.Err(orchestrator.Failed{Target: "max", Reason: orchestrator.ErrAutomationUnavailable}), want: ExitCodeLaunchFailed},
		{name: "wrapped failure", err: fmt.Errorf("launch: %w", orchestrator.Failed{Target: "max", Reason: orchestrator.ErrStrategyExhausted}), want: ExitCodeLaunchFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getExitCode(tt.err))
		})
	}
}
