package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"wakeplay/internal/app"
	"wakeplay/internal/formatting"
	"wakeplay/internal/orchestrator"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeNotInstalled indicates the target app is not installed on the device.
	ExitCodeNotInstalled = 2
	// ExitCodeLaunchFailed indicates every launch strategy failed.
	ExitCodeLaunchFailed = 3
)

// Global flags shared by every subcommand.
var (
	rootConfigPath   string
	rootDebug        bool
	rootDevice       string
	rootOutputFormat string
	rootQuiet        bool
)

// rootCmd represents the base command for the wakeplay application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "wakeplay",
	Short: "Launch streaming content on Android TV devices",
	Long: `wakeplay opens a piece of content (an episode, a movie, a live channel)
in a streaming app on an Android TV device connected over adb.

It tries deep links first, then in-app search, then UI automation, and
finally just opens the app, remembering which method worked for next time.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "wakeplay version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	if errors.Is(err, orchestrator.ErrNotInstalled) {
		return ExitCodeNotInstalled
	}

	var failed orchestrator.Failed
	if errors.As(err, &failed) {
		return ExitCodeLaunchFailed
	}

	return ExitCodeError
}

// newApplication bootstraps the application from the global flags.
func newApplication() (*app.Application, error) {
	return app.NewApplication(app.NewConfig(rootDebug, rootConfigPath, rootDevice))
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// newFormatter returns the formatter selected by --output and --quiet.
func newFormatter(cmd *cobra.Command) (formatting.Formatter, error) {
	format, err := formatting.ParseFormat(rootOutputFormat)
	if err != nil {
		return nil, err
	}
	return formatting.New(formatting.Options{
		Format: format,
		Quiet:  rootQuiet,
		Color:  isTerminal(cmd.OutOrStdout()),
	}), nil
}

// isTerminal reports whether w is a character device.
func isTerminal(w interface{}) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func init() {
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config-path", "", "Configuration directory (default: ~/.config/wakeplay)")
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&rootDevice, "device", "s", "", "Serial of the adb device to use (overrides device.serial)")
	rootCmd.PersistentFlags().StringVarP(&rootOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolVarP(&rootQuiet, "quiet", "q", false, "Suppress non-essential output")
}
