package cmd

import (
	"github.com/spf13/cobra"
)

// serveCmd runs wakeplay as an MCP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve launch tools to AI assistants over MCP (stdio)",
	Long: `Starts an MCP server on stdin/stdout exposing these tools:

  launch         start a launch and wait for its outcome
  launch_status  show one or all tracked launches
  cancel_launch  cancel a running launch
  list_targets   list the known target profiles

Target files under targets/ are reloaded when they change. When started by
systemd with Type=notify, readiness is reported once the server is up.

Logs go to stderr so they never mix with the protocol stream.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	application, err := newApplication()
	if err != nil {
		return err
	}
	defer application.Close()

	return application.Serve(commandContext(cmd), GetVersion())
}
