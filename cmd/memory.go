package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wakeplay/internal/formatting"
)

// memoryCmd groups the commands that inspect learned launch methods.
var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect and edit remembered launch methods",
	Long: `wakeplay remembers which launch method worked for each target and set
of identifiers, and tries it first next time. These commands show and edit
that memory.

Keys have the form <target>|<name>=<value>,... or <target>|default.`,
}

var memoryListCmd = &cobra.Command{
	Use:   "list [target]",
	Short: "List remembered launch methods",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMemoryList,
}

var memoryForgetCmd = &cobra.Command{
	Use:   "forget <key>",
	Short: "Forget one remembered launch method",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemoryForget,
}

var memoryClearCmd = &cobra.Command{
	Use:   "clear [target]",
	Short: "Forget every remembered launch method, or those of one target",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMemoryClear,
}

func init() {
	rootCmd.AddCommand(memoryCmd)
	memoryCmd.AddCommand(memoryListCmd)
	memoryCmd.AddCommand(memoryForgetCmd)
	memoryCmd.AddCommand(memoryClearCmd)
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func runMemoryList(cmd *cobra.Command, args []string) error {
	formatter, err := newFormatter(cmd)
	if err != nil {
		return err
	}
	application, err := newApplication()
	if err != nil {
		return err
	}
	defer application.Close()

	records, err := application.Services().Memory.List(commandContext(cmd), optionalArg(args))
	if err != nil {
		return fmt.Errorf("failed to list launch methods: %w", err)
	}
	return formatter.FormatMemory(cmd.OutOrStdout(), formatting.MemoryViews(records))
}

func runMemoryForget(cmd *cobra.Command, args []string) error {
	application, err := newApplication()
	if err != nil {
		return err
	}
	defer application.Close()

	if err := application.Services().Memory.Forget(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to forget %s: %w", args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Forgot %s\n", args[0])
	return nil
}

func runMemoryClear(cmd *cobra.Command, args []string) error {
	application, err := newApplication()
	if err != nil {
		return err
	}
	defer application.Close()

	removed, err := application.Services().Memory.Clear(commandContext(cmd), optionalArg(args))
	if err != nil {
		return fmt.Errorf("failed to clear launch methods: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Forgot %d launch methods\n", removed)
	return nil
}
