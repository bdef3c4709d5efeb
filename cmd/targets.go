package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"wakeplay/internal/config"
	"wakeplay/internal/formatting"
	"wakeplay/internal/target"
)

var targetsForce bool

// targetsCmd lists the merged target profiles.
var targetsCmd = &cobra.Command{
	Use:     "targets",
	Aliases: []string{"target"},
	Short:   "List the apps wakeplay can launch",
	Long: `List every target profile: the built-in ones and those configured in
targets/*.yaml (or served by remote.url).

Source shows where a profile comes from. Templates are shown as
configured+hardcoded counts.`,
	Args: cobra.NoArgs,
	RunE: runTargetsList,
}

var targetsExportCmd = &cobra.Command{
	Use:   "export <target>",
	Short: "Write a built-in profile to targets/<target>.yaml for editing",
	Long: `Copy a built-in profile into the configuration directory so it can be
customised. Templates exported this way form the configured tier and are
tried before the built-in ones.`,
	Args: cobra.ExactArgs(1),
	RunE: runTargetsExport,
}

var targetsResetCmd = &cobra.Command{
	Use:   "reset <target>",
	Short: "Forget what wakeplay learned about a target",
	Long:  `Drop the remembered launch methods and verified templates of a target.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTargetsReset,
}

func init() {
	rootCmd.AddCommand(targetsCmd)
	targetsCmd.AddCommand(targetsExportCmd)
	targetsCmd.AddCommand(targetsResetCmd)

	targetsExportCmd.Flags().BoolVar(&targetsForce, "force", false, "Overwrite an existing target file")
}

func runTargetsList(cmd *cobra.Command, args []string) error {
	formatter, err := newFormatter(cmd)
	if err != nil {
		return err
	}
	application, err := newApplication()
	if err != nil {
		return err
	}
	defer application.Close()

	snap := config.SnapshotOrEmpty(commandContext(cmd), application.Services().Source)
	return formatter.FormatProfiles(cmd.OutOrStdout(), formatting.ProfileViews(snap))
}

// exportTarget renders a profile as a target file.
func exportTarget(p target.Profile) ([]byte, error) {
	forceStop := p.ForceStop
	picker := p.ProfilePicker
	tc := config.TargetConfig{
		ID:              p.ID,
		Name:            p.Name,
		Aliases:         p.Aliases,
		IDPreference:    p.IDPreference,
		QueryPreference: p.QueryPreference,
		Templates:       p.Templates,
		Search:          p.Search,
		Recipe:          p.Recipe,
		ForceStop:       &forceStop,
		ProfilePicker:   &picker,
	}
	if p.ColdStart > 0 {
		coldStart := p.ColdStart
		tc.ColdStart = &coldStart
	}
	if p.Settle > 0 {
		settle := p.Settle
		tc.Settle = &settle
	}
	return yaml.Marshal(tc)
}

func runTargetsExport(cmd *cobra.Command, args []string) error {
	p, ok := target.LookupBuiltin(args[0])
	if !ok {
		return fmt.Errorf("%s is not a built-in target", args[0])
	}
	application, err := newApplication()
	if err != nil {
		return err
	}
	defer application.Close()

	storage := application.Services().Storage
	if !targetsForce {
		path, err := storage.TargetPath(p.ID)
		if err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if !errors.Is(err, config.ErrTargetNotFound) {
			return err
		}
	}

	data, err := exportTarget(p)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", p.ID, err)
	}
	if err := storage.SaveTarget(p.ID, data); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to targets/%s.yaml\n", p.ID, p.ID)
	return nil
}

func runTargetsReset(cmd *cobra.Command, args []string) error {
	application, err := newApplication()
	if err != nil {
		return err
	}
	defer application.Close()

	ctx := commandContext(cmd)
	services := application.Services()
	removed, err := services.Memory.Clear(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to clear launch methods: %w", err)
	}
	if err := services.Verified.Reset(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to clear verified templates: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Forgot %d launch methods and the verified templates of %s\n", removed, args[0])
	return nil
}
