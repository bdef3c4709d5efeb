package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"wakeplay/internal/config"
	"wakeplay/internal/formatting"
	"wakeplay/internal/host"
	"wakeplay/internal/target"
)

// checkParallelism bounds concurrent adb calls while probing targets.
const checkParallelism = 4

// checkCmd reports whether the device and targets are ready for launches.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the device, configuration and installed targets",
	Long: `Check that everything a launch needs is in place:

  device      the adb device answers
  automation  the foreground app can be read
  config      target files parse cleanly
  target/*    which alias of each target is installed

The command fails when the device is unreachable or target files are
invalid. Targets that are not installed are reported as warnings.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkDevice is what the checks need from the device.
type checkDevice interface {
	host.Packages
	IsActive(ctx context.Context) bool
	ForegroundIdentity(ctx context.Context) (string, bool)
}

func runCheck(cmd *cobra.Command, args []string) error {
	formatter, err := newFormatter(cmd)
	if err != nil {
		return err
	}
	application, err := newApplication()
	if err != nil {
		return err
	}
	defer application.Close()

	ctx := commandContext(cmd)
	services := application.Services()

	var checks []formatting.CheckView
	if _, err := services.Files.Snapshot(ctx); err != nil {
		checks = append(checks, formatting.CheckView{Name: "config", Status: formatting.CheckFail, Detail: err.Error()})
	} else {
		checks = append(checks, configCheck(services.Files.Errors()))
	}

	device, err := application.Device()
	if err != nil {
		checks = append(checks, formatting.CheckView{Name: "device", Status: formatting.CheckFail, Detail: err.Error()})
	} else {
		snap := config.SnapshotOrEmpty(ctx, services.Source)
		deviceChecks, err := runDeviceChecks(ctx, device, device.Serial(), snap.Profiles())
		if err != nil {
			return err
		}
		checks = append(checks, deviceChecks...)
	}

	if err := formatter.FormatChecks(cmd.OutOrStdout(), checks); err != nil {
		return err
	}
	for _, c := range checks {
		if c.Status == formatting.CheckFail {
			return fmt.Errorf("check %s failed: %s", c.Name, c.Detail)
		}
	}
	return nil
}

func configCheck(errs *config.ConfigurationErrorCollection) formatting.CheckView {
	if errs.HasErrors() {
		return formatting.CheckView{Name: "config", Status: formatting.CheckFail, Detail: errs.Error()}
	}
	return formatting.CheckView{Name: "config", Status: formatting.CheckOK, Detail: "target files valid"}
}

// runDeviceChecks probes the device and every profile's aliases. Target
// probes run in parallel; results keep the order of profiles.
func runDeviceChecks(ctx context.Context, device checkDevice, serial string, profiles []target.Profile) ([]formatting.CheckView, error) {
	if serial == "" {
		serial = "default device"
	}
	if !device.IsActive(ctx) {
		return []formatting.CheckView{{Name: "device", Status: formatting.CheckFail, Detail: serial + " is not reachable"}}, nil
	}
	checks := []formatting.CheckView{{Name: "device", Status: formatting.CheckOK, Detail: serial}}

	if pkg, ok := device.ForegroundIdentity(ctx); ok {
		checks = append(checks, formatting.CheckView{Name: "automation", Status: formatting.CheckOK, Detail: "foreground: " + pkg})
	} else {
		checks = append(checks, formatting.CheckView{Name: "automation", Status: formatting.CheckWarn, Detail: "foreground app unknown, launches cannot be verified"})
	}

	results := make([]formatting.CheckView, len(profiles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(checkParallelism)
	for i, p := range profiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			name := "target/" + p.ID
			if resolved, ok := target.Resolve(gctx, p, device); ok {
				results[i] = formatting.CheckView{Name: name, Status: formatting.CheckOK, Detail: resolved.Identity}
			} else {
				results[i] = formatting.CheckView{Name: name, Status: formatting.CheckWarn, Detail: "not installed"}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return append(checks, results...), nil
}
