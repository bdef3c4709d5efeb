package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"wakeplay/internal/formatting"
	"wakeplay/internal/orchestrator"
	"wakeplay/internal/target"
)

var (
	launchContentType string
	launchIDs         []string
	launchQuery       string
	launchTrace       bool
	launchTimeout     time.Duration
)

// launchCmd runs one launch against the configured device.
var launchCmd = &cobra.Command{
	Use:   "launch <target>",
	Short: "Play content in a streaming app on the device",
	Long: `Launch content in a target app on the connected Android TV device.

The target is a profile id (netflix, youtube, ...) or one of its package
names. Identifiers describe the content; which ones are useful depends on
the target (episodeId, titleId, contentId, channelId, showName, query).

Exit codes:
  0  the content (or, as a last resort, the app) is in the foreground
  2  the target app is not installed
  3  every launch method failed

Examples:
  wakeplay launch netflix --id titleId=80057281
  wakeplay launch youtube --type movie --id id=dQw4w9WgXcQ
  wakeplay launch hulu --query "Only Murders in the Building" --trace`,
	Args: cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		var ids []string
		for _, p := range target.Builtin() {
			ids = append(ids, p.ID)
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runLaunch,
}

func init() {
	rootCmd.AddCommand(launchCmd)

	launchCmd.Flags().StringVarP(&launchContentType, "type", "t", string(target.Episode), "Content type (episode, movie, live)")
	launchCmd.Flags().StringArrayVar(&launchIDs, "id", nil, "Content identifier as name=value (repeatable)")
	launchCmd.Flags().StringVar(&launchQuery, "query", "", "Free-text query used by search and automation")
	launchCmd.Flags().BoolVar(&launchTrace, "trace", false, "Print the launch state transitions")
	launchCmd.Flags().DurationVar(&launchTimeout, "timeout", 3*time.Minute, "Give up after this long (0 disables)")
}

// buildRequest turns the command line into a launch request.
func buildRequest(targetID, contentType string, pairs []string, query string) (target.Request, error) {
	ct, err := target.ParseContentType(contentType)
	if err != nil {
		return target.Request{}, err
	}
	ids, err := target.ParseIdentifiers(pairs)
	if err != nil {
		return target.Request{}, err
	}
	if strings.TrimSpace(query) != "" {
		ids[target.IDQuery] = query
	}
	req := target.Request{Target: targetID, ContentType: ct, Identifiers: ids}
	return req, req.Validate()
}

func runLaunch(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(args[0], launchContentType, launchIDs, launchQuery)
	if err != nil {
		return err
	}
	formatter, err := newFormatter(cmd)
	if err != nil {
		return err
	}

	application, err := newApplication()
	if err != nil {
		return err
	}
	defer application.Close()

	orch, err := application.Orchestrator()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()
	if launchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, launchTimeout)
		defer cancel()
	}

	recorder := &orchestrator.Recorder{}
	observers := []orchestrator.Observer{recorder}

	showSpinner := !rootQuiet && formatter.Options().Format == formatting.FormatTable && isTerminal(os.Stderr)
	var s *spinner.Spinner
	if showSpinner {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		s.Suffix = fmt.Sprintf(" Launching %s...", req.Target)
		s.Start()
		observers = append(observers, spinnerObserver(s, req.Target))
	}

	out := orch.LaunchObserved(ctx, req, orchestrator.ObserverFunc(func(t orchestrator.Transition) {
		for _, o := range observers {
			o.Transition(t)
		}
	}))

	if s != nil {
		s.Stop()
	}

	var trace []orchestrator.Transition
	if launchTrace {
		trace = recorder.Transitions()
	}
	var launchID string
	if ts := recorder.Transitions(); len(ts) > 0 {
		launchID = ts[0].LaunchID
	}

	if err := formatter.FormatOutcome(cmd.OutOrStdout(), formatting.NewOutcomeView(launchID, req.Target, out, trace)); err != nil {
		return err
	}
	return orchestrator.Err(out)
}

// spinnerObserver shows the current launch state next to the spinner.
func spinnerObserver(s *spinner.Spinner, targetID string) orchestrator.Observer {
	return orchestrator.ObserverFunc(func(t orchestrator.Transition) {
		if t.State == orchestrator.StateDone {
			return
		}
		s.Lock()
		s.Suffix = fmt.Sprintf(" Launching %s: %s", targetID, strings.ToLower(strings.ReplaceAll(string(t.State), "_", " ")))
		s.Unlock()
	})
}
