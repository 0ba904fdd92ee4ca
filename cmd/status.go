package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/firefly-engineering/wsshift/internal/app"
	"github.com/firefly-engineering/wsshift/internal/tui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether automatic switching can work",
	Long: `Evaluates the window manager preferences and focus tracking and prints
the problems that keep automatic switching disabled, if any.

With --watch on a terminal, the status is shown as a live view that
re-evaluates periodically.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

var (
	statusWatch    bool
	statusInterval time.Duration
	statusOutput   = outputTable
)

// isTerminal reports whether stdout is interactive. Tests replace it.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func init() {
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "Keep re-evaluating in a live view")
	statusCmd.Flags().DurationVar(&statusInterval, "interval", tui.DefaultInterval, "Re-evaluation interval for --watch")
	statusCmd.Flags().VarP(&statusOutput, "output", "o", "Output format (table, json or yaml)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	snapshot := func(ctx context.Context) (tui.Snapshot, error) {
		return takeSnapshot(ctx, a)
	}

	if statusWatch && statusOutput == outputTable && isTerminal() {
		m := tui.NewStatus(snapshot, tui.WithInterval(statusInterval))
		return tui.RunStatus(ctx, m)
	}

	snap, err := snapshot(ctx)
	if err != nil {
		return err
	}
	return writeStatus(cmd, a, snap)
}

func writeStatus(cmd *cobra.Command, a *app.App, snap tui.Snapshot) error {
	out := cmd.OutOrStdout()
	snap.TakenAt = time.Now().UTC()

	switch statusOutput {
	case outputJSON:
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case outputYAML:
		data, err := yaml.Marshal(snap)
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		fmt.Fprint(out, string(data))
	default:
		fmt.Fprint(out, tui.RenderSnapshot(snap))
		if !snap.State.Enabled() {
			fmt.Fprintln(out)
			fmt.Fprintln(out, a.Gate.Summary())
		}
	}
	return nil
}
