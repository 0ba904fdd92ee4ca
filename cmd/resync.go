package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/wsshift/internal/app"
	"github.com/firefly-engineering/wsshift/internal/workspace"
)

var resyncCmd = &cobra.Command{
	Use:   "resync",
	Short: "Move the other monitors' windows after a workspace change",
	Long: `Runs one resync pass: every normal window on the monitors that do not have
focus is shifted by the difference between the previous and the current
shared workspace, so those monitors keep showing the same windows.

The daemon does this on every workspace change. Run by hand, pass --from
with the workspace that was active before the change.`,
	Args: cobra.NoArgs,
	RunE: runResync,
}

var resyncFrom int

func init() {
	resyncCmd.Flags().IntVar(&resyncFrom, "from", -1, "Workspace index that was active before the change")
	rootCmd.AddCommand(resyncCmd)
}

func runResync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := openApp(ctx, app.WithSyncOptions(workspace.WithLastActive(resyncFrom)))
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.Gate.Enabled() {
		for _, p := range a.Gate.Problems() {
			logWarning("  %s", p)
		}
	}

	report, err := a.Sync.ResyncInactiveMonitors(ctx)
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), report)
	return nil
}
