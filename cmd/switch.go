package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/wsshift/internal/app"
	"github.com/firefly-engineering/wsshift/internal/errors"
	"github.com/firefly-engineering/wsshift/internal/workspace"
)

var switchCmd = &cobra.Command{
	Use:   "switch",
	Short: "Move the focused monitor's windows in the given direction",
	Args:  cobra.NoArgs,
	RunE:  runSwitch,
}

var switchDirection directionValue

func init() {
	switchCmd.Flags().Var(&switchDirection, "direction", "Direction to move windows (up or down)")
	_ = switchCmd.MarkFlagRequired("direction")
	rootCmd.AddCommand(switchCmd)
}

type switchFunc func(a *app.App, ctx context.Context) (workspace.PassReport, error)

func switchUp(a *app.App, ctx context.Context) (workspace.PassReport, error) {
	return a.Dispatcher.Up(ctx)
}

func switchDown(a *app.App, ctx context.Context) (workspace.PassReport, error) {
	return a.Dispatcher.Down(ctx)
}

func runSwitch(cmd *cobra.Command, args []string) error {
	if !switchDirection.set {
		return errors.ValidationError("--direction is required")
	}
	dir := switchDirection.dir
	return runSwitchPass(cmd, func(a *app.App, ctx context.Context) (workspace.PassReport, error) {
		return a.Dispatcher.Switch(ctx, dir)
	})
}

func runSwitchPass(cmd *cobra.Command, pass switchFunc) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := pass(a, ctx)
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), report)
	return nil
}
