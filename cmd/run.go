package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/wsshift/internal/daemon"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Bind hotkeys and keep monitors in sync until interrupted",
	Long: `Grabs the configured next/previous hotkeys and listens for workspace
changes. After every change the windows of the monitors without focus are
moved so that only the focused monitor appears to switch.

Runs in the foreground until interrupted. Can be wrapped in a systemd user
service or started from the session's autostart.`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logInfo("Starting wsshift (next: %v, previous: %v)", a.Config.Keybindings.Next, a.Config.Keybindings.Previous)

	err = daemon.New(a).Run(ctx)
	if err == context.Canceled {
		logInfo("wsshift stopped")
		return nil
	}
	return err
}
