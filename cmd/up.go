package cmd

import (
	"github.com/spf13/cobra"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Move the focused monitor's windows one workspace up",
	Long: `Moves every normal window on the focused monitor to the previous workspace
index (wrapping around), which makes that monitor show the next workspace.
Other monitors are not touched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSwitchPass(cmd, switchUp)
	},
}

func init() {
	rootCmd.AddCommand(upCmd)
}
