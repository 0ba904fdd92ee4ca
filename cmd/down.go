package cmd

import (
	"github.com/spf13/cobra"
)

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Move the focused monitor's windows one workspace down",
	Long: `Moves every normal window on the focused monitor to the next workspace
index (wrapping around), which makes that monitor show the previous
workspace. Other monitors are not touched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSwitchPass(cmd, switchDown)
	},
}

func init() {
	rootCmd.AddCommand(downCmd)
}
