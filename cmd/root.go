package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/wsshift/internal/app"
	"github.com/firefly-engineering/wsshift/internal/logging"
)

var (
	verbose    bool
	jsonOutput bool
	profile    string
)

var rootCmd = &cobra.Command{
	Use:   "wsshift",
	Short: "Per-monitor workspace switching for shared-workspace window managers",
	Long: `wsshift makes each monitor appear to switch workspaces independently on a
window manager that only has one workspace index for all monitors.

It does this by moving windows between workspaces:
  - up/down move the windows of the focused monitor by one workspace
  - run binds hotkeys for up/down and, whenever the shared workspace
    changes, moves the other monitors' windows back into view

Automatic switching needs a fixed number of workspaces that span all
displays; status explains what is missing when it is disabled.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, os.Stderr)
	},
}

// newApp builds the App for a command. Tests replace it.
var newApp = func(opts ...app.Option) (*app.App, error) {
	a := app.New(opts...)
	if err := a.LoadConfig(profile); err != nil {
		return nil, err
	}
	return a, nil
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "Use the named config profile")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
)
