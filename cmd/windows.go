package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/firefly-engineering/wsshift/internal/workspace"
)

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List managed windows with their monitor and workspace",
	Args:  cobra.NoArgs,
	RunE:  runWindows,
}

var (
	windowsOutput  = outputTable
	windowsMonitor int
)

func init() {
	windowsCmd.Flags().VarP(&windowsOutput, "output", "o", "Output format (table, json or yaml)")
	windowsCmd.Flags().IntVarP(&windowsMonitor, "monitor", "m", -1, "Only list windows on this monitor")
	rootCmd.AddCommand(windowsCmd)
}

// windowRow is a Snapshot with its type spelled out.
type windowRow struct {
	workspace.Snapshot `yaml:",inline"`
	Type               string `json:"type" yaml:"type"`
}

func runWindows(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	snapshots, err := workspace.Capture(ctx, a.Session)
	if err != nil {
		return fmt.Errorf("failed to list windows: %w", err)
	}

	rows := make([]windowRow, 0, len(snapshots))
	for _, s := range snapshots {
		if windowsMonitor >= 0 && s.Monitor != windowsMonitor {
			continue
		}
		rows = append(rows, windowRow{Snapshot: s, Type: s.Type.String()})
	}

	out := cmd.OutOrStdout()
	switch windowsOutput {
	case outputJSON:
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal windows: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	case outputYAML:
		data, err := yaml.Marshal(rows)
		if err != nil {
			return fmt.Errorf("failed to marshal windows: %w", err)
		}
		fmt.Fprint(out, string(data))
		return nil
	}

	if len(rows) == 0 {
		logInfo("No windows found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMONITOR\tWORKSPACE\tTYPE\tTITLE")
	fmt.Fprintln(w, "--\t-------\t---------\t----\t-----")
	for _, r := range rows {
		fmt.Fprintf(w, "0x%x\t%d\t%d\t%s\t%s\n", uint32(r.ID), r.Monitor, r.Workspace, r.Type, r.Title)
	}
	return w.Flush()
}
