package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/wsshift/internal/audit"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Display the record of switch and resync passes",
	Args:  cobra.NoArgs,
	RunE:  runJournal,
}

var (
	journalTail  int
	journalJSON  bool
	journalClear bool
)

func init() {
	journalCmd.Flags().IntVarP(&journalTail, "tail", "n", 0, "Only show the last n events")
	journalCmd.Flags().BoolVar(&journalJSON, "jsonl", false, "Output events as JSON lines")
	journalCmd.Flags().BoolVar(&journalClear, "clear", false, "Delete the journal")
	rootCmd.AddCommand(journalCmd)
}

func runJournal(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	path, err := a.Paths.JournalFile()
	if err != nil {
		return err
	}
	journal := audit.NewLogger(path)

	if journalClear {
		if err := journal.Remove(); err != nil {
			return fmt.Errorf("failed to clear journal: %w", err)
		}
		logSuccess("Journal cleared")
		return nil
	}

	var events []audit.Event
	if journalTail > 0 {
		events, err = journal.Tail(journalTail)
	} else {
		events, err = journal.Events()
	}
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}

	if len(events) == 0 {
		logInfo("No journal entries in %s", path)
		return nil
	}

	out := cmd.OutOrStdout()
	for _, e := range events {
		if journalJSON {
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("failed to marshal event: %w", err)
			}
			fmt.Fprintln(out, string(data))
			continue
		}
		fmt.Fprintln(out, formatEvent(e))
	}

	return nil
}

func formatEvent(e audit.Event) string {
	ts := e.Timestamp.Local().Format("2006-01-02 15:04:05")
	switch e.Type {
	case audit.EventSwitch, audit.EventResync:
		line := fmt.Sprintf("[%s] %-8s %-4s shift %+d, moved %d on monitor %d",
			ts, e.Type, e.Direction, e.Shift, e.Moved, e.Focused)
		if e.Skipped > 0 {
			line += fmt.Sprintf(", %d failed", e.Skipped)
		}
		return line
	}
	if e.Details != "" {
		return fmt.Sprintf("[%s] %-8s %s", ts, e.Type, e.Details)
	}
	return fmt.Sprintf("[%s] %s", ts, e.Type)
}
