package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/firefly-engineering/wsshift/internal/app"
	"github.com/firefly-engineering/wsshift/internal/logging"
	"github.com/firefly-engineering/wsshift/internal/tui"
	"github.com/firefly-engineering/wsshift/internal/workspace"
)

// openApp builds the App and connects to the host. The caller closes it.
func openApp(ctx context.Context, opts ...app.Option) (*app.App, error) {
	a, err := newApp(opts...)
	if err != nil {
		return nil, err
	}
	if err := a.Open(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// directionValue is a pflag.Value for --direction.
type directionValue struct {
	dir workspace.Direction
	set bool
}

func (d *directionValue) String() string {
	if !d.set {
		return ""
	}
	return d.dir.String()
}

func (d *directionValue) Set(s string) error {
	dir, err := workspace.ParseDirection(s)
	if err != nil {
		return err
	}
	d.dir = dir
	d.set = true
	return nil
}

func (d *directionValue) Type() string {
	return "up|down"
}

// outputFormat is a pflag.Value for --output.
type outputFormat string

const (
	outputTable outputFormat = "table"
	outputJSON  outputFormat = "json"
	outputYAML  outputFormat = "yaml"
)

func (o *outputFormat) String() string {
	return string(*o)
}

func (o *outputFormat) Set(s string) error {
	switch f := outputFormat(strings.ToLower(s)); f {
	case outputTable, outputJSON, outputYAML:
		*o = f
		return nil
	}
	return fmt.Errorf("invalid output format %q (must be table, json or yaml)", s)
}

func (o *outputFormat) Type() string {
	return "table|json|yaml"
}

// printReport summarizes a finished pass.
func printReport(w io.Writer, r workspace.PassReport) {
	switch r.Kind {
	case workspace.PassSkipped:
		logWarning("Automatic switching is disabled; nothing moved (see: wsshift status)")
		return
	case workspace.PassResync:
		if r.Shift == 0 {
			logInfo("Active workspace unchanged; nothing to resync")
			return
		}
	}

	fmt.Fprintf(w, "%s %s: moved %d window(s), monitor %d, shift %+d over %d workspaces",
		r.Kind, r.Direction, r.Moved, r.Focused, r.Shift, r.Workspaces)
	if r.Skipped > 0 {
		fmt.Fprintf(w, ", %d failed", r.Skipped)
	}
	fmt.Fprintln(w)
}

// takeSnapshot evaluates the gate and reads the host for the status view.
// A preference read failure leaves the gate disabled and is only logged.
func takeSnapshot(ctx context.Context, a *app.App) (tui.Snapshot, error) {
	if err := a.Gate.Evaluate(ctx); err != nil {
		logging.Warn("failed to evaluate capabilities", "error", err)
	}
	snap := tui.Snapshot{
		State:    a.Gate.State(),
		Problems: a.Gate.Problems(),
	}

	count, err := a.Session.WorkspaceCount(ctx)
	if err != nil {
		return snap, err
	}
	active, err := a.Session.ActiveWorkspace(ctx)
	if err != nil {
		return snap, err
	}
	snap.Workspaces = count
	snap.ActiveWorkspace = active

	windows, err := workspace.Capture(ctx, a.Session)
	if err != nil {
		return snap, err
	}
	monitors := make(map[int]bool)
	for _, w := range windows {
		monitors[w.Monitor] = true
	}
	snap.Monitors = len(monitors)
	return snap, nil
}

var (
	_ pflag.Value = (*directionValue)(nil)
	_ pflag.Value = (*outputFormat)(nil)
)
