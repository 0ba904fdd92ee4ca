package testutil

import (
	"context"
	"testing"

	"github.com/firefly-engineering/wsshift/internal/audit"
	"github.com/firefly-engineering/wsshift/internal/host"
)

func TestTestEnv_ResyncMovesInactiveMonitor(t *testing.T) {
	env := NewTestEnv(t)
	ctx := context.Background()

	if err := env.App.Activate(ctx); err != nil {
		t.Fatalf("Activate() error: %v", err)
	}
	defer env.App.Close()

	// Focus stays on monitor 0; monitor 1 follows the workspace change.
	env.Host.SetActiveWorkspace(1)

	terminal, _ := env.Host.Window(2)
	if terminal.Workspace != 1 {
		t.Errorf("terminal workspace = %d, want 1", terminal.Workspace)
	}
	browser, _ := env.Host.Window(3)
	if browser.Workspace != 2 {
		t.Errorf("browser workspace = %d, want 2", browser.Workspace)
	}
	editor, _ := env.Host.Window(1)
	if editor.Workspace != 0 {
		t.Errorf("editor on the focused monitor moved to %d", editor.Workspace)
	}
	panel, _ := env.Host.Window(4)
	if panel.Workspace != 0 {
		t.Errorf("panel should not move, got workspace %d", panel.Workspace)
	}

	events, err := audit.NewLogger(env.JournalPath()).Events()
	if err != nil {
		t.Fatalf("Events() error: %v", err)
	}
	if len(events) != 1 || events[0].Type != audit.EventResync {
		t.Errorf("journal = %+v, want one resync", events)
	}
}

func TestTestEnv_Disabled(t *testing.T) {
	env := NewTestEnv(t)
	env.DisableSwitching()
	env.App = env.NewApp()

	if err := env.App.Activate(context.Background()); err != nil {
		t.Fatalf("Activate() error: %v", err)
	}
	defer env.App.Close()

	env.Host.SetActiveWorkspace(1)

	if ids := env.WindowsOn(1); len(ids) != 1 || ids[0] != host.WindowID(3) {
		t.Errorf("WindowsOn(1) = %v, want only the browser", ids)
	}
	if len(env.Indicator.Shown) == 0 {
		t.Error("indicator should be shown while disabled")
	}
}

func TestTestEnv_WriteConfig(t *testing.T) {
	env := NewTestEnv(t)
	cfg := *env.Config
	cfg.Daemon.Display = ":7"

	env.WriteConfig("work", &cfg)

	a := env.NewApp()
	a.Config = nil
	if err := a.LoadConfig("work"); err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if a.Config.Daemon.Display != ":7" {
		t.Errorf("Display = %q, want %q", a.Config.Daemon.Display, ":7")
	}
}
