// Package integration provides workflow tests that exercise complete code
// paths without an X server.
//
// These tests verify that all components work together correctly:
// config loading, preference queries, the capability gate and its
// indicator, the event bridge, hotkeys, passes and the journal.
package integration

import (
	"context"
	"fmt"
	"testing"

	"github.com/firefly-engineering/wsshift/internal/app"
	"github.com/firefly-engineering/wsshift/internal/audit"
	"github.com/firefly-engineering/wsshift/internal/config"
	"github.com/firefly-engineering/wsshift/internal/host"
	"github.com/firefly-engineering/wsshift/internal/system"
	"github.com/firefly-engineering/wsshift/internal/testutil"
)

const (
	dynamicKey       = config.DefaultDynamicWorkspacesCommand
	onlyOnPrimaryKey = config.DefaultOnlyOnPrimaryCommand
)

// gsettingsEnv runs the App with the gsettings source backed by a mock
// executor so preferences can change mid-test.
type gsettingsEnv struct {
	*testutil.TestEnv
	exec *system.MockExecutor
}

func newGSettingsEnv(t *testing.T, h *host.MockHost) *gsettingsEnv {
	t.Helper()
	env := testutil.NewTestEnvWithHost(t, h)
	env.Config.Preferences.Source = config.SourceGSettings

	exec := system.NewMockExecutor()
	exec.AddResponse(dynamicKey, []byte("false\n"), nil)
	exec.AddResponse(onlyOnPrimaryKey, []byte("false\n"), nil)

	env.App = app.New(
		app.WithPaths(env.Paths),
		app.WithConfig(env.Config),
		app.WithSession(env.Host),
		app.WithIndicator(env.Indicator),
		app.WithExecutor(exec),
	)
	return &gsettingsEnv{TestEnv: env, exec: exec}
}

func workspaceOf(t *testing.T, h *host.MockHost, id host.WindowID) int {
	t.Helper()
	w, ok := h.Window(id)
	if !ok {
		t.Fatalf("window %d not found", id)
	}
	return w.Workspace
}

func TestWorkflow_ResyncScenarios(t *testing.T) {
	tests := []struct {
		name       string
		workspaces int
		stored     int
		next       int
		start      int
		want       int
	}{
		{"forward by two", 4, 1, 3, 1, 3},
		{"two workspaces", 2, 0, 1, 1, 0},
		{"backward wraps", 4, 3, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := host.NewMockHost(tt.workspaces)
			h.SetActiveWorkspace(tt.stored)
			h.AddWindow(host.Window{ID: 1, Type: host.TypeNormal, Monitor: 1, Workspace: tt.start})
			h.AddWindow(host.Window{ID: 2, Type: host.TypeNormal, Monitor: 0, Workspace: tt.start})

			env := testutil.NewTestEnvWithHost(t, h)
			if err := env.App.Activate(context.Background()); err != nil {
				t.Fatalf("Activate() error: %v", err)
			}
			defer env.App.Close()

			h.SetActiveWorkspace(tt.next)

			if got := workspaceOf(t, h, 1); got != tt.want {
				t.Errorf("window on the other monitor at %d, want %d", got, tt.want)
			}
			if got := workspaceOf(t, h, 2); got != tt.start {
				t.Errorf("window on the focused monitor moved to %d", got)
			}
			if env.App.Sync.ActiveWorkspace() != tt.next {
				t.Errorf("ActiveWorkspace() = %d, want %d", env.App.Sync.ActiveWorkspace(), tt.next)
			}
		})
	}
}

func TestWorkflow_HotkeyThenResync(t *testing.T) {
	layout, err := testutil.DualMonitor()
	if err != nil {
		t.Fatalf("DualMonitor() error: %v", err)
	}
	env := testutil.NewTestEnvWithHost(t, layout.Host())
	ctx := context.Background()

	if err := env.App.Activate(ctx); err != nil {
		t.Fatalf("Activate() error: %v", err)
	}
	defer env.App.Close()

	// "previous" runs Down on the focused monitor 0.
	if !env.Host.PressKey("Mod4-Control-Up") {
		t.Fatal("previous hotkey not bound")
	}
	if got := workspaceOf(t, env.Host, 1); got != 1 {
		t.Errorf("editor after previous = %d, want 1", got)
	}

	// The window manager then shows workspace 1 everywhere; monitor 1
	// follows so it keeps showing what it showed.
	env.Host.SetActiveWorkspace(1)
	if got := workspaceOf(t, env.Host, 2); got != 1 {
		t.Errorf("terminal after resync = %d, want 1", got)
	}

	events, err := audit.NewLogger(env.JournalPath()).Events()
	if err != nil {
		t.Fatalf("Events() error: %v", err)
	}
	if len(events) != 2 || events[0].Type != audit.EventSwitch || events[1].Type != audit.EventResync {
		t.Errorf("journal = %+v, want switch then resync", events)
	}
}

func TestWorkflow_FocusHint(t *testing.T) {
	layout, err := testutil.DualMonitor()
	if err != nil {
		t.Fatalf("DualMonitor() error: %v", err)
	}
	env := testutil.NewTestEnvWithHost(t, layout.Host())

	if err := env.App.Activate(context.Background()); err != nil {
		t.Fatalf("Activate() error: %v", err)
	}
	defer env.App.Close()

	// A window on monitor 1 was activated without the pointer moving.
	env.Host.ActivateOn(1)
	env.Host.SetActiveWorkspace(1)

	if got := workspaceOf(t, env.Host, 1); got != 1 {
		t.Errorf("editor on monitor 0 = %d, want 1", got)
	}
	if got := workspaceOf(t, env.Host, 2); got != 0 {
		t.Errorf("terminal on the hinted monitor moved to %d", got)
	}

	// The hint is consumed; the next change falls back to the pointer.
	env.Host.SetActiveWorkspace(2)
	if got := workspaceOf(t, env.Host, 2); got != 1 {
		t.Errorf("terminal after second change = %d, want 1", got)
	}
}

func TestWorkflow_PreferencesToggleIndicator(t *testing.T) {
	layout, err := testutil.DualMonitor()
	if err != nil {
		t.Fatalf("DualMonitor() error: %v", err)
	}
	env := newGSettingsEnv(t, layout.Host())

	if err := env.App.Activate(context.Background()); err != nil {
		t.Fatalf("Activate() error: %v", err)
	}
	defer env.App.Close()

	if !env.App.Gate.Enabled() {
		t.Fatalf("gate should start enabled, problems: %v", env.App.Gate.Problems())
	}

	// The user turns on dynamic workspaces.
	env.exec.AddResponse(dynamicKey, []byte("true\n"), nil)
	env.Host.SetActiveWorkspace(1)

	if env.App.Gate.Enabled() {
		t.Error("gate should be disabled after dynamic workspaces were enabled")
	}
	if len(env.Indicator.Shown) == 0 {
		t.Error("indicator should be shown")
	}
	if got := workspaceOf(t, env.Host, 2); got != 0 {
		t.Errorf("terminal moved to %d while disabled", got)
	}

	// Turned back off: the indicator goes away and the next change
	// resyncs from the last enabled index.
	env.exec.AddResponse(dynamicKey, []byte("false\n"), nil)
	hides := env.Indicator.Hides
	env.Host.SetActiveWorkspace(2)

	if env.Indicator.Hides <= hides {
		t.Error("indicator should be hidden once enabled again")
	}
	if got := workspaceOf(t, env.Host, 2); got != 2 {
		t.Errorf("terminal = %d, want 2", got)
	}
}

func TestWorkflow_PreferenceQueryFailure(t *testing.T) {
	layout, err := testutil.DualMonitor()
	if err != nil {
		t.Fatalf("DualMonitor() error: %v", err)
	}
	env := newGSettingsEnv(t, layout.Host())
	env.exec.AddResponse(onlyOnPrimaryKey, nil, fmt.Errorf("gsettings: command not found"))

	if err := env.App.Activate(context.Background()); err != nil {
		t.Fatalf("Activate() error: %v", err)
	}
	defer env.App.Close()

	if env.App.Gate.Enabled() {
		t.Error("gate should fail closed when preferences cannot be read")
	}

	env.Host.SetActiveWorkspace(1)
	if calls := env.Host.GetCallsFor("MoveToWorkspace"); len(calls) != 0 {
		t.Errorf("MoveToWorkspace called %d times", len(calls))
	}
}

func TestWorkflow_DeactivateReleasesEverything(t *testing.T) {
	env := testutil.NewTestEnv(t)

	if err := env.App.Activate(context.Background()); err != nil {
		t.Fatalf("Activate() error: %v", err)
	}
	if ws, focus := env.Host.Subscribers(); ws != 1 || focus != 1 {
		t.Errorf("Subscribers() = %d, %d; want 1, 1", ws, focus)
	}

	env.App.Deactivate()

	if ws, focus := env.Host.Subscribers(); ws != 0 || focus != 0 {
		t.Errorf("Subscribers() after Deactivate = %d, %d", ws, focus)
	}
	if len(env.Host.BoundKeys()) != 0 {
		t.Error("hotkeys still bound")
	}

	env.Host.SetActiveWorkspace(1)
	if calls := env.Host.GetCallsFor("MoveToWorkspace"); len(calls) != 0 {
		t.Error("no pass should run after Deactivate")
	}
	env.App.Close()
}
