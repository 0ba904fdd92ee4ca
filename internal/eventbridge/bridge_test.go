package eventbridge

import (
	"context"
	"fmt"
	"testing"

	"github.com/firefly-engineering/wsshift/internal/capability"
	"github.com/firefly-engineering/wsshift/internal/host"
	"github.com/firefly-engineering/wsshift/internal/workspace"
)

type fixture struct {
	host      *host.MockHost
	source    *capability.MockSource
	gate      *capability.Gate
	sync      *workspace.Synchronizer
	indicator *capability.MockIndicator
	bridge    *Bridge
}

func newFixture(t *testing.T, prefs capability.Preferences) *fixture {
	t.Helper()
	f := &fixture{
		host:      host.NewMockHost(4),
		source:    &capability.MockSource{Prefs: prefs},
		indicator: &capability.MockIndicator{},
	}
	f.gate = capability.New(f.source, f.host)

	s, err := workspace.New(context.Background(), f.host, f.gate)
	if err != nil {
		t.Fatalf("workspace.New() error: %v", err)
	}
	f.sync = s
	f.bridge = New(f.gate, s, f.indicator)
	if err := f.bridge.Attach(context.Background(), f.host, f.host); err != nil {
		t.Fatalf("Attach() error: %v", err)
	}
	return f
}

var enabled = capability.Preferences{StaticWorkspaces: true, SpanDisplays: true}

func TestBridge_Attach(t *testing.T) {
	f := newFixture(t, enabled)

	ws, focus := f.host.Subscribers()
	if ws != 1 || focus != 1 {
		t.Errorf("subscribers = %d/%d, want 1/1", ws, focus)
	}
	if f.bridge.Attached() != 2 {
		t.Errorf("Attached() = %d, want 2", f.bridge.Attached())
	}
}

func TestBridge_AttachWithoutFocusTracking(t *testing.T) {
	h := host.NewMockHost(2)
	h.SetFocusTracking(false)
	gate := capability.New(&capability.MockSource{Prefs: enabled}, h)
	s, err := workspace.New(context.Background(), h, gate)
	if err != nil {
		t.Fatalf("workspace.New() error: %v", err)
	}

	b := New(gate, s, nil)
	if err := b.Attach(context.Background(), h, h); err != nil {
		t.Fatalf("Attach() error: %v", err)
	}
	ws, focus := h.Subscribers()
	if ws != 1 || focus != 0 {
		t.Errorf("subscribers = %d/%d, want 1/0", ws, focus)
	}
}

func TestBridge_AttachFocusSubscriptionFails(t *testing.T) {
	h := host.NewMockHost(2)
	h.SetError("OnWindowFocused", fmt.Errorf("no root window"))
	gate := capability.New(&capability.MockSource{Prefs: enabled}, h)
	s, _ := workspace.New(context.Background(), h, gate)

	b := New(gate, s, nil)
	if err := b.Attach(context.Background(), h, h); err != nil {
		t.Fatalf("Attach() should tolerate focus subscription failure: %v", err)
	}
	if b.Attached() != 1 {
		t.Errorf("Attached() = %d, want 1", b.Attached())
	}
}

func TestBridge_AttachWorkspaceSubscriptionFails(t *testing.T) {
	h := host.NewMockHost(2)
	h.SetError("OnActiveWorkspaceChanged", fmt.Errorf("no root window"))
	gate := capability.New(&capability.MockSource{}, h)
	s, _ := workspace.New(context.Background(), h, gate)

	b := New(gate, s, nil)
	if err := b.Attach(context.Background(), h, h); err == nil {
		t.Fatal("expected error")
	}
}

func TestBridge_WorkspaceChangeResyncs(t *testing.T) {
	f := newFixture(t, enabled)
	f.host.AddWindow(host.Window{ID: 1, Monitor: 0, Workspace: 0})
	f.host.AddWindow(host.Window{ID: 2, Monitor: 1, Workspace: 1})

	f.host.SetActiveWorkspace(3)

	if w, _ := f.host.Window(1); w.Workspace != 0 {
		t.Errorf("focused monitor window moved to %d", w.Workspace)
	}
	if w, _ := f.host.Window(2); w.Workspace != 0 {
		t.Errorf("inactive monitor window on %d, want 0", w.Workspace)
	}
	if f.sync.ActiveWorkspace() != 3 {
		t.Errorf("ActiveWorkspace() = %d, want 3", f.sync.ActiveWorkspace())
	}
	if f.source.Reads != 1 {
		t.Errorf("preferences read %d times, want 1", f.source.Reads)
	}
	if f.indicator.Hides != 1 || len(f.indicator.Shown) != 0 {
		t.Errorf("indicator shown=%d hides=%d", len(f.indicator.Shown), f.indicator.Hides)
	}
}

func TestBridge_DisabledGateShowsIndicator(t *testing.T) {
	f := newFixture(t, capability.Preferences{StaticWorkspaces: true})
	f.host.AddWindow(host.Window{ID: 1, Monitor: 1, Workspace: 0})

	f.host.SetActiveWorkspace(2)

	if len(f.indicator.Shown) != 1 {
		t.Fatalf("indicator shown %d times, want 1", len(f.indicator.Shown))
	}
	if calls := f.host.GetCallsFor("MoveToWorkspace"); len(calls) != 0 {
		t.Errorf("got %d moves with gate disabled", len(calls))
	}
	if f.sync.ActiveWorkspace() != 0 {
		t.Errorf("ActiveWorkspace() = %d, want unchanged 0", f.sync.ActiveWorkspace())
	}

	// Once the preference is fixed, the accumulated delta is applied.
	f.source.Prefs = enabled
	f.host.SetActiveWorkspace(3)

	if w, _ := f.host.Window(1); w.Workspace != 3 {
		t.Errorf("window on %d, want 3", w.Workspace)
	}
	if f.indicator.Hides != 1 {
		t.Errorf("indicator hides = %d, want 1", f.indicator.Hides)
	}
}

func TestBridge_FocusHint(t *testing.T) {
	f := newFixture(t, enabled)
	f.host.AddWindow(host.Window{ID: 1, Monitor: 0, Workspace: 0})
	f.host.AddWindow(host.Window{ID: 2, Monitor: 1, Workspace: 0})

	// Keyboard focus moved to monitor 1 while the pointer stayed on 0.
	f.host.ActivateOn(1)
	f.host.SetActiveWorkspace(1)

	if w, _ := f.host.Window(1); w.Workspace != 1 {
		t.Errorf("window on monitor 0 at %d, want 1", w.Workspace)
	}
	if w, _ := f.host.Window(2); w.Workspace != 0 {
		t.Errorf("window on hinted monitor moved to %d", w.Workspace)
	}
}

func TestBridge_ResyncErrorIsLogged(t *testing.T) {
	f := newFixture(t, enabled)
	f.host.SetError("WorkspaceCount", fmt.Errorf("property missing"))

	f.host.SetActiveWorkspace(1)

	if f.sync.ActiveWorkspace() != 0 {
		t.Errorf("ActiveWorkspace() = %d, want unchanged 0", f.sync.ActiveWorkspace())
	}
}

func TestBridge_Close(t *testing.T) {
	f := newFixture(t, enabled)
	f.host.AddWindow(host.Window{ID: 1, Monitor: 1, Workspace: 0})

	f.bridge.Close()
	f.bridge.Close()

	ws, focus := f.host.Subscribers()
	if ws != 0 || focus != 0 {
		t.Errorf("subscribers after Close = %d/%d", ws, focus)
	}

	f.host.SetActiveWorkspace(2)
	if w, _ := f.host.Window(1); w.Workspace != 0 {
		t.Errorf("closed bridge still resynced: window on %d", w.Workspace)
	}
}
