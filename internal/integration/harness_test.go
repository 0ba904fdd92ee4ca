package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/firefly-engineering/wsshift/internal/workspace"
)

// TestHarnessSkipsWhenDisabled verifies that the harness skips tests
// when WSSHIFT_INTEGRATION_TESTS is not set.
func TestHarnessSkipsWhenDisabled(t *testing.T) {
	if os.Getenv("WSSHIFT_INTEGRATION_TESTS") != "" {
		h := NewHarness(t)
		if h.Session() == nil {
			t.Error("NewHarness returned no session")
		}
		return
	}

	skipped := t.Run("inner", func(t *testing.T) {
		NewHarness(t)
		t.Error("NewHarness should have skipped")
	})
	if !skipped {
		t.Error("inner test should report success when skipped")
	}
}

func TestX11_WindowsReportsHeadAndDesktop(t *testing.T) {
	h := NewHarness(t)
	h.RequireHeads(2)
	h.RequireDesktops(2)

	left := h.OpenWindow("wsshift-left", 0, 0)
	right := h.OpenWindow("wsshift-right", 1, 1)

	snapshots, err := workspace.Capture(context.Background(), h.Session())
	if err != nil {
		t.Fatalf("Capture() error: %v", err)
	}

	found := 0
	for _, s := range snapshots {
		switch s.ID {
		case left:
			found++
			if s.Monitor != 0 || s.Workspace != 0 || !s.IsNormal() {
				t.Errorf("left = %+v", s)
			}
		case right:
			found++
			if s.Monitor != 1 || s.Workspace != 1 {
				t.Errorf("right = %+v", s)
			}
		}
	}
	if found != 2 {
		t.Errorf("found %d of 2 test windows", found)
	}
}

func TestX11_SwitchOnActiveMonitor(t *testing.T) {
	h := NewHarness(t)
	h.RequireHeads(2)
	h.RequireDesktops(3)
	ctx := context.Background()

	left := h.OpenWindow("wsshift-left", 0, 1)
	right := h.OpenWindow("wsshift-right", 1, 1)
	h.FocusHead(0)

	sync, err := workspace.New(ctx, h.Session(), nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	report, err := sync.SwitchOnActiveMonitor(ctx, workspace.Down)
	if err != nil {
		t.Fatalf("SwitchOnActiveMonitor() error: %v", err)
	}
	if report.Focused != 0 {
		t.Errorf("Focused = %d, want 0", report.Focused)
	}

	h.WaitForDesktop(left, 2)
	if d, _ := h.Desktop(right); d != 1 {
		t.Errorf("window on the other monitor moved to %d", d)
	}
}

func TestX11_ResyncFollowsDesktopChange(t *testing.T) {
	h := NewHarness(t)
	h.RequireHeads(2)
	h.RequireDesktops(4)
	ctx := context.Background()

	h.SetCurrentDesktop(1)
	right := h.OpenWindow("wsshift-right", 1, 1)
	h.FocusHead(0)

	sync, err := workspace.New(ctx, h.Session(), nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	h.SetCurrentDesktop(3)
	report, err := sync.ResyncInactiveMonitors(ctx)
	if err != nil {
		t.Fatalf("ResyncInactiveMonitors() error: %v", err)
	}
	if report.Direction != workspace.Down || report.Shift != 2 {
		t.Errorf("report = %+v, want Down by 2", report)
	}

	h.WaitForDesktop(right, 3)
	if sync.ActiveWorkspace() != 3 {
		t.Errorf("ActiveWorkspace() = %d, want 3", sync.ActiveWorkspace())
	}
}

func TestX11_CancelledRunKeepsConnectionForUngrab(t *testing.T) {
	h := NewHarness(t)
	s := h.Session()

	if err := s.BindKey("Mod4-Control-F12", func() {}); err != nil {
		t.Fatalf("BindKey() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(DefaultTimeout):
		t.Fatal("Run() did not return after cancel")
	}

	s.UnbindKeys()
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	s.UnbindKeys()
	if err := s.BindKey("Mod4-Control-F12", func() {}); err == nil {
		t.Error("BindKey should fail after Close")
	}
}
