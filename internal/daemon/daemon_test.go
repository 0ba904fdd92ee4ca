package daemon

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/firefly-engineering/wsshift/internal/app"
	"github.com/firefly-engineering/wsshift/internal/audit"
	"github.com/firefly-engineering/wsshift/internal/capability"
	"github.com/firefly-engineering/wsshift/internal/config"
	"github.com/firefly-engineering/wsshift/internal/host"
)

func newTestApp(t *testing.T, h *host.MockHost) *app.App {
	t.Helper()
	cfg := config.Default()
	cfg.Preferences.Source = config.SourceStatic
	dir := t.TempDir()
	return app.New(
		app.WithPaths(config.NewPaths(filepath.Join(dir, "config"), filepath.Join(dir, "state"))),
		app.WithConfig(cfg),
		app.WithSession(h),
		app.WithIndicator(&capability.MockIndicator{}),
	)
}

func TestDaemon_New(t *testing.T) {
	a := newTestApp(t, host.NewMockHost(2))

	d := New(a)
	if d.app != a {
		t.Error("app not set")
	}
	if d.auditLog != nil {
		t.Error("auditLog should default to nil until Run")
	}

	logger := audit.NewLogger(filepath.Join(t.TempDir(), "j.jsonl"))
	d = New(a, WithAuditLogger(logger))
	if d.auditLog != logger {
		t.Error("WithAuditLogger did not set the logger")
	}
}

func TestDaemon_RunUntilCancelled(t *testing.T) {
	h := host.NewMockHost(4)
	a := newTestApp(t, h)
	d := New(a)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- d.Run(ctx)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for len(h.BoundKeys()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("daemon never bound its hotkeys")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	if !h.Closed() {
		t.Error("session should be closed")
	}
	if len(h.BoundKeys()) != 0 {
		t.Error("hotkeys should be released")
	}

	logger := audit.NewLogger(mustJournal(t, a))
	events, err := logger.Events()
	if err != nil {
		t.Fatalf("Events() error: %v", err)
	}
	if len(events) != 2 || events[0].Type != audit.EventStart || events[1].Type != audit.EventStop {
		t.Errorf("journal = %+v, want start/stop", events)
	}
}

func TestDaemon_ShutdownReleasesBeforeClose(t *testing.T) {
	h := host.NewMockHost(4)
	d := New(newTestApp(t, h))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- d.Run(ctx)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for len(h.BoundKeys()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("daemon never bound its hotkeys")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	if len(h.UseAfterClose) != 0 {
		t.Errorf("session used after Close: %v", h.UseAfterClose)
	}
	unbind, closed := callIndex(h, "UnbindKeys"), callIndex(h, "Close")
	if unbind < 0 || closed < 0 {
		t.Fatalf("UnbindKeys at %d, Close at %d; both should be called", unbind, closed)
	}
	if unbind > closed {
		t.Errorf("UnbindKeys (call %d) should come before Close (call %d)", unbind, closed)
	}
}

func callIndex(h *host.MockHost, method string) int {
	for i, call := range h.CallLog {
		if call.Method == method {
			return i
		}
	}
	return -1
}

func TestDaemon_ActivateFailure(t *testing.T) {
	h := host.NewMockHost(2)
	h.SetError("BindKey", fmt.Errorf("BadAccess"))
	d := New(newTestApp(t, h))

	if err := d.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if !h.Closed() {
		t.Error("session should be closed after a failed start")
	}
}

func TestDaemon_EventLoopError(t *testing.T) {
	h := host.NewMockHost(2)
	h.SetError("Run", fmt.Errorf("connection reset"))
	a := newTestApp(t, h)

	err := New(a).Run(context.Background())
	if err == nil || err.Error() != "connection reset" {
		t.Fatalf("Run() = %v, want connection reset", err)
	}

	events, _ := audit.NewLogger(mustJournal(t, a)).Events()
	if len(events) != 2 || events[1].Type != audit.EventError {
		t.Errorf("journal = %+v, want start/error", events)
	}
}

func mustJournal(t *testing.T, a *app.App) string {
	t.Helper()
	path, err := a.Paths.JournalFile()
	if err != nil {
		t.Fatalf("JournalFile() error: %v", err)
	}
	return path
}
