package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	xgbxinerama "github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xinerama"
	"github.com/BurntSushi/xgbutil/xrect"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/firefly-engineering/wsshift/internal/config"
	"github.com/firefly-engineering/wsshift/internal/host"
	"github.com/firefly-engineering/wsshift/internal/host/x11"
)

// DefaultTimeout bounds every wait on the window manager.
const DefaultTimeout = 5 * time.Second

// TestHarness provides a session under test and a second connection that
// plays the part of ordinary applications.
type TestHarness struct {
	t       *testing.T
	display string
	paths   *config.Paths

	xu      *xgbutil.XUtil
	session *x11.Session
	heads   []xrect.Rect

	windows []*xwindow.Window
}

// NewHarness connects to the test display.
// It will skip the test if WSSHIFT_INTEGRATION_TESTS is not set.
func NewHarness(t *testing.T) *TestHarness {
	t.Helper()

	if os.Getenv("WSSHIFT_INTEGRATION_TESTS") == "" {
		t.Skip("integration tests disabled (set WSSHIFT_INTEGRATION_TESTS=1 to enable)")
	}

	display := os.Getenv("WSSHIFT_TEST_DISPLAY")
	if display == "" {
		display = os.Getenv("DISPLAY")
	}
	if display == "" {
		t.Skip("no X display (set WSSHIFT_TEST_DISPLAY)")
	}

	tempDir := t.TempDir()
	paths := config.NewPaths(filepath.Join(tempDir, "config"), filepath.Join(tempDir, "state"))
	if err := os.MkdirAll(paths.StateDir, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", paths.StateDir, err)
	}

	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		t.Skipf("cannot connect to %s: %v", display, err)
	}

	if _, err := ewmh.GetEwmhWM(xu); err != nil {
		xu.Conn().Close()
		t.Skipf("no EWMH window manager on %s: %v", display, err)
	}

	session, err := x11.Connect(context.Background(), display)
	if err != nil {
		xu.Conn().Close()
		t.Skipf("failed to open session: %v", err)
	}

	h := &TestHarness{
		t:       t,
		display: display,
		paths:   paths,
		xu:      xu,
		session: session,
	}
	h.heads = h.loadHeads()

	t.Cleanup(h.Cleanup)

	return h
}

func (h *TestHarness) loadHeads() []xrect.Rect {
	if err := xgbxinerama.Init(h.xu.Conn()); err == nil {
		if heads, err := xinerama.PhysicalHeads(h.xu); err == nil && len(heads) > 0 {
			return heads
		}
	}
	return []xrect.Rect{xwindow.RootGeometry(h.xu)}
}

// Session returns the session under test.
func (h *TestHarness) Session() *x11.Session {
	return h.session
}

// Paths returns the test paths.
func (h *TestHarness) Paths() *config.Paths {
	return h.paths
}

// Display returns the display name in use.
func (h *TestHarness) Display() string {
	return h.display
}

// Heads returns the monitors as seen by the harness connection.
func (h *TestHarness) Heads() []xrect.Rect {
	return h.heads
}

// RequireHeads skips the test unless at least n monitors exist.
func (h *TestHarness) RequireHeads(n int) {
	h.t.Helper()
	if len(h.heads) < n {
		h.t.Skipf("need %d monitors, display has %d", n, len(h.heads))
	}
}

// RequireDesktops skips the test unless at least n desktops exist.
func (h *TestHarness) RequireDesktops(n int) {
	h.t.Helper()
	count, err := ewmh.NumberOfDesktopsGet(h.xu)
	if err != nil {
		h.t.Skipf("cannot read desktop count: %v", err)
	}
	if int(count) < n {
		h.t.Skipf("need %d desktops, window manager has %d", n, count)
	}
}

// OpenWindow maps a normal window inside the given head and moves it to
// desktop. It returns once the window manager reports both.
func (h *TestHarness) OpenWindow(title string, head, desktop int) host.WindowID {
	h.t.Helper()

	if head >= len(h.heads) {
		h.t.Fatalf("head %d out of range", head)
	}
	r := h.heads[head]

	win, err := xwindow.Generate(h.xu)
	if err != nil {
		h.t.Fatalf("Failed to allocate window: %v", err)
	}
	win.Create(h.xu.RootWin(), r.X()+r.Width()/4, r.Y()+r.Height()/4, r.Width()/2, r.Height()/2, 0)
	if err := ewmh.WmNameSet(h.xu, win.Id, title); err != nil {
		h.t.Fatalf("Failed to set title: %v", err)
	}
	if err := ewmh.WmWindowTypeSet(h.xu, win.Id, []string{"_NET_WM_WINDOW_TYPE_NORMAL"}); err != nil {
		h.t.Fatalf("Failed to set window type: %v", err)
	}
	win.Map()
	h.windows = append(h.windows, win)

	id := host.WindowID(win.Id)
	if err := h.WaitFor(fmt.Sprintf("%s to be managed", title), func() bool {
		clients, err := ewmh.ClientListGet(h.xu)
		if err != nil {
			return false
		}
		for _, c := range clients {
			if c == win.Id {
				return true
			}
		}
		return false
	}); err != nil {
		h.t.Fatal(err)
	}

	if err := ewmh.WmDesktopReq(h.xu, win.Id, uint(desktop)); err != nil {
		h.t.Fatalf("Failed to request desktop: %v", err)
	}
	h.WaitForDesktop(id, desktop)
	return id
}

// Desktop returns the window's current _NET_WM_DESKTOP.
func (h *TestHarness) Desktop(id host.WindowID) (int, error) {
	d, err := ewmh.WmDesktopGet(h.xu, xproto.Window(id))
	return int(d), err
}

// WaitForDesktop fails the test unless the window reaches desktop.
func (h *TestHarness) WaitForDesktop(id host.WindowID, desktop int) {
	h.t.Helper()
	err := h.WaitFor(fmt.Sprintf("window 0x%x on desktop %d", uint32(id), desktop), func() bool {
		d, err := h.Desktop(id)
		return err == nil && d == desktop
	})
	if err != nil {
		got, _ := h.Desktop(id)
		h.t.Fatalf("%v (at %d)", err, got)
	}
}

// SetCurrentDesktop asks the window manager to change the shared
// desktop and waits for it.
func (h *TestHarness) SetCurrentDesktop(desktop int) {
	h.t.Helper()
	if err := ewmh.CurrentDesktopReq(h.xu, desktop); err != nil {
		h.t.Fatalf("Failed to request desktop %d: %v", desktop, err)
	}
	err := h.WaitFor(fmt.Sprintf("current desktop %d", desktop), func() bool {
		d, err := ewmh.CurrentDesktopGet(h.xu)
		return err == nil && int(d) == desktop
	})
	if err != nil {
		h.t.Fatal(err)
	}
}

// FocusHead moves the pointer to the centre of a head, which is how the
// session determines the focused monitor.
func (h *TestHarness) FocusHead(head int) {
	h.t.Helper()
	r := h.heads[head]
	x, y := r.X()+r.Width()/2, r.Y()+r.Height()/2
	err := xproto.WarpPointerChecked(h.xu.Conn(), xproto.WindowNone, h.xu.RootWin(),
		0, 0, 0, 0, int16(x), int16(y)).Check()
	if err != nil {
		h.t.Fatalf("Failed to warp pointer: %v", err)
	}
}

// WaitFor polls cond until it holds or DefaultTimeout passes.
func (h *TestHarness) WaitFor(what string, cond func() bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		if cond() {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timed out after %v waiting for %s", DefaultTimeout, what)
		case <-ticker.C:
		}
	}
}

// Cleanup destroys the test windows and closes both connections.
func (h *TestHarness) Cleanup() {
	for _, w := range h.windows {
		w.Destroy()
	}
	h.windows = nil
	h.session.Close()
	h.xu.Conn().Close()
}
