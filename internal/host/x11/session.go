// Package x11 implements host.Session for EWMH-compliant window managers.
//
// Workspaces map to EWMH desktops, monitors to Xinerama heads. The active
// workspace notification is the root window's _NET_CURRENT_DESKTOP
// PropertyNotify and window activations come from _NET_ACTIVE_WINDOW.
// Every handler runs on the xevent loop started by Run.
package x11

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	xgbxinerama "github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xinerama"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xrect"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/firefly-engineering/wsshift/internal/errors"
	"github.com/firefly-engineering/wsshift/internal/host"
	"github.com/firefly-engineering/wsshift/internal/logging"
)

// shutdownGrace bounds how long Run waits for the event loop to quit.
const shutdownGrace = 2 * time.Second

// Session is a connection to the X server.
type Session struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	display string

	atomCurrentDesktop xproto.Atom
	atomActiveWindow   xproto.Atom
	atomWake           xproto.Atom
	xineramaReady      bool

	// wake is an unmapped window that receives the client message used
	// to unblock the event loop on shutdown.
	wake *xwindow.Window

	mu                sync.Mutex
	workspaceHandlers map[int]func()
	focusHandlers     map[int]func(int)
	nextHandler       int
	closed            bool
	lost              bool

	closeOnce sync.Once
}

// Connect opens the display ("" for $DISPLAY), selects property changes
// on the root window and prepares hotkey grabs.
func Connect(ctx context.Context, display string) (*Session, error) {
	if err := CheckSession(os.Getenv); err != nil {
		return nil, err
	}

	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, errors.DisplayError(display, err)
	}

	s := &Session{
		xu:                xu,
		root:              xu.RootWin(),
		display:           display,
		workspaceHandlers: make(map[int]func()),
		focusHandlers:     make(map[int]func(int)),
	}

	if s.atomCurrentDesktop, err = xprop.Atm(xu, "_NET_CURRENT_DESKTOP"); err != nil {
		s.Close()
		return nil, errors.HostError("atom lookup", err)
	}
	if s.atomActiveWindow, err = xprop.Atm(xu, "_NET_ACTIVE_WINDOW"); err != nil {
		s.Close()
		return nil, errors.HostError("atom lookup", err)
	}
	if s.atomWake, err = xprop.Atm(xu, "_WSSHIFT_WAKE"); err != nil {
		s.Close()
		return nil, errors.HostError("atom lookup", err)
	}

	if s.wake, err = xwindow.Generate(xu); err != nil {
		s.Close()
		return nil, errors.HostError("wake window", err)
	}
	if err := s.wake.CreateChecked(s.root, -1, -1, 1, 1, 0); err != nil {
		s.wake = nil
		s.Close()
		return nil, errors.HostError("wake window", err)
	}

	if err := xgbxinerama.Init(xu.Conn()); err != nil {
		logging.Debug("xinerama unavailable; treating the root window as one monitor", "error", err)
	} else {
		s.xineramaReady = true
	}

	keybind.Initialize(xu)

	if err := xwindow.New(xu, s.root).Listen(xproto.EventMaskPropertyChange); err != nil {
		s.Close()
		return nil, errors.HostError("root window listen", err)
	}
	xevent.PropertyNotifyFun(s.onPropertyNotify).Connect(xu, s.root)

	name, _ := ewmh.GetEwmhWM(xu)
	logging.Debug("connected to X server", "display", display, "wm", name)
	return s, nil
}

// Name returns the backend identifier
func (s *Session) Name() string {
	return "x11"
}

// Windows lists _NET_CLIENT_LIST. Windows whose desktop or geometry can
// no longer be read, and sticky windows, are left out.
func (s *Session) Windows(ctx context.Context) ([]host.Window, error) {
	clients, err := ewmh.ClientListGet(s.xu)
	if err != nil {
		return nil, err
	}
	heads := s.heads()

	windows := make([]host.Window, 0, len(clients))
	for _, win := range clients {
		desktop, err := ewmh.WmDesktopGet(s.xu, win)
		if err != nil {
			logging.Debug("skipping window without desktop", "window", win, "error", err)
			continue
		}
		if desktop == stickyDesktop {
			continue
		}
		geom, err := xwindow.New(s.xu, win).DecorGeometry()
		if err != nil {
			logging.Debug("skipping window without geometry", "window", win, "error", err)
			continue
		}
		windows = append(windows, host.Window{
			ID:        host.WindowID(win),
			Title:     s.title(win),
			Type:      windowType(ewmh.WmWindowTypeGet(s.xu, win)),
			Monitor:   headFor(geom, heads),
			Workspace: int(desktop),
		})
	}
	return windows, nil
}

func (s *Session) title(win xproto.Window) string {
	if name, err := ewmh.WmNameGet(s.xu, win); err == nil && name != "" {
		return name
	}
	if name, err := icccm.WmNameGet(s.xu, win); err == nil {
		return name
	}
	return ""
}

// heads returns the physical monitors, or the root window as a single
// head when Xinerama is unavailable.
func (s *Session) heads() []xrect.Rect {
	if s.xineramaReady {
		heads, err := xinerama.PhysicalHeads(s.xu)
		if err == nil && len(heads) > 0 {
			return heads
		}
		logging.Debug("xinerama query failed", "error", err)
	}
	return []xrect.Rect{xwindow.RootGeometry(s.xu)}
}

// MoveToWorkspace sends a _NET_WM_DESKTOP request. Focus is not changed.
func (s *Session) MoveToWorkspace(ctx context.Context, id host.WindowID, workspace int) error {
	if workspace < 0 {
		return fmt.Errorf("invalid workspace %d", workspace)
	}
	return ewmh.WmDesktopReq(s.xu, xproto.Window(id), uint(workspace))
}

// WorkspaceCount reads _NET_NUMBER_OF_DESKTOPS.
func (s *Session) WorkspaceCount(ctx context.Context) (int, error) {
	n, err := ewmh.NumberOfDesktopsGet(s.xu)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// ActiveWorkspace reads _NET_CURRENT_DESKTOP.
func (s *Session) ActiveWorkspace(ctx context.Context) (int, error) {
	n, err := ewmh.CurrentDesktopGet(s.xu)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// FocusedMonitor returns the head under the pointer, falling back to the
// head of the active window.
func (s *Session) FocusedMonitor(ctx context.Context) (int, error) {
	heads := s.heads()

	reply, err := xproto.QueryPointer(s.xu.Conn(), s.root).Reply()
	if err == nil {
		if i := headAt(int(reply.RootX), int(reply.RootY), heads); i >= 0 {
			return i, nil
		}
	}

	monitor, activeErr := s.activeWindowMonitor(heads)
	if activeErr != nil {
		if err == nil {
			err = activeErr
		}
		return 0, fmt.Errorf("cannot determine focused monitor: %w", err)
	}
	return monitor, nil
}

func (s *Session) activeWindowMonitor(heads []xrect.Rect) (int, error) {
	win, err := ewmh.ActiveWindowGet(s.xu)
	if err != nil {
		return 0, err
	}
	if win == 0 {
		return 0, fmt.Errorf("no active window")
	}
	geom, err := xwindow.New(s.xu, win).DecorGeometry()
	if err != nil {
		return 0, err
	}
	return headFor(geom, heads), nil
}

// OnActiveWorkspaceChanged subscribes to _NET_CURRENT_DESKTOP changes.
func (s *Session) OnActiveWorkspaceChanged(fn func()) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextHandler
	s.nextHandler++
	s.workspaceHandlers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.workspaceHandlers, id)
	}, nil
}

// OnWindowFocused subscribes to indirect _NET_ACTIVE_WINDOW changes: those
// that activate a window on a head other than the one under the pointer.
func (s *Session) OnWindowFocused(fn func(monitor int)) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextHandler
	s.nextHandler++
	s.focusHandlers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.focusHandlers, id)
	}, nil
}

// FocusTrackingAvailable reports whether _NET_ACTIVE_WINDOW is in
// _NET_SUPPORTED.
func (s *Session) FocusTrackingAvailable(ctx context.Context) bool {
	supported, err := ewmh.SupportedGet(s.xu)
	if err != nil {
		return false
	}
	for _, atom := range supported {
		if atom == "_NET_ACTIVE_WINDOW" {
			return true
		}
	}
	return false
}

func (s *Session) onPropertyNotify(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
	switch ev.Atom {
	case s.atomCurrentDesktop:
		for _, fn := range s.workspaceSubscribers() {
			fn()
		}
	case s.atomActiveWindow:
		subscribers := s.focusSubscribers()
		if len(subscribers) == 0 {
			return
		}
		heads := s.heads()
		monitor, err := s.activeWindowMonitor(heads)
		if err != nil {
			logging.Debug("ignoring activation", "error", err)
			return
		}
		pointer := -1
		if reply, err := xproto.QueryPointer(s.xu.Conn(), s.root).Reply(); err == nil {
			pointer = headAt(int(reply.RootX), int(reply.RootY), heads)
		}
		if !indirectActivation(monitor, pointer) {
			logging.Debug("activation under the pointer; no focus hint", "monitor", monitor)
			return
		}
		for _, fn := range subscribers {
			fn(monitor)
		}
	}
}

func (s *Session) workspaceSubscribers() []func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int, 0, len(s.workspaceHandlers))
	for id := range s.workspaceHandlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.workspaceHandlers[id])
	}
	return fns
}

func (s *Session) focusSubscribers() []func(int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int, 0, len(s.focusHandlers))
	for id := range s.focusHandlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(int), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.focusHandlers[id])
	}
	return fns
}

// BindKey grabs a key combination on the root window, e.g. "Mod4-Control-Up".
func (s *Session) BindKey(binding string, fn func()) error {
	if !s.usable() {
		return errors.HostError("bind key", fmt.Errorf("connection to %s closed", s.displayName()))
	}
	handler := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		fn()
	})
	return handler.Connect(s.xu, s.root, binding, true)
}

// UnbindKeys releases every grab on the root window. It does nothing once
// the connection is closed or lost, since the server drops the grabs then.
func (s *Session) UnbindKeys() {
	if !s.usable() {
		logging.Debug("connection gone; skipping ungrab")
		return
	}
	keybind.Detach(s.xu, s.root)
}

func (s *Session) usable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && !s.lost
}

// Run processes X events until ctx is cancelled or the connection drops.
// Cancellation stops the event loop but leaves the connection open, so
// grabs can still be released before Close.
func (s *Session) Run(ctx context.Context) error {
	before, after, quit := xevent.MainPing(s.xu)
	for {
		select {
		case <-before:
			<-after
		case <-quit:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.mu.Lock()
			s.lost = true
			s.mu.Unlock()
			return errors.HostError("event loop", fmt.Errorf("connection to %s closed", s.displayName()))
		case <-ctx.Done():
			xevent.Quit(s.xu)
			s.wakeLoop()
			s.drain(before, after, quit)
			return ctx.Err()
		}
	}
}

// wakeLoop sends a client message to the wake window. The event loop only
// checks for Quit between events, and nothing else may arrive.
func (s *Session) wakeLoop() {
	if s.wake == nil {
		return
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: s.wake.Id,
		Type:   s.atomWake,
		Data:   xproto.ClientMessageDataUnionData32New(make([]uint32, 5)),
	}
	err := xproto.SendEventChecked(s.xu.Conn(), false, s.wake.Id, xproto.EventMaskNoEvent, string(ev.Bytes())).Check()
	if err != nil {
		logging.Debug("failed to wake event loop", "error", err)
	}
}

func (s *Session) drain(before, after, quit <-chan struct{}) {
	timeout := time.After(shutdownGrace)
	for {
		select {
		case <-before:
			<-after
		case <-quit:
			return
		case <-timeout:
			logging.Debug("event loop did not quit in time")
			return
		}
	}
}

func (s *Session) displayName() string {
	if s.display == "" {
		return os.Getenv("DISPLAY")
	}
	return s.display
}

// Close releases the connection. It is safe to call more than once. A
// connection that already dropped is left to the X library.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		lost := s.lost
		s.closed = true
		s.mu.Unlock()
		if lost {
			return
		}
		if s.wake != nil {
			s.wake.Destroy()
		}
		s.xu.Conn().Close()
	})
	return nil
}

var _ host.Session = (*Session)(nil)
