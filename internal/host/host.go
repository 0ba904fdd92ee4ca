// Package host defines the window manager capabilities wsshift consumes.
// The X11/EWMH implementation lives in host/x11; MockHost backs the tests.
package host

import "context"

// WindowID identifies a managed top-level window.
type WindowID uint32

// WindowType is the window manager's classification of a window.
type WindowType int

const (
	// TypeNormal is an ordinary application window.
	TypeNormal WindowType = iota
	// TypeOther covers docks, desktops, dialogs, menus and other special windows.
	TypeOther
)

func (t WindowType) String() string {
	if t == TypeNormal {
		return "normal"
	}
	return "other"
}

// Window is a managed window as reported by the host at query time.
type Window struct {
	ID        WindowID
	Title     string
	Type      WindowType
	Monitor   int
	Workspace int
}

// Host is the set of window/workspace queries and the relocation primitive.
// Windows whose handle cannot be resolved are omitted from Windows rather
// than failing the whole query.
type Host interface {
	// Name returns the backend identifier (e.g., "x11", "mock")
	Name() string

	// Windows returns all managed windows.
	Windows(ctx context.Context) ([]Window, error)

	// MoveToWorkspace relocates a window without changing focus or monitor.
	MoveToWorkspace(ctx context.Context, id WindowID, workspace int) error

	// WorkspaceCount returns the current number of workspaces.
	WorkspaceCount(ctx context.Context) (int, error)

	// ActiveWorkspace returns the shared active workspace index.
	ActiveWorkspace(ctx context.Context) (int, error)

	// FocusedMonitor returns the index of the monitor that currently has focus.
	FocusedMonitor(ctx context.Context) (int, error)
}

// WorkspaceNotifier delivers "shared active workspace changed" notifications.
// Handlers run after the host has committed the new index.
type WorkspaceNotifier interface {
	OnActiveWorkspaceChanged(fn func()) (cancel func(), err error)
}

// FocusObserver reports the monitor of each newly activated window,
// including activations that do not move the pointer (keyboard switching).
type FocusObserver interface {
	OnWindowFocused(fn func(monitor int)) (cancel func(), err error)

	// FocusTrackingAvailable reports whether activation events are published.
	FocusTrackingAvailable(ctx context.Context) bool
}

// KeyRegistrar grabs global hotkeys.
type KeyRegistrar interface {
	BindKey(binding string, fn func()) error
	UnbindKeys()
}

// Session is a live connection to the window manager with its event loop.
type Session interface {
	Host
	WorkspaceNotifier
	FocusObserver
	KeyRegistrar

	// Run dispatches host events until ctx is cancelled or the connection drops.
	Run(ctx context.Context) error

	// Close releases the connection.
	Close() error
}
