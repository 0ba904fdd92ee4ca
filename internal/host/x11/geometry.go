package x11

import (
	"strings"

	"github.com/BurntSushi/xgbutil/xrect"

	"github.com/firefly-engineering/wsshift/internal/errors"
	"github.com/firefly-engineering/wsshift/internal/host"
)

// stickyDesktop is the _NET_WM_DESKTOP value of windows shown on every
// workspace. They never take part in a pass.
const stickyDesktop = 0xFFFFFFFF

const typeNormal = "_NET_WM_WINDOW_TYPE_NORMAL"

// headFor returns the index of the head the rectangle overlaps most,
// or 0 when it overlaps none.
func headFor(r xrect.Rect, heads []xrect.Rect) int {
	if len(heads) == 0 {
		return 0
	}
	if i := xrect.LargestOverlap(r, heads); i >= 0 {
		return i
	}
	return 0
}

// headAt returns the head containing the point, or -1.
func headAt(x, y int, heads []xrect.Rect) int {
	for i, h := range heads {
		if x >= h.X() && x < h.X()+h.Width() && y >= h.Y() && y < h.Y()+h.Height() {
			return i
		}
	}
	return -1
}

// indirectActivation reports whether a window activated on head active
// was focused without the pointer, e.g. from a notification or a taskbar
// on another monitor. A pointer outside every head counts as indirect.
func indirectActivation(active, pointer int) bool {
	return pointer < 0 || active != pointer
}

// windowType classifies a _NET_WM_WINDOW_TYPE list. A window without
// the property is treated as normal.
func windowType(types []string, err error) host.WindowType {
	if err != nil || len(types) == 0 {
		return host.TypeNormal
	}
	for _, t := range types {
		if t == typeNormal {
			return host.TypeNormal
		}
	}
	return host.TypeOther
}

// CheckSession rejects sessions in which X11 clients cannot move other
// applications' windows.
func CheckSession(getenv func(string) string) error {
	session := strings.ToLower(getenv("XDG_SESSION_TYPE"))
	if session == "wayland" || (session == "" && getenv("WAYLAND_DISPLAY") != "" && getenv("DISPLAY") == "") {
		return errors.UnsupportedSession("wayland")
	}
	return nil
}
