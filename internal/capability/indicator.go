package capability

import (
	"strings"
	"sync"

	"github.com/firefly-engineering/wsshift/internal/logging"
)

// Indicator surfaces the gate's problems to the user.
type Indicator interface {
	// Show makes the indicator visible with the given text, creating it
	// on first use and updating the text only when it changed.
	Show(text string)

	// Hide removes the indicator if it is visible.
	Hide()
}

// LogIndicator reports problems through the logger. It warns once per
// distinct summary instead of on every workspace change.
type LogIndicator struct {
	mu      sync.Mutex
	visible bool
	text    string
}

// NewLogIndicator creates a hidden indicator.
func NewLogIndicator() *LogIndicator {
	return &LogIndicator{}
}

func (l *LogIndicator) Show(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.visible && text == l.text {
		return
	}
	if !l.visible {
		logging.Debug("building warning indicator")
	}
	l.visible = true
	l.text = text
	logging.Warn("automatic switching disabled", "problems", strings.Count(text, "\n- "))
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "- ") {
			logging.Warn(strings.TrimPrefix(line, "- "))
		}
	}
}

func (l *LogIndicator) Hide() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.visible {
		return
	}
	logging.Info("automatic switching enabled")
	l.visible = false
	l.text = ""
}

// Visible reports whether the indicator is currently shown.
func (l *LogIndicator) Visible() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.visible
}

// Text returns the text currently shown, or "" when hidden.
func (l *LogIndicator) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}
