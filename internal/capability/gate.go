package capability

import (
	"context"
	"fmt"
	"strings"

	"github.com/firefly-engineering/wsshift/internal/errors"
	"github.com/firefly-engineering/wsshift/internal/logging"
)

// Problem descriptions, in the order Problems reports them.
const (
	ProblemFocusTracking    = "Focus tracking is unavailable: the window manager does not publish _NET_ACTIVE_WINDOW"
	ProblemStaticWorkspaces = `The option "Static Workspaces" is not active`
	ProblemSpanDisplays     = `The option "Workspaces span displays" is not active`

	summaryHeader = "Switch workspaces on active monitor can't work properly, because of the following issues:"
)

// Preferences are the window manager settings the gate depends on.
type Preferences struct {
	StaticWorkspaces bool
	SpanDisplays     bool
}

// PreferenceSource reads the current window manager preferences.
type PreferenceSource interface {
	Name() string
	Read(ctx context.Context) (Preferences, error)
}

// FocusProbe reports whether window activation events are observable.
type FocusProbe interface {
	FocusTrackingAvailable(ctx context.Context) bool
}

// State is the outcome of the last evaluation.
type State struct {
	StaticWorkspaces bool `json:"static_workspaces"`
	SpanDisplays     bool `json:"span_displays"`
	FocusTracking    bool `json:"focus_tracking"`
}

// Enabled reports whether automatic resynchronization is permitted.
// Focus tracking is not required.
func (s State) Enabled() bool {
	return s.StaticWorkspaces && s.SpanDisplays
}

// Degraded reports whether the gate is enabled but focus tracking is missing.
func (s State) Degraded() bool {
	return s.Enabled() && !s.FocusTracking
}

func (s State) String() string {
	return fmt.Sprintf("enabled=%t static_workspaces=%t span_displays=%t focus_tracking=%t",
		s.Enabled(), s.StaticWorkspaces, s.SpanDisplays, s.FocusTracking)
}

// Gate holds the most recent capability state. The zero state is
// disabled until Evaluate succeeds.
type Gate struct {
	source PreferenceSource
	probe  FocusProbe
	state  State
}

// New creates a gate reading preferences from source. probe may be nil,
// in which case focus tracking is reported unavailable.
func New(source PreferenceSource, probe FocusProbe) *Gate {
	return &Gate{source: source, probe: probe}
}

// Evaluate recomputes the state. If the preferences cannot be read the
// gate fails closed and the error is returned.
func (g *Gate) Evaluate(ctx context.Context) error {
	next := State{}
	if g.probe != nil {
		next.FocusTracking = g.probe.FocusTrackingAvailable(ctx)
	}

	var readErr error
	if g.source != nil {
		prefs, err := g.source.Read(ctx)
		if err != nil {
			readErr = errors.ConfigError(fmt.Sprintf("failed to read preferences from %s", g.source.Name()), err)
		} else {
			next.StaticWorkspaces = prefs.StaticWorkspaces
			next.SpanDisplays = prefs.SpanDisplays
		}
	}

	if next != g.state {
		logging.Debug("capability state changed", "from", g.state.String(), "to", next.String())
	}
	g.state = next
	return readErr
}

// Enabled reports whether automatic resynchronization is permitted.
func (g *Gate) Enabled() bool {
	return g.state.Enabled()
}

// State returns the result of the last evaluation.
func (g *Gate) State() State {
	return g.state
}

// Problems lists every unmet condition, focus tracking first.
func (g *Gate) Problems() []string {
	var problems []string
	if !g.state.FocusTracking {
		problems = append(problems, ProblemFocusTracking)
	}
	if !g.state.StaticWorkspaces {
		problems = append(problems, ProblemStaticWorkspaces)
	}
	if !g.state.SpanDisplays {
		problems = append(problems, ProblemSpanDisplays)
	}
	return problems
}

// Summary renders the warning shown while the gate is disabled.
func (g *Gate) Summary() string {
	var b strings.Builder
	b.WriteString(summaryHeader)
	b.WriteString("\n")
	for _, p := range g.Problems() {
		b.WriteString("\n- ")
		b.WriteString(p)
	}
	return b.String()
}

// Refresh shows the indicator while the gate is disabled and hides it
// once the gate is enabled again.
func (g *Gate) Refresh(ind Indicator) {
	if ind == nil {
		return
	}
	if g.Enabled() {
		ind.Hide()
		return
	}
	ind.Show(g.Summary())
}
