package workspace

import (
	"context"
	"fmt"

	"github.com/firefly-engineering/wsshift/internal/errors"
	"github.com/firefly-engineering/wsshift/internal/host"
	"github.com/firefly-engineering/wsshift/internal/logging"
)

// Gate reports whether automatic resynchronization is currently safe.
type Gate interface {
	Enabled() bool
}

// Recorder receives a report for every finished pass.
type Recorder interface {
	Record(report PassReport) error
}

// PassKind names the operation that produced a PassReport.
type PassKind string

const (
	PassSwitch  PassKind = "switch"
	PassResync  PassKind = "resync"
	PassSkipped PassKind = "skipped"
)

// PassReport summarizes one enumerate-and-relocate pass.
type PassReport struct {
	Kind       PassKind
	Direction  Direction
	Shift      int
	Focused    int
	Workspaces int
	Moved      int
	Skipped    int
}

// Synchronizer relocates windows to simulate per-monitor workspaces.
// It is not safe for concurrent use; the host event loop serializes calls.
type Synchronizer struct {
	host     host.Host
	gate     Gate
	recorder Recorder

	active int

	focusHint    int
	hasFocusHint bool
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithRecorder sets the recorder that receives pass reports.
func WithRecorder(r Recorder) Option {
	return func(s *Synchronizer) {
		s.recorder = r
	}
}

// WithLastActive overrides the last-known active workspace, which
// otherwise starts as the host's current one. Negative values are ignored.
func WithLastActive(ws int) Option {
	return func(s *Synchronizer) {
		if ws >= 0 {
			s.active = ws
		}
	}
}

// New creates a Synchronizer whose last-known active workspace is the
// host's current one.
func New(ctx context.Context, h host.Host, gate Gate, opts ...Option) (*Synchronizer, error) {
	active, err := h.ActiveWorkspace(ctx)
	if err != nil {
		return nil, errors.HostError("active workspace", err)
	}
	s := &Synchronizer{
		host:   h,
		gate:   gate,
		active: active,
	}
	for _, opt := range opts {
		opt(s)
	}
	logging.Debug("synchronizer ready", "host", h.Name(), "active", s.active)
	return s, nil
}

// ActiveWorkspace returns the last-known shared active workspace.
func (s *Synchronizer) ActiveWorkspace() int {
	return s.active
}

// RecordFocusHint remembers the monitor of a window that was activated
// without the pointer following it. The next resync prefers it over the
// host's current-monitor query.
func (s *Synchronizer) RecordFocusHint(monitor int) {
	s.focusHint = monitor
	s.hasFocusHint = true
}

// SwitchOnActiveMonitor moves every normal window on the focused monitor
// one workspace in the given direction.
func (s *Synchronizer) SwitchOnActiveMonitor(ctx context.Context, dir Direction) (PassReport, error) {
	report := PassReport{Kind: PassSwitch, Direction: dir, Shift: int(dir)}

	count, err := s.workspaceCount(ctx)
	if err != nil {
		return report, err
	}
	report.Workspaces = count

	snapshots, err := Capture(ctx, s.host)
	if err != nil {
		return report, errors.HostError("window list", err)
	}
	logging.Debug("switch pass", "direction", dir, "windows", len(snapshots), "workspaces", count)

	focused, err := s.host.FocusedMonitor(ctx)
	if err != nil {
		return report, errors.HostError("focused monitor", err)
	}
	report.Focused = focused

	var selected []Snapshot
	for _, w := range snapshots {
		if w.IsNormal() && w.Monitor == focused {
			selected = append(selected, w)
		}
	}

	s.relocate(ctx, selected, report.Shift, count, &report)
	s.record(report)
	return report, nil
}

// ResyncInactiveMonitors shifts the windows of every monitor except the
// focused one by the change in the shared active workspace since the last
// resync. It does nothing while the gate is disabled.
func (s *Synchronizer) ResyncInactiveMonitors(ctx context.Context) (PassReport, error) {
	if s.gate != nil && !s.gate.Enabled() {
		logging.Debug("not resyncing: automatic switching is disabled")
		report := PassReport{Kind: PassSkipped}
		s.record(report)
		return report, nil
	}

	report := PassReport{Kind: PassResync}

	count, err := s.workspaceCount(ctx)
	if err != nil {
		return report, err
	}
	report.Workspaces = count

	next, err := s.host.ActiveWorkspace(ctx)
	if err != nil {
		return report, errors.HostError("active workspace", err)
	}

	dir := Up
	diff := s.active - next
	if next > s.active {
		dir = Down
		diff = next - s.active
	}
	shift := int(dir) * diff
	report.Direction = dir
	report.Shift = shift

	focused, err := s.focusedMonitor(ctx)
	if err != nil {
		return report, err
	}
	report.Focused = focused

	s.active = next

	logging.Debug("resync pass", "direction", dir, "diff", diff, "focused", focused, "active", next)

	snapshots, err := Capture(ctx, s.host)
	if err != nil {
		return report, errors.HostError("window list", err)
	}

	var selected []Snapshot
	for _, w := range snapshots {
		if w.IsNormal() && w.Monitor != focused {
			selected = append(selected, w)
		}
	}

	s.relocate(ctx, selected, shift, count, &report)
	s.record(report)
	return report, nil
}

func (s *Synchronizer) workspaceCount(ctx context.Context) (int, error) {
	count, err := s.host.WorkspaceCount(ctx)
	if err != nil {
		return 0, errors.HostError("workspace count", err)
	}
	if count <= 0 {
		return 0, errors.HostError("workspace count", fmt.Errorf("host reports %d workspaces", count))
	}
	return count, nil
}

// focusedMonitor consumes the focus hint if one is pending.
func (s *Synchronizer) focusedMonitor(ctx context.Context) (int, error) {
	if s.hasFocusHint {
		s.hasFocusHint = false
		logging.Debug("using focus hint", "monitor", s.focusHint)
		return s.focusHint, nil
	}
	focused, err := s.host.FocusedMonitor(ctx)
	if err != nil {
		return 0, errors.HostError("focused monitor", err)
	}
	return focused, nil
}

// relocate moves each window by shift. A window that can no longer be
// moved is counted as skipped and the pass continues.
func (s *Synchronizer) relocate(ctx context.Context, windows []Snapshot, shift, count int, report *PassReport) {
	for _, w := range windows {
		next := Shift(w.Workspace, shift, count)
		if next == w.Workspace {
			continue
		}
		if err := s.host.MoveToWorkspace(ctx, w.ID, next); err != nil {
			logging.Debug("dropping window from pass", "window", w.ID, "title", w.Title, "error", err)
			report.Skipped++
			continue
		}
		logging.Debug("moved window", "window", w.ID, "title", w.Title, "from", w.Workspace, "to", next)
		report.Moved++
	}
}

func (s *Synchronizer) record(report PassReport) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(report); err != nil {
		logging.Warn("failed to record pass", "kind", report.Kind, "error", err)
	}
}
