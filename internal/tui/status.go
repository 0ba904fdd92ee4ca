package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/wsshift/internal/capability"
)

// DefaultInterval is how often the status view re-evaluates.
const DefaultInterval = 2 * time.Second

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	enabledStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	disabledStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	degradedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(20)

	problemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			PaddingLeft(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

// Snapshot is one reading of the host and the capability gate.
type Snapshot struct {
	State           capability.State `json:"state"`
	Problems        []string         `json:"problems"`
	ActiveWorkspace int              `json:"active_workspace"`
	Workspaces      int              `json:"workspaces"`
	Monitors        int              `json:"monitors"`
	TakenAt         time.Time        `json:"taken_at"`
}

// SnapshotFunc produces a fresh Snapshot.
type SnapshotFunc func(ctx context.Context) (Snapshot, error)

type snapshotMsg struct {
	snap Snapshot
	err  error
}

type tickMsg time.Time

// StatusModel is the bubbletea model of the status view.
type StatusModel struct {
	ctx      context.Context
	snapshot SnapshotFunc
	interval time.Duration

	keys KeyMap
	help help.Model

	current  Snapshot
	err      error
	loaded   bool
	quitting bool
}

// StatusOption configures a StatusModel.
type StatusOption func(*StatusModel)

// WithInterval sets the polling interval. Zero disables polling.
func WithInterval(d time.Duration) StatusOption {
	return func(m *StatusModel) {
		m.interval = d
	}
}

// WithContext sets the context passed to the snapshot function.
func WithContext(ctx context.Context) StatusOption {
	return func(m *StatusModel) {
		m.ctx = ctx
	}
}

// NewStatus creates a status view backed by fn.
func NewStatus(fn SnapshotFunc, opts ...StatusOption) StatusModel {
	m := StatusModel{
		ctx:      context.Background(),
		snapshot: fn,
		interval: DefaultInterval,
		keys:     DefaultKeyMap(),
		help:     help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m StatusModel) Init() tea.Cmd {
	return m.refresh()
}

func (m StatusModel) refresh() tea.Cmd {
	ctx, fn := m.ctx, m.snapshot
	return func() tea.Msg {
		snap, err := fn(ctx)
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m StatusModel) tick() tea.Cmd {
	if m.interval <= 0 {
		return nil
	}
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			return m, m.refresh()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case snapshotMsg:
		m.loaded = true
		m.err = msg.err
		if msg.err == nil {
			m.current = msg.snap
		}
		return m, m.tick()

	case tickMsg:
		return m, m.refresh()
	}

	return m, nil
}

func (m StatusModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("wsshift status"))
	sb.WriteString("\n")

	if !m.loaded {
		sb.WriteString("Evaluating...\n")
	} else {
		sb.WriteString(RenderSnapshot(m.current))
		if m.err != nil {
			sb.WriteString("\n")
			sb.WriteString(errorStyle.Render("Last refresh failed: " + m.err.Error()))
			sb.WriteString("\n")
		}
	}

	sb.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return sb.String()
}

// Current returns the last successful snapshot.
func (m StatusModel) Current() Snapshot {
	return m.current
}

// Err returns the error of the last refresh, if any.
func (m StatusModel) Err() error {
	return m.err
}

// RenderSnapshot formats a snapshot for the terminal. It is also used for
// non-interactive output.
func RenderSnapshot(s Snapshot) string {
	var sb strings.Builder

	status := enabledStyle.Render("enabled")
	switch {
	case !s.State.Enabled():
		status = disabledStyle.Render("disabled")
	case s.State.Degraded():
		status = degradedStyle.Render("enabled (degraded)")
	}

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(label))
		sb.WriteString(value)
		sb.WriteString("\n")
	}

	row("Automatic switching", status)
	row("Static workspaces", yesNo(s.State.StaticWorkspaces))
	row("Span displays", yesNo(s.State.SpanDisplays))
	row("Focus tracking", yesNo(s.State.FocusTracking))
	if s.Workspaces > 0 {
		row("Active workspace", fmt.Sprintf("%d of %d", s.ActiveWorkspace+1, s.Workspaces))
	}
	if s.Monitors > 0 {
		row("Monitors", fmt.Sprintf("%d", s.Monitors))
	}

	if len(s.Problems) > 0 {
		sb.WriteString("\nProblems:\n")
		for _, p := range s.Problems {
			sb.WriteString(problemStyle.Render("- " + p))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// RunStatus runs the status view until the user quits or ctx is done.
func RunStatus(ctx context.Context, m StatusModel) error {
	m.ctx = ctx
	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
