package testutil

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/firefly-engineering/wsshift/internal/config"
	"github.com/firefly-engineering/wsshift/internal/host"
	"github.com/firefly-engineering/wsshift/internal/system"
)

//go:embed fixtures/*.toml fixtures/*.json
var fixturesFS embed.FS

// LoadFixture loads a fixture file by name.
func LoadFixture(name string) ([]byte, error) {
	return fixturesFS.ReadFile("fixtures/" + name)
}

// LoadConfigFixture parses a TOML fixture through config.Load, so
// validation and unknown-key checks apply.
func LoadConfigFixture(name string) (*config.Config, error) {
	data, err := LoadFixture(name)
	if err != nil {
		return nil, err
	}
	fs := system.NewMockFS()
	fs.AddFile("/fixtures/"+name, data)
	return config.Load(fs, "/fixtures/"+name)
}

// ValidConfig returns the valid config fixture.
func ValidConfig() (*config.Config, error) {
	return LoadConfigFixture("valid_config.toml")
}

// InvalidConfig returns the invalid config fixture. Load is expected to
// reject it.
func InvalidConfig() (*config.Config, error) {
	return LoadConfigFixture("invalid_config.toml")
}

// LayoutWindow is a window as written in a layout fixture.
type LayoutWindow struct {
	ID        uint32 `json:"id"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	Monitor   int    `json:"monitor"`
	Workspace int    `json:"workspace"`
}

// Layout describes a desktop: workspace count, active workspace, focused
// monitor and the windows on it.
type Layout struct {
	Workspaces int            `json:"workspaces"`
	Active     int            `json:"active"`
	Focused    int            `json:"focused"`
	Windows    []LayoutWindow `json:"windows"`
}

// LoadLayout loads a JSON layout fixture.
func LoadLayout(name string) (*Layout, error) {
	data, err := LoadFixture(name)
	if err != nil {
		return nil, err
	}
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse layout %s: %w", name, err)
	}
	return &l, nil
}

// DualMonitor returns the two-monitor layout fixture.
func DualMonitor() (*Layout, error) {
	return LoadLayout("dual_monitor.json")
}

// HostWindows converts the layout's windows.
func (l *Layout) HostWindows() []host.Window {
	windows := make([]host.Window, 0, len(l.Windows))
	for _, w := range l.Windows {
		typ := host.TypeNormal
		if w.Type != "" && w.Type != host.TypeNormal.String() {
			typ = host.TypeOther
		}
		windows = append(windows, host.Window{
			ID:        host.WindowID(w.ID),
			Title:     w.Title,
			Type:      typ,
			Monitor:   w.Monitor,
			Workspace: w.Workspace,
		})
	}
	return windows
}

// Host builds a MockHost in the layout's state. Call it before anything
// subscribes to the host.
func (l *Layout) Host() *host.MockHost {
	h := host.NewMockHost(l.Workspaces)
	h.SetActiveWorkspace(l.Active)
	h.SetFocusedMonitor(l.Focused)
	for _, w := range l.HostWindows() {
		h.AddWindow(w)
	}
	return h
}
