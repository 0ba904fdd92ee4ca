package workspace

import (
	"context"
	"fmt"

	"github.com/firefly-engineering/wsshift/internal/host"
)

// Snapshot is a window captured at the start of a pass. Monitor and
// Workspace are not refreshed while the pass runs.
type Snapshot struct {
	ID        host.WindowID   `json:"id" yaml:"id"`
	Title     string          `json:"title" yaml:"title"`
	Type      host.WindowType `json:"-" yaml:"-"`
	Monitor   int             `json:"monitor" yaml:"monitor"`
	Workspace int             `json:"workspace" yaml:"workspace"`
}

// IsNormal reports whether the window is an ordinary application window.
func (s Snapshot) IsNormal() bool {
	return s.Type == host.TypeNormal
}

func (s Snapshot) String() string {
	return fmt.Sprintf("window %d %q type=%s monitor=%d workspace=%d",
		s.ID, s.Title, s.Type, s.Monitor, s.Workspace)
}

// Capture queries the host and returns one snapshot per resolvable window.
func Capture(ctx context.Context, h host.Host) ([]Snapshot, error) {
	windows, err := h.Windows(ctx)
	if err != nil {
		return nil, err
	}
	snapshots := make([]Snapshot, 0, len(windows))
	for _, w := range windows {
		snapshots = append(snapshots, Snapshot{
			ID:        w.ID,
			Title:     w.Title,
			Type:      w.Type,
			Monitor:   w.Monitor,
			Workspace: w.Workspace,
		})
	}
	return snapshots, nil
}
