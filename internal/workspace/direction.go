package workspace

import (
	"fmt"
	"strings"
)

// Direction is the step applied to a window's workspace index.
type Direction int

const (
	// Up moves windows to the previous index, revealing the next workspace.
	Up Direction = -1
	// Down moves windows to the next index, revealing the previous workspace.
	Down Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection accepts "up" or "down" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	}
	return 0, fmt.Errorf("invalid direction %q (must be up or down)", s)
}

// Shift returns the workspace reached from ws after moving by delta over
// count workspaces. The result is always in [0, count).
func Shift(ws, delta, count int) int {
	return ((ws+delta)%count + count) % count
}
