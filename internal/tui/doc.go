// Package tui provides the terminal status view for wsshift.
//
// The status view shows whether automatic switching is enabled, the
// problems keeping it disabled and the workspace the daemon tracks. It
// polls a snapshot function on a fixed interval:
//
//	m := tui.NewStatus(snapshot, tui.WithInterval(2*time.Second))
//	err := tui.RunStatus(ctx, m)
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - key bindings and help
//   - github.com/charmbracelet/lipgloss - Styling
package tui
