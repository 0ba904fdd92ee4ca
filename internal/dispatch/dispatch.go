// Package dispatch maps the up/down commands onto the synchronizer and
// binds them to global hotkeys.
package dispatch

import (
	"context"

	"github.com/firefly-engineering/wsshift/internal/config"
	"github.com/firefly-engineering/wsshift/internal/errors"
	"github.com/firefly-engineering/wsshift/internal/host"
	"github.com/firefly-engineering/wsshift/internal/logging"
	"github.com/firefly-engineering/wsshift/internal/workspace"
)

// Switcher is the part of the synchronizer the dispatcher drives.
type Switcher interface {
	SwitchOnActiveMonitor(ctx context.Context, dir workspace.Direction) (workspace.PassReport, error)
}

// Dispatcher turns commands and hotkeys into switch passes.
type Dispatcher struct {
	switcher Switcher
	bindings config.Keybindings
}

// New creates a dispatcher for the given switcher and hotkeys.
func New(s Switcher, bindings config.Keybindings) *Dispatcher {
	return &Dispatcher{switcher: s, bindings: bindings}
}

// Up moves the focused monitor's windows to the previous index.
func (d *Dispatcher) Up(ctx context.Context) (workspace.PassReport, error) {
	return d.switcher.SwitchOnActiveMonitor(ctx, workspace.Up)
}

// Down moves the focused monitor's windows to the next index.
func (d *Dispatcher) Down(ctx context.Context) (workspace.PassReport, error) {
	return d.switcher.SwitchOnActiveMonitor(ctx, workspace.Down)
}

// Switch runs the pass for an arbitrary direction.
func (d *Dispatcher) Switch(ctx context.Context, dir workspace.Direction) (workspace.PassReport, error) {
	if dir == workspace.Down {
		return d.Down(ctx)
	}
	return d.Up(ctx)
}

// Bind grabs every configured hotkey: "next" runs Up and "previous" runs
// Down. If any grab fails, the ones already taken are released.
func (d *Dispatcher) Bind(ctx context.Context, reg host.KeyRegistrar) error {
	groups := []struct {
		bindings []string
		dir      workspace.Direction
	}{
		{d.bindings.Next, workspace.Up},
		{d.bindings.Previous, workspace.Down},
	}

	for _, g := range groups {
		for _, binding := range g.bindings {
			if err := reg.BindKey(binding, d.handler(ctx, binding, g.dir)); err != nil {
				reg.UnbindKeys()
				return errors.KeybindError(binding, err)
			}
			logging.Debug("bound hotkey", "binding", binding, "direction", g.dir)
		}
	}
	return nil
}

// Unbind releases every hotkey.
func (d *Dispatcher) Unbind(reg host.KeyRegistrar) {
	reg.UnbindKeys()
}

func (d *Dispatcher) handler(ctx context.Context, binding string, dir workspace.Direction) func() {
	return func() {
		report, err := d.Switch(ctx, dir)
		if err != nil {
			logging.Warn("switch failed", "binding", binding, "direction", dir, "error", err)
			return
		}
		logging.Debug("switch done", "binding", binding, "direction", dir, "moved", report.Moved)
	}
}
