// Package eventbridge connects host notifications to the capability gate
// and the synchronizer.
//
// The bridge holds exactly one "active workspace changed" subscription.
// Every delivery re-evaluates the gate, refreshes the warning indicator,
// and then runs a resync pass, in that order. A second subscription to
// window activations feeds the synchronizer's focus hint.
package eventbridge

import (
	"context"
	"sync"

	"github.com/firefly-engineering/wsshift/internal/capability"
	"github.com/firefly-engineering/wsshift/internal/errors"
	"github.com/firefly-engineering/wsshift/internal/host"
	"github.com/firefly-engineering/wsshift/internal/logging"
	"github.com/firefly-engineering/wsshift/internal/workspace"
)

// Resyncer is the part of the synchronizer the bridge drives.
type Resyncer interface {
	ResyncInactiveMonitors(ctx context.Context) (workspace.PassReport, error)
	RecordFocusHint(monitor int)
}

// Bridge routes host events. Handlers run on the host event loop.
type Bridge struct {
	gate      *capability.Gate
	resyncer  Resyncer
	indicator capability.Indicator

	mu      sync.Mutex
	cancels []func()
}

// New creates a detached bridge.
func New(gate *capability.Gate, resyncer Resyncer, indicator capability.Indicator) *Bridge {
	return &Bridge{
		gate:      gate,
		resyncer:  resyncer,
		indicator: indicator,
	}
}

// Attach subscribes to workspace changes and, when available, window
// activations. A failed focus subscription is logged and the bridge runs
// without focus hints.
func (b *Bridge) Attach(ctx context.Context, notifier host.WorkspaceNotifier, focus host.FocusObserver) error {
	cancel, err := notifier.OnActiveWorkspaceChanged(func() {
		b.OnEnvironmentEvent(ctx)
	})
	if err != nil {
		return errors.HostError("workspace subscription", err)
	}
	b.track(cancel)

	if focus == nil {
		return nil
	}
	if !focus.FocusTrackingAvailable(ctx) {
		logging.Warn("focus tracking unavailable; resync will use the pointer monitor")
		return nil
	}
	cancel, err = focus.OnWindowFocused(b.resyncer.RecordFocusHint)
	if err != nil {
		logging.Warn("focus subscription failed; resync will use the pointer monitor", "error", err)
		return nil
	}
	b.track(cancel)
	return nil
}

// OnEnvironmentEvent handles one active workspace change.
func (b *Bridge) OnEnvironmentEvent(ctx context.Context) {
	if err := b.gate.Evaluate(ctx); err != nil {
		logging.Warn("failed to evaluate capabilities", "error", err)
	}
	b.gate.Refresh(b.indicator)

	report, err := b.resyncer.ResyncInactiveMonitors(ctx)
	if err != nil {
		logging.Warn("resync failed", "error", err)
		return
	}
	if report.Kind == workspace.PassResync {
		logging.Debug("resync done", "shift", report.Shift, "focused", report.Focused, "moved", report.Moved)
	}
}

// Attached reports how many subscriptions are live.
func (b *Bridge) Attached() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.cancels)
}

// Close removes every subscription. It is safe to call more than once.
func (b *Bridge) Close() {
	b.mu.Lock()
	cancels := b.cancels
	b.cancels = nil
	b.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

func (b *Bridge) track(cancel func()) {
	if cancel == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cancels = append(b.cancels, cancel)
}
