// Package daemon runs wsshift in the foreground: hotkeys bound, passive
// resync on every workspace change, until the context is cancelled.
package daemon

import (
	"context"
	"fmt"

	"github.com/firefly-engineering/wsshift/internal/app"
	"github.com/firefly-engineering/wsshift/internal/audit"
	"github.com/firefly-engineering/wsshift/internal/logging"
)

// Daemon drives an App's host event loop.
type Daemon struct {
	app      *app.App
	auditLog *audit.Logger
}

// Option configures a Daemon.
type Option func(*Daemon)

// WithAuditLogger sets the journal for lifecycle events. It defaults to
// the App's journal.
func WithAuditLogger(logger *audit.Logger) Option {
	return func(d *Daemon) {
		d.auditLog = logger
	}
}

// New creates a new Daemon.
func New(a *app.App, opts ...Option) *Daemon {
	d := &Daemon{app: a}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run activates the App and blocks until the context is cancelled or the
// host connection is lost. The App is closed before Run returns.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.app.Activate(ctx); err != nil {
		d.app.Close()
		return err
	}
	defer d.app.Close()

	if d.auditLog == nil {
		d.auditLog = d.app.Journal
	}

	display := d.app.Config.Daemon.Display
	if display == "" {
		display = "default"
	}
	logging.Debug("daemon starting", "host", d.app.Session.Name(), "display", display, "enabled", d.app.Gate.Enabled())
	d.journal(audit.EventStart, fmt.Sprintf("display=%s active=%d", display, d.app.Sync.ActiveWorkspace()))

	err := d.app.Session.Run(ctx)

	d.app.Deactivate()
	if ctx.Err() != nil {
		logging.Debug("daemon stopping")
		d.journal(audit.EventStop, "")
		return ctx.Err()
	}

	logging.Warn("event loop ended", "error", err)
	if err != nil {
		d.journal(audit.EventError, err.Error())
	}
	return err
}

func (d *Daemon) journal(eventType audit.EventType, details string) {
	if d.auditLog == nil {
		return
	}
	if err := d.auditLog.LogEvent(eventType, details); err != nil {
		logging.Warn("failed to write journal", "error", err)
	}
}
