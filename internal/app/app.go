// Package app provides the application context for wsshift.
// It owns every long-lived component and allows dependency injection for testing.
package app

import (
	"context"
	"fmt"

	"github.com/firefly-engineering/wsshift/internal/audit"
	"github.com/firefly-engineering/wsshift/internal/capability"
	"github.com/firefly-engineering/wsshift/internal/config"
	"github.com/firefly-engineering/wsshift/internal/dispatch"
	"github.com/firefly-engineering/wsshift/internal/eventbridge"
	"github.com/firefly-engineering/wsshift/internal/host"
	"github.com/firefly-engineering/wsshift/internal/host/x11"
	"github.com/firefly-engineering/wsshift/internal/logging"
	"github.com/firefly-engineering/wsshift/internal/preferences"
	"github.com/firefly-engineering/wsshift/internal/system"
	"github.com/firefly-engineering/wsshift/internal/workspace"
)

// SessionFactory connects to the window manager on the given display.
type SessionFactory func(ctx context.Context, display string) (host.Session, error)

// App holds the application dependencies
type App struct {
	// Paths holds the configured paths
	Paths *config.Paths

	// Config is the loaded configuration; defaults are used when nil
	Config *config.Config

	// Executor runs preference queries
	Executor system.CommandExecutor

	// FS reads the config file
	FS system.FileSystem

	// Connect opens the host session
	Connect SessionFactory

	// Indicator surfaces capability problems
	Indicator capability.Indicator

	// SyncOptions are passed to the synchronizer built by Open
	SyncOptions []workspace.Option

	// Populated by Open.
	Session    host.Session
	Gate       *capability.Gate
	Sync       *workspace.Synchronizer
	Dispatcher *dispatch.Dispatcher
	Journal    *audit.Logger

	// Populated by Activate.
	Bridge *eventbridge.Bridge
	active bool
}

// Option is a function that configures the App
type Option func(*App)

// WithPaths sets custom paths
func WithPaths(paths *config.Paths) Option {
	return func(a *App) {
		a.Paths = paths
	}
}

// WithConfig sets a preloaded configuration
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.Config = cfg
	}
}

// WithExecutor sets the command executor used for preference queries
func WithExecutor(exec system.CommandExecutor) Option {
	return func(a *App) {
		a.Executor = exec
	}
}

// WithFS sets the filesystem used to read the config
func WithFS(fs system.FileSystem) Option {
	return func(a *App) {
		a.FS = fs
	}
}

// WithSessionFactory sets how the host session is opened
func WithSessionFactory(f SessionFactory) Option {
	return func(a *App) {
		a.Connect = f
	}
}

// WithSession uses an already open session
func WithSession(s host.Session) Option {
	return func(a *App) {
		a.Connect = func(context.Context, string) (host.Session, error) {
			return s, nil
		}
	}
}

// WithIndicator sets the capability indicator
func WithIndicator(ind capability.Indicator) Option {
	return func(a *App) {
		a.Indicator = ind
	}
}

// WithSyncOptions adds synchronizer options, e.g. workspace.WithLastActive
func WithSyncOptions(opts ...workspace.Option) Option {
	return func(a *App) {
		a.SyncOptions = append(a.SyncOptions, opts...)
	}
}

// New creates a new App with the given options.
// If no session factory is provided, the X11 backend is used.
func New(opts ...Option) *App {
	app := &App{
		Paths:    config.DefaultPaths(),
		Executor: system.DefaultExecutor(),
		FS:       system.DefaultFS(),
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.Connect == nil {
		app.Connect = connectX11
	}
	if app.Indicator == nil {
		app.Indicator = capability.NewLogIndicator()
	}

	return app
}

func connectX11(ctx context.Context, display string) (host.Session, error) {
	s, err := x11.Connect(ctx, display)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// LoadConfig reads the config file for the given profile ("" for the
// main file) unless a config was injected.
func (a *App) LoadConfig(profile string) error {
	if a.Config != nil {
		return nil
	}
	path, err := a.Paths.ConfigFile(profile)
	if err != nil {
		return err
	}
	cfg, err := config.Load(a.FS, path)
	if err != nil {
		return err
	}
	logging.Debug("loaded config", "path", path, "source", cfg.Preferences.Source)
	a.Config = cfg
	return nil
}

// Open connects to the host and builds the gate, synchronizer and
// dispatcher without subscribing to anything. One-shot commands use it.
func (a *App) Open(ctx context.Context) error {
	if a.Session != nil {
		return nil
	}
	if a.Config == nil {
		a.Config = config.Default()
	}

	source, err := preferences.FromConfig(a.Config.Preferences, a.Executor)
	if err != nil {
		return fmt.Errorf("preferences: %w", err)
	}

	session, err := a.Connect(ctx, a.Config.Daemon.Display)
	if err != nil {
		return err
	}

	gate := capability.New(source, session)
	if err := gate.Evaluate(ctx); err != nil {
		logging.Warn("failed to evaluate capabilities", "error", err)
	}

	syncOpts := append([]workspace.Option(nil), a.SyncOptions...)
	if a.Config.Daemon.Journal {
		path, err := a.Paths.JournalFile()
		if err != nil {
			session.Close()
			return err
		}
		a.Journal = audit.NewLogger(path)
		syncOpts = append(syncOpts, workspace.WithRecorder(a.Journal))
	}

	sync, err := workspace.New(ctx, session, gate, syncOpts...)
	if err != nil {
		session.Close()
		return err
	}

	a.Session = session
	a.Gate = gate
	a.Sync = sync
	a.Dispatcher = dispatch.New(sync, a.Config.Keybindings)
	return nil
}

// Activate opens the session if needed, shows the indicator when the
// gate is disabled, subscribes to workspace changes and grabs the hotkeys.
func (a *App) Activate(ctx context.Context) error {
	if a.active {
		return nil
	}
	if err := a.Open(ctx); err != nil {
		return err
	}

	a.Gate.Refresh(a.Indicator)

	bridge := eventbridge.New(a.Gate, a.Sync, a.Indicator)
	if err := bridge.Attach(ctx, a.Session, a.Session); err != nil {
		return err
	}
	if err := a.Dispatcher.Bind(ctx, a.Session); err != nil {
		bridge.Close()
		return err
	}

	a.Bridge = bridge
	a.active = true
	logging.Info("activated", "host", a.Session.Name(), "enabled", a.Gate.Enabled())
	return nil
}

// Active reports whether Activate has completed without Deactivate.
func (a *App) Active() bool {
	return a.active
}

// Deactivate releases the hotkeys, unsubscribes and removes the
// indicator. The session stays open.
func (a *App) Deactivate() {
	if !a.active {
		return
	}
	a.Dispatcher.Unbind(a.Session)
	a.Bridge.Close()
	a.Indicator.Hide()
	a.Bridge = nil
	a.active = false
	logging.Info("deactivated")
}

// Close deactivates and closes the session.
func (a *App) Close() error {
	a.Deactivate()
	if a.Session == nil {
		return nil
	}
	err := a.Session.Close()
	a.Session = nil
	a.Gate = nil
	a.Sync = nil
	a.Dispatcher = nil
	return err
}
