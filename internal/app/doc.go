// Package app provides the application context for wsshift.
//
// An App replaces package-level singletons: it owns the config, the host
// session and everything built on top of it, using functional options
// for dependency injection.
//
// # Lifecycle
//
//	a := app.New()
//	if err := a.LoadConfig(profile); err != nil { ... }
//
//	// One-shot commands (up, down, resync, windows, status)
//	err := a.Open(ctx)
//
//	// The daemon also subscribes and grabs hotkeys
//	err := a.Activate(ctx)
//	defer a.Close()
//
// Open connects to the host, evaluates the capability gate and builds the
// synchronizer and dispatcher. Activate additionally shows the indicator
// when switching is disabled, attaches the event bridge and binds the
// hotkeys. Deactivate undoes Activate; Close also closes the session.
//
// # Available Options
//
//	WithPaths(paths)          // Custom path configuration
//	WithConfig(cfg)           // Preloaded configuration
//	WithExecutor(exec)        // Preference query executor
//	WithFS(fs)                // Filesystem for the config file
//	WithSessionFactory(f)     // How the host session is opened
//	WithSession(s)            // An already open session
//	WithIndicator(ind)        // Capability indicator
//	WithSyncOptions(opts...)  // Synchronizer options
package app
