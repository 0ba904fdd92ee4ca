// Package testutil provides test fixtures and a mock-backed environment.
//
// # Fixtures
//
// Fixtures are embedded using go:embed:
//
//	fixtures/valid_config.toml
//	fixtures/invalid_config.toml
//	fixtures/unknown_keys.toml
//	fixtures/dual_monitor.json
//
// Config fixtures go through config.Load, so they are validated the same
// way a user's file is:
//
//	cfg, err := testutil.ValidConfig()
//	_, err = testutil.InvalidConfig() // err != nil
//
// Layout fixtures describe a desktop and build a host.MockHost in that
// state:
//
//	layout, _ := testutil.DualMonitor()
//	h := layout.Host()
//
// # Test Environment
//
//	env := testutil.NewTestEnv(t)
//	if err := env.App.Activate(ctx); err != nil { ... }
//	env.Host.SetActiveWorkspace(1)
//	ids := env.WindowsOn(1)
package testutil
