// Package testutil provides test utilities for integration tests
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/firefly-engineering/wsshift/internal/app"
	"github.com/firefly-engineering/wsshift/internal/capability"
	"github.com/firefly-engineering/wsshift/internal/config"
	"github.com/firefly-engineering/wsshift/internal/host"
)

// TestEnv holds the test environment
type TestEnv struct {
	T         *testing.T
	TmpDir    string
	Paths     *config.Paths
	Config    *config.Config
	Host      *host.MockHost
	Indicator *capability.MockIndicator
	App       *app.App
}

// NewTestEnv creates an environment around the dual monitor layout with
// static preferences that enable automatic switching.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	layout, err := DualMonitor()
	if err != nil {
		t.Fatalf("Failed to load layout: %v", err)
	}
	return NewTestEnvWithHost(t, layout.Host())
}

// NewTestEnvWithHost creates an environment around an existing mock.
func NewTestEnvWithHost(t *testing.T, h *host.MockHost) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()
	paths := config.NewPaths(filepath.Join(tmpDir, "config"), filepath.Join(tmpDir, "state"))

	for _, dir := range []string{paths.ConfigDir, paths.StateDir, paths.ProfilesDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	cfg := config.Default()
	cfg.Preferences.Source = config.SourceStatic

	ind := &capability.MockIndicator{}

	env := &TestEnv{
		T:         t,
		TmpDir:    tmpDir,
		Paths:     paths,
		Config:    cfg,
		Host:      h,
		Indicator: ind,
	}
	env.App = env.NewApp()
	return env
}

// NewApp builds a fresh App sharing the environment's host, paths,
// config and indicator.
func (e *TestEnv) NewApp() *app.App {
	return app.New(
		app.WithPaths(e.Paths),
		app.WithConfig(e.Config),
		app.WithSession(e.Host),
		app.WithIndicator(e.Indicator),
	)
}

// WriteConfig writes cfg as the main config file, or as a profile when
// profile is non-empty.
func (e *TestEnv) WriteConfig(profile string, cfg *config.Config) string {
	e.T.Helper()

	path, err := e.Paths.ConfigFile(profile)
	if err != nil {
		e.T.Fatalf("Failed to resolve config path: %v", err)
	}
	data, err := cfg.Marshal()
	if err != nil {
		e.T.Fatalf("Failed to marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		e.T.Fatalf("Failed to write config: %v", err)
	}
	return path
}

// DisableSwitching turns off one of the static preferences so the gate
// evaluates to disabled. It must be called before the App is opened.
func (e *TestEnv) DisableSwitching() {
	e.Config.Preferences.SpanDisplays = false
}

// JournalPath returns the journal location.
func (e *TestEnv) JournalPath() string {
	e.T.Helper()
	path, err := e.Paths.JournalFile()
	if err != nil {
		e.T.Fatalf("JournalFile() error: %v", err)
	}
	return path
}

// WindowsOn returns the IDs of windows currently on the given workspace.
func (e *TestEnv) WindowsOn(workspace int) []host.WindowID {
	var ids []host.WindowID
	windows, err := e.Host.Windows(context.Background())
	if err != nil {
		e.T.Fatalf("Windows() error: %v", err)
	}
	for _, w := range windows {
		if w.Workspace == workspace {
			ids = append(ids, w.ID)
		}
	}
	return ids
}
