package preferences

import (
	"context"
	"fmt"
	"strings"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/wsshift/internal/capability"
	"github.com/firefly-engineering/wsshift/internal/config"
	"github.com/firefly-engineering/wsshift/internal/logging"
	"github.com/firefly-engineering/wsshift/internal/system"
)

// GSettings reads preferences by running query commands.
type GSettings struct {
	exec          system.CommandExecutor
	dynamic       []string
	onlyOnPrimary []string
}

// NewGSettings creates a source from two command lines, each printing a
// boolean.
func NewGSettings(exec system.CommandExecutor, dynamicCmd, onlyOnPrimaryCmd string) (*GSettings, error) {
	dynamic, err := config.SplitCommand(dynamicCmd)
	if err != nil {
		return nil, fmt.Errorf("dynamic workspaces command: %w", err)
	}
	onlyOnPrimary, err := config.SplitCommand(onlyOnPrimaryCmd)
	if err != nil {
		return nil, fmt.Errorf("only-on-primary command: %w", err)
	}
	return &GSettings{exec: exec, dynamic: dynamic, onlyOnPrimary: onlyOnPrimary}, nil
}

func (g *GSettings) Name() string {
	return "gsettings"
}

// Read runs both commands and inverts their results.
func (g *GSettings) Read(ctx context.Context) (capability.Preferences, error) {
	dynamic, err := g.query(ctx, g.dynamic)
	if err != nil {
		return capability.Preferences{}, err
	}
	onlyOnPrimary, err := g.query(ctx, g.onlyOnPrimary)
	if err != nil {
		return capability.Preferences{}, err
	}
	return capability.Preferences{
		StaticWorkspaces: !dynamic,
		SpanDisplays:     !onlyOnPrimary,
	}, nil
}

func (g *GSettings) query(ctx context.Context, argv []string) (bool, error) {
	out, err := g.exec.Execute(ctx, argv[0], argv[1:]...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", shellquote.Join(argv...), err)
	}
	v, err := ParseBool(string(out))
	if err != nil {
		return false, fmt.Errorf("%s: %w", shellquote.Join(argv...), err)
	}
	logging.Debug("read preference", "command", shellquote.Join(argv...), "value", v)
	return v, nil
}

// ParseBool accepts the boolean forms printed by gsettings and dconf.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.Trim(strings.TrimSpace(s), `'"`)) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("unexpected boolean output %q", strings.TrimSpace(s))
}

// Static returns fixed preferences.
type Static struct {
	prefs capability.Preferences
}

// NewStatic creates a source that always reports prefs.
func NewStatic(prefs capability.Preferences) *Static {
	return &Static{prefs: prefs}
}

func (s *Static) Name() string {
	return "static"
}

func (s *Static) Read(ctx context.Context) (capability.Preferences, error) {
	return s.prefs, nil
}

// FromConfig builds the source selected in the config file.
func FromConfig(cfg config.Preferences, exec system.CommandExecutor) (capability.PreferenceSource, error) {
	switch cfg.Source {
	case config.SourceStatic:
		return NewStatic(capability.Preferences{
			StaticWorkspaces: cfg.StaticWorkspaces,
			SpanDisplays:     cfg.SpanDisplays,
		}), nil
	case config.SourceGSettings, "":
		return NewGSettings(exec, cfg.DynamicWorkspacesCommand, cfg.OnlyOnPrimaryCommand)
	}
	return nil, fmt.Errorf("unknown preference source %q", cfg.Source)
}

var (
	_ capability.PreferenceSource = (*GSettings)(nil)
	_ capability.PreferenceSource = (*Static)(nil)
)
