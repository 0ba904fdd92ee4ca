package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	securejoin "github.com/cyphar/filepath-securejoin"
	shellquote "github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/wsshift/internal/errors"
	"github.com/firefly-engineering/wsshift/internal/system"
)

// profileNameRegex validates profile names.
// Names must start with a lowercase letter or digit, followed by lowercase letters, digits, underscores, or hyphens.
var profileNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,62}$`)

// ValidateProfileName checks if a profile name is valid.
func ValidateProfileName(name string) error {
	if name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}

	if !profileNameRegex.MatchString(name) {
		return fmt.Errorf("invalid profile name %q: must start with a lowercase letter or digit, contain only lowercase letters, digits, underscores, or hyphens, and be at most 63 characters", name)
	}

	return nil
}

const (
	AppName        = "wsshift"
	ConfigFileName = "config.toml"
	JournalName    = "journal.jsonl"

	SourceGSettings = "gsettings"
	SourceStatic    = "static"

	DefaultDynamicWorkspacesCommand = "gsettings get org.gnome.mutter dynamic-workspaces"
	DefaultOnlyOnPrimaryCommand     = "gsettings get org.gnome.mutter workspaces-only-on-primary"
)

// Config is the contents of config.toml.
type Config struct {
	Keybindings Keybindings `toml:"keybindings"`
	Preferences Preferences `toml:"preferences"`
	Daemon      Daemon      `toml:"daemon"`
}

// Keybindings lists the hotkeys for each command, in xgbutil keybind
// notation (e.g. "Mod4-Control-Down").
type Keybindings struct {
	// Next moves the focused monitor's windows Up, revealing the next workspace.
	Next []string `toml:"next"`
	// Previous moves them Down.
	Previous []string `toml:"previous"`
}

// Preferences selects where the window manager settings are read from.
type Preferences struct {
	Source string `toml:"source"`

	// Used when Source is "static".
	StaticWorkspaces bool `toml:"static_workspaces"`
	SpanDisplays     bool `toml:"span_displays"`

	// Used when Source is "gsettings". Both print a boolean that is
	// inverted before use.
	DynamicWorkspacesCommand string `toml:"dynamic_workspaces_command"`
	OnlyOnPrimaryCommand     string `toml:"only_on_primary_command"`
}

// Daemon holds settings for `wsshift run`.
type Daemon struct {
	// Display is the X display to connect to; empty means $DISPLAY.
	Display string `toml:"display"`
	// Journal enables the pass journal in the state directory.
	Journal bool `toml:"journal"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Keybindings: Keybindings{
			Next:     []string{"Mod4-Control-Down"},
			Previous: []string{"Mod4-Control-Up"},
		},
		Preferences: Preferences{
			Source:                   SourceGSettings,
			StaticWorkspaces:         true,
			SpanDisplays:             true,
			DynamicWorkspacesCommand: DefaultDynamicWorkspacesCommand,
			OnlyOnPrimaryCommand:     DefaultOnlyOnPrimaryCommand,
		},
		Daemon: Daemon{
			Journal: true,
		},
	}
}

// Validate checks that the Config is valid.
func (c *Config) Validate() error {
	if err := c.Keybindings.Validate(); err != nil {
		return fmt.Errorf("keybindings: %w", err)
	}
	if err := c.Preferences.Validate(); err != nil {
		return fmt.Errorf("preferences: %w", err)
	}
	return nil
}

// Validate checks that every command has at least one non-empty binding.
func (k *Keybindings) Validate() error {
	for name, bindings := range map[string][]string{"next": k.Next, "previous": k.Previous} {
		if len(bindings) == 0 {
			return fmt.Errorf("%s requires at least one binding", name)
		}
		for _, b := range bindings {
			if strings.TrimSpace(b) == "" {
				return fmt.Errorf("%s contains an empty binding", name)
			}
		}
	}

	next := make(map[string]bool)
	for _, b := range k.Next {
		next[b] = true
	}
	for _, b := range k.Previous {
		if next[b] {
			return fmt.Errorf("%q is bound to both next and previous", b)
		}
	}
	return nil
}

// Validate checks the source and, for gsettings, that both commands parse.
func (p *Preferences) Validate() error {
	switch p.Source {
	case SourceStatic:
		return nil
	case SourceGSettings:
	default:
		return fmt.Errorf("invalid source: %s (must be %s or %s)", p.Source, SourceGSettings, SourceStatic)
	}

	for name, cmd := range map[string]string{
		"dynamic_workspaces_command": p.DynamicWorkspacesCommand,
		"only_on_primary_command":    p.OnlyOnPrimaryCommand,
	} {
		if _, err := SplitCommand(cmd); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// SplitCommand splits a configured command line into argv.
func SplitCommand(command string) ([]string, error) {
	argv, err := shellquote.Split(command)
	if err != nil {
		return nil, fmt.Errorf("cannot parse command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("command is empty")
	}
	return argv, nil
}

// Marshal encodes the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save validates cfg and writes it to path, creating the directory.
func Save(fsys system.FileSystem, path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return errors.ConfigError("refusing to save invalid config", err)
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := fsys.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Load reads and validates the config file at path. A missing file yields
// the defaults.
func Load(fsys system.FileSystem, path string) (*Config, error) {
	cfg := Default()
	if !fsys.Exists(path) {
		return cfg, nil
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigError("failed to read config", err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to parse %s", path), err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, errors.ConfigError(fmt.Sprintf("unknown keys in %s: %s", path, strings.Join(keys, ", ")), nil)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("invalid config %s", path), err)
	}

	return cfg, nil
}

// Paths holds the configured paths
type Paths struct {
	ConfigDir   string
	StateDir    string
	ProfilesDir string
}

// DefaultPaths returns the XDG-based path configuration.
func DefaultPaths() *Paths {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = filepath.Join(home, ".local", "state")
	}

	return NewPaths(filepath.Join(configHome, AppName), filepath.Join(stateHome, AppName))
}

// NewPaths derives the remaining paths from a config and state directory.
func NewPaths(configDir, stateDir string) *Paths {
	return &Paths{
		ConfigDir:   configDir,
		StateDir:    stateDir,
		ProfilesDir: filepath.Join(configDir, "profiles"),
	}
}

// ConfigFile returns the config file for the named profile, or the main
// config file when profile is empty.
func (p *Paths) ConfigFile(profile string) (string, error) {
	if profile == "" {
		return filepath.Join(p.ConfigDir, ConfigFileName), nil
	}
	if err := ValidateProfileName(profile); err != nil {
		return "", errors.ConfigError("invalid profile", err)
	}
	path, err := securejoin.SecureJoin(p.ProfilesDir, profile+".toml")
	if err != nil {
		return "", errors.ConfigError(fmt.Sprintf("invalid profile path for %q", profile), err)
	}
	return path, nil
}

// JournalFile returns the pass journal location inside the state directory.
func (p *Paths) JournalFile() (string, error) {
	path, err := securejoin.SecureJoin(p.StateDir, JournalName)
	if err != nil {
		return "", fmt.Errorf("invalid journal path: %w", err)
	}
	return path, nil
}
