// Package config provides configuration types and loading for wsshift.
//
// # Configuration File
//
// Settings live in $XDG_CONFIG_HOME/wsshift/config.toml. Named profiles
// are stored under profiles/<name>.toml in the same directory and are
// selected with --profile. A missing file means the defaults below.
//
//	[keybindings]
//	next = ["Mod4-Control-Down"]
//	previous = ["Mod4-Control-Up"]
//
//	[preferences]
//	source = "gsettings"   # or "static"
//	static_workspaces = true
//	span_displays = true
//	dynamic_workspaces_command = "gsettings get org.gnome.mutter dynamic-workspaces"
//	only_on_primary_command = "gsettings get org.gnome.mutter workspaces-only-on-primary"
//
//	[daemon]
//	display = ""
//	journal = true
//
// Unknown keys are rejected so that typos do not silently fall back to
// defaults.
//
// # Paths
//
// Paths resolves the XDG config and state directories. The state
// directory holds the pass journal.
//
// # Validation
//
// Load validates after parsing: the preference source must be known,
// every command needs at least one binding, and gsettings commands must
// split into a non-empty argv.
package config
