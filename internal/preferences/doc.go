// Package preferences reads the window manager settings the capability
// gate depends on.
//
// GSettings runs the configured commands (by default
// `gsettings get org.gnome.mutter dynamic-workspaces` and
// `gsettings get org.gnome.mutter workspaces-only-on-primary`) and
// inverts their output: static workspaces are the absence of dynamic
// workspaces, and workspaces span displays unless they are restricted to
// the primary monitor. Static returns values pinned in the config file,
// for window managers without gsettings.
package preferences
