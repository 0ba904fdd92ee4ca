// Package logging holds the process-wide slog logger and the glyph-prefixed
// messages printed for the user.
//
// Structured records go to stderr as text, or JSON with --json. Debug
// records only appear with --verbose:
//
//	logging.Debug("resync pass", "shift", shift, "focused", monitor)
//	logging.Warn("relocation failed", "window", id, "error", err)
//
// User messages are plain lines with a leading glyph. Info (ℹ) and
// success (✓) go to stdout, warning (⚠) and error (✗) to stderr;
// SetUserOutput redirects them in tests:
//
//	logging.UserSuccess("Wrote %s", path)
//	logging.UserWarning("Automatic switching is disabled")
package logging
