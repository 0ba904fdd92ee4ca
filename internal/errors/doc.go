// Package errors provides typed errors with exit codes for wsshift.
//
// # Error Types
//
// WsshiftError wraps an error with an exit code:
//
//	type WsshiftError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
//	ExitSuccess            = 0  // Success
//	ExitGeneralError       = 1  // General/unknown errors
//	ExitDisplayError       = 2  // Display server connection failed
//	ExitConfigError        = 3  // Configuration error
//	ExitKeybindError       = 4  // Hotkey could not be grabbed
//	ExitHostError          = 5  // Window manager query failed
//	ExitUnsupportedSession = 6  // Wayland or another unsupported session
//
// # Error Constructors
//
//	errors.DisplayError(":0", err)
//	errors.ConfigError("failed to parse config", err)
//	errors.KeybindError("Mod4-Control-Up", err)
//	errors.HostError("workspace count", err)
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
