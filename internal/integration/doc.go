// Package integration provides a test harness for tests that need a real
// X server with an EWMH window manager, and workflow tests that drive the
// whole application against the mock host.
//
// X11 tests are skipped unless WSSHIFT_INTEGRATION_TESTS is set. They
// require:
//   - an X display (WSSHIFT_TEST_DISPLAY, falling back to DISPLAY)
//   - an EWMH window manager with a fixed number of desktops
//   - two Xinerama heads for the per-monitor tests
//
// A throwaway setup:
//
//	Xvfb :99 +extension XINERAMA -screen 0 3840x1080x24 &
//	DISPLAY=:99 openbox &
//
// # Test Harness
//
//	func TestMyIntegration(t *testing.T) {
//	    h := integration.NewHarness(t) // Skips if env var not set
//	    h.RequireHeads(2)
//
//	    win := h.OpenWindow("left", 0, 1)
//	    h.FocusHead(0)
//
//	    // Run passes against h.Session(), then:
//	    h.WaitForDesktop(win, 2)
//
//	    // Windows and connections are released via t.Cleanup
//	}
//
// # Running Integration Tests
//
//	WSSHIFT_INTEGRATION_TESTS=1 WSSHIFT_TEST_DISPLAY=:99 go test -v ./internal/integration/...
package integration
