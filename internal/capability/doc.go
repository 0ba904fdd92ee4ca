// Package capability decides whether automatic resynchronization of
// inactive monitors is safe in the current desktop environment.
//
// Two window manager preferences must hold for a shift replayed on the
// inactive monitors to be correct:
//
//   - the workspace count is static, so indices do not appear or vanish
//     while windows are moved
//   - workspaces span all displays, so every monitor shares the one index
//
// A third condition, focus tracking, only degrades the result: without
// _NET_ACTIVE_WINDOW the focused monitor falls back to the pointer.
//
// # Usage
//
//	gate := capability.New(source, session)
//	if err := gate.Evaluate(ctx); err != nil {
//	    logging.Warn("preferences unavailable", "error", err)
//	}
//	gate.Refresh(indicator)
//
// The gate is purely reactive: it is re-evaluated on every active
// workspace change and never polls on its own.
package capability
