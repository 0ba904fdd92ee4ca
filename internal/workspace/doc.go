// Package workspace implements per-monitor workspace switching on top of a
// window manager that keeps a single active workspace for all monitors.
//
// The Synchronizer never creates or destroys workspaces. It moves windows
// between the shared workspaces so that each monitor appears to switch on
// its own:
//
//   - SwitchOnActiveMonitor moves the focused monitor's windows one step.
//     The shared active index stays put, so the monitor shows the windows
//     that were one workspace away.
//   - ResyncInactiveMonitors runs after the shared index changed by any
//     other path. Windows on the other monitors are shifted by the same
//     delta so they stay visible.
//
// All index arithmetic is modular over the workspace count, which is read
// fresh at the start of every pass.
//
//	sync, err := workspace.New(ctx, session, gate)
//	report, err := sync.SwitchOnActiveMonitor(ctx, workspace.Up)
//	report, err = sync.ResyncInactiveMonitors(ctx)
package workspace
