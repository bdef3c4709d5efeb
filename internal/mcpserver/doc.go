// Package mcpserver exposes the launch orchestrator as Model Context
// Protocol tools over stdio.
//
// # Tools
//
//   - launch: starts a launch and, unless wait is false, blocks until it
//     finishes and returns the outcome as JSON.
//   - launch_status: returns one tracked launch, or all of them.
//   - cancel_launch: cancels a running launch.
//   - list_targets: describes the merged target profiles.
//
// Launches started through the server run on the server's own context,
// so a launch outlives the tool call that started it and can be polled
// with launch_status.
package mcpserver
