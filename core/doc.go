// Package core provides the foundational domain types of teamwork:
//
//   - Messages (immutable conversation turns, optionally carrying tool calls)
//   - WorkflowState (one node of the task tree: status, message log, children)
//   - Tree helpers (addressing by Path, copy-on-write replacement, walking)
//   - Active-node selection used by the driver
//   - Step outcomes (Continue, Complete, ToolRequest, Delegate) and the
//     transitions they cause
//
// The package has no knowledge of agents, providers or tools. Every helper
// that changes a tree returns a new version, so earlier versions remain valid
// snapshots.
package core
