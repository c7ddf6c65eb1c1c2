// Package snapshot stores WorkflowState trees between Teamwork calls.
//
// A run suspended on tool results (or interrupted by an error) hands its
// tree back to the caller. Persisting that tree under a run ID lets another
// process pick it up later and resume from the last good version. The
// Recorder observer saves every version automatically.
//
// InMemoryStore serves tests and single-process use. Additional backends
// live in sub-packages (see snapshot/redis) so only the wiring layer decides
// which implementation to instantiate.
package snapshot
