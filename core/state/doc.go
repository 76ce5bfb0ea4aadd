// Package state persists the last-synced booking and lock code sets between
// runs.
//
// The state is a single JSON file updated with write-temp-then-rename
// discipline, so a crash mid-commit can never corrupt the previous valid
// state. A corrupted file is refused loudly rather than silently reset:
// guessing at recovery risks granting or revoking the wrong guest's access.
//
// A sidecar flock guards the load/commit cycle so two overlapping scheduler
// invocations cannot interleave their writes.
package state
