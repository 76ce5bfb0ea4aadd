// Package syncer orchestrates one reconciliation pass: fetch the feed, plan
// against the stored state, apply the plan to the lock, and commit the
// resulting state.
//
// The runner owns the ordering and failure discipline. The state lock is
// held across the whole load/commit cycle. The committed state advances only
// past operations the gateway confirmed; a reservation whose operation
// failed keeps its previous state, so the next run retries exactly that
// reservation and nothing else. In dry-run mode the plan is computed and
// logged but neither the gateway nor the commit runs.
package syncer
