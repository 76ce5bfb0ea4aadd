// Package lock applies reconciliation operations to the Wyze lock device.
//
// The device API sits behind the Client interface so the gateway and the
// rest of the application can be tested against mocks (see core/lock/mocks).
// The real client authenticates against the Wyze cloud with long-lived API
// key credentials at construction time; an authentication failure there is
// fatal for the whole run, since no operation can proceed without it.
//
// The Gateway submits operations one at a time, never batched, and retries
// transient failures with bounded exponential backoff. An operation that
// exhausts its retries is reported as failed and isolated: the remaining
// operations still run, and only confirmed operations make it into the
// committed state. Deleting a code that is no longer on the device counts as
// success, which makes retried runs idempotent.
package lock
