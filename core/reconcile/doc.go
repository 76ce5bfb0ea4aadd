// Package reconcile computes the minimal set of lock code operations needed
// to bring the device in line with the current calendar feed.
//
// The engine is deliberately pure: it takes two booking snapshots (current
// feed, previously synced state), the persisted lock codes, and the current
// time, and returns an ordered operation plan. It performs no I/O and cannot
// fail on well-formed input, which keeps every edge case unit-testable
// without mocks.
//
// # Algorithm
//
//  1. Bookings present only in the current snapshot produce Create operations
//     with a freshly derived code and activation window.
//  2. Bookings present only in the previous snapshot are cancellations and
//     produce an immediate Delete for their stored code, regardless of the
//     window.
//  3. Bookings present in both snapshots with changed dates or phone digits
//     produce an Update. When the code value itself changes the update is
//     flagged as a replacement, because code slots do not support in-place
//     value changes.
//  4. An independent expiry sweep deletes persisted codes whose window has
//     fully passed, so stale codes never linger on the device.
//
// Deletes are ordered before Updates and Creates to free code slots for
// reuse; within each group operations are sorted by reservation ID so the
// plan is deterministic.
//
// # Code derivation
//
// The guest's phone last four digits are the preferred code. Codes already
// committed to the device are reserved before anything else is assigned, so
// a code a guest was already given is never silently taken over by a new
// booking. When bookings with overlapping activation windows would collide
// on the same code, the colliding booking switches to a generated fallback
// code instead of sharing or overwriting another guest's code; among
// bookings not yet on the device, the earlier check-in keeps the digits.
// Fallback generation hashes the reservation ID and probes linearly until
// an unused 4-digit code is found, so planning is idempotent across runs.
package reconcile
