package reconcile

import (
	"time"

	"github.com/ztrayner/airbnb-lock-manager/core/booking"
)

// OpType represents the kind of lock code operation.
type OpType string

const (
	// OpCreate adds a new access code to the device.
	OpCreate OpType = "create"
	// OpUpdate adjusts an existing access code. When Operation.ReplaceCode
	// is set the old code must be deleted and the new one created, because
	// the code value itself changed.
	OpUpdate OpType = "update"
	// OpDelete removes an access code from the device.
	OpDelete OpType = "delete"
)

// Operation is a single planned mutation against the lock device.
type Operation struct {
	// Type specifies the operation to perform.
	Type OpType `json:"type"`

	// ReservationID is the booking this operation belongs to.
	ReservationID string `json:"reservation_id"`

	// Code is the desired lock code for creates and updates, and the stored
	// code being removed for deletes.
	Code booking.LockCode `json:"code"`

	// Prev is the currently stored code for updates, nil otherwise.
	Prev *booking.LockCode `json:"prev,omitempty"`

	// ReplaceCode marks an update whose code value changed. The gateway
	// applies it as delete-then-create, and the state store must only
	// reflect the new identity after both steps are confirmed.
	ReplaceCode bool `json:"replace_code,omitempty"`

	// Reason explains why this operation was planned.
	Reason string `json:"reason"`
}

// Plan is the ordered operation list produced by one reconciliation pass.
type Plan struct {
	// Operations is ordered: deletes first, then updates, then creates.
	Operations []Operation `json:"operations"`

	// Summary provides aggregate counts for reporting.
	Summary Summary `json:"summary"`
}

// Summary provides aggregate statistics for a reconciliation plan.
type Summary struct {
	// CurrentBookings is the number of bookings in the feed snapshot.
	CurrentBookings int `json:"current_bookings"`

	// PreviousBookings is the number of bookings in the stored snapshot.
	PreviousBookings int `json:"previous_bookings"`

	// Creates counts planned create operations.
	Creates int `json:"creates"`

	// Updates counts planned update operations.
	Updates int `json:"updates"`

	// Cancellations counts deletes caused by bookings leaving the feed.
	Cancellations int `json:"cancellations"`

	// Expired counts deletes produced by the expiry sweep.
	Expired int `json:"expired"`

	// FallbackCodes counts bookings that received a generated code instead
	// of their phone digits, either because the digits were absent or
	// because they collided with an overlapping stay.
	FallbackCodes int `json:"fallback_codes"`
}

// Total returns the number of planned operations.
func (s Summary) Total() int {
	return s.Creates + s.Updates + s.Cancellations + s.Expired
}

// Input bundles the immutable snapshots the engine diffs.
type Input struct {
	// Current is the booking set parsed from the feed, keyed by reservation ID.
	Current map[string]booking.Booking

	// Previous is the booking set from the last committed state.
	Previous map[string]booking.Booking

	// Codes is the persisted reservation ID to lock code mapping.
	Codes map[string]booking.LockCode

	// Now is the wall-clock time used for the expiry sweep.
	Now time.Time
}
