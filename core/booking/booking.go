package booking

import "time"

// Status describes the lifecycle state of a booking as derived from the feed.
type Status string

const (
	// StatusConfirmed marks a booking currently present in the feed.
	StatusConfirmed Status = "confirmed"
	// StatusCancelled marks a booking that disappeared from the feed.
	// Cancelled bookings only exist transiently during reconciliation; they
	// are never persisted.
	StatusCancelled Status = "cancelled"
)

// Booking is a normalized reservation from the calendar feed.
type Booking struct {
	// ReservationID is the stable identifier used for diffing across runs.
	// It comes from the confirmation URL in the event description, falling
	// back to the event UID when absent.
	ReservationID string `json:"reservation_id"`

	// GuestName is the display name from the event summary, or "Guest".
	GuestName string `json:"guest_name"`

	// PhoneLast4 is the guest's phone last four digits, empty when the feed
	// does not include them. Absence triggers fallback code generation.
	PhoneLast4 string `json:"phone_last4,omitempty"`

	// CheckIn is the arrival date in the property's local calendar.
	CheckIn Date `json:"check_in"`

	// CheckOut is the departure date in the property's local calendar.
	CheckOut Date `json:"check_out"`

	// Status is confirmed or cancelled.
	Status Status `json:"status"`
}

// Same reports whether the reconciliation-relevant fields are unchanged.
// Guest name changes alone do not warrant a lock code operation.
func (b Booking) Same(other Booking) bool {
	return b.CheckIn == other.CheckIn &&
		b.CheckOut == other.CheckOut &&
		b.PhoneLast4 == other.PhoneLast4
}

// LockCode is a device access code derived from a booking.
type LockCode struct {
	// Code is the 4-digit access code.
	Code string `json:"code"`

	// Label is the device-side name of the code, always "Guest_<code>".
	Label string `json:"label"`

	// ActiveFrom is when the code starts working (check-in time minus the
	// activation buffer, in the lock's timezone).
	ActiveFrom time.Time `json:"active_from"`

	// ActiveUntil is when the code stops working (check-out time plus the
	// expiration buffer, in the lock's timezone).
	ActiveUntil time.Time `json:"active_until"`

	// ReservationID points back to the owning booking for lookup.
	ReservationID string `json:"reservation_id"`
}

// CodeLabel returns the device-side name for an access code value.
func CodeLabel(code string) string {
	return "Guest_" + code
}

// Overlaps reports whether two activation windows intersect.
func (c LockCode) Overlaps(other LockCode) bool {
	return c.ActiveFrom.Before(other.ActiveUntil) && other.ActiveFrom.Before(c.ActiveUntil)
}

// Expired reports whether the code's window has fully passed at the given time.
func (c LockCode) Expired(now time.Time) bool {
	return c.ActiveUntil.Before(now)
}
