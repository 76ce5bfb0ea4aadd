package reconcile

import (
	"fmt"
	"time"

	"github.com/ztrayner/airbnb-lock-manager/core/booking"
)

// WallTime is a time of day without a date, in the lock's local zone.
type WallTime struct {
	Hour   int
	Minute int
}

// ParseWallTime parses an HH:MM string.
func ParseWallTime(s string) (WallTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return WallTime{}, fmt.Errorf("invalid wall time %q: %w", s, err)
	}
	return WallTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// String returns the wall time in HH:MM form.
func (w WallTime) String() string {
	return fmt.Sprintf("%02d:%02d", w.Hour, w.Minute)
}

// Schedule converts civil check-in and check-out dates into absolute code
// activation windows. Wall-clock times are resolved in the configured
// location, so windows shift correctly across DST boundaries.
type Schedule struct {
	// Location is the IANA timezone of the lock.
	Location *time.Location

	// CheckIn is the daily check-in wall time, e.g. 16:00.
	CheckIn WallTime

	// CheckOut is the daily check-out wall time, e.g. 11:00.
	CheckOut WallTime

	// ActivationBuffer is subtracted from check-in time so the code works
	// slightly before the guest arrives.
	ActivationBuffer time.Duration

	// ExpirationBuffer is added to check-out time so late departures are
	// not locked out.
	ExpirationBuffer time.Duration
}

// Window returns the activation window for a stay.
func (s Schedule) Window(checkIn, checkOut booking.Date) (from, until time.Time) {
	from = checkIn.At(s.CheckIn.Hour, s.CheckIn.Minute, s.Location).Add(-s.ActivationBuffer)
	until = checkOut.At(s.CheckOut.Hour, s.CheckOut.Minute, s.Location).Add(s.ExpirationBuffer)
	return from, until
}

// CodeFor derives the full desired lock code for a booking with the given
// code value.
func (s Schedule) CodeFor(b booking.Booking, code string) booking.LockCode {
	from, until := s.Window(b.CheckIn, b.CheckOut)
	return booking.LockCode{
		Code:          code,
		Label:         booking.CodeLabel(code),
		ActiveFrom:    from,
		ActiveUntil:   until,
		ReservationID: b.ReservationID,
	}
}
