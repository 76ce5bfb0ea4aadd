package reconcile

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/ztrayner/airbnb-lock-manager/core/booking"
)

// assignCodes computes the desired lock code for every booking in the
// current snapshot. Codes already committed to the device are reserved
// first: while the guest's phone digits are unchanged, a stored code keeps
// its value, so a code a guest was already given is never reassigned to
// make room for a newcomer. The remaining bookings are then assigned in
// check-in order (ties broken by reservation ID); when two overlapping
// stays collide on the same phone digits, the earlier stay keeps them and
// the later one is moved to a generated fallback. The whole assignment is
// deterministic.
func assignCodes(in Input, sched Schedule) (desired map[string]booking.LockCode, fallbacks int) {
	order := make([]booking.Booking, 0, len(in.Current))
	for _, b := range in.Current {
		order = append(order, b)
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].CheckIn != order[j].CheckIn {
			return order[i].CheckIn.Before(order[j].CheckIn)
		}
		return order[i].ReservationID < order[j].ReservationID
	})

	desired = make(map[string]booking.LockCode, len(order))
	assigned := make([]booking.LockCode, 0, len(order))

	pending := make([]booking.Booking, 0, len(order))
	for _, b := range order {
		stored, hasCode := in.Codes[b.ReservationID]
		prev, existed := in.Previous[b.ReservationID]
		if !hasCode || !existed || prev.PhoneLast4 != b.PhoneLast4 {
			pending = append(pending, b)
			continue
		}
		final := sched.CodeFor(b, stored.Code)
		desired[b.ReservationID] = final
		assigned = append(assigned, final)
		if stored.Code != b.PhoneLast4 {
			fallbacks++
		}
	}

	for _, b := range pending {
		preferred := ""
		if isFourDigits(b.PhoneLast4) {
			preferred = b.PhoneLast4
		}

		candidate := sched.CodeFor(b, preferred)
		taken := overlappingCodes(candidate, assigned)

		code := preferred
		if _, collides := taken[preferred]; preferred == "" || collides {
			code = fallbackCode(b.ReservationID, taken)
		}
		if code != b.PhoneLast4 {
			fallbacks++
		}

		final := sched.CodeFor(b, code)
		desired[b.ReservationID] = final
		assigned = append(assigned, final)
	}

	return desired, fallbacks
}

// overlappingCodes returns the set of already assigned code values whose
// activation window intersects the candidate's.
func overlappingCodes(candidate booking.LockCode, assigned []booking.LockCode) map[string]struct{} {
	taken := make(map[string]struct{})
	for _, a := range assigned {
		if a.Overlaps(candidate) {
			taken[a.Code] = struct{}{}
		}
	}
	return taken
}

// fallbackCode generates a 4-digit code for a booking that cannot use its
// phone digits. The reservation ID is hashed into the 0000-9999 range and
// probed linearly until a code not held by an overlapping stay is found.
func fallbackCode(reservationID string, taken map[string]struct{}) string {
	h := fnv.New32a()
	h.Write([]byte(reservationID))
	start := int(h.Sum32() % 10000)

	for i := 0; i < 10000; i++ {
		code := fmt.Sprintf("%04d", (start+i)%10000)
		if _, used := taken[code]; !used {
			return code
		}
	}
	// All 10000 codes in use simultaneously; not reachable for one lock.
	return fmt.Sprintf("%04d", start)
}

func isFourDigits(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
