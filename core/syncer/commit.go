package syncer

import (
	"github.com/ztrayner/airbnb-lock-manager/core/booking"
	"github.com/ztrayner/airbnb-lock-manager/core/lock"
	"github.com/ztrayner/airbnb-lock-manager/core/reconcile"
	"github.com/ztrayner/airbnb-lock-manager/core/state"
)

// nextState builds the state to commit after a gateway pass.
//
// The invariant: state never advances past an unconfirmed operation. A
// reservation whose operation failed keeps exactly its previous booking and
// code, so the next run plans the same operation again; everything else
// moves to the current snapshot.
func nextState(prev state.State, current map[string]booking.Booking, results []lock.Result) state.State {
	next := state.New()

	for k, v := range prev.KeyWarnings {
		next.KeyWarnings[k] = v
	}

	failed := make(map[string]struct{})
	for _, res := range results {
		if !res.Confirmed() {
			failed[res.Op.ReservationID] = struct{}{}
		}
	}

	// Bookings from the current snapshot, except reservations held back by
	// a failed operation.
	for id, b := range current {
		if _, bad := failed[id]; bad {
			if prevBooking, ok := prev.Bookings[id]; ok {
				next.Bookings[id] = prevBooking
			}
			// A failed create stays absent entirely, so it is re-planned.
			continue
		}
		next.Bookings[id] = b
	}

	// Cancelled bookings whose delete failed stay in state so the delete is
	// retried next run.
	for id, b := range prev.Bookings {
		if _, bad := failed[id]; !bad {
			continue
		}
		if _, stillCurrent := current[id]; stillCurrent {
			continue
		}
		next.Bookings[id] = b
	}

	// Codes start from the previous mapping and move only on confirmation.
	for id, code := range prev.Codes {
		next.Codes[id] = code
	}
	for _, res := range results {
		if !res.Confirmed() {
			continue
		}
		switch res.Op.Type {
		case reconcile.OpCreate, reconcile.OpUpdate:
			next.Codes[res.Op.ReservationID] = res.Op.Code
		case reconcile.OpDelete:
			delete(next.Codes, res.Op.ReservationID)
		}
	}

	return next
}
