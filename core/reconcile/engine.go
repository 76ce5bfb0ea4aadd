package reconcile

import (
	"fmt"
	"sort"

	"github.com/ztrayner/airbnb-lock-manager/core/booking"
)

// Reconcile diffs the current booking snapshot against the previous one and
// produces the ordered operation plan that brings the lock device in line
// with the feed. It is pure: same inputs, same plan.
func Reconcile(in Input, sched Schedule) *Plan {
	plan := &Plan{
		Summary: Summary{
			CurrentBookings:  len(in.Current),
			PreviousBookings: len(in.Previous),
		},
	}

	desired, fallbacks := assignCodes(in, sched)
	plan.Summary.FallbackCodes = fallbacks

	var deletes, updates, creates []Operation

	// Cancellations: in previous, gone from the feed. The delete is
	// immediate regardless of the activation window.
	handled := make(map[string]struct{})
	for id, prev := range in.Previous {
		if _, ok := in.Current[id]; ok {
			continue
		}
		handled[id] = struct{}{}
		stored, ok := in.Codes[id]
		if !ok {
			// Nothing was ever applied to the device for this booking.
			continue
		}
		deletes = append(deletes, Operation{
			Type:          OpDelete,
			ReservationID: id,
			Code:          stored,
			Reason:        fmt.Sprintf("booking cancelled (%s)", prev.GuestName),
		})
		plan.Summary.Cancellations++
	}

	// Creates and updates for the current snapshot.
	for id, curr := range in.Current {
		want := desired[id]
		prev, existed := in.Previous[id]
		stored, hasCode := in.Codes[id]

		switch {
		case !existed || !hasCode:
			// New booking, or a booking whose code never made it onto the
			// device in a previous run. Stays whose window has already
			// passed get no code: creating one would only feed the next
			// run's expiry sweep.
			if want.Expired(in.Now) {
				continue
			}
			reason := "new booking"
			if existed {
				reason = "stored code missing"
			}
			creates = append(creates, Operation{
				Type:          OpCreate,
				ReservationID: id,
				Code:          want,
				Reason:        reason,
			})
			plan.Summary.Creates++
			handled[id] = struct{}{}

		case !curr.Same(prev):
			prevCode := stored
			op := Operation{
				Type:          OpUpdate,
				ReservationID: id,
				Code:          want,
				Prev:          &prevCode,
				ReplaceCode:   want.Code != stored.Code,
				Reason:        describeChange(prev, curr),
			}
			updates = append(updates, op)
			plan.Summary.Updates++
			handled[id] = struct{}{}
		}
	}

	// Expiry sweep: stale persisted codes whose window has passed and whose
	// reservation has no other operation in this plan.
	for id, stored := range in.Codes {
		if _, ok := handled[id]; ok {
			continue
		}
		if !stored.Expired(in.Now) {
			continue
		}
		deletes = append(deletes, Operation{
			Type:          OpDelete,
			ReservationID: id,
			Code:          stored,
			Reason:        fmt.Sprintf("code expired %s", stored.ActiveUntil.Format("2006-01-02 15:04")),
		})
		plan.Summary.Expired++
	}

	// Deletes first so code slots are freed before reuse; each group sorted
	// by reservation ID for a deterministic plan.
	sortOps(deletes)
	sortOps(updates)
	sortOps(creates)
	plan.Operations = append(plan.Operations, deletes...)
	plan.Operations = append(plan.Operations, updates...)
	plan.Operations = append(plan.Operations, creates...)

	return plan
}

func sortOps(ops []Operation) {
	sort.Slice(ops, func(i, j int) bool {
		return ops[i].ReservationID < ops[j].ReservationID
	})
}

// describeChange summarizes which booking fields moved, for logs and reports.
func describeChange(prev, curr booking.Booking) string {
	switch {
	case prev.PhoneLast4 != curr.PhoneLast4:
		return "phone digits changed"
	case prev.CheckIn != curr.CheckIn && prev.CheckOut != curr.CheckOut:
		return fmt.Sprintf("dates changed %s/%s -> %s/%s", prev.CheckIn, prev.CheckOut, curr.CheckIn, curr.CheckOut)
	case prev.CheckIn != curr.CheckIn:
		return fmt.Sprintf("check-in moved %s -> %s", prev.CheckIn, curr.CheckIn)
	case curr.CheckOut.After(prev.CheckOut):
		return fmt.Sprintf("stay extended %s -> %s", prev.CheckOut, curr.CheckOut)
	default:
		return fmt.Sprintf("stay shortened %s -> %s", prev.CheckOut, curr.CheckOut)
	}
}
