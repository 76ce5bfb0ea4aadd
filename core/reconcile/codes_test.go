package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ztrayner/airbnb-lock-manager/core/booking"
)

func TestFallbackCode_Deterministic(t *testing.T) {
	taken := map[string]struct{}{}
	first := fallbackCode("HMKHCAK3M3", taken)
	second := fallbackCode("HMKHCAK3M3", taken)

	assert.Equal(t, first, second)
	assert.Len(t, first, 4)
	assert.True(t, isFourDigits(first))
}

func TestFallbackCode_ProbesPastTaken(t *testing.T) {
	free := fallbackCode("HMKHCAK3M3", map[string]struct{}{})

	probed := fallbackCode("HMKHCAK3M3", map[string]struct{}{free: {}})
	assert.NotEqual(t, free, probed)
	assert.True(t, isFourDigits(probed))
}

func TestIsFourDigits(t *testing.T) {
	assert.True(t, isFourDigits("0000"))
	assert.True(t, isFourDigits("6354"))
	assert.False(t, isFourDigits(""))
	assert.False(t, isFourDigits("123"))
	assert.False(t, isFourDigits("12345"))
	assert.False(t, isFourDigits("12a4"))
}

// TestAssignCodes_StoredFallbackStable checks that a generated code issued in
// an earlier run survives later runs while the guest's phone is unchanged.
func TestAssignCodes_StoredFallbackStable(t *testing.T) {
	sched := testSchedule(t)
	b := guest(t, "R1", "", "2024-06-01", "2024-06-03")

	stored := sched.CodeFor(b, "4821")
	desired, _ := assignCodes(Input{
		Current:  map[string]booking.Booking{"R1": b},
		Previous: map[string]booking.Booking{"R1": b},
		Codes:    map[string]booking.LockCode{"R1": stored},
	}, sched)

	assert.Equal(t, "4821", desired["R1"].Code)
}

// TestAssignCodes_CommittedCodeTakesPrecedence checks a code already on the
// device is never reassigned to a newcomer, even one with an earlier
// check-in.
func TestAssignCodes_CommittedCodeTakesPrecedence(t *testing.T) {
	sched := testSchedule(t)
	synced := guest(t, "R1", "6354", "2024-06-03", "2024-06-06")
	incoming := guest(t, "R2", "6354", "2024-06-01", "2024-06-04")

	desired, fallbacks := assignCodes(Input{
		Current:  map[string]booking.Booking{"R1": synced, "R2": incoming},
		Previous: map[string]booking.Booking{"R1": synced},
		Codes:    map[string]booking.LockCode{"R1": sched.CodeFor(synced, "6354")},
	}, sched)

	assert.Equal(t, "6354", desired["R1"].Code)
	assert.NotEqual(t, "6354", desired["R2"].Code)
	assert.Len(t, desired["R2"].Code, 4)
	assert.Equal(t, 1, fallbacks)
}

// TestAssignCodes_PhoneChangeWins checks a changed phone number overrides the
// stored code value.
func TestAssignCodes_PhoneChangeWins(t *testing.T) {
	sched := testSchedule(t)
	prev := guest(t, "R1", "1234", "2024-06-01", "2024-06-03")
	curr := guest(t, "R1", "5678", "2024-06-01", "2024-06-03")

	desired, _ := assignCodes(Input{
		Current:  map[string]booking.Booking{"R1": curr},
		Previous: map[string]booking.Booking{"R1": prev},
		Codes:    map[string]booking.LockCode{"R1": sched.CodeFor(prev, "1234")},
	}, sched)

	assert.Equal(t, "5678", desired["R1"].Code)
}
