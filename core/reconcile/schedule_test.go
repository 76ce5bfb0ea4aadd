package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWallTime(t *testing.T) {
	wt, err := ParseWallTime("16:00")
	require.NoError(t, err)
	assert.Equal(t, WallTime{Hour: 16}, wt)

	wt, err = ParseWallTime("09:30")
	require.NoError(t, err)
	assert.Equal(t, WallTime{Hour: 9, Minute: 30}, wt)

	_, err = ParseWallTime("25:00")
	assert.Error(t, err)

	_, err = ParseWallTime("noon")
	assert.Error(t, err)
}

func TestScheduleWindow(t *testing.T) {
	sched := testSchedule(t)

	from, until := sched.Window(mustDate(t, "2024-06-01"), mustDate(t, "2024-06-03"))
	assert.True(t, from.Equal(time.Date(2024, 6, 1, 15, 55, 0, 0, sched.Location)))
	assert.True(t, until.Equal(time.Date(2024, 6, 3, 11, 15, 0, 0, sched.Location)))
}

// TestScheduleWindow_AcrossDSTEnd pins wall-clock times on both sides of the
// November fall-back: the check-in is still CDT, the check-out already CST.
func TestScheduleWindow_AcrossDSTEnd(t *testing.T) {
	sched := testSchedule(t)

	from, until := sched.Window(mustDate(t, "2024-11-01"), mustDate(t, "2024-11-04"))

	assert.Equal(t, 15, from.Hour())
	assert.Equal(t, 55, from.Minute())
	_, fromOffset := from.Zone()
	assert.Equal(t, -5*3600, fromOffset)

	assert.Equal(t, 11, until.Hour())
	assert.Equal(t, 15, until.Minute())
	_, untilOffset := until.Zone()
	assert.Equal(t, -6*3600, untilOffset)
}

func TestScheduleCodeFor(t *testing.T) {
	sched := testSchedule(t)
	b := guest(t, "HMABC123", "6354", "2024-06-01", "2024-06-03")

	code := sched.CodeFor(b, "6354")
	assert.Equal(t, "6354", code.Code)
	assert.Equal(t, "Guest_6354", code.Label)
	assert.Equal(t, "HMABC123", code.ReservationID)
	assert.True(t, code.ActiveFrom.Before(code.ActiveUntil))
}
