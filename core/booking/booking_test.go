package booking

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateParseAndString(t *testing.T) {
	d, err := ParseDate("2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: time.June, Day: 1}, d)
	assert.Equal(t, "2024-06-01", d.String())

	_, err = ParseDate("06/01/2024")
	assert.Error(t, err)

	_, err = ParseDate("2024-13-01")
	assert.Error(t, err)
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.June, 1)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-06-01"`, string(raw))

	var back Date
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, d, back)
}

func TestDateAt(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	d := NewDate(2024, time.June, 1)
	at := d.At(16, 0, loc)
	assert.True(t, at.Equal(time.Date(2024, 6, 1, 16, 0, 0, 0, loc)))
}

func TestDateOrdering(t *testing.T) {
	early := NewDate(2024, time.June, 1)
	late := NewDate(2024, time.June, 3)

	assert.True(t, early.Before(late))
	assert.False(t, late.Before(early))
	assert.True(t, late.After(early))
	assert.False(t, early.Before(early))
}

func TestBookingSame(t *testing.T) {
	base := Booking{
		ReservationID: "R1",
		GuestName:     "Jane",
		PhoneLast4:    "6354",
		CheckIn:       NewDate(2024, time.June, 1),
		CheckOut:      NewDate(2024, time.June, 3),
		Status:        StatusConfirmed,
	}

	renamed := base
	renamed.GuestName = "Jane D"
	assert.True(t, base.Same(renamed), "guest name alone is not a change")

	extended := base
	extended.CheckOut = NewDate(2024, time.June, 5)
	assert.False(t, base.Same(extended))

	rephoned := base
	rephoned.PhoneLast4 = "9999"
	assert.False(t, base.Same(rephoned))
}

func TestLockCodeOverlaps(t *testing.T) {
	loc := time.UTC
	a := LockCode{
		ActiveFrom:  time.Date(2024, 6, 1, 16, 0, 0, 0, loc),
		ActiveUntil: time.Date(2024, 6, 3, 11, 0, 0, 0, loc),
	}
	b := LockCode{
		ActiveFrom:  time.Date(2024, 6, 2, 16, 0, 0, 0, loc),
		ActiveUntil: time.Date(2024, 6, 4, 11, 0, 0, 0, loc),
	}
	c := LockCode{
		ActiveFrom:  time.Date(2024, 6, 10, 16, 0, 0, 0, loc),
		ActiveUntil: time.Date(2024, 6, 12, 11, 0, 0, 0, loc),
	}

	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
	assert.False(t, a.Overlaps(c))
	assert.False(t, c.Overlaps(a))
}

func TestLockCodeExpired(t *testing.T) {
	code := LockCode{
		ActiveFrom:  time.Date(2024, 6, 1, 16, 0, 0, 0, time.UTC),
		ActiveUntil: time.Date(2024, 6, 3, 11, 0, 0, 0, time.UTC),
	}

	assert.False(t, code.Expired(time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)))
	assert.False(t, code.Expired(code.ActiveUntil))
	assert.True(t, code.Expired(time.Date(2024, 6, 3, 11, 0, 1, 0, time.UTC)))
}

func TestCodeLabel(t *testing.T) {
	assert.Equal(t, "Guest_6354", CodeLabel("6354"))
}
