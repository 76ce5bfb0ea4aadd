package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ztrayner/airbnb-lock-manager/core/booking"
)

func icalFeed(events ...string) []byte {
	lines := []string{
		"BEGIN:VCALENDAR",
		"PRODID:-//Airbnb Inc//Hosting Calendar 0.8.8//EN",
		"VERSION:2.0",
		"CALSCALE:GREGORIAN",
	}
	lines = append(lines, events...)
	lines = append(lines, "END:VCALENDAR")
	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

const reservedEvent = "BEGIN:VEVENT\r\n" +
	"DTSTAMP:20240520T120000Z\r\n" +
	"DTSTART;VALUE=DATE:20240601\r\n" +
	"DTEND;VALUE=DATE:20240603\r\n" +
	"SUMMARY:Reserved: Jane D (HMKHCAK3M3)\r\n" +
	"UID:1402e1f6c217-a1b2c3d4e5@airbnb.com\r\n" +
	"DESCRIPTION:Reservation URL: https://www.airbnb.com/hosting/reservations/d\r\n" +
	" etails/HMKHCAK3M3\\nPhone Number (Last 4 Digits): 6354\r\n" +
	"END:VEVENT"

const blockedEvent = "BEGIN:VEVENT\r\n" +
	"DTSTAMP:20240520T120000Z\r\n" +
	"DTSTART;VALUE=DATE:20240610\r\n" +
	"DTEND;VALUE=DATE:20240612\r\n" +
	"SUMMARY:Airbnb (Not available)\r\n" +
	"UID:blocked-1@airbnb.com\r\n" +
	"END:VEVENT"

const truncatedEvent = "BEGIN:VEVENT\r\n" +
	"DTSTAMP:20240520T120000Z\r\n" +
	"DTSTART;VALUE=DATE:20240620\r\n" +
	"SUMMARY:Reserved: Bob (HMTRUNCATED)\r\n" +
	"UID:truncated-1@airbnb.com\r\n" +
	"END:VEVENT"

const uidOnlyEvent = "BEGIN:VEVENT\r\n" +
	"DTSTAMP:20240520T120000Z\r\n" +
	"DTSTART;VALUE=DATE:20240701\r\n" +
	"DTEND;VALUE=DATE:20240704\r\n" +
	"SUMMARY:Reserved\r\n" +
	"UID:legacy-export-42@airbnb.com\r\n" +
	"END:VEVENT"

func testLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	return loc
}

func TestParse_Reservation(t *testing.T) {
	bookings, err := Parse(icalFeed(reservedEvent), testLocation(t), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, bookings, 1)

	b, ok := bookings["HMKHCAK3M3"]
	require.True(t, ok)
	assert.Equal(t, "HMKHCAK3M3", b.ReservationID)
	assert.Equal(t, "Jane D", b.GuestName)
	assert.Equal(t, "6354", b.PhoneLast4)
	assert.Equal(t, booking.NewDate(2024, time.June, 1), b.CheckIn)
	assert.Equal(t, booking.NewDate(2024, time.June, 3), b.CheckOut)
	assert.Equal(t, booking.StatusConfirmed, b.Status)
}

func TestParse_SkipsBlockedAndMalformed(t *testing.T) {
	bookings, err := Parse(icalFeed(reservedEvent, blockedEvent, truncatedEvent), testLocation(t), zap.NewNop())
	require.NoError(t, err)

	assert.Len(t, bookings, 1)
	assert.Contains(t, bookings, "HMKHCAK3M3")
}

func TestParse_UIDFallback(t *testing.T) {
	bookings, err := Parse(icalFeed(uidOnlyEvent), testLocation(t), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, bookings, 1)

	b, ok := bookings["legacy-export-42@airbnb.com"]
	require.True(t, ok)
	assert.Empty(t, b.PhoneLast4)
	assert.Equal(t, booking.NewDate(2024, time.July, 1), b.CheckIn)
}

func TestParse_EmptyCalendar(t *testing.T) {
	bookings, err := Parse(icalFeed(), testLocation(t), zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestParse_InvalidData(t *testing.T) {
	_, err := Parse([]byte("this is not a calendar"), testLocation(t), zap.NewNop())
	assert.Error(t, err)
}

func TestIsBlockedDate(t *testing.T) {
	assert.True(t, isBlockedDate("Airbnb (Not available)"))
	assert.True(t, isBlockedDate("Not available"))
	assert.True(t, isBlockedDate("Blocked"))
	assert.True(t, isBlockedDate("Airbnb"))
	assert.False(t, isBlockedDate("Reserved: Jane D (HMKHCAK3M3)"))
	assert.False(t, isBlockedDate("Reserved"))
}

func TestGuestName(t *testing.T) {
	assert.Equal(t, "Jane D", guestName("Reserved: Jane D (HMKHCAK3M3)"))
	assert.Equal(t, "Reserved", guestName("Reserved"))
	assert.Equal(t, "Guest", guestName(""))
}

func TestExtractPhoneLast4(t *testing.T) {
	assert.Equal(t, "6354", extractPhoneLast4("Phone Number (Last 4 Digits): 6354"))
	assert.Equal(t, "", extractPhoneLast4("no phone here"))
	assert.Equal(t, "", extractPhoneLast4("Phone Number (Last 4 Digits): 12"))
}

func TestExtractReservationID(t *testing.T) {
	assert.Equal(t, "HMKHCAK3M3",
		extractReservationID("Reservation URL: https://www.airbnb.com/hosting/reservations/details/HMKHCAK3M3"))
	assert.Equal(t, "", extractReservationID("no url"))
}
