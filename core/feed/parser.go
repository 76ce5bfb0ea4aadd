package feed

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"go.uber.org/zap"

	"github.com/ztrayner/airbnb-lock-manager/core/booking"
)

var (
	// Airbnb embeds the guest phone digits in the event description as
	// "Phone Number (Last 4 Digits): XXXX".
	phonePattern = regexp.MustCompile(`Phone Number \(Last 4 Digits\):\s*(\d{4})`)

	// The reservation ID appears in the confirmation URL, e.g.
	// ".../details/HMKHCAK3M3".
	reservationPattern = regexp.MustCompile(`/details/([A-Z0-9]+)`)
)

// Parse decodes raw iCal bytes into bookings keyed by reservation ID.
//
// Blocked dates and events without start/end dates are skipped per-event and
// logged; only an undecodable calendar is an error. All-day event dates are
// resolved in the given location.
func Parse(data []byte, loc *time.Location, logg *zap.Logger) (map[string]booking.Booking, error) {
	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	if err != nil {
		return nil, fmt.Errorf("decoding calendar feed: %w", err)
	}

	bookings := make(map[string]booking.Booking)
	for _, ev := range cal.Events() {
		summary, _ := ev.Props.Text(ical.PropSummary)
		if isBlockedDate(summary) {
			continue
		}

		uid, _ := ev.Props.Text(ical.PropUID)

		if ev.Props.Get(ical.PropDateTimeStart) == nil || ev.Props.Get(ical.PropDateTimeEnd) == nil {
			logg.Warn("skipping malformed event without start/end dates",
				zap.String("uid", uid), zap.String("summary", summary))
			continue
		}

		start, err := ev.DateTimeStart(loc)
		if err != nil {
			logg.Warn("skipping event with unparseable start date", zap.String("uid", uid), zap.Error(err))
			continue
		}
		end, err := ev.DateTimeEnd(loc)
		if err != nil {
			logg.Warn("skipping event with unparseable end date", zap.String("uid", uid), zap.Error(err))
			continue
		}

		description, _ := ev.Props.Text(ical.PropDescription)

		id := extractReservationID(description)
		if id == "" {
			// Older exports omit the confirmation URL; the UID is still a
			// stable per-reservation key.
			id = uid
		}
		if id == "" {
			logg.Warn("skipping event without any usable identifier", zap.String("summary", summary))
			continue
		}

		bookings[id] = booking.Booking{
			ReservationID: id,
			GuestName:     guestName(summary),
			PhoneLast4:    extractPhoneLast4(description),
			CheckIn:       booking.DateOf(start),
			CheckOut:      booking.DateOf(end),
			Status:        booking.StatusConfirmed,
		}
	}

	return bookings, nil
}

// isBlockedDate reports whether an event is a calendar block rather than a
// reservation ("Not available", "Airbnb (Not available)", bare "Airbnb").
func isBlockedDate(summary string) bool {
	s := strings.ToLower(strings.TrimSpace(summary))
	return strings.Contains(s, "not available") ||
		strings.Contains(s, "blocked") ||
		s == "airbnb" ||
		strings.HasPrefix(s, "airbnb (")
}

// guestName cleans the event summary into a display name. Summaries look
// like "Reserved: Jane D (HMKHCAK3M3)".
func guestName(summary string) string {
	name := summary
	if i := strings.LastIndex(name, ":"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "("); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "Guest"
	}
	return name
}

// extractPhoneLast4 scans the description for the labeled phone digits.
// Returns "" when absent.
func extractPhoneLast4(description string) string {
	m := phonePattern.FindStringSubmatch(description)
	if m == nil {
		return ""
	}
	return m[1]
}

// extractReservationID scans the description for the confirmation URL.
// Returns "" when absent.
func extractReservationID(description string) string {
	m := reservationPattern.FindStringSubmatch(description)
	if m == nil {
		return ""
	}
	return m[1]
}
