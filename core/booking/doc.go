// Package booking contains the domain models shared across the application:
// calendar bookings parsed from the Airbnb iCal feed and the lock codes
// derived from them.
//
// Bookings are keyed by reservation ID, which is the stable identifier used
// for all diffing between runs. Check-in and check-out are civil dates (no
// time component); the absolute activation window of a lock code is computed
// from them by the reconcile package using the configured wall-clock times
// and timezone.
package booking
