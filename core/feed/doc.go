// Package feed fetches and parses the Airbnb iCal calendar export.
//
// Fetching is plain HTTPS with a bounded timeout and bounded exponential
// backoff; total unreachability of the feed is a systemic error that aborts
// the run. Parsing is per-event and forgiving: entries that are blocked
// dates or that lack start/end dates are skipped with a log line, never
// fatal, so one malformed event cannot block other guests' codes.
//
// Phone digits and the reservation ID are extracted from the free-text
// DESCRIPTION field with best-effort label matching; their absence is not an
// error and is handled downstream by the fallback code policy.
package feed
