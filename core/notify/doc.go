// Package notify sends operator notifications when lock codes change.
//
// Delivery goes through an external messaging CLI (WhatsApp by default), so
// the tool itself needs no messaging credentials. Notifications are strictly
// best-effort: a failed or timed-out send is logged and never affects the
// sync outcome. When no target number is configured the notifier is a no-op
// that only logs the message.
package notify
