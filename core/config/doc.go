// Package config loads and validates the application configuration.
//
// Configuration comes from environment variables, optionally seeded by a
// .env file next to the binary. Keys are nested by section and mapped from
// the environment with underscores, e.g. FEED_URL, LOCK_EMAIL,
// TIMING_TIMEZONE, STATE_PATH. Defaults live in struct tags and are bound
// through Viper by reflection.
//
// Validation runs at load time: required credentials, wall-time formats,
// and the timezone are all checked up front so a misconfigured install
// fails on startup rather than mid-sync.
package config
