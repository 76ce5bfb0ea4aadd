package state

// Config holds configuration for the state store.
type Config struct {
	// Path is the location of the JSON state file. The sidecar lock file is
	// derived from it by appending ".lock".
	Path string `mapstructure:"path" default:"bookings_state.json" validate:"required"`
}
