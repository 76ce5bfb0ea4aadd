package lock

// Config holds configuration for the Wyze lock connection.
type Config struct {
	// Email is the Wyze account email.
	Email string `mapstructure:"email" default:"" validate:"required,email"`
	// Password is the Wyze account password.
	Password string `mapstructure:"password" default:"" validate:"required"`
	// APIKey is the long-lived Wyze developer API key.
	APIKey string `mapstructure:"api_key" default:"" validate:"required"`
	// KeyID is the ID paired with the API key.
	KeyID string `mapstructure:"key_id" default:"" validate:"required"`
	// DeviceMAC selects the lock by MAC address. Either this or DeviceName
	// must match a lock on the account.
	DeviceMAC string `mapstructure:"device_mac" default:""`
	// DeviceName selects the lock by nickname when no MAC is configured.
	DeviceName string `mapstructure:"device_name" default:"Front Door"`
	// TimeoutSeconds is the per-request HTTP timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30" validate:"min=1"`
	// MaxAttempts is the total number of tries per device operation.
	MaxAttempts int `mapstructure:"max_attempts" default:"3" validate:"min=1"`
	// APIKeyExpires is the optional expiry date of the API key
	// (YYYY-MM-DD, with an optional HH:MM:SS), used for renewal reminders.
	APIKeyExpires string `mapstructure:"api_key_expires" default:""`
	// CleanupRetentionDays is how long expired guest codes may remain on
	// the device before the codes --cleanup command removes them.
	CleanupRetentionDays int `mapstructure:"cleanup_retention_days" default:"14" validate:"min=0"`
}
