package feed

// Config holds configuration for the calendar feed.
type Config struct {
	// URL is the Airbnb iCal export URL.
	URL string `mapstructure:"url" default:"" validate:"required,url"`
	// TimeoutSeconds is the per-request HTTP timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30" validate:"min=1"`
	// MaxRetries is the number of retries after the first failed fetch.
	MaxRetries int `mapstructure:"max_retries" default:"3" validate:"min=0"`
}
