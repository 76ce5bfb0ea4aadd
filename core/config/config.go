package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ztrayner/airbnb-lock-manager/core/feed"
	"github.com/ztrayner/airbnb-lock-manager/core/lock"
	"github.com/ztrayner/airbnb-lock-manager/core/logger"
	"github.com/ztrayner/airbnb-lock-manager/core/notify"
	"github.com/ztrayner/airbnb-lock-manager/core/reconcile"
	"github.com/ztrayner/airbnb-lock-manager/core/state"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Feed holds configuration for the Airbnb iCal feed.
	Feed feed.Config `mapstructure:"feed"`
	// Lock holds configuration for the Wyze lock connection.
	Lock lock.Config `mapstructure:"lock"`
	// Timing holds code activation window settings.
	Timing TimingConfig `mapstructure:"timing"`
	// State holds configuration for the state store.
	State state.Config `mapstructure:"state"`
	// Notify holds configuration for operator notifications.
	Notify notify.Config `mapstructure:"notify"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Watch holds configuration for the in-process scheduler.
	Watch WatchConfig `mapstructure:"watch"`
}

// TimingConfig controls how booking dates become code activation windows.
type TimingConfig struct {
	// Timezone is the IANA zone of the lock's location. Wall-clock
	// check-in/out times are resolved in this zone, so windows shift
	// correctly across DST boundaries.
	Timezone string `mapstructure:"timezone" default:"America/Chicago" validate:"required"`
	// CheckInTime is the daily check-in time, HH:MM.
	CheckInTime string `mapstructure:"check_in_time" default:"16:00" validate:"required,datetime=15:04"`
	// CheckOutTime is the daily check-out time, HH:MM.
	CheckOutTime string `mapstructure:"check_out_time" default:"11:00" validate:"required,datetime=15:04"`
	// ActivationBufferMinutes activates codes this long before check-in.
	ActivationBufferMinutes int `mapstructure:"activation_buffer_minutes" default:"5" validate:"min=0"`
	// ExpirationBufferMinutes keeps codes alive this long after check-out.
	ExpirationBufferMinutes int `mapstructure:"expiration_buffer_minutes" default:"15" validate:"min=0"`
}

// Schedule builds the reconciliation schedule from the timing settings.
func (t TimingConfig) Schedule() (reconcile.Schedule, error) {
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return reconcile.Schedule{}, fmt.Errorf("invalid timezone %q: %w", t.Timezone, err)
	}
	checkIn, err := reconcile.ParseWallTime(t.CheckInTime)
	if err != nil {
		return reconcile.Schedule{}, err
	}
	checkOut, err := reconcile.ParseWallTime(t.CheckOutTime)
	if err != nil {
		return reconcile.Schedule{}, err
	}
	return reconcile.Schedule{
		Location:         loc,
		CheckIn:          checkIn,
		CheckOut:         checkOut,
		ActivationBuffer: time.Duration(t.ActivationBufferMinutes) * time.Minute,
		ExpirationBuffer: time.Duration(t.ExpirationBufferMinutes) * time.Minute,
	}, nil
}

// WatchConfig controls the in-process scheduler used by the watch command.
type WatchConfig struct {
	// Schedule is a cron expression or @every interval.
	Schedule string `mapstructure:"schedule" default:"@every 15m" validate:"required"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// Load .env file if it exists; absence is fine in production where the
	// scheduler injects real environment variables.
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. FEED_URL -> feed.url)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks required fields and cross-field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			verrs = fieldErrs
		}
		if len(verrs) > 0 {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Lock.DeviceMAC == "" && c.Lock.DeviceName == "" {
		return fmt.Errorf("invalid configuration: one of lock.device_mac or lock.device_name is required")
	}

	// Resolve the schedule once here so a bad timezone or wall time fails
	// at startup instead of mid-run.
	if _, err := c.Timing.Schedule(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
