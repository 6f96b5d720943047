package shared

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	DEFAULT_MOISTURE_THRESHOLD = 30.0
	DEFAULT_DAILY_CHECK_AT     = "09:00"
	DEFAULT_LISTENER_PORT      = 3000
	DEFAULT_SENSOR_FIELD       = "soilMoisture"
	DEFAULT_SENSOR_TIMEOUT     = 10 * time.Second
	DEFAULT_TWILIO_TIMEOUT     = 15 * time.Second
)

// SetDefaults registers default values & env bindings for all server config keys.
// Secrets can be provided through env vars so they don't need to live in the config file.
func SetDefaults(config *viper.Viper) {
	config.SetDefault("soilsense.moistureThreshold", DEFAULT_MOISTURE_THRESHOLD)
	config.SetDefault("soilsense.listener.port", DEFAULT_LISTENER_PORT)
	config.SetDefault("soilsense.cron.dailyCheckAt", DEFAULT_DAILY_CHECK_AT)
	config.SetDefault("soilsense.cron.runOnStartup", true)
	config.SetDefault("sensor.field", DEFAULT_SENSOR_FIELD)
	config.SetDefault("sensor.timeout", DEFAULT_SENSOR_TIMEOUT)
	config.SetDefault("twilio.timeout", DEFAULT_TWILIO_TIMEOUT)

	// FYI: env vars override whatever is in the config file
	config.BindEnv("twilio.accountSid", "TWILIO_ACCOUNT_SID")
	config.BindEnv("twilio.authToken", "TWILIO_AUTH_TOKEN")
	config.BindEnv("sqlite.passPhrase", "SQLITE_PASSPHRASE")
	config.BindEnv("google.applicationCredentials", "GOOGLE_APPLICATION_CREDENTIALS")

	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()
}

// LoadServerConfig decodes & validates the server config held by 'config'
func LoadServerConfig(config *viper.Viper) (*ServerConfig, error) {
	serverConfig := ServerConfig{}
	if err := config.Unmarshal(&serverConfig); err != nil {
		return nil, errors.Wrap(err, "unable to decode server config")
	}

	validate, err := NewValidator()
	if err != nil {
		return nil, err
	}

	if err := validate.Struct(serverConfig); err != nil {
		return nil, errors.Wrap(err, "invalid server config")
	}

	return &serverConfig, nil
}

// Location returns the time zone the scheduler runs in, defaulting to the host's local time
func (c CronConfig) Location() (*time.Location, error) {
	if strings.TrimSpace(c.TimeZone) == "" {
		return time.Local, nil
	}

	return time.LoadLocation(c.TimeZone)
}
