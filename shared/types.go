package shared

import "time"

type ServerConfig struct {
	Sqlite    SqliteConfig    `mapstructure:"sqlite" validate:"required"`
	Soilsense SoilsenseConfig `mapstructure:"soilsense" validate:"required"`
	Sensor    SensorConfig    `mapstructure:"sensor" validate:"required"`
	Twilio    TwilioConfig    `mapstructure:"twilio" validate:"required"`
	Google    GoogleConfig    `mapstructure:"google"`
}

type SqliteConfig struct {
	PassPhrase string `mapstructure:"passPhrase" validate:"required"`
}

type SoilsenseConfig struct {
	MoistureThreshold float64        `mapstructure:"moistureThreshold" validate:"gt=0,lte=100"`
	Cron              CronConfig     `mapstructure:"cron" validate:"required"`
	Listener          ListenerConfig `mapstructure:"listener" validate:"required"`
}

type SensorConfig struct {
	URL     string        `mapstructure:"url" validate:"required,url"`
	Field   string        `mapstructure:"field" validate:"required"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type TwilioConfig struct {
	AccountSid          string        `mapstructure:"accountSid" validate:"required_without=DryRun"`
	AuthToken           string        `mapstructure:"authToken" validate:"required_without=DryRun"`
	From                string        `mapstructure:"from" validate:"required_without=MessagingServiceSid"`
	MessagingServiceSid string        `mapstructure:"messagingServiceSid" validate:"required_without=From"`
	Timeout             time.Duration `mapstructure:"timeout" validate:"gt=0"`
	DryRun              bool          `mapstructure:"dryRun"`
}

type GoogleConfig struct {
	ApplicationCredentials string        `mapstructure:"applicationCredentials"`
	Storage                StorageConfig `mapstructure:"storage"`
}

// TimeZone may be empty, in which case the host's local time zone is used.
// DailyCheckAt is a "HH:MM" wall clock time.
type CronConfig struct {
	TimeZone     string `mapstructure:"timeZone"`
	DailyCheckAt string `mapstructure:"dailyCheckAt" validate:"required,time_stamp"`
	RunOnStartup bool   `mapstructure:"runOnStartup"`
}

type ListenerConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

type StorageConfig struct {
	Bucket                    string `mapstructure:"bucket" validate:"required_with=EnableSqliteBackupAndSync"`
	Prefix                    string `mapstructure:"prefix" validate:"required_with=EnableSqliteBackupAndSync"`
	SqliteBackupSchedule      string `mapstructure:"sqliteBackupSchedule" validate:"required_with=EnableSqliteBackupAndSync"`
	EnableSqliteBackupAndSync bool   `mapstructure:"enableSqliteBackupAndSync"`
}
