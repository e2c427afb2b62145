package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/max42watt/pv-calculator/logging"
	"github.com/spf13/viper"
)

type AppConfigApi struct {
	Address string
	Port    int16
	// Origins the external presentation layer is served from. CORS headers
	// are only emitted for these.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type AppConfigDatabase struct {
	Path string
	// How many days daily backup files should be stored before they get deleted
	BackupRetentionDays *int `mapstructure:"backup_retention_days"`
	// How many calculation history rows to keep, oldest are purged first
	MaxCalculations *int `mapstructure:"max_calculations"`
}

func (d AppConfigDatabase) GetBackupRetentionDays() int {
	if d.BackupRetentionDays == nil {
		return 90
	}
	return *d.BackupRetentionDays
}

func (d AppConfigDatabase) GetMaxCalculations() int {
	if d.MaxCalculations == nil {
		return 1000
	}
	return *d.MaxCalculations
}

type AppConfigSettings struct {
	// Path to the expert settings file shipped by the office. Empty means
	// the built-in defaults are used unchanged.
	File string
	// Reload the file on change and push a notification to connected clients
	Watch *bool
}

func (s AppConfigSettings) GetWatch() bool {
	if s.Watch == nil {
		return false
	}
	return *s.Watch
}

type AppConfigSession struct {
	// Key for authenticating session cookies. When empty an ephemeral key is
	// generated at startup and client settings do not survive a restart.
	Secret     string
	MaxAgeDays *int `mapstructure:"max_age_days"`
}

func (s AppConfigSession) GetMaxAgeDays() int {
	if s.MaxAgeDays == nil {
		return 30
	}
	return *s.MaxAgeDays
}

type AppConfigBackup struct {
	RunAt *string `mapstructure:"run_at"` // Cron spec, default: daily at 03:00
}

func (b AppConfigBackup) GetRunAt() string {
	if b.RunAt == nil {
		return "0 3 * * *"
	}
	return *b.RunAt
}

type AppConfigMaintenance struct {
	RunAt *string `mapstructure:"run_at"` // Cron spec, default: daily at 02:30
}

func (m AppConfigMaintenance) GetRunAt() string {
	if m.RunAt == nil {
		return "30 2 * * *"
	}
	return *m.RunAt
}

type AppConfigLogging struct {
	// Min log level for database : "DEBUG", "INFO", "WARN", "ERROR", default: "WARN"
	DbLevel *string `mapstructure:"db_level"`
	// Log attributes format: "TEXT", "JSON", default: "JSON"
	DbAttrsFormat *string `mapstructure:"db_attrs_format"`
	// Maximum number of log entries in the database, default: 10000
	DbMaxEntries *int `mapstructure:"db_max_entries"`
	// Min log level for the console: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
}

func (l AppConfigLogging) GetDbLevel() slog.Level {
	if l.DbLevel == nil {
		return slog.LevelWarn
	}
	return logging.LevelFromString(l.DbLevel)
}

func (l AppConfigLogging) GetDbAttrsFormat() logging.LogAttrFormat {
	if l.DbAttrsFormat == nil {
		return logging.LogAttrFormatJSON
	}
	if strings.EqualFold(*l.DbAttrsFormat, "text") {
		return logging.LogAttrFormatText
	}
	return logging.LogAttrFormatJSON
}

func (l AppConfigLogging) GetDbMaxEntries() int {
	if l.DbMaxEntries == nil {
		return 10000
	}
	return *l.DbMaxEntries
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	return logging.LevelFromString(l.ConsoleLevel)
}

type AppConfig struct {
	Api         AppConfigApi
	Database    AppConfigDatabase
	Settings    AppConfigSettings
	Session     AppConfigSession
	Backup      AppConfigBackup
	Maintenance AppConfigMaintenance
	Logging     AppConfigLogging
}

func Load(path string) (*AppConfig, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.AddConfigPath("config")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c AppConfig

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	if err := viper.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	return &c, nil
}
