package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/max42watt/pv-calculator/logging"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
api:
  address: "127.0.0.1"
  port: 8137
  allowed_origins:
    - "https://quote.example.com"
database:
  path: "./data/pvcalc.db"
  backup_retention_days: 14
  max_calculations: 250
settings:
  file: "./config/expert_settings.yaml"
  watch: true
session:
  secret: "test-secret"
  max_age_days: 7
backup:
  run_at: "0 4 * * *"
maintenance:
  run_at: "45 2 * * *"
logging:
  console_level: "DEBUG"
  db_level: "ERROR"
  db_attrs_format: "text"
  db_max_entries: 500
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if c.Api.Address != "127.0.0.1" || c.Api.Port != 8137 {
		t.Errorf("got api %s:%d, wanted 127.0.0.1:8137", c.Api.Address, c.Api.Port)
	}
	if len(c.Api.AllowedOrigins) != 1 || c.Api.AllowedOrigins[0] != "https://quote.example.com" {
		t.Errorf("got allowed origins %v", c.Api.AllowedOrigins)
	}
	if c.Database.Path != "./data/pvcalc.db" {
		t.Errorf("got database path %s", c.Database.Path)
	}
	if c.Database.GetBackupRetentionDays() != 14 {
		t.Errorf("got backup retention %d, wanted 14", c.Database.GetBackupRetentionDays())
	}
	if c.Database.GetMaxCalculations() != 250 {
		t.Errorf("got max calculations %d, wanted 250", c.Database.GetMaxCalculations())
	}
	if c.Settings.File != "./config/expert_settings.yaml" || !c.Settings.GetWatch() {
		t.Errorf("got settings %+v", c.Settings)
	}
	if c.Session.Secret != "test-secret" || c.Session.GetMaxAgeDays() != 7 {
		t.Errorf("got session %+v", c.Session)
	}
	if c.Backup.GetRunAt() != "0 4 * * *" {
		t.Errorf("got backup run_at %s", c.Backup.GetRunAt())
	}
	if c.Maintenance.GetRunAt() != "45 2 * * *" {
		t.Errorf("got maintenance run_at %s", c.Maintenance.GetRunAt())
	}
	if c.Logging.GetConsoleLevel() != slog.LevelDebug {
		t.Errorf("got console level %v, wanted DEBUG", c.Logging.GetConsoleLevel())
	}
	if c.Logging.GetDbLevel() != slog.LevelError {
		t.Errorf("got db level %v, wanted ERROR", c.Logging.GetDbLevel())
	}
	if c.Logging.GetDbAttrsFormat() != logging.LogAttrFormatText {
		t.Errorf("got db attrs format %v, wanted TEXT", c.Logging.GetDbAttrsFormat())
	}
	if c.Logging.GetDbMaxEntries() != 500 {
		t.Errorf("got db max entries %d, wanted 500", c.Logging.GetDbMaxEntries())
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfigFile(t, `
api:
  port: 8137
database:
  path: "./data/pvcalc.db"
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if c.Database.GetBackupRetentionDays() != 90 {
		t.Errorf("got backup retention %d, wanted default 90", c.Database.GetBackupRetentionDays())
	}
	if c.Database.GetMaxCalculations() != 1000 {
		t.Errorf("got max calculations %d, wanted default 1000", c.Database.GetMaxCalculations())
	}
	if c.Settings.GetWatch() {
		t.Errorf("settings watch should default to off")
	}
	if c.Session.GetMaxAgeDays() != 30 {
		t.Errorf("got session max age %d, wanted default 30", c.Session.GetMaxAgeDays())
	}
	if c.Backup.GetRunAt() != "0 3 * * *" {
		t.Errorf("got backup run_at %s, wanted default", c.Backup.GetRunAt())
	}
	if c.Maintenance.GetRunAt() != "30 2 * * *" {
		t.Errorf("got maintenance run_at %s, wanted default", c.Maintenance.GetRunAt())
	}
	if c.Logging.GetConsoleLevel() != slog.LevelInfo {
		t.Errorf("got console level %v, wanted default INFO", c.Logging.GetConsoleLevel())
	}
	if c.Logging.GetDbLevel() != slog.LevelWarn {
		t.Errorf("got db level %v, wanted default WARN", c.Logging.GetDbLevel())
	}
	if c.Logging.GetDbAttrsFormat() != logging.LogAttrFormatJSON {
		t.Errorf("got db attrs format %v, wanted default JSON", c.Logging.GetDbAttrsFormat())
	}
}
