// Package config loads the service configuration from a YAML file with
// ${ENV_VAR} expansion and applies defaults for anything left unset.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Cache struct {
		TTLSeconds int `yaml:"ttl_seconds"`
	} `yaml:"cache"`

	RateLimit struct {
		MaxRequests   int `yaml:"max_requests"`
		WindowSeconds int `yaml:"window_seconds"`
	} `yaml:"rate_limit"`

	Notifications struct {
		PerSecond int  `yaml:"per_second"`
		SMTP      SMTP `yaml:"smtp"`
		SMS       SMS  `yaml:"sms"`
	} `yaml:"notifications"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Reminders struct {
		Enabled              bool `yaml:"enabled"`
		LeadTimeMinutes      int  `yaml:"lead_time_minutes"`
		CheckIntervalMinutes int  `yaml:"check_interval_minutes"`
	} `yaml:"reminders"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		Dir           string `yaml:"dir"`
		IntervalHours int    `yaml:"interval_hours"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`

	Audit struct {
		Enabled bool   `yaml:"enabled"`
		Dir     string `yaml:"dir"`
	} `yaml:"audit"`

	Sheets struct {
		Enabled         bool   `yaml:"enabled"`
		SpreadsheetID   string `yaml:"spreadsheet_id"`
		CredentialsFile string `yaml:"credentials_file"`
		SheetName       string `yaml:"sheet_name"`
	} `yaml:"sheets"`
}

type SMTP struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type SMS struct {
	Server string `yaml:"server"`
	APIKey string `yaml:"api_key"`
	Sender string `yaml:"sender"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/officebook.db"
	}
	if c.Cache.TTLSeconds <= 0 {
		c.Cache.TTLSeconds = 300
	}
	if c.RateLimit.MaxRequests <= 0 {
		c.RateLimit.MaxRequests = 100
	}
	if c.RateLimit.WindowSeconds <= 0 {
		c.RateLimit.WindowSeconds = 60
	}
	if c.Notifications.PerSecond <= 0 {
		c.Notifications.PerSecond = 20
	}
	if c.Monitoring.HealthCheckPort <= 0 {
		c.Monitoring.HealthCheckPort = 8081
	}
	if c.Monitoring.PrometheusPort <= 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Reminders.LeadTimeMinutes <= 0 {
		c.Reminders.LeadTimeMinutes = 60
	}
	if c.Reminders.CheckIntervalMinutes <= 0 {
		c.Reminders.CheckIntervalMinutes = 5
	}
	if c.Backup.Dir == "" {
		c.Backup.Dir = "backups"
	}
	if c.Backup.IntervalHours <= 0 {
		c.Backup.IntervalHours = 24
	}
	if c.Sheets.SheetName == "" {
		c.Sheets.SheetName = "Reservations"
	}
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}
