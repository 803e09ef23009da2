package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port        string   `yaml:"port"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Feeds struct {
		NavBaseURL     string        `yaml:"nav_base_url"`
		ProxyBaseURL   string        `yaml:"proxy_base_url"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
	} `yaml:"feeds"`
	Snapshot struct {
		Hour int `yaml:"hour"` // reference-zone hour after which the daily snapshot is taken
	} `yaml:"snapshot"`
	Contribution struct {
		CronSpec string `yaml:"cron_spec"` // when the catch-up pass runs
	} `yaml:"contribution"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; the defaults and
// environment carry a zero-config deployment.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	// -1 marks the hour as unset so that a configured midnight (0) is
	// distinguishable from the field being absent.
	cfg.Snapshot.Hour = -1

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("NAV_FEED_BASE_URL"); v != "" {
		cfg.Feeds.NavBaseURL = v
	}
	if v := os.Getenv("PROXY_FEED_BASE_URL"); v != "" {
		cfg.Feeds.ProxyBaseURL = v
	}
	if v := os.Getenv("FEED_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Feeds.RequestTimeout = d
		} else {
			log.Printf("Config: ignoring invalid FEED_TIMEOUT %q: %v", v, err)
		}
	}
	if v := os.Getenv("SNAPSHOT_HOUR"); v != "" {
		if hour, err := strconv.Atoi(v); err == nil {
			cfg.Snapshot.Hour = hour
		} else {
			log.Printf("Config: ignoring invalid SNAPSHOT_HOUR %q: %v", v, err)
		}
	}
	if v := os.Getenv("CATCHUP_CRON"); v != "" {
		cfg.Contribution.CronSpec = v
	}

	// Defaults
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "./fund_tracker.db"
	}
	if cfg.Feeds.NavBaseURL == "" {
		cfg.Feeds.NavBaseURL = "http://fundgz.1234567.com.cn"
	}
	if cfg.Feeds.RequestTimeout == 0 {
		cfg.Feeds.RequestTimeout = 3 * time.Second
	}
	if cfg.Snapshot.Hour < 0 || cfg.Snapshot.Hour > 23 {
		cfg.Snapshot.Hour = 21
	}
	if cfg.Contribution.CronSpec == "" {
		// Weekday evenings at 20:00 in the reference zone, after the NAV
		// feed has refreshed.
		cfg.Contribution.CronSpec = "0 20 * * 1-5"
	}

	return cfg, nil
}
