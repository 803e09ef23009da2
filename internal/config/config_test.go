package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Database.SQLitePath != "./fund_tracker.db" {
		t.Errorf("SQLitePath = %q", cfg.Database.SQLitePath)
	}
	if cfg.Feeds.RequestTimeout != 3*time.Second {
		t.Errorf("RequestTimeout = %v, want 3s", cfg.Feeds.RequestTimeout)
	}
	if cfg.Snapshot.Hour != 21 {
		t.Errorf("Snapshot.Hour = %d, want 21", cfg.Snapshot.Hour)
	}
	if cfg.Contribution.CronSpec != "0 20 * * 1-5" {
		t.Errorf("CronSpec = %q", cfg.Contribution.CronSpec)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "9090"
  cors_origins:
    - http://localhost:3000
database:
  sqlite_path: /data/funds.db
feeds:
  proxy_base_url: http://quotes.internal
  request_timeout: 5s
snapshot:
  hour: 22
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Server.Port)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Database.SQLitePath != "/data/funds.db" {
		t.Errorf("SQLitePath = %q", cfg.Database.SQLitePath)
	}
	if cfg.Feeds.ProxyBaseURL != "http://quotes.internal" {
		t.Errorf("ProxyBaseURL = %q", cfg.Feeds.ProxyBaseURL)
	}
	if cfg.Feeds.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", cfg.Feeds.RequestTimeout)
	}
	if cfg.Snapshot.Hour != 22 {
		t.Errorf("Snapshot.Hour = %d, want 22", cfg.Snapshot.Hour)
	}
	// File did not set the NAV feed URL, so the default applies.
	if cfg.Feeds.NavBaseURL != "http://fundgz.1234567.com.cn" {
		t.Errorf("NavBaseURL = %q", cfg.Feeds.NavBaseURL)
	}
}

func TestLoadMidnightSnapshotHour(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("snapshot:\n  hour: 0\n"), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Snapshot.Hour != 0 {
		t.Errorf("Snapshot.Hour = %d, want configured midnight 0", cfg.Snapshot.Hour)
	}
}

func TestLoadMidnightSnapshotHourFromEnv(t *testing.T) {
	t.Setenv("SNAPSHOT_HOUR", "0")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Snapshot.Hour != 0 {
		t.Errorf("Snapshot.Hour = %d, want 0", cfg.Snapshot.Hour)
	}
}

func TestLoadOutOfRangeSnapshotHourDefaults(t *testing.T) {
	t.Setenv("SNAPSHOT_HOUR", "24")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Snapshot.Hour != 21 {
		t.Errorf("Snapshot.Hour = %d, want default 21", cfg.Snapshot.Hour)
	}
}

func TestLoadMalformedEnvValuesFallBack(t *testing.T) {
	t.Setenv("FEED_TIMEOUT", "soon")
	t.Setenv("SNAPSHOT_HOUR", "nine")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Feeds.RequestTimeout != 3*time.Second {
		t.Errorf("RequestTimeout = %v, want default 3s", cfg.Feeds.RequestTimeout)
	}
	if cfg.Snapshot.Hour != 21 {
		t.Errorf("Snapshot.Hour = %d, want default 21", cfg.Snapshot.Hour)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("DB_PATH", "/tmp/override.db")
	t.Setenv("NAV_FEED_BASE_URL", "http://nav.test")
	t.Setenv("FEED_TIMEOUT", "10s")
	t.Setenv("SNAPSHOT_HOUR", "23")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("Port = %q, want 7070", cfg.Server.Port)
	}
	if cfg.Database.SQLitePath != "/tmp/override.db" {
		t.Errorf("SQLitePath = %q", cfg.Database.SQLitePath)
	}
	if cfg.Feeds.NavBaseURL != "http://nav.test" {
		t.Errorf("NavBaseURL = %q", cfg.Feeds.NavBaseURL)
	}
	if cfg.Feeds.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", cfg.Feeds.RequestTimeout)
	}
	if cfg.Snapshot.Hour != 23 {
		t.Errorf("Snapshot.Hour = %d, want 23", cfg.Snapshot.Hour)
	}
	if len(cfg.Server.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
}
