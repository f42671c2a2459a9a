package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AIRZONE_IP", "")
	t.Setenv("AIRZONE_PORT", "")

	// An explicitly named but missing config file is an error; a missing
	// default config file is not.
	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("explicitly named missing config file accepted")
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Host != DefaultHost {
		t.Errorf("Host = %q, want %q", cfg.Host, DefaultHost)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Timeout)
	}
	if cfg.CacheMaxAge != 300*time.Second {
		t.Errorf("CacheMaxAge = %v, want 300s", cfg.CacheMaxAge)
	}
	if cfg.BackupDir != "backups" {
		t.Errorf("BackupDir = %q, want backups", cfg.BackupDir)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("AIRZONE_IP", "10.0.0.7")
	t.Setenv("AIRZONE_PORT", "3001")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Host != "10.0.0.7" {
		t.Errorf("Host = %q, want 10.0.0.7", cfg.Host)
	}
	if cfg.Port != 3001 {
		t.Errorf("Port = %d, want 3001", cfg.Port)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "airzonectl.yaml")
	content := `host: 192.168.7.42
port: 3000
timeout: 5s
cache:
  max_age: 60s
backup:
  dir: /tmp/az-backups
expected_zones:
  "1":
    - Living
  "2":
    - Office
    - Bedroom
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Host != "192.168.7.42" {
		t.Errorf("Host = %q", cfg.Host)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
	}
	if cfg.CacheMaxAge != time.Minute {
		t.Errorf("CacheMaxAge = %v, want 1m", cfg.CacheMaxAge)
	}
	if cfg.BackupDir != "/tmp/az-backups" {
		t.Errorf("BackupDir = %q", cfg.BackupDir)
	}
	if len(cfg.ExpectedZones["2"]) != 2 {
		t.Errorf("ExpectedZones = %v", cfg.ExpectedZones)
	}
}
