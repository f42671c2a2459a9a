// Package config loads the process configuration in one explicit step:
// a .env file when present, AIRZONE_IP / AIRZONE_PORT environment variables,
// and an optional airzonectl.yaml file. Flags override everything; the
// merged result is passed down, never read from a global.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults for a stock Airzone webserver on the local network.
const (
	DefaultHost = "192.168.1.100"
	DefaultPort = 3000
)

// Config is the merged process configuration.
type Config struct {
	Host    string
	Port    int
	Timeout time.Duration

	CacheDir    string
	CacheMaxAge time.Duration

	BackupDir string

	// ExpectedZones maps a system ID (as a string key) to the zone names
	// the check command verifies the installation against.
	ExpectedZones map[string][]string
}

// Load reads .env, the environment, and the optional config file. cfgFile
// overrides the default search path (working directory, then
// ~/.airzonectl).
func Load(cfgFile string) (*Config, error) {
	// Best effort: a missing .env is the normal case.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("host", DefaultHost)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("timeout", "10s")
	v.SetDefault("cache.max_age", "300s")
	v.SetDefault("backup.dir", "backups")

	_ = v.BindEnv("host", "AIRZONE_IP")
	_ = v.BindEnv("port", "AIRZONE_PORT")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("airzonectl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".airzonectl"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// The config file is optional; anything else is a real error.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, err
		}
	}

	cfg := &Config{
		Host:          v.GetString("host"),
		Port:          v.GetInt("port"),
		Timeout:       v.GetDuration("timeout"),
		CacheDir:      v.GetString("cache.dir"),
		CacheMaxAge:   v.GetDuration("cache.max_age"),
		BackupDir:     v.GetString("backup.dir"),
		ExpectedZones: v.GetStringMapStringSlice("expected_zones"),
	}
	return cfg, nil
}
