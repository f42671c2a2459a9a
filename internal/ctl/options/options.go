// Package options holds the flags shared by every command, the loaded
// configuration, and the helpers to build a client and print results.
package options

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/hvactools/airzonectl/internal/config"
	"github.com/hvactools/airzonectl/internal/hlog"
	"github.com/hvactools/airzonectl/pkg/airzone"
)

var Flags struct {
	Verbose      bool
	Debug        bool
	Json         bool
	Host         string
	Port         int
	Timeout      time.Duration
	NoCache      bool
	ForceRefresh bool
	Config       string
}

// Loaded is the configuration read by the root command before any
// subcommand runs.
var Loaded *config.Config

// NewClient builds a client from the loaded configuration with explicit
// flags taking precedence.
func NewClient() *airzone.Client {
	cfg := Loaded
	if cfg == nil {
		cfg = &config.Config{}
	}

	host := cfg.Host
	if Flags.Host != "" {
		host = Flags.Host
	}
	port := cfg.Port
	if Flags.Port != 0 {
		port = Flags.Port
	}
	timeout := cfg.Timeout
	if Flags.Timeout != 0 {
		timeout = Flags.Timeout
	}

	return airzone.NewClient(hlog.Logger, airzone.Config{
		Host:         host,
		Port:         port,
		Timeout:      timeout,
		DisableCache: Flags.NoCache,
		CacheDir:     cfg.CacheDir,
		CacheMaxAge:  cfg.CacheMaxAge,
	})
}

// BackupDir returns the configured snapshot directory.
func BackupDir() string {
	if Loaded != nil && Loaded.BackupDir != "" {
		return Loaded.BackupDir
	}
	return "backups"
}

// PrintResult renders a command result as JSON with --json, YAML otherwise.
func PrintResult(out any) error {
	if Flags.Json {
		s, err := json.Marshal(out)
		if err != nil {
			return err
		}
		fmt.Println(string(s))
	} else {
		s, err := yaml.Marshal(out)
		if err != nil {
			return err
		}
		fmt.Println(string(s))
	}
	return nil
}
