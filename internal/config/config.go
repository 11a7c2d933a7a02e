// Package config assembles the tracker's settings from its sources, later
// wins: built-in defaults, the tool's own yaml file, the shared
// ~/.wakatime.cfg credentials, command-line flags.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/penwyp/go-kicad-wakatime/internal/core/constants"
)

// Config contains the full runtime configuration of the tracker.
type Config struct {
	// WakaTime account
	APIKey string
	APIURL string

	// Reporter
	CLIPath  string
	PluginID string
	DryRun   bool

	// KiCad settings discovery; empty means platform default
	SettingsPath string

	// Engine timing
	PollInterval      time.Duration
	HeartbeatInterval time.Duration
	IdleThreshold     time.Duration

	// Logging
	LogLevel  string
	LogFile   string
	Quiet     bool
	NoFileLog bool
}

// Validate fills defaults and checks the result is runnable.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		c.APIURL = constants.DefaultAPIURL
	}
	if c.PluginID == "" {
		c.PluginID = fmt.Sprintf("%s/%s", constants.AppName, constants.Version)
	}
	if c.PollInterval == 0 {
		c.PollInterval = constants.DefaultPollInterval
	}
	if c.HeartbeatInterval == 0 {
		c.HeartbeatInterval = constants.DefaultHeartbeatInterval
	}
	if c.IdleThreshold == 0 {
		c.IdleThreshold = constants.DefaultIdleThreshold
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFile == "" {
		c.LogFile = "~/." + constants.AppName + "/logs/app.log"
	}
	if c.APIKey == "" && !c.DryRun {
		return errors.New("wakatime api key not configured (set api_key in ~/.wakatime.cfg)")
	}
	return nil
}

// fileConfig is the yaml shape of the tool's own config file. Durations
// are strings ("90s", "2m") so the file stays hand-editable.
type fileConfig struct {
	APIKey            string `yaml:"api_key"`
	APIURL            string `yaml:"api_url"`
	CLIPath           string `yaml:"cli_path"`
	KicadSettings     string `yaml:"kicad_settings"`
	LogLevel          string `yaml:"log_level"`
	LogFile           string `yaml:"log_file"`
	PollInterval      string `yaml:"poll_interval"`
	HeartbeatInterval string `yaml:"heartbeat_interval"`
	IdleThreshold     string `yaml:"idle_threshold"`
}

// LoadFile overlays settings from the tool's yaml config onto c. A
// missing file is fine; a present but broken one is an error.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.APIKey != "" {
		c.APIKey = fc.APIKey
	}
	if fc.APIURL != "" {
		c.APIURL = fc.APIURL
	}
	if fc.CLIPath != "" {
		c.CLIPath = fc.CLIPath
	}
	if fc.KicadSettings != "" {
		c.SettingsPath = fc.KicadSettings
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.LogFile != "" {
		c.LogFile = fc.LogFile
	}

	for _, d := range []struct {
		raw  string
		name string
		dst  *time.Duration
	}{
		{fc.PollInterval, "poll_interval", &c.PollInterval},
		{fc.HeartbeatInterval, "heartbeat_interval", &c.HeartbeatInterval},
		{fc.IdleThreshold, "idle_threshold", &c.IdleThreshold},
	} {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("parse config %s: %s: %w", path, d.name, err)
		}
		*d.dst = parsed
	}

	return nil
}

// ApplyWakatimeCfg overlays api credentials from the config file shared
// by every wakatime plugin. A missing file leaves c untouched.
func (c *Config) ApplyWakatimeCfg(path string) error {
	key, url, err := LoadWakatimeCfg(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if key != "" {
		c.APIKey = key
	}
	if url != "" {
		c.APIURL = url
	}
	return nil
}

// LoadWakatimeCfg reads api_key and api_url from the [settings] section
// of a wakatime ini file. The format is too small to warrant a parser
// dependency: sections, key = value pairs, # or ; comments.
func LoadWakatimeCfg(path string) (apiKey, apiURL string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer file.Close()

	inSettings := false
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inSettings = strings.EqualFold(line, "[settings]")
			continue
		}
		if !inSettings {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		switch strings.TrimSpace(key) {
		case "api_key":
			apiKey = strings.TrimSpace(value)
		case "api_url":
			apiURL = strings.TrimSpace(value)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", "", fmt.Errorf("read %s: %w", path, err)
	}
	return apiKey, apiURL, nil
}
