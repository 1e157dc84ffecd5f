// Package config resolves devroster settings from defaults, a TOML file, the environment
// and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"devroster/internal/api"
	"devroster/internal/controller"
	"devroster/internal/pager"

	"github.com/rs/zerolog"
)

// Flag names. File and env keys map onto these so an explicitly set flag always wins.
const (
	FlagBaseURL     = "base-url"
	FlagTimeout     = "timeout"
	FlagBannerDelay = "banner-delay"
	FlagPageSize    = "page-size"
	FlagRefetch     = "refetch"
	FlagLogFile     = "log-file"
	FlagLogLevel    = "log-level"
	FlagServerAddr  = "addr"
	FlagServerDB    = "db"
)

const (
	DefaultServerAddr = "127.0.0.1:8000"
	DefaultLogLevel   = "info"
)

// Config holds the resolved settings.
type Config struct {
	BaseURL     string        `json:"baseUrl"`
	Timeout     time.Duration `json:"timeout"`
	BannerDelay time.Duration `json:"bannerDelay"`
	// PageSize is the initial rows per page; pager.All shows every row.
	PageSize int    `json:"pageSize"`
	Refetch  string `json:"refetch"`

	// LogFile is where the TUI writes its log. Empty means <config dir>/devroster.log.
	LogFile  string `json:"logFile,omitempty"`
	LogLevel string `json:"logLevel"`

	ServerAddr string `json:"serverAddr"`
	// ServerDB is the sqlite path for the reference backend. Empty keeps records in memory.
	ServerDB string `json:"serverDb,omitempty"`
}

// Default returns a Config with default values.
func Default() Config {
	return Config{
		BaseURL:     api.DefaultBaseURL,
		BannerDelay: controller.DefaultBannerDelay,
		PageSize:    pager.All,
		Refetch:     controller.RefetchOnBannerClear.String(),
		LogLevel:    DefaultLogLevel,
		ServerAddr:  DefaultServerAddr,
	}
}

// Validate checks the configuration and normalizes it in place.
func (c *Config) Validate() error {
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	if c.BaseURL == "" {
		c.BaseURL = api.DefaultBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s: must be an http(s) URL, got %q", FlagBaseURL, c.BaseURL)
	}
	if !strings.HasSuffix(c.BaseURL, "/") {
		c.BaseURL += "/"
	}

	if c.Timeout < 0 {
		return fmt.Errorf("%s must not be negative", FlagTimeout)
	}
	if c.BannerDelay <= 0 {
		return fmt.Errorf("%s must be positive", FlagBannerDelay)
	}
	if !pager.ValidSize(c.PageSize) {
		return fmt.Errorf("%s: invalid page size %d", FlagPageSize, c.PageSize)
	}
	p, err := controller.ParseRefetchPolicy(c.Refetch)
	if err != nil {
		return fmt.Errorf("%s: %w", FlagRefetch, err)
	}
	c.Refetch = p.String()

	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = DefaultLogLevel
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("%s: %w", FlagLogLevel, err)
	}
	if strings.TrimSpace(c.ServerAddr) == "" {
		c.ServerAddr = DefaultServerAddr
	}
	return nil
}

// RefetchPolicy returns the parsed refetch policy. Call after Validate.
func (c Config) RefetchPolicy() controller.RefetchPolicy {
	p, _ := controller.ParseRefetchPolicy(c.Refetch)
	return p
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(c.LogLevel)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// ResolvedLogFile returns LogFile or the default path under the config dir.
func (c Config) ResolvedLogFile() (string, error) {
	if strings.TrimSpace(c.LogFile) != "" {
		return c.LogFile, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "devroster.log"), nil
}

// Dir returns the devroster config directory (~/.devroster unless DEVROSTER_CONFIG_DIR is set).
func Dir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.devroster).
	if v := strings.TrimSpace(os.Getenv("DEVROSTER_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".devroster"), nil
}

// DefaultPath returns <config dir>/config.toml, or "" when no home directory is available.
func DefaultPath() string {
	dir, err := Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// Load resolves the full configuration. cfg must already carry flag values; changed names
// the flags the user set explicitly. path is the config file ("" for the default); a missing
// default file is not an error, a missing explicit one is.
func Load(cfg *Config, path string, changed map[string]bool) error {
	if err := LoadDotEnv(""); err != nil {
		return err
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		fc, err := LoadFileConfig(path)
		switch {
		case err == nil:
			if err := ApplyFileConfig(cfg, fc, changed); err != nil {
				return fmt.Errorf("config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return fmt.Errorf("load config: %w", err)
		}
	}

	if err := ApplyEnvConfig(cfg, changed); err != nil {
		return err
	}
	return cfg.Validate()
}

// configSetter applies values unless the corresponding flag was set explicitly.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setPageSize accepts any valid size; 0 means unset.
func (s *configSetter) setPageSize(flag string, value int, dst *int) error {
	if value == 0 || s.changed[flag] {
		return nil
	}
	if !pager.ValidSize(value) {
		return fmt.Errorf("parse %s: invalid page size %d", flag, value)
	}
	*dst = value
	return nil
}

func (s *configSetter) setPageSizeFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	n, err := pager.ParseSize(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = n
	return nil
}

func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := parseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// parseDuration accepts Go durations and bare integers as milliseconds.
func parseDuration(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(v)
}
