package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvBaseURL     = "DEVROSTER_BASE_URL"
	EnvTimeout     = "DEVROSTER_TIMEOUT"
	EnvBannerDelay = "DEVROSTER_BANNER_DELAY"
	EnvPageSize    = "DEVROSTER_PAGE_SIZE"
	EnvRefetch     = "DEVROSTER_REFETCH"
	EnvLogFile     = "DEVROSTER_LOG_FILE"
	EnvLogLevel    = "DEVROSTER_LOG_LEVEL"
	EnvServerAddr  = "DEVROSTER_SERVER_ADDR"
	EnvServerDB    = "DEVROSTER_SERVER_DB"
)

// ApplyEnvConfig applies DEVROSTER_* environment variables, skipping flags in changed.
// Returns an error if any variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString(FlagBaseURL, os.Getenv(EnvBaseURL), &cfg.BaseURL)
	s.setString(FlagRefetch, os.Getenv(EnvRefetch), &cfg.Refetch)
	s.setString(FlagLogFile, os.Getenv(EnvLogFile), &cfg.LogFile)
	s.setString(FlagLogLevel, os.Getenv(EnvLogLevel), &cfg.LogLevel)
	s.setString(FlagServerAddr, os.Getenv(EnvServerAddr), &cfg.ServerAddr)
	s.setString(FlagServerDB, os.Getenv(EnvServerDB), &cfg.ServerDB)

	if err := s.setDuration(FlagTimeout, os.Getenv(EnvTimeout), &cfg.Timeout); err != nil {
		return err
	}
	if err := s.setDuration(FlagBannerDelay, os.Getenv(EnvBannerDelay), &cfg.BannerDelay); err != nil {
		return err
	}
	return s.setPageSizeFromString(FlagPageSize, os.Getenv(EnvPageSize), &cfg.PageSize)
}

// LoadDotEnv loads KEY=VALUE pairs from path (default: .env in the working directory, then
// in the config dir) without overriding variables already set. Missing files are ignored.
func LoadDotEnv(path string) error {
	paths := []string{path}
	if path == "" {
		paths = []string{".env"}
		if dir, err := Dir(); err == nil {
			paths = append(paths, filepath.Join(dir, ".env"))
		}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}
