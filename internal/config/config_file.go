package config

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	BaseURL     string `toml:"base_url"`
	Timeout     string `toml:"timeout"`
	BannerDelay string `toml:"banner_delay"`
	// PageSize is rows per page; -1 shows all. 0 leaves the default.
	PageSize int    `toml:"page_size"`
	Refetch  string `toml:"refetch"`
	LogFile  string `toml:"log_file"`
	LogLevel string `toml:"log_level"`

	Server struct {
		Addr string `toml:"addr"`
		DB   string `toml:"db"`
	} `toml:"server"`
}

// LoadFileConfig reads and parses a TOML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// ApplyFileConfig copies set file values into cfg, skipping flags in changed.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString(FlagBaseURL, fc.BaseURL, &cfg.BaseURL)
	s.setString(FlagRefetch, fc.Refetch, &cfg.Refetch)
	s.setString(FlagLogFile, fc.LogFile, &cfg.LogFile)
	s.setString(FlagLogLevel, fc.LogLevel, &cfg.LogLevel)
	s.setString(FlagServerAddr, fc.Server.Addr, &cfg.ServerAddr)
	s.setString(FlagServerDB, fc.Server.DB, &cfg.ServerDB)

	if err := s.setDuration(FlagTimeout, fc.Timeout, &cfg.Timeout); err != nil {
		return err
	}
	if err := s.setDuration(FlagBannerDelay, fc.BannerDelay, &cfg.BannerDelay); err != nil {
		return err
	}
	return s.setPageSize(FlagPageSize, fc.PageSize, &cfg.PageSize)
}

// Encode renders cfg as a TOML document in FileConfig form.
func Encode(cfg Config) ([]byte, error) {
	var fc FileConfig
	fc.BaseURL = cfg.BaseURL
	if cfg.Timeout > 0 {
		fc.Timeout = cfg.Timeout.String()
	}
	fc.BannerDelay = cfg.BannerDelay.String()
	fc.PageSize = cfg.PageSize
	fc.Refetch = cfg.Refetch
	fc.LogFile = cfg.LogFile
	fc.LogLevel = cfg.LogLevel
	fc.Server.Addr = cfg.ServerAddr
	fc.Server.DB = cfg.ServerDB
	return toml.Marshal(fc)
}
