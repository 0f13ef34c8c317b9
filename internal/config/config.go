package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	ServiceURL string           `json:"service_url"`
	Token      string           `json:"token"`
	TokenFile  string           `json:"token_file"`
	LogConfig  logger.LogConfig `json:"log_config"`
	Cache      CacheConfig      `json:"cache"`
	Editor     EditorConfig     `json:"editor"`
	Refresh    RefreshConfig    `json:"refresh"`
}

type CacheConfig struct {
	Size       int `json:"size"`
	TTLSeconds int `json:"ttl_seconds"`
}

type EditorConfig struct {
	AutosaveMillis int `json:"autosave_millis"`
}

type RefreshConfig struct {
	// Cron is a minute-granularity cron spec driving watch mode refreshes.
	Cron string `json:"cron"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.ServiceURL == "" {
		return nil, fmt.Errorf("service_url is required")
	}
	if cfg.Token == "" && cfg.TokenFile != "" {
		raw, err := os.ReadFile(cfg.TokenFile)
		if err != nil {
			return nil, fmt.Errorf("read token file: %w", err)
		}
		cfg.Token = strings.TrimSpace(string(raw))
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.Cache.Size == 0 {
		cfg.Cache.Size = 128
	}
	if cfg.Cache.TTLSeconds == 0 {
		cfg.Cache.TTLSeconds = 300
	}
	if cfg.Editor.AutosaveMillis == 0 {
		cfg.Editor.AutosaveMillis = 3000
	}
	if cfg.Refresh.Cron == "" {
		cfg.Refresh.Cron = "* * * * *"
	}
	return &cfg, nil
}
