// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Security SecurityConfig `toml:"security"`
	TMDB     TMDBConfig     `toml:"tmdb"`
	Cache    CacheConfig    `toml:"cache"`
	CORS     CORSConfig     `toml:"cors"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// SecurityConfig holds the static admin credential. The admin key satisfies
// every protected operation, including registering new API clients.
type SecurityConfig struct {
	AdminKey string `toml:"admin_key"`
}

type TMDBConfig struct {
	BaseURL     string `toml:"base_url"`
	AccessToken string `toml:"access_token"`
	// Recommendations selects the partial-failure policy for the
	// recommendations fetch: "required" or "best_effort".
	Recommendations string `toml:"recommendations"`
}

type CacheConfig struct {
	Backend    string `toml:"backend"` // redis, memory, or disabled
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

type CORSConfig struct {
	Origins []string `toml:"origins"`
	Methods []string `toml:"methods"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Apply defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8980
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = "info"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./data/cinegate.db"
	}
	if cfg.TMDB.BaseURL == "" {
		cfg.TMDB.BaseURL = "https://api.themoviedb.org"
	}
	if cfg.TMDB.Recommendations == "" {
		cfg.TMDB.Recommendations = "required"
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.Addr == "" {
		cfg.Cache.Addr = "localhost:6379"
	}
	if cfg.Cache.TTLSeconds == 0 {
		cfg.Cache.TTLSeconds = 3600
	}

	return &cfg, nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
// ${VAR_NAME:-default} falls back to default when VAR_NAME is unset or empty.
// Placeholders without a default that resolve to nothing are reported as
// missing rather than passed through as literal config values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) (string, []string) {
	var missing []string
	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		expr := match[2 : len(match)-1] // Strip ${ and }

		varName := expr
		defaultVal := ""
		hasDefault := false
		if idx := strings.Index(expr, ":-"); idx >= 0 {
			varName = expr[:idx]
			defaultVal = expr[idx+2:]
			hasDefault = true
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		if hasDefault {
			return defaultVal
		}
		missing = append(missing, varName)
		return match
	})
	return result, missing
}
