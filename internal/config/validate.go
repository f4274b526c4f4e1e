// internal/config/validate.go
package config

import (
	"fmt"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validCacheBackends = map[string]bool{
	"redis": true, "memory": true, "disabled": true,
}

var validRecommendationsPolicies = map[string]bool{
	"required": true, "best_effort": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Server validation
	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	// Security validation
	if c.Security.AdminKey == "" {
		errs = append(errs, "security.admin_key: required")
	}

	// TMDB validation
	if c.TMDB.AccessToken == "" {
		errs = append(errs, "tmdb.access_token: required")
	}
	if !validRecommendationsPolicies[c.TMDB.Recommendations] {
		errs = append(errs, fmt.Sprintf("tmdb.recommendations: must be one of required, best_effort; got %q", c.TMDB.Recommendations))
	}

	// Cache validation
	if !validCacheBackends[c.Cache.Backend] {
		errs = append(errs, fmt.Sprintf("cache.backend: must be one of redis, memory, disabled; got %q", c.Cache.Backend))
	}
	if c.Cache.Backend == "redis" && c.Cache.Addr == "" {
		errs = append(errs, "cache.addr: required when cache.backend is redis")
	}
	if c.Cache.TTLSeconds < 0 {
		errs = append(errs, fmt.Sprintf("cache.ttl_seconds: must not be negative, got %d", c.Cache.TTLSeconds))
	}

	return errs
}
