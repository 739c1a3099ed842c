// Package snappfood fetches a vendor's menu from the live SnappFood API and
// normalizes the payload into the canonical flat row schema.
package snappfood

import (
	"time"

	"menu-reconciler/internal/common/config"
	"menu-reconciler/internal/common/errors"
)

// Config carries the fetcher and normalizer settings derived from the central
// application config.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration

	Latitude         string
	Longitude        string
	AppVersion       string
	UDID             string
	LocationCacheKey string
	Locale           string

	UserAgent string
	Referer   string

	BannedCategories []string

	CacheTTL time.Duration
}

// LoadConfig projects the central config onto the package config.
func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		BaseURL:          cfg.API.BaseURL,
		Timeout:          config.GetDuration(cfg.API.Timeout),
		MaxRetries:       cfg.API.MaxRetries,
		Backoff:          config.GetDuration(cfg.API.BackoffMillis),
		Latitude:         cfg.API.Latitude,
		Longitude:        cfg.API.Longitude,
		AppVersion:       cfg.API.AppVersion,
		UDID:             cfg.API.UDID,
		LocationCacheKey: cfg.API.LocationCacheKey,
		Locale:           cfg.API.Locale,
		UserAgent:        cfg.API.UserAgent,
		Referer:          cfg.API.Referer,
		BannedCategories: cfg.API.BannedCategories,
		CacheTTL:         time.Duration(cfg.Cache.TTL) * time.Second,
	}
}

// Validate checks the settings a request cannot be built without. A missing
// User-Agent is terminal: the upstream API rejects agent-less requests.
func (c *Config) Validate() error {
	if c.UserAgent == "" {
		return errors.NewHeadersMisconfiguredError("User-Agent header is empty")
	}
	if c.BaseURL == "" {
		return errors.NewHeadersMisconfiguredError("API base URL is empty")
	}
	if c.MaxRetries < 1 {
		return errors.NewHeadersMisconfiguredError("max retries must be at least 1")
	}
	return nil
}
