// Package config defines process configuration and how it is loaded.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Errors returned by Load wrap ErrLoadConfig or ErrInvalidConfig.
package config

import "time"

// Config contains process configuration shared by the server and the
// ingestion tool.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoder: console or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CachePath is the cache document written by ingestion and served by
	// the presentation server.
	CachePath string `koanf:"cache_path"`

	// YelpAPIKey authenticates business searches.
	YelpAPIKey string `koanf:"yelp_api_key"`

	// YelpBaseURL overrides the business search host.
	YelpBaseURL string `koanf:"yelp_base_url"`

	// SearchLimit caps results per (university, cuisine) search.
	SearchLimit int `koanf:"search_limit"`

	// PlacesAPIKey authenticates proximity searches.
	PlacesAPIKey string `koanf:"places_api_key"`

	// PlacesBaseURL overrides the proximity search host.
	PlacesBaseURL string `koanf:"places_base_url"`

	// ParkRadiusM is the proximity search radius in meters.
	ParkRadiusM int `koanf:"park_radius_m"`

	// ParkType is the place type looked up around each venue.
	ParkType string `koanf:"park_type"`

	// ParksPerVenue caps the parks kept per venue, at most 3.
	ParksPerVenue int `koanf:"parks_per_venue"`

	// RequestTimeoutMS bounds each outbound provider request.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// RedisAddr enables the proximity search memo when set.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// RedisTTLS is the memo entry lifetime in seconds.
	RedisTTLS int `koanf:"redis_ttl_s"`

	// MetricsEnabled switches recording of domain metrics.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsRefreshMS is how often system gauges are sampled.
	MetricsRefreshMS int `koanf:"metrics_refresh_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "console",
		Addr:             ":9080",
		CachePath:        "cache.json",
		YelpBaseURL:      "https://api.yelp.com",
		SearchLimit:      30,
		PlacesBaseURL:    "https://maps.googleapis.com",
		ParkRadiusM:      1500,
		ParkType:         "park",
		ParksPerVenue:    3,
		RequestTimeoutMS: 30_000,
		RedisTTLS:        7 * 24 * 3600,
		MetricsEnabled:   true,
		MetricsRefreshMS: 10_000,
	}
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// RedisTTL returns RedisTTLS as a duration.
func (c *Config) RedisTTL() time.Duration {
	return time.Duration(c.RedisTTLS) * time.Second
}

// MetricsRefresh returns MetricsRefreshMS as a duration.
func (c *Config) MetricsRefresh() time.Duration {
	return time.Duration(c.MetricsRefreshMS) * time.Millisecond
}

// MemoEnabled reports whether the proximity search memo is configured.
func (c *Config) MemoEnabled() bool { return c.RedisAddr != "" }
