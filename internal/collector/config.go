package collector

import "time"

// Config contains configurable parameters for background collection.
// Use DefaultConfig() to get sensible defaults, then override as needed.
type Config struct {
	// Timeout settings
	CountTimeout      time.Duration // Per-query timeout for one count (default: 2s)
	CapabilityTimeout time.Duration // Timeout for the capability snapshot (default: 5s)

	// Polling
	RefreshInterval time.Duration // How often the worker refreshes counts (default: 30s, 0 = never)

	// Limits
	MaxConcurrent int // Count queries in flight at once (default: 4)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		CountTimeout:      2 * time.Second,
		CapabilityTimeout: 5 * time.Second,
		RefreshInterval:   30 * time.Second,
		MaxConcurrent:     4,
	}
}

// WithCountTimeout returns a copy of the config with modified count timeout.
func (c Config) WithCountTimeout(d time.Duration) Config {
	c.CountTimeout = d
	return c
}

// WithCapabilityTimeout returns a copy of the config with modified capability timeout.
func (c Config) WithCapabilityTimeout(d time.Duration) Config {
	c.CapabilityTimeout = d
	return c
}

// WithRefreshInterval returns a copy of the config with modified refresh interval.
func (c Config) WithRefreshInterval(d time.Duration) Config {
	c.RefreshInterval = d
	return c
}

// WithMaxConcurrent returns a copy of the config with a different query limit.
func (c Config) WithMaxConcurrent(n int) Config {
	c.MaxConcurrent = n
	return c
}

// Validate checks if the configuration is valid and returns an error if not.
func (c Config) Validate() error {
	if c.CountTimeout <= 0 {
		return &ConfigError{Field: "CountTimeout", Message: "must be positive"}
	}
	if c.CapabilityTimeout <= 0 {
		return &ConfigError{Field: "CapabilityTimeout", Message: "must be positive"}
	}
	if c.RefreshInterval < 0 {
		return &ConfigError{Field: "RefreshInterval", Message: "must not be negative"}
	}
	if c.MaxConcurrent <= 0 {
		return &ConfigError{Field: "MaxConcurrent", Message: "must be positive"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + " " + e.Message
}
