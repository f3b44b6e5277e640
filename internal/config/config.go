// Package config loads the optional chatprofile.yaml file and turns it into
// the option structs the engine packages take.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"chatprofile/internal/collector"
	"chatprofile/internal/gesture"
	"chatprofile/internal/screen"
	"chatprofile/internal/scroll"
)

// DefaultPath is the file Load reads when no path is given.
const DefaultPath = "chatprofile.yaml"

// Config is the full application configuration.
// Use Default() to get sensible defaults, then override as needed.
type Config struct {
	Gesture   GestureConfig   `yaml:"gesture"`
	Scroll    ScrollConfig    `yaml:"scroll"`
	Pages     PagesConfig     `yaml:"pages"`
	Collector CollectorConfig `yaml:"collector"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Debug     DebugConfig     `yaml:"debug"`
}

// GestureConfig holds the router thresholds, in cells.
type GestureConfig struct {
	PromotionSlop int  `yaml:"promotion_slop"`
	TabStripSlop  int  `yaml:"tab_strip_slop"`
	PagingSlop    int  `yaml:"paging_slop"`
	DoubleEvents  bool `yaml:"double_events"`
	// FlingFriction is the damping ratio of the residual motion after release.
	FlingFriction float64 `yaml:"fling_friction"`
}

// ScrollConfig holds the layout constants of the primary list, in lines.
type ScrollConfig struct {
	BottomShadowHeight int `yaml:"bottom_shadow_height"`
	AnchorHeight       int `yaml:"anchor_height"`
	TabStripHeight     int `yaml:"tab_strip_height"`
}

// PagesConfig holds the page registry policy.
type PagesConfig struct {
	// AllowReinsert lets a page removed by a capability loss come back.
	AllowReinsert   bool    `yaml:"allow_reinsert"`
	SettleThreshold float64 `yaml:"settle_threshold"`
}

// CollectorConfig holds the background collection timeouts.
type CollectorConfig struct {
	CountTimeout      time.Duration `yaml:"count_timeout"`
	CapabilityTimeout time.Duration `yaml:"capability_timeout"`
	RefreshInterval   time.Duration `yaml:"refresh_interval"`
}

// DatabaseConfig points at the stores.
type DatabaseConfig struct {
	DuckDBPath    string `yaml:"duckdb_path"`
	Neo4jURI      string `yaml:"neo4j_uri"`
	Neo4jUser     string `yaml:"neo4j_user"`
	Neo4jPassword string `yaml:"neo4j_password"`
	Neo4jDatabase string `yaml:"neo4j_database"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Path  string `yaml:"path"`
	Debug bool   `yaml:"debug"`
}

// DebugConfig controls the MCP debug surface. An empty Addr disables HTTP.
type DebugConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	g := gesture.DefaultConfig()
	return Config{
		Gesture: GestureConfig{
			PromotionSlop: g.PromotionSlop,
			TabStripSlop:  g.TabStripSlop,
			PagingSlop:    g.PagingSlop,
			DoubleEvents:  g.DoubleEvents,
			FlingFriction: 0.6,
		},
		Scroll: ScrollConfig{
			BottomShadowHeight: 1,
			AnchorHeight:       3,
			TabStripHeight:     1,
		},
		Pages: PagesConfig{
			SettleThreshold: 0.5,
		},
		Collector: CollectorConfig{
			CountTimeout:      2 * time.Second,
			CapabilityTimeout: 5 * time.Second,
			RefreshInterval:   30 * time.Second,
		},
		Database: DatabaseConfig{
			DuckDBPath:    "chatprofile.duckdb",
			Neo4jDatabase: "neo4j",
		},
		Log: LogConfig{
			Path: "/tmp/chatprofile-debug.log",
		},
	}
}

// Load reads the YAML file at path on top of Default(). A missing file is
// not an error; the defaults are returned as they are.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// WithDatabase returns a copy of the config using the given DuckDB file.
func (c Config) WithDatabase(path string) Config {
	c.Database.DuckDBPath = path
	return c
}

// WithDebug returns a copy of the config with debug logging enabled/disabled.
func (c Config) WithDebug(enabled bool) Config {
	c.Log.Debug = enabled
	return c
}

// WithDebugAddr returns a copy of the config serving the MCP debug surface on addr.
func (c Config) WithDebugAddr(addr string) Config {
	c.Debug.Addr = addr
	return c
}

// WithAllowReinsert returns a copy of the config with the page reinsert policy set.
func (c Config) WithAllowReinsert(allow bool) Config {
	c.Pages.AllowReinsert = allow
	return c
}

// Validate checks if the configuration is valid and returns an error if not.
func (c Config) Validate() error {
	if c.Gesture.PromotionSlop < 0 {
		return &ConfigError{Field: "gesture.promotion_slop", Message: "must not be negative"}
	}
	if c.Gesture.TabStripSlop < 0 {
		return &ConfigError{Field: "gesture.tab_strip_slop", Message: "must not be negative"}
	}
	if c.Gesture.PagingSlop < 1 {
		return &ConfigError{Field: "gesture.paging_slop", Message: "must be positive"}
	}
	if c.Gesture.FlingFriction <= 0 || c.Gesture.FlingFriction > 1 {
		return &ConfigError{Field: "gesture.fling_friction", Message: "must be in (0, 1]"}
	}
	if c.Scroll.BottomShadowHeight < 0 {
		return &ConfigError{Field: "scroll.bottom_shadow_height", Message: "must not be negative"}
	}
	if c.Scroll.AnchorHeight < 0 {
		return &ConfigError{Field: "scroll.anchor_height", Message: "must not be negative"}
	}
	if c.Scroll.TabStripHeight < 1 {
		return &ConfigError{Field: "scroll.tab_strip_height", Message: "must be positive"}
	}
	if c.Pages.SettleThreshold <= 0 || c.Pages.SettleThreshold >= 1 {
		return &ConfigError{Field: "pages.settle_threshold", Message: "must be in (0, 1)"}
	}
	if c.Collector.CountTimeout <= 0 {
		return &ConfigError{Field: "collector.count_timeout", Message: "must be positive"}
	}
	if c.Collector.CapabilityTimeout <= 0 {
		return &ConfigError{Field: "collector.capability_timeout", Message: "must be positive"}
	}
	if c.Collector.RefreshInterval < 0 {
		return &ConfigError{Field: "collector.refresh_interval", Message: "must not be negative"}
	}
	if c.Database.DuckDBPath == "" {
		return &ConfigError{Field: "database.duckdb_path", Message: "must not be empty"}
	}
	if c.Database.Neo4jURI != "" && c.Database.Neo4jUser == "" {
		return &ConfigError{Field: "database.neo4j_user", Message: "required when neo4j_uri is set"}
	}
	return nil
}

// ScreenOptions maps the config onto the options a screen is built with.
func (c Config) ScreenOptions() screen.Options {
	opts := screen.DefaultOptions()
	opts.Gesture = gesture.Config{
		PromotionSlop: c.Gesture.PromotionSlop,
		TabStripSlop:  c.Gesture.TabStripSlop,
		PagingSlop:    c.Gesture.PagingSlop,
		DoubleEvents:  c.Gesture.DoubleEvents,
	}
	opts.Scroll = scroll.Config{
		BottomShadowHeight: c.Scroll.BottomShadowHeight,
		AnchorHeight:       c.Scroll.AnchorHeight,
	}
	opts.TabStripHeight = c.Scroll.TabStripHeight
	opts.AllowReinsert = c.Pages.AllowReinsert
	opts.SettleThreshold = c.Pages.SettleThreshold
	return opts
}

// CollectorConfig maps the collector section onto collector.Config.
func (c Config) CollectorConfig() collector.Config {
	return collector.DefaultConfig().
		WithCountTimeout(c.Collector.CountTimeout).
		WithCapabilityTimeout(c.Collector.CapabilityTimeout).
		WithRefreshInterval(c.Collector.RefreshInterval)
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + " " + e.Message
}
