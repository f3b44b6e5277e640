// Package relational stores peers, members, shared media and cached counts
// in DuckDB.
package relational

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/marcboeker/go-duckdb" // Register DuckDB driver
)

// =============================================================================
// DUCKDB CLIENT
// =============================================================================

// Options holds tuning knobs for the embedded database.
type Options struct {
	Threads       int           // Number of threads for DuckDB (0 = default)
	MemoryLimitGB int           // Memory limit in GB (0 = default)
	Timeout       time.Duration // Connect timeout (0 = none)
}

// DuckDBClient owns the connection to one DuckDB database.
type DuckDBClient struct {
	db   *sql.DB
	opts Options
}

// DuckDBOption configures the DuckDB client.
type DuckDBOption func(*Options)

// WithThreads sets the number of DuckDB threads.
func WithThreads(n int) DuckDBOption {
	return func(o *Options) { o.Threads = n }
}

// WithMemoryLimit sets the DuckDB memory limit in GB.
func WithMemoryLimit(gb int) DuckDBOption {
	return func(o *Options) { o.MemoryLimitGB = gb }
}

// WithTimeout bounds the initial ping.
func WithTimeout(d time.Duration) DuckDBOption {
	return func(o *Options) { o.Timeout = d }
}

// NewDuckDBClient opens dsn. An empty dsn or ":memory:" opens an in-memory
// database; anything else is a file path, optionally with query options.
func NewDuckDBClient(dsn string, opts ...DuckDBOption) (*DuckDBClient, error) {
	c := &DuckDBClient{}
	for _, opt := range opts {
		if opt != nil {
			opt(&c.opts)
		}
	}
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}

	ctx := context.Background()
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}

	// One connection: the embedded engine serializes writers anyway, and an
	// in-memory database is private to its connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	c.db = db

	if err := c.configure(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure duckdb: %w", err)
	}
	return c, nil
}

// NewInMemoryDB opens a private in-memory database.
func NewInMemoryDB(opts ...DuckDBOption) (*DuckDBClient, error) {
	return NewDuckDBClient(":memory:", opts...)
}

// NewFileDB opens or creates the database file at path.
func NewFileDB(path string, opts ...DuckDBOption) (*DuckDBClient, error) {
	if path == "" {
		return nil, fmt.Errorf("database path required")
	}
	return NewDuckDBClient(path, opts...)
}

func (c *DuckDBClient) configure() error {
	if c.opts.Threads > 0 {
		if _, err := c.db.Exec(fmt.Sprintf("PRAGMA threads=%d", c.opts.Threads)); err != nil {
			return fmt.Errorf("setting threads: %w", err)
		}
	}
	if c.opts.MemoryLimitGB > 0 {
		if _, err := c.db.Exec(fmt.Sprintf("PRAGMA memory_limit='%dGB'", c.opts.MemoryLimitGB)); err != nil {
			return fmt.Errorf("setting memory limit: %w", err)
		}
	}
	return nil
}

// DB returns the underlying sql.DB instance.
func (c *DuckDBClient) DB() *sql.DB { return c.db }

// Ping verifies database connectivity.
func (c *DuckDBClient) Ping(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return c.db.PingContext(ctx)
}

// Close releases database resources.
func (c *DuckDBClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
