// Package collector runs count and capability queries off the UI loop.
// Results are plain values; the caller marshals them back onto the UI loop
// and checks that the screen is still alive before applying them.
package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"chatprofile/internal/pages"
	"chatprofile/internal/peer"
)

// CountUnknown is reported when a count could not be determined. It is
// distinct from zero: the category is neither shown nor hidden because of it.
const CountUnknown = -1

// ErrNegativeCount is returned when a source answers with a negative count.
var ErrNegativeCount = errors.New("negative count")

// QueryError describes a failed count query.
type QueryError struct {
	Category pages.Category
	Cached   bool
	Err      error
}

func (e *QueryError) Error() string {
	variant := "live"
	if e.Cached {
		variant = "cached"
	}
	return fmt.Sprintf("%s count query for %s: %v", variant, e.Category, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// CountResult is one finished count query.
type CountResult struct {
	PeerID   int64
	Category pages.Category
	Count    int
	Err      error
}

// Known reports whether the query produced a usable count.
func (r CountResult) Known() bool { return r.Err == nil && r.Count >= 0 }

// Collector issues count and capability queries.
type Collector struct {
	counts CountSource
	caps   CapabilitySource
	cfg    Config
	log    *slog.Logger
}

// New returns a collector. caps may be nil, in which case every peer has
// no capabilities.
func New(counts CountSource, caps CapabilitySource, cfg Config, log *slog.Logger) *Collector {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	return &Collector{counts: counts, caps: caps, cfg: cfg, log: log}
}

// Config returns the collector's configuration.
func (c *Collector) Config() Config { return c.cfg }

// FetchCount asks for the cached count first and falls back once to the
// live query. If both fail it returns CountUnknown and a *QueryError for
// the live attempt.
func (c *Collector) FetchCount(ctx context.Context, peerID int64, cat pages.Category) (int, error) {
	n, err := c.query(ctx, peerID, cat, true)
	if err == nil {
		return n, nil
	}
	c.log.Debug("cached count failed, retrying live", "peer", peerID, "category", cat, "error", err)

	n, err = c.query(ctx, peerID, cat, false)
	if err == nil {
		return n, nil
	}
	c.log.Warn("count unavailable", "peer", peerID, "category", cat, "error", err)
	return CountUnknown, &QueryError{Category: cat, Cached: false, Err: err}
}

func (c *Collector) query(ctx context.Context, peerID int64, cat pages.Category, cached bool) (int, error) {
	if c.counts == nil {
		return CountUnknown, errors.New("no count source")
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.CountTimeout)
	defer cancel()

	n, err := c.counts.Count(ctx, peerID, cat, cached)
	if err != nil {
		return CountUnknown, err
	}
	if n < 0 {
		return CountUnknown, ErrNegativeCount
	}
	return n, nil
}

// Stream queries every category concurrently and calls deliver as each
// one finishes, in completion order. It returns once all queries are done.
// deliver may be called from several goroutines at once.
func (c *Collector) Stream(ctx context.Context, peerID int64, cats []pages.Category, deliver func(CountResult)) {
	sem := make(chan struct{}, c.cfg.MaxConcurrent)
	var wg sync.WaitGroup
	wg.Add(len(cats))

	for _, cat := range cats {
		go func() {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				deliver(CountResult{PeerID: peerID, Category: cat, Count: CountUnknown, Err: ctx.Err()})
				return
			}
			defer func() { <-sem }()

			n, err := c.FetchCount(ctx, peerID, cat)
			deliver(CountResult{PeerID: peerID, Category: cat, Count: n, Err: err})
		}()
	}
	wg.Wait()
}

// FetchAll queries every category and returns the results in the order of
// cats.
func (c *Collector) FetchAll(ctx context.Context, peerID int64, cats []pages.Category) []CountResult {
	index := make(map[pages.Category]int, len(cats))
	for i, cat := range cats {
		index[cat] = i
	}
	out := make([]CountResult, len(cats))
	var mu sync.Mutex
	c.Stream(ctx, peerID, cats, func(r CountResult) {
		mu.Lock()
		out[index[r.Category]] = r
		mu.Unlock()
	})
	return out
}

// FetchCapabilities returns the capability snapshot for a peer.
func (c *Collector) FetchCapabilities(ctx context.Context, peerID int64) (peer.Capabilities, error) {
	if c.caps == nil {
		return peer.Capabilities{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.CapabilityTimeout)
	defer cancel()

	caps, err := c.caps.Capabilities(ctx, peerID)
	if err != nil {
		return nil, fmt.Errorf("capabilities for peer %d: %w", peerID, err)
	}
	return caps, nil
}
