// Package database runs the background refresh of a profile's capabilities
// and page counts.
package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"chatprofile/internal/database/graph"
	"chatprofile/internal/output"
	"chatprofile/internal/pages"
)

const defaultPollInterval = 30 * time.Second

// DataWorker orchestrates the refresh pipeline: Collector -> Payload -> deliver.
// Payloads are delivered from the worker goroutine; the receiver is
// responsible for moving them onto the UI loop.
type DataWorker struct {
	collector   output.DataCollector
	graphClient graph.GraphClient
	deliver     func(*output.PipelinePayload)
	interval    time.Duration
	peerID      int64
	log         *slog.Logger

	mu      sync.Mutex
	cats    []pages.Category
	cancel  context.CancelFunc
	running bool
	wg      sync.WaitGroup
}

// WorkerOption configures a DataWorker.
type WorkerOption func(*DataWorker)

// WithInterval sets the refresh period. Non-positive values are ignored.
func WithInterval(d time.Duration) WorkerOption {
	return func(w *DataWorker) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithGraph hands the worker ownership of the graph client; it is closed on
// Stop.
func WithGraph(g graph.GraphClient) WorkerOption {
	return func(w *DataWorker) { w.graphClient = g }
}

func WithLogger(l *slog.Logger) WorkerOption {
	return func(w *DataWorker) {
		if l != nil {
			w.log = l
		}
	}
}

// NewDataWorker creates a new worker for one peer.
func NewDataWorker(c output.DataCollector, peerID int64, deliver func(*output.PipelinePayload), opts ...WorkerOption) (*DataWorker, error) {
	if c == nil || deliver == nil {
		return nil, errors.New("collector and deliver are required")
	}
	w := &DataWorker{
		collector: c,
		deliver:   deliver,
		interval:  defaultPollInterval,
		peerID:    peerID,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// SetCategories replaces the categories counted on each pull. The screen's
// tracked categories change with capabilities, so the UI loop calls this
// after applying a payload.
func (w *DataWorker) SetCategories(cats []pages.Category) {
	w.mu.Lock()
	w.cats = slices.Clone(cats)
	w.mu.Unlock()
}

func (w *DataWorker) categories() []pages.Category {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.cats)
}

// Start begins the periodic refresh loop.
func (w *DataWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("worker already running")
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	w.wg.Add(1)
	w.mu.Unlock()

	go w.loop(ctx)
	return nil
}

// Running reports whether the loop is active.
func (w *DataWorker) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Stop gracefully stops the worker and closes the graph client.
func (w *DataWorker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.running = false
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()

	if w.graphClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := w.graphClient.Close(ctx); err != nil {
			w.log.Warn("graph close failed", "error", err)
		}
		w.graphClient = nil
	}
}

// PullOnce executes a single refresh cycle immediately.
func (w *DataWorker) PullOnce(ctx context.Context) error {
	return w.execute(ctx)
}

func (w *DataWorker) loop(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.execute(ctx); err != nil {
				w.log.Warn("refresh failed", "peer", w.peerID, "error", err)
			}
		}
	}
}

func (w *DataWorker) execute(ctx context.Context) error {
	cats := w.categories()
	payload, err := output.RunPipeline(ctx, w.collector, w.peerID, cats)
	if err != nil {
		return fmt.Errorf("pipeline execution failed: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	w.log.Debug("refresh delivered", "peer", w.peerID, "categories", len(cats), "known", len(payload.Known()))
	w.deliver(payload)
	return nil
}
