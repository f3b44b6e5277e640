package cmd

import (
	"context"
	"fmt"
	"sync"
	"time"

	"chatprofile/internal/collector"
	"chatprofile/internal/config"
	"chatprofile/internal/logger"
	"chatprofile/internal/output"
	"chatprofile/internal/pages"
	"chatprofile/internal/screen"
	"chatprofile/ui/tui/views"
)

const (
	headlessWidth   = 80
	headlessHeight  = 40
	headlessTimeout = 10 * time.Second
)

// headlessHost owns a screen with no terminal attached. Calls are
// serialized by mu, which stands in for the UI loop.
type headlessHost struct {
	mu  sync.Mutex
	scr *screen.Screen
	col *collector.Collector
}

// openHeadless builds the screen for id and fills its counts once.
func openHeadless(ctx context.Context, st *stack, cfg config.Config, id int64) (*headlessHost, error) {
	p, err := st.repo.Peer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading peer %d: %w", id, err)
	}
	caps, err := st.collector.FetchCapabilities(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading capabilities: %w", err)
	}

	opts := cfg.ScreenOptions()
	opts.Measurer = views.NewMeasurer()
	opts.Logger = logger.Component("screen")
	h := &headlessHost{
		scr: screen.New(p, caps, opts, screen.Surfaces{}),
		col: st.collector,
	}
	h.scr.SetViewport(headlessWidth, headlessHeight)
	if err := h.refresh(ctx); err != nil {
		h.scr.Close()
		return nil, err
	}
	return h, nil
}

func (h *headlessHost) refresh(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	payload, err := output.RunPipeline(ctx, h.col, h.scr.Peer().ID, h.scr.Pages().Tracked())
	if err != nil {
		return err
	}
	payload.ApplyTo(h.scr)
	return nil
}

func (h *headlessHost) Snapshot() *screen.Snapshot {
	return h.scr.Snapshot()
}

func (h *headlessHost) InjectCount(c pages.Category, count int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scr.OnCountReported(c, count)
	return nil
}

func (h *headlessHost) Refresh() error {
	ctx, cancel := context.WithTimeout(context.Background(), headlessTimeout)
	defer cancel()
	return h.refresh(ctx)
}

func (h *headlessHost) Close() {
	h.scr.Close()
}

