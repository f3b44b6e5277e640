package output

import (
	"context"
	"fmt"
	"time"

	"chatprofile/internal/collector"
	"chatprofile/internal/pages"
	"chatprofile/internal/peer"
	"chatprofile/internal/screen"
)

// PipelinePayload is one refresh of a peer's capabilities and counts, ready
// to be handed to a screen on the UI thread.
type PipelinePayload struct {
	PeerID       int64
	Capabilities peer.Capabilities
	Counts       []collector.CountResult
	CollectedAt  time.Time
}

// Known returns the counts that resolved to a number.
func (p *PipelinePayload) Known() map[pages.Category]int {
	out := make(map[pages.Category]int, len(p.Counts))
	for _, r := range p.Counts {
		if r.Known() {
			out[r.Category] = r.Count
		}
	}
	return out
}

// DataCollector is what the pipeline needs from the collector.
type DataCollector interface {
	FetchCapabilities(ctx context.Context, peerID int64) (peer.Capabilities, error)
	FetchAll(ctx context.Context, peerID int64, cats []pages.Category) []collector.CountResult
}

// RunPipeline executes Capabilities -> Counts -> Bundle for one peer.
//
// A capability failure aborts the run. Count failures do not: each one is
// carried in its CountResult so the screen can leave that page without a
// count.
func RunPipeline(ctx context.Context, col DataCollector, peerID int64, cats []pages.Category) (*PipelinePayload, error) {
	// 1. Capabilities
	caps, err := col.FetchCapabilities(ctx, peerID)
	if err != nil {
		return nil, fmt.Errorf("collect capabilities: %w", err)
	}

	// 2. Counts, in request order
	counts := col.FetchAll(ctx, peerID, cats)

	// 3. Bundle
	return &PipelinePayload{
		PeerID:       peerID,
		Capabilities: caps,
		Counts:       counts,
		CollectedAt:  time.Now(),
	}, nil
}

// ApplyTo hands the payload to a screen. It must run on the UI loop. It
// returns false without touching the screen when the screen has closed or
// shows a different peer.
func (p *PipelinePayload) ApplyTo(s *screen.Screen) bool {
	if !s.IsAlive() || s.Peer().ID != p.PeerID {
		return false
	}
	have := s.Capabilities()
	for _, c := range peer.AllCapabilities {
		if have.Has(c) != p.Capabilities.Has(c) {
			s.OnCapabilityChanged(c, p.Capabilities.Has(c))
		}
	}
	for _, r := range p.Counts {
		if r.Known() {
			s.OnCountReported(r.Category, r.Count)
		}
	}
	return true
}
