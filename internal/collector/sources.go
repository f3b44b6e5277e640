package collector

import (
	"context"
	"io"
	"log/slog"

	"chatprofile/internal/pages"
	"chatprofile/internal/peer"
)

// CountSource answers count queries for one peer and category. A cached
// query may be served from a precomputed table; a non-cached query counts
// the underlying rows. A negative count is treated as a failure.
type CountSource interface {
	Count(ctx context.Context, peerID int64, c pages.Category, cached bool) (int, error)
}

// CapabilitySource reports what the viewer may do with a peer.
type CapabilitySource interface {
	Capabilities(ctx context.Context, peerID int64) (peer.Capabilities, error)
}

// CountFunc adapts a function to CountSource.
type CountFunc func(ctx context.Context, peerID int64, c pages.Category, cached bool) (int, error)

func (f CountFunc) Count(ctx context.Context, peerID int64, c pages.Category, cached bool) (int, error) {
	return f(ctx, peerID, c, cached)
}

// Union merges a required capability source with optional extras. An
// error from the primary source fails the snapshot; errors from extras
// are logged and the extra is skipped.
type Union struct {
	Primary CapabilitySource
	Extra   []CapabilitySource
	Logger  *slog.Logger
}

func (u Union) Capabilities(ctx context.Context, peerID int64) (peer.Capabilities, error) {
	log := u.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	out := peer.Capabilities{}
	if u.Primary != nil {
		caps, err := u.Primary.Capabilities(ctx, peerID)
		if err != nil {
			return nil, err
		}
		for c, on := range caps {
			if on {
				out[c] = true
			}
		}
	}
	for _, src := range u.Extra {
		if src == nil {
			continue
		}
		caps, err := src.Capabilities(ctx, peerID)
		if err != nil {
			log.Warn("optional capability source failed", "peer", peerID, "error", err)
			continue
		}
		for c, on := range caps {
			if on {
				out[c] = true
			}
		}
	}
	return out, nil
}
