package relational

import (
	"context"

	"chatprofile/internal/pages"
	"chatprofile/internal/peer"
)

// =============================================================================
// CORE INTERFACES
// =============================================================================

// ProfileStore is everything the screen host needs from storage.
type ProfileStore interface {
	// Peer loads a peer by id.
	Peer(ctx context.Context, id int64) (peer.Peer, error)
	// Capabilities returns the stored capability set.
	Capabilities(ctx context.Context, peerID int64) (peer.Capabilities, error)
	// Count answers a cached or live count query.
	Count(ctx context.Context, peerID int64, c pages.Category, cached bool) (int, error)
	// Members lists members of a group or channel.
	Members(ctx context.Context, peerID int64, limit int) ([]Member, error)
	// Media lists shared items of one category.
	Media(ctx context.Context, peerID int64, c pages.Category, limit int) ([]MediaItem, error)
	// CommonGroups lists groups shared with a user.
	CommonGroups(ctx context.Context, userID int64, limit int) ([]PeerSummary, error)
	// DeleteMedia removes every item of a category.
	DeleteMedia(ctx context.Context, peerID int64, c pages.Category) (int64, error)
	// ApplyEdit saves one edited field.
	ApplyEdit(ctx context.Context, peerID int64, field, value string) error
	// Activity returns daily message volume, oldest first.
	Activity(ctx context.Context, peerID int64, days int) ([]DayActivity, error)
}

var _ ProfileStore = (*Repo)(nil)
