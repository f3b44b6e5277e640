package relational

import (
	"errors"
	"time"
)

var (
	// ErrPeerNotFound is returned when no peer has the requested id.
	ErrPeerNotFound = errors.New("peer not found")
	// ErrNotCached is returned by a cached count query with no stored count.
	ErrNotCached = errors.New("count not cached")
	// ErrUnknownField is returned when an edit names a field that cannot be saved.
	ErrUnknownField = errors.New("unknown field")
)

// Member is one participant of a group or channel.
type Member struct {
	UserID   int64     `json:"user_id"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// MediaItem is one shared message in a media category.
type MediaItem struct {
	ID       int64     `json:"id"`
	PeerID   int64     `json:"peer_id"`
	Category string    `json:"category"`
	Caption  string    `json:"caption"`
	SentAt   time.Time `json:"sent_at"`
}

// PeerSummary is a short listing entry.
type PeerSummary struct {
	ID       int64  `json:"id"`
	Kind     string `json:"kind"`
	Title    string `json:"title"`
	Username string `json:"username,omitempty"`
}

// CountSummary is one stored count.
type CountSummary struct {
	Category  string    `json:"category"`
	Count     int       `json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DayActivity is the message volume of one day.
type DayActivity struct {
	Day      time.Time `json:"day"`
	Messages int       `json:"messages"`
}
