package graph

import (
	"context"
	"errors"

	"chatprofile/internal/peer"
)

// ErrDisabled is returned by Disabled for queries that need a graph.
var ErrDisabled = errors.New("graph disabled")

// GraphClient is the part of the graph the rest of the program uses.
type GraphClient interface {
	Capabilities(ctx context.Context, peerID int64) (peer.Capabilities, error)
	LinkedChat(ctx context.Context, peerID int64) (int64, bool, error)
	ExecuteCypher(ctx context.Context, query string) ([]map[string]any, error)
	Close(ctx context.Context) error
}

var _ GraphClient = (*Neo4jClient)(nil)

// Disabled stands in when no graph is configured. It grants nothing and
// knows no links.
type Disabled struct{}

func (Disabled) Capabilities(context.Context, int64) (peer.Capabilities, error) {
	return peer.Capabilities{}, nil
}

func (Disabled) LinkedChat(context.Context, int64) (int64, bool, error) { return 0, false, nil }

func (Disabled) ExecuteCypher(context.Context, string) ([]map[string]any, error) {
	return nil, ErrDisabled
}

func (Disabled) Close(context.Context) error { return nil }

// Open connects to Neo4j when uri is set and returns Disabled otherwise.
func Open(uri, user, password, db string) (GraphClient, error) {
	if uri == "" {
		return Disabled{}, nil
	}
	c, err := NewNeo4jClient(uri, user, password, db)
	if err != nil {
		return nil, err
	}
	return c, nil
}
