package relational

import (
	"context"
	"fmt"
)

// ListPeers returns stored peers ordered by id, optionally filtered by kind.
func (r *Repo) ListPeers(ctx context.Context, kind string, limit int) ([]PeerSummary, error) {
	query := `SELECT peer_id, kind, title, COALESCE(username, '') FROM peers WHERE 1=1`
	args := []any{}
	if kind != "" {
		query += " AND kind = ?"
		args = append(args, kind)
	}
	query += " ORDER BY peer_id LIMIT ?"
	args = append(args, clampLimit(limit))

	rs, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query peers failed: %w", err)
	}
	defer rs.Close()

	peers, err := scanPeerSummaries(rs)
	if err != nil {
		return nil, fmt.Errorf("scan peers failed: %w", err)
	}
	if peers == nil {
		peers = []PeerSummary{}
	}
	return peers, nil
}

// StoredCounts returns the cached counts of a peer ordered by category name.
func (r *Repo) StoredCounts(ctx context.Context, peerID int64) ([]CountSummary, error) {
	rs, err := r.db.QueryContext(ctx, `
		SELECT category, item_count, updated_at FROM media_counts
		WHERE peer_id = ?
		ORDER BY category
	`, peerID)
	if err != nil {
		return nil, fmt.Errorf("query counts failed: %w", err)
	}
	defer rs.Close()

	counts := []CountSummary{}
	for rs.Next() {
		var c CountSummary
		if err := rs.Scan(&c.Category, &c.Count, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan count failed: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return counts, nil
}
