package relational

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"chatprofile/internal/pages"
	"chatprofile/internal/peer"
)

// =============================================================================
// REPO
// =============================================================================

// Repo is the profile store. It satisfies the collector's CountSource and
// CapabilitySource and is safe for concurrent use.
type Repo struct {
	db *sql.DB
}

// NewRepo wraps an open database.
func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Close releases the database.
func (r *Repo) Close() error {
	return r.db.Close()
}

// Migrate creates the schema.
func (r *Repo) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// =============================================================================
// PEERS
// =============================================================================

// UpsertPeer inserts p or updates the stored copy.
func (r *Repo) UpsertPeer(ctx context.Context, p peer.Peer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO peers(peer_id, kind, title, username, about, phone, slow_mode, is_public)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT (peer_id) DO UPDATE SET
		  kind       = excluded.kind,
		  title      = excluded.title,
		  username   = excluded.username,
		  about      = excluded.about,
		  phone      = excluded.phone,
		  slow_mode  = excluded.slow_mode,
		  is_public  = excluded.is_public,
		  updated_at = now()
	`, p.ID, string(p.Kind), p.Title, nullStr(p.Username), nullStr(p.About), nullStr(p.Phone), p.SlowMode, p.Public)
	if err != nil {
		return fmt.Errorf("upsert peer %d: %w", p.ID, err)
	}
	return nil
}

// Peer loads one peer.
func (r *Repo) Peer(ctx context.Context, id int64) (peer.Peer, error) {
	var (
		p                      peer.Peer
		kind                   string
		username, about, phone sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT peer_id, kind, title, username, about, phone, slow_mode, is_public
		FROM peers WHERE peer_id = ?
	`, id).Scan(&p.ID, &kind, &p.Title, &username, &about, &phone, &p.SlowMode, &p.Public)
	if errors.Is(err, sql.ErrNoRows) {
		return peer.Peer{}, fmt.Errorf("peer %d: %w", id, ErrPeerNotFound)
	}
	if err != nil {
		return peer.Peer{}, fmt.Errorf("load peer %d: %w", id, err)
	}
	if p.Kind, err = peer.ParseKind(kind); err != nil {
		return peer.Peer{}, fmt.Errorf("load peer %d: %w", id, err)
	}
	p.Username, p.About, p.Phone = username.String, about.String, phone.String
	return p, nil
}

// =============================================================================
// CAPABILITIES
// =============================================================================

// SetCapability grants or revokes c for a peer.
func (r *Repo) SetCapability(ctx context.Context, peerID int64, c peer.Capability, enabled bool) error {
	var err error
	if enabled {
		_, err = r.db.ExecContext(ctx, `INSERT INTO capabilities(peer_id, capability) VALUES (?,?) ON CONFLICT DO NOTHING`, peerID, string(c))
	} else {
		_, err = r.db.ExecContext(ctx, `DELETE FROM capabilities WHERE peer_id = ? AND capability = ?`, peerID, string(c))
	}
	if err != nil {
		return fmt.Errorf("set capability %s: %w", c, err)
	}
	return nil
}

// Capabilities returns the stored capabilities of a peer. Unknown names
// are skipped.
func (r *Repo) Capabilities(ctx context.Context, peerID int64) (peer.Capabilities, error) {
	rs, err := r.db.QueryContext(ctx, `SELECT capability FROM capabilities WHERE peer_id = ?`, peerID)
	if err != nil {
		return nil, fmt.Errorf("query capabilities: %w", err)
	}
	defer rs.Close()

	out := peer.Capabilities{}
	for rs.Next() {
		var name string
		if err := rs.Scan(&name); err != nil {
			return nil, err
		}
		if c, err := peer.ParseCapability(name); err == nil {
			out[c] = true
		}
	}
	return out, rs.Err()
}

// =============================================================================
// CONTENT
// =============================================================================

// AddMember adds or renames a member.
func (r *Repo) AddMember(ctx context.Context, peerID int64, m Member) error {
	if m.Role == "" {
		m.Role = "member"
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	return r.writeContent(ctx, peerID, pages.CategoryMembers, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO members(peer_id, user_id, name, role, joined_at) VALUES (?,?,?,?,?)
			ON CONFLICT (peer_id, user_id) DO UPDATE SET name = excluded.name, role = excluded.role
		`, peerID, m.UserID, m.Name, m.Role, m.JoinedAt)
		if err != nil {
			return fmt.Errorf("add member: %w", err)
		}
		return nil
	})
}

// Members lists up to limit members, admins first.
func (r *Repo) Members(ctx context.Context, peerID int64, limit int) ([]Member, error) {
	rs, err := r.db.QueryContext(ctx, `
		SELECT user_id, name, role, joined_at FROM members
		WHERE peer_id = ?
		ORDER BY CASE role WHEN 'owner' THEN 0 WHEN 'admin' THEN 1 ELSE 2 END, name
		LIMIT ?
	`, peerID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rs.Close()

	var out []Member
	for rs.Next() {
		var m Member
		if err := rs.Scan(&m.UserID, &m.Name, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rs.Err()
}

// AddMedia stores a shared item and returns its id.
func (r *Repo) AddMedia(ctx context.Context, m MediaItem) (int64, error) {
	c, err := pages.ParseCategory(m.Category)
	if err != nil {
		return 0, err
	}
	if m.SentAt.IsZero() {
		m.SentAt = time.Now()
	}
	var id int64
	err = r.writeContent(ctx, m.PeerID, c, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO media(peer_id, category, caption, sent_at) VALUES (?,?,?,?)
			RETURNING media_id
		`, m.PeerID, c.String(), nullStr(m.Caption), m.SentAt).Scan(&id)
		if err != nil {
			return fmt.Errorf("add media: %w", err)
		}
		return nil
	})
	return id, err
}

// Media lists the newest items of one category.
func (r *Repo) Media(ctx context.Context, peerID int64, c pages.Category, limit int) ([]MediaItem, error) {
	rs, err := r.db.QueryContext(ctx, `
		SELECT media_id, peer_id, category, COALESCE(caption, ''), sent_at FROM media
		WHERE peer_id = ? AND category = ?
		ORDER BY sent_at DESC, media_id DESC
		LIMIT ?
	`, peerID, c.String(), clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query media: %w", err)
	}
	defer rs.Close()

	var out []MediaItem
	for rs.Next() {
		var m MediaItem
		if err := rs.Scan(&m.ID, &m.PeerID, &m.Category, &m.Caption, &m.SentAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rs.Err()
}

// DeleteMedia removes every item of a category and drops its cached count,
// so the next cached query misses and the live query recounts.
func (r *Repo) DeleteMedia(ctx context.Context, peerID int64, c pages.Category) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM media WHERE peer_id = ? AND category = ?`, peerID, c.String())
	if err != nil {
		return 0, fmt.Errorf("delete media: %w", err)
	}
	n, _ := res.RowsAffected()
	if err := dropCount(ctx, tx, peerID, c); err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

// AddCommonGroup records that a user and the viewer share a group.
func (r *Repo) AddCommonGroup(ctx context.Context, userID, groupID int64) error {
	return r.writeContent(ctx, userID, pages.CategoryCommonGroups, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO common_groups VALUES (?,?) ON CONFLICT DO NOTHING`, userID, groupID)
		return err
	})
}

// writeContent runs write and drops the cached count of c in one
// transaction, so the next count query recounts.
func (r *Repo) writeContent(ctx context.Context, peerID int64, c pages.Category, write func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := write(tx); err != nil {
		return err
	}
	if err := dropCount(ctx, tx, peerID, c); err != nil {
		return err
	}
	return tx.Commit()
}

func dropCount(ctx context.Context, tx *sql.Tx, peerID int64, c pages.Category) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM media_counts WHERE peer_id = ? AND category = ?`, peerID, c.String()); err != nil {
		return fmt.Errorf("drop cached count: %w", err)
	}
	return nil
}

// CommonGroups lists the groups shared with a user.
func (r *Repo) CommonGroups(ctx context.Context, userID int64, limit int) ([]PeerSummary, error) {
	rs, err := r.db.QueryContext(ctx, `
		SELECT p.peer_id, p.kind, p.title, COALESCE(p.username, '')
		FROM common_groups g JOIN peers p ON p.peer_id = g.group_peer_id
		WHERE g.user_peer_id = ?
		ORDER BY p.title
		LIMIT ?
	`, userID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query common groups: %w", err)
	}
	defer rs.Close()
	return scanPeerSummaries(rs)
}

// =============================================================================
// COUNTS
// =============================================================================

// Count answers a count query. The cached variant reads media_counts and
// fails with ErrNotCached on a miss; the live variant counts the source
// table and stores the answer for the next cached query.
func (r *Repo) Count(ctx context.Context, peerID int64, c pages.Category, cached bool) (int, error) {
	if cached {
		var n int
		err := r.db.QueryRowContext(ctx,
			`SELECT item_count FROM media_counts WHERE peer_id = ? AND category = ?`,
			peerID, c.String()).Scan(&n)
		if errors.Is(err, sql.ErrNoRows) {
			return -1, ErrNotCached
		}
		if err != nil {
			return -1, fmt.Errorf("cached count: %w", err)
		}
		return n, nil
	}

	var (
		query string
		args  []any
	)
	switch c {
	case pages.CategoryMembers:
		query, args = `SELECT COUNT(*) FROM members WHERE peer_id = ?`, []any{peerID}
	case pages.CategoryCommonGroups:
		query, args = `SELECT COUNT(*) FROM common_groups WHERE user_peer_id = ?`, []any{peerID}
	default:
		query, args = `SELECT COUNT(*) FROM media WHERE peer_id = ? AND category = ?`, []any{peerID, c.String()}
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return -1, fmt.Errorf("live count: %w", err)
	}
	if err := r.storeCount(ctx, peerID, c, n); err != nil {
		return -1, err
	}
	return n, nil
}

func (r *Repo) storeCount(ctx context.Context, peerID int64, c pages.Category, n int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO media_counts(peer_id, category, item_count) VALUES (?,?,?)
		ON CONFLICT (peer_id, category) DO UPDATE SET item_count = excluded.item_count, updated_at = now()
	`, peerID, c.String(), n)
	if err != nil {
		return fmt.Errorf("store count: %w", err)
	}
	return nil
}

// =============================================================================
// EDITS AND ACTIVITY
// =============================================================================

// ApplyEdit records a saved edit and writes it through to the peer.
func (r *Repo) ApplyEdit(ctx context.Context, peerID int64, field, value string) error {
	var (
		column string
		arg    any
	)
	switch field {
	case "title", "about":
		column, arg = field, value
	case "public":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("public: %w", err)
		}
		column, arg = "is_public", b
	case "slow_mode":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("slow_mode: %w", err)
		}
		column, arg = "slow_mode", n
	default:
		return fmt.Errorf("%q: %w", field, ErrUnknownField)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE peers SET `+column+` = ?, updated_at = now() WHERE peer_id = ?`, arg, peerID)
	if err != nil {
		return fmt.Errorf("apply %s: %w", field, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("peer %d: %w", peerID, ErrPeerNotFound)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO settings_edits(peer_id, field, value) VALUES (?,?,?)`, peerID, field, value); err != nil {
		return fmt.Errorf("record edit: %w", err)
	}
	return tx.Commit()
}

// RecordActivity sets the message volume of one day.
func (r *Repo) RecordActivity(ctx context.Context, peerID int64, day time.Time, messages int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_daily(peer_id, day, messages) VALUES (?,?,?)
		ON CONFLICT (peer_id, day) DO UPDATE SET messages = excluded.messages
	`, peerID, day.Truncate(24*time.Hour), messages)
	return err
}

// Activity returns the last days of message volume, oldest first.
func (r *Repo) Activity(ctx context.Context, peerID int64, days int) ([]DayActivity, error) {
	rs, err := r.db.QueryContext(ctx, `
		SELECT day, messages FROM activity_daily
		WHERE peer_id = ?
		ORDER BY day DESC
		LIMIT ?
	`, peerID, clampLimit(days))
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rs.Close()

	var out []DayActivity
	for rs.Next() {
		var d DayActivity
		if err := rs.Scan(&d.Day, &d.Messages); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, rs.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func clampLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	return min(limit, 500)
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func scanPeerSummaries(rs *sql.Rows) ([]PeerSummary, error) {
	var out []PeerSummary
	for rs.Next() {
		var p PeerSummary
		if err := rs.Scan(&p.ID, &p.Kind, &p.Title, &p.Username); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rs.Err()
}
