// Package mcpserver exposes a running profile screen to MCP clients for
// debugging. Handlers read only published snapshots; anything that changes
// the screen is posted to the UI loop through Host.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"chatprofile/internal/database/graph"
	"chatprofile/internal/database/relational"
	"chatprofile/internal/pages"
	"chatprofile/internal/screen"
)

// Host is the running UI the server inspects.
type Host interface {
	// Snapshot returns the last published screen state, or nil before the
	// first screen is built.
	Snapshot() *screen.Snapshot
	// InjectCount posts a count report to the UI loop.
	InjectCount(c pages.Category, count int) error
	// Refresh posts a count refresh to the UI loop.
	Refresh() error
}

// Store is the read side of the profile store the server queries.
type Store interface {
	ListPeers(ctx context.Context, kind string, limit int) ([]relational.PeerSummary, error)
	StoredCounts(ctx context.Context, peerID int64) ([]relational.CountSummary, error)
	Activity(ctx context.Context, peerID int64, days int) ([]relational.DayActivity, error)
}

// Server wraps the MCP server with profile debugging tools.
type Server struct {
	mcpServer   *mcp.Server
	host        Host
	store       Store
	neo4jClient graph.GraphClient
	log         *slog.Logger
}

// Config holds configuration for the MCP server.
type Config struct {
	ServerName    string
	ServerVersion string
}

// DefaultConfig returns the server identity used by the CLI.
func DefaultConfig() Config {
	return Config{ServerName: "chatprofile-debug", ServerVersion: "1.0.0"}
}

// NewServer creates a new MCP server instance. store and g may be nil; the
// tools that need them then return an error.
func NewServer(cfg Config, host Host, store Store, g graph.GraphClient, log *slog.Logger) (*Server, error) {
	if host == nil {
		return nil, errors.New("host is required")
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if g == nil {
		g = graph.Disabled{}
	}

	impl := &mcp.Implementation{
		Name:    cfg.ServerName,
		Version: cfg.ServerVersion,
	}
	s := &Server{
		mcpServer:   mcp.NewServer(impl, nil),
		host:        host,
		store:       store,
		neo4jClient: g,
		log:         log,
	}
	s.registerTools()
	return s, nil
}

// StateArgs defines the input for get_screen_state.
type StateArgs struct{}

// StateResult is the screen state without its rows.
type StateResult struct {
	ScreenID     string   `json:"screen_id" jsonschema:"screen instance id"`
	PeerID       int64    `json:"peer_id"`
	Title        string   `json:"title"`
	Mode         string   `json:"mode" jsonschema:"view or edit"`
	Alive        bool     `json:"alive"`
	Offset       int      `json:"offset" jsonschema:"primary list offset"`
	MaxOffset    int      `json:"max_offset" jsonschema:"largest primary offset"`
	PageIndex    int      `json:"page_index"`
	PageFraction float64  `json:"page_fraction"`
	Owner        string   `json:"owner" jsonschema:"current gesture owner"`
	Capabilities []string `json:"capabilities"`
	RowCount     int      `json:"row_count"`
	TakenAt      string   `json:"taken_at" jsonschema:"RFC 3339 time the snapshot was published"`
}

// RowsArgs defines the input for get_rows.
type RowsArgs struct {
	Kind string `json:"kind,omitempty" jsonschema:"only rows of this kind, e.g. setting or separator"`
}

// RowsResult wraps the rows of the primary list.
type RowsResult struct {
	Rows []screen.RowView `json:"rows"`
}

// PagesArgs defines the input for get_pages.
type PagesArgs struct{}

// PagesResult wraps the page registry.
type PagesResult struct {
	Current int               `json:"current"`
	Pages   []screen.PageView `json:"pages"`
}

// InjectCountArgs defines the input for inject_count.
type InjectCountArgs struct {
	Category string `json:"category" jsonschema:"page category, e.g. photo or members"`
	Count    int    `json:"count" jsonschema:"count to report; negative means unknown"`
}

// AckResult acknowledges a posted action.
type AckResult struct {
	Posted bool   `json:"posted"`
	Detail string `json:"detail,omitempty"`
}

// RefreshArgs defines the input for refresh_counts.
type RefreshArgs struct{}

// ListPeersArgs defines the input for list_peers.
type ListPeersArgs struct {
	Kind  string `json:"kind,omitempty" jsonschema:"user, group or channel"`
	Limit int    `json:"limit,omitempty" jsonschema:"number of peers to return"`
}

// ListPeersResult wraps stored peers.
type ListPeersResult struct {
	Peers []relational.PeerSummary `json:"peers"`
}

// StoredCountsArgs defines the input for get_stored_counts.
type StoredCountsArgs struct {
	PeerID int64 `json:"peer_id,omitempty" jsonschema:"peer id; defaults to the shown peer"`
}

// CountView is one cached count.
type CountView struct {
	Category  string `json:"category"`
	Count     int    `json:"count"`
	UpdatedAt string `json:"updated_at"`
}

// StoredCountsResult wraps cached counts.
type StoredCountsResult struct {
	Counts []CountView `json:"counts"`
}

// ActivityArgs defines the input for get_activity.
type ActivityArgs struct {
	PeerID int64 `json:"peer_id,omitempty" jsonschema:"peer id; defaults to the shown peer"`
	Days   int   `json:"days,omitempty" jsonschema:"number of days to return"`
}

// DayView is the message volume of one day.
type DayView struct {
	Day      string `json:"day" jsonschema:"YYYY-MM-DD"`
	Messages int    `json:"messages"`
}

// ActivityResult wraps daily message volume, oldest first.
type ActivityResult struct {
	Days []DayView `json:"days"`
}

// QueryGraphArgs defines the input for query_graph tool.
type QueryGraphArgs struct {
	Cypher string `json:"cypher" jsonschema:"Cypher query to execute"`
}

// QueryGraphResult wraps graph query results.
type QueryGraphResult struct {
	Data any `json:"data" jsonschema:"query results"`
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_screen_state",
		Description: "Get the current state of the profile screen: primary offset, page index and fraction, gesture owner and capabilities.",
	}, s.handleGetScreenState)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_rows",
		Description: "List the rows of the primary section list in display order, optionally filtered by kind.",
	}, s.handleGetRows)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_pages",
		Description: "List the pages of the paged area with their counts and inner scroll positions.",
	}, s.handleGetPages)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "inject_count",
		Description: "Report a count for a page category as if a background query had returned it. A count of 0 removes the page; a negative count is ignored.",
	}, s.handleInjectCount)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "refresh_counts",
		Description: "Re-issue count queries for every tracked category of the shown peer.",
	}, s.handleRefresh)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_peers",
		Description: "List peers stored in DuckDB.",
	}, s.handleListPeers)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_stored_counts",
		Description: "Get the cached counts DuckDB holds for a peer. Cached queries read these before falling back to a live count.",
	}, s.handleStoredCounts)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_activity",
		Description: "Get messages per day for a peer, the series behind the header chart.",
	}, s.handleActivity)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "query_graph",
		Description: "Execute a read-only Cypher query on the capability graph. Nodes: Viewer, Chat. Relationships: ADMIN_OF {rights}, LINKED_TO.",
	}, s.handleQueryGraph)
}

func (s *Server) snapshot() (*screen.Snapshot, error) {
	snap := s.host.Snapshot()
	if snap == nil {
		return nil, errors.New("no screen is shown")
	}
	return snap, nil
}

func (s *Server) handleGetScreenState(ctx context.Context, _ *mcp.CallToolRequest, _ StateArgs) (*mcp.CallToolResult, StateResult, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, StateResult{}, err
	}
	caps := snap.Capabilities
	if caps == nil {
		caps = []string{}
	}
	return nil, StateResult{
		ScreenID:     snap.ScreenID,
		PeerID:       snap.PeerID,
		Title:        snap.Title,
		Mode:         snap.Mode,
		Alive:        snap.Alive,
		Offset:       snap.Offset,
		MaxOffset:    snap.MaxOffset,
		PageIndex:    snap.PageIndex,
		PageFraction: snap.PageFraction,
		Owner:        snap.Owner,
		Capabilities: caps,
		RowCount:     len(snap.Rows),
		TakenAt:      snap.TakenAt.Format(time.RFC3339),
	}, nil
}

func (s *Server) handleGetRows(ctx context.Context, _ *mcp.CallToolRequest, args RowsArgs) (*mcp.CallToolResult, RowsResult, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, RowsResult{}, err
	}
	out := []screen.RowView{}
	for _, r := range snap.Rows {
		if args.Kind == "" || r.Kind == args.Kind {
			out = append(out, r)
		}
	}
	return nil, RowsResult{Rows: out}, nil
}

func (s *Server) handleGetPages(ctx context.Context, _ *mcp.CallToolRequest, _ PagesArgs) (*mcp.CallToolResult, PagesResult, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, PagesResult{}, err
	}
	ps := snap.Pages
	if ps == nil {
		ps = []screen.PageView{}
	}
	return nil, PagesResult{Current: snap.PageIndex, Pages: ps}, nil
}

func (s *Server) handleInjectCount(ctx context.Context, _ *mcp.CallToolRequest, args InjectCountArgs) (*mcp.CallToolResult, AckResult, error) {
	c, err := pages.ParseCategory(args.Category)
	if err != nil {
		return nil, AckResult{}, err
	}
	if err := s.host.InjectCount(c, args.Count); err != nil {
		return nil, AckResult{}, fmt.Errorf("inject count: %w", err)
	}
	s.log.Debug("count injected", "category", c, "count", args.Count)
	return nil, AckResult{Posted: true, Detail: fmt.Sprintf("%s=%d", c, args.Count)}, nil
}

func (s *Server) handleRefresh(ctx context.Context, _ *mcp.CallToolRequest, _ RefreshArgs) (*mcp.CallToolResult, AckResult, error) {
	if err := s.host.Refresh(); err != nil {
		return nil, AckResult{}, fmt.Errorf("refresh: %w", err)
	}
	return nil, AckResult{Posted: true}, nil
}

func (s *Server) handleListPeers(ctx context.Context, _ *mcp.CallToolRequest, args ListPeersArgs) (*mcp.CallToolResult, ListPeersResult, error) {
	if s.store == nil {
		return nil, ListPeersResult{}, errors.New("no store configured")
	}
	limit := args.Limit
	if limit == 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	peers, err := s.store.ListPeers(ctx, args.Kind, limit)
	if err != nil {
		return nil, ListPeersResult{}, fmt.Errorf("failed to list peers: %w", err)
	}
	if peers == nil {
		peers = []relational.PeerSummary{}
	}
	return nil, ListPeersResult{Peers: peers}, nil
}

// peerOrShown returns id, or the shown peer when id is zero.
func (s *Server) peerOrShown(id int64) (int64, error) {
	if id != 0 {
		return id, nil
	}
	snap, err := s.snapshot()
	if err != nil {
		return 0, err
	}
	return snap.PeerID, nil
}

func (s *Server) handleStoredCounts(ctx context.Context, _ *mcp.CallToolRequest, args StoredCountsArgs) (*mcp.CallToolResult, StoredCountsResult, error) {
	if s.store == nil {
		return nil, StoredCountsResult{}, errors.New("no store configured")
	}
	id, err := s.peerOrShown(args.PeerID)
	if err != nil {
		return nil, StoredCountsResult{}, err
	}
	counts, err := s.store.StoredCounts(ctx, id)
	if err != nil {
		return nil, StoredCountsResult{}, fmt.Errorf("failed to query counts: %w", err)
	}
	out := make([]CountView, 0, len(counts))
	for _, c := range counts {
		out = append(out, CountView{Category: c.Category, Count: c.Count, UpdatedAt: c.UpdatedAt.Format(time.RFC3339)})
	}
	return nil, StoredCountsResult{Counts: out}, nil
}

func (s *Server) handleActivity(ctx context.Context, _ *mcp.CallToolRequest, args ActivityArgs) (*mcp.CallToolResult, ActivityResult, error) {
	if s.store == nil {
		return nil, ActivityResult{}, errors.New("no store configured")
	}
	id, err := s.peerOrShown(args.PeerID)
	if err != nil {
		return nil, ActivityResult{}, err
	}
	days := args.Days
	if days <= 0 {
		days = 14
	}
	act, err := s.store.Activity(ctx, id, days)
	if err != nil {
		return nil, ActivityResult{}, fmt.Errorf("failed to query activity: %w", err)
	}
	out := make([]DayView, 0, len(act))
	for _, d := range act {
		out = append(out, DayView{Day: d.Day.Format(time.DateOnly), Messages: d.Messages})
	}
	return nil, ActivityResult{Days: out}, nil
}

func (s *Server) handleQueryGraph(ctx context.Context, _ *mcp.CallToolRequest, args QueryGraphArgs) (*mcp.CallToolResult, QueryGraphResult, error) {
	result, err := s.neo4jClient.ExecuteCypher(ctx, args.Cypher)
	if err != nil {
		return nil, QueryGraphResult{}, fmt.Errorf("cypher query failed: %w", err)
	}
	return nil, QueryGraphResult{Data: result}, nil
}

// Start serves MCP over stdio until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("serving MCP on stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns a streamable HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.mcpServer }, nil)
}

// ListenAndServe serves MCP over streamable HTTP on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info("serving MCP over HTTP", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Connect attaches the server to an already established transport.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcpServer.Connect(ctx, t, nil)
}
