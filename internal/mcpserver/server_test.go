package mcpserver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"chatprofile/internal/database/graph"
	"chatprofile/internal/database/relational"
	"chatprofile/internal/pages"
	"chatprofile/internal/screen"
)

// MockHost implements Host for testing
type MockHost struct {
	Snap      *screen.Snapshot
	Injected  map[pages.Category]int
	Refreshes int
	Err       error
}

func (m *MockHost) Snapshot() *screen.Snapshot { return m.Snap }

func (m *MockHost) InjectCount(c pages.Category, n int) error {
	if m.Err != nil {
		return m.Err
	}
	if m.Injected == nil {
		m.Injected = map[pages.Category]int{}
	}
	m.Injected[c] = n
	return nil
}

func (m *MockHost) Refresh() error {
	if m.Err != nil {
		return m.Err
	}
	m.Refreshes++
	return nil
}

// MockStore implements Store for testing
type MockStore struct {
	Peers    []relational.PeerSummary
	Counts   map[int64][]relational.CountSummary
	LastKind string
	LastN    int
}

func (m *MockStore) ListPeers(ctx context.Context, kind string, limit int) ([]relational.PeerSummary, error) {
	m.LastKind, m.LastN = kind, limit
	return m.Peers, nil
}

func (m *MockStore) StoredCounts(ctx context.Context, peerID int64) ([]relational.CountSummary, error) {
	return m.Counts[peerID], nil
}

func (m *MockStore) Activity(ctx context.Context, peerID int64, days int) ([]relational.DayActivity, error) {
	out := make([]relational.DayActivity, days)
	for i := range out {
		out[i] = relational.DayActivity{Day: time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC), Messages: i}
	}
	return out, nil
}

// MockGraphClient implements graph.GraphClient for testing
type MockGraphClient struct {
	graph.Disabled
	CypherResult []map[string]any
	CypherErr    error
}

func (m *MockGraphClient) ExecuteCypher(ctx context.Context, query string) ([]map[string]any, error) {
	if m.CypherErr != nil {
		return nil, m.CypherErr
	}
	return m.CypherResult, nil
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func testSnapshot() *screen.Snapshot {
	return &screen.Snapshot{
		ScreenID:  "abc",
		PeerID:    100,
		Title:     "Gophers",
		Mode:      "view",
		Alive:     true,
		Offset:    4,
		MaxOffset: 10,
		PageIndex: 1,
		Owner:     "primary",
		Rows: []screen.RowView{
			{Index: 0, Kind: "header", Title: "Gophers"},
			{Index: 1, Kind: "separator"},
			{Index: 2, Kind: "setting", Title: "Members", Value: "12"},
		},
		Pages: []screen.PageView{{Category: "members", Count: 12, HasCount: true}, {Category: "photo"}},
	}
}

func TestHandleGetScreenState(t *testing.T) {
	s := &Server{host: &MockHost{Snap: testSnapshot()}}

	_, result, err := s.handleGetScreenState(context.Background(), nil, StateArgs{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Offset != 4 || result.MaxOffset != 10 || result.RowCount != 3 {
		t.Errorf("Unexpected state %+v", result)
	}
	if result.Capabilities == nil {
		t.Error("Expected empty capabilities, got nil")
	}
}

func TestHandleGetScreenState_NoScreen(t *testing.T) {
	s := &Server{host: &MockHost{}}
	if _, _, err := s.handleGetScreenState(context.Background(), nil, StateArgs{}); err == nil {
		t.Error("Expected error with no screen shown")
	}
}

func TestHandleGetRows_FilterByKind(t *testing.T) {
	s := &Server{host: &MockHost{Snap: testSnapshot()}}

	_, all, _ := s.handleGetRows(context.Background(), nil, RowsArgs{})
	if len(all.Rows) != 3 {
		t.Errorf("Expected 3 rows, got %d", len(all.Rows))
	}
	_, settings, _ := s.handleGetRows(context.Background(), nil, RowsArgs{Kind: "setting"})
	if len(settings.Rows) != 1 || settings.Rows[0].Title != "Members" {
		t.Errorf("Expected the members setting, got %+v", settings.Rows)
	}
}

func TestHandleGetPages(t *testing.T) {
	s := &Server{host: &MockHost{Snap: testSnapshot()}}
	_, result, err := s.handleGetPages(context.Background(), nil, PagesArgs{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Current != 1 || len(result.Pages) != 2 {
		t.Errorf("Unexpected pages %+v", result)
	}
}

func TestHandleInjectCount(t *testing.T) {
	host := &MockHost{Snap: testSnapshot()}
	s := &Server{host: host, log: discard()}

	_, ack, err := s.handleInjectCount(context.Background(), nil, InjectCountArgs{Category: "photo", Count: 7})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !ack.Posted || host.Injected[pages.CategoryPhoto] != 7 {
		t.Errorf("Expected photo=7 posted, got %+v %v", ack, host.Injected)
	}

	if _, _, err := s.handleInjectCount(context.Background(), nil, InjectCountArgs{Category: "stickers", Count: 1}); err == nil {
		t.Error("Expected error for unknown category")
	}

	host.Err = errors.New("ui gone")
	if _, _, err := s.handleInjectCount(context.Background(), nil, InjectCountArgs{Category: "photo", Count: 1}); err == nil {
		t.Error("Expected error when host rejects the post")
	}
}

func TestHandleRefresh(t *testing.T) {
	host := &MockHost{}
	s := &Server{host: host}
	if _, _, err := s.handleRefresh(context.Background(), nil, RefreshArgs{}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if host.Refreshes != 1 {
		t.Errorf("Expected 1 refresh, got %d", host.Refreshes)
	}
}

func TestHandleListPeers_Limits(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"default", 0, 10},
		{"explicit", 5, 5},
		{"capped", 1000, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockStore{}
			s := &Server{host: &MockHost{}, store: store}
			_, result, err := s.handleListPeers(context.Background(), nil, ListPeersArgs{Kind: "group", Limit: tt.limit})
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if store.LastN != tt.want || store.LastKind != "group" {
				t.Errorf("Expected limit %d for group, got %d for %q", tt.want, store.LastN, store.LastKind)
			}
			if result.Peers == nil {
				t.Error("Expected empty peers, got nil")
			}
		})
	}
}

func TestHandleListPeers_NoStore(t *testing.T) {
	s := &Server{host: &MockHost{}}
	if _, _, err := s.handleListPeers(context.Background(), nil, ListPeersArgs{}); err == nil {
		t.Error("Expected error without a store")
	}
}

func TestHandleStoredCounts_DefaultsToShownPeer(t *testing.T) {
	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	store := &MockStore{Counts: map[int64][]relational.CountSummary{
		100: {{Category: "photo", Count: 14, UpdatedAt: at}},
	}}
	s := &Server{host: &MockHost{Snap: testSnapshot()}, store: store}

	_, result, err := s.handleStoredCounts(context.Background(), nil, StoredCountsArgs{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(result.Counts) != 1 || result.Counts[0].Count != 14 || result.Counts[0].UpdatedAt != "2026-02-03T04:05:06Z" {
		t.Errorf("Unexpected counts %+v", result.Counts)
	}
}

func TestHandleActivity(t *testing.T) {
	s := &Server{host: &MockHost{Snap: testSnapshot()}, store: &MockStore{}}
	_, result, err := s.handleActivity(context.Background(), nil, ActivityArgs{Days: 3})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(result.Days) != 3 || result.Days[0].Day != "2026-01-01" {
		t.Errorf("Unexpected activity %+v", result.Days)
	}
}

func TestHandleQueryGraph_Success(t *testing.T) {
	mockGraph := &MockGraphClient{
		CypherResult: []map[string]any{{"peer_id": int64(100)}},
	}
	s := &Server{neo4jClient: mockGraph}

	_, result, err := s.handleQueryGraph(context.Background(), nil, QueryGraphArgs{Cypher: "MATCH (c:Chat) RETURN c.peer_id AS peer_id"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	data, ok := result.Data.([]map[string]any)
	if !ok || len(data) != 1 {
		t.Fatalf("Expected 1 result row, got %v", result.Data)
	}
}

func TestHandleQueryGraph_Disabled(t *testing.T) {
	s, err := NewServer(DefaultConfig(), &MockHost{}, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	if _, _, err := s.handleQueryGraph(context.Background(), nil, QueryGraphArgs{Cypher: "RETURN 1"}); !errors.Is(err, graph.ErrDisabled) {
		t.Errorf("Expected ErrDisabled, got %v", err)
	}
}

func TestNewServerRequiresHost(t *testing.T) {
	if _, err := NewServer(DefaultConfig(), nil, nil, nil, nil); err == nil {
		t.Error("Expected error without a host")
	}
}

func TestServerOverInMemoryTransport(t *testing.T) {
	ctx := context.Background()
	s, err := NewServer(DefaultConfig(), &MockHost{Snap: testSnapshot()}, &MockStore{}, nil, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	clientT, serverT := mcp.NewInMemoryTransports()
	ss, err := s.Connect(ctx, serverT)
	if err != nil {
		t.Fatalf("server connect failed: %v", err)
	}
	defer ss.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect failed: %v", err)
	}
	defer session.Close()

	names := map[string]bool{}
	for tool, err := range session.Tools(ctx, nil) {
		if err != nil {
			t.Fatalf("listing tools failed: %v", err)
		}
		names[tool.Name] = true
	}
	for _, want := range []string{"get_screen_state", "get_rows", "get_pages", "inject_count", "refresh_counts", "query_graph"} {
		if !names[want] {
			t.Errorf("Expected tool %s to be registered", want)
		}
	}

	res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "get_screen_state", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if res.IsError {
		t.Errorf("Expected success, got error result %+v", res.Content)
	}
}
