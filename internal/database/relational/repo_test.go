package relational

import (
	"context"
	"errors"
	"testing"
	"time"

	"chatprofile/internal/collector"
	"chatprofile/internal/pages"
	"chatprofile/internal/peer"
	"chatprofile/internal/rows"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	client, err := NewInMemoryDB()
	if err != nil {
		t.Fatalf("failed to create duckdb client: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	repo := NewRepo(client.DB())
	if err := repo.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	return repo
}

func TestPeerRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	want := peer.Peer{ID: 5, Kind: peer.KindGroup, Title: "Gophers", Username: "gophers", SlowMode: 30, Public: true}
	if err := repo.UpsertPeer(ctx, want); err != nil {
		t.Fatalf("UpsertPeer failed: %v", err)
	}
	got, err := repo.Peer(ctx, 5)
	if err != nil {
		t.Fatalf("Peer failed: %v", err)
	}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}

	if _, err := repo.Peer(ctx, 404); !errors.Is(err, ErrPeerNotFound) {
		t.Errorf("Expected ErrPeerNotFound, got %v", err)
	}
}

func TestCapabilities(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	repo.SetCapability(ctx, 5, peer.CapMembers, true)
	repo.SetCapability(ctx, 5, peer.CapMembers, true)
	repo.SetCapability(ctx, 5, peer.CapAdminLog, true)
	repo.SetCapability(ctx, 5, peer.CapAdminLog, false)

	caps, err := repo.Capabilities(ctx, 5)
	if err != nil {
		t.Fatalf("Capabilities failed: %v", err)
	}
	if !caps.Has(peer.CapMembers) || caps.Has(peer.CapAdminLog) {
		t.Errorf("Expected members only, got %v", caps.List())
	}
}

func TestCountCachedMissThenLive(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	for i := range 3 {
		if _, err := repo.AddMedia(ctx, MediaItem{PeerID: 5, Category: "photo", SentAt: time.Now().Add(-time.Duration(i) * time.Hour)}); err != nil {
			t.Fatalf("AddMedia failed: %v", err)
		}
	}

	if _, err := repo.Count(ctx, 5, pages.CategoryPhoto, true); !errors.Is(err, ErrNotCached) {
		t.Fatalf("Expected cache miss, got %v", err)
	}
	n, err := repo.Count(ctx, 5, pages.CategoryPhoto, false)
	if err != nil || n != 3 {
		t.Fatalf("Expected live count 3, got %d (%v)", n, err)
	}
	n, err = repo.Count(ctx, 5, pages.CategoryPhoto, true)
	if err != nil || n != 3 {
		t.Errorf("Expected cached count 3 after live query, got %d (%v)", n, err)
	}

	deleted, err := repo.DeleteMedia(ctx, 5, pages.CategoryPhoto)
	if err != nil || deleted != 3 {
		t.Fatalf("Expected 3 deleted, got %d (%v)", deleted, err)
	}
	if _, err := repo.Count(ctx, 5, pages.CategoryPhoto, true); !errors.Is(err, ErrNotCached) {
		t.Errorf("Expected cached count dropped after delete, got %v", err)
	}
	if n, _ := repo.Count(ctx, 5, pages.CategoryPhoto, false); n != 0 {
		t.Errorf("Expected live count 0 after delete, got %d", n)
	}
}

func TestAddDropsCachedCount(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	// Count once while empty so a zero is cached for every category.
	for _, c := range []pages.Category{pages.CategoryPhoto, pages.CategoryMembers, pages.CategoryCommonGroups} {
		if n, err := repo.Count(ctx, 5, c, false); err != nil || n != 0 {
			t.Fatalf("Expected live %s count 0, got %d (%v)", c, n, err)
		}
		if n, err := repo.Count(ctx, 5, c, true); err != nil || n != 0 {
			t.Fatalf("Expected cached %s count 0, got %d (%v)", c, n, err)
		}
	}

	for range 3 {
		if _, err := repo.AddMedia(ctx, MediaItem{PeerID: 5, Category: "photo"}); err != nil {
			t.Fatalf("AddMedia failed: %v", err)
		}
	}
	if err := repo.AddMember(ctx, 5, Member{UserID: 1, Name: "Ann"}); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if err := repo.AddCommonGroup(ctx, 5, 9); err != nil {
		t.Fatalf("AddCommonGroup failed: %v", err)
	}

	tests := []struct {
		category pages.Category
		want     int
	}{
		{pages.CategoryPhoto, 3},
		{pages.CategoryMembers, 1},
		{pages.CategoryCommonGroups, 1},
	}
	for _, tt := range tests {
		if _, err := repo.Count(ctx, 5, tt.category, true); !errors.Is(err, ErrNotCached) {
			t.Errorf("Expected cached %s count dropped after add, got %v", tt.category, err)
		}
		if n, _ := repo.Count(ctx, 5, tt.category, false); n != tt.want {
			t.Errorf("Expected live %s count %d, got %d", tt.category, tt.want, n)
		}
	}

	// Other categories keep their cached value.
	if n, err := repo.Count(ctx, 5, pages.CategoryVideo, false); err != nil || n != 0 {
		t.Fatalf("Expected live video count 0, got %d (%v)", n, err)
	}
	repo.AddMedia(ctx, MediaItem{PeerID: 5, Category: "photo"})
	if n, err := repo.Count(ctx, 5, pages.CategoryVideo, true); err != nil || n != 0 {
		t.Errorf("Expected cached video count kept, got %d (%v)", n, err)
	}
}

func TestCollectorRefreshAfterAdd(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	col := collector.New(repo, nil, collector.DefaultConfig(), nil)

	before, err := col.FetchCount(ctx, 5, pages.CategoryPhoto)
	if err != nil || before != 0 {
		t.Fatalf("Expected 0 photos before adding, got %d (%v)", before, err)
	}
	for range 3 {
		repo.AddMedia(ctx, MediaItem{PeerID: 5, Category: "photo"})
	}
	after, err := col.FetchCount(ctx, 5, pages.CategoryPhoto)
	if err != nil || after != 3 {
		t.Errorf("Expected 3 photos after adding, got %d (%v)", after, err)
	}
}

func TestCountMembersAndCommonGroups(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	repo.AddMember(ctx, 5, Member{UserID: 1, Name: "Ann"})
	repo.AddMember(ctx, 5, Member{UserID: 2, Name: "Bo", Role: "admin"})
	repo.UpsertPeer(ctx, peer.Peer{ID: 5, Kind: peer.KindGroup, Title: "G"})
	repo.AddCommonGroup(ctx, 1, 5)

	if n, _ := repo.Count(ctx, 5, pages.CategoryMembers, false); n != 2 {
		t.Errorf("Expected 2 members, got %d", n)
	}
	if n, _ := repo.Count(ctx, 1, pages.CategoryCommonGroups, false); n != 1 {
		t.Errorf("Expected 1 common group, got %d", n)
	}

	ms, err := repo.Members(ctx, 5, 10)
	if err != nil || len(ms) != 2 || ms[0].Name != "Bo" {
		t.Errorf("Expected admin listed first, got %+v (%v)", ms, err)
	}
	gs, _ := repo.CommonGroups(ctx, 1, 10)
	if len(gs) != 1 || gs[0].Title != "G" {
		t.Errorf("Expected common group G, got %+v", gs)
	}
}

func TestApplyEdit(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	repo.UpsertPeer(ctx, peer.Peer{ID: 5, Kind: peer.KindGroup, Title: "Old", Public: true})

	edits := []struct{ field, value string }{
		{"title", "New"},
		{"public", "false"},
		{"slow_mode", "60"},
	}
	for _, e := range edits {
		if err := repo.ApplyEdit(ctx, 5, e.field, e.value); err != nil {
			t.Fatalf("ApplyEdit(%s) failed: %v", e.field, err)
		}
	}
	p, _ := repo.Peer(ctx, 5)
	if p.Title != "New" || p.Public || p.SlowMode != 60 {
		t.Errorf("Expected edits written through, got %+v", p)
	}

	if err := repo.ApplyEdit(ctx, 5, "owner", "me"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected ErrUnknownField, got %v", err)
	}
	if err := repo.ApplyEdit(ctx, 404, "title", "x"); !errors.Is(err, ErrPeerNotFound) {
		t.Errorf("Expected ErrPeerNotFound, got %v", err)
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	if err := Seed(ctx, repo); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	peers, err := repo.ListPeers(ctx, "", 10)
	if err != nil || len(peers) != 3 {
		t.Fatalf("Expected 3 peers, got %+v (%v)", peers, err)
	}
	if groups, _ := repo.ListPeers(ctx, "group", 10); len(groups) != 1 || groups[0].ID != DemoGroupID {
		t.Errorf("Expected the demo group, got %+v", groups)
	}
	caps, _ := repo.Capabilities(ctx, DemoGroupID)
	if !caps.Has(peer.CapPrehistory) || !caps.Has(peer.CapAdminLog) {
		t.Errorf("Expected admin capabilities on demo group, got %v", caps.List())
	}
	if n, _ := repo.Count(ctx, DemoGroupID, pages.CategoryPhoto, false); n != 14 {
		t.Errorf("Expected 14 photos, got %d", n)
	}
	act, _ := repo.Activity(ctx, DemoGroupID, 7)
	if len(act) != 7 || !act[0].Day.Before(act[6].Day) {
		t.Errorf("Expected 7 days oldest first, got %+v", act)
	}
	stored, _ := repo.StoredCounts(ctx, DemoGroupID)
	if len(stored) != 1 || stored[0].Category != "photo" {
		t.Errorf("Expected only the counted category stored, got %+v", stored)
	}
}

func TestAdapters(t *testing.T) {
	ms := MemberRows([]Member{{UserID: 1, Name: "Ann", Role: "owner"}, {UserID: 2, Name: "Bo", Role: "member"}})
	if len(ms) != 2 || !ms[0].Has(rows.FlagAccent) || ms[1].Has(rows.FlagAccent) {
		t.Errorf("Expected owner accented, got %+v", ms)
	}

	day := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	media := MediaRows([]MediaItem{{ID: 9, Category: "photo", SentAt: day}})
	if media[0].Title != "photo from Mar 4" || media[0].Kind != rows.KindMedia {
		t.Errorf("Expected dated title, got %+v", media[0])
	}
}
