package relational

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"chatprofile/internal/pages"
	"chatprofile/internal/peer"
)

// Demo peer ids created by Seed.
const (
	DemoUserID    int64 = 1
	DemoGroupID   int64 = 100
	DemoChannelID int64 = 200
)

// Seed fills the database with a small deterministic demo: one user, one
// group and one channel with members, shared media and activity.
func Seed(ctx context.Context, r *Repo) error {
	if err := r.Migrate(ctx); err != nil {
		return err
	}
	now := time.Now().Truncate(time.Hour)
	rng := rand.New(rand.NewPCG(7, 11))

	peers := []peer.Peer{
		{ID: DemoUserID, Kind: peer.KindUser, Title: "Ann Lee", Username: "annlee", Phone: "+1 555 0100", About: "Writes Go, reads maps."},
		{ID: DemoGroupID, Kind: peer.KindGroup, Title: "Gopher Lounge", Username: "gopherlounge", About: "Talk about Go, tooling and the odd bike ride. Be kind, stay on topic, no job spam.", Public: true, SlowMode: 10},
		{ID: DemoChannelID, Kind: peer.KindChannel, Title: "Go Weekly", Username: "goweekly", About: "Release notes and links every Friday.", Public: true},
	}
	for _, p := range peers {
		if err := r.UpsertPeer(ctx, p); err != nil {
			return err
		}
	}

	caps := map[int64][]peer.Capability{
		DemoGroupID:   {peer.CapMembers, peer.CapAdminLog, peer.CapPrehistory, peer.CapSlowMode, peer.CapInviteLinks},
		DemoChannelID: {peer.CapMembers, peer.CapLinkedChat},
	}
	for id, cs := range caps {
		for _, c := range cs {
			if err := r.SetCapability(ctx, id, c, true); err != nil {
				return err
			}
		}
	}

	names := []string{"Ann Lee", "Bo Chen", "Cas Diaz", "Dee Ford", "Eli Gray", "Fay Hill", "Gus Ives", "Hal Jung", "Ivy Kent", "Jon Lutz", "Kai Moss", "Lin Nash"}
	for i, name := range names {
		role := "member"
		switch i {
		case 0:
			role = "owner"
		case 1, 2:
			role = "admin"
		}
		m := Member{UserID: int64(i + 1), Name: name, Role: role, JoinedAt: now.Add(-time.Duration(i*24) * time.Hour)}
		if err := r.AddMember(ctx, DemoGroupID, m); err != nil {
			return err
		}
		if i < 5 {
			if err := r.AddMember(ctx, DemoChannelID, m); err != nil {
				return err
			}
		}
	}

	media := map[int64]map[pages.Category]int{
		DemoUserID:    {pages.CategoryPhoto: 6, pages.CategoryVoice: 2},
		DemoGroupID:   {pages.CategoryPhoto: 14, pages.CategoryURL: 9, pages.CategoryFile: 3, pages.CategoryGIF: 5},
		DemoChannelID: {pages.CategoryURL: 20, pages.CategoryVideo: 4},
	}
	for id, byCat := range media {
		for _, c := range pages.MediaCategories {
			for i := range byCat[c] {
				item := MediaItem{
					PeerID:   id,
					Category: c.String(),
					Caption:  caption(c, i),
					SentAt:   now.Add(-time.Duration(rng.IntN(24*60)) * time.Hour),
				}
				if _, err := r.AddMedia(ctx, item); err != nil {
					return fmt.Errorf("seed media: %w", err)
				}
			}
		}
	}

	if err := r.AddCommonGroup(ctx, DemoUserID, DemoGroupID); err != nil {
		return err
	}

	for _, id := range []int64{DemoUserID, DemoGroupID, DemoChannelID} {
		for d := range 30 {
			day := now.AddDate(0, 0, -d)
			if err := r.RecordActivity(ctx, id, day, 5+rng.IntN(60)); err != nil {
				return err
			}
		}
	}
	return nil
}

func caption(c pages.Category, i int) string {
	switch c {
	case pages.CategoryURL:
		return fmt.Sprintf("https://go.dev/blog/post-%d", i+1)
	case pages.CategoryFile:
		return fmt.Sprintf("notes-%d.pdf", i+1)
	case pages.CategoryPhoto:
		if i%3 == 0 {
			return ""
		}
		return fmt.Sprintf("Meetup photo %d", i+1)
	}
	return ""
}
