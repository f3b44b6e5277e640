package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"chatprofile/internal/database/relational"
	"chatprofile/internal/output"
	"chatprofile/internal/pages"
	"chatprofile/internal/peer"
	"chatprofile/internal/rows"
)

const (
	storeTimeout = 5 * time.Second
	pageLimit    = 200
	activityDays = 30
)

// Messages
type AnimateMsg time.Time

type PeerLoadedMsg struct {
	Peer peer.Peer
	Caps peer.Capabilities
	Err  error
}

// Results bound to one screen carry its id. They are dropped when that
// screen is gone or no longer shown.
type CountMsg struct {
	ScreenID string
	Category pages.Category
	Count    int
	Err      error
}

type PageContentMsg struct {
	ScreenID string
	Category pages.Category
	Rows     []rows.Row
	Err      error
}

type ActivityMsg struct {
	PeerID int64
	Days   []float64
	Err    error
}

type EditDoneMsg struct {
	ScreenID string
	OpID     string
	Err      error
}

type DeletedMsg struct {
	ScreenID string
	Category pages.Category
	Removed  int64
	Err      error
}

// PayloadMsg carries a background refresh result.
type PayloadMsg struct {
	Payload *output.PipelinePayload
}

// InjectCountMsg and RefreshMsg are posted by the debug server.
type InjectCountMsg struct {
	Category pages.Category
	Count    int
}

type RefreshMsg struct{}

// Commands
func animateCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*16, func(t time.Time) tea.Msg {
		return AnimateMsg(t)
	})
}

func loadPeerCmd(ctx context.Context, store relational.ProfileStore, src Source, id int64) tea.Cmd {
	return func() tea.Msg {
		sctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()
		p, err := store.Peer(sctx, id)
		if err != nil {
			return PeerLoadedMsg{Err: err}
		}
		caps, err := src.FetchCapabilities(ctx, id)
		if err != nil {
			return PeerLoadedMsg{Err: err}
		}
		return PeerLoadedMsg{Peer: p, Caps: caps}
	}
}

func countCmd(ctx context.Context, src Source, screenID string, peerID int64, c pages.Category) tea.Cmd {
	return func() tea.Msg {
		n, err := src.FetchCount(ctx, peerID, c)
		return CountMsg{ScreenID: screenID, Category: c, Count: n, Err: err}
	}
}

func pageContentCmd(ctx context.Context, store relational.ProfileStore, screenID string, peerID int64, c pages.Category) tea.Cmd {
	return func() tea.Msg {
		sctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()
		msg := PageContentMsg{ScreenID: screenID, Category: c}
		switch {
		case c == pages.CategoryMembers:
			ms, err := store.Members(sctx, peerID, pageLimit)
			msg.Rows, msg.Err = relational.MemberRows(ms), err
		case c == pages.CategoryCommonGroups:
			gs, err := store.CommonGroups(sctx, peerID, pageLimit)
			msg.Rows, msg.Err = relational.GroupRows(gs), err
		case c.IsMedia():
			items, err := store.Media(sctx, peerID, c, pageLimit)
			msg.Rows, msg.Err = relational.MediaRows(items), err
		}
		return msg
	}
}

func activityCmd(ctx context.Context, store relational.ProfileStore, peerID int64) tea.Cmd {
	return func() tea.Msg {
		sctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()
		days, err := store.Activity(sctx, peerID, activityDays)
		if err != nil {
			return ActivityMsg{PeerID: peerID, Err: err}
		}
		out := make([]float64, len(days))
		for i, d := range days {
			out[i] = float64(d.Messages)
		}
		return ActivityMsg{PeerID: peerID, Days: out}
	}
}

func applyEditCmd(ctx context.Context, store relational.ProfileStore, screenID, opID string, peerID int64, field, value string) tea.Cmd {
	return func() tea.Msg {
		sctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()
		err := store.ApplyEdit(sctx, peerID, field, value)
		return EditDoneMsg{ScreenID: screenID, OpID: opID, Err: err}
	}
}

func deleteMediaCmd(ctx context.Context, store relational.ProfileStore, screenID string, peerID int64, c pages.Category) tea.Cmd {
	return func() tea.Msg {
		sctx, cancel := context.WithTimeout(ctx, storeTimeout)
		defer cancel()
		n, err := store.DeleteMedia(sctx, peerID, c)
		return DeletedMsg{ScreenID: screenID, Category: c, Removed: n, Err: err}
	}
}
