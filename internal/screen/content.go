package screen

import (
	"fmt"

	"chatprofile/internal/peer"
	"chatprofile/internal/rows"
	"chatprofile/internal/section"
)

// Row ids. They are unique within their group.
const (
	RowHeader rows.ID = iota + 1
	RowPhone
	RowUsername
	RowBio
	RowAbout
	RowLink
	RowInviteLinks
	RowLinkedChat
	RowNotifications
	RowMembers
	RowAdminLog
	RowPrehistory
	RowSlowMode
	RowEditTitle
	RowEditAbout
	RowEditPublic
	RowEditPrivate
	RowEditSlowMode
	RowDelete
	RowSettingsTitle
)

// Settings is the read-only preference snapshot row building depends on.
type Settings struct {
	ShowPhone    bool
	Notification bool
}

// DefaultSettings returns the preferences used when none are loaded.
func DefaultSettings() Settings {
	return Settings{ShowPhone: true, Notification: true}
}

// rowSpec describes a row governed by a capability.
type rowSpec struct {
	cap   peer.Capability
	group section.GroupKind
	id    rows.ID
	// anchor must already be present when the row is inserted.
	anchor rows.ID
	build  func(p peer.Peer, s Settings) rows.Row
}

var capabilityRows = []rowSpec{
	{cap: peer.CapInviteLinks, group: section.GroupInfo, id: RowInviteLinks, build: inviteLinksRow},
	{cap: peer.CapLinkedChat, group: section.GroupInfo, id: RowLinkedChat, build: linkedChatRow},
	{cap: peer.CapMembers, group: section.GroupSettings, id: RowMembers, build: membersRow},
	{cap: peer.CapAdminLog, group: section.GroupSettings, id: RowAdminLog, build: adminLogRow},
	{cap: peer.CapPrehistory, group: section.GroupSettings, id: RowPrehistory, anchor: RowAdminLog, build: prehistoryRow},
	{cap: peer.CapSlowMode, group: section.GroupSettings, id: RowSlowMode, build: slowModeRow},
}

// canonical is the visual order of every row a group can hold.
var canonical = map[section.GroupKind][]rows.ID{
	section.GroupInfo:     {RowPhone, RowUsername, RowBio, RowAbout, RowLink, RowInviteLinks, RowLinkedChat},
	section.GroupSettings: {RowNotifications, RowMembers, RowAdminLog, RowPrehistory, RowSlowMode},
}

func specFor(c peer.Capability) (rowSpec, bool) {
	for _, s := range capabilityRows {
		if s.cap == c {
			return s, true
		}
	}
	return rowSpec{}, false
}

// BuildLayout assembles the section list for a peer.
func BuildLayout(p peer.Peer, caps peer.Capabilities, mode peer.Mode, s Settings) section.Layout {
	if mode == peer.ModeEdit {
		return buildEdit(p, caps)
	}
	b := section.NewBuilder().Add(headerRow(p))

	var info []rows.Row
	if p.Kind == peer.KindUser {
		if s.ShowPhone && p.Phone != "" {
			info = append(info, rows.Row{Kind: rows.KindSetting, ID: RowPhone, Title: "Phone", Payload: rows.Text(p.Phone)})
		}
		if p.Username != "" {
			info = append(info, rows.Row{Kind: rows.KindSetting, ID: RowUsername, Title: "Username", Payload: rows.Text("@" + p.Username)})
		}
		if p.About != "" {
			info = append(info, rows.Row{Kind: rows.KindText, ID: RowBio, Title: "Bio", Payload: rows.Text(p.About)})
		}
	} else {
		if p.About != "" {
			info = append(info, rows.Row{Kind: rows.KindText, ID: RowAbout, Title: "Description", Payload: rows.Text(p.About)})
		}
		if p.Public && p.Username != "" {
			info = append(info, rows.Row{Kind: rows.KindSetting, ID: RowLink, Title: "Link", Payload: rows.Text("t.me/" + p.Username)})
		}
	}
	settings := []rows.Row{notificationsRow(s)}
	for _, spec := range capabilityRows {
		if !caps.Has(spec.cap) || !applies(spec, p) {
			continue
		}
		if spec.anchor != rows.NoID && !caps.Has(anchorCap(spec.anchor)) {
			continue
		}
		r := spec.build(p, s)
		if spec.group == section.GroupInfo {
			info = append(info, r)
		} else {
			settings = append(settings, r)
		}
	}
	sortCanonical(section.GroupInfo, info)
	sortCanonical(section.GroupSettings, settings)

	return b.Group(section.GroupInfo, info...).
		Add(rows.Row{Kind: rows.KindSectionTitle, ID: RowSettingsTitle, Title: "Settings"}).
		Group(section.GroupSettings, settings...).
		Layout()
}

func buildEdit(p peer.Peer, caps peer.Capabilities) section.Layout {
	b := section.NewBuilder().Add(headerRow(p))
	fields := []rows.Row{
		{Kind: rows.KindEditText, ID: RowEditTitle, Title: "Name", Payload: rows.Text(p.Title)},
		{Kind: rows.KindEditText, ID: RowEditAbout, Title: "Description", Payload: rows.Text(p.About)},
	}
	b.Group(section.GroupInfo, fields...)

	var settings []rows.Row
	if p.Kind != peer.KindUser {
		settings = append(settings,
			rows.Row{Kind: rows.KindRadio, ID: RowEditPublic, Title: "Public", Payload: radio(p.Public)},
			rows.Row{Kind: rows.KindRadio, ID: RowEditPrivate, Title: "Private", Payload: radio(!p.Public)},
		)
		if caps.Has(peer.CapSlowMode) {
			settings = append(settings, rows.Row{Kind: rows.KindSlider, ID: RowEditSlowMode, Title: "Slow mode",
				Payload: rows.Slider{Value: p.SlowMode, Min: 0, Max: 3600}})
		}
	}
	settings = append(settings, rows.Row{Kind: rows.KindSetting, ID: RowDelete, Title: deleteTitle(p.Kind), Flags: rows.FlagDestructive})
	return b.Group(section.GroupSettings, settings...).Layout()
}

func applies(spec rowSpec, p peer.Peer) bool {
	if p.Kind == peer.KindUser {
		return false
	}
	if spec.cap == peer.CapSlowMode || spec.cap == peer.CapPrehistory {
		return p.Kind == peer.KindGroup
	}
	return true
}

func anchorCap(id rows.ID) peer.Capability {
	for _, s := range capabilityRows {
		if s.id == id {
			return s.cap
		}
	}
	return ""
}

// logicalIndex returns where id belongs among the rows already in a group.
func logicalIndex(group section.GroupKind, id rows.ID, present []rows.Row) int {
	order := canonical[group]
	rank := indexOf(order, id)
	n := 0
	for _, r := range present {
		if indexOf(order, r.ID) < rank {
			n++
		}
	}
	return n
}

func sortCanonical(group section.GroupKind, rs []rows.Row) {
	order := canonical[group]
	for i := 1; i < len(rs); i++ {
		for j := i; j > 0 && indexOf(order, rs[j].ID) < indexOf(order, rs[j-1].ID); j-- {
			rs[j], rs[j-1] = rs[j-1], rs[j]
		}
	}
}

func indexOf(ids []rows.ID, id rows.ID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return len(ids)
}

func headerRow(p peer.Peer) rows.Row {
	return rows.Row{Kind: rows.KindHeader, ID: RowHeader, Title: p.Title,
		Payload: rows.Entity{Kind: entityKind(p.Kind), ID: p.ID, Label: subtitle(p)}}
}

func entityKind(k peer.Kind) rows.EntityKind {
	if k == peer.KindUser {
		return rows.EntityUser
	}
	return rows.EntityChat
}

func subtitle(p peer.Peer) string {
	switch p.Kind {
	case peer.KindUser:
		return "last seen recently"
	case peer.KindChannel:
		return "channel"
	default:
		return "group"
	}
}

func notificationsRow(s Settings) rows.Row {
	v := "Off"
	if s.Notification {
		v = "On"
	}
	return rows.Setting(RowNotifications, "Notifications", rows.Text(v))
}

func inviteLinksRow(peer.Peer, Settings) rows.Row {
	return rows.Setting(RowInviteLinks, "Invite links", nil)
}

func linkedChatRow(p peer.Peer, _ Settings) rows.Row {
	title := "Discussion"
	if p.Kind == peer.KindGroup {
		title = "Linked channel"
	}
	return rows.Setting(RowLinkedChat, title, nil)
}

func membersRow(peer.Peer, Settings) rows.Row {
	return rows.Row{Kind: rows.KindSetting, ID: RowMembers, Title: "Members", Payload: rows.Count{}, Flags: rows.FlagLoading}
}

func adminLogRow(peer.Peer, Settings) rows.Row {
	return rows.Setting(RowAdminLog, "Recent actions", nil)
}

func prehistoryRow(p peer.Peer, _ Settings) rows.Row {
	return rows.Setting(RowPrehistory, "Chat history for new members", rows.Text("Visible"))
}

func slowModeRow(p peer.Peer, _ Settings) rows.Row {
	v := "Off"
	if p.SlowMode > 0 {
		v = fmt.Sprintf("%ds", p.SlowMode)
	}
	return rows.Setting(RowSlowMode, "Slow mode", rows.Text(v))
}

func radio(on bool) rows.Text {
	if on {
		return "●"
	}
	return "○"
}

func deleteTitle(k peer.Kind) string {
	switch k {
	case peer.KindChannel:
		return "Delete channel"
	case peer.KindGroup:
		return "Delete group"
	}
	return "Delete contact"
}
