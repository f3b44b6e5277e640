// Package pages keeps the ordered set of content pages below the section
// list and the horizontal paging state between them.
package pages

import (
	"fmt"
	"strings"

	"chatprofile/internal/peer"
)

// Category identifies a content page. Its numeric value is the fixed sort
// order used to place pages.
type Category int

const (
	CategoryMembers Category = iota
	CategoryPhoto
	CategoryVideo
	CategoryFile
	CategoryURL
	CategoryAudio
	CategoryVoice
	CategoryGIF
	CategoryCommonGroups
)

var categoryNames = []string{
	CategoryMembers:      "members",
	CategoryPhoto:        "photo",
	CategoryVideo:        "video",
	CategoryFile:         "file",
	CategoryURL:          "url",
	CategoryAudio:        "audio",
	CategoryVoice:        "voice",
	CategoryGIF:          "gif",
	CategoryCommonGroups: "common_groups",
}

var categoryTitles = []string{
	CategoryMembers:      "Members",
	CategoryPhoto:        "Photos",
	CategoryVideo:        "Videos",
	CategoryFile:         "Files",
	CategoryURL:          "Links",
	CategoryAudio:        "Music",
	CategoryVoice:        "Voice",
	CategoryGIF:          "GIFs",
	CategoryCommonGroups: "Groups",
}

// MediaCategories lists the categories backed by shared media.
var MediaCategories = []Category{
	CategoryPhoto,
	CategoryVideo,
	CategoryFile,
	CategoryURL,
	CategoryAudio,
	CategoryVoice,
	CategoryGIF,
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// Title is the tab label.
func (c Category) Title() string {
	if c < 0 || int(c) >= len(categoryTitles) {
		return c.String()
	}
	return categoryTitles[c]
}

// IsMedia reports whether the page lists shared media.
func (c Category) IsMedia() bool {
	return c >= CategoryPhoto && c <= CategoryGIF
}

// ParseCategory resolves a category name.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range categoryNames {
		if name == s {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// Entry is one slot in a page template.
type Entry struct {
	Category Category
	// Sync pages exist from the first build; async pages wait for a
	// positive count.
	Sync bool
	// Requires names the capability the page depends on, if any.
	Requires peer.Capability
}

// Template is the ordered list of pages a screen may show.
type Template []Entry

// TemplateFor returns the page template for a peer kind and mode. Edit mode
// shows no pages.
func TemplateFor(kind peer.Kind, mode peer.Mode) Template {
	if mode == peer.ModeEdit {
		return nil
	}
	var t Template
	switch kind {
	case peer.KindGroup, peer.KindChannel:
		t = append(t, Entry{Category: CategoryMembers, Sync: true, Requires: peer.CapMembers})
	}
	for _, c := range MediaCategories {
		t = append(t, Entry{Category: c})
	}
	if kind == peer.KindUser {
		t = append(t, Entry{Category: CategoryCommonGroups})
	}
	return t
}

// position returns the template slot of c, or -1.
func (t Template) position(c Category) int {
	for i, e := range t {
		if e.Category == c {
			return i
		}
	}
	return -1
}

// Async returns the asynchronous categories in template order.
func (t Template) Async() []Category {
	var out []Category
	for _, e := range t {
		if !e.Sync {
			out = append(out, e.Category)
		}
	}
	return out
}
