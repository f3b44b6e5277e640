// Package peer describes the entity a profile screen shows and what the
// viewer is allowed to do with it.
package peer

import (
	"fmt"
	"slices"
	"strings"
)

// Kind is the type of peer.
type Kind string

const (
	KindUser    Kind = "user"
	KindGroup   Kind = "group"
	KindChannel Kind = "channel"
)

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindUser, KindGroup, KindChannel:
		return k, nil
	}
	return "", fmt.Errorf("unknown peer kind %q", s)
}

// Mode is the presentation mode of a screen.
type Mode int

const (
	ModeView Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "view"
}

// Peer is the loaded profile entity.
type Peer struct {
	ID       int64
	Kind     Kind
	Title    string
	Username string
	About    string
	Phone    string
	// SlowMode is the slow-mode delay in seconds for groups.
	SlowMode int
	// Public is true for groups and channels with a public link.
	Public bool
}

// Capability is a permission or entity state that governs which rows and
// pages exist.
type Capability string

const (
	CapInviteLinks Capability = "invite_links"
	CapLinkedChat  Capability = "linked_chat"
	CapMembers     Capability = "members"
	CapAdminLog    Capability = "admin_log"
	CapPrehistory  Capability = "prehistory"
	CapSlowMode    Capability = "slow_mode"
)

// AllCapabilities lists every known capability in canonical order.
var AllCapabilities = []Capability{
	CapInviteLinks,
	CapLinkedChat,
	CapMembers,
	CapAdminLog,
	CapPrehistory,
	CapSlowMode,
}

// ParseCapability validates a capability name.
func ParseCapability(s string) (Capability, error) {
	c := Capability(strings.ToLower(s))
	if slices.Contains(AllCapabilities, c) {
		return c, nil
	}
	return "", fmt.Errorf("unknown capability %q", s)
}

// Capabilities is a set of granted capabilities.
type Capabilities map[Capability]bool

// Has reports whether c is granted. The empty capability is always granted.
func (cs Capabilities) Has(c Capability) bool {
	return c == "" || cs[c]
}

// Clone returns an independent copy.
func (cs Capabilities) Clone() Capabilities {
	out := make(Capabilities, len(cs))
	for k, v := range cs {
		if v {
			out[k] = true
		}
	}
	return out
}

// List returns the granted capabilities in canonical order.
func (cs Capabilities) List() []Capability {
	var out []Capability
	for _, c := range AllCapabilities {
		if cs[c] {
			out = append(out, c)
		}
	}
	return out
}
