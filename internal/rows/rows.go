// Package rows defines the row descriptors that make up a section list.
package rows

import "fmt"

// Kind identifies the visual type of a row.
type Kind int

const (
	KindSetting Kind = iota
	KindSeparator
	KindSeparatorFull
	KindShadowTop
	KindShadowBottom
	KindHeader
	KindText
	KindSlider
	KindEditText
	KindPlaceholder
	KindRadio
	KindSectionTitle
	KindMember
	KindMedia
	KindLoading
)

var kindNames = map[Kind]string{
	KindSetting:       "setting",
	KindSeparator:     "separator",
	KindSeparatorFull: "separator-full",
	KindShadowTop:     "shadow-top",
	KindShadowBottom:  "shadow-bottom",
	KindHeader:        "header",
	KindText:          "text",
	KindSlider:        "slider",
	KindEditText:      "edit-text",
	KindPlaceholder:   "placeholder",
	KindRadio:         "radio",
	KindSectionTitle:  "section-title",
	KindMember:        "member",
	KindMedia:         "media",
	KindLoading:       "loading",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsSeparator reports whether k is one of the separator styles.
func (k Kind) IsSeparator() bool {
	return k == KindSeparator || k == KindSeparatorFull
}

// IsShadow reports whether k is a shadow marker.
func (k Kind) IsShadow() bool {
	return k == KindShadowTop || k == KindShadowBottom
}

// IsDecoration reports whether k is bookkeeping rather than content.
func (k Kind) IsDecoration() bool {
	return k.IsSeparator() || k.IsShadow()
}

// NeedsFullSeparator reports whether rows of this kind are drawn with
// full-width separators instead of inset ones.
func (k Kind) NeedsFullSeparator() bool {
	return k == KindRadio || k == KindSlider
}

// SeparatorFor returns the separator kind required between two adjacent
// content rows.
func SeparatorFor(above, below Kind) Kind {
	if above.NeedsFullSeparator() || below.NeedsFullSeparator() {
		return KindSeparatorFull
	}
	return KindSeparator
}

// ID identifies a row within its logical group. Decoration rows use NoID.
type ID int64

const NoID ID = 0

// Flag carries per-row presentation hints.
type Flag uint8

const FlagNone Flag = 0

const (
	// FlagDisabled renders the row without accepting taps.
	FlagDisabled Flag = 1 << iota
	// FlagAccent renders the row title in the accent color.
	FlagAccent
	// FlagDestructive renders the row title in the destructive color.
	FlagDestructive
	// FlagLoading marks a row whose value has not resolved yet.
	FlagLoading
)

// Row is one visual line item.
type Row struct {
	Kind    Kind
	ID      ID
	Title   string
	Payload Payload
	Flags   Flag
}

// Has reports whether all bits of f are set.
func (r Row) Has(f Flag) bool {
	return r.Flags&f == f
}

func (r Row) String() string {
	if r.Kind.IsDecoration() {
		return r.Kind.String()
	}
	return fmt.Sprintf("%s#%d", r.Kind, r.ID)
}

// Separator returns a separator row of the given style.
func Separator(kind Kind) Row {
	if !kind.IsSeparator() {
		kind = KindSeparator
	}
	return Row{Kind: kind}
}

// ShadowTop returns a shadow-top marker.
func ShadowTop() Row { return Row{Kind: KindShadowTop} }

// ShadowBottom returns a shadow-bottom marker.
func ShadowBottom() Row { return Row{Kind: KindShadowBottom} }

// Setting returns a plain setting row.
func Setting(id ID, title string, payload Payload) Row {
	return Row{Kind: KindSetting, ID: id, Title: title, Payload: payload}
}
