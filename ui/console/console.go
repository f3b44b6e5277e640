package console

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"chatprofile/internal/output"
)

const (
	colorReset  = "\033[0m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

const labelWidth = 22

// Print renders the profile view to the writer in a compact format.
func Print(w io.Writer, view output.ProfileView) {
	fmt.Fprintf(w, "%s■ %s%s %s(%s, %s)%s\n", colorCyan, strings.ToUpper(view.Title), colorReset, colorGray, view.Kind, view.Mode, colorReset)
	if view.Header != "" && view.Header != view.Title {
		fmt.Fprintf(w, "  %s\n", view.Header)
	}

	for _, sec := range view.Sections {
		title := sec.Title
		if title == "" {
			title = "·"
		}
		fmt.Fprintf(w, "%s─ %s%s\n", colorCyan, title, colorReset)

		for _, it := range sec.Items {
			label := truncate(it.Label, labelWidth-2)
			dots := strings.Repeat("·", labelWidth-utf8.RuneCountInString(label))
			fmt.Fprintf(w, "  %s%s %s%s\n", label, colorCyan+dots+colorReset, colorFor(it.Kind), truncate(it.Value, 25)+colorReset)
		}
	}

	if len(view.Tabs) > 0 {
		parts := make([]string, 0, len(view.Tabs))
		for _, t := range view.Tabs {
			s := t.Title
			if t.Subtitle != "" {
				s += " " + t.Subtitle
			}
			if t.Active {
				s = "[" + s + "]"
			}
			parts = append(parts, s)
		}
		fmt.Fprintf(w, "%s─ Pages%s: %s\n", colorCyan, colorReset, strings.Join(parts, " | "))
	}
	fmt.Fprintf(w, "%s─ %s%s\n\n", colorGray, view.Status, colorReset)
}

func colorFor(kind string) string {
	switch kind {
	case "loading", "placeholder":
		return colorGray
	case "radio", "slider":
		return colorYellow
	default:
		return ""
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}
