package state

import (
	"time"

	"chatprofile/internal/peer"
)

type Page int

const (
	PageProfile  Page = iota
	PageActivity      // messages per day, full size
	PageConsole       // text dump of the screen and the event log
)

// AppState holds what the host knows outside the screen itself.
type AppState struct {
	Peer        peer.Peer
	Loaded      bool
	Err         error
	Activity    []float64
	LastRefresh time.Time
	ConsoleLogs []string
	CurrentPage Page
	// Prompt is the label of the open text prompt, empty when none is open.
	Prompt string
}

const maxLogs = 200

// Log appends a timestamped line to the console log.
func (s *AppState) Log(line string) {
	s.ConsoleLogs = append(s.ConsoleLogs, time.Now().Format("15:04:05")+" "+line)
	if len(s.ConsoleLogs) > maxLogs {
		s.ConsoleLogs = s.ConsoleLogs[len(s.ConsoleLogs)-maxLogs:]
	}
}
