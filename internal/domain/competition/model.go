package competition

import (
	"strings"
	"time"
)

type Kind string

const (
	KindCompetition Kind = "competition"
	KindTournament  Kind = "tournament"
)

func ParseKind(raw string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindCompetition:
		return KindCompetition, true
	case KindTournament:
		return KindTournament, true
	default:
		return "", false
	}
}

// Event is the local root of a competition or tournament imported from the
// external source. VisualCode is the external tournament code.
type Event struct {
	ID                string
	VisualCode        string
	Name              string
	Kind              Kind
	Season            int
	StartDate         *time.Time
	EndDate           *time.Time
	ExternalUpdatedAt *time.Time
	LastSync          *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SubEvent is unique per (EventID, VisualCode). Visual codes repeat across events.
type SubEvent struct {
	ID         string
	EventID    string
	VisualCode string
	Name       string
	Gender     string
	Level      int
	LastSync   *time.Time
}

// Draw is unique per (SubEventID, VisualCode).
type Draw struct {
	ID         string
	SubEventID string
	VisualCode string
	Name       string
	Type       string
	Size       int
	LastSync   *time.Time
}

// Watermarks groups the entities whose LastSync advances after a successful run.
type Watermarks struct {
	EventIDs    []string
	SubEventIDs []string
	DrawIDs     []string
	At          time.Time
}

func (w Watermarks) Empty() bool {
	return len(w.EventIDs) == 0 && len(w.SubEventIDs) == 0 && len(w.DrawIDs) == 0
}

// NeedsSync reports whether an external change is newer than the local watermark.
func (e Event) NeedsSync(externalUpdatedAt *time.Time) bool {
	if e.LastSync == nil {
		return true
	}
	if externalUpdatedAt == nil {
		return false
	}
	return externalUpdatedAt.After(*e.LastSync)
}
