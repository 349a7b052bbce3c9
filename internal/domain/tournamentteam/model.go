package tournamentteam

import "time"

type MatchType string

const (
	MatchTypeNone            MatchType = ""
	MatchTypeAutomaticHigh   MatchType = "automatic-high-confidence"
	MatchTypeAutomaticMedium MatchType = "automatic-medium-confidence"
	MatchTypeManual          MatchType = "manual"
)

func ParseMatchType(raw string) (MatchType, bool) {
	switch MatchType(raw) {
	case MatchTypeNone, MatchTypeAutomaticHigh, MatchTypeAutomaticMedium, MatchTypeManual:
		return MatchType(raw), true
	default:
		return "", false
	}
}

// Team is one externally observed team for a tournament, plus its match to an
// internal team. Rows are keyed by (TournamentCode, ExternalCode).
type Team struct {
	ID             string
	TournamentCode string
	EventCode      string
	ExternalCode   string
	ExternalName   string
	NormalizedName string
	ClubName       string
	TeamNumber     *int
	Gender         string
	Strength       *int
	Country        string
	MatchedTeamID  *string
	MatchScore     float64
	MatchType      MatchType
	MatchedAt      *time.Time
	IsMatched      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsManual reports whether a human already decided this row.
func (t Team) IsManual() bool {
	return t.MatchType == MatchTypeManual
}

// HoldsManualDecision reports whether a human decision still applies. A
// manual row that claims a match but lost its team no longer does; an
// ignored row (manual, unmatched) does.
func (t Team) HoldsManualDecision() bool {
	if !t.IsManual() {
		return false
	}
	return t.MatchedTeamID != nil || !t.IsMatched
}

// ClearMatch drops the match so the row is reconciled from scratch.
func (t *Team) ClearMatch() {
	t.MatchedTeamID = nil
	t.MatchScore = 0
	t.MatchType = MatchTypeNone
	t.MatchedAt = nil
	t.IsMatched = false
}

// Key identifies a row without its surrogate id.
type Key struct {
	TournamentCode string
	ExternalCode   string
}

func (t Team) Key() Key {
	return Key{TournamentCode: t.TournamentCode, ExternalCode: t.ExternalCode}
}
