package teamreview

import (
	"errors"
	"time"
)

var (
	ErrAlreadyResolved = errors.New("review already resolved")
	ErrPendingExists   = errors.New("pending review already exists")
)

type Status string

const (
	StatusPendingReview Status = "pending_review"
	StatusResolved      Status = "resolved"

	// Legacy terminal values. Accepted when reading older rows, never written.
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsTerminal() bool {
	switch s {
	case StatusResolved, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

type Resolution string

const (
	ResolutionMatchedToExisting Resolution = "matched-to-existing"
	ResolutionCreatedNewTeam    Resolution = "created-new-team"
	ResolutionIgnored           Resolution = "ignored"
)

func (r Resolution) Valid() bool {
	switch r {
	case ResolutionMatchedToExisting, ResolutionCreatedNewTeam, ResolutionIgnored:
		return true
	default:
		return false
	}
}

// EffectiveResolution maps legacy statuses onto the resolution discriminator.
func (r Review) EffectiveResolution() Resolution {
	switch r.Status {
	case StatusApproved:
		return ResolutionMatchedToExisting
	case StatusRejected:
		return ResolutionIgnored
	default:
		return r.Resolution
	}
}

type Suggestion struct {
	TeamID string  `json:"team_id"`
	Score  float64 `json:"score"`
}

// Review is a human decision point for an external team that could not be
// matched automatically. It is mutated exactly once, when resolved.
type Review struct {
	ID             string
	TournamentCode string
	EventCode      string
	ExternalCode   string
	ExternalName   string
	RawPayload     []byte
	Suggestions    []Suggestion
	ErrorMessage   string
	Status         Status
	ResolvedBy     string
	ResolvedAt     *time.Time
	Resolution     Resolution
	ResolvedTeamID *string
	Notes          string
	CreatedAt      time.Time
}

type ListFilter struct {
	TournamentCode string
	Limit          int
}
