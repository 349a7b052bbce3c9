package syncjob

import (
	"errors"
	"time"
)

var ErrInvalidTransition = errors.New("invalid job status transition")

type Type string

const (
	TypeDiscovery            Type = "discovery"
	TypeCompetitionStructure Type = "competition-structure"
	TypeTournamentStructure  Type = "tournament-structure"
	TypeStanding             Type = "standing"
)

func (t Type) Valid() bool {
	switch t {
	case TypeDiscovery, TypeCompetitionStructure, TypeTournamentStructure, TypeStanding:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusPending, StatusInProgress, StatusCompleted, StatusFailed:
		return Status(raw), true
	default:
		return "", false
	}
}

// CanTransition reports whether a log row may move from one status to another.
// Terminal rows never change again.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusInProgress || to == StatusFailed
	case StatusInProgress:
		return to == StatusCompleted || to == StatusFailed
	default:
		return false
	}
}

// Predecessors lists the statuses a row must currently hold to move into to.
func Predecessors(to Status) []Status {
	out := make([]Status, 0, 2)
	for _, from := range []Status{StatusPending, StatusInProgress, StatusCompleted, StatusFailed} {
		if CanTransition(from, to) {
			out = append(out, from)
		}
	}
	return out
}

// Log is the audit record of one executed job attempt.
type Log struct {
	ID                 string
	JobType            Type
	ExternalJobID      string
	Attempt            int
	TournamentCode     string
	EventCode          string
	DrawCode           string
	Status             Status
	StartedAt          time.Time
	CompletedAt        *time.Time
	ProcessingDuration time.Duration
	ItemsProcessed     int
	ErrorMessage       string
	ErrorStack         string
	Input              []byte
	Result             []byte
	CreatedAt          time.Time
}

type ListFilter struct {
	Limit  int
	Status *Status
}
