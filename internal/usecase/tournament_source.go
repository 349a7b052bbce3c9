package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/tournament-sync/internal/domain/competition"
)

// TournamentSource is the boundary to the external tournament-management API.
// A code the source does not know yields ErrExternalNotFound. A known code
// without data yields an empty result and a nil error.
type TournamentSource interface {
	FetchTournament(ctx context.Context, code string) (ExternalTournament, error)
	FetchCompetitionStructure(ctx context.Context, code, eventCode string) ([]ExternalSubEvent, error)
	FetchTeams(ctx context.Context, code, eventCode string) ([]ExternalTeam, error)
	ListTournaments(ctx context.Context, updatedSince time.Time) ([]ExternalTournament, error)
}

type ExternalTournament struct {
	Code        string
	Name        string
	Kind        competition.Kind
	Season      int
	StartDate   *time.Time
	EndDate     *time.Time
	LastUpdated *time.Time
}

type ExternalSubEvent struct {
	Code   string
	Name   string
	Gender string
	Level  int
	Draws  []ExternalDraw
}

type ExternalDraw struct {
	Code string
	Name string
	Type string
	Size int
}

// ExternalTeam is stored verbatim as a review's raw payload.
type ExternalTeam struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	ClubName   string `json:"club_name,omitempty"`
	Gender     string `json:"gender,omitempty"`
	Country    string `json:"country,omitempty"`
	TeamNumber *int   `json:"team_number,omitempty"`
	Strength   *int   `json:"strength,omitempty"`
	EventCode  string `json:"event_code,omitempty"`
	Season     int    `json:"season,omitempty"`
}
