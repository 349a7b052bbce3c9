package httpapi

import (
	"time"

	"github.com/riskibarqy/tournament-sync/internal/domain/syncjob"
	"github.com/riskibarqy/tournament-sync/internal/domain/teamreview"
	"github.com/riskibarqy/tournament-sync/internal/domain/tournamentteam"
)

type syncDiscoveryRequest struct {
	TournamentCode string `json:"tournament_code" validate:"omitempty,max=64"`
}

type syncStructureRequest struct {
	TournamentCode string `json:"tournament_code" validate:"required,max=64"`
	EventCode      string `json:"event_code" validate:"omitempty,max=64"`
}

type syncStandingRequest struct {
	TournamentCode string `json:"tournament_code" validate:"required,max=64"`
	EventCode      string `json:"event_code" validate:"omitempty,max=64"`
	DrawCode       string `json:"draw_code" validate:"required,max=64"`
}

type resolveReviewRequest struct {
	Resolution string `json:"resolution" validate:"required,oneof=matched-to-existing created-new-team ignored"`
	TeamID     string `json:"team_id" validate:"required_if=Resolution matched-to-existing"`
	ResolvedBy string `json:"resolved_by" validate:"required,max=128"`
	Notes      string `json:"notes" validate:"omitempty,max=2000"`
}

type jobLogDTO struct {
	ID             string     `json:"id"`
	JobID          string     `json:"job_id"`
	JobType        string     `json:"job_type"`
	Attempt        int        `json:"attempt"`
	TournamentCode string     `json:"tournament_code,omitempty"`
	EventCode      string     `json:"event_code,omitempty"`
	DrawCode       string     `json:"draw_code,omitempty"`
	Status         string     `json:"status"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	ProcessingMS   int64      `json:"processing_ms"`
	ItemsProcessed int        `json:"items_processed"`
	ErrorMessage   string     `json:"error_message,omitempty"`
}

type suggestionDTO struct {
	TeamID string  `json:"team_id"`
	Score  float64 `json:"score"`
}

type reviewDTO struct {
	ID             string          `json:"id"`
	TournamentCode string          `json:"tournament_code"`
	EventCode      string          `json:"event_code,omitempty"`
	ExternalCode   string          `json:"external_code"`
	ExternalName   string          `json:"external_name"`
	Suggestions    []suggestionDTO `json:"suggestions"`
	Status         string          `json:"status"`
	Resolution     string          `json:"resolution,omitempty"`
	ResolvedTeamID *string         `json:"resolved_team_id,omitempty"`
	ResolvedBy     string          `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time      `json:"resolved_at,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

type tournamentTeamDTO struct {
	TournamentCode string     `json:"tournament_code"`
	ExternalCode   string     `json:"external_code"`
	ExternalName   string     `json:"external_name"`
	ClubName       string     `json:"club_name,omitempty"`
	MatchedTeamID  *string    `json:"matched_team_id,omitempty"`
	MatchScore     float64    `json:"match_score"`
	MatchType      string     `json:"match_type"`
	MatchedAt      *time.Time `json:"matched_at,omitempty"`
}

func jobLogToDTO(item syncjob.Log) jobLogDTO {
	return jobLogDTO{
		ID:             item.ID,
		JobID:          item.ExternalJobID,
		JobType:        string(item.JobType),
		Attempt:        item.Attempt,
		TournamentCode: item.TournamentCode,
		EventCode:      item.EventCode,
		DrawCode:       item.DrawCode,
		Status:         string(item.Status),
		StartedAt:      item.StartedAt,
		CompletedAt:    item.CompletedAt,
		ProcessingMS:   item.ProcessingDuration.Milliseconds(),
		ItemsProcessed: item.ItemsProcessed,
		ErrorMessage:   item.ErrorMessage,
	}
}

func reviewToDTO(item teamreview.Review) reviewDTO {
	suggestions := make([]suggestionDTO, 0, len(item.Suggestions))
	for _, s := range item.Suggestions {
		suggestions = append(suggestions, suggestionDTO{TeamID: s.TeamID, Score: s.Score})
	}

	status := string(item.Status)
	if item.Status.IsTerminal() {
		status = string(teamreview.StatusResolved)
	}

	return reviewDTO{
		ID:             item.ID,
		TournamentCode: item.TournamentCode,
		EventCode:      item.EventCode,
		ExternalCode:   item.ExternalCode,
		ExternalName:   item.ExternalName,
		Suggestions:    suggestions,
		Status:         status,
		Resolution:     string(item.EffectiveResolution()),
		ResolvedTeamID: item.ResolvedTeamID,
		ResolvedBy:     item.ResolvedBy,
		ResolvedAt:     item.ResolvedAt,
		Notes:          item.Notes,
		CreatedAt:      item.CreatedAt,
	}
}

func tournamentTeamToDTO(item tournamentteam.Team) tournamentTeamDTO {
	return tournamentTeamDTO{
		TournamentCode: item.TournamentCode,
		ExternalCode:   item.ExternalCode,
		ExternalName:   item.ExternalName,
		ClubName:       item.ClubName,
		MatchedTeamID:  item.MatchedTeamID,
		MatchScore:     item.MatchScore,
		MatchType:      string(item.MatchType),
		MatchedAt:      item.MatchedAt,
	}
}
