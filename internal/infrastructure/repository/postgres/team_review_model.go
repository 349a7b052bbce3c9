package postgres

import (
	"database/sql"
	"time"
)

type teamReviewTableModel struct {
	ID             string         `db:"id"`
	TournamentCode string         `db:"tournament_code"`
	EventCode      string         `db:"event_code"`
	ExternalCode   string         `db:"external_code"`
	ExternalName   string         `db:"external_name"`
	RawPayload     string         `db:"raw_payload"`
	Suggestions    string         `db:"suggestions"`
	ErrorMessage   string         `db:"error_message"`
	Status         string         `db:"status"`
	ResolvedBy     string         `db:"resolved_by"`
	ResolvedAt     sql.NullTime   `db:"resolved_at"`
	Resolution     string         `db:"resolution"`
	ResolvedTeamID sql.NullString `db:"resolved_team_id"`
	Notes          string         `db:"notes"`
	CreatedAt      time.Time      `db:"created_at"`
}

type teamReviewInsertModel struct {
	ID             string    `db:"id"`
	TournamentCode string    `db:"tournament_code"`
	EventCode      string    `db:"event_code"`
	ExternalCode   string    `db:"external_code"`
	ExternalName   string    `db:"external_name"`
	RawPayload     string    `db:"raw_payload"`
	Suggestions    string    `db:"suggestions"`
	ErrorMessage   string    `db:"error_message"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
}
