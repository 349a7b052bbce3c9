package postgres

import (
	"database/sql"
	"time"
)

type syncJobLogTableModel struct {
	ID             string         `db:"id"`
	JobType        string         `db:"job_type"`
	ExternalJobID  string         `db:"external_job_id"`
	Attempt        int            `db:"attempt"`
	TournamentCode string         `db:"tournament_code"`
	EventCode      string         `db:"event_code"`
	DrawCode       string         `db:"draw_code"`
	Status         string         `db:"status"`
	StartedAt      time.Time      `db:"started_at"`
	CompletedAt    sql.NullTime   `db:"completed_at"`
	ProcessingMS   int64          `db:"processing_ms"`
	ItemsProcessed int            `db:"items_processed"`
	ErrorMessage   string         `db:"error_message"`
	ErrorStack     string         `db:"error_stack"`
	Input          sql.NullString `db:"input"`
	Result         sql.NullString `db:"result"`
	CreatedAt      time.Time      `db:"created_at"`
}
