package postgres

import (
	"database/sql"
	"time"
)

type eventTableModel struct {
	ID                string       `db:"id"`
	VisualCode        string       `db:"visual_code"`
	Name              string       `db:"name"`
	Kind              string       `db:"kind"`
	Season            int          `db:"season"`
	StartDate         sql.NullTime `db:"start_date"`
	EndDate           sql.NullTime `db:"end_date"`
	ExternalUpdatedAt sql.NullTime `db:"external_updated_at"`
	LastSync          sql.NullTime `db:"last_sync"`
	CreatedAt         time.Time    `db:"created_at"`
	UpdatedAt         time.Time    `db:"updated_at"`
}

type subEventTableModel struct {
	ID         string       `db:"id"`
	EventID    string       `db:"event_id"`
	VisualCode string       `db:"visual_code"`
	Name       string       `db:"name"`
	Gender     string       `db:"gender"`
	Level      int          `db:"level"`
	LastSync   sql.NullTime `db:"last_sync"`
	CreatedAt  time.Time    `db:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at"`
}

type drawTableModel struct {
	ID         string       `db:"id"`
	SubEventID string       `db:"sub_event_id"`
	VisualCode string       `db:"visual_code"`
	Name       string       `db:"name"`
	Type       string       `db:"draw_type"`
	Size       int          `db:"size"`
	LastSync   sql.NullTime `db:"last_sync"`
	CreatedAt  time.Time    `db:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at"`
}

type eventInsertModel struct {
	ID                string       `db:"id"`
	VisualCode        string       `db:"visual_code"`
	Name              string       `db:"name"`
	Kind              string       `db:"kind"`
	Season            int          `db:"season"`
	StartDate         sql.NullTime `db:"start_date"`
	EndDate           sql.NullTime `db:"end_date"`
	ExternalUpdatedAt sql.NullTime `db:"external_updated_at"`
	LastSync          sql.NullTime `db:"last_sync"`
}

type subEventInsertModel struct {
	ID         string       `db:"id"`
	EventID    string       `db:"event_id"`
	VisualCode string       `db:"visual_code"`
	Name       string       `db:"name"`
	Gender     string       `db:"gender"`
	Level      int          `db:"level"`
	LastSync   sql.NullTime `db:"last_sync"`
}

type drawInsertModel struct {
	ID         string       `db:"id"`
	SubEventID string       `db:"sub_event_id"`
	VisualCode string       `db:"visual_code"`
	Name       string       `db:"name"`
	Type       string       `db:"draw_type"`
	Size       int          `db:"size"`
	LastSync   sql.NullTime `db:"last_sync"`
}
