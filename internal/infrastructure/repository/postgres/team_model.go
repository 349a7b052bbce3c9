package postgres

import (
	"database/sql"
	"time"
)

type teamTableModel struct {
	ID         string        `db:"id"`
	ClubID     string        `db:"club_id"`
	ClubName   string        `db:"club_name"`
	ClubKey    string        `db:"club_key"`
	Name       string        `db:"name"`
	TeamNumber sql.NullInt64 `db:"team_number"`
	Gender     string        `db:"gender"`
	Season     int           `db:"season"`
	CreatedAt  time.Time     `db:"created_at"`
}

type teamInsertModel struct {
	ID         string        `db:"id"`
	ClubID     string        `db:"club_id"`
	ClubName   string        `db:"club_name"`
	ClubKey    string        `db:"club_key"`
	Name       string        `db:"name"`
	TeamNumber sql.NullInt64 `db:"team_number"`
	Gender     string        `db:"gender"`
	Season     int           `db:"season"`
}

type tournamentTeamTableModel struct {
	ID             string         `db:"id"`
	TournamentCode string         `db:"tournament_code"`
	EventCode      string         `db:"event_code"`
	ExternalCode   string         `db:"external_code"`
	ExternalName   string         `db:"external_name"`
	NormalizedName string         `db:"normalized_name"`
	ClubName       string         `db:"club_name"`
	TeamNumber     sql.NullInt64  `db:"team_number"`
	Gender         string         `db:"gender"`
	Strength       sql.NullInt64  `db:"strength"`
	Country        string         `db:"country"`
	MatchedTeamID  sql.NullString `db:"matched_team_id"`
	MatchScore     float64        `db:"match_score"`
	MatchType      string         `db:"match_type"`
	MatchedAt      sql.NullTime   `db:"matched_at"`
	IsMatched      bool           `db:"is_matched"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

type tournamentTeamInsertModel struct {
	ID             string         `db:"id"`
	TournamentCode string         `db:"tournament_code"`
	EventCode      string         `db:"event_code"`
	ExternalCode   string         `db:"external_code"`
	ExternalName   string         `db:"external_name"`
	NormalizedName string         `db:"normalized_name"`
	ClubName       string         `db:"club_name"`
	TeamNumber     sql.NullInt64  `db:"team_number"`
	Gender         string         `db:"gender"`
	Strength       sql.NullInt64  `db:"strength"`
	Country        string         `db:"country"`
	MatchedTeamID  sql.NullString `db:"matched_team_id"`
	MatchScore     float64        `db:"match_score"`
	MatchType      string         `db:"match_type"`
	MatchedAt      sql.NullTime   `db:"matched_at"`
	IsMatched      bool           `db:"is_matched"`
}
