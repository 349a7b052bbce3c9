package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tournament-sync/internal/domain/tournamentteam"
	qb "github.com/riskibarqy/tournament-sync/internal/platform/querybuilder"
)

type TournamentTeamRepository struct {
	db *sqlx.DB
}

func NewTournamentTeamRepository(db *sqlx.DB) *TournamentTeamRepository {
	return &TournamentTeamRepository{db: db}
}

func (r *TournamentTeamRepository) Get(ctx context.Context, key tournamentteam.Key) (tournamentteam.Team, bool, error) {
	query, args, err := qb.Select("*").From("tournament_teams").
		Where(
			qb.Eq("tournament_code", key.TournamentCode),
			qb.Eq("external_code", key.ExternalCode),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return tournamentteam.Team{}, false, fmt.Errorf("build select tournament team query: %w", err)
	}

	var row tournamentTeamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tournamentteam.Team{}, false, nil
		}
		return tournamentteam.Team{}, false, fmt.Errorf("select tournament team: %w", err)
	}
	return tournamentTeamFromRow(row), true, nil
}

func (r *TournamentTeamRepository) Upsert(ctx context.Context, item tournamentteam.Team) (tournamentteam.Team, error) {
	if strings.TrimSpace(item.TournamentCode) == "" || strings.TrimSpace(item.ExternalCode) == "" {
		return tournamentteam.Team{}, fmt.Errorf("tournament team requires tournament code and external code")
	}
	id := strings.TrimSpace(item.ID)
	if id == "" {
		id = uuid.NewString()
	}

	model := tournamentTeamInsertModel{
		ID:             id,
		TournamentCode: item.TournamentCode,
		EventCode:      item.EventCode,
		ExternalCode:   item.ExternalCode,
		ExternalName:   item.ExternalName,
		NormalizedName: item.NormalizedName,
		ClubName:       item.ClubName,
		TeamNumber:     nullableInt(item.TeamNumber),
		Gender:         item.Gender,
		Strength:       nullableInt(item.Strength),
		Country:        item.Country,
		MatchScore:     item.MatchScore,
		MatchType:      string(item.MatchType),
		MatchedAt:      nullableTime(item.MatchedAt),
		IsMatched:      item.IsMatched,
	}
	if item.MatchedTeamID != nil {
		model.MatchedTeamID = nullableString(*item.MatchedTeamID)
	}

	query, args, err := qb.InsertModel("tournament_teams", model, `ON CONFLICT (tournament_code, external_code)
DO UPDATE SET
    event_code = EXCLUDED.event_code,
    external_name = EXCLUDED.external_name,
    normalized_name = EXCLUDED.normalized_name,
    club_name = EXCLUDED.club_name,
    team_number = EXCLUDED.team_number,
    gender = EXCLUDED.gender,
    strength = EXCLUDED.strength,
    country = EXCLUDED.country,
    matched_team_id = EXCLUDED.matched_team_id,
    match_score = EXCLUDED.match_score,
    match_type = EXCLUDED.match_type,
    matched_at = EXCLUDED.matched_at,
    is_matched = EXCLUDED.is_matched,
    updated_at = NOW()
RETURNING *`)
	if err != nil {
		return tournamentteam.Team{}, fmt.Errorf("build upsert tournament team query: %w", err)
	}

	var row tournamentTeamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return tournamentteam.Team{}, fmt.Errorf("upsert tournament team tournament=%s external_code=%s: %w", item.TournamentCode, item.ExternalCode, err)
	}
	return tournamentTeamFromRow(row), nil
}

func (r *TournamentTeamRepository) ListByMatchType(ctx context.Context, tournamentCode string, matchType tournamentteam.MatchType) ([]tournamentteam.Team, error) {
	query, args, err := qb.Select("*").From("tournament_teams").
		Where(
			qb.Eq("tournament_code", tournamentCode),
			qb.Eq("match_type", string(matchType)),
		).
		OrderBy("external_name", "external_code").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tournament teams by match type query: %w", err)
	}

	var rows []tournamentTeamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tournament teams tournament=%s match_type=%s: %w", tournamentCode, matchType, err)
	}

	out := make([]tournamentteam.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, tournamentTeamFromRow(row))
	}
	return out, nil
}

func tournamentTeamFromRow(row tournamentTeamTableModel) tournamentteam.Team {
	return tournamentteam.Team{
		ID:             row.ID,
		TournamentCode: row.TournamentCode,
		EventCode:      row.EventCode,
		ExternalCode:   row.ExternalCode,
		ExternalName:   row.ExternalName,
		NormalizedName: row.NormalizedName,
		ClubName:       row.ClubName,
		TeamNumber:     intPtr(row.TeamNumber),
		Gender:         row.Gender,
		Strength:       intPtr(row.Strength),
		Country:        row.Country,
		MatchedTeamID:  stringPtr(row.MatchedTeamID),
		MatchScore:     row.MatchScore,
		MatchType:      tournamentteam.MatchType(row.MatchType),
		MatchedAt:      timePtr(row.MatchedAt),
		IsMatched:      row.IsMatched,
		CreatedAt:      row.CreatedAt.UTC(),
		UpdatedAt:      row.UpdatedAt.UTC(),
	}
}
