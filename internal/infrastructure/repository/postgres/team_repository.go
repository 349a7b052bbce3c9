package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tournament-sync/internal/domain/team"
	"github.com/riskibarqy/tournament-sync/internal/domain/teammatch"
	qb "github.com/riskibarqy/tournament-sync/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("id", strings.TrimSpace(teamID))).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team id=%s: %w", teamID, err)
	}
	return teamFromRow(row), true, nil
}

func (r *TeamRepository) ListCandidates(ctx context.Context, query team.CandidateQuery) ([]team.Team, error) {
	conditions := make([]qb.Condition, 0, 2)
	if query.Season > 0 {
		conditions = append(conditions, qb.Eq("season", query.Season))
	}
	if club := teammatch.Normalize(query.ClubName); club != "" {
		conditions = append(conditions, qb.Eq("club_key", club))
	}

	sqlQuery, args, err := qb.Select("*").From("teams").
		Where(conditions...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list candidate teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, sqlQuery, args...); err != nil {
		return nil, fmt.Errorf("list candidate teams season=%d: %w", query.Season, err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	if err := item.Validate(); err != nil {
		return err
	}
	return insertTeam(ctx, r.db, item)
}

// Delete removes an internal team. Matched tournament teams keep their row and
// lose the reference through the foreign key.
func (r *TeamRepository) Delete(ctx context.Context, teamID string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM teams WHERE id = ?"), teamID); err != nil {
		return fmt.Errorf("delete team id=%s: %w", teamID, err)
	}
	return nil
}

func insertTeam(ctx context.Context, exec sqlx.ExecerContext, item team.Team) error {
	model := teamInsertModel{
		ID:         item.ID,
		ClubID:     item.ClubID,
		ClubName:   item.ClubName,
		ClubKey:    teammatch.Normalize(item.ClubName),
		Name:       item.Name,
		TeamNumber: nullableInt(item.TeamNumber),
		Gender:     item.Gender,
		Season:     item.Season,
	}
	query, args, err := qb.InsertModel("teams", model, "")
	if err != nil {
		return fmt.Errorf("build insert team query: %w", err)
	}
	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert team id=%s: %w", item.ID, err)
	}
	return nil
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:         row.ID,
		ClubID:     row.ClubID,
		ClubName:   row.ClubName,
		Name:       row.Name,
		TeamNumber: intPtr(row.TeamNumber),
		Gender:     row.Gender,
		Season:     row.Season,
		CreatedAt:  row.CreatedAt.UTC(),
	}
}
