package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tournament-sync/internal/domain/teamreview"
	"github.com/riskibarqy/tournament-sync/internal/domain/tournamentteam"
	qb "github.com/riskibarqy/tournament-sync/internal/platform/querybuilder"
)

const pendingReviewConstraint = "team_reviews_pending_uq"

type TeamReviewRepository struct {
	db *sqlx.DB
}

func NewTeamReviewRepository(db *sqlx.DB) *TeamReviewRepository {
	return &TeamReviewRepository{db: db}
}

func (r *TeamReviewRepository) Create(ctx context.Context, item teamreview.Review) error {
	if strings.TrimSpace(item.ID) == "" {
		return fmt.Errorf("review id is required")
	}

	suggestions := "[]"
	if len(item.Suggestions) > 0 {
		raw, err := sonic.Marshal(item.Suggestions)
		if err != nil {
			return fmt.Errorf("marshal review suggestions: %w", err)
		}
		suggestions = string(raw)
	}
	payload := "{}"
	if len(item.RawPayload) > 0 {
		payload = string(item.RawPayload)
	}
	createdAt := item.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	status := item.Status
	if status == "" {
		status = teamreview.StatusPendingReview
	}

	model := teamReviewInsertModel{
		ID:             item.ID,
		TournamentCode: item.TournamentCode,
		EventCode:      item.EventCode,
		ExternalCode:   item.ExternalCode,
		ExternalName:   item.ExternalName,
		RawPayload:     payload,
		Suggestions:    suggestions,
		ErrorMessage:   item.ErrorMessage,
		Status:         string(status),
		CreatedAt:      createdAt,
	}
	query, args, err := qb.InsertModel("team_reviews", model, "")
	if err != nil {
		return fmt.Errorf("build insert team review query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, pendingReviewConstraint) {
			return teamreview.ErrPendingExists
		}
		return fmt.Errorf("insert team review tournament=%s external_code=%s: %w", item.TournamentCode, item.ExternalCode, err)
	}
	return nil
}

func (r *TeamReviewRepository) GetByID(ctx context.Context, id string) (teamreview.Review, bool, error) {
	return r.getOne(ctx, r.db, false, qb.Eq("id", strings.TrimSpace(id)))
}

func (r *TeamReviewRepository) FindPending(ctx context.Context, tournamentCode, externalCode string) (teamreview.Review, bool, error) {
	return r.getOne(ctx, r.db, false,
		qb.Eq("tournament_code", tournamentCode),
		qb.Eq("external_code", externalCode),
		qb.Eq("status", string(teamreview.StatusPendingReview)),
	)
}

func (r *TeamReviewRepository) getOne(ctx context.Context, q sqlx.QueryerContext, lock bool, conds ...qb.Condition) (teamreview.Review, bool, error) {
	builder := qb.Select("*").From("team_reviews").Where(conds...).Limit(1)
	if lock {
		builder = builder.ForUpdate()
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return teamreview.Review{}, false, fmt.Errorf("build select team review query: %w", err)
	}

	var row teamReviewTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return teamreview.Review{}, false, nil
		}
		return teamreview.Review{}, false, fmt.Errorf("select team review: %w", err)
	}
	item, err := reviewFromRow(row)
	if err != nil {
		return teamreview.Review{}, false, err
	}
	return item, true, nil
}

func (r *TeamReviewRepository) ListPending(ctx context.Context, filter teamreview.ListFilter) ([]teamreview.Review, error) {
	conditions := []qb.Condition{qb.Eq("status", string(teamreview.StatusPendingReview))}
	if filter.TournamentCode != "" {
		conditions = append(conditions, qb.Eq("tournament_code", filter.TournamentCode))
	}

	query, args, err := qb.Select("*").From("team_reviews").
		Where(conditions...).
		OrderBy("created_at", "id").
		Limit(filter.Limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pending team reviews query: %w", err)
	}

	var rows []teamReviewTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list pending team reviews: %w", err)
	}

	out := make([]teamreview.Review, 0, len(rows))
	for _, row := range rows {
		item, err := reviewFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// Resolve locks the review row, then writes the optional new team, the
// tournament team match and the review's terminal state in one transaction.
func (r *TeamReviewRepository) Resolve(ctx context.Context, cmd teamreview.ResolveCommand) (teamreview.Review, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return teamreview.Review{}, fmt.Errorf("begin tx resolve team review: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	review, ok, err := r.getOne(ctx, tx, true, qb.Eq("id", cmd.ReviewID))
	if err != nil {
		return teamreview.Review{}, err
	}
	if !ok {
		return teamreview.Review{}, fmt.Errorf("review %s not found", cmd.ReviewID)
	}
	if review.Status.IsTerminal() {
		return teamreview.Review{}, teamreview.ErrAlreadyResolved
	}

	if cmd.NewTeam != nil {
		if err := cmd.NewTeam.Validate(); err != nil {
			return teamreview.Review{}, err
		}
		if err := insertTeam(ctx, tx, *cmd.NewTeam); err != nil {
			return teamreview.Review{}, err
		}
	}

	resolvedAt := cmd.ResolvedAt.UTC()
	var teamID any
	if cmd.TeamID != nil {
		teamID = *cmd.TeamID
	}

	rowQuery, rowArgs, err := qb.Update("tournament_teams").
		Set("match_type", string(tournamentteam.MatchTypeManual)).
		Set("match_score", cmd.MatchScore).
		Set("matched_at", resolvedAt).
		Set("matched_team_id", teamID).
		Set("is_matched", cmd.TeamID != nil).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("tournament_code", review.TournamentCode),
			qb.Eq("external_code", review.ExternalCode),
		).
		ToSQL()
	if err != nil {
		return teamreview.Review{}, fmt.Errorf("build update tournament team match query: %w", err)
	}
	result, err := tx.ExecContext(ctx, rowQuery, rowArgs...)
	if err != nil {
		return teamreview.Review{}, fmt.Errorf("update tournament team match: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return teamreview.Review{}, fmt.Errorf("rows affected update tournament team match: %w", err)
	}
	if affected == 0 {
		return teamreview.Review{}, fmt.Errorf("tournament team %s/%s not found", review.TournamentCode, review.ExternalCode)
	}

	reviewQuery, reviewArgs, err := qb.Update("team_reviews").
		Set("status", string(teamreview.StatusResolved)).
		Set("resolution", string(cmd.Resolution)).
		Set("resolved_by", cmd.ResolvedBy).
		Set("resolved_at", resolvedAt).
		Set("resolved_team_id", teamID).
		Set("notes", cmd.Notes).
		Where(qb.Eq("id", review.ID)).
		ToSQL()
	if err != nil {
		return teamreview.Review{}, fmt.Errorf("build resolve team review query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, reviewQuery, reviewArgs...); err != nil {
		return teamreview.Review{}, fmt.Errorf("resolve team review id=%s: %w", review.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return teamreview.Review{}, fmt.Errorf("commit resolve team review: %w", err)
	}

	review.Status = teamreview.StatusResolved
	review.Resolution = cmd.Resolution
	review.ResolvedBy = cmd.ResolvedBy
	review.ResolvedAt = &resolvedAt
	review.Notes = cmd.Notes
	review.ResolvedTeamID = nil
	if cmd.TeamID != nil {
		id := *cmd.TeamID
		review.ResolvedTeamID = &id
	}
	return review, nil
}

func reviewFromRow(row teamReviewTableModel) (teamreview.Review, error) {
	var suggestions []teamreview.Suggestion
	if strings.TrimSpace(row.Suggestions) != "" {
		if err := sonic.UnmarshalString(row.Suggestions, &suggestions); err != nil {
			return teamreview.Review{}, fmt.Errorf("decode suggestions of review id=%s: %w", row.ID, err)
		}
	}

	return teamreview.Review{
		ID:             row.ID,
		TournamentCode: row.TournamentCode,
		EventCode:      row.EventCode,
		ExternalCode:   row.ExternalCode,
		ExternalName:   row.ExternalName,
		RawPayload:     []byte(row.RawPayload),
		Suggestions:    suggestions,
		ErrorMessage:   row.ErrorMessage,
		Status:         teamreview.Status(row.Status),
		ResolvedBy:     row.ResolvedBy,
		ResolvedAt:     timePtr(row.ResolvedAt),
		Resolution:     teamreview.Resolution(row.Resolution),
		ResolvedTeamID: stringPtr(row.ResolvedTeamID),
		Notes:          row.Notes,
		CreatedAt:      row.CreatedAt.UTC(),
	}, nil
}
