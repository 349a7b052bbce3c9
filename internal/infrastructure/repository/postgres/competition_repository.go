package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tournament-sync/internal/domain/competition"
	qb "github.com/riskibarqy/tournament-sync/internal/platform/querybuilder"
)

type CompetitionRepository struct {
	db *sqlx.DB
}

func NewCompetitionRepository(db *sqlx.DB) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

func (r *CompetitionRepository) GetEventByID(ctx context.Context, id string) (competition.Event, bool, error) {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return competition.Event{}, false, nil
	}
	return r.getEvent(ctx, qb.Eq("id", strings.TrimSpace(id)))
}

func (r *CompetitionRepository) GetEventByVisualCode(ctx context.Context, code string) (competition.Event, bool, error) {
	return r.getEvent(ctx, qb.Eq("visual_code", strings.TrimSpace(code)))
}

func (r *CompetitionRepository) getEvent(ctx context.Context, cond qb.Condition) (competition.Event, bool, error) {
	query, args, err := qb.Select("*").From("events").Where(cond).Limit(1).ToSQL()
	if err != nil {
		return competition.Event{}, false, fmt.Errorf("build select event query: %w", err)
	}

	var row eventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return competition.Event{}, false, nil
		}
		return competition.Event{}, false, fmt.Errorf("select event: %w", err)
	}
	return eventFromRow(row), true, nil
}

func (r *CompetitionRepository) UpsertEvent(ctx context.Context, item competition.Event) (competition.Event, error) {
	code := strings.TrimSpace(item.VisualCode)
	if code == "" {
		return competition.Event{}, fmt.Errorf("event visual code is required")
	}
	id := strings.TrimSpace(item.ID)
	if id == "" {
		id = uuid.NewString()
	}

	model := eventInsertModel{
		ID:                id,
		VisualCode:        code,
		Name:              item.Name,
		Kind:              string(item.Kind),
		Season:            item.Season,
		StartDate:         nullableTime(item.StartDate),
		EndDate:           nullableTime(item.EndDate),
		ExternalUpdatedAt: nullableTime(item.ExternalUpdatedAt),
		LastSync:          nullableTime(item.LastSync),
	}
	query, args, err := qb.InsertModel("events", model, `ON CONFLICT (visual_code)
DO UPDATE SET
    name = EXCLUDED.name,
    kind = EXCLUDED.kind,
    season = EXCLUDED.season,
    start_date = EXCLUDED.start_date,
    end_date = EXCLUDED.end_date,
    external_updated_at = EXCLUDED.external_updated_at,
    last_sync = GREATEST(events.last_sync, EXCLUDED.last_sync),
    updated_at = NOW()
RETURNING *`)
	if err != nil {
		return competition.Event{}, fmt.Errorf("build upsert event query: %w", err)
	}

	var row eventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return competition.Event{}, fmt.Errorf("upsert event visual_code=%s: %w", code, err)
	}
	return eventFromRow(row), nil
}

func (r *CompetitionRepository) GetSubEvent(ctx context.Context, eventID, code string) (competition.SubEvent, bool, error) {
	query, args, err := qb.Select("*").From("sub_events").
		Where(
			qb.Eq("event_id", eventID),
			qb.Eq("visual_code", strings.TrimSpace(code)),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return competition.SubEvent{}, false, fmt.Errorf("build select sub-event query: %w", err)
	}

	var row subEventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return competition.SubEvent{}, false, nil
		}
		return competition.SubEvent{}, false, fmt.Errorf("select sub-event: %w", err)
	}
	return subEventFromRow(row), true, nil
}

func (r *CompetitionRepository) ListSubEvents(ctx context.Context, eventID string) ([]competition.SubEvent, error) {
	query, args, err := qb.Select("*").From("sub_events").
		Where(qb.Eq("event_id", eventID)).
		OrderBy("visual_code").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list sub-events query: %w", err)
	}

	var rows []subEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sub-events event_id=%s: %w", eventID, err)
	}

	out := make([]competition.SubEvent, 0, len(rows))
	for _, row := range rows {
		out = append(out, subEventFromRow(row))
	}
	return out, nil
}

func (r *CompetitionRepository) UpsertSubEvent(ctx context.Context, item competition.SubEvent) (competition.SubEvent, error) {
	code := strings.TrimSpace(item.VisualCode)
	if code == "" {
		return competition.SubEvent{}, fmt.Errorf("sub-event visual code is required")
	}
	id := strings.TrimSpace(item.ID)
	if id == "" {
		id = uuid.NewString()
	}

	model := subEventInsertModel{
		ID:         id,
		EventID:    item.EventID,
		VisualCode: code,
		Name:       item.Name,
		Gender:     item.Gender,
		Level:      item.Level,
		LastSync:   nullableTime(item.LastSync),
	}
	query, args, err := qb.InsertModel("sub_events", model, `ON CONFLICT (event_id, visual_code)
DO UPDATE SET
    name = EXCLUDED.name,
    gender = EXCLUDED.gender,
    level = EXCLUDED.level,
    last_sync = GREATEST(sub_events.last_sync, EXCLUDED.last_sync),
    updated_at = NOW()
RETURNING *`)
	if err != nil {
		return competition.SubEvent{}, fmt.Errorf("build upsert sub-event query: %w", err)
	}

	var row subEventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return competition.SubEvent{}, fmt.Errorf("upsert sub-event event_id=%s visual_code=%s: %w", item.EventID, code, err)
	}
	return subEventFromRow(row), nil
}

func (r *CompetitionRepository) GetDraw(ctx context.Context, subEventID, code string) (competition.Draw, bool, error) {
	query, args, err := qb.Select("*").From("draws").
		Where(
			qb.Eq("sub_event_id", subEventID),
			qb.Eq("visual_code", strings.TrimSpace(code)),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return competition.Draw{}, false, fmt.Errorf("build select draw query: %w", err)
	}

	var row drawTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return competition.Draw{}, false, nil
		}
		return competition.Draw{}, false, fmt.Errorf("select draw: %w", err)
	}
	return drawFromRow(row), true, nil
}

func (r *CompetitionRepository) ListDrawsByCode(ctx context.Context, eventID, code string) ([]competition.Draw, error) {
	query, args, err := qb.Select("d.*").From("draws d JOIN sub_events s ON s.id = d.sub_event_id").
		Where(
			qb.Eq("s.event_id", eventID),
			qb.Eq("d.visual_code", strings.TrimSpace(code)),
		).
		OrderBy("d.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list draws by code query: %w", err)
	}

	var rows []drawTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list draws event_id=%s visual_code=%s: %w", eventID, code, err)
	}

	out := make([]competition.Draw, 0, len(rows))
	for _, row := range rows {
		out = append(out, drawFromRow(row))
	}
	return out, nil
}

func (r *CompetitionRepository) UpsertDraw(ctx context.Context, item competition.Draw) (competition.Draw, error) {
	code := strings.TrimSpace(item.VisualCode)
	if code == "" {
		return competition.Draw{}, fmt.Errorf("draw visual code is required")
	}
	id := strings.TrimSpace(item.ID)
	if id == "" {
		id = uuid.NewString()
	}

	model := drawInsertModel{
		ID:         id,
		SubEventID: item.SubEventID,
		VisualCode: code,
		Name:       item.Name,
		Type:       item.Type,
		Size:       item.Size,
		LastSync:   nullableTime(item.LastSync),
	}
	query, args, err := qb.InsertModel("draws", model, `ON CONFLICT (sub_event_id, visual_code)
DO UPDATE SET
    name = EXCLUDED.name,
    draw_type = EXCLUDED.draw_type,
    size = EXCLUDED.size,
    last_sync = GREATEST(draws.last_sync, EXCLUDED.last_sync),
    updated_at = NOW()
RETURNING *`)
	if err != nil {
		return competition.Draw{}, fmt.Errorf("build upsert draw query: %w", err)
	}

	var row drawTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return competition.Draw{}, fmt.Errorf("upsert draw sub_event_id=%s visual_code=%s: %w", item.SubEventID, code, err)
	}
	return drawFromRow(row), nil
}

func (r *CompetitionRepository) AdvanceWatermarks(ctx context.Context, marks competition.Watermarks) error {
	if marks.Empty() {
		return nil
	}
	at := marks.At.UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx advance watermarks: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	targets := []struct {
		table string
		ids   []string
	}{
		{table: "events", ids: marks.EventIDs},
		{table: "sub_events", ids: marks.SubEventIDs},
		{table: "draws", ids: marks.DrawIDs},
	}
	for _, target := range targets {
		if len(target.ids) == 0 {
			continue
		}
		query, args, err := qb.Update(target.table).
			SetExpr("last_sync", "GREATEST(COALESCE(last_sync, ?), ?)", at, at).
			SetExpr("updated_at", "NOW()").
			Where(qb.InStrings("id", target.ids)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build advance %s watermark query: %w", target.table, err)
		}
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("advance %s watermark: %w", target.table, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected advance %s watermark: %w", target.table, err)
		}
		if int(affected) != len(uniqueStrings(target.ids)) {
			return fmt.Errorf("advance %s watermark: %d of %d rows found", target.table, affected, len(target.ids))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit advance watermarks: %w", err)
	}
	return nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

func eventFromRow(row eventTableModel) competition.Event {
	return competition.Event{
		ID:                row.ID,
		VisualCode:        row.VisualCode,
		Name:              row.Name,
		Kind:              competition.Kind(row.Kind),
		Season:            row.Season,
		StartDate:         timePtr(row.StartDate),
		EndDate:           timePtr(row.EndDate),
		ExternalUpdatedAt: timePtr(row.ExternalUpdatedAt),
		LastSync:          timePtr(row.LastSync),
		CreatedAt:         row.CreatedAt.UTC(),
		UpdatedAt:         row.UpdatedAt.UTC(),
	}
}

func subEventFromRow(row subEventTableModel) competition.SubEvent {
	return competition.SubEvent{
		ID:         row.ID,
		EventID:    row.EventID,
		VisualCode: row.VisualCode,
		Name:       row.Name,
		Gender:     row.Gender,
		Level:      row.Level,
		LastSync:   timePtr(row.LastSync),
	}
}

func drawFromRow(row drawTableModel) competition.Draw {
	return competition.Draw{
		ID:         row.ID,
		SubEventID: row.SubEventID,
		VisualCode: row.VisualCode,
		Name:       row.Name,
		Type:       row.Type,
		Size:       row.Size,
		LastSync:   timePtr(row.LastSync),
	}
}
