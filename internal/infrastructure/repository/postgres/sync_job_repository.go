package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tournament-sync/internal/domain/syncjob"
	qb "github.com/riskibarqy/tournament-sync/internal/platform/querybuilder"
)

type SyncJobRepository struct {
	db *sqlx.DB
}

func NewSyncJobRepository(db *sqlx.DB) *SyncJobRepository {
	return &SyncJobRepository{db: db}
}

func (r *SyncJobRepository) Create(ctx context.Context, item syncjob.Log) error {
	if strings.TrimSpace(item.ID) == "" {
		return fmt.Errorf("job log id is required")
	}
	createdAt := item.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	model := syncJobLogTableModel{
		ID:             item.ID,
		JobType:        string(item.JobType),
		ExternalJobID:  item.ExternalJobID,
		Attempt:        item.Attempt,
		TournamentCode: item.TournamentCode,
		EventCode:      item.EventCode,
		DrawCode:       item.DrawCode,
		Status:         string(item.Status),
		StartedAt:      item.StartedAt.UTC(),
		CompletedAt:    nullableTime(item.CompletedAt),
		ProcessingMS:   item.ProcessingDuration.Milliseconds(),
		ItemsProcessed: item.ItemsProcessed,
		ErrorMessage:   item.ErrorMessage,
		ErrorStack:     item.ErrorStack,
		Input:          nullableJSON(item.Input),
		Result:         nullableJSON(item.Result),
		CreatedAt:      createdAt,
	}
	query, args, err := qb.InsertModel("sync_job_logs", model, "")
	if err != nil {
		return fmt.Errorf("build insert sync job log query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert sync job log id=%s type=%s: %w", item.ID, item.JobType, err)
	}
	return nil
}

// Update only touches rows whose stored status may move to item.Status, so a
// terminal row is never rewritten.
func (r *SyncJobRepository) Update(ctx context.Context, item syncjob.Log) error {
	from := syncjob.Predecessors(item.Status)
	allowed := make([]string, 0, len(from))
	for _, status := range from {
		allowed = append(allowed, string(status))
	}

	query, args, err := qb.Update("sync_job_logs").
		Set("status", string(item.Status)).
		Set("attempt", item.Attempt).
		Set("started_at", item.StartedAt.UTC()).
		Set("completed_at", nullableTime(item.CompletedAt)).
		Set("processing_ms", item.ProcessingDuration.Milliseconds()).
		Set("items_processed", item.ItemsProcessed).
		Set("error_message", item.ErrorMessage).
		Set("error_stack", item.ErrorStack).
		Set("input", nullableJSON(item.Input)).
		Set("result", nullableJSON(item.Result)).
		Where(
			qb.Eq("id", item.ID),
			qb.InStrings("status", allowed),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update sync job log query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update sync job log id=%s: %w", item.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update sync job log: %w", err)
	}
	if affected > 0 {
		return nil
	}

	existing, ok, err := r.GetByID(ctx, item.ID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("job log %s not found", item.ID)
	}
	return fmt.Errorf("%w: %s -> %s", syncjob.ErrInvalidTransition, existing.Status, item.Status)
}

func (r *SyncJobRepository) GetByID(ctx context.Context, id string) (syncjob.Log, bool, error) {
	query, args, err := qb.Select("*").From("sync_job_logs").
		Where(qb.Eq("id", strings.TrimSpace(id))).
		Limit(1).
		ToSQL()
	if err != nil {
		return syncjob.Log{}, false, fmt.Errorf("build select sync job log query: %w", err)
	}

	var row syncJobLogTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return syncjob.Log{}, false, nil
		}
		return syncjob.Log{}, false, fmt.Errorf("select sync job log id=%s: %w", id, err)
	}
	return syncJobLogFromRow(row), true, nil
}

func (r *SyncJobRepository) ListRecent(ctx context.Context, filter syncjob.ListFilter) ([]syncjob.Log, error) {
	conditions := make([]qb.Condition, 0, 1)
	if filter.Status != nil {
		conditions = append(conditions, qb.Eq("status", string(*filter.Status)))
	}

	query, args, err := qb.Select("*").From("sync_job_logs").
		Where(conditions...).
		OrderBy("created_at DESC", "id DESC").
		Limit(filter.Limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list sync job logs query: %w", err)
	}

	var rows []syncJobLogTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sync job logs: %w", err)
	}

	out := make([]syncjob.Log, 0, len(rows))
	for _, row := range rows {
		out = append(out, syncJobLogFromRow(row))
	}
	return out, nil
}

func syncJobLogFromRow(row syncJobLogTableModel) syncjob.Log {
	return syncjob.Log{
		ID:                 row.ID,
		JobType:            syncjob.Type(row.JobType),
		ExternalJobID:      row.ExternalJobID,
		Attempt:            row.Attempt,
		TournamentCode:     row.TournamentCode,
		EventCode:          row.EventCode,
		DrawCode:           row.DrawCode,
		Status:             syncjob.Status(row.Status),
		StartedAt:          row.StartedAt.UTC(),
		CompletedAt:        timePtr(row.CompletedAt),
		ProcessingDuration: time.Duration(row.ProcessingMS) * time.Millisecond,
		ItemsProcessed:     row.ItemsProcessed,
		ErrorMessage:       row.ErrorMessage,
		ErrorStack:         row.ErrorStack,
		Input:              jsonBytes(row.Input),
		Result:             jsonBytes(row.Result),
		CreatedAt:          row.CreatedAt.UTC(),
	}
}
