package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/tournament-sync/internal/domain/syncjob"
)

type SyncJobRepository struct {
	store *Store
}

func NewSyncJobRepository(store *Store) *SyncJobRepository {
	return &SyncJobRepository{store: store}
}

func (r *SyncJobRepository) Create(_ context.Context, item syncjob.Log) error {
	if strings.TrimSpace(item.ID) == "" {
		return fmt.Errorf("job log id is required")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.jobLogs[item.ID]; ok {
		return fmt.Errorf("job log %s already exists", item.ID)
	}
	r.store.jobLogs[item.ID] = item
	r.store.jobOrder = append(r.store.jobOrder, item.ID)
	return nil
}

func (r *SyncJobRepository) Update(_ context.Context, item syncjob.Log) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.jobLogs[item.ID]
	if !ok {
		return fmt.Errorf("job log %s not found", item.ID)
	}
	if !syncjob.CanTransition(existing.Status, item.Status) {
		return fmt.Errorf("%w: %s -> %s", syncjob.ErrInvalidTransition, existing.Status, item.Status)
	}

	item.CreatedAt = existing.CreatedAt
	r.store.jobLogs[item.ID] = item
	return nil
}

func (r *SyncJobRepository) GetByID(_ context.Context, id string) (syncjob.Log, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.jobLogs[strings.TrimSpace(id)]
	return item, ok, nil
}

func (r *SyncJobRepository) ListRecent(_ context.Context, filter syncjob.ListFilter) ([]syncjob.Log, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]syncjob.Log, 0)
	for idx := len(r.store.jobOrder) - 1; idx >= 0; idx-- {
		item := r.store.jobLogs[r.store.jobOrder[idx]]
		if filter.Status != nil && item.Status != *filter.Status {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}
