package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/riskibarqy/tournament-sync/internal/domain/competition"
)

type CompetitionRepository struct {
	store *Store
}

func NewCompetitionRepository(store *Store) *CompetitionRepository {
	return &CompetitionRepository{store: store}
}

func (r *CompetitionRepository) GetEventByID(_ context.Context, id string) (competition.Event, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.events[strings.TrimSpace(id)]
	return item, ok, nil
}

func (r *CompetitionRepository) GetEventByVisualCode(_ context.Context, code string) (competition.Event, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.eventByCodeLocked(strings.TrimSpace(code))
	return item, ok, nil
}

func (r *CompetitionRepository) eventByCodeLocked(code string) (competition.Event, bool) {
	for _, item := range r.store.events {
		if item.VisualCode == code {
			return item, true
		}
	}
	return competition.Event{}, false
}

func (r *CompetitionRepository) UpsertEvent(_ context.Context, item competition.Event) (competition.Event, error) {
	item.VisualCode = strings.TrimSpace(item.VisualCode)
	if item.VisualCode == "" {
		return competition.Event{}, fmt.Errorf("event visual code is required")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if existing, ok := r.eventByCodeLocked(item.VisualCode); ok {
		item.ID = existing.ID
		item.CreatedAt = existing.CreatedAt
		item.LastSync = laterOf(existing.LastSync, item.LastSync)
	} else if strings.TrimSpace(item.ID) == "" {
		item.ID = uuid.NewString()
	}

	r.store.events[item.ID] = item
	return item, nil
}

func (r *CompetitionRepository) GetSubEvent(_ context.Context, eventID, code string) (competition.SubEvent, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.subEventLocked(eventID, strings.TrimSpace(code))
	return item, ok, nil
}

func (r *CompetitionRepository) subEventLocked(eventID, code string) (competition.SubEvent, bool) {
	for _, item := range r.store.subEvents {
		if item.EventID == eventID && item.VisualCode == code {
			return item, true
		}
	}
	return competition.SubEvent{}, false
}

func (r *CompetitionRepository) ListSubEvents(_ context.Context, eventID string) ([]competition.SubEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]competition.SubEvent, 0)
	for _, item := range r.store.subEvents {
		if item.EventID == eventID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VisualCode < out[j].VisualCode })
	return out, nil
}

func (r *CompetitionRepository) UpsertSubEvent(_ context.Context, item competition.SubEvent) (competition.SubEvent, error) {
	item.VisualCode = strings.TrimSpace(item.VisualCode)
	if item.VisualCode == "" {
		return competition.SubEvent{}, fmt.Errorf("sub-event visual code is required")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.events[item.EventID]; !ok {
		return competition.SubEvent{}, fmt.Errorf("event %s not found", item.EventID)
	}
	if existing, ok := r.subEventLocked(item.EventID, item.VisualCode); ok {
		item.ID = existing.ID
		item.LastSync = laterOf(existing.LastSync, item.LastSync)
	} else if strings.TrimSpace(item.ID) == "" {
		item.ID = uuid.NewString()
	}

	r.store.subEvents[item.ID] = item
	return item, nil
}

func (r *CompetitionRepository) GetDraw(_ context.Context, subEventID, code string) (competition.Draw, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.drawLocked(subEventID, strings.TrimSpace(code))
	return item, ok, nil
}

func (r *CompetitionRepository) drawLocked(subEventID, code string) (competition.Draw, bool) {
	for _, item := range r.store.draws {
		if item.SubEventID == subEventID && item.VisualCode == code {
			return item, true
		}
	}
	return competition.Draw{}, false
}

func (r *CompetitionRepository) ListDrawsByCode(_ context.Context, eventID, code string) ([]competition.Draw, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	code = strings.TrimSpace(code)
	out := make([]competition.Draw, 0, 1)
	for _, item := range r.store.draws {
		if item.VisualCode != code {
			continue
		}
		if subEvent, ok := r.store.subEvents[item.SubEventID]; ok && subEvent.EventID == eventID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CompetitionRepository) UpsertDraw(_ context.Context, item competition.Draw) (competition.Draw, error) {
	item.VisualCode = strings.TrimSpace(item.VisualCode)
	if item.VisualCode == "" {
		return competition.Draw{}, fmt.Errorf("draw visual code is required")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.subEvents[item.SubEventID]; !ok {
		return competition.Draw{}, fmt.Errorf("sub-event %s not found", item.SubEventID)
	}
	if existing, ok := r.drawLocked(item.SubEventID, item.VisualCode); ok {
		item.ID = existing.ID
		item.LastSync = laterOf(existing.LastSync, item.LastSync)
	} else if strings.TrimSpace(item.ID) == "" {
		item.ID = uuid.NewString()
	}

	r.store.draws[item.ID] = item
	return item, nil
}

func (r *CompetitionRepository) AdvanceWatermarks(_ context.Context, marks competition.Watermarks) error {
	if marks.Empty() {
		return nil
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, id := range marks.EventIDs {
		if _, ok := r.store.events[id]; !ok {
			return fmt.Errorf("event %s not found", id)
		}
	}
	for _, id := range marks.SubEventIDs {
		if _, ok := r.store.subEvents[id]; !ok {
			return fmt.Errorf("sub-event %s not found", id)
		}
	}
	for _, id := range marks.DrawIDs {
		if _, ok := r.store.draws[id]; !ok {
			return fmt.Errorf("draw %s not found", id)
		}
	}

	at := marks.At
	for _, id := range marks.EventIDs {
		item := r.store.events[id]
		item.LastSync = laterOf(item.LastSync, &at)
		r.store.events[id] = item
	}
	for _, id := range marks.SubEventIDs {
		item := r.store.subEvents[id]
		item.LastSync = laterOf(item.LastSync, &at)
		r.store.subEvents[id] = item
	}
	for _, id := range marks.DrawIDs {
		item := r.store.draws[id]
		item.LastSync = laterOf(item.LastSync, &at)
		r.store.draws[id] = item
	}

	return nil
}
