package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/tournament-sync/internal/domain/team"
	"github.com/riskibarqy/tournament-sync/internal/domain/teammatch"
)

type TeamRepository struct {
	store *Store
}

func NewTeamRepository(store *Store, seed []team.Team) *TeamRepository {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, item := range seed {
		if _, ok := store.teams[item.ID]; ok {
			continue
		}
		store.teams[item.ID] = item
		store.teamOrder = append(store.teamOrder, item.ID)
	}

	return &TeamRepository{store: store}
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.teams[strings.TrimSpace(teamID)]
	return item, ok, nil
}

func (r *TeamRepository) ListCandidates(_ context.Context, query team.CandidateQuery) ([]team.Team, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	club := teammatch.Normalize(query.ClubName)
	out := make([]team.Team, 0)
	for _, id := range r.store.teamOrder {
		item, ok := r.store.teams[id]
		if !ok {
			continue
		}
		if query.Season > 0 && item.Season != query.Season {
			continue
		}
		if club != "" && teammatch.Normalize(item.ClubName) != club {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) error {
	if err := item.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.insertTeamLocked(item)
}

// Delete removes an internal team. Tournament team rows that pointed at it
// survive with their match cleared, so the next sync reconciles them again.
func (r *TeamRepository) Delete(_ context.Context, teamID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.teams[teamID]; !ok {
		return nil
	}
	delete(r.store.teams, teamID)
	for idx, id := range r.store.teamOrder {
		if id == teamID {
			r.store.teamOrder = append(r.store.teamOrder[:idx], r.store.teamOrder[idx+1:]...)
			break
		}
	}
	for key, row := range r.store.tournamentTeams {
		if row.MatchedTeamID != nil && *row.MatchedTeamID == teamID {
			row.ClearMatch()
			r.store.tournamentTeams[key] = row
		}
	}

	return nil
}

func (s *Store) insertTeamLocked(item team.Team) error {
	if _, ok := s.teams[item.ID]; ok {
		return fmt.Errorf("team %s already exists", item.ID)
	}
	s.teams[item.ID] = item
	s.teamOrder = append(s.teamOrder, item.ID)
	return nil
}
