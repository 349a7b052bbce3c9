package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/riskibarqy/tournament-sync/internal/domain/tournamentteam"
)

type TournamentTeamRepository struct {
	store *Store
}

func NewTournamentTeamRepository(store *Store) *TournamentTeamRepository {
	return &TournamentTeamRepository{store: store}
}

func (r *TournamentTeamRepository) Get(_ context.Context, key tournamentteam.Key) (tournamentteam.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.tournamentTeams[key]
	return item, ok, nil
}

func (r *TournamentTeamRepository) Upsert(_ context.Context, item tournamentteam.Team) (tournamentteam.Team, error) {
	key := item.Key()
	if strings.TrimSpace(key.TournamentCode) == "" || strings.TrimSpace(key.ExternalCode) == "" {
		return tournamentteam.Team{}, fmt.Errorf("tournament code and external code are required")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if existing, ok := r.store.tournamentTeams[key]; ok {
		item.ID = existing.ID
		item.CreatedAt = existing.CreatedAt
	} else if strings.TrimSpace(item.ID) == "" {
		item.ID = uuid.NewString()
	}

	r.store.tournamentTeams[key] = item
	return item, nil
}

func (r *TournamentTeamRepository) ListByMatchType(_ context.Context, tournamentCode string, matchType tournamentteam.MatchType) ([]tournamentteam.Team, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]tournamentteam.Team, 0)
	for key, item := range r.store.tournamentTeams {
		if key.TournamentCode == tournamentCode && item.MatchType == matchType {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ExternalName != out[j].ExternalName {
			return out[i].ExternalName < out[j].ExternalName
		}
		return out[i].ExternalCode < out[j].ExternalCode
	})
	return out, nil
}
