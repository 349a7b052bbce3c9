package cache

import (
	"context"
	"strconv"
	"strings"

	"github.com/riskibarqy/tournament-sync/internal/domain/team"
	basecache "github.com/riskibarqy/tournament-sync/internal/platform/cache"
)

const teamKeyPrefix = "team:"

// TeamRepository caches candidate lookups in front of another team
// repository. Reconciling one tournament asks for the same club's
// candidates once per registered team, so the hit rate is high.
type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

var _ team.Repository = (*TeamRepository)(nil)

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	type result struct {
		item  team.Team
		found bool
	}

	v, err := r.cache.GetOrLoad(ctx, teamKeyPrefix+"id:"+teamID, func(ctx context.Context) (any, error) {
		item, found, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return result{item: item, found: found}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}
	out := v.(result)
	return out.item, out.found, nil
}

func (r *TeamRepository) ListCandidates(ctx context.Context, query team.CandidateQuery) ([]team.Team, error) {
	key := teamKeyPrefix + "candidates:" + strconv.Itoa(query.Season) + ":" + strings.ToLower(strings.TrimSpace(query.ClubName))
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListCandidates(ctx, query)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]team.Team(nil), v.([]team.Team)...), nil
}

// Create writes through and drops every cached team lookup, since a new team
// can join any candidate list.
func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.Invalidate(ctx)
	return nil
}

// Invalidate drops every cached team lookup. Callers that insert teams
// without going through Create, such as a review resolution transaction,
// use it once the write has committed.
func (r *TeamRepository) Invalidate(ctx context.Context) {
	r.cache.DeletePrefix(ctx, teamKeyPrefix)
}
