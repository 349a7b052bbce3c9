package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/tournament-sync/internal/domain/teamreview"
	"github.com/riskibarqy/tournament-sync/internal/domain/tournamentteam"
)

type TeamReviewRepository struct {
	store *Store
}

func NewTeamReviewRepository(store *Store) *TeamReviewRepository {
	return &TeamReviewRepository{store: store}
}

func (r *TeamReviewRepository) Create(_ context.Context, item teamreview.Review) error {
	if strings.TrimSpace(item.ID) == "" {
		return fmt.Errorf("review id is required")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.reviews[item.ID]; ok {
		return fmt.Errorf("review %s already exists", item.ID)
	}
	if item.Status == teamreview.StatusPendingReview {
		if _, ok := r.pendingLocked(item.TournamentCode, item.ExternalCode); ok {
			return teamreview.ErrPendingExists
		}
	}

	r.store.reviews[item.ID] = cloneReview(item)
	r.store.reviewOrder = append(r.store.reviewOrder, item.ID)
	return nil
}

func (r *TeamReviewRepository) GetByID(_ context.Context, id string) (teamreview.Review, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.reviews[strings.TrimSpace(id)]
	if !ok {
		return teamreview.Review{}, false, nil
	}
	return cloneReview(item), true, nil
}

func (r *TeamReviewRepository) FindPending(_ context.Context, tournamentCode, externalCode string) (teamreview.Review, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.pendingLocked(tournamentCode, externalCode)
	if !ok {
		return teamreview.Review{}, false, nil
	}
	return cloneReview(item), true, nil
}

func (r *TeamReviewRepository) pendingLocked(tournamentCode, externalCode string) (teamreview.Review, bool) {
	for _, id := range r.store.reviewOrder {
		item := r.store.reviews[id]
		if item.Status == teamreview.StatusPendingReview &&
			item.TournamentCode == tournamentCode &&
			item.ExternalCode == externalCode {
			return item, true
		}
	}
	return teamreview.Review{}, false
}

func (r *TeamReviewRepository) ListPending(_ context.Context, filter teamreview.ListFilter) ([]teamreview.Review, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]teamreview.Review, 0)
	for _, id := range r.store.reviewOrder {
		item := r.store.reviews[id]
		if item.Status != teamreview.StatusPendingReview {
			continue
		}
		if filter.TournamentCode != "" && item.TournamentCode != filter.TournamentCode {
			continue
		}
		out = append(out, cloneReview(item))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *TeamReviewRepository) Resolve(_ context.Context, cmd teamreview.ResolveCommand) (teamreview.Review, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	review, ok := r.store.reviews[cmd.ReviewID]
	if !ok {
		return teamreview.Review{}, fmt.Errorf("review %s not found", cmd.ReviewID)
	}
	if review.Status.IsTerminal() {
		return teamreview.Review{}, teamreview.ErrAlreadyResolved
	}

	key := tournamentteam.Key{TournamentCode: review.TournamentCode, ExternalCode: review.ExternalCode}
	row, ok := r.store.tournamentTeams[key]
	if !ok {
		return teamreview.Review{}, fmt.Errorf("tournament team %s/%s not found", key.TournamentCode, key.ExternalCode)
	}
	if cmd.NewTeam != nil {
		if err := cmd.NewTeam.Validate(); err != nil {
			return teamreview.Review{}, err
		}
		if err := r.store.insertTeamLocked(*cmd.NewTeam); err != nil {
			return teamreview.Review{}, err
		}
	}

	resolvedAt := cmd.ResolvedAt
	row.MatchType = tournamentteam.MatchTypeManual
	row.MatchScore = cmd.MatchScore
	row.MatchedAt = &resolvedAt
	row.UpdatedAt = resolvedAt
	row.MatchedTeamID = nil
	row.IsMatched = false
	if cmd.TeamID != nil {
		teamID := *cmd.TeamID
		row.MatchedTeamID = &teamID
		row.IsMatched = true
	}
	r.store.tournamentTeams[key] = row

	review.Status = teamreview.StatusResolved
	review.Resolution = cmd.Resolution
	review.ResolvedBy = cmd.ResolvedBy
	review.ResolvedAt = &resolvedAt
	review.Notes = cmd.Notes
	review.ResolvedTeamID = nil
	if cmd.TeamID != nil {
		teamID := *cmd.TeamID
		review.ResolvedTeamID = &teamID
	}
	r.store.reviews[review.ID] = review

	return cloneReview(review), nil
}

func cloneReview(item teamreview.Review) teamreview.Review {
	if item.Suggestions != nil {
		item.Suggestions = append([]teamreview.Suggestion(nil), item.Suggestions...)
	}
	if item.RawPayload != nil {
		item.RawPayload = append([]byte(nil), item.RawPayload...)
	}
	return item
}
