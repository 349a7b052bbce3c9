package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/tournament-sync/internal/domain/team"
	"github.com/riskibarqy/tournament-sync/internal/domain/teammatch"
	"github.com/riskibarqy/tournament-sync/internal/domain/teamreview"
	"github.com/riskibarqy/tournament-sync/internal/domain/tournamentteam"
	"github.com/riskibarqy/tournament-sync/internal/platform/logging"
)

const defaultSuggestionLimit = 5

type TeamReconciliationConfig struct {
	Thresholds      teammatch.Thresholds
	SuggestionLimit int
}

type ReconcileInput struct {
	TournamentCode string
	EventCode      string
	Team           ExternalTeam
}

type ReconcileResult struct {
	Row           tournamentteam.Team
	Tier          teammatch.Tier
	ReviewID      string
	ReviewCreated bool
	// Preserved is set when a manual decision was kept as is.
	Preserved bool
}

type ReviewDecision struct {
	Resolution teamreview.Resolution
	TeamID     string
	ResolvedBy string
	Notes      string
}

// teamLookupInvalidator is implemented by team repositories that cache
// lookups. A review resolution inserts its new team inside the review
// transaction, so the cached candidate lists are dropped afterwards.
type teamLookupInvalidator interface {
	Invalidate(ctx context.Context)
}

type TeamReconciliationService struct {
	rowRepo    tournamentteam.Repository
	reviewRepo teamreview.Repository
	teamRepo   team.Repository
	cfg        TeamReconciliationConfig
	logger     *logging.Logger
	clock      clockwork.Clock
}

func NewTeamReconciliationService(
	rowRepo tournamentteam.Repository,
	reviewRepo teamreview.Repository,
	teamRepo team.Repository,
	cfg TeamReconciliationConfig,
	logger *logging.Logger,
) *TeamReconciliationService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Thresholds.Validate() != nil {
		cfg.Thresholds = teammatch.DefaultThresholds()
	}
	if cfg.SuggestionLimit <= 0 {
		cfg.SuggestionLimit = defaultSuggestionLimit
	}

	return &TeamReconciliationService{
		rowRepo:    rowRepo,
		reviewRepo: reviewRepo,
		teamRepo:   teamRepo,
		cfg:        cfg,
		logger:     logger,
		clock:      clockwork.NewRealClock(),
	}
}

// Reconcile records one external team and matches it against candidates.
// A row a human already decided keeps its match and only refreshes the
// external attributes, unless the team it was matched to is gone.
func (s *TeamReconciliationService) Reconcile(ctx context.Context, input ReconcileInput, candidates []team.Team) (ReconcileResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamReconciliationService.Reconcile")
	defer span.End()

	input.TournamentCode = strings.TrimSpace(input.TournamentCode)
	input.Team.Code = strings.TrimSpace(input.Team.Code)
	if input.TournamentCode == "" {
		return ReconcileResult{}, fmt.Errorf("%w: tournament code is required", ErrInvalidInput)
	}
	if input.Team.Code == "" {
		return ReconcileResult{}, fmt.Errorf("%w: external team code is required", ErrInvalidInput)
	}

	key := tournamentteam.Key{TournamentCode: input.TournamentCode, ExternalCode: input.Team.Code}
	existing, found, err := s.rowRepo.Get(ctx, key)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("get tournament team tournament=%s team=%s: %w", key.TournamentCode, key.ExternalCode, err)
	}

	now := s.clock.Now().UTC()
	row := s.rowFromExternal(input, now)
	if found {
		row.ID = existing.ID
		row.CreatedAt = existing.CreatedAt
	}

	if found && existing.HoldsManualDecision() {
		row.MatchedTeamID = existing.MatchedTeamID
		row.MatchScore = existing.MatchScore
		row.MatchType = existing.MatchType
		row.MatchedAt = existing.MatchedAt
		row.IsMatched = existing.IsMatched

		stored, err := s.rowRepo.Upsert(ctx, row)
		if err != nil {
			return ReconcileResult{}, fmt.Errorf("refresh manual tournament team team=%s: %w", key.ExternalCode, err)
		}
		return ReconcileResult{Row: stored, Tier: teammatch.TierNone, Preserved: true}, nil
	}

	subject := teammatch.Subject{
		Name:       input.Team.Name,
		ClubName:   input.Team.ClubName,
		Gender:     input.Team.Gender,
		TeamNumber: input.Team.TeamNumber,
	}
	ranked := teammatch.Rank(subject, toMatchCandidates(candidates))

	tier := teammatch.TierNone
	if len(ranked) > 0 {
		best := ranked[0]
		tier = s.cfg.Thresholds.TierOf(best)
		row.MatchScore = best.Score
		if tier != teammatch.TierNone {
			teamID := best.TeamID
			row.MatchedTeamID = &teamID
			row.MatchType = matchTypeForTier(tier)
			row.IsMatched = true
			row.MatchedAt = &now
			if found && existing.MatchedAt != nil && existing.MatchType == row.MatchType &&
				existing.MatchedTeamID != nil && *existing.MatchedTeamID == teamID {
				row.MatchedAt = existing.MatchedAt
			}
		}
	}

	stored, err := s.rowRepo.Upsert(ctx, row)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("upsert tournament team team=%s: %w", key.ExternalCode, err)
	}

	result := ReconcileResult{Row: stored, Tier: tier}
	if tier != teammatch.TierNone {
		return result, nil
	}

	review, created, err := s.ensurePendingReview(ctx, input, ranked, now)
	if err != nil {
		return ReconcileResult{}, err
	}
	result.ReviewID = review.ID
	result.ReviewCreated = created

	return result, nil
}

func (s *TeamReconciliationService) rowFromExternal(input ReconcileInput, now time.Time) tournamentteam.Team {
	number := input.Team.TeamNumber
	if number == nil {
		number = teammatch.ParseTeamNumber(input.Team.Name)
	}

	return tournamentteam.Team{
		ID:             uuid.NewString(),
		TournamentCode: input.TournamentCode,
		EventCode:      strings.TrimSpace(input.EventCode),
		ExternalCode:   input.Team.Code,
		ExternalName:   strings.TrimSpace(input.Team.Name),
		NormalizedName: teammatch.Normalize(input.Team.Name),
		ClubName:       strings.TrimSpace(input.Team.ClubName),
		TeamNumber:     number,
		Gender:         teammatch.NormalizeGender(input.Team.Gender),
		Strength:       input.Team.Strength,
		Country:        strings.TrimSpace(input.Team.Country),
		MatchType:      tournamentteam.MatchTypeNone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (s *TeamReconciliationService) ensurePendingReview(
	ctx context.Context,
	input ReconcileInput,
	ranked []teammatch.Match,
	now time.Time,
) (teamreview.Review, bool, error) {
	pending, found, err := s.reviewRepo.FindPending(ctx, input.TournamentCode, input.Team.Code)
	if err != nil {
		return teamreview.Review{}, false, fmt.Errorf("find pending review team=%s: %w", input.Team.Code, err)
	}
	if found {
		return pending, false, nil
	}

	raw, err := sonic.Marshal(input.Team)
	if err != nil {
		return teamreview.Review{}, false, fmt.Errorf("encode review payload team=%s: %w", input.Team.Code, err)
	}

	top := teammatch.Top(ranked, s.cfg.SuggestionLimit)
	suggestions := make([]teamreview.Suggestion, 0, len(top))
	for _, match := range top {
		suggestions = append(suggestions, teamreview.Suggestion{TeamID: match.TeamID, Score: match.Score})
	}

	message := "no compatible candidate found"
	switch {
	case len(ranked) == 0:
	case ranked[0].Conflict:
		message = fmt.Sprintf("best candidate %s carries a different team designator", ranked[0].TeamID)
	default:
		message = fmt.Sprintf("best candidate score %.3f is below %.2f", ranked[0].Score, s.cfg.Thresholds.Mid)
	}

	review := teamreview.Review{
		ID:             uuid.NewString(),
		TournamentCode: input.TournamentCode,
		EventCode:      strings.TrimSpace(input.EventCode),
		ExternalCode:   input.Team.Code,
		ExternalName:   strings.TrimSpace(input.Team.Name),
		RawPayload:     raw,
		Suggestions:    suggestions,
		ErrorMessage:   message,
		Status:         teamreview.StatusPendingReview,
		CreatedAt:      now,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if crerr.Is(err, teamreview.ErrPendingExists) {
			pending, found, getErr := s.reviewRepo.FindPending(ctx, input.TournamentCode, input.Team.Code)
			if getErr == nil && found {
				return pending, false, nil
			}
		}
		return teamreview.Review{}, false, fmt.Errorf("create review team=%s: %w", input.Team.Code, err)
	}

	s.logger.InfoContext(ctx, "team review created",
		"tournament_code", review.TournamentCode,
		"external_code", review.ExternalCode,
		"suggestions", len(suggestions),
	)
	return review, true, nil
}

// ResolveReview applies a human decision to a pending review. The review and
// the tournament team row change together or not at all.
func (s *TeamReconciliationService) ResolveReview(ctx context.Context, reviewID string, decision ReviewDecision) (teamreview.Review, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamReconciliationService.ResolveReview")
	defer span.End()

	reviewID = strings.TrimSpace(reviewID)
	decision.ResolvedBy = strings.TrimSpace(decision.ResolvedBy)
	decision.TeamID = strings.TrimSpace(decision.TeamID)
	if reviewID == "" {
		return teamreview.Review{}, fmt.Errorf("%w: review id is required", ErrInvalidInput)
	}
	if !decision.Resolution.Valid() {
		return teamreview.Review{}, fmt.Errorf("%w: unknown resolution %q", ErrInvalidInput, decision.Resolution)
	}
	if decision.ResolvedBy == "" {
		return teamreview.Review{}, fmt.Errorf("%w: resolved_by is required", ErrInvalidInput)
	}

	review, found, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return teamreview.Review{}, fmt.Errorf("get review id=%s: %w", reviewID, err)
	}
	if !found {
		return teamreview.Review{}, fmt.Errorf("%w: review=%s", ErrNotFound, reviewID)
	}
	if review.Status.IsTerminal() {
		return teamreview.Review{}, fmt.Errorf("%w: review=%s status=%s", ErrReviewAlreadyResolved, reviewID, review.Status)
	}

	var external ExternalTeam
	if len(review.RawPayload) > 0 {
		if err := sonic.Unmarshal(review.RawPayload, &external); err != nil {
			return teamreview.Review{}, fmt.Errorf("decode review payload id=%s: %w", reviewID, err)
		}
	}
	if strings.TrimSpace(external.Name) == "" {
		external.Name = review.ExternalName
	}

	cmd := teamreview.ResolveCommand{
		ReviewID:   review.ID,
		Resolution: decision.Resolution,
		ResolvedBy: decision.ResolvedBy,
		Notes:      strings.TrimSpace(decision.Notes),
		ResolvedAt: s.clock.Now().UTC(),
	}

	switch decision.Resolution {
	case teamreview.ResolutionMatchedToExisting:
		if decision.TeamID == "" {
			return teamreview.Review{}, fmt.Errorf("%w: team_id is required for %s", ErrInvalidInput, decision.Resolution)
		}
		target, found, err := s.teamRepo.GetByID(ctx, decision.TeamID)
		if err != nil {
			return teamreview.Review{}, fmt.Errorf("get team id=%s: %w", decision.TeamID, err)
		}
		if !found {
			return teamreview.Review{}, fmt.Errorf("%w: team=%s", ErrNotFound, decision.TeamID)
		}
		if !teammatch.GenderCompatible(external.Gender, target.Gender) {
			return teamreview.Review{}, fmt.Errorf("%w: external=%s internal=%s", ErrCategoryMismatch,
				teammatch.NormalizeGender(external.Gender), teammatch.NormalizeGender(target.Gender))
		}

		cmd.TeamID = &target.ID
		cmd.MatchScore = manualScore(external, target)
	case teamreview.ResolutionCreatedNewTeam:
		newTeam := s.teamFromExternal(external, cmd.ResolvedAt)
		if err := newTeam.Validate(); err != nil {
			return teamreview.Review{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		cmd.NewTeam = &newTeam
		cmd.TeamID = &newTeam.ID
		cmd.MatchScore = 1
	case teamreview.ResolutionIgnored:
	}

	resolved, err := s.reviewRepo.Resolve(ctx, cmd)
	if err != nil {
		if crerr.Is(err, teamreview.ErrAlreadyResolved) {
			return teamreview.Review{}, fmt.Errorf("%w: review=%s", ErrReviewAlreadyResolved, reviewID)
		}
		return teamreview.Review{}, fmt.Errorf("resolve review id=%s: %w", reviewID, err)
	}
	if cmd.NewTeam != nil {
		if inv, ok := s.teamRepo.(teamLookupInvalidator); ok {
			inv.Invalidate(ctx)
		}
	}

	s.logger.InfoContext(ctx, "team review resolved",
		"review_id", resolved.ID,
		"resolution", string(resolved.Resolution),
		"resolved_by", resolved.ResolvedBy,
	)
	return resolved, nil
}

func (s *TeamReconciliationService) teamFromExternal(external ExternalTeam, now time.Time) team.Team {
	number := external.TeamNumber
	if number == nil {
		number = teammatch.ParseTeamNumber(external.Name)
	}

	return team.Team{
		ID:         uuid.NewString(),
		ClubName:   strings.TrimSpace(external.ClubName),
		Name:       strings.TrimSpace(external.Name),
		TeamNumber: number,
		Gender:     teammatch.NormalizeGender(external.Gender),
		Season:     external.Season,
		CreatedAt:  now,
	}
}

func (s *TeamReconciliationService) ListPendingReviews(ctx context.Context, filter teamreview.ListFilter) ([]teamreview.Review, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamReconciliationService.ListPendingReviews")
	defer span.End()

	filter.TournamentCode = strings.TrimSpace(filter.TournamentCode)
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}

	items, err := s.reviewRepo.ListPending(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list pending reviews: %w", err)
	}
	return items, nil
}

func (s *TeamReconciliationService) GetReview(ctx context.Context, reviewID string) (teamreview.Review, error) {
	reviewID = strings.TrimSpace(reviewID)
	if reviewID == "" {
		return teamreview.Review{}, fmt.Errorf("%w: review id is required", ErrInvalidInput)
	}

	review, found, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return teamreview.Review{}, fmt.Errorf("get review id=%s: %w", reviewID, err)
	}
	if !found {
		return teamreview.Review{}, fmt.Errorf("%w: review=%s", ErrNotFound, reviewID)
	}
	return review, nil
}

// ListMediumConfidenceMatches returns automatic matches that deserve a
// second look without blocking anything.
func (s *TeamReconciliationService) ListMediumConfidenceMatches(ctx context.Context, tournamentCode string) ([]tournamentteam.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamReconciliationService.ListMediumConfidenceMatches")
	defer span.End()

	tournamentCode = strings.TrimSpace(tournamentCode)
	if tournamentCode == "" {
		return nil, fmt.Errorf("%w: tournament code is required", ErrInvalidInput)
	}

	items, err := s.rowRepo.ListByMatchType(ctx, tournamentCode, tournamentteam.MatchTypeAutomaticMedium)
	if err != nil {
		return nil, fmt.Errorf("list medium confidence matches tournament=%s: %w", tournamentCode, err)
	}
	return items, nil
}

func toMatchCandidates(items []team.Team) []teammatch.Candidate {
	out := make([]teammatch.Candidate, 0, len(items))
	for _, item := range items {
		out = append(out, teammatch.Candidate{
			TeamID:     item.ID,
			Name:       item.Name,
			ClubName:   item.ClubName,
			Gender:     item.Gender,
			TeamNumber: item.TeamNumber,
		})
	}
	return out
}

func matchTypeForTier(tier teammatch.Tier) tournamentteam.MatchType {
	switch tier {
	case teammatch.TierHigh:
		return tournamentteam.MatchTypeAutomaticHigh
	case teammatch.TierMedium:
		return tournamentteam.MatchTypeAutomaticMedium
	default:
		return tournamentteam.MatchTypeNone
	}
}

func manualScore(external ExternalTeam, target team.Team) float64 {
	ranked := teammatch.Rank(teammatch.Subject{
		Name:       external.Name,
		ClubName:   external.ClubName,
		Gender:     external.Gender,
		TeamNumber: external.TeamNumber,
	}, toMatchCandidates([]team.Team{target}))
	if len(ranked) == 0 {
		return 0
	}
	return ranked[0].Score
}
