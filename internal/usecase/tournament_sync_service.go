package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/tournament-sync/internal/domain/competition"
	"github.com/riskibarqy/tournament-sync/internal/domain/team"
	"github.com/riskibarqy/tournament-sync/internal/domain/teammatch"
	"github.com/riskibarqy/tournament-sync/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

// ProgressFunc reports advisory completion of the running job in percent.
type ProgressFunc func(percent int)

func (f ProgressFunc) report(percent int) {
	if f != nil {
		f(percent)
	}
}

type TournamentSyncConfig struct {
	DiscoveryLookback    time.Duration
	DiscoveryConcurrency int
}

// TournamentSyncService runs the per-type sync processors. It is the job
// processor the orchestrator dispatches to.
type TournamentSyncService struct {
	source          TournamentSource
	competitionRepo competition.Repository
	teamRepo        team.Repository
	reconciler      *TeamReconciliationService
	cfg             TournamentSyncConfig
	logger          *logging.Logger
	clock           clockwork.Clock
}

func NewTournamentSyncService(
	source TournamentSource,
	competitionRepo competition.Repository,
	teamRepo team.Repository,
	reconciler *TeamReconciliationService,
	cfg TournamentSyncConfig,
	logger *logging.Logger,
) *TournamentSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.DiscoveryLookback <= 0 {
		cfg.DiscoveryLookback = 24 * time.Hour
	}
	if cfg.DiscoveryConcurrency <= 0 {
		cfg.DiscoveryConcurrency = 4
	}

	return &TournamentSyncService{
		source:          source,
		competitionRepo: competitionRepo,
		teamRepo:        teamRepo,
		reconciler:      reconciler,
		cfg:             cfg,
		logger:          logger,
		clock:           clockwork.NewRealClock(),
	}
}

func (s *TournamentSyncService) Process(ctx context.Context, payload JobPayload, progress ProgressFunc) (JobResult, error) {
	switch p := payload.(type) {
	case DiscoveryPayload:
		return s.SyncDiscovery(ctx, p, progress)
	case CompetitionStructurePayload:
		return s.SyncStructure(ctx, competition.KindCompetition, p.TournamentCode, p.EventCode, progress)
	case TournamentStructurePayload:
		return s.SyncStructure(ctx, competition.KindTournament, p.TournamentCode, p.EventCode, progress)
	case StandingPayload:
		return s.SyncStanding(ctx, p, progress)
	default:
		return nil, fmt.Errorf("%w: unsupported payload %T", ErrInvalidInput, payload)
	}
}

// ResolveEvent looks an event up by id when ref is a uuid, by visual code otherwise.
func (s *TournamentSyncService) ResolveEvent(ctx context.Context, ref string) (competition.Event, bool, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return competition.Event{}, false, fmt.Errorf("%w: event reference is required", ErrInvalidInput)
	}

	if _, err := uuid.Parse(ref); err == nil {
		item, found, err := s.competitionRepo.GetEventByID(ctx, ref)
		if err != nil {
			return competition.Event{}, false, fmt.Errorf("get event id=%s: %w", ref, err)
		}
		return item, found, nil
	}

	item, found, err := s.competitionRepo.GetEventByVisualCode(ctx, ref)
	if err != nil {
		return competition.Event{}, false, fmt.Errorf("get event code=%s: %w", ref, err)
	}
	return item, found, nil
}

type discoveryOutcome struct {
	event    competition.Event
	created  bool
	followUp JobPayload
}

// SyncDiscovery upserts one tournament's event and, when the source changed
// since the last sync, emits the structure job for it. Without a tournament
// code it only lists recently changed tournaments and emits one discovery
// per code, so every write runs on that tournament's own lane.
func (s *TournamentSyncService) SyncDiscovery(ctx context.Context, payload DiscoveryPayload, progress ProgressFunc) (DiscoveryResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentSyncService.SyncDiscovery")
	defer span.End()

	code := strings.TrimSpace(payload.TournamentCode)
	if code == "" {
		return s.fanOutDiscovery(ctx, progress)
	}

	external, err := s.source.FetchTournament(ctx, code)
	if err != nil {
		return DiscoveryResult{}, fmt.Errorf("fetch tournament code=%s: %w", code, err)
	}
	progress.report(40)

	outcome, err := s.discoverOne(ctx, external)
	if err != nil {
		return DiscoveryResult{}, err
	}

	result := DiscoveryResult{Tournaments: 1, EventIDs: []string{outcome.event.ID}}
	if outcome.created {
		result.Created = 1
	}
	if outcome.followUp == nil {
		result.NotModified = 1
	} else {
		result.next = append(result.next, outcome.followUp)
	}

	progress.report(100)
	s.logger.InfoContext(ctx, "discovery completed",
		"tournament_code", code,
		"created", result.Created,
		"not_modified", result.NotModified,
	)
	return result, nil
}

func (s *TournamentSyncService) fanOutDiscovery(ctx context.Context, progress ProgressFunc) (DiscoveryResult, error) {
	since := s.clock.Now().UTC().Add(-s.cfg.DiscoveryLookback)
	listed, err := s.source.ListTournaments(ctx, since)
	if err != nil {
		return DiscoveryResult{}, fmt.Errorf("list tournaments since=%s: %w", since.Format(time.RFC3339), err)
	}
	progress.report(30)

	seen := make(map[string]struct{}, len(listed))
	externals := make([]ExternalTournament, 0, len(listed))
	for _, item := range listed {
		key := normalizeLaneKey(item.Code)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		externals = append(externals, item)
	}

	// Only reads happen here; the per-code discovery does the upsert.
	checks := pool.NewWithResults[JobPayload]().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(s.cfg.DiscoveryConcurrency)
	for _, external := range externals {
		checks.Go(func(ctx context.Context) (JobPayload, error) {
			code := strings.TrimSpace(external.Code)
			existing, found, err := s.competitionRepo.GetEventByVisualCode(ctx, code)
			if err != nil {
				return nil, fmt.Errorf("get event code=%s: %w", code, err)
			}
			if found && !existing.NeedsSync(external.LastUpdated) {
				return nil, nil
			}
			return DiscoveryPayload{TournamentCode: code}, nil
		})
	}
	planned, err := checks.Wait()
	if err != nil {
		return DiscoveryResult{}, err
	}

	result := DiscoveryResult{Tournaments: len(externals)}
	for _, next := range planned {
		if next == nil {
			result.NotModified++
			continue
		}
		result.next = append(result.next, next)
	}
	result.Queued = len(result.next)

	progress.report(100)
	s.logger.InfoContext(ctx, "discovery listing completed",
		"tournaments", result.Tournaments,
		"queued", result.Queued,
		"not_modified", result.NotModified,
	)
	return result, nil
}

func (s *TournamentSyncService) discoverOne(ctx context.Context, external ExternalTournament) (discoveryOutcome, error) {
	code := strings.TrimSpace(external.Code)
	if code == "" {
		return discoveryOutcome{}, fmt.Errorf("%w: external tournament without code", ErrInvalidInput)
	}
	kind := external.Kind
	if _, ok := competition.ParseKind(string(kind)); !ok {
		return discoveryOutcome{}, fmt.Errorf("%w: tournament=%s has unknown kind %q", ErrInvalidInput, code, kind)
	}

	existing, found, err := s.competitionRepo.GetEventByVisualCode(ctx, code)
	if err != nil {
		return discoveryOutcome{}, fmt.Errorf("get event code=%s: %w", code, err)
	}

	now := s.clock.Now().UTC()
	item := competition.Event{
		ID:                uuid.NewString(),
		VisualCode:        code,
		Name:              strings.TrimSpace(external.Name),
		Kind:              kind,
		Season:            external.Season,
		StartDate:         external.StartDate,
		EndDate:           external.EndDate,
		ExternalUpdatedAt: external.LastUpdated,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if found {
		item.ID = existing.ID
		item.LastSync = existing.LastSync
		item.CreatedAt = existing.CreatedAt
	}

	stored, err := s.competitionRepo.UpsertEvent(ctx, item)
	if err != nil {
		return discoveryOutcome{}, fmt.Errorf("upsert event code=%s: %w", code, err)
	}

	outcome := discoveryOutcome{event: stored, created: !found}
	if found && !existing.NeedsSync(external.LastUpdated) {
		return outcome, nil
	}

	switch kind {
	case competition.KindCompetition:
		outcome.followUp = CompetitionStructurePayload{TournamentCode: code}
	case competition.KindTournament:
		outcome.followUp = TournamentStructurePayload{TournamentCode: code}
	}
	return outcome, nil
}

// SyncStructure imports the sub-events and draws of one event. Competitions
// also reconcile their teams.
func (s *TournamentSyncService) SyncStructure(
	ctx context.Context,
	kind competition.Kind,
	tournamentCode string,
	eventCode string,
	progress ProgressFunc,
) (StructureResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentSyncService.SyncStructure")
	defer span.End()

	eventCode = strings.TrimSpace(eventCode)
	event, found, err := s.ResolveEvent(ctx, tournamentCode)
	if err != nil {
		return StructureResult{}, err
	}
	if !found {
		s.logger.WarnContext(ctx, "structure sync skipped, event not found locally",
			"tournament_code", tournamentCode,
			"kind", string(kind),
		)
		return StructureResult{Skipped: "event not found"}, nil
	}
	if event.Kind != kind {
		return StructureResult{}, fmt.Errorf("%w: event=%s is a %s, not a %s", ErrInvalidInput, event.VisualCode, event.Kind, kind)
	}
	progress.report(10)

	subEvents, err := s.source.FetchCompetitionStructure(ctx, event.VisualCode, eventCode)
	if err != nil {
		return StructureResult{}, fmt.Errorf("fetch structure tournament=%s event=%s: %w", event.VisualCode, eventCode, err)
	}
	if len(subEvents) == 0 {
		s.logger.InfoContext(ctx, "structure sync found no data",
			"tournament_code", event.VisualCode,
			"event_code", eventCode,
		)
		progress.report(100)
		return StructureResult{EventID: event.ID, NoData: true}, nil
	}
	progress.report(30)

	result := StructureResult{EventID: event.ID}
	marks := competition.Watermarks{}
	if eventCode == "" {
		marks.EventIDs = []string{event.ID}
	}

	for _, external := range subEvents {
		subEvent, err := s.competitionRepo.UpsertSubEvent(ctx, competition.SubEvent{
			ID:         uuid.NewString(),
			EventID:    event.ID,
			VisualCode: strings.TrimSpace(external.Code),
			Name:       strings.TrimSpace(external.Name),
			Gender:     teammatch.NormalizeGender(external.Gender),
			Level:      external.Level,
		})
		if err != nil {
			return StructureResult{}, fmt.Errorf("upsert sub-event event=%s code=%s: %w", event.VisualCode, external.Code, err)
		}
		result.SubEvents++
		marks.SubEventIDs = append(marks.SubEventIDs, subEvent.ID)

		for _, externalDraw := range external.Draws {
			draw, err := s.competitionRepo.UpsertDraw(ctx, competition.Draw{
				ID:         uuid.NewString(),
				SubEventID: subEvent.ID,
				VisualCode: strings.TrimSpace(externalDraw.Code),
				Name:       strings.TrimSpace(externalDraw.Name),
				Type:       strings.TrimSpace(externalDraw.Type),
				Size:       externalDraw.Size,
			})
			if err != nil {
				return StructureResult{}, fmt.Errorf("upsert draw sub_event=%s code=%s: %w", subEvent.VisualCode, externalDraw.Code, err)
			}
			result.Draws++
			marks.DrawIDs = append(marks.DrawIDs, draw.ID)
		}
	}
	progress.report(60)

	if kind == competition.KindCompetition {
		if err := s.reconcileTeams(ctx, event, eventCode, &result); err != nil {
			return StructureResult{}, err
		}
	}
	progress.report(90)

	marks.At = s.clock.Now().UTC()
	if err := s.competitionRepo.AdvanceWatermarks(ctx, marks); err != nil {
		return StructureResult{}, fmt.Errorf("advance watermarks event=%s: %w", event.VisualCode, err)
	}
	progress.report(100)

	s.logger.InfoContext(ctx, "structure sync completed",
		"tournament_code", event.VisualCode,
		"event_code", eventCode,
		"kind", string(kind),
		"sub_events", result.SubEvents,
		"draws", result.Draws,
		"teams", result.Teams,
		"reviews_created", result.ReviewsCreated,
	)
	return result, nil
}

func (s *TournamentSyncService) reconcileTeams(ctx context.Context, event competition.Event, eventCode string, result *StructureResult) error {
	externals, err := s.source.FetchTeams(ctx, event.VisualCode, eventCode)
	if err != nil {
		return fmt.Errorf("fetch teams tournament=%s event=%s: %w", event.VisualCode, eventCode, err)
	}

	byClub := make(map[string][]team.Team)
	for _, external := range externals {
		external.Season = event.Season
		candidates, err := s.candidatesFor(ctx, event.Season, external.ClubName, byClub)
		if err != nil {
			return err
		}

		teamEventCode := strings.TrimSpace(external.EventCode)
		if teamEventCode == "" {
			teamEventCode = eventCode
		}
		outcome, err := s.reconciler.Reconcile(ctx, ReconcileInput{
			TournamentCode: event.VisualCode,
			EventCode:      teamEventCode,
			Team:           external,
		}, candidates)
		if err != nil {
			return fmt.Errorf("reconcile team tournament=%s team=%s: %w", event.VisualCode, external.Code, err)
		}

		result.Teams++
		switch {
		case outcome.Preserved:
		case outcome.Tier == teammatch.TierHigh:
			result.HighMatches++
		case outcome.Tier == teammatch.TierMedium:
			result.MediumMatches++
		default:
			result.Unmatched++
			if outcome.ReviewCreated {
				result.ReviewsCreated++
			}
		}
	}

	return nil
}

// candidatesFor returns the same-club teams of the season, or the whole
// season when the club has none.
func (s *TournamentSyncService) candidatesFor(ctx context.Context, season int, clubName string, cache map[string][]team.Team) ([]team.Team, error) {
	key := teammatch.Normalize(clubName)
	if items, ok := cache[key]; ok {
		return items, nil
	}

	var (
		items []team.Team
		err   error
	)
	if key != "" {
		items, err = s.teamRepo.ListCandidates(ctx, team.CandidateQuery{Season: season, ClubName: clubName})
		if err != nil {
			return nil, fmt.Errorf("list candidates club=%s: %w", clubName, err)
		}
	}
	if len(items) == 0 {
		items, err = s.teamRepo.ListCandidates(ctx, team.CandidateQuery{Season: season})
		if err != nil {
			return nil, fmt.Errorf("list candidates season=%d: %w", season, err)
		}
	}

	cache[key] = items
	return items, nil
}

// SyncStanding confirms a draw locally and refreshes its watermark. It does
// not call the external source.
func (s *TournamentSyncService) SyncStanding(ctx context.Context, payload StandingPayload, progress ProgressFunc) (StandingResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentSyncService.SyncStanding")
	defer span.End()

	refs := payload.refs()
	event, found, err := s.ResolveEvent(ctx, refs.TournamentCode)
	if err != nil {
		return StandingResult{}, err
	}
	if !found {
		s.logger.WarnContext(ctx, "standing sync skipped, event not found locally", "tournament_code", refs.TournamentCode)
		return StandingResult{Skipped: "event not found"}, nil
	}
	progress.report(30)

	draw, found, err := s.resolveDraw(ctx, event, refs)
	if err != nil {
		return StandingResult{}, err
	}
	if !found {
		s.logger.WarnContext(ctx, "standing sync skipped, draw not found locally",
			"tournament_code", refs.TournamentCode,
			"event_code", refs.EventCode,
			"draw_code", refs.DrawCode,
		)
		return StandingResult{Skipped: "draw not found"}, nil
	}
	progress.report(70)

	marks := competition.Watermarks{DrawIDs: []string{draw.ID}, At: s.clock.Now().UTC()}
	if err := s.competitionRepo.AdvanceWatermarks(ctx, marks); err != nil {
		return StandingResult{}, fmt.Errorf("advance draw watermark draw=%s: %w", draw.ID, err)
	}
	progress.report(100)

	return StandingResult{DrawID: draw.ID}, nil
}

func (s *TournamentSyncService) resolveDraw(ctx context.Context, event competition.Event, refs jobRefs) (competition.Draw, bool, error) {
	if refs.EventCode != "" {
		subEvent, found, err := s.competitionRepo.GetSubEvent(ctx, event.ID, refs.EventCode)
		if err != nil {
			return competition.Draw{}, false, fmt.Errorf("get sub-event event=%s code=%s: %w", event.ID, refs.EventCode, err)
		}
		if !found {
			return competition.Draw{}, false, nil
		}

		draw, found, err := s.competitionRepo.GetDraw(ctx, subEvent.ID, refs.DrawCode)
		if err != nil {
			return competition.Draw{}, false, fmt.Errorf("get draw sub_event=%s code=%s: %w", subEvent.ID, refs.DrawCode, err)
		}
		return draw, found, nil
	}

	draws, err := s.competitionRepo.ListDrawsByCode(ctx, event.ID, refs.DrawCode)
	if err != nil {
		return competition.Draw{}, false, fmt.Errorf("list draws event=%s code=%s: %w", event.ID, refs.DrawCode, err)
	}
	switch len(draws) {
	case 0:
		return competition.Draw{}, false, nil
	case 1:
		return draws[0], true, nil
	default:
		return competition.Draw{}, false, crerr.Wrapf(ErrAmbiguousContext,
			"draw code=%s matches %d draws in event=%s, event code required", refs.DrawCode, len(draws), event.VisualCode)
	}
}
