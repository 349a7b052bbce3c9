package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/tournament-sync/internal/domain/competition"
	"github.com/riskibarqy/tournament-sync/internal/domain/syncjob"
	"github.com/riskibarqy/tournament-sync/internal/domain/teamreview"
	"github.com/riskibarqy/tournament-sync/internal/domain/tournamentteam"
	"github.com/riskibarqy/tournament-sync/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/tournament-sync/internal/platform/logging"
)

type fakeTournamentSource struct {
	mu          sync.Mutex
	tournaments map[string]ExternalTournament
	structures  map[string][]ExternalSubEvent
	teams       map[string][]ExternalTeam
	err         error
	teamsErr    error
	calls       int
}

func newFakeTournamentSource() *fakeTournamentSource {
	return &fakeTournamentSource{
		tournaments: make(map[string]ExternalTournament),
		structures:  make(map[string][]ExternalSubEvent),
		teams:       make(map[string][]ExternalTeam),
	}
}

func (f *fakeTournamentSource) FetchTournament(_ context.Context, code string) (ExternalTournament, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return ExternalTournament{}, f.err
	}
	item, ok := f.tournaments[code]
	if !ok {
		return ExternalTournament{}, fmt.Errorf("%w: tournament=%s", ErrExternalNotFound, code)
	}
	return item, nil
}

func (f *fakeTournamentSource) FetchCompetitionStructure(_ context.Context, code, _ string) ([]ExternalSubEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.tournaments[code]; !ok {
		return nil, fmt.Errorf("%w: tournament=%s", ErrExternalNotFound, code)
	}
	return f.structures[code], nil
}

func (f *fakeTournamentSource) FetchTeams(_ context.Context, code, _ string) ([]ExternalTeam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.teamsErr != nil {
		return nil, f.teamsErr
	}
	return f.teams[code], nil
}

func (f *fakeTournamentSource) ListTournaments(_ context.Context, since time.Time) ([]ExternalTournament, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]ExternalTournament, 0, len(f.tournaments))
	for _, item := range f.tournaments {
		if item.LastUpdated == nil || !item.LastUpdated.Before(since) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeTournamentSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type syncFixture struct {
	service      *TournamentSyncService
	source       *fakeTournamentSource
	competitions *memory.CompetitionRepository
	rows         *memory.TournamentTeamRepository
	reviews      *memory.TeamReviewRepository
	clock        *clockwork.FakeClock
}

func newSyncFixture(t *testing.T) syncFixture {
	t.Helper()

	store := memory.NewStore()
	competitions := memory.NewCompetitionRepository(store)
	teams := memory.NewTeamRepository(store, memory.SeedTeams())
	rows := memory.NewTournamentTeamRepository(store)
	reviews := memory.NewTeamReviewRepository(store)
	clock := clockwork.NewFakeClockAt(time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC))

	reconciler := NewTeamReconciliationService(rows, reviews, teams, TeamReconciliationConfig{}, logging.NewNop())
	reconciler.clock = clock

	source := newFakeTournamentSource()
	service := NewTournamentSyncService(source, competitions, teams, reconciler, TournamentSyncConfig{}, logging.NewNop())
	service.clock = clock

	return syncFixture{
		service:      service,
		source:       source,
		competitions: competitions,
		rows:         rows,
		reviews:      reviews,
		clock:        clock,
	}
}

func (fx syncFixture) seedCompetition(code string, updated time.Time) {
	fx.source.tournaments[code] = ExternalTournament{
		Code:        code,
		Name:        "Interclub " + code,
		Kind:        competition.KindCompetition,
		Season:      memory.SeedSeason,
		LastUpdated: &updated,
	}
	fx.source.structures[code] = []ExternalSubEvent{
		{Code: "H1", Name: "Heren 1e afdeling", Gender: "Heren", Level: 1, Draws: []ExternalDraw{
			{Code: "A", Name: "Reeks A", Type: "poule", Size: 8},
			{Code: "B", Name: "Reeks B", Type: "poule", Size: 8},
		}},
		{Code: "D1", Name: "Dames 1e afdeling", Gender: "Dames", Level: 1, Draws: []ExternalDraw{
			{Code: "A", Name: "Reeks A", Type: "poule", Size: 6},
		}},
	}
	fx.source.teams[code] = []ExternalTeam{
		{Code: "T-1", Name: "BC Smash 1", ClubName: "BC Smash", Gender: "H", EventCode: "H1"},
		{Code: "T-2", Name: "Onbekende Club 1", ClubName: "Onbekende Club", Gender: "H", EventCode: "H1"},
	}
}

func (fx syncFixture) draw(t *testing.T, tournamentCode, subEventCode, drawCode string) competition.Draw {
	t.Helper()

	ctx := context.Background()
	event, found, err := fx.competitions.GetEventByVisualCode(ctx, tournamentCode)
	if err != nil || !found {
		t.Fatalf("get event %s: found=%v err=%v", tournamentCode, found, err)
	}
	subEvent, found, err := fx.competitions.GetSubEvent(ctx, event.ID, subEventCode)
	if err != nil || !found {
		t.Fatalf("get sub-event %s: found=%v err=%v", subEventCode, found, err)
	}
	item, found, err := fx.competitions.GetDraw(ctx, subEvent.ID, drawCode)
	if err != nil || !found {
		t.Fatalf("get draw %s/%s: found=%v err=%v", subEventCode, drawCode, found, err)
	}
	return item
}

func TestTournamentSyncService_ResolveEvent_UsesIDOrCode(t *testing.T) {
	t.Parallel()

	fx := newSyncFixture(t)
	ctx := context.Background()

	stored, err := fx.competitions.UpsertEvent(ctx, competition.Event{VisualCode: "ABC-123", Name: "Cup", Kind: competition.KindTournament})
	if err != nil {
		t.Fatalf("upsert event: %v", err)
	}

	byID, found, err := fx.service.ResolveEvent(ctx, stored.ID)
	if err != nil || !found || byID.VisualCode != "ABC-123" {
		t.Fatalf("resolve by id: found=%v err=%v event=%+v", found, err, byID)
	}

	byCode, found, err := fx.service.ResolveEvent(ctx, "ABC-123")
	if err != nil || !found || byCode.ID != stored.ID {
		t.Fatalf("resolve by code: found=%v err=%v event=%+v", found, err, byCode)
	}

	_, found, err = fx.service.ResolveEvent(ctx, "8c1f4a3e-0000-4000-8000-000000000000")
	if err != nil || found {
		t.Fatalf("unknown uuid must not fall back to code lookup: found=%v err=%v", found, err)
	}
}

func TestTournamentSyncService_SyncDiscovery_EmitsFollowUpOnlyWhenModified(t *testing.T) {
	t.Parallel()

	fx := newSyncFixture(t)
	ctx := context.Background()
	fx.seedCompetition("COMP-1", fx.clock.Now().Add(-time.Hour))

	first, err := fx.service.SyncDiscovery(ctx, DiscoveryPayload{TournamentCode: "COMP-1"}, nil)
	if err != nil {
		t.Fatalf("first discovery: %v", err)
	}
	if first.Created != 1 || len(first.FollowUps()) != 1 {
		t.Fatalf("unexpected first discovery: created=%d follow_ups=%d", first.Created, len(first.FollowUps()))
	}
	if _, ok := first.FollowUps()[0].(CompetitionStructurePayload); !ok {
		t.Fatalf("unexpected follow-up type: %T", first.FollowUps()[0])
	}

	if _, err := fx.service.SyncStructure(ctx, competition.KindCompetition, "COMP-1", "", nil); err != nil {
		t.Fatalf("structure sync: %v", err)
	}

	second, err := fx.service.SyncDiscovery(ctx, DiscoveryPayload{TournamentCode: "COMP-1"}, nil)
	if err != nil {
		t.Fatalf("second discovery: %v", err)
	}
	if second.NotModified != 1 || len(second.FollowUps()) != 0 {
		t.Fatalf("unchanged tournament must not be resynced: not_modified=%d follow_ups=%d", second.NotModified, len(second.FollowUps()))
	}

	fx.clock.Advance(time.Hour)
	updated := fx.clock.Now()
	item := fx.source.tournaments["COMP-1"]
	item.LastUpdated = &updated
	fx.source.tournaments["COMP-1"] = item

	third, err := fx.service.SyncDiscovery(ctx, DiscoveryPayload{TournamentCode: "COMP-1"}, nil)
	if err != nil {
		t.Fatalf("third discovery: %v", err)
	}
	if len(third.FollowUps()) != 1 {
		t.Fatalf("modified tournament must be resynced: follow_ups=%d", len(third.FollowUps()))
	}
}

func TestTournamentSyncService_SyncDiscovery_UnknownCodeIsTerminal(t *testing.T) {
	t.Parallel()

	fx := newSyncFixture(t)

	_, err := fx.service.SyncDiscovery(context.Background(), DiscoveryPayload{TournamentCode: "NOPE"}, nil)
	if !errors.Is(err, ErrExternalNotFound) {
		t.Fatalf("expected ErrExternalNotFound, got=%v", err)
	}
	if IsRetryable(err) {
		t.Fatalf("external not found must not be retried")
	}
}

func TestTournamentSyncService_SyncDiscovery_ListsRecentTournaments(t *testing.T) {
	t.Parallel()

	fx := newSyncFixture(t)
	fx.seedCompetition("COMP-1", fx.clock.Now().Add(-time.Hour))
	fx.seedCompetition("COMP-2", fx.clock.Now().Add(-2*time.Hour))
	fx.seedCompetition("COMP-OLD", fx.clock.Now().Add(-72*time.Hour))

	ctx := context.Background()
	got, err := fx.service.SyncDiscovery(ctx, DiscoveryPayload{}, nil)
	if err != nil {
		t.Fatalf("discovery: %v", err)
	}
	if got.Tournaments != 2 || got.Queued != 2 || got.Created != 0 || len(got.FollowUps()) != 2 {
		t.Fatalf("unexpected discovery result: %+v follow_ups=%d", got, len(got.FollowUps()))
	}

	codes := map[string]bool{}
	for _, next := range got.FollowUps() {
		discovery, ok := next.(DiscoveryPayload)
		if !ok {
			t.Fatalf("listing must only emit per-code discoveries, got %T", next)
		}
		if discovery.laneKey() != (CompetitionStructurePayload{TournamentCode: discovery.TournamentCode}).laneKey() {
			t.Fatalf("follow-up for %s must share the tournament lane", discovery.TournamentCode)
		}
		codes[discovery.TournamentCode] = true
	}
	if !codes["COMP-1"] || !codes["COMP-2"] {
		t.Fatalf("unexpected follow-up codes: %v", codes)
	}

	for _, code := range []string{"COMP-1", "COMP-2"} {
		if _, found, _ := fx.competitions.GetEventByVisualCode(ctx, code); found {
			t.Fatalf("listing must not write event %s", code)
		}
	}
}

func TestTournamentSyncService_SyncDiscovery_ListingSkipsUnchanged(t *testing.T) {
	t.Parallel()

	fx := newSyncFixture(t)
	ctx := context.Background()
	fx.seedCompetition("COMP-1", fx.clock.Now().Add(-time.Hour))
	fx.seedCompetition("COMP-2", fx.clock.Now().Add(-time.Hour))

	if _, err := fx.service.SyncDiscovery(ctx, DiscoveryPayload{TournamentCode: "COMP-1"}, nil); err != nil {
		t.Fatalf("discovery: %v", err)
	}
	if _, err := fx.service.SyncStructure(ctx, competition.KindCompetition, "COMP-1", "", nil); err != nil {
		t.Fatalf("structure sync: %v", err)
	}

	got, err := fx.service.SyncDiscovery(ctx, DiscoveryPayload{}, nil)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if got.NotModified != 1 || len(got.FollowUps()) != 1 {
		t.Fatalf("unexpected listing result: %+v", got)
	}
	if next := got.FollowUps()[0].(DiscoveryPayload); next.TournamentCode != "COMP-2" {
		t.Fatalf("unexpected follow-up: %+v", next)
	}
}

func TestTournamentSyncService_SyncStructure_ImportsAndReconciles(t *testing.T) {
	t.Parallel()

	fx := newSyncFixture(t)
	ctx := context.Background()
	fx.seedCompetition("COMP-1", fx.clock.Now().Add(-time.Hour))
	if _, err := fx.service.SyncDiscovery(ctx, DiscoveryPayload{TournamentCode: "COMP-1"}, nil); err != nil {
		t.Fatalf("discovery: %v", err)
	}

	var progress []int
	result, err := fx.service.SyncStructure(ctx, competition.KindCompetition, "COMP-1", "", func(p int) {
		progress = append(progress, p)
	})
	if err != nil {
		t.Fatalf("structure sync: %v", err)
	}
	if result.SubEvents != 2 || result.Draws != 3 || result.Teams != 2 {
		t.Fatalf("unexpected structure result: %+v", result)
	}
	if result.HighMatches != 1 || result.ReviewsCreated != 1 {
		t.Fatalf("unexpected reconciliation counts: %+v", result)
	}
	if len(progress) == 0 || progress[len(progress)-1] != 100 {
		t.Fatalf("progress must end at 100: %v", progress)
	}

	event, _, _ := fx.competitions.GetEventByVisualCode(ctx, "COMP-1")
	if event.LastSync == nil || !event.LastSync.Equal(fx.clock.Now().UTC()) {
		t.Fatalf("event watermark not advanced: %v", event.LastSync)
	}
	subEvents, err := fx.competitions.ListSubEvents(ctx, event.ID)
	if err != nil {
		t.Fatalf("list sub-events: %v", err)
	}
	for _, item := range subEvents {
		if item.LastSync == nil {
			t.Fatalf("sub-event %s watermark not advanced", item.VisualCode)
		}
	}

	row, found, _ := fx.rows.Get(ctx, tournamentteam.Key{TournamentCode: "COMP-1", ExternalCode: "T-1"})
	if !found || row.MatchType != tournamentteam.MatchTypeAutomaticHigh || row.EventCode != "H1" {
		t.Fatalf("unexpected matched row: found=%v row=%+v", found, row)
	}
	pending, _ := fx.reviews.ListPending(ctx, teamreview.ListFilter{TournamentCode: "COMP-1"})
	if len(pending) != 1 || pending[0].ExternalCode != "T-2" {
		t.Fatalf("unexpected pending reviews: %+v", pending)
	}

	if _, err := fx.service.SyncStructure(ctx, competition.KindCompetition, "COMP-1", "", nil); err != nil {
		t.Fatalf("second structure sync: %v", err)
	}
	pending, _ = fx.reviews.ListPending(ctx, teamreview.ListFilter{TournamentCode: "COMP-1"})
	if len(pending) != 1 {
		t.Fatalf("resync must not duplicate reviews: got=%d", len(pending))
	}
}

func TestTournamentSyncService_SyncStructure_MissingEventCompletesEmpty(t *testing.T) {
	t.Parallel()

	fx := newSyncFixture(t)

	result, err := fx.service.SyncStructure(context.Background(), competition.KindTournament, "UNKNOWN", "", nil)
	if err != nil {
		t.Fatalf("structure sync: %v", err)
	}
	if result.ItemCount() != 0 || result.Skipped == "" {
		t.Fatalf("unexpected result for missing event: %+v", result)
	}
	if fx.source.callCount() != 0 {
		t.Fatalf("missing local event must not call the external source")
	}
}

func TestTournamentSyncService_SyncStructure_NoDataIsNotAnError(t *testing.T) {
	t.Parallel()

	fx := newSyncFixture(t)
	ctx := context.Background()
	fx.seedCompetition("COMP-1", fx.clock.Now())
	if _, err := fx.service.SyncDiscovery(ctx, DiscoveryPayload{TournamentCode: "COMP-1"}, nil); err != nil {
		t.Fatalf("discovery: %v", err)
	}
	fx.source.structures["COMP-1"] = nil

	result, err := fx.service.SyncStructure(ctx, competition.KindCompetition, "COMP-1", "", nil)
	if err != nil {
		t.Fatalf("structure sync: %v", err)
	}
	if !result.NoData || result.ItemCount() != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestTournamentSyncService_SyncStanding_ScopesDrawLookup(t *testing.T) {
	t.Parallel()

	fx := newSyncFixture(t)
	ctx := context.Background()
	fx.seedCompetition("COMP-1", fx.clock.Now())
	if _, err := fx.service.SyncDiscovery(ctx, DiscoveryPayload{TournamentCode: "COMP-1"}, nil); err != nil {
		t.Fatalf("discovery: %v", err)
	}
	if _, err := fx.service.SyncStructure(ctx, competition.KindCompetition, "COMP-1", "", nil); err != nil {
		t.Fatalf("structure sync: %v", err)
	}
	callsBefore := fx.source.callCount()
	structureSyncedAt := fx.clock.Now().UTC()

	_, err := fx.service.SyncStanding(ctx, StandingPayload{TournamentCode: "COMP-1", DrawCode: "A"}, nil)
	if !errors.Is(err, ErrAmbiguousContext) {
		t.Fatalf("expected ErrAmbiguousContext, got=%v", err)
	}

	fx.clock.Advance(time.Minute)
	result, err := fx.service.SyncStanding(ctx, StandingPayload{TournamentCode: "COMP-1", EventCode: "D1", DrawCode: "A"}, nil)
	if err != nil {
		t.Fatalf("standing sync: %v", err)
	}
	if result.DrawID == "" {
		t.Fatalf("draw must be resolved")
	}
	womenA := fx.draw(t, "COMP-1", "D1", "A")
	if womenA.ID != result.DrawID || womenA.LastSync == nil || !womenA.LastSync.Equal(fx.clock.Now().UTC()) {
		t.Fatalf("D1/A watermark not advanced: id=%s want=%s last_sync=%v", womenA.ID, result.DrawID, womenA.LastSync)
	}
	menA := fx.draw(t, "COMP-1", "H1", "A")
	if menA.LastSync == nil || !menA.LastSync.Equal(structureSyncedAt) {
		t.Fatalf("sibling H1/A watermark must not move: got=%v want=%s", menA.LastSync, structureSyncedAt)
	}

	unique, err := fx.service.SyncStanding(ctx, StandingPayload{TournamentCode: "COMP-1", DrawCode: "B"}, nil)
	if err != nil {
		t.Fatalf("standing sync for unique draw code: %v", err)
	}
	if unique.DrawID == "" {
		t.Fatalf("unique draw code must resolve without event code")
	}

	missing, err := fx.service.SyncStanding(ctx, StandingPayload{TournamentCode: "COMP-1", EventCode: "H1", DrawCode: "Z"}, nil)
	if err != nil {
		t.Fatalf("standing sync for missing draw: %v", err)
	}
	if missing.Skipped == "" || missing.ItemCount() != 0 {
		t.Fatalf("unexpected result for missing draw: %+v", missing)
	}

	if fx.source.callCount() != callsBefore {
		t.Fatalf("standing sync must not call the external source")
	}
}

func TestTournamentSyncService_SyncStructure_FailureKeepsWatermarks(t *testing.T) {
	t.Parallel()

	fx := newSyncFixture(t)
	ctx := context.Background()
	fx.seedCompetition("COMP-1", fx.clock.Now().Add(-time.Hour))
	if _, err := fx.service.SyncDiscovery(ctx, DiscoveryPayload{TournamentCode: "COMP-1"}, nil); err != nil {
		t.Fatalf("discovery: %v", err)
	}
	if _, err := fx.service.SyncStructure(ctx, competition.KindCompetition, "COMP-1", "", nil); err != nil {
		t.Fatalf("first structure sync: %v", err)
	}
	syncedAt := fx.clock.Now().UTC()

	event, _, _ := fx.competitions.GetEventByVisualCode(ctx, "COMP-1")
	before := map[string]*time.Time{"event": event.LastSync}
	subEvents, _ := fx.competitions.ListSubEvents(ctx, event.ID)
	for _, item := range subEvents {
		before["sub-event "+item.VisualCode] = item.LastSync
	}
	for _, code := range [][2]string{{"H1", "A"}, {"H1", "B"}, {"D1", "A"}} {
		before["draw "+code[0]+"/"+code[1]] = fx.draw(t, "COMP-1", code[0], code[1]).LastSync
	}

	fx.clock.Advance(time.Hour)
	fx.source.structures["COMP-1"][0].Draws = append(fx.source.structures["COMP-1"][0].Draws,
		ExternalDraw{Code: "C", Name: "Reeks C", Type: "poule", Size: 8})
	fx.source.teamsErr = fmt.Errorf("%w: upstream timeout", ErrDependencyUnavailable)

	_, err := fx.service.SyncStructure(ctx, competition.KindCompetition, "COMP-1", "", nil)
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got=%v", err)
	}

	added := fx.draw(t, "COMP-1", "H1", "C")
	if added.LastSync != nil {
		t.Fatalf("draw upserted by the failed run must not carry a watermark: %v", added.LastSync)
	}

	event, _, _ = fx.competitions.GetEventByVisualCode(ctx, "COMP-1")
	after := map[string]*time.Time{"event": event.LastSync}
	subEvents, _ = fx.competitions.ListSubEvents(ctx, event.ID)
	for _, item := range subEvents {
		after["sub-event "+item.VisualCode] = item.LastSync
	}
	for _, code := range [][2]string{{"H1", "A"}, {"H1", "B"}, {"D1", "A"}} {
		after["draw "+code[0]+"/"+code[1]] = fx.draw(t, "COMP-1", code[0], code[1]).LastSync
	}

	if len(after) != len(before) {
		t.Fatalf("unexpected watermark set: before=%d after=%d", len(before), len(after))
	}
	for name, want := range before {
		got := after[name]
		if want == nil || got == nil || !got.Equal(*want) || !got.Equal(syncedAt) {
			t.Fatalf("%s watermark moved after failure: got=%v want=%v", name, got, want)
		}
	}
}

func TestTournamentSyncService_SyncStanding_MissingEventCompletesEmpty(t *testing.T) {
	t.Parallel()

	fx := newSyncFixture(t)

	result, err := fx.service.SyncStanding(context.Background(), StandingPayload{TournamentCode: "UNKNOWN", DrawCode: "A"}, nil)
	if err != nil {
		t.Fatalf("standing sync: %v", err)
	}
	if result.ItemCount() != 0 || result.Skipped == "" || result.DrawID != "" {
		t.Fatalf("unexpected result for missing event: %+v", result)
	}
	if fx.source.callCount() != 0 {
		t.Fatalf("standing sync must not call the external source")
	}
}

func TestTournamentSyncService_StandingForMissingEventCompletesThroughOrchestrator(t *testing.T) {
	t.Parallel()

	fx := newSyncFixture(t)
	ctx := context.Background()
	logRepo := memory.NewSyncJobRepository(memory.NewStore())
	svc := newTestOrchestrator(t, fx.service, JobOrchestratorConfig{}, logRepo)

	if _, err := svc.QueueStandingSync(ctx, "UNKNOWN", "", "A"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	drain(t, svc)

	logs, err := svc.RecentJobs(ctx, 10, nil)
	if err != nil {
		t.Fatalf("recent jobs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("unexpected log count: got=%d want=1", len(logs))
	}
	got := logs[0]
	if got.JobType != syncjob.TypeStanding || got.Status != syncjob.StatusCompleted || got.ItemsProcessed != 0 {
		t.Fatalf("unexpected job log: type=%s status=%s items=%d", got.JobType, got.Status, got.ItemsProcessed)
	}
	if stats := svc.QueueStats(); stats.Completed != 1 || stats.Failed != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
