package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/tournament-sync/internal/domain/competition"
)

func TestCompetitionRepository_WatermarkNeverMovesBackwards(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewCompetitionRepository(NewStore())

	event, err := repo.UpsertEvent(ctx, competition.Event{VisualCode: "T-100", Kind: competition.KindTournament, Season: SeedSeason})
	if err != nil {
		t.Fatalf("upsert event: %v", err)
	}

	later := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	earlier := later.Add(-time.Hour)
	if err := repo.AdvanceWatermarks(ctx, competition.Watermarks{EventIDs: []string{event.ID}, At: later}); err != nil {
		t.Fatalf("advance watermark: %v", err)
	}
	if err := repo.AdvanceWatermarks(ctx, competition.Watermarks{EventIDs: []string{event.ID}, At: earlier}); err != nil {
		t.Fatalf("advance watermark again: %v", err)
	}

	got, ok, err := repo.GetEventByID(ctx, event.ID)
	if err != nil || !ok {
		t.Fatalf("get event: ok=%v err=%v", ok, err)
	}
	if got.LastSync == nil || !got.LastSync.Equal(later) {
		t.Fatalf("unexpected last sync: got=%v want=%v", got.LastSync, later)
	}

	// An upsert carrying an older watermark keeps the stored one.
	if _, err := repo.UpsertEvent(ctx, competition.Event{VisualCode: "T-100", Kind: competition.KindTournament, LastSync: &earlier}); err != nil {
		t.Fatalf("re-upsert event: %v", err)
	}
	got, _, _ = repo.GetEventByVisualCode(ctx, "T-100")
	if got.ID != event.ID || !got.LastSync.Equal(later) {
		t.Fatalf("unexpected event after re-upsert: id=%s last_sync=%v", got.ID, got.LastSync)
	}
}

func TestCompetitionRepository_AdvanceWatermarksIsAllOrNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewCompetitionRepository(NewStore())

	event, err := repo.UpsertEvent(ctx, competition.Event{VisualCode: "T-200", Kind: competition.KindCompetition})
	if err != nil {
		t.Fatalf("upsert event: %v", err)
	}

	err = repo.AdvanceWatermarks(ctx, competition.Watermarks{
		EventIDs: []string{event.ID},
		DrawIDs:  []string{"missing-draw"},
		At:       time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	})
	if err == nil {
		t.Fatalf("expected error for unknown draw")
	}

	got, _, _ := repo.GetEventByID(ctx, event.ID)
	if got.LastSync != nil {
		t.Fatalf("expected event watermark untouched, got %v", got.LastSync)
	}
}

func TestCompetitionRepository_CodesAreScopedByParent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewCompetitionRepository(NewStore())

	event, _ := repo.UpsertEvent(ctx, competition.Event{VisualCode: "T-300", Kind: competition.KindCompetition})
	men, err := repo.UpsertSubEvent(ctx, competition.SubEvent{EventID: event.ID, VisualCode: "1", Name: "Heren"})
	if err != nil {
		t.Fatalf("upsert sub-event: %v", err)
	}
	women, err := repo.UpsertSubEvent(ctx, competition.SubEvent{EventID: event.ID, VisualCode: "2", Name: "Dames"})
	if err != nil {
		t.Fatalf("upsert sub-event: %v", err)
	}

	first, err := repo.UpsertDraw(ctx, competition.Draw{SubEventID: men.ID, VisualCode: "A"})
	if err != nil {
		t.Fatalf("upsert draw: %v", err)
	}
	second, err := repo.UpsertDraw(ctx, competition.Draw{SubEventID: women.ID, VisualCode: "A"})
	if err != nil {
		t.Fatalf("upsert draw: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct draws for the same code under different sub-events")
	}

	again, err := repo.UpsertDraw(ctx, competition.Draw{SubEventID: men.ID, VisualCode: "A", Name: "Poule A"})
	if err != nil {
		t.Fatalf("re-upsert draw: %v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("unexpected draw id after re-upsert: got=%s want=%s", again.ID, first.ID)
	}

	draws, err := repo.ListDrawsByCode(ctx, event.ID, "A")
	if err != nil {
		t.Fatalf("list draws by code: %v", err)
	}
	if len(draws) != 2 {
		t.Fatalf("unexpected draws count: got=%d want=2", len(draws))
	}

	if _, err := repo.UpsertDraw(ctx, competition.Draw{SubEventID: "missing", VisualCode: "B"}); err == nil {
		t.Fatalf("expected error for draw without sub-event")
	}
}
