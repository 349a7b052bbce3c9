package tournamentsoftware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/tournament-sync/internal/domain/competition"
	"github.com/riskibarqy/tournament-sync/internal/platform/resilience"
	"github.com/riskibarqy/tournament-sync/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, retries int) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		HTTPClient:    server.Client(),
		BaseURL:       server.URL,
		Username:      "sync",
		Password:      "secret",
		MaxRetries:    retries,
		RetryInterval: time.Millisecond,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 3,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})
}

func TestClient_FetchTournamentMapsPayload(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "sync" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/tournaments/T-100" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"tournament":{"code":"T-100","name":"Interclub 2026","type":"league","season":2026,"start_date":"2026-09-01","last_updated":"2026-09-10T08:30:00Z"}}`))
	}, 0)

	got, err := client.FetchTournament(context.Background(), "T-100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Code != "T-100" || got.Kind != competition.KindCompetition || got.Season != 2026 {
		t.Fatalf("unexpected tournament: %+v", got)
	}
	if got.StartDate == nil || got.StartDate.Format("2006-01-02") != "2026-09-01" {
		t.Fatalf("unexpected start date: %v", got.StartDate)
	}
	want := time.Date(2026, 9, 10, 8, 30, 0, 0, time.UTC)
	if got.LastUpdated == nil || !got.LastUpdated.Equal(want) {
		t.Fatalf("unexpected last updated: got=%v want=%v", got.LastUpdated, want)
	}
}

func TestClient_UnknownCodeIsExternalNotFound(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}, 3)

	_, err := client.FetchTournament(context.Background(), "NOPE")
	if !errors.Is(err, usecase.ErrExternalNotFound) {
		t.Fatalf("unexpected error: got=%v want=%v", err, usecase.ErrExternalNotFound)
	}
	if usecase.IsRetryable(err) {
		t.Fatalf("expected not-found to be terminal")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("unexpected request count: got=%d want=1", got)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"teams":[{"code":"X-1","name":"BC Smash 1","club_name":"BC Smash","gender":"M","number":1},{"code":"","name":"broken"}]}`))
	}, 3)

	teams, err := client.FetchTeams(context.Background(), "T-100", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(teams) != 1 || teams[0].Code != "X-1" || teams[0].TeamNumber == nil || *teams[0].TeamNumber != 1 {
		t.Fatalf("unexpected teams: %+v", teams)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("unexpected request count: got=%d want=3", got)
	}
}

func TestClient_ExhaustedRetriesAreTransient(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}, 1)

	_, err := client.FetchCompetitionStructure(context.Background(), "T-100", "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !usecase.IsRetryable(err) {
		t.Fatalf("expected retryable error, got %v", err)
	}
}

func TestClient_OpenCircuitRejectsRequests(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, 0)

	for range 3 {
		_, _ = client.FetchTeams(context.Background(), "T-100", "")
	}
	_, err := client.FetchTeams(context.Background(), "T-100", "")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("unexpected error: got=%v want=%v", err, usecase.ErrDependencyUnavailable)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("unexpected request count: got=%d want=3", got)
	}
}

func TestClient_FetchCompetitionStructureScopesByEvent(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("event") != "1" {
			_, _ = w.Write([]byte(`{"events":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"events":[{"code":"1","name":"Heren","gender":"M","level":2,"draws":[{"code":"A","name":"Poule A","type":"round-robin","size":8}]}]}`))
	}, 0)

	events, err := client.FetchCompetitionStructure(context.Background(), "T-100", "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || len(events[0].Draws) != 1 || events[0].Draws[0].Size != 8 {
		t.Fatalf("unexpected structure: %+v", events)
	}

	empty, err := client.FetchCompetitionStructure(context.Background(), "T-100", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no data, got %+v", empty)
	}
}

func TestClient_ListTournamentsFollowsPages(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("updated_since") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch r.URL.Query().Get("page") {
		case "1":
			_, _ = w.Write([]byte(`{"tournaments":[{"code":"T-1","type":"individual"},{"code":"T-X","type":"unknown"}],"next_page":2}`))
		default:
			_, _ = w.Write([]byte(`{"tournaments":[{"code":"T-2","type":"competition"}],"next_page":null}`))
		}
	}, 0)

	got, err := client.ListTournaments(context.Background(), time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Code != "T-1" || got[0].Kind != competition.KindTournament || got[1].Code != "T-2" {
		t.Fatalf("unexpected tournaments: %+v", got)
	}
}
