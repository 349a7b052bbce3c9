package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/riskibarqy/tournament-sync/internal/domain/syncjob"
	"github.com/riskibarqy/tournament-sync/internal/usecase"
)

func TestJobMetrics_RecordsAttemptsAndQueue(t *testing.T) {
	t.Parallel()

	m := NewJobMetrics()
	m.AttemptFinished(syncjob.TypeStanding, syncjob.StatusCompleted, 150*time.Millisecond)
	m.AttemptFinished(syncjob.TypeStanding, syncjob.StatusFailed, time.Second)
	m.AttemptRetried(syncjob.TypeStanding)
	m.QueueChanged(usecase.QueueStats{Waiting: 3, Active: 1, Completed: 7, Failed: 2})

	if got := testutil.ToFloat64(m.attempts.WithLabelValues("standing", "completed")); got != 1 {
		t.Fatalf("unexpected completed attempts: got=%v want=1", got)
	}
	if got := testutil.ToFloat64(m.retries.WithLabelValues("standing")); got != 1 {
		t.Fatalf("unexpected retries: got=%v want=1", got)
	}
	if got := testutil.ToFloat64(m.queue.WithLabelValues("waiting")); got != 3 {
		t.Fatalf("unexpected waiting gauge: got=%v want=3", got)
	}
}

func TestJobMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := NewJobMetrics()
	m.AttemptRetried(syncjob.TypeDiscovery)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `tournament_sync_job_retries_total{job_type="discovery"} 1`) {
		t.Fatalf("retry counter missing from exposition:\n%s", body)
	}
}
