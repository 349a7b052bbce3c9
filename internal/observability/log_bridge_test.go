package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/tournament-sync/internal/platform/logging"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/embedded"
)

type recordingLogger struct {
	embedded.Logger

	minSeverity otellog.Severity
	records     []otellog.Record
}

func (l *recordingLogger) Emit(_ context.Context, rec otellog.Record) {
	l.records = append(l.records, rec)
}

func (l *recordingLogger) Enabled(_ context.Context, p otellog.EnabledParameters) bool {
	return p.Severity >= l.minSeverity
}

func TestLogBridge_EmitsEnabledRecords(t *testing.T) {
	t.Parallel()

	sink := &recordingLogger{minSeverity: otellog.SeverityInfo}
	bridge := newLogBridge(sink)
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	bridge.now = func() time.Time { return fixed }

	bridge.mirror(context.Background(), logging.LevelDebug, "noise")
	bridge.mirror(context.Background(), logging.LevelWarn, "job retry scheduled", "job_id", "job-9", "attempt", 2)

	if len(sink.records) != 1 {
		t.Fatalf("unexpected record count: got=%d want=1", len(sink.records))
	}
	rec := sink.records[0]
	if rec.EventName() != "job retry scheduled" || rec.Severity() != otellog.SeverityWarn || rec.SeverityText() != "WARN" {
		t.Fatalf("unexpected record header: name=%q severity=%v text=%q", rec.EventName(), rec.Severity(), rec.SeverityText())
	}
	if !rec.Timestamp().Equal(fixed) {
		t.Fatalf("unexpected timestamp: got=%s want=%s", rec.Timestamp(), fixed)
	}
	got := map[string]otellog.Value{}
	rec.WalkAttributes(func(kv otellog.KeyValue) bool {
		got[kv.Key] = kv.Value
		return true
	})
	if got["job_id"].AsString() != "job-9" || got["attempt"].AsInt64() != 2 {
		t.Fatalf("unexpected attributes: %v", got)
	}
}

func TestAttributesOf(t *testing.T) {
	t.Parallel()

	attrs := attributesOf([]any{"tournament_code", "T-100", 7, "x", "payload"})
	if len(attrs) != 3 {
		t.Fatalf("unexpected attribute count: got=%d want=3", len(attrs))
	}
	if attrs[0].Key != "tournament_code" || attrs[0].Value.AsString() != "T-100" {
		t.Fatalf("unexpected first attribute: %+v", attrs[0])
	}
	if attrs[1].Key != "arg_1" {
		t.Fatalf("unexpected generated key: got=%s want=arg_1", attrs[1].Key)
	}
	if attrs[2].Key != "payload" || attrs[2].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected trailing attribute: %+v", attrs[2])
	}
}

func TestValueOf(t *testing.T) {
	t.Parallel()

	if got := valueOf(errors.New("boom")).AsString(); got != "boom" {
		t.Fatalf("unexpected error value: %q", got)
	}
	if got := valueOf(1500 * time.Millisecond).AsString(); got != "1.5s" {
		t.Fatalf("unexpected duration value: %q", got)
	}
	if got := valueOf([]string{"a", "b"}); got.Kind() != otellog.KindSlice || len(got.AsSlice()) != 2 {
		t.Fatalf("unexpected slice value: %v", got)
	}
	if got := valueOf(struct{ N int }{N: 3}).AsString(); got != "{3}" {
		t.Fatalf("unexpected fallback value: %q", got)
	}
}

func TestSeverityOf(t *testing.T) {
	t.Parallel()

	tests := map[logging.Level]otellog.Severity{
		logging.LevelDebug: otellog.SeverityDebug,
		logging.LevelInfo:  otellog.SeverityInfo,
		logging.LevelWarn:  otellog.SeverityWarn,
		logging.LevelError: otellog.SeverityError,
		logging.Level(5):   otellog.SeverityFatal,
	}
	for level, want := range tests {
		if got := severityOf(level); got != want {
			t.Fatalf("severityOf(%v)=%v want=%v", level, got, want)
		}
	}
}
