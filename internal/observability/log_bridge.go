package observability

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/tournament-sync/internal/platform/logging"
	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"
)

const logBridgeScope = "tournament-sync/internal/platform/logging"

// logBridge copies zap records into an OpenTelemetry logger so they are
// exported next to the traces.
type logBridge struct {
	logger otellog.Logger
	now    func() time.Time
}

func globalLogBridge(serviceVersion string) *logBridge {
	return newLogBridge(otelglobal.Logger(logBridgeScope, otellog.WithInstrumentationVersion(serviceVersion)))
}

func newLogBridge(logger otellog.Logger) *logBridge {
	return &logBridge{logger: logger, now: time.Now}
}

func (b *logBridge) mirror(ctx context.Context, level logging.Level, msg string, args ...any) {
	severity := severityOf(level)
	if !b.logger.Enabled(ctx, otellog.EnabledParameters{Severity: severity, EventName: msg}) {
		return
	}

	var rec otellog.Record
	ts := b.now().UTC()
	rec.SetTimestamp(ts)
	rec.SetObservedTimestamp(ts)
	rec.SetSeverity(severity)
	rec.SetSeverityText(strings.ToUpper(level.String()))
	rec.SetEventName(msg)
	rec.SetBody(otellog.StringValue(msg))
	rec.AddAttributes(attributesOf(args)...)
	b.logger.Emit(ctx, rec)
}

func severityOf(level logging.Level) otellog.Severity {
	switch level {
	case logging.LevelDebug:
		return otellog.SeverityDebug
	case logging.LevelInfo:
		return otellog.SeverityInfo
	case logging.LevelWarn:
		return otellog.SeverityWarn
	case logging.LevelError:
		return otellog.SeverityError
	}
	if level < logging.LevelDebug {
		return otellog.SeverityTrace
	}
	return otellog.SeverityFatal
}

// attributesOf mirrors the key/value convention of the logging package:
// unnamed keys are numbered and a trailing key carries an empty value.
func attributesOf(args []any) []otellog.KeyValue {
	out := make([]otellog.KeyValue, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key, _ := args[i].(string)
		if strings.TrimSpace(key) == "" {
			key = "arg_" + strconv.Itoa(i/2)
		}
		if i+1 == len(args) {
			out = append(out, otellog.Empty(key))
			break
		}
		out = append(out, otellog.KeyValue{Key: key, Value: valueOf(args[i+1])})
	}
	return out
}

func valueOf(v any) otellog.Value {
	switch x := v.(type) {
	case nil:
		return otellog.Value{}
	case string:
		return otellog.StringValue(x)
	case bool:
		return otellog.BoolValue(x)
	case int:
		return otellog.IntValue(x)
	case int32:
		return otellog.Int64Value(int64(x))
	case int64:
		return otellog.Int64Value(x)
	case uint32:
		return otellog.Int64Value(int64(x))
	case float32:
		return otellog.Float64Value(float64(x))
	case float64:
		return otellog.Float64Value(x)
	case time.Time:
		return otellog.StringValue(x.UTC().Format(time.RFC3339Nano))
	case error:
		return otellog.StringValue(x.Error())
	case fmt.Stringer:
		// time.Duration lands here.
		return otellog.StringValue(x.String())
	case []string:
		items := make([]otellog.Value, len(x))
		for i, s := range x {
			items[i] = otellog.StringValue(s)
		}
		return otellog.SliceValue(items...)
	default:
		return otellog.StringValue(fmt.Sprint(x))
	}
}
