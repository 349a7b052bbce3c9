package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/tournament-sync/internal/platform/logging"
	"github.com/riskibarqy/tournament-sync/internal/usecase"
	"github.com/robfig/cron/v3"
)

type discoveryQueuer interface {
	QueueTournamentDiscovery(ctx context.Context, tournamentCode string) (usecase.JobHandle, error)
}

// cronLogger adapts the service logger to cron.Logger.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}

// newDiscoveryScheduler returns nil when spec is empty. Each tick queues one
// discovery job over every recently changed tournament; the orchestrator lane
// keeps ticks from overlapping.
func newDiscoveryScheduler(spec string, queuer discoveryQueuer, logger *logging.Logger) (*cron.Cron, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		logger.Info("discovery schedule disabled", "reason", "SYNC_DISCOVERY_CRON empty")
		return nil, nil
	}

	adapter := cronLogger{logger: logger}
	scheduler := cron.New(
		cron.WithLogger(adapter),
		cron.WithChain(cron.Recover(adapter)),
	)
	if _, err := scheduler.AddFunc(spec, func() {
		ctx := context.Background()
		handle, err := queuer.QueueTournamentDiscovery(ctx, "")
		if err != nil {
			logger.WarnContext(ctx, "scheduled discovery not queued", "error", err)
			return
		}
		logger.InfoContext(ctx, "scheduled discovery queued", "job_id", handle.JobID)
	}); err != nil {
		return nil, fmt.Errorf("schedule discovery %q: %w", spec, err)
	}

	logger.Info("discovery scheduled", "schedule", spec)
	return scheduler, nil
}
