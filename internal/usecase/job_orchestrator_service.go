package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v5"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/tournament-sync/internal/domain/syncjob"
	"github.com/riskibarqy/tournament-sync/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const defaultJobHistoryLimit = 1000

type JobPolicy struct {
	MaxAttempts int
	Timeout     time.Duration
}

func DefaultJobPolicies() map[syncjob.Type]JobPolicy {
	return map[syncjob.Type]JobPolicy{
		syncjob.TypeDiscovery:            {MaxAttempts: 3, Timeout: 2 * time.Minute},
		syncjob.TypeCompetitionStructure: {MaxAttempts: 3, Timeout: 10 * time.Minute},
		syncjob.TypeTournamentStructure:  {MaxAttempts: 3, Timeout: 10 * time.Minute},
		syncjob.TypeStanding:             {MaxAttempts: 2, Timeout: time.Minute},
	}
}

type JobOrchestratorConfig struct {
	Workers        int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Policies       map[syncjob.Type]JobPolicy
	HistoryLimit   int
}

// JobProcessor executes one attempt of a job. It is re-run from the top on retry.
type JobProcessor interface {
	Process(ctx context.Context, payload JobPayload, progress ProgressFunc) (JobResult, error)
}

// JobObserver receives attempt outcomes, typically for metrics.
type JobObserver interface {
	AttemptFinished(jobType syncjob.Type, status syncjob.Status, duration time.Duration)
	AttemptRetried(jobType syncjob.Type)
	QueueChanged(stats QueueStats)
}

type noopJobObserver struct{}

func (noopJobObserver) AttemptFinished(syncjob.Type, syncjob.Status, time.Duration) {}
func (noopJobObserver) AttemptRetried(syncjob.Type) {}
func (noopJobObserver) QueueChanged(QueueStats) {}

type JobHandle struct {
	JobID          string       `json:"job_id"`
	JobType        syncjob.Type `json:"job_type"`
	TournamentCode string       `json:"tournament_code,omitempty"`
	EnqueuedAt     time.Time    `json:"enqueued_at"`
}

// QueueStats counts jobs, not attempts. Waiting includes jobs backing off.
type QueueStats struct {
	Waiting   int `json:"waiting"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

type attemptOutcome struct {
	result JobResult
	err    error
}

// JobOrchestratorService runs sync jobs on a bounded worker pool. Jobs of one
// tournament run one at a time in submission order. Different tournaments run
// in parallel.
type JobOrchestratorService struct {
	processor JobProcessor
	logRepo   syncjob.Repository
	cfg       JobOrchestratorConfig
	observer  JobObserver
	logger    *logging.Logger
	validate  *validator.Validate
	clock     clockwork.Clock
	pool      *ants.Pool

	mu        sync.Mutex
	started   bool
	accepting bool
	stopping  bool
	baseCtx   context.Context
	cancel    context.CancelFunc
	lanes     map[string]*jobLane
	ready     []*jobLane
	running   int
	jobs      map[string]*orchestratedJob
	history   []string
	stats     QueueStats
	idle      []chan struct{}
	inflight  sync.WaitGroup
}

func NewJobOrchestratorService(
	processor JobProcessor,
	logRepo syncjob.Repository,
	cfg JobOrchestratorConfig,
	observer JobObserver,
	logger *logging.Logger,
) (*JobOrchestratorService, error) {
	if processor == nil {
		return nil, fmt.Errorf("job processor is required")
	}
	if logRepo == nil {
		return nil, fmt.Errorf("job log repository is required")
	}
	if observer == nil {
		observer = noopJobObserver{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 2 * time.Second
	}
	if cfg.MaxBackoff < cfg.InitialBackoff {
		cfg.MaxBackoff = cfg.InitialBackoff
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultJobHistoryLimit
	}
	policies := DefaultJobPolicies()
	for jobType, policy := range cfg.Policies {
		base := policies[jobType]
		if policy.MaxAttempts > 0 {
			base.MaxAttempts = policy.MaxAttempts
		}
		if policy.Timeout > 0 {
			base.Timeout = policy.Timeout
		}
		policies[jobType] = base
	}
	cfg.Policies = policies

	workerPool, err := ants.NewPool(cfg.Workers, ants.WithPanicHandler(func(p any) {
		logger.Error("job worker panic", "panic", fmt.Sprint(p))
	}))
	if err != nil {
		return nil, fmt.Errorf("create job worker pool: %w", err)
	}

	return &JobOrchestratorService{
		processor: processor,
		logRepo:   logRepo,
		cfg:       cfg,
		observer:  observer,
		logger:    logger,
		validate:  validator.New(),
		clock:     clockwork.NewRealClock(),
		pool:      workerPool,
		lanes:     make(map[string]*jobLane),
		jobs:      make(map[string]*orchestratedJob),
	}, nil
}

// Start makes the orchestrator accept jobs. Attempts run under a context
// detached from ctx's cancellation; Shutdown is the way to stop them.
func (s *JobOrchestratorService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}

	s.baseCtx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.started = true
	s.accepting = true
	s.logger.InfoContext(ctx, "job orchestrator started", "workers", s.cfg.Workers)
}

func (s *JobOrchestratorService) Enqueue(ctx context.Context, payload JobPayload) (JobHandle, error) {
	job, err := s.newJob(ctx, payload)
	if err != nil {
		return JobHandle{}, err
	}

	s.mu.Lock()
	if !s.accepting {
		s.mu.Unlock()
		return JobHandle{}, fmt.Errorf("%w: job_type=%s", ErrOrchestratorStopped, payload.JobType())
	}
	s.addJobLocked(job)
	batch := s.takeReadyLocked()
	stats := s.stats
	s.mu.Unlock()

	s.observer.QueueChanged(stats)
	s.submit(batch)

	refs := payload.refs()
	s.logger.InfoContext(ctx, "job enqueued",
		"job_id", job.id,
		"job_type", string(payload.JobType()),
		"tournament_code", refs.TournamentCode,
	)
	return JobHandle{
		JobID:          job.id,
		JobType:        payload.JobType(),
		TournamentCode: refs.TournamentCode,
		EnqueuedAt:     job.enqueuedAt,
	}, nil
}

func (s *JobOrchestratorService) QueueTournamentDiscovery(ctx context.Context, tournamentCode string) (JobHandle, error) {
	return s.Enqueue(ctx, DiscoveryPayload{TournamentCode: tournamentCode})
}

func (s *JobOrchestratorService) QueueCompetitionStructureSync(ctx context.Context, tournamentCode, eventCode string) (JobHandle, error) {
	return s.Enqueue(ctx, CompetitionStructurePayload{TournamentCode: tournamentCode, EventCode: eventCode})
}

func (s *JobOrchestratorService) QueueTournamentStructureSync(ctx context.Context, tournamentCode, eventCode string) (JobHandle, error) {
	return s.Enqueue(ctx, TournamentStructurePayload{TournamentCode: tournamentCode, EventCode: eventCode})
}

func (s *JobOrchestratorService) QueueStandingSync(ctx context.Context, tournamentCode, eventCode, drawCode string) (JobHandle, error) {
	return s.Enqueue(ctx, StandingPayload{TournamentCode: tournamentCode, EventCode: eventCode, DrawCode: drawCode})
}

// ReportProgress records advisory progress. Values are clamped to [0,100] and
// never move backwards.
func (s *JobOrchestratorService) ReportProgress(jobID string, percent int) {
	percent = min(max(percent, 0), 100)

	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok || job.status.IsTerminal() {
		return
	}
	if percent > job.progress {
		job.progress = percent
	}
}

func (s *JobOrchestratorService) QueueStats() QueueStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *JobOrchestratorService) Job(jobID string) (JobSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return JobSnapshot{}, false
	}
	return job.snapshot(), true
}

func (s *JobOrchestratorService) RecentJobs(ctx context.Context, limit int, status *syncjob.Status) ([]syncjob.Log, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobOrchestratorService.RecentJobs")
	defer span.End()

	if limit <= 0 || limit > 500 {
		limit = 50
	}
	items, err := s.logRepo.ListRecent(ctx, syncjob.ListFilter{Limit: limit, Status: status})
	if err != nil {
		return nil, fmt.Errorf("list recent jobs: %w", err)
	}
	return items, nil
}

// JobLog returns one persisted attempt row by its id.
func (s *JobOrchestratorService) JobLog(ctx context.Context, logID string) (syncjob.Log, error) {
	item, ok, err := s.logRepo.GetByID(ctx, strings.TrimSpace(logID))
	if err != nil {
		return syncjob.Log{}, fmt.Errorf("get job log: %w", err)
	}
	if !ok {
		return syncjob.Log{}, fmt.Errorf("%w: job %s", ErrNotFound, logID)
	}
	return item, nil
}

// Drain blocks until every lane is idle or ctx is done.
func (s *JobOrchestratorService) Drain(ctx context.Context) error {
	s.mu.Lock()
	if s.idleLocked() {
		s.mu.Unlock()
		return nil
	}
	done := make(chan struct{})
	s.idle = append(s.idle, done)
	s.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting jobs and drains until ctx is done. Whatever is
// still queued then is recorded as failed, in-flight attempts are cancelled,
// and the worker pool is released.
func (s *JobOrchestratorService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		s.pool.Release()
		return nil
	}
	s.accepting = false
	s.mu.Unlock()

	drainErr := s.Drain(ctx)
	if drainErr != nil {
		abandoned := s.abandonQueued()
		s.logger.WarnContext(ctx, "job orchestrator drain deadline reached",
			"abandoned", len(abandoned),
			"error", drainErr,
		)
		s.recordAbandoned(context.WithoutCancel(ctx), abandoned)
	}

	s.mu.Lock()
	s.stopping = true
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	s.inflight.Wait()
	s.pool.Release()

	stats := s.QueueStats()
	s.logger.InfoContext(ctx, "job orchestrator stopped",
		"completed", stats.Completed,
		"failed", stats.Failed,
	)
	if drainErr != nil {
		return fmt.Errorf("drain job orchestrator: %w", drainErr)
	}
	return nil
}

func (s *JobOrchestratorService) newJob(ctx context.Context, payload JobPayload) (*orchestratedJob, error) {
	if payload == nil {
		return nil, fmt.Errorf("%w: job payload is required", ErrInvalidInput)
	}
	if !payload.JobType().Valid() {
		return nil, fmt.Errorf("%w: unknown job type %q", ErrInvalidInput, payload.JobType())
	}
	if err := s.validate.StructCtx(ctx, payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return &orchestratedJob{
		id:         uuid.NewString(),
		payload:    payload,
		policy:     s.cfg.Policies[payload.JobType()],
		lane:       payload.laneKey(),
		status:     syncjob.StatusPending,
		enqueuedAt: s.clock.Now().UTC(),
	}, nil
}

func (s *JobOrchestratorService) addJobLocked(job *orchestratedJob) {
	s.jobs[job.id] = job
	s.stats.Waiting++

	lane, ok := s.lanes[job.lane]
	if !ok {
		lane = &jobLane{key: job.lane, state: laneReady}
		s.lanes[job.lane] = lane
		s.ready = append(s.ready, lane)
	}
	lane.queue = append(lane.queue, job)
}

// takeReadyLocked hands ready lanes to free workers. The pool is never asked
// for more workers than it has.
func (s *JobOrchestratorService) takeReadyLocked() []*jobLane {
	var batch []*jobLane
	for s.running < s.cfg.Workers && len(s.ready) > 0 {
		lane := s.ready[0]
		s.ready[0] = nil
		s.ready = s.ready[1:]

		lane.state = laneRunning
		s.running++
		batch = append(batch, lane)
	}
	return batch
}

func (s *JobOrchestratorService) submit(batch []*jobLane) {
	for _, lane := range batch {
		s.inflight.Add(1)
		err := s.pool.Submit(func() {
			defer s.inflight.Done()
			s.runLane(lane)
		})
		if err == nil {
			continue
		}

		s.inflight.Done()
		s.logger.Error("submit job lane failed", "lane", lane.key, "error", err)
		s.mu.Lock()
		s.running--
		abandoned := s.dropLaneLocked(lane)
		s.notifyIdleLocked()
		s.mu.Unlock()
		s.recordAbandoned(context.Background(), abandoned)
	}
}

func (s *JobOrchestratorService) runLane(lane *jobLane) {
	s.mu.Lock()
	job := lane.head()
	if job == nil || s.stopping {
		s.running--
		abandoned := s.dropLaneLocked(lane)
		s.notifyIdleLocked()
		s.mu.Unlock()
		s.recordAbandoned(context.Background(), abandoned)
		return
	}
	job.attempt++
	job.status = syncjob.StatusInProgress
	s.stats.Waiting--
	s.stats.Active++
	baseCtx := s.baseCtx
	stats := s.stats
	s.mu.Unlock()
	s.observer.QueueChanged(stats)

	outcome := s.runAttempt(baseCtx, job)

	var followUps []*orchestratedJob
	if outcome.err == nil && outcome.result != nil {
		for _, payload := range outcome.result.FollowUps() {
			next, err := s.newJob(baseCtx, payload)
			if err != nil {
				s.logger.WarnContext(baseCtx, "follow-up job rejected", "job_id", job.id, "error", err)
				continue
			}
			followUps = append(followUps, next)
		}
	}

	s.mu.Lock()
	s.stats.Active--
	s.running--

	retry := false
	var delay time.Duration
	switch {
	case outcome.err == nil:
		job.status = syncjob.StatusCompleted
		job.progress = 100
		s.stats.Completed++
	// Retries still run while Shutdown drains; only the final cancel makes
	// a transient failure terminal.
	case IsRetryable(outcome.err) && job.attempt < job.policy.MaxAttempts && !s.stopping:
		retry = true
		job.status = syncjob.StatusPending
		job.lastError = outcome.err.Error()
		s.stats.Waiting++
	default:
		job.status = syncjob.StatusFailed
		job.lastError = outcome.err.Error()
		s.stats.Failed++
	}

	if retry {
		if job.backoff == nil {
			job.backoff = s.newBackoff()
		}
		delay = job.backoff.NextBackOff()
		if delay == backoff.Stop || delay <= 0 {
			delay = s.cfg.MaxBackoff
		}
		lane.state = laneBackingOff
		lane.timer = s.clock.AfterFunc(delay, func() { s.resumeLane(lane) })
	} else {
		s.finishJobLocked(job)
		lane.pop()
	}

	dropped := 0
	for _, next := range followUps {
		if !s.accepting {
			dropped++
			continue
		}
		s.addJobLocked(next)
	}

	if !retry {
		if len(lane.queue) > 0 {
			lane.state = laneReady
			s.ready = append(s.ready, lane)
		} else {
			delete(s.lanes, lane.key)
		}
	}

	batch := s.takeReadyLocked()
	stats = s.stats
	s.notifyIdleLocked()
	s.mu.Unlock()

	s.observer.QueueChanged(stats)
	s.submit(batch)

	if retry {
		s.observer.AttemptRetried(job.payload.JobType())
		s.logger.WarnContext(baseCtx, "job attempt failed, retrying",
			"job_id", job.id,
			"job_type", string(job.payload.JobType()),
			"attempt", job.attempt,
			"max_attempts", job.policy.MaxAttempts,
			"retry_in", delay.String(),
			"error", outcome.err,
		)
	}
	if dropped > 0 {
		s.logger.WarnContext(baseCtx, "follow-up jobs dropped, orchestrator is stopping",
			"job_id", job.id,
			"dropped", dropped,
		)
	}
}

func (s *JobOrchestratorService) resumeLane(lane *jobLane) {
	s.mu.Lock()
	lane.timer = nil
	if current, ok := s.lanes[lane.key]; !ok || current != lane || lane.state != laneBackingOff {
		s.mu.Unlock()
		return
	}
	lane.state = laneReady
	s.ready = append(s.ready, lane)
	batch := s.takeReadyLocked()
	s.mu.Unlock()

	s.submit(batch)
}

func (s *JobOrchestratorService) runAttempt(baseCtx context.Context, job *orchestratedJob) attemptOutcome {
	attemptCtx, cancel := context.WithTimeout(baseCtx, job.policy.Timeout)
	defer cancel()

	jobType := job.payload.JobType()
	ctx, span := startJobSpan(attemptCtx, "usecase.JobOrchestratorService.runAttempt")
	defer span.End()
	span.SetAttributes(
		attribute.String("job.id", job.id),
		attribute.String("job.type", string(jobType)),
		attribute.Int("job.attempt", job.attempt),
	)

	refs := job.payload.refs()
	startedAt := s.clock.Now().UTC()
	input, err := sonic.Marshal(job.payload)
	if err != nil {
		input = nil
	}
	entry := syncjob.Log{
		ID:             uuid.NewString(),
		JobType:        jobType,
		ExternalJobID:  job.id,
		Attempt:        job.attempt,
		TournamentCode: refs.TournamentCode,
		EventCode:      refs.EventCode,
		DrawCode:       refs.DrawCode,
		Status:         syncjob.StatusInProgress,
		StartedAt:      startedAt,
		Input:          input,
		CreatedAt:      startedAt,
	}
	logged := true
	if err := s.logRepo.Create(ctx, entry); err != nil {
		logged = false
		s.logger.WarnContext(ctx, "create job log failed", "job_id", job.id, "error", err)
	}

	var outcome attemptOutcome
	var catcher panics.Catcher
	catcher.Try(func() {
		outcome.result, outcome.err = s.processor.Process(ctx, job.payload, func(percent int) {
			s.ReportProgress(job.id, percent)
		})
	})
	if recovered := catcher.Recovered(); recovered != nil {
		outcome = attemptOutcome{err: crerr.Wrap(recovered.AsError(), "job processor panicked")}
	}
	if outcome.err != nil && crerr.Is(attemptCtx.Err(), context.DeadlineExceeded) && !crerr.Is(outcome.err, context.DeadlineExceeded) {
		outcome.err = crerr.Mark(crerr.Wrapf(outcome.err, "attempt timed out after %s", job.policy.Timeout), context.DeadlineExceeded)
	}

	completedAt := s.clock.Now().UTC()
	entry.CompletedAt = &completedAt
	entry.ProcessingDuration = completedAt.Sub(startedAt)
	if outcome.err == nil {
		entry.Status = syncjob.StatusCompleted
		if outcome.result != nil {
			entry.ItemsProcessed = outcome.result.ItemCount()
			if raw, err := sonic.Marshal(outcome.result); err == nil {
				entry.Result = raw
			}
		}
		span.SetStatus(codes.Ok, "")
	} else {
		entry.Status = syncjob.StatusFailed
		entry.ErrorMessage = outcome.err.Error()
		entry.ErrorStack = fmt.Sprintf("%+v", crerr.WithStack(outcome.err))
		span.RecordError(outcome.err)
		span.SetStatus(codes.Error, outcome.err.Error())
	}

	if logged {
		if err := s.logRepo.Update(context.WithoutCancel(ctx), entry); err != nil {
			s.logger.WarnContext(ctx, "update job log failed", "job_id", job.id, "error", err)
		}
	}
	s.observer.AttemptFinished(jobType, entry.Status, entry.ProcessingDuration)

	if outcome.err == nil {
		s.logger.InfoContext(ctx, "job attempt completed",
			"job_id", job.id,
			"job_type", string(jobType),
			"attempt", job.attempt,
			"items", entry.ItemsProcessed,
			"duration_ms", entry.ProcessingDuration.Milliseconds(),
		)
	} else if !IsRetryable(outcome.err) || job.attempt >= job.policy.MaxAttempts {
		s.logger.ErrorContext(ctx, "job failed",
			"job_id", job.id,
			"job_type", string(jobType),
			"attempt", job.attempt,
			"error", outcome.err,
		)
	}

	return outcome
}

func (s *JobOrchestratorService) newBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.InitialBackoff
	b.MaxInterval = s.cfg.MaxBackoff
	b.Multiplier = 2
	b.Reset()
	return b
}

func (s *JobOrchestratorService) finishJobLocked(job *orchestratedJob) {
	finishedAt := s.clock.Now().UTC()
	job.finishedAt = &finishedAt

	s.history = append(s.history, job.id)
	for len(s.history) > s.cfg.HistoryLimit {
		delete(s.jobs, s.history[0])
		s.history = s.history[1:]
	}
}

// abandonQueued removes every job that is not currently executing and marks
// it failed. Running heads are left to finish or be cancelled.
func (s *JobOrchestratorService) abandonQueued() []*orchestratedJob {
	s.mu.Lock()
	defer s.mu.Unlock()

	var abandoned []*orchestratedJob
	for _, lane := range s.lanes {
		if lane.state == laneRunning {
			rest := lane.queue[1:]
			lane.queue = lane.queue[:1]
			abandoned = append(abandoned, s.failJobsLocked(rest)...)
			continue
		}
		abandoned = append(abandoned, s.dropLaneLocked(lane)...)
	}
	s.ready = nil
	s.notifyIdleLocked()
	return abandoned
}

func (s *JobOrchestratorService) dropLaneLocked(lane *jobLane) []*orchestratedJob {
	if lane.timer != nil {
		lane.timer.Stop()
		lane.timer = nil
	}
	if current, ok := s.lanes[lane.key]; ok && current == lane {
		delete(s.lanes, lane.key)
	}
	abandoned := s.failJobsLocked(lane.queue)
	lane.queue = nil
	return abandoned
}

func (s *JobOrchestratorService) failJobsLocked(jobs []*orchestratedJob) []*orchestratedJob {
	out := make([]*orchestratedJob, 0, len(jobs))
	for _, job := range jobs {
		if job == nil || job.status.IsTerminal() {
			continue
		}
		s.stats.Waiting--
		s.stats.Failed++
		job.status = syncjob.StatusFailed
		job.lastError = "abandoned at shutdown"
		s.finishJobLocked(job)
		out = append(out, job)
	}
	return out
}

// recordAbandoned writes a pending row moved to failed for each job that never
// got to run its next attempt.
func (s *JobOrchestratorService) recordAbandoned(ctx context.Context, jobs []*orchestratedJob) {
	for _, job := range jobs {
		refs := job.payload.refs()
		now := s.clock.Now().UTC()
		input, _ := sonic.Marshal(job.payload)
		entry := syncjob.Log{
			ID:             uuid.NewString(),
			JobType:        job.payload.JobType(),
			ExternalJobID:  job.id,
			Attempt:        job.attempt + 1,
			TournamentCode: refs.TournamentCode,
			EventCode:      refs.EventCode,
			DrawCode:       refs.DrawCode,
			Status:         syncjob.StatusPending,
			StartedAt:      now,
			Input:          input,
			CreatedAt:      now,
		}
		if err := s.logRepo.Create(ctx, entry); err != nil {
			s.logger.WarnContext(ctx, "record abandoned job failed", "job_id", job.id, "error", err)
			continue
		}

		entry.Status = syncjob.StatusFailed
		entry.CompletedAt = &now
		entry.ErrorMessage = job.lastError
		if err := s.logRepo.Update(ctx, entry); err != nil {
			s.logger.WarnContext(ctx, "record abandoned job failed", "job_id", job.id, "error", err)
		}
		s.observer.AttemptFinished(entry.JobType, syncjob.StatusFailed, 0)
	}
}

func (s *JobOrchestratorService) idleLocked() bool {
	return len(s.lanes) == 0 && s.stats.Active == 0
}

func (s *JobOrchestratorService) notifyIdleLocked() {
	if !s.idleLocked() {
		return
	}
	for _, done := range s.idle {
		close(done)
	}
	s.idle = nil
}
