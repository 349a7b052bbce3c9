package usecase

import (
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/tournament-sync/internal/domain/syncjob"
)

type laneState int

const (
	laneReady laneState = iota
	laneRunning
	laneBackingOff
)

// jobLane holds the queued jobs of one tournament. Only the head job runs,
// and it stays the head while it backs off between attempts.
type jobLane struct {
	key   string
	queue []*orchestratedJob
	state laneState
	timer clockwork.Timer
}

func (l *jobLane) head() *orchestratedJob {
	if len(l.queue) == 0 {
		return nil
	}
	return l.queue[0]
}

func (l *jobLane) pop() {
	if len(l.queue) == 0 {
		return
	}
	l.queue[0] = nil
	l.queue = l.queue[1:]
}

type orchestratedJob struct {
	id         string
	payload    JobPayload
	policy     JobPolicy
	lane       string
	attempt    int
	progress   int
	status     syncjob.Status
	lastError  string
	enqueuedAt time.Time
	finishedAt *time.Time
	backoff    *backoff.ExponentialBackOff
}

func (j *orchestratedJob) snapshot() JobSnapshot {
	refs := j.payload.refs()
	out := JobSnapshot{
		JobID:          j.id,
		JobType:        j.payload.JobType(),
		TournamentCode: refs.TournamentCode,
		EventCode:      refs.EventCode,
		DrawCode:       refs.DrawCode,
		Status:         j.status,
		Attempt:        j.attempt,
		MaxAttempts:    j.policy.MaxAttempts,
		Progress:       j.progress,
		LastError:      j.lastError,
		EnqueuedAt:     j.enqueuedAt,
	}
	if j.finishedAt != nil {
		finishedAt := *j.finishedAt
		out.FinishedAt = &finishedAt
	}
	return out
}

// JobSnapshot is a point-in-time view of a live or recently finished job.
type JobSnapshot struct {
	JobID          string         `json:"job_id"`
	JobType        syncjob.Type   `json:"job_type"`
	TournamentCode string         `json:"tournament_code,omitempty"`
	EventCode      string         `json:"event_code,omitempty"`
	DrawCode       string         `json:"draw_code,omitempty"`
	Status         syncjob.Status `json:"status"`
	Attempt        int            `json:"attempt"`
	MaxAttempts    int            `json:"max_attempts"`
	Progress       int            `json:"progress"`
	LastError      string         `json:"last_error,omitempty"`
	EnqueuedAt     time.Time      `json:"enqueued_at"`
	FinishedAt     *time.Time     `json:"finished_at,omitempty"`
}
