package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/tournament-sync/internal/domain/syncjob"
	"github.com/riskibarqy/tournament-sync/internal/usecase"
)

const defaultJobListLimit = 50

func (h *Handler) QueueDiscovery(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "QueueDiscovery")
	defer span.End()

	var req syncDiscoveryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	handle, err := h.orchestrator.QueueTournamentDiscovery(ctx, strings.TrimSpace(req.TournamentCode))
	if err != nil {
		h.failQueue(ctx, w, syncjob.TypeDiscovery, err)
		return
	}
	writeSuccess(ctx, w, http.StatusAccepted, handle)
}

func (h *Handler) QueueCompetitionStructure(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "QueueCompetitionStructure")
	defer span.End()

	var req syncStructureRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	handle, err := h.orchestrator.QueueCompetitionStructureSync(ctx,
		strings.TrimSpace(req.TournamentCode), strings.TrimSpace(req.EventCode))
	if err != nil {
		h.failQueue(ctx, w, syncjob.TypeCompetitionStructure, err)
		return
	}
	writeSuccess(ctx, w, http.StatusAccepted, handle)
}

func (h *Handler) QueueTournamentStructure(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "QueueTournamentStructure")
	defer span.End()

	var req syncStructureRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	handle, err := h.orchestrator.QueueTournamentStructureSync(ctx,
		strings.TrimSpace(req.TournamentCode), strings.TrimSpace(req.EventCode))
	if err != nil {
		h.failQueue(ctx, w, syncjob.TypeTournamentStructure, err)
		return
	}
	writeSuccess(ctx, w, http.StatusAccepted, handle)
}

func (h *Handler) QueueStanding(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "QueueStanding")
	defer span.End()

	var req syncStandingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	handle, err := h.orchestrator.QueueStandingSync(ctx,
		strings.TrimSpace(req.TournamentCode),
		strings.TrimSpace(req.EventCode),
		strings.TrimSpace(req.DrawCode),
	)
	if err != nil {
		h.failQueue(ctx, w, syncjob.TypeStanding, err)
		return
	}
	writeSuccess(ctx, w, http.StatusAccepted, handle)
}

func (h *Handler) GetQueueStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "GetQueueStats")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.orchestrator.QueueStats())
}

func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "ListJobs")
	defer span.End()

	query := r.URL.Query()
	limit, err := parseLimit(query.Get("limit"), defaultJobListLimit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var status *syncjob.Status
	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		parsed, ok := syncjob.ParseStatus(raw)
		if !ok {
			writeError(ctx, w, fmt.Errorf("%w: unknown status %q", usecase.ErrInvalidInput, raw))
			return
		}
		status = &parsed
	}

	items, err := h.orchestrator.RecentJobs(ctx, limit, status)
	if err != nil {
		h.logger.ErrorContext(ctx, "list jobs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]jobLogDTO, 0, len(items))
	for _, item := range items {
		out = append(out, jobLogToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

// GetJob prefers the live snapshot and falls back to the persisted log row,
// so both job ids and log ids resolve.
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "GetJob")
	defer span.End()

	jobID := strings.TrimSpace(r.PathValue("jobID"))
	if jobID == "" {
		writeError(ctx, w, fmt.Errorf("%w: job id is required", usecase.ErrInvalidInput))
		return
	}

	if snapshot, ok := h.orchestrator.Job(jobID); ok {
		writeSuccess(ctx, w, http.StatusOK, snapshot)
		return
	}

	item, err := h.orchestrator.JobLog(ctx, jobID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, jobLogToDTO(item))
}

func (h *Handler) failQueue(ctx context.Context, w http.ResponseWriter, jobType syncjob.Type, err error) {
	h.logger.WarnContext(ctx, "queue sync job rejected", "job_type", string(jobType), "error", err)
	writeError(ctx, w, err)
}
