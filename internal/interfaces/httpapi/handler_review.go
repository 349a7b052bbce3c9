package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/tournament-sync/internal/domain/teamreview"
	"github.com/riskibarqy/tournament-sync/internal/usecase"
)

const defaultReviewListLimit = 100

func (h *Handler) ListPendingReviews(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "ListPendingReviews")
	defer span.End()

	query := r.URL.Query()
	limit, err := parseLimit(query.Get("limit"), defaultReviewListLimit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.reconciler.ListPendingReviews(ctx, teamreview.ListFilter{
		TournamentCode: strings.TrimSpace(query.Get("tournament_code")),
		Limit:          limit,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "list pending reviews failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]reviewDTO, 0, len(items))
	for _, item := range items {
		out = append(out, reviewToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetReview(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "GetReview")
	defer span.End()

	item, err := h.reconciler.GetReview(ctx, r.PathValue("reviewID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, reviewToDTO(item))
}

func (h *Handler) ResolveReview(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "ResolveReview")
	defer span.End()

	reviewID := strings.TrimSpace(r.PathValue("reviewID"))
	if reviewID == "" {
		writeError(ctx, w, fmt.Errorf("%w: review id is required", usecase.ErrInvalidInput))
		return
	}

	var req resolveReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	resolved, err := h.reconciler.ResolveReview(ctx, reviewID, usecase.ReviewDecision{
		Resolution: teamreview.Resolution(req.Resolution),
		TeamID:     req.TeamID,
		ResolvedBy: req.ResolvedBy,
		Notes:      req.Notes,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "resolve review failed", "review_id", reviewID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, reviewToDTO(resolved))
}

func (h *Handler) ListMediumConfidenceMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "ListMediumConfidenceMatches")
	defer span.End()

	items, err := h.reconciler.ListMediumConfidenceMatches(ctx, r.URL.Query().Get("tournament_code"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]tournamentTeamDTO, 0, len(items))
	for _, item := range items {
		out = append(out, tournamentTeamToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
