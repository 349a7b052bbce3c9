package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metricsHandler http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}
}

func registerInternalSyncRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	guard := tokenGuard(internalJobToken)
	mux.Handle("POST /v1/internal/sync/discovery", guard(handler.QueueDiscovery))
	mux.Handle("POST /v1/internal/sync/competition-structure", guard(handler.QueueCompetitionStructure))
	mux.Handle("POST /v1/internal/sync/tournament-structure", guard(handler.QueueTournamentStructure))
	mux.Handle("POST /v1/internal/sync/standing", guard(handler.QueueStanding))
	mux.Handle("GET /v1/internal/sync/queue-stats", guard(handler.GetQueueStats))
	mux.Handle("GET /v1/internal/sync/jobs", guard(handler.ListJobs))
	mux.Handle("GET /v1/internal/sync/jobs/{jobID}", guard(handler.GetJob))
}

func registerInternalReviewRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	guard := tokenGuard(internalJobToken)
	mux.Handle("GET /v1/internal/reviews", guard(handler.ListPendingReviews))
	mux.Handle("GET /v1/internal/reviews/{reviewID}", guard(handler.GetReview))
	mux.Handle("POST /v1/internal/reviews/{reviewID}/resolve", guard(handler.ResolveReview))
	mux.Handle("GET /v1/internal/matches/medium-confidence", guard(handler.ListMediumConfidenceMatches))
}

func tokenGuard(token string) func(http.HandlerFunc) http.Handler {
	return func(fn http.HandlerFunc) http.Handler {
		return RequireInternalJobToken(token, fn)
	}
}
