package httpapi

import (
	"net/http"

	"github.com/riskibarqy/tournament-sync/internal/platform/logging"
)

// NewRouter wires the control API. metricsHandler may be nil.
func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	internalJobToken string,
	metricsHandler http.Handler,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, metricsHandler)
	registerInternalSyncRoutes(mux, handler, internalJobToken)
	registerInternalReviewRoutes(mux, handler, internalJobToken)

	// Outermost first: the server span must exist before the access log
	// reads trace ids from the request context.
	return withServerSpan(accessLog(logger, recoverPanic(logger, mux)))
}
