package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/collection-service/internal/delivery/http/handler"
	"github.com/user/collection-service/internal/delivery/http/middleware"
)

func New(h *handler.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.HandleHealthCheck)

	mux.HandleFunc("POST /api/capture-tokens", h.HandleIssueToken)
	mux.HandleFunc("POST /api/capture/submit", h.HandleSubmitCapture)
	mux.HandleFunc("GET /api/capture/result", h.HandleCaptureResult)
	mux.HandleFunc("GET /api/capture/agent.js", h.HandleAgentScript)

	mux.HandleFunc("POST /api/items", h.HandleAddItem)
	mux.HandleFunc("GET /api/items", h.HandleListItems)

	mux.HandleFunc("GET /api/community-records", h.HandleSearchCommunityRecords)
	mux.HandleFunc("POST /api/community-records/import/{targetID}", h.HandleImportCommunityRecord)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Apply middlewares
	var chainedHandler http.Handler = mux
	chainedHandler = middleware.Session(chainedHandler)
	chainedHandler = middleware.Metrics(chainedHandler)
	chainedHandler = middleware.Logging(chainedHandler)

	return chainedHandler
}
