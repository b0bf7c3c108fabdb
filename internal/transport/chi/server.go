package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecsearch/internal/domain"
	domindex "github.com/kailas-cloud/vecsearch/internal/domain/index"
	logpkg "github.com/kailas-cloud/vecsearch/internal/logger"
	"github.com/kailas-cloud/vecsearch/internal/metrics"
	healthuc "github.com/kailas-cloud/vecsearch/internal/usecase/health"
)

// Error codes returned in ErrorResponse.Code.
const (
	ErrorCodeUnauthorized   = "unauthorized"
	ErrorCodeNotConfigured  = "not_configured"
	ErrorCodeInternalError  = "internal_error"
	ErrorCodeIndexError     = "index_error"
	ErrorCodeConfiguration  = "configuration_error"
	ErrorCodeConnectionFail = "connection_error"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the JSON body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// IndexItem is one entry of GET /indexes.
type IndexItem struct {
	Name      string `json:"name"`
	Type      string `json:"type,omitempty"`
	Status    string `json:"status"`
	Queryable bool   `json:"queryable"`
}

// IndexLister lists the search indexes of the configured collection.
type IndexLister interface {
	ListIndexes(ctx context.Context) ([]domindex.Info, error)
}

// Server exposes health, metrics and a read-only index listing over HTTP.
type Server struct {
	health  *healthuc.Service
	indexes IndexLister
	logger  *zap.Logger
}

// NewServer creates an observability server. indexes may be nil, which disables GET /indexes.
func NewServer(health *healthuc.Service, indexes IndexLister, logger *zap.Logger) *Server {
	return &Server{health: health, indexes: indexes, logger: logger}
}

// Router builds the chi router with the middleware stack. Empty apiKeys disables auth.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/indexes", s.ListIndexes)
	return r
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ListIndexes handles GET /indexes.
func (s *Server) ListIndexes(w http.ResponseWriter, r *http.Request) {
	if s.indexes == nil {
		writeError(w, http.StatusNotImplemented, ErrorCodeNotConfigured, "index listing is not configured")
		return
	}

	infos, err := s.indexes.ListIndexes(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]IndexItem, len(infos))
	for i, info := range infos {
		items[i] = IndexItem{
			Name:      info.Name,
			Type:      info.Type,
			Status:    info.DisplayStatus(),
			Queryable: info.Queryable,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	switch {
	case errors.Is(err, domain.ErrConfiguration):
		log.Error("configuration error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, ErrorCodeConfiguration, domain.ErrConfiguration.Error())
	case errors.Is(err, domain.ErrConnection):
		log.Warn("document store unreachable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, ErrorCodeConnectionFail, domain.ErrConnection.Error())
	case errors.Is(err, domain.ErrIndex):
		log.Warn("index error", zap.Error(err))
		writeError(w, http.StatusBadGateway, ErrorCodeIndexError, domain.ErrIndex.Error())
	default:
		log.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
