// Package http exposes the recommendation engine over HTTP along with
// health, readiness, and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/transfer-center/internal/domain"
)

// Recommender produces a recommendation for one transfer request. A nil
// recommendation with a nil error means no campus qualified.
type Recommender interface {
	Recommend(ctx context.Context, req domain.TransferRequest, campuses []domain.HospitalCampus, weather domain.WeatherData, modes []domain.TransportMode) (*domain.Recommendation, error)
}

// CampusSource supplies the current candidate campuses with live census
// counts applied.
type CampusSource interface {
	Campuses() []domain.HospitalCampus
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the recommendation endpoint plus health, readiness, and
// metrics routes.
type Server struct {
	httpServer  *http.Server
	recommender Recommender
	campuses    CampusSource
	logger      *slog.Logger
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(addr string, recommender Recommender, campuses CampusSource, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		recommender: recommender,
		campuses:    campuses,
		logger:      logger,
	}

	mux.HandleFunc("POST /api/v1/recommendations", s.handleRecommend)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// recommendRequest is the POST /api/v1/recommendations payload. Candidate
// campuses come from the server-side roster, not the caller.
type recommendRequest struct {
	Request        domain.TransferRequest `json:"transfer_request"`
	Weather        domain.WeatherData     `json:"weather"`
	AvailableModes []domain.TransportMode `json:"available_modes,omitempty"`
}

// recommendResponse wraps the recommendation so a null result is an explicit,
// well-formed 200 body rather than an error.
type recommendResponse struct {
	Recommendation *domain.Recommendation `json:"recommendation"`
	Message        string                 `json:"message,omitempty"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var payload recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body: " + err.Error()})
		return
	}

	rec, err := s.recommender.Recommend(r.Context(), payload.Request, s.campuses.Campuses(), payload.Weather, payload.AvailableModes)
	if err != nil {
		if errors.Is(r.Context().Err(), context.Canceled) {
			return
		}
		s.logger.Warn("recommendation rejected", "error", err, "request_id", payload.Request.RequestID)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	resp := recommendResponse{Recommendation: rec}
	if rec == nil {
		resp.Message = "no eligible campus for this transfer request"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
