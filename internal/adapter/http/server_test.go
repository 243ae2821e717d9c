package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/transfer-center/internal/adapter/http"
	"github.com/couchcryptid/transfer-center/internal/domain"
)

type mockRecommender struct {
	rec *domain.Recommendation
	err error

	gotCampuses []domain.HospitalCampus
}

func (m *mockRecommender) Recommend(_ context.Context, _ domain.TransferRequest, campuses []domain.HospitalCampus, _ domain.WeatherData, _ []domain.TransportMode) (*domain.Recommendation, error) {
	m.gotCampuses = campuses
	return m.rec, m.err
}

type mockCampuses struct {
	campuses []domain.HospitalCampus
}

func (m *mockCampuses) Campuses() []domain.HospitalCampus { return m.campuses }

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

func newTestServer(rec *mockRecommender, readyErr error) *httpadapter.Server {
	campuses := &mockCampuses{campuses: []domain.HospitalCampus{{CampusID: "main", Name: "Main"}}}
	return httpadapter.NewServer(":0", rec, campuses, &mockReadiness{err: readyErr}, slog.Default())
}

const validBody = `{
	"transfer_request": {
		"request_id": "req-1",
		"patient_data": {"patient_id": "pat-1", "care_level": "ICU"},
		"sending_location": {"latitude": 29.76, "longitude": -95.37}
	},
	"weather": {"visibility_km": 10, "wind_speed_kph": 5}
}`

func TestRecommendReturnsRecommendation(t *testing.T) {
	rec := &mockRecommender{rec: &domain.Recommendation{
		TransferRequestID:   "req-1",
		RecommendedCampusID: "main",
		ConfidenceScore:     100,
	}}
	srv := newTestServer(rec, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(validBody))
	srv.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Recommendation *domain.Recommendation `json:"recommendation"`
		Message        string                 `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Recommendation)
	assert.Equal(t, "main", body.Recommendation.RecommendedCampusID)
	assert.Empty(t, body.Message)

	require.Len(t, rec.gotCampuses, 1, "server-side roster passed to the engine")
	assert.Equal(t, "main", rec.gotCampuses[0].CampusID)
}

func TestRecommendNullResultIs200(t *testing.T) {
	srv := newTestServer(&mockRecommender{rec: nil}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(validBody))
	srv.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Nil(t, body["recommendation"])
	assert.Equal(t, "no eligible campus for this transfer request", body["message"])
}

func TestRecommendRejectsMalformedBody(t *testing.T) {
	srv := newTestServer(&mockRecommender{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader("{not json"))
	srv.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "malformed request body")
}

func TestRecommendValidationErrorIs400(t *testing.T) {
	srv := newTestServer(&mockRecommender{err: errors.New("invalid transfer request: request_id is required")}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(validBody))
	srv.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "request_id is required")
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(&mockRecommender{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(&mockRecommender{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	srv.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(&mockRecommender{}, errors.New("rules not loaded"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	srv.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "rules not loaded")
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&mockRecommender{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	srv.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
