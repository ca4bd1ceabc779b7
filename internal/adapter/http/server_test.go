package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockReadiness struct {
	stations int
	err      error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.stations, nil
}

func testServer(ready ReadinessChecker) *Server {
	return NewServer(":0", ready, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// --- tests ---

func TestHealthz(t *testing.T) {
	s := testServer(&mockReadiness{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyz_Ready(t *testing.T) {
	s := testServer(&mockReadiness{stations: 212})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, float64(212), body["stations"], "catalog size is surfaced when ready")
}

func TestReadyz_NotReady(t *testing.T) {
	s := testServer(&mockReadiness{err: errors.New("station catalog unavailable")})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "not ready", body["status"])
	assert.Contains(t, body["error"], "station catalog unavailable")
}

func TestMetricsEndpoint(t *testing.T) {
	s := testServer(&mockReadiness{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestUnknownRouteReturns404(t *testing.T) {
	s := testServer(&mockReadiness{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stations", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthzRejectsPost(t *testing.T) {
	s := testServer(&mockReadiness{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
