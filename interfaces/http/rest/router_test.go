package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tabman-backend/internal/repository"
	"tabman-backend/internal/service/tabs"
	"tabman-backend/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler() http.Handler {
	repo := repository.New(memory.New())
	service := tabs.NewService(repo, zap.NewNop())
	return NewRouter(service, zap.NewNop()).Setup()
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	handler := newTestHandler()

	t.Run("ReportsStoredTabCount", func(t *testing.T) {
		rec := doRequest(t, handler, http.MethodPost, "/api/tabs",
			`{"url": "https://a.com", "title": "Alpha"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = doRequest(t, handler, http.MethodGet, "/api/health", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, float64(1), body["tabs_stored"])
		assert.NotEmpty(t, body["timestamp"])
	})
}

func TestAPIIndex(t *testing.T) {
	handler := newTestHandler()

	rec := doRequest(t, handler, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Service   string            `json:"service"`
		Endpoints map[string]string `json:"endpoints"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "tab manager", body.Service)
	assert.Contains(t, body.Endpoints, "GET /api/health")
	assert.Contains(t, body.Endpoints, "POST /api/tabs")
}
