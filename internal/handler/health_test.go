package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maxviazov/football-sim-service/internal/handler"
)

func TestHealthRoutes(t *testing.T) {
	cases := []struct {
		name   string
		pinger handler.Pinger
		path   string
		want   int
	}{
		{"live root", stubPinger{}, "/live", http.StatusOK},
		{"ready root", stubPinger{}, "/ready", http.StatusOK},
		{"ready root down", stubPinger{err: errors.New("db down")}, "/ready", http.StatusServiceUnavailable},
		{"versioned live", stubPinger{}, "/api/v1/health/live", http.StatusOK},
		{"versioned ready", stubPinger{}, "/api/v1/health/ready", http.StatusOK},
		{"versioned ready down", stubPinger{err: errors.New("db down")}, "/api/v1/health/ready", http.StatusServiceUnavailable},
		{"no pinger", nil, "/ready", http.StatusServiceUnavailable},
		{"unknown", stubPinger{}, "/no-such", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRouter(tc.pinger, handler.Services{})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestDocsRoutes(t *testing.T) {
	r := newRouter(stubPinger{}, handler.Services{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/matches/{id}/simulate")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swagger-ui")
}
