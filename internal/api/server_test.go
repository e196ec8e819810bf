// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/innkeep/internal/api"
	"github.com/taibuivan/innkeep/internal/core/availability"
	"github.com/taibuivan/innkeep/internal/core/dashboard"
	"github.com/taibuivan/innkeep/internal/core/guesthouse"
	"github.com/taibuivan/innkeep/internal/core/photo"
	"github.com/taibuivan/innkeep/internal/core/room"
	"github.com/taibuivan/innkeep/internal/platform/access"
	"github.com/taibuivan/innkeep/internal/platform/config"
	"github.com/taibuivan/innkeep/internal/platform/metrics"
	"github.com/taibuivan/innkeep/internal/users/account"
	"github.com/taibuivan/innkeep/internal/users/auth"
)

type noSessions struct{}

func (noSessions) ResolvePrincipal(context.Context, string) *access.Principal { return nil }

func newTestServer(t *testing.T, deps api.HealthDependencies) (http.Handler, string) {
	t.Helper()

	mediaRoot := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{
		ServerPort:       "0",
		Environment:      "development",
		BlobProvider:     config.BlobProviderLocal,
		LocalBlobRoot:    mediaRoot,
		LocalBlobBaseURL: "/media",
	}

	liveness, readiness := api.NewHealthHandlers(deps, logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := api.NewServer(ctx, cfg, logger, noSessions{}, metrics.New(), api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Auth:         auth.NewHandler(nil, false),
		Account:      account.NewHandler(nil),
		Guesthouse:   guesthouse.NewHandler(nil),
		Room:         room.NewHandler(nil),
		Availability: availability.NewHandler(nil),
		Photo:        photo.NewHandler(nil, 1<<20),
		Dashboard:    dashboard.NewHandler(nil),
	})

	return server.Handler(), mediaRoot
}

func serve(handler http.Handler, method, target string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(method, target, nil))
	return recorder
}

/*
TestHealthEndpoints covers liveness and a degraded readiness check.
*/
func TestHealthEndpoints(t *testing.T) {
	handler, _ := newTestServer(t, api.HealthDependencies{
		CheckDatabase: func(context.Context) error { return errors.New("connection refused") },
		CheckCache:    func(context.Context) error { return nil },
	})

	live := serve(handler, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, live.Code)
	assert.Contains(t, live.Body.String(), `"status":"ok"`)

	ready := serve(handler, http.MethodGet, "/ready")
	require.Equal(t, http.StatusServiceUnavailable, ready.Code)

	var body struct {
		Data struct {
			Status string `json:"status"`
			Checks []struct {
				Name string `json:"name"`
				OK   bool   `json:"ok"`
			} `json:"checks"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(ready.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Data.Status)
	require.Len(t, body.Data.Checks, 2)
	assert.False(t, body.Data.Checks[0].OK)
	assert.True(t, body.Data.Checks[1].OK)
}

/*
TestProtectedRoutesRequireSession verifies every domain group sits behind the session guard.
*/
func TestProtectedRoutesRequireSession(t *testing.T) {
	handler, _ := newTestServer(t, api.HealthDependencies{})

	targets := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/guesthouses"},
		{http.MethodGet, "/api/v1/guesthouses/0190a3c4-0000-7000-8000-000000000001/photos"},
		{http.MethodGet, "/api/v1/rooms"},
		{http.MethodPut, "/api/v1/rooms/0190a3c4-0000-7000-8000-000000000001/availability"},
		{http.MethodDelete, "/api/v1/photos/0190a3c4-0000-7000-8000-000000000001"},
		{http.MethodGet, "/api/v1/dashboard"},
		{http.MethodGet, "/api/v1/users/managers"},
		{http.MethodGet, "/api/v1/auth/me"},
	}

	for _, target := range targets {
		t.Run(target.method+" "+target.path, func(t *testing.T) {
			recorder := serve(handler, target.method, target.path)
			assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		})
	}
}

/*
TestMediaAndMetrics checks local photo serving and the scrape endpoint.
*/
func TestMediaAndMetrics(t *testing.T) {
	handler, mediaRoot := newTestServer(t, api.HealthDependencies{})

	folder := filepath.Join(mediaRoot, "guesthouse-1")
	require.NoError(t, os.MkdirAll(folder, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(folder, "cover.txt"), []byte("hello"), 0o644))

	file := serve(handler, http.MethodGet, "/media/guesthouse-1/cover.txt")
	assert.Equal(t, http.StatusOK, file.Code)
	assert.Equal(t, "hello", file.Body.String())

	listing := serve(handler, http.MethodGet, "/media/guesthouse-1/")
	assert.Equal(t, http.StatusNotFound, listing.Code)

	serve(handler, http.MethodGet, "/health")
	scrape := serve(handler, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, scrape.Code)
	assert.Contains(t, scrape.Body.String(), `innkeep_http_requests_total{method="GET",route="/health",status="200"}`)
}
