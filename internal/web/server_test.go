// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatling/chatling/internal/bot"
	"github.com/chatling/chatling/internal/plugin"
)

type noopPlugin struct {
	plugin.Base
}

func newNoopPlugin(name string) *noopPlugin {
	return &noopPlugin{Base: plugin.NewBase(plugin.Options{Name: name})}
}

func newTestServer(t *testing.T, ready ReadinessChecker) (*Server, *plugin.Registry) {
	t.Helper()
	registry := plugin.NewRegistry(bot.NewRuntime(nil), "127.0.0.1", 0)
	return NewServer("127.0.0.1:0", registry, ready), registry
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServer_Liveness(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := get(t, s, "/healthz/liveness")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestServer_Readiness(t *testing.T) {
	ready := false
	s, _ := newTestServer(t, func() bool { return ready })

	rec := get(t, s, "/healthz/readiness")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	ready = true
	rec = get(t, s, "/healthz/readiness")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Metrics(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := get(t, s, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestServer_PluginListing(t *testing.T) {
	s, registry := newTestServer(t, nil)
	registry.Add(newNoopPlugin("greeter"))
	registry.Add(newNoopPlugin("echo"))
	require.NoError(t, registry.Stop("echo"))

	rec := get(t, s, "/plugins")
	require.Equal(t, http.StatusOK, rec.Code)

	var statuses []PluginStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &statuses))
	assert.Equal(t, []PluginStatus{
		{Name: "greeter", Status: "running"},
		{Name: "echo", Status: "stopped"},
	}, statuses)
}

func TestServer_PluginListingMatchFilter(t *testing.T) {
	s, registry := newTestServer(t, nil)
	registry.Add(newNoopPlugin("greeter"))
	registry.Add(newNoopPlugin("echo"))

	rec := get(t, s, "/plugins?match=gre*")
	require.Equal(t, http.StatusOK, rec.Code)

	var statuses []PluginStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &statuses))
	assert.Equal(t, []PluginStatus{{Name: "greeter", Status: "running"}}, statuses)

	rec = get(t, s, "/plugins?match=[invalid")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_StartStop(t *testing.T) {
	s, _ := newTestServer(t, nil)

	errCh, err := s.Start()
	require.NoError(t, err)
	require.NotEmpty(t, s.Addr())

	// Double start is rejected.
	_, err = s.Start()
	assert.Error(t, err)

	resp, err := http.Get("http://" + s.Addr() + "/healthz/liveness")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Stop(context.Background()))

	// The serve goroutine exits cleanly on graceful shutdown.
	serveErr, open := <-errCh
	assert.False(t, open)
	assert.NoError(t, serveErr)
}
