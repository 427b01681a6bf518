package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"

	"dropzone/internal/daemon"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeMonitor(t *testing.T, active int) *atomic.Bool {
	t.Helper()

	stopped := new(atomic.Bool)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /stop", func(w http.ResponseWriter, r *http.Request) {
		stopped.Store(true)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "stopping"})
	})
	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(daemon.StatusResponse{Stopping: stopped.Load(), Active: active})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	prev := cfg.DaemonPort
	cfg.DaemonPort = port
	t.Cleanup(func() { cfg.DaemonPort = prev })
	return stopped
}

func TestStopReportsActiveTransfers(t *testing.T) {
	stopped := fakeMonitor(t, 3)

	require.NoError(t, stopCmd.RunE(stopCmd, nil))
	assert.True(t, stopped.Load())

	active, err := activeTransfers()
	require.NoError(t, err)
	assert.Equal(t, 3, active)
}

func TestStopWithoutMonitor(t *testing.T) {
	prev := cfg.DaemonPort
	cfg.DaemonPort = 1
	t.Cleanup(func() { cfg.DaemonPort = prev })

	err := stopCmd.RunE(stopCmd, nil)
	assert.ErrorContains(t, err, "monitor not running")
}
