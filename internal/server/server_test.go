package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/roadvision/store/internal/config"
	"github.com/roadvision/store/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: config.DatabaseConfig{
			Driver:     config.DriverSQLite,
			InitSchema: true,
			SQLite:     config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "store.db")},
		},
		Broadcast: config.BroadcastConfig{SendBuffer: 8},
	}
}

const body = `{"road_state":"good","agent_data":{"accelerometer":{"x":1,"y":2,"z":3},"gps":{"latitude":50.45,"longitude":30.52},"timestamp":"2024-01-01T00:00:00"}}`

func TestInitialize_ServesRequests(t *testing.T) {
	s := New(testConfig(t))
	require.NoError(t, s.initialize())
	defer s.Shutdown(context.Background())

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/processed_agent_data/", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Eventually(t, func() bool {
		return s.monitoring.GetEventMetrics().Counts["processed_agent_data_created"] == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestInitialize_LifecycleEventsReachMonitoring(t *testing.T) {
	s := New(testConfig(t))
	require.NoError(t, s.initialize())
	defer s.Shutdown(context.Background())

	created, err := s.agentservice.Create(context.Background(), mustDecode(t))
	require.NoError(t, err)
	_, err = s.agentservice.Delete(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		counts := s.monitoring.GetEventMetrics().Counts
		return counts["processed_agent_data_created"] == 1 && counts["processed_agent_data_deleted"] == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestInitialize_BadDatabaseReleasesResources(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.SQLite.Path = filepath.Join(t.TempDir(), "missing", "dir", "store.db")

	s := New(cfg)
	err := s.initialize()
	require.Error(t, err)
	s.release()
	assert.Nil(t, s.db)
}

func TestShutdown_ReleasesEverything(t *testing.T) {
	s := New(testConfig(t))
	require.NoError(t, s.initialize())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	assert.Nil(t, s.db)
	assert.Zero(t, s.registry.Count())
}

func mustDecode(t *testing.T) *models.ProcessedAgentDataRequest {
	t.Helper()
	req, err := models.DecodeProcessedAgentDataRequest([]byte(body))
	require.NoError(t, err)
	return req
}
