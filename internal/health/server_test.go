package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (s *stubPinger) Ping(ctx context.Context) error { return s.err }

func newTestServer(pinger DatasetPinger) *Server {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewServer(Config{
		ServiceName: "matchday",
		Port:        0,
		MetricsPath: "/metrics",
		Logger:      log,
		Dataset:     pinger,
	})
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(nil)

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "matchday", resp.Service)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestReadyBeforeStateRestore(t *testing.T) {
	s := newTestServer(nil)

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s.SetReady(true)
	rec = httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyReportsDatasetFailure(t *testing.T) {
	s := newTestServer(&stubPinger{err: errors.New("connection refused")})
	s.SetReady(true)

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_ready", resp.Status)
	assert.Contains(t, resp.Checks["dataset"], "connection refused")
	assert.Equal(t, "ok", resp.Checks["service"])
}
