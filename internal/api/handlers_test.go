package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/matchday/internal/config"
	"github.com/yourusername/matchday/internal/models"
	"github.com/yourusername/matchday/internal/service"
	"github.com/yourusername/matchday/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	cfg := &config.Config{
		App:   config.AppConfig{Name: "matchday", Environment: "development", LogLevel: "error"},
		Model: config.ModelConfig{Trees: 10, MaxDepth: 4, MinLeaf: 2, Seed: 42, HoldoutFraction: 0.2},
	}

	mem := store.NewMemoryStore()
	predictor := service.NewPredictor(cfg, log, mem, mem, nil)

	router := gin.New()
	SetupRoutes(router, &handlers{predictor: predictor, log: log}, false)
	return router, mem
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestGetPredictionsEmptyByDefault(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/predictions?sport=nba", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Sport       string              `json:"sport"`
		Predictions []models.Prediction `json:"predictions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "nba", body.Sport)
	assert.Empty(t, body.Predictions)
}

func TestInvalidSportRejected(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats?sport=mlb", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "sport must be nba or nfl")
}

func TestCronPredictionsGeneratesSlate(t *testing.T) {
	router, mem := newTestRouter(t)

	hs, as := 112, 99
	games := []models.GameRecord{
		{Date: "2025-01-05", HomeTeam: "LAL", AwayTeam: "BOS", Status: models.GameCompleted, Winner: "LAL", HomeScore: &hs, AwayScore: &as},
		{Date: "2025-01-10", HomeTeam: "LAL", AwayTeam: "BOS", Status: models.GameScheduled},
	}
	require.NoError(t, mem.SaveDataset(context.Background(), models.SportBasketball, games))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cron/predictions?sport=nba&date=2025-01-10", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Generated   int                 `json:"generated"`
		Predictions []models.Prediction `json:"predictions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Generated)
	require.Len(t, body.Predictions, 1)
	assert.Equal(t, "LAL", body.Predictions[0].Winner)
}

func TestStatsReflectsLedger(t *testing.T) {
	router, mem := newTestRouter(t)

	hs, as := 112, 99
	games := []models.GameRecord{
		{Date: "2025-01-05", HomeTeam: "LAL", AwayTeam: "BOS", Status: models.GameCompleted, Winner: "LAL", HomeScore: &hs, AwayScore: &as},
		{Date: "2025-01-10", HomeTeam: "LAL", AwayTeam: "BOS", Status: models.GameScheduled},
	}
	require.NoError(t, mem.SaveDataset(context.Background(), models.SportBasketball, games))

	// Generate, then complete the game and reconcile through the API.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/cron/predictions?sport=nba&date=2025-01-10", nil))
	require.Equal(t, http.StatusOK, w.Code)

	games[1] = models.GameRecord{Date: "2025-01-10", HomeTeam: "LAL", AwayTeam: "BOS", Status: models.GameCompleted, Winner: "LAL", HomeScore: &hs, AwayScore: &as}
	require.NoError(t, mem.SaveDataset(context.Background(), models.SportBasketball, games))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/cron/reconcile?sport=nba", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats?sport=nba", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Stats models.Stats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Stats.TotalPredictions)
	assert.Equal(t, "1-0", body.Stats.Record)
}
