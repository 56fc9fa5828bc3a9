//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/matchday/internal/config"
	"github.com/yourusername/matchday/internal/models"
	"github.com/yourusername/matchday/internal/store"
)

const skipIntegration = "Skipping integration test in short mode"

// TestPostgresDatasetIntegration exercises the games table round trip against
// a real database. Requires TEST_DATABASE_URL and the games schema applied.
func TestPostgresDatasetIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	ctx := context.Background()
	ds, err := store.NewPostgresDataset(ctx, &config.DatabaseConfig{MaxConnections: 2}, dsn, log)
	require.NoError(t, err)
	defer ds.Close()

	require.NoError(t, ds.Ping(ctx))

	hs, as := 112, 105
	games := []models.GameRecord{
		{
			Date: "2025-01-15", HomeTeam: "LAL", AwayTeam: "BOS",
			Status: models.GameCompleted, Winner: "LAL",
			HomeScore: &hs, AwayScore: &as,
			Box: []models.PlayerLine{{Player: "LAL-1", Team: "LAL", Points: 30}},
		},
		{
			Date: "2025-01-16", HomeTeam: "NYK", AwayTeam: "CHI",
			Status: models.GameScheduled,
		},
	}
	require.NoError(t, ds.SaveDataset(ctx, models.SportBasketball, games))

	// Upserting the same key twice must not duplicate rows.
	require.NoError(t, ds.SaveDataset(ctx, models.SportBasketball, games[:1]))

	loaded, err := ds.LoadDataset(ctx, models.SportBasketball)
	require.NoError(t, err)

	var completed, scheduled int
	for _, g := range loaded {
		switch {
		case g.Date == "2025-01-15" && g.HomeTeam == "LAL":
			completed++
			assert.Equal(t, "LAL", g.Winner)
			require.NotNil(t, g.HomeScore)
			assert.Equal(t, 112, *g.HomeScore)
			require.Len(t, g.Box, 1)
			assert.Equal(t, 30.0, g.Box[0].Points)
		case g.Date == "2025-01-16" && g.HomeTeam == "NYK":
			scheduled++
			assert.Equal(t, models.GameScheduled, g.Status)
			assert.Nil(t, g.HomeScore)
		}
	}
	assert.Equal(t, 1, completed, "completed game upserted exactly once")
	assert.Equal(t, 1, scheduled)
}
