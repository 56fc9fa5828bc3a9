package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchday/internal/models"
	"github.com/yourusername/matchday/internal/store"
)

const scoreboardFixture = `{
	"events": [
		{
			"date": "2025-01-10T03:00Z",
			"season": {"year": 2024},
			"week": {"number": 0},
			"competitions": [{
				"competitors": [
					{"homeAway": "home", "score": "112", "winner": true, "team": {"abbreviation": "LAL"}},
					{"homeAway": "away", "score": "99", "team": {"abbreviation": "BOS"}}
				],
				"status": {"type": {"completed": true}}
			}]
		},
		{
			"date": "2025-01-11T02:30Z",
			"season": {"year": 2024},
			"week": {"number": 0},
			"competitions": [{
				"competitors": [
					{"homeAway": "home", "score": "", "team": {"abbreviation": "NYK"}},
					{"homeAway": "away", "score": "", "team": {"abbreviation": "CHI"}}
				],
				"status": {"type": {"completed": false}}
			}]
		}
	]
}`

func newTestESPN(t *testing.T, handler http.HandlerFunc) (*ESPNClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	httpClient := NewRateLimitedHTTPClient(HTTPClientConfig{
		Timeout:           2 * time.Second,
		MaxRetries:        0,
		RetryWaitMin:      time.Millisecond,
		RetryWaitMax:      time.Millisecond,
		RateLimit:         100,
		CircuitBreakerMax: 5,
	}, log)
	return NewESPNClient(httpClient, srv.URL, srv.URL, "matchday-test", log), srv
}

func TestFetchResultsParsesCompletedGames(t *testing.T) {
	client, _ := newTestESPN(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("dates"); got != "20250110" {
			t.Errorf("unexpected dates param %q", got)
		}
		w.Write([]byte(scoreboardFixture))
	})

	games, err := client.FetchResults(context.Background(), Slate{Sport: models.SportBasketball, Date: "2025-01-10"})
	if err != nil {
		t.Fatalf("fetch results: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 completed game, got %d", len(games))
	}
	g := games[0]
	if g.HomeTeam != "LAL" || g.AwayTeam != "BOS" || g.Winner != "LAL" {
		t.Fatalf("unexpected game: %+v", g)
	}
	if g.HomeScore == nil || *g.HomeScore != 112 {
		t.Fatalf("unexpected home score: %+v", g.HomeScore)
	}
	if g.Date != "2025-01-10" {
		t.Fatalf("unexpected date: %s", g.Date)
	}
}

func TestFetchScheduleParsesPendingGames(t *testing.T) {
	client, _ := newTestESPN(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(scoreboardFixture))
	})

	games, err := client.FetchSchedule(context.Background(), Slate{Sport: models.SportBasketball, Date: "2025-01-10"})
	if err != nil {
		t.Fatalf("fetch schedule: %v", err)
	}
	if len(games) != 1 || games[0].HomeTeam != "NYK" {
		t.Fatalf("expected the pending NYK game, got %+v", games)
	}
	if games[0].HomeScore != nil {
		t.Fatalf("scheduled game must not carry a score")
	}
}

func TestFootballSlateUsesWeekParams(t *testing.T) {
	client, _ := newTestESPN(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("week") != "18" || q.Get("seasontype") != "2" || q.Get("dates") != "2024" {
			t.Errorf("unexpected query %v", q)
		}
		w.Write([]byte(`{"events":[]}`))
	})

	week, season := 18, 2024
	_, err := client.FetchResults(context.Background(), Slate{Sport: models.SportFootball, Week: &week, Season: &season})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
}

func TestServerErrorSurfacesProviderError(t *testing.T) {
	client, _ := newTestESPN(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.FetchResults(context.Background(), Slate{Sport: models.SportBasketball, Date: "2025-01-10"})
	if err == nil {
		t.Fatalf("expected error for non-200 response")
	}
	provErr, ok := err.(ProviderError)
	if !ok {
		t.Fatalf("expected ProviderError, got %T", err)
	}
	if provErr.Code != ErrCodeServerError {
		t.Fatalf("unexpected code %s", provErr.Code)
	}
}

func TestFetchInjuriesParsesReport(t *testing.T) {
	client, _ := newTestESPN(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"injuries":[
			{"status":"Out","athlete":{"displayName":"P. Mahomes","position":{"abbreviation":"QB"}},"details":{"type":"Ankle"}}
		]}`))
	})

	entries, err := client.FetchInjuries(context.Background(), models.SportFootball, "KC")
	if err != nil {
		t.Fatalf("fetch injuries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Position != "QB" || entries[0].Status != "Out" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestCachedProviderAvoidsRepeatFetches(t *testing.T) {
	calls := 0
	client, _ := newTestESPN(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(scoreboardFixture))
	})

	cached := NewCachedProvider(client, time.Minute)
	slate := Slate{Sport: models.SportBasketball, Date: "2025-01-10"}

	for i := 0; i < 3; i++ {
		if _, err := cached.FetchSchedule(context.Background(), slate); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", calls)
	}
}

func TestDatasetProviderFiltersSlate(t *testing.T) {
	mem := store.NewMemoryStore()
	hs, as := 110, 99
	games := []models.GameRecord{
		{Date: "2025-01-10", HomeTeam: "LAL", AwayTeam: "BOS", Status: models.GameCompleted, Winner: "LAL", HomeScore: &hs, AwayScore: &as},
		{Date: "2025-01-10", HomeTeam: "NYK", AwayTeam: "CHI", Status: models.GameScheduled},
		{Date: "2025-01-11", HomeTeam: "GSW", AwayTeam: "MIA", Status: models.GameScheduled},
	}
	if err := mem.SaveDataset(context.Background(), models.SportBasketball, games); err != nil {
		t.Fatalf("seed: %v", err)
	}

	p := NewDatasetProvider(mem)
	slate := Slate{Sport: models.SportBasketball, Date: "2025-01-10"}

	scheduled, err := p.FetchSchedule(context.Background(), slate)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if len(scheduled) != 1 || scheduled[0].HomeTeam != "NYK" {
		t.Fatalf("unexpected schedule: %+v", scheduled)
	}

	results, err := p.FetchResults(context.Background(), slate)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(results) != 1 || results[0].Winner != "LAL" {
		t.Fatalf("unexpected results: %+v", results)
	}
}
