package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchday/internal/models"
)

// ESPNClient implements Provider against the public ESPN site API. One
// client serves both leagues; the per-sport base URLs come from
// configuration.
type ESPNClient struct {
	httpClient *RateLimitedHTTPClient
	nbaBaseURL string
	nflBaseURL string
	userAgent  string
	log        *logrus.Logger
}

// NewESPNClient creates a new ESPN API client.
func NewESPNClient(httpClient *RateLimitedHTTPClient, nbaBaseURL, nflBaseURL, userAgent string, log *logrus.Logger) *ESPNClient {
	return &ESPNClient{
		httpClient: httpClient,
		nbaBaseURL: strings.TrimRight(nbaBaseURL, "/"),
		nflBaseURL: strings.TrimRight(nflBaseURL, "/"),
		userAgent:  userAgent,
		log:        log,
	}
}

// Name returns the provider name.
func (c *ESPNClient) Name() string { return "espn" }

// scoreboardResponse mirrors the subset of the ESPN scoreboard payload we
// consume.
type scoreboardResponse struct {
	Events []struct {
		Date   string `json:"date"`
		Season struct {
			Year int `json:"year"`
		} `json:"season"`
		Week struct {
			Number int `json:"number"`
		} `json:"week"`
		Competitions []struct {
			Competitors []struct {
				HomeAway string `json:"homeAway"`
				Score    string `json:"score"`
				Winner   bool   `json:"winner"`
				Team     struct {
					Abbreviation string `json:"abbreviation"`
					DisplayName  string `json:"displayName"`
				} `json:"team"`
			} `json:"competitors"`
			Status struct {
				Type struct {
					Completed bool `json:"completed"`
				} `json:"type"`
			} `json:"status"`
		} `json:"competitions"`
	} `json:"events"`
}

// injuriesResponse mirrors the subset of the ESPN team injuries payload we
// consume.
type injuriesResponse struct {
	Injuries []struct {
		Status  string `json:"status"`
		Athlete struct {
			DisplayName string `json:"displayName"`
			Position    struct {
				Abbreviation string `json:"abbreviation"`
			} `json:"position"`
		} `json:"athlete"`
		Details struct {
			Type string `json:"type"`
		} `json:"details"`
	} `json:"injuries"`
}

// FetchSchedule retrieves the scheduled games for a slate.
func (c *ESPNClient) FetchSchedule(ctx context.Context, slate Slate) ([]models.GameRecord, error) {
	games, err := c.fetchScoreboard(ctx, slate)
	if err != nil {
		return nil, err
	}
	var scheduled []models.GameRecord
	for _, g := range games {
		if g.Status == models.GameScheduled {
			scheduled = append(scheduled, g)
		}
	}
	return scheduled, nil
}

// FetchResults retrieves completed games for a slate.
func (c *ESPNClient) FetchResults(ctx context.Context, slate Slate) ([]models.GameRecord, error) {
	games, err := c.fetchScoreboard(ctx, slate)
	if err != nil {
		return nil, err
	}
	var completed []models.GameRecord
	for _, g := range games {
		if g.Completed() {
			completed = append(completed, g)
		}
	}
	return completed, nil
}

// FetchInjuries retrieves the current injury report for a team.
func (c *ESPNClient) FetchInjuries(ctx context.Context, sport models.Sport, team string) ([]models.InjuryEntry, error) {
	endpoint := fmt.Sprintf("%s/teams/%s/injuries", c.baseURL(sport), url.PathEscape(team))

	var payload injuriesResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	entries := make([]models.InjuryEntry, 0, len(payload.Injuries))
	for _, inj := range payload.Injuries {
		entries = append(entries, models.InjuryEntry{
			Player:   inj.Athlete.DisplayName,
			Position: inj.Athlete.Position.Abbreviation,
			Status:   inj.Status,
			Injury:   inj.Details.Type,
		})
	}
	return entries, nil
}

func (c *ESPNClient) baseURL(sport models.Sport) string {
	if sport == models.SportFootball {
		return c.nflBaseURL
	}
	return c.nbaBaseURL
}

func (c *ESPNClient) fetchScoreboard(ctx context.Context, slate Slate) ([]models.GameRecord, error) {
	endpoint := c.baseURL(slate.Sport) + "/scoreboard"
	params := url.Values{}
	switch {
	case slate.Sport == models.SportFootball && slate.Week != nil:
		params.Set("week", strconv.Itoa(*slate.Week))
		params.Set("seasontype", "2")
		if slate.Season != nil {
			params.Set("dates", strconv.Itoa(*slate.Season))
		}
	case slate.Date != "":
		params.Set("dates", strings.ReplaceAll(slate.Date, "-", ""))
	}
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var payload scoreboardResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	var games []models.GameRecord
	for _, ev := range payload.Events {
		if len(ev.Competitions) == 0 {
			continue
		}
		comp := ev.Competitions[0]

		g := models.GameRecord{Status: models.GameScheduled}
		if date, err := time.Parse("2006-01-02T15:04Z", ev.Date); err == nil {
			g.Date = date.Format(models.DateLayout)
		} else if len(ev.Date) >= len(models.DateLayout) {
			g.Date = ev.Date[:len(models.DateLayout)]
		}
		if ev.Season.Year > 0 {
			season := ev.Season.Year
			g.Season = &season
		}
		if slate.Sport == models.SportFootball && ev.Week.Number > 0 {
			week := ev.Week.Number
			g.Week = &week
		}

		for _, side := range comp.Competitors {
			name := side.Team.Abbreviation
			if name == "" {
				name = side.Team.DisplayName
			}
			score, scoreErr := strconv.Atoi(side.Score)
			if side.HomeAway == "home" {
				g.HomeTeam = name
				if scoreErr == nil {
					g.HomeScore = &score
				}
			} else {
				g.AwayTeam = name
				if scoreErr == nil {
					g.AwayScore = &score
				}
			}
			if side.Winner {
				g.Winner = name
			}
		}

		if comp.Status.Type.Completed {
			g.Status = models.GameCompleted
			// Some final feeds omit the winner flag; fall back to scores.
			if g.Winner == "" && g.HomeScore != nil && g.AwayScore != nil {
				if *g.HomeScore >= *g.AwayScore {
					g.Winner = g.HomeTeam
				} else {
					g.Winner = g.AwayTeam
				}
			}
		}

		if g.HomeTeam == "" || g.AwayTeam == "" {
			c.log.WithField("date", g.Date).Warn("Skipping event with missing competitors")
			continue
		}
		games = append(games, g)
	}
	return games, nil
}

func (c *ESPNClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return NewProviderError(c.Name(), ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return NewProviderError(c.Name(), ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return NewProviderError(c.Name(), ErrCodeNotFound, "resource not found", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewProviderError(c.Name(), ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode != http.StatusOK:
		return NewProviderError(c.Name(), ErrCodeServerError, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewProviderError(c.Name(), ErrCodeInvalidData, "failed to parse response", err)
	}
	return nil
}
