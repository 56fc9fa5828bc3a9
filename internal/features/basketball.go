// Package features converts chronological game history into rolling-window
// team strength metrics and fixed-order matchup feature vectors.
//
// The single most important invariant here is the temporal cutoff: a snapshot
// as of date D is computed only from games strictly before D, so a prediction
// can never observe a result from its own date or later.
package features

import (
	"fmt"
	"sort"

	"github.com/yourusername/matchday/internal/models"
)

const (
	// BasketballWindow is the trailing game count for basketball snapshots.
	BasketballWindow = 10
	// MinGames is the minimum history below which no snapshot is produced.
	MinGames = 5
)

// BasketballCalculator computes rolling-window snapshots from per-player
// box-score history.
type BasketballCalculator struct {
	Window   int
	MinGames int
}

// NewBasketballCalculator returns a calculator with the standard windows.
func NewBasketballCalculator() *BasketballCalculator {
	return &BasketballCalculator{Window: BasketballWindow, MinGames: MinGames}
}

// Snapshot computes the team's strength summary as of asOf. Only completed
// games strictly before asOf contribute. Returns ErrInsufficientData when
// fewer than MinGames qualifying games exist.
func (c *BasketballCalculator) Snapshot(team, asOf string, history []models.GameRecord) (*models.TeamSnapshot, error) {
	games := trailingGames(team, asOf, history, c.Window, true)
	if len(games) < c.MinGames {
		return nil, fmt.Errorf("%s: %d games before %s: %w", team, len(games), asOf, models.ErrInsufficientData)
	}

	snap := &models.TeamSnapshot{Team: team, AsOf: asOf, GamesCounted: len(games)}
	wins := 0
	for _, g := range games {
		totals := teamBoxTotals(&g, team)
		snap.AvgPoints += totals.points
		snap.AvgAssists += totals.assists
		snap.AvgRebounds += totals.rebounds
		snap.FGPct += totals.fgPct
		snap.ThreePct += totals.threePct
		snap.FTPct += totals.ftPct
		snap.AvgGameScore += totals.gameScore
		if g.Winner == team {
			wins++
		}
	}

	n := float64(len(games))
	snap.AvgPoints /= n
	snap.AvgAssists /= n
	snap.AvgRebounds /= n
	snap.FGPct /= n
	snap.ThreePct /= n
	snap.FTPct /= n
	snap.AvgGameScore /= n
	snap.WinRate = float64(wins) / n

	return snap, nil
}

type boxTotals struct {
	points, assists, rebounds float64
	fgPct, threePct, ftPct    float64
	gameScore                 float64
}

// teamBoxTotals aggregates one game's box-score rows for a single team:
// counting stats are summed, shooting percentages and game score averaged.
func teamBoxTotals(g *models.GameRecord, team string) boxTotals {
	var t boxTotals
	players := 0
	for _, line := range g.Box {
		if line.Team != team {
			continue
		}
		players++
		t.points += line.Points
		t.assists += line.Assists
		t.rebounds += line.Rebounds
		t.fgPct += line.FGPct
		t.threePct += line.ThreePct
		t.ftPct += line.FTPct
		t.gameScore += line.GameScore
	}
	if players > 0 {
		t.fgPct /= float64(players)
		t.threePct /= float64(players)
		t.ftPct /= float64(players)
		t.gameScore /= float64(players)
	}
	return t
}

// trailingGames returns the team's most recent completed games strictly
// before asOf, oldest first, capped at window. When requireBox is set, games
// without box-score rows for the team are ignored.
func trailingGames(team, asOf string, history []models.GameRecord, window int, requireBox bool) []models.GameRecord {
	var games []models.GameRecord
	for _, g := range history {
		if !g.Involves(team) || !g.Completed() {
			continue
		}
		if g.Date >= asOf {
			continue
		}
		if requireBox && !hasBoxFor(&g, team) {
			continue
		}
		games = append(games, g)
	}
	sort.SliceStable(games, func(i, j int) bool { return games[i].Date < games[j].Date })
	if window > 0 && len(games) > window {
		games = games[len(games)-window:]
	}
	return games
}

func hasBoxFor(g *models.GameRecord, team string) bool {
	for _, line := range g.Box {
		if line.Team == team {
			return true
		}
	}
	return false
}
