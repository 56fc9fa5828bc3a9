package features

import (
	"fmt"

	"github.com/yourusername/matchday/internal/models"
)

// FootballRecentWindow is the trailing game count for football recent form.
const FootballRecentWindow = 5

// FootballCalculator computes two windows at once: trailing-five recent form
// and the full-season win rate.
type FootballCalculator struct {
	RecentWindow int
	MinGames     int
}

// NewFootballCalculator returns a calculator with the standard windows.
func NewFootballCalculator() *FootballCalculator {
	return &FootballCalculator{RecentWindow: FootballRecentWindow, MinGames: MinGames}
}

// Snapshot computes the team's strength summary as of asOf from games
// strictly before asOf. Returns ErrInsufficientData below the minimum gate.
func (c *FootballCalculator) Snapshot(team, asOf string, history []models.GameRecord) (*models.FootballSnapshot, error) {
	season := trailingGames(team, asOf, history, 0, false)

	// Only games with recorded scores are usable.
	scored := season[:0:0]
	for _, g := range season {
		if _, ok := g.ScoreFor(team); ok {
			scored = append(scored, g)
		}
	}

	if len(scored) < c.MinGames {
		return nil, fmt.Errorf("%s: %d games before %s: %w", team, len(scored), asOf, models.ErrInsufficientData)
	}

	recent := scored
	if len(recent) > c.RecentWindow {
		recent = recent[len(recent)-c.RecentWindow:]
	}

	var wins, pointsFor, pointsAgainst int
	for _, g := range recent {
		pf, _ := g.ScoreFor(team)
		pa, _ := g.ScoreAgainst(team)
		pointsFor += pf
		pointsAgainst += pa
		if g.Winner == team {
			wins++
		}
	}

	seasonWins := 0
	for _, g := range scored {
		if g.Winner == team {
			seasonWins++
		}
	}

	n := float64(len(recent))
	snap := &models.FootballSnapshot{
		Team:             team,
		AsOf:             asOf,
		WinRate:          float64(wins) / n,
		AvgPointsFor:     float64(pointsFor) / n,
		AvgPointsAgainst: float64(pointsAgainst) / n,
		SeasonWinRate:    float64(seasonWins) / float64(len(scored)),
		GamesCounted:     len(recent),
	}
	snap.PointDiff = snap.AvgPointsFor - snap.AvgPointsAgainst
	snap.RecentForm = snap.WinRate

	return snap, nil
}
