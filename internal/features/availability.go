package features

import "github.com/yourusername/matchday/internal/models"

// AvailabilityFloor is the lowest multiplicative strength factor either
// sport's availability estimate can produce.
const AvailabilityFloor = 0.70

// regularAppearances is the appearance count in the trailing window above
// which a player counts as part of the regular rotation.
const regularAppearances = 3

// RosterAvailability estimates basketball roster health from lineup
// continuity over the trailing ten games. The factor derates a team's
// offense-correlated metrics; shooting percentages and win rate are never
// scaled by it.
func RosterAvailability(team, asOf string, history []models.GameRecord) float64 {
	games := trailingGames(team, asOf, history, BasketballWindow, true)

	appearances := make(map[string]int)
	for _, g := range games {
		for _, line := range g.Box {
			if line.Team == team {
				appearances[line.Player]++
			}
		}
	}

	unique := len(appearances)
	regular := 0
	for _, n := range appearances {
		if n >= regularAppearances {
			regular++
		}
	}

	// Fixed descending step table over roster depth.
	switch {
	case unique >= 10 && regular >= 8:
		return 1.0
	case unique >= 9 && regular >= 7:
		return 0.95
	case unique >= 8 && regular >= 6:
		return 0.90
	case unique >= 7 && regular >= 5:
		return 0.85
	case unique >= 6:
		return 0.80
	case unique >= 5:
		return 0.75
	default:
		return AvailabilityFloor
	}
}

// keyPositions are the football positions whose injuries derate a team.
var keyPositions = map[string]bool{
	"QB": true,
	"RB": true,
	"WR": true,
	"TE": true,
	"OL": true,
}

// InjuryAvailability maps a football injury report to a strength factor:
// 0.05 per key-position injury, floored at 0.70. No injury data means full
// strength (fail-open).
func InjuryAvailability(entries []models.InjuryEntry) float64 {
	if len(entries) == 0 {
		return 1.0
	}
	count := 0
	for _, e := range entries {
		if keyPositions[e.Position] {
			count++
		}
	}
	factor := 1.0 - 0.05*float64(count)
	if factor < AvailabilityFloor {
		return AvailabilityFloor
	}
	return factor
}
