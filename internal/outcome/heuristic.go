package outcome

import "github.com/yourusername/matchday/internal/models"

// Heuristic confidence bounds.
const (
	heuristicMinConfidence = 0.52
	heuristicMaxConfidence = 0.92
	heuristicTieConfidence = 0.55
)

// Heuristic is the rule-based fallback predictor used when no trained model
// is available (cold start, backfill). It uses each team's trailing win rate
// and average score computed from strictly earlier completed games only, so
// it obeys the same no-future-leakage invariant as the feature calculators.
type Heuristic struct {
	// DefaultPoints substitutes for a team's average score when it has no
	// prior scored games (100 for basketball, 22 for football).
	DefaultPoints float64
}

// NewHeuristic returns the fallback predictor for a sport.
func NewHeuristic(sport models.Sport) *Heuristic {
	if sport == models.SportFootball {
		return &Heuristic{DefaultPoints: 22}
	}
	return &Heuristic{DefaultPoints: 100}
}

// Predict picks the higher trailing-win-rate team, breaking ties by average
// score (home side on an exact tie of both). Deterministic: identical history
// always yields identical output.
func (h *Heuristic) Predict(homeTeam, awayTeam, date string, history []models.GameRecord) *GameOutcome {
	homeWR, homeAvg := h.trailingForm(homeTeam, date, history)
	awayWR, awayAvg := h.trailingForm(awayTeam, date, history)

	out := &GameOutcome{}
	if homeWR != awayWR {
		if homeWR > awayWR {
			out.Winner = homeTeam
		} else {
			out.Winner = awayTeam
		}
		out.Confidence = clamp(0.5+abs(homeWR-awayWR), heuristicMinConfidence, heuristicMaxConfidence)
	} else {
		if homeAvg >= awayAvg {
			out.Winner = homeTeam
		} else {
			out.Winner = awayTeam
		}
		out.Confidence = heuristicTieConfidence
	}

	if out.Winner == homeTeam {
		out.HomeWinProb = out.Confidence
		out.AwayWinProb = 1 - out.Confidence
	} else {
		out.HomeWinProb = 1 - out.Confidence
		out.AwayWinProb = out.Confidence
	}
	return out
}

// trailingForm computes win rate and average score from completed games
// strictly before date. Teams with no prior games default to a 0.5 win rate.
func (h *Heuristic) trailingForm(team, date string, history []models.GameRecord) (winRate, avgScore float64) {
	var games, wins, scored int
	var points float64
	for _, g := range history {
		if !g.Completed() || g.Date >= date || !g.Involves(team) {
			continue
		}
		games++
		if g.Winner == team {
			wins++
		}
		if pts, ok := g.ScoreFor(team); ok {
			points += float64(pts)
			scored++
		}
	}

	winRate = 0.5
	if games > 0 {
		winRate = float64(wins) / float64(games)
	}
	avgScore = h.DefaultPoints
	if scored > 0 {
		avgScore = points / float64(scored)
	}
	return winRate, avgScore
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
