package models

import (
	"fmt"

	"github.com/google/uuid"
)

// Prediction is one generated pick for a matchup. A regeneration run for the
// same date or week supersedes the earlier prediction rather than merging
// with it. Optional fields are omitted (never null) so the persisted JSON
// shape stays stable across runs.
type Prediction struct {
	ID               uuid.UUID `json:"id"`
	HomeTeam         string    `json:"home_team"`
	AwayTeam         string    `json:"away_team"`
	Date             string    `json:"date"`
	Winner           string    `json:"winner"`
	Confidence       float64   `json:"confidence"`
	HomeWinProb      float64   `json:"home_win_prob"`
	AwayWinProb      float64   `json:"away_win_prob"`
	HomeAvailability float64   `json:"home_injury_factor,omitempty"`
	AwayAvailability float64   `json:"away_injury_factor,omitempty"`
	Week             *int      `json:"week,omitempty"`
	Season           *int      `json:"season,omitempty"`
	PredictedHome    *int      `json:"predicted_home_score,omitempty"`
	PredictedAway    *int      `json:"predicted_away_score,omitempty"`
	PointDiff        *float64  `json:"point_differential,omitempty"`
}

// Key identifies the matchup slot a prediction occupies. Two predictions
// with the same key supersede each other.
func (p *Prediction) Key() string {
	if p.Week != nil {
		return fmt.Sprintf("%s:%s:w%d", p.HomeTeam, p.AwayTeam, *p.Week)
	}
	return fmt.Sprintf("%s:%s:%s", p.HomeTeam, p.AwayTeam, p.Date)
}

// Stats is the derived accuracy summary exposed to API callers.
type Stats struct {
	TotalPredictions   int     `json:"total_predictions"`
	CorrectPredictions int     `json:"correct_predictions"`
	Accuracy           float64 `json:"accuracy"`
	Record             string  `json:"record"`
}
