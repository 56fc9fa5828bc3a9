package outcome

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/yourusername/matchday/internal/features"
	"github.com/yourusername/matchday/internal/models"
)

// BasketballModel is the bagged-ensemble classifier over basketball matchup
// vectors, target = home-team win. The team snapshots computed at training
// time are cached with the model: prediction reuses them rather than
// recomputing, unless the caller supplies fresher snapshots explicitly.
type BasketballModel struct {
	cfg       ForestConfig
	forest    *Forest
	snapshots map[string]*models.TeamSnapshot
	calc      *features.BasketballCalculator
}

// NewBasketballModel creates an untrained model.
func NewBasketballModel(cfg ForestConfig) *BasketballModel {
	return &BasketballModel{
		cfg:       cfg,
		snapshots: make(map[string]*models.TeamSnapshot),
		calc:      features.NewBasketballCalculator(),
	}
}

// Trained reports whether the model can serve predictions.
func (m *BasketballModel) Trained() bool {
	return m.forest.Fitted()
}

// Snapshot returns the cached training-time snapshot for a team.
func (m *BasketballModel) Snapshot(team string) (*models.TeamSnapshot, bool) {
	s, ok := m.snapshots[team]
	return s, ok
}

// Train fits the classifier on all completed games in history. Snapshots are
// computed per team as of the day after the newest record so the full
// trailing window contributes, and matchup vectors are labeled 1 when the
// home team won. holdout is the test fraction for the diagnostic evaluation.
func (m *BasketballModel) Train(history []models.GameRecord, holdout float64) (*TrainReport, error) {
	asOf := dayAfterLatest(history)

	m.snapshots = make(map[string]*models.TeamSnapshot)
	for _, team := range teamsIn(history) {
		snap, err := m.calc.Snapshot(team, asOf, history)
		if err != nil {
			continue // below the minimum-game gate
		}
		m.snapshots[team] = snap
	}

	var X [][]float64
	var y []int
	for _, g := range history {
		if !g.Completed() {
			continue
		}
		home, okH := m.snapshots[g.HomeTeam]
		away, okA := m.snapshots[g.AwayTeam]
		if !okH || !okA {
			continue
		}
		vec, err := features.BasketballVector(home, away, 1.0, 1.0)
		if err != nil {
			continue
		}
		label := 0
		if g.Winner == g.HomeTeam {
			label = 1
		}
		X = append(X, vec)
		y = append(y, label)
	}

	if len(X) == 0 {
		return nil, fmt.Errorf("no trainable matchups: %w", models.ErrInsufficientData)
	}

	trainIdx, testIdx := splitIndices(len(X), holdout, m.cfg.Seed)

	trainX := make([][]float64, 0, len(trainIdx))
	trainY := make([]int, 0, len(trainIdx))
	for _, i := range trainIdx {
		trainX = append(trainX, X[i])
		trainY = append(trainY, y[i])
	}

	m.forest = TrainForest(trainX, trainY, m.cfg)

	report := &TrainReport{Examples: len(X), TrainSize: len(trainIdx), TestSize: len(testIdx)}
	if len(testIdx) > 0 {
		correct := 0
		for _, i := range testIdx {
			predHome := m.forest.Proba(X[i]) >= 0.5
			if (y[i] == 1) == predHome {
				correct++
			}
		}
		report.Accuracy = float64(correct) / float64(len(testIdx))
	}

	return report, nil
}

// Predict predicts a matchup from the cached training-time snapshots.
func (m *BasketballModel) Predict(homeTeam, awayTeam string, homeAvail, awayAvail float64) (*GameOutcome, error) {
	if !m.Trained() {
		return nil, models.ErrModelNotTrained
	}
	home, ok := m.snapshots[homeTeam]
	if !ok {
		return nil, fmt.Errorf("%s: %w", homeTeam, models.ErrUnknownTeam)
	}
	away, ok := m.snapshots[awayTeam]
	if !ok {
		return nil, fmt.Errorf("%s: %w", awayTeam, models.ErrUnknownTeam)
	}
	return m.PredictWith(home, away, homeAvail, awayAvail)
}

// PredictWith predicts using caller-supplied snapshots, bypassing the cache.
func (m *BasketballModel) PredictWith(home, away *models.TeamSnapshot, homeAvail, awayAvail float64) (*GameOutcome, error) {
	if !m.Trained() {
		return nil, models.ErrModelNotTrained
	}
	vec, err := features.BasketballVector(home, away, homeAvail, awayAvail)
	if err != nil {
		return nil, err
	}

	probHome := m.forest.Proba(vec)
	out := &GameOutcome{HomeWinProb: probHome, AwayWinProb: 1 - probHome}
	if probHome >= 0.5 {
		out.Winner = home.Team
		out.Confidence = probHome
	} else {
		out.Winner = away.Team
		out.Confidence = 1 - probHome
	}
	return out, nil
}

// basketballState is the persisted form of a trained model.
type basketballState struct {
	Forest    *Forest                         `json:"forest"`
	Snapshots map[string]*models.TeamSnapshot `json:"team_snapshots"`
	TrainedAt string                          `json:"trained_at"`
}

// MarshalState serializes the fitted parameters and cached snapshots.
func (m *BasketballModel) MarshalState() ([]byte, error) {
	if !m.Trained() {
		return nil, models.ErrModelNotTrained
	}
	return json.Marshal(basketballState{
		Forest:    m.forest,
		Snapshots: m.snapshots,
		TrainedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// UnmarshalState restores a trained model from its persisted form.
func (m *BasketballModel) UnmarshalState(data []byte) error {
	var state basketballState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("basketball model: %v: %w", err, models.ErrCorruptState)
	}
	if !state.Forest.Fitted() || state.Snapshots == nil {
		return fmt.Errorf("basketball model missing fitted state: %w", models.ErrCorruptState)
	}
	m.forest = state.Forest
	m.snapshots = state.Snapshots
	return nil
}

// dayAfterLatest returns the date one day after the newest record, so every
// game in history falls strictly before it.
func dayAfterLatest(history []models.GameRecord) string {
	latest := ""
	for _, g := range history {
		if g.Date > latest {
			latest = g.Date
		}
	}
	if latest == "" {
		return ""
	}
	t, err := time.Parse(models.DateLayout, latest)
	if err != nil {
		return latest + "~" // sorts after any ISO date sharing the prefix
	}
	return t.AddDate(0, 0, 1).Format(models.DateLayout)
}

// teamsIn returns every team appearing in history, order unspecified.
func teamsIn(history []models.GameRecord) []string {
	seen := make(map[string]bool)
	var teams []string
	for _, g := range history {
		for _, t := range []string{g.HomeTeam, g.AwayTeam} {
			if t != "" && !seen[t] {
				seen[t] = true
				teams = append(teams, t)
			}
		}
	}
	return teams
}
