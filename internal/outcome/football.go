package outcome

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/yourusername/matchday/internal/features"
	"github.com/yourusername/matchday/internal/models"
)

// assumedTotalPoints is the average combined score used to derive predicted
// scores from the margin signal.
const assumedTotalPoints = 45.0

// maxConfidence caps the margin-derived confidence.
const maxConfidence = 0.95

// FootballModel is the linear regression over football matchup vectors,
// target = signed point differential (home minus away). Unlike basketball,
// snapshots are recomputed per prediction from the supplied history.
type FootballModel struct {
	seed   int64
	linear *Linear
	calc   *features.FootballCalculator
}

// NewFootballModel creates an untrained model.
func NewFootballModel(seed int64) *FootballModel {
	return &FootballModel{seed: seed, calc: features.NewFootballCalculator()}
}

// Trained reports whether the model can serve predictions.
func (m *FootballModel) Trained() bool {
	return m.linear.Fitted()
}

// Train fits the regression on all completed games with scores. Snapshots
// for each training example are computed as of that game's date, so no
// example ever sees its own result.
func (m *FootballModel) Train(history []models.GameRecord, holdout float64) (*TrainReport, error) {
	var X [][]float64
	var y []float64

	for _, g := range history {
		if !g.Completed() || g.HomeScore == nil || g.AwayScore == nil {
			continue
		}
		vec, err := m.matchupVector(g.HomeTeam, g.AwayTeam, g.Date, history, 1.0, 1.0)
		if err != nil {
			continue
		}
		X = append(X, vec)
		y = append(y, float64(*g.HomeScore-*g.AwayScore))
	}

	if len(X) == 0 {
		return nil, fmt.Errorf("no trainable matchups: %w", models.ErrInsufficientData)
	}

	trainIdx, testIdx := splitIndices(len(X), holdout, m.seed)

	trainX := make([][]float64, 0, len(trainIdx))
	trainY := make([]float64, 0, len(trainIdx))
	for _, i := range trainIdx {
		trainX = append(trainX, X[i])
		trainY = append(trainY, y[i])
	}

	linear, err := TrainLinear(trainX, trainY)
	if err != nil {
		return nil, fmt.Errorf("fit failed: %w", err)
	}
	m.linear = linear

	report := &TrainReport{Examples: len(X), TrainSize: len(trainIdx), TestSize: len(testIdx)}
	if len(testIdx) > 0 {
		report.MSE, report.R2 = regressionDiagnostics(m.linear, X, y, testIdx)
	}
	return report, nil
}

// Predict predicts a matchup as of asOf, computing both snapshots fresh from
// history. Availability factors enter the feature vector directly.
func (m *FootballModel) Predict(homeTeam, awayTeam, asOf string, history []models.GameRecord, homeAvail, awayAvail float64) (*FootballOutcome, error) {
	if !m.Trained() {
		return nil, models.ErrModelNotTrained
	}
	vec, err := m.matchupVector(homeTeam, awayTeam, asOf, history, homeAvail, awayAvail)
	if err != nil {
		return nil, err
	}

	diff := m.linear.Predict(vec)
	return CalibrateMargin(homeTeam, awayTeam, diff), nil
}

// CalibrateMargin turns a signed point differential into the winner,
// confidence and win-probability triple, plus derived scores from an assumed
// 45-point total. The win probability is a raw linear function of the
// differential and is intentionally left unclamped to preserve the model's
// established output; confidence is capped at 0.95 independently.
func CalibrateMargin(homeTeam, awayTeam string, diff float64) *FootballOutcome {
	out := &FootballOutcome{PointDiff: diff}

	out.Confidence = math.Min(maxConfidence, 0.5+math.Abs(diff)/30)
	if diff > 0 {
		out.Winner = homeTeam
	} else {
		out.Winner = awayTeam
	}
	out.HomeWinProb = 0.5 + diff/60
	out.AwayWinProb = 0.5 - diff/60

	out.PredictedHome = maxInt(0, int(assumedTotalPoints/2+diff/2))
	out.PredictedAway = maxInt(0, int(assumedTotalPoints/2-diff/2))
	return out
}

func (m *FootballModel) matchupVector(homeTeam, awayTeam, asOf string, history []models.GameRecord, homeAvail, awayAvail float64) ([]float64, error) {
	home, err := m.calc.Snapshot(homeTeam, asOf, history)
	if err != nil {
		return nil, err
	}
	away, err := m.calc.Snapshot(awayTeam, asOf, history)
	if err != nil {
		return nil, err
	}
	return features.FootballVector(home, away, features.VenueIndoor(homeTeam), homeAvail, awayAvail)
}

func regressionDiagnostics(model *Linear, X [][]float64, y []float64, testIdx []int) (mse, r2 float64) {
	var mean float64
	for _, i := range testIdx {
		mean += y[i]
	}
	mean /= float64(len(testIdx))

	var ssRes, ssTot float64
	for _, i := range testIdx {
		pred := model.Predict(X[i])
		ssRes += (y[i] - pred) * (y[i] - pred)
		ssTot += (y[i] - mean) * (y[i] - mean)
	}
	mse = ssRes / float64(len(testIdx))
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}
	return mse, r2
}

// footballState is the persisted form of a trained model.
type footballState struct {
	Linear    *Linear `json:"linear"`
	TrainedAt string  `json:"trained_at"`
}

// MarshalState serializes the fitted coefficients.
func (m *FootballModel) MarshalState() ([]byte, error) {
	if !m.Trained() {
		return nil, models.ErrModelNotTrained
	}
	return json.Marshal(footballState{
		Linear:    m.linear,
		TrainedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// UnmarshalState restores a trained model from its persisted form.
func (m *FootballModel) UnmarshalState(data []byte) error {
	var state footballState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("football model: %v: %w", err, models.ErrCorruptState)
	}
	if !state.Linear.Fitted() {
		return fmt.Errorf("football model missing fitted state: %w", models.ErrCorruptState)
	}
	m.linear = state.Linear
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
