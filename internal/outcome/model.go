package outcome

import "math/rand"

// GameOutcome is the calibrated result of one matchup prediction.
// Confidence is the probability mass assigned to the predicted winner, not
// blindly max(p, 1-p) of anything else.
type GameOutcome struct {
	Winner      string
	Confidence  float64
	HomeWinProb float64
	AwayWinProb float64
}

// FootballOutcome augments the basic outcome with the regression model's
// margin signal and the scores derived from it.
type FootballOutcome struct {
	GameOutcome
	PointDiff     float64
	PredictedHome int
	PredictedAway int
}

// TrainReport summarizes an offline evaluation on the held-out split. The
// numbers are diagnostics only; training never refuses to complete based on
// them.
type TrainReport struct {
	Examples  int     `json:"examples"`
	TrainSize int     `json:"train_size"`
	TestSize  int     `json:"test_size"`
	Accuracy  float64 `json:"accuracy,omitempty"`
	MSE       float64 `json:"mse,omitempty"`
	R2        float64 `json:"r2,omitempty"`
}

// splitIndices partitions [0,n) into train/test with a deterministic
// shuffle. holdout is the test fraction.
func splitIndices(n int, holdout float64, seed int64) (train, test []int) {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

	cut := int(float64(n) * holdout)
	return idx[cut:], idx[:cut]
}
