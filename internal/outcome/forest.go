package outcome

import (
	"math"
	"math/rand"
)

// ForestConfig holds bagged-ensemble training parameters. The fixed seed
// keeps training deterministic across runs.
type ForestConfig struct {
	Trees    int   `json:"trees"`
	MaxDepth int   `json:"max_depth"`
	MinLeaf  int   `json:"min_leaf"`
	Seed     int64 `json:"seed"`
}

// DefaultForestConfig mirrors the parameters the models were tuned with.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{Trees: 100, MaxDepth: 10, MinLeaf: 2, Seed: 42}
}

// Forest is a bagged ensemble of decision trees: each tree fits a bootstrap
// sample of the training rows over a random feature subset, and the ensemble
// probability is the mean of the tree probabilities.
type Forest struct {
	Config ForestConfig `json:"config"`
	Trees  []*Tree      `json:"trees"`
}

// TrainForest fits the ensemble on X (rows of feature vectors) with binary
// labels y.
func TrainForest(X [][]float64, y []int, cfg ForestConfig) *Forest {
	f := &Forest{Config: cfg, Trees: make([]*Tree, 0, cfg.Trees)}
	if len(X) == 0 {
		return f
	}

	dims := len(X[0])
	params := treeParams{
		maxDepth:    cfg.MaxDepth,
		minLeaf:     cfg.MinLeaf,
		maxFeatures: int(math.Ceil(math.Sqrt(float64(dims)))),
	}

	for i := 0; i < cfg.Trees; i++ {
		rng := rand.New(rand.NewSource(cfg.Seed + int64(i)))

		// Bootstrap sample with replacement.
		idx := make([]int, len(X))
		for j := range idx {
			idx[j] = rng.Intn(len(X))
		}

		f.Trees = append(f.Trees, growTree(X, y, idx, params, rng))
	}

	return f
}

// Proba returns the ensemble probability that the feature vector belongs to
// the positive class (home-team win).
func (f *Forest) Proba(x []float64) float64 {
	if len(f.Trees) == 0 {
		return 0.5
	}
	sum := 0.0
	for _, t := range f.Trees {
		sum += t.predict(x)
	}
	return sum / float64(len(f.Trees))
}

// Fitted reports whether the forest holds any trained trees.
func (f *Forest) Fitted() bool {
	return f != nil && len(f.Trees) > 0
}
