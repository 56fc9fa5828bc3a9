// Package outcome implements the trainable statistical models that map
// matchup feature vectors to winner, confidence and win probability, plus
// the rule-based heuristic used when no trained model is available.
package outcome

import (
	"math"
	"math/rand"
	"sort"
)

// treeNode is one node of a decision tree. Leaf nodes have Left == -1 and
// carry the probability of the positive class.
type treeNode struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Left      int     `json:"l"`
	Right     int     `json:"r"`
	Prob      float64 `json:"p"`
}

// Tree is a depth-limited CART classifier over a feature vector.
type Tree struct {
	Nodes []treeNode `json:"nodes"`
}

type treeParams struct {
	maxDepth    int
	minLeaf     int
	maxFeatures int
}

// growTree fits a tree on the rows of X selected by idx.
func growTree(X [][]float64, y []int, idx []int, params treeParams, rng *rand.Rand) *Tree {
	t := &Tree{}
	t.build(X, y, idx, 0, params, rng)
	return t
}

// build appends a node for the given rows and returns its index.
func (t *Tree) build(X [][]float64, y []int, idx []int, depth int, params treeParams, rng *rand.Rand) int {
	pos := 0
	for _, i := range idx {
		pos += y[i]
	}
	prob := float64(pos) / float64(len(idx))

	if depth >= params.maxDepth || len(idx) <= params.minLeaf || pos == 0 || pos == len(idx) {
		return t.leaf(prob)
	}

	feature, threshold, ok := bestSplit(X, y, idx, params, rng)
	if !ok {
		return t.leaf(prob)
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return t.leaf(prob)
	}

	node := len(t.Nodes)
	t.Nodes = append(t.Nodes, treeNode{Feature: feature, Threshold: threshold, Left: -1, Right: -1})
	l := t.build(X, y, left, depth+1, params, rng)
	r := t.build(X, y, right, depth+1, params, rng)
	t.Nodes[node].Left = l
	t.Nodes[node].Right = r
	return node
}

func (t *Tree) leaf(prob float64) int {
	t.Nodes = append(t.Nodes, treeNode{Feature: -1, Left: -1, Right: -1, Prob: prob})
	return len(t.Nodes) - 1
}

// bestSplit scans a random feature subset for the threshold minimizing
// weighted Gini impurity.
func bestSplit(X [][]float64, y []int, idx []int, params treeParams, rng *rand.Rand) (int, float64, bool) {
	dims := len(X[idx[0]])
	feats := rng.Perm(dims)
	if params.maxFeatures > 0 && params.maxFeatures < dims {
		feats = feats[:params.maxFeatures]
	}

	bestGini := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	values := make([]float64, 0, len(idx))
	for _, f := range feats {
		values = values[:0]
		for _, i := range idx {
			values = append(values, X[i][f])
		}
		sort.Float64s(values)

		for v := 1; v < len(values); v++ {
			if values[v] == values[v-1] {
				continue
			}
			threshold := (values[v] + values[v-1]) / 2

			var nl, nr, pl, pr int
			for _, i := range idx {
				if X[i][f] <= threshold {
					nl++
					pl += y[i]
				} else {
					nr++
					pr += y[i]
				}
			}
			if nl == 0 || nr == 0 {
				continue
			}

			gini := (float64(nl)*giniImpurity(pl, nl) + float64(nr)*giniImpurity(pr, nr)) / float64(len(idx))
			if gini < bestGini {
				bestGini = gini
				bestFeature = f
				bestThreshold = threshold
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func giniImpurity(pos, n int) float64 {
	p := float64(pos) / float64(n)
	return 2 * p * (1 - p)
}

// predict returns the positive-class probability for one feature vector.
func (t *Tree) predict(x []float64) float64 {
	node := 0
	for {
		n := t.Nodes[node]
		if n.Feature < 0 {
			return n.Prob
		}
		if x[n.Feature] <= n.Threshold {
			node = n.Left
		} else {
			node = n.Right
		}
	}
}
