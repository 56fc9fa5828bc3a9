package outcome

import (
	"fmt"
	"math"
)

// Linear is an ordinary-least-squares model. Weights[0] is the intercept.
type Linear struct {
	Weights []float64 `json:"weights"`
}

// ridge is a tiny diagonal regularizer keeping the normal equations solvable
// when features are collinear.
const ridge = 1e-8

// TrainLinear fits the model via the normal equations.
func TrainLinear(X [][]float64, y []float64) (*Linear, error) {
	if len(X) == 0 || len(X) != len(y) {
		return nil, fmt.Errorf("training data dimensions mismatch: %d rows, %d targets", len(X), len(y))
	}

	d := len(X[0]) + 1 // +1 for intercept

	// A = X'X, b = X'y with an intercept column prepended.
	a := make([][]float64, d)
	for i := range a {
		a[i] = make([]float64, d)
	}
	b := make([]float64, d)

	row := make([]float64, d)
	for r, x := range X {
		row[0] = 1
		copy(row[1:], x)
		for i := 0; i < d; i++ {
			b[i] += row[i] * y[r]
			for j := 0; j < d; j++ {
				a[i][j] += row[i] * row[j]
			}
		}
	}
	for i := 0; i < d; i++ {
		a[i][i] += ridge
	}

	w, err := solve(a, b)
	if err != nil {
		return nil, err
	}
	return &Linear{Weights: w}, nil
}

// solve performs Gaussian elimination with partial pivoting on ax = b.
func solve(a [][]float64, b []float64) ([]float64, error) {
	n := len(a)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("singular design matrix at column %d", col)
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < n; r++ {
			factor := a[r][col] / a[col][col]
			for c := col; c < n; c++ {
				a[r][c] -= factor * a[col][c]
			}
			b[r] -= factor * b[col]
		}
	}

	x := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		sum := b[r]
		for c := r + 1; c < n; c++ {
			sum -= a[r][c] * x[c]
		}
		x[r] = sum / a[r][r]
	}
	return x, nil
}

// Predict returns the fitted linear combination for one feature vector.
func (m *Linear) Predict(x []float64) float64 {
	out := m.Weights[0]
	for i, v := range x {
		out += m.Weights[i+1] * v
	}
	return out
}

// Fitted reports whether the model has weights.
func (m *Linear) Fitted() bool {
	return m != nil && len(m.Weights) > 0
}
