package forecast

import "gonum.org/v1/gonum/stat"

type linearModel struct {
	alpha float64
	beta  float64
}

func (m linearModel) Predict(x float64) float64 {
	return m.alpha + m.beta*x
}

// FitLinear fits an ordinary least-squares line. When every sample shares
// the same x (a single day of history) the slope is undefined, so the model
// degrades to predicting the mean.
func FitLinear(xs, ys []float64) (Model, error) {
	if len(xs) == 0 || len(xs) != len(ys) {
		return nil, errNoSamples
	}
	if allEqual(xs) {
		return linearModel{alpha: stat.Mean(ys, nil)}, nil
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return linearModel{alpha: alpha, beta: beta}, nil
}

func allEqual(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}
