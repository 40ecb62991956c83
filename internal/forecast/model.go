// Package forecast projects a subscriber's next-period usage and recharge
// behaviour from their history, simulates the resulting balance under the
// bonus-then-monetary debit policy, and picks the cheapest catalog plan
// covering a one-week projection.
package forecast

import "errors"

// Model predicts a target value at a single-feature point. The only feature
// used anywhere in this package is the day offset from the earliest record
// in a series.
type Model interface {
	Predict(x float64) float64
}

// Fitter fits a Model to paired samples. Any implementation satisfying this
// contract is substitutable for the defaults.
type Fitter func(xs, ys []float64) (Model, error)

var errNoSamples = errors.New("no samples to fit")
