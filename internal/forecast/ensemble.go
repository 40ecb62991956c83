package forecast

import (
	"math"
	"math/rand"
	"sort"
)

// ensembleSeed pins the bootstrap sampling so a forecast is reproducible
// run-to-run for the same history.
const ensembleSeed = 1

// DefaultEstimators matches the ensemble size used for recharge projection.
const DefaultEstimators = 100

type baggedModel struct {
	trees []*treeNode
}

func (m baggedModel) Predict(x float64) float64 {
	sum := 0.0
	for _, tree := range m.trees {
		sum += tree.predict(x)
	}
	return sum / float64(len(m.trees))
}

// FitBaggedTrees trains a bootstrap-aggregated forest of regression trees on
// single-feature samples.
func FitBaggedTrees(estimators int) Fitter {
	return func(xs, ys []float64) (Model, error) {
		if len(xs) == 0 || len(xs) != len(ys) {
			return nil, errNoSamples
		}
		rng := rand.New(rand.NewSource(ensembleSeed))
		trees := make([]*treeNode, estimators)
		bootX := make([]float64, len(xs))
		bootY := make([]float64, len(ys))
		for i := range trees {
			for j := range bootX {
				k := rng.Intn(len(xs))
				bootX[j] = xs[k]
				bootY[j] = ys[k]
			}
			trees[i] = growTree(bootX, bootY)
		}
		return baggedModel{trees: trees}, nil
	}
}

type treeNode struct {
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
}

func (n *treeNode) predict(x float64) float64 {
	if n.left == nil {
		return n.value
	}
	if x <= n.threshold {
		return n.left.predict(x)
	}
	return n.right.predict(x)
}

type sample struct {
	x float64
	y float64
}

func growTree(xs, ys []float64) *treeNode {
	samples := make([]sample, len(xs))
	for i := range xs {
		samples[i] = sample{x: xs[i], y: ys[i]}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].x < samples[j].x })
	return grow(samples)
}

func grow(samples []sample) *treeNode {
	if len(samples) < 2 || samples[0].x == samples[len(samples)-1].x {
		return &treeNode{value: meanY(samples)}
	}
	split, ok := bestSplit(samples)
	if !ok {
		return &treeNode{value: meanY(samples)}
	}
	return &treeNode{
		threshold: split.threshold,
		left:      grow(samples[:split.index]),
		right:     grow(samples[split.index:]),
	}
}

type splitPoint struct {
	index     int
	threshold float64
}

// bestSplit scans the candidate thresholds between distinct x values and
// returns the one minimising the summed squared error of the two sides.
func bestSplit(samples []sample) (splitPoint, bool) {
	n := len(samples)
	prefix := make([]float64, n+1)
	prefixSq := make([]float64, n+1)
	for i, s := range samples {
		prefix[i+1] = prefix[i] + s.y
		prefixSq[i+1] = prefixSq[i] + s.y*s.y
	}
	sse := func(lo, hi int) float64 {
		count := float64(hi - lo)
		sum := prefix[hi] - prefix[lo]
		sumSq := prefixSq[hi] - prefixSq[lo]
		return sumSq - sum*sum/count
	}
	best := splitPoint{}
	bestErr := math.Inf(1)
	found := false
	for i := 1; i < n; i++ {
		if samples[i].x == samples[i-1].x {
			continue
		}
		if err := sse(0, i) + sse(i, n); err < bestErr {
			bestErr = err
			best = splitPoint{index: i, threshold: (samples[i-1].x + samples[i].x) / 2}
			found = true
		}
	}
	return best, found
}

func meanY(samples []sample) float64 {
	sum := 0.0
	for _, s := range samples {
		sum += s.y
	}
	return sum / float64(len(samples))
}
