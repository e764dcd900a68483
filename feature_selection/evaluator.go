package feature_selection

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/featgo/core/model"
	"github.com/YuminosukeSato/featgo/core/parallel"
	"github.com/YuminosukeSato/featgo/metrics"
	"github.com/YuminosukeSato/featgo/model_selection"
)

// SubsetScorer scores one candidate feature subset and returns the
// individual fold scores (a single element when cross-validation is
// disabled). Candidates may be scored concurrently, so implementations
// must be safe for use from multiple goroutines and must not depend on
// call order.
type SubsetScorer interface {
	ScoreSubset(X, y mat.Matrix, indices []int) ([]float64, error)
}

// crossValSubsetScorer is the stock SubsetScorer: project the candidate
// columns out of X, then cross-validate a fresh estimator on the projection.
// A nil splitter disables cross-validation and scores the estimator on its
// own training data instead.
type crossValSubsetScorer struct {
	newEstimator model.EstimatorFactory
	scorer       metrics.Scorer
	splitter     model_selection.Splitter
	nJobs        int
}

func (c *crossValSubsetScorer) ScoreSubset(X, y mat.Matrix, indices []int) ([]float64, error) {
	sub := ProjectColumns(X, indices)

	if c.splitter == nil {
		score, err := model_selection.TrainScore(c.newEstimator, sub, y, c.scorer)
		if err != nil {
			return nil, err
		}
		return []float64{score}, nil
	}

	return model_selection.CrossValScore(c.newEstimator, sub, y, c.splitter, c.scorer, c.nJobs)
}

// ProjectColumns returns a dense copy of X restricted to the given columns,
// in the given order. Indices may repeat.
func ProjectColumns(X mat.Matrix, indices []int) *mat.Dense {
	rows, _ := X.Dims()
	out := mat.NewDense(rows, len(indices), nil)

	const parallelThreshold = 1000
	parallel.ParallelizeWithThreshold(rows, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j, col := range indices {
				out.Set(i, j, X.At(i, col))
			}
		}
	})

	return out
}
