package model_selection

import (
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/featgo/core/model"
	"github.com/YuminosukeSato/featgo/metrics"
	"github.com/YuminosukeSato/featgo/pkg/errors"
)

// CrossValScore fits a fresh estimator per fold and returns one test score
// per fold, in fold order. Folds are independent and evaluated in parallel;
// each goroutine gets its own estimator from the factory, and scores land in
// a fold-indexed slice so the result does not depend on scheduling.
//
// nJobs bounds the number of concurrent folds; zero or negative means one
// worker per CPU core.
func CrossValScore(newEstimator model.EstimatorFactory, X, y mat.Matrix, splitter Splitter, scorer metrics.Scorer, nJobs int) ([]float64, error) {
	if newEstimator == nil {
		return nil, errors.NewValueError("CrossValScore", "estimator factory must not be nil")
	}
	if scorer == nil {
		return nil, errors.NewValueError("CrossValScore", "scorer must not be nil")
	}
	if splitter == nil {
		splitter = NewKFold(5, false, 0)
	}

	nSamples, _ := X.Dims()
	if nSamples < splitter.GetNSplits() {
		return nil, errors.NewValueError("CrossValScore", "number of samples is smaller than the number of folds")
	}

	folds := splitter.Split(X, y)
	scores := make([]float64, len(folds))

	limit := nJobs
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i := range folds {
		g.Go(func() error {
			fold := folds[i]

			trainX, trainY := takeRows(X, y, fold.TrainIndices)
			testX, testY := takeRows(X, y, fold.TestIndices)

			est := newEstimator()
			score, err := fitAndScore(est, trainX, trainY, testX, testY, scorer)
			if err != nil {
				return err
			}
			scores[i] = score
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return scores, nil
}

// TrainScore is the degenerate no-cross-validation case: the estimator is
// fitted on the whole dataset and scored on the same data, producing a
// single score.
func TrainScore(newEstimator model.EstimatorFactory, X, y mat.Matrix, scorer metrics.Scorer) (float64, error) {
	if newEstimator == nil {
		return 0, errors.NewValueError("TrainScore", "estimator factory must not be nil")
	}
	if scorer == nil {
		return 0, errors.NewValueError("TrainScore", "scorer must not be nil")
	}
	return fitAndScore(newEstimator(), X, y, X, y, scorer)
}

// fitAndScore fits one estimator and scores its test-set predictions.
// Calls into the estimator are panic-guarded: user code blowing up inside
// Fit or Predict surfaces as an error, not a crash of the whole search.
func fitAndScore(est model.Estimator, trainX, trainY, testX, testY mat.Matrix, scorer metrics.Scorer) (float64, error) {
	err := errors.SafeExecute("estimator fit", func() error {
		return est.Fit(trainX, trainY)
	})
	if err != nil {
		return 0, err
	}

	var pred mat.Matrix
	err = errors.SafeExecute("estimator predict", func() error {
		var perr error
		pred, perr = est.Predict(testX)
		return perr
	})
	if err != nil {
		return 0, err
	}

	return scorer(colVec(testY), colVec(pred))
}

// takeRows extracts the given rows of X and y into fresh dense matrices.
func takeRows(X, y mat.Matrix, indices []int) (*mat.Dense, *mat.Dense) {
	_, xCols := X.Dims()
	_, yCols := y.Dims()

	xSub := mat.NewDense(len(indices), xCols, nil)
	ySub := mat.NewDense(len(indices), yCols, nil)

	for i, idx := range indices {
		for j := 0; j < xCols; j++ {
			xSub.Set(i, j, X.At(idx, j))
		}
		for j := 0; j < yCols; j++ {
			ySub.Set(i, j, y.At(idx, j))
		}
	}

	return xSub, ySub
}

// colVec converts a single-column matrix into a vector.
func colVec(m mat.Matrix) *mat.VecDense {
	r, _ := m.Dims()
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v
}
