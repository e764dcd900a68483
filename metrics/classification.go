package metrics

import (
	"github.com/YuminosukeSato/featgo/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Accuracy computes the fraction of exactly matching labels.
// Predicted labels are compared as float64 values, so callers must pass
// hard class labels, not probabilities.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}

	return float64(correct) / float64(n), nil
}
