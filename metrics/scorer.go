package metrics

import (
	"github.com/YuminosukeSato/featgo/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Scorer compares true targets against predictions and returns a score
// where greater is better. Loss-based metrics are exposed in negated form
// so that every scorer can be maximized by the selection loop.
type Scorer func(yTrue, yPred *mat.VecDense) (float64, error)

// Scorer names accepted by GetScorer, mirroring the scikit-learn scoring
// string convention.
const (
	ScoringAccuracy = "accuracy"
	ScoringR2       = "r2"
	ScoringNegMSE   = "neg_mean_squared_error"
	ScoringNegMAE   = "neg_mean_absolute_error"
	ScoringNegRMSE  = "neg_root_mean_squared_error"
)

// GetScorer resolves a scoring metric name to a Scorer function.
// Unknown names yield a validation error.
func GetScorer(name string) (Scorer, error) {
	switch name {
	case ScoringAccuracy:
		return Accuracy, nil
	case ScoringR2:
		return R2Score, nil
	case ScoringNegMSE:
		return negated(MSE), nil
	case ScoringNegMAE:
		return negated(MAE), nil
	case ScoringNegRMSE:
		return negated(RMSE), nil
	default:
		return nil, errors.NewValidationError("scoring", "unknown scoring metric", name)
	}
}

func negated(s Scorer) Scorer {
	return func(yTrue, yPred *mat.VecDense) (float64, error) {
		v, err := s(yTrue, yPred)
		if err != nil {
			return 0, err
		}
		return -v, nil
	}
}
