package feature_selection

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/featgo/core/model"
	"github.com/YuminosukeSato/featgo/model_selection"
)

// passthroughEstimator predicts the first column of its input unchanged.
// Projecting the right feature in front of it makes its score trivial to
// reason about.
type passthroughEstimator struct{}

func (e *passthroughEstimator) Fit(X, y mat.Matrix) error {
	return nil
}

func (e *passthroughEstimator) Predict(X mat.Matrix) (mat.Matrix, error) {
	r, _ := X.Dims()
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, X.At(i, 0))
	}
	return out, nil
}

func exactMatchRate(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	matches := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			matches++
		}
	}
	return float64(matches) / float64(n), nil
}

func evaluatorFixture() (*mat.Dense, *mat.Dense) {
	// column 2 reproduces y exactly, columns 0 and 1 never do
	X := mat.NewDense(4, 3, []float64{
		10, 20, 1,
		11, 21, 2,
		12, 22, 3,
		13, 23, 4,
	})
	y := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	return X, y
}

func TestProjectColumns(t *testing.T) {
	X := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})

	got := ProjectColumns(X, []int{2, 0, 2})
	want := mat.NewDense(2, 3, []float64{
		3, 1, 3,
		6, 4, 6,
	})

	if !mat.Equal(got, want) {
		t.Errorf("ProjectColumns() =\n%v\nwant\n%v", mat.Formatted(got), mat.Formatted(want))
	}
}

func TestCrossValSubsetScorerNoCV(t *testing.T) {
	X, y := evaluatorFixture()

	cv := &crossValSubsetScorer{
		newEstimator: func() model.Estimator { return &passthroughEstimator{} },
		scorer:       exactMatchRate,
		splitter:     nil,
		nJobs:        1,
	}

	scores, err := cv.ScoreSubset(X, y, []int{2})
	if err != nil {
		t.Fatalf("ScoreSubset() unexpected error: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("got %d scores with cross-validation disabled, want 1", len(scores))
	}
	if math.Abs(scores[0]-1.0) > 1e-12 {
		t.Errorf("score = %v, want 1.0 for the exact-match column", scores[0])
	}

	scores, err = cv.ScoreSubset(X, y, []int{0})
	if err != nil {
		t.Fatalf("ScoreSubset() unexpected error: %v", err)
	}
	if scores[0] != 0 {
		t.Errorf("score = %v, want 0 for an unrelated column", scores[0])
	}
}

func TestCrossValSubsetScorerFoldCount(t *testing.T) {
	X, y := evaluatorFixture()

	cv := &crossValSubsetScorer{
		newEstimator: func() model.Estimator { return &passthroughEstimator{} },
		scorer:       exactMatchRate,
		splitter:     model_selection.NewKFold(2, false, 0),
		nJobs:        1,
	}

	scores, err := cv.ScoreSubset(X, y, []int{2})
	if err != nil {
		t.Fatalf("ScoreSubset() unexpected error: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("got %d scores, want one per fold", len(scores))
	}
	for i, score := range scores {
		if math.Abs(score-1.0) > 1e-12 {
			t.Errorf("fold %d score = %v, want 1.0", i, score)
		}
	}
}
