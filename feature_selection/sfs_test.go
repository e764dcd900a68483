package feature_selection

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/featgo/core/model"
	"github.com/YuminosukeSato/featgo/linear"
	"github.com/YuminosukeSato/featgo/pkg/errors"
)

// stubScorer maps a feature subset (order-insensitive) to a fixed score.
// Unknown subsets fail, which doubles as a probe for which subsets the
// search actually evaluates.
type stubScorer struct {
	scores map[string]float64
}

func subsetKey(indices []int) string {
	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Ints(sorted)
	return fmt.Sprint(sorted)
}

func (s *stubScorer) ScoreSubset(X, y mat.Matrix, indices []int) ([]float64, error) {
	score, ok := s.scores[subsetKey(indices)]
	if !ok {
		return nil, fmt.Errorf("no score defined for subset %v", indices)
	}
	return []float64{score}, nil
}

func fourFeatureData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(3, 4, []float64{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
	})
	y := mat.NewDense(3, 1, []float64{0, 1, 0})
	return X, y
}

func forwardScenarioScores() map[string]float64 {
	return map[string]float64{
		subsetKey([]int{0}): 0.50,
		subsetKey([]int{1}): 0.60,
		subsetKey([]int{2}): 0.70,
		subsetKey([]int{3}): 0.40,

		subsetKey([]int{2, 0}): 0.75,
		subsetKey([]int{2, 1}): 0.80,
		subsetKey([]int{2, 3}): 0.65,
	}
}

func TestForwardSelection(t *testing.T) {
	X, y := fourFeatureData()

	sfs := NewSequentialFeatureSelector(nil,
		WithKFeatures(2),
		WithSubsetScorer(&stubScorer{scores: forwardScenarioScores()}),
	)
	if err := sfs.Fit(X, y); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	// step 1 picks {2}, step 2 adds feature 1
	if !reflect.DeepEqual(sfs.FeatureIdx(), []int{2, 1}) {
		t.Errorf("FeatureIdx() = %v, want [2 1]", sfs.FeatureIdx())
	}
	if math.Abs(sfs.Score()-0.80) > 1e-12 {
		t.Errorf("Score() = %v, want 0.80", sfs.Score())
	}

	subsets := sfs.Subsets()
	if len(subsets) != 2 {
		t.Fatalf("registry has %d entries, want 2", len(subsets))
	}
	if rec := subsets[1]; !reflect.DeepEqual(rec.FeatureIdx, []int{2}) || math.Abs(rec.AvgScore-0.70) > 1e-12 {
		t.Errorf("size-1 record = %v (%.2f), want [2] (0.70)", rec.FeatureIdx, rec.AvgScore)
	}
	if rec := subsets[2]; !reflect.DeepEqual(rec.FeatureIdx, []int{2, 1}) || math.Abs(rec.AvgScore-0.80) > 1e-12 {
		t.Errorf("size-2 record = %v (%.2f), want [2 1] (0.80)", rec.FeatureIdx, rec.AvgScore)
	}
}

func TestBackwardSelection(t *testing.T) {
	X, y := fourFeatureData()

	scores := map[string]float64{
		subsetKey([]int{0, 1, 2, 3}): 0.90,

		subsetKey([]int{1, 2, 3}): 0.85,
		subsetKey([]int{0, 2, 3}): 0.80,
		subsetKey([]int{0, 1, 3}): 0.70,
		subsetKey([]int{0, 1, 2}): 0.75,

		subsetKey([]int{2, 3}): 0.60,
		subsetKey([]int{1, 3}): 0.70,
		subsetKey([]int{1, 2}): 0.78,
	}

	sfs := NewSequentialFeatureSelector(nil,
		WithKFeatures(2),
		WithForward(false),
		WithSubsetScorer(&stubScorer{scores: scores}),
	)
	if err := sfs.Fit(X, y); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	if !reflect.DeepEqual(sfs.FeatureIdx(), []int{1, 2}) {
		t.Errorf("FeatureIdx() = %v, want [1 2]", sfs.FeatureIdx())
	}
	if math.Abs(sfs.Score()-0.78) > 1e-12 {
		t.Errorf("Score() = %v, want 0.78", sfs.Score())
	}

	// the full universe is scored and recorded before any removal
	subsets := sfs.Subsets()
	if len(subsets) != 3 {
		t.Fatalf("registry has %d entries, want sizes 2, 3 and 4", len(subsets))
	}
	if rec := subsets[4]; math.Abs(rec.AvgScore-0.90) > 1e-12 {
		t.Errorf("size-4 record score = %v, want 0.90", rec.AvgScore)
	}
	if rec := subsets[3]; !reflect.DeepEqual(rec.FeatureIdx, []int{1, 2, 3}) {
		t.Errorf("size-3 record = %v, want [1 2 3]", rec.FeatureIdx)
	}
}

func TestBackwardSelectionFullSetTarget(t *testing.T) {
	X, y := fourFeatureData()

	scores := map[string]float64{
		subsetKey([]int{0, 1, 2, 3}): 0.90,
	}

	// k equal to the number of features: no removal step runs, the result is
	// the full universe with its recorded score
	sfs := NewSequentialFeatureSelector(nil,
		WithKFeatures(4),
		WithForward(false),
		WithSubsetScorer(&stubScorer{scores: scores}),
	)
	if err := sfs.Fit(X, y); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	if !reflect.DeepEqual(sfs.FeatureIdx(), []int{0, 1, 2, 3}) {
		t.Errorf("FeatureIdx() = %v, want the full universe", sfs.FeatureIdx())
	}
	if math.Abs(sfs.Score()-0.90) > 1e-12 {
		t.Errorf("Score() = %v, want 0.90", sfs.Score())
	}
}

func TestRangeSelection(t *testing.T) {
	X, y := fourFeatureData()

	scores := forwardScenarioScores()
	scores[subsetKey([]int{2, 1, 0})] = 0.72
	scores[subsetKey([]int{2, 1, 3})] = 0.70

	sfs := NewSequentialFeatureSelector(nil,
		WithKFeaturesRange(1, 3),
		WithSubsetScorer(&stubScorer{scores: scores}),
	)
	if err := sfs.Fit(X, y); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	// the search walks to size 3, but size 2 scored best within the range
	if !reflect.DeepEqual(sfs.FeatureIdx(), []int{2, 1}) {
		t.Errorf("FeatureIdx() = %v, want [2 1]", sfs.FeatureIdx())
	}
	if math.Abs(sfs.Score()-0.80) > 1e-12 {
		t.Errorf("Score() = %v, want 0.80", sfs.Score())
	}
	if len(sfs.Subsets()) != 3 {
		t.Errorf("registry has %d entries, want 3", len(sfs.Subsets()))
	}
}

func TestRangeSelectionTieResolvesToSmallerSize(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	y := mat.NewDense(2, 1, []float64{0, 1})

	scores := map[string]float64{
		subsetKey([]int{0}):    0.80,
		subsetKey([]int{1}):    0.60,
		subsetKey([]int{0, 1}): 0.80,
	}

	sfs := NewSequentialFeatureSelector(nil,
		WithKFeaturesRange(1, 2),
		WithSubsetScorer(&stubScorer{scores: scores}),
	)
	if err := sfs.Fit(X, y); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	if !reflect.DeepEqual(sfs.FeatureIdx(), []int{0}) {
		t.Errorf("FeatureIdx() = %v, want the smaller subset [0]", sfs.FeatureIdx())
	}
}

func TestSelectionDeterminism(t *testing.T) {
	X, y := fourFeatureData()

	run := func() ([]int, float64, map[int]ScoreRecord) {
		sfs := NewSequentialFeatureSelector(nil,
			WithKFeatures(2),
			WithNJobs(4),
			WithSubsetScorer(&stubScorer{scores: forwardScenarioScores()}),
		)
		if err := sfs.Fit(X, y); err != nil {
			t.Fatalf("Fit() unexpected error: %v", err)
		}
		return sfs.FeatureIdx(), sfs.Score(), sfs.Subsets()
	}

	idx1, score1, subsets1 := run()
	idx2, score2, subsets2 := run()

	if !reflect.DeepEqual(idx1, idx2) {
		t.Errorf("selected indices differ across runs: %v vs %v", idx1, idx2)
	}
	if score1 != score2 {
		t.Errorf("scores differ across runs: %v vs %v", score1, score2)
	}
	if !reflect.DeepEqual(subsets1, subsets2) {
		t.Errorf("registries differ across runs")
	}
}

func TestTransform(t *testing.T) {
	X, y := fourFeatureData()

	sfs := NewSequentialFeatureSelector(nil,
		WithKFeatures(2),
		WithSubsetScorer(&stubScorer{scores: forwardScenarioScores()}),
	)
	if err := sfs.Fit(X, y); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	got, err := sfs.Transform(X)
	if err != nil {
		t.Fatalf("Transform() unexpected error: %v", err)
	}

	rows, cols := got.Dims()
	if rows != 3 || cols != 2 {
		t.Fatalf("Transform() shape = (%d, %d), want (3, 2)", rows, cols)
	}
	for i := 0; i < rows; i++ {
		for j, src := range sfs.FeatureIdx() {
			if got.At(i, j) != X.At(i, src) {
				t.Errorf("transformed[%d,%d] = %v, want X[%d,%d] = %v", i, j, got.At(i, j), i, src, X.At(i, src))
			}
		}
	}
}

func TestFitTransform(t *testing.T) {
	X, y := fourFeatureData()

	sfs := NewSequentialFeatureSelector(nil,
		WithKFeatures(1),
		WithSubsetScorer(&stubScorer{scores: forwardScenarioScores()}),
	)

	got, err := sfs.FitTransform(X, y)
	if err != nil {
		t.Fatalf("FitTransform() unexpected error: %v", err)
	}
	_, cols := got.Dims()
	if cols != 1 {
		t.Errorf("FitTransform() produced %d columns, want 1", cols)
	}
}

func TestTransformBeforeFit(t *testing.T) {
	sfs := NewSequentialFeatureSelector(nil, WithKFeatures(1))

	_, err := sfs.Transform(mat.NewDense(1, 4, nil))
	var nfErr *errors.NotFittedError
	if !errors.As(err, &nfErr) {
		t.Errorf("expected *NotFittedError, got %T: %v", err, err)
	}
}

func TestTransformDimensionMismatch(t *testing.T) {
	X, y := fourFeatureData()

	sfs := NewSequentialFeatureSelector(nil,
		WithKFeatures(2),
		WithSubsetScorer(&stubScorer{scores: forwardScenarioScores()}),
	)
	if err := sfs.Fit(X, y); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	_, err := sfs.Transform(mat.NewDense(3, 5, nil))
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Errorf("expected *DimensionError, got %T: %v", err, err)
	}
}

func TestTargetValidation(t *testing.T) {
	X, y := fourFeatureData()

	tests := []struct {
		name string
		opts []Option
	}{
		{name: "k below 1", opts: []Option{WithKFeatures(0)}},
		{name: "k above n_features", opts: []Option{WithKFeatures(5)}},
		{name: "range min below 1", opts: []Option{WithKFeaturesRange(0, 2)}},
		{name: "range max above n_features", opts: []Option{WithKFeaturesRange(1, 9)}},
		{name: "range min above max", opts: []Option{WithKFeaturesRange(3, 2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]Option{WithSubsetScorer(&stubScorer{})}, tt.opts...)
			sfs := NewSequentialFeatureSelector(nil, opts...)

			err := sfs.Fit(X, y)
			var vErr *errors.ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("expected *ValidationError, got %T: %v", err, err)
			}
			if sfs.IsFitted() {
				t.Error("selector must not be fitted after a validation failure")
			}
		})
	}
}

func TestEvaluationErrorAbortsSearch(t *testing.T) {
	X, y := fourFeatureData()

	// size-1 scores exist, every size-2 subset is unknown and fails
	scores := map[string]float64{
		subsetKey([]int{0}): 0.50,
		subsetKey([]int{1}): 0.60,
		subsetKey([]int{2}): 0.70,
		subsetKey([]int{3}): 0.40,
	}

	sfs := NewSequentialFeatureSelector(nil,
		WithKFeatures(2),
		WithSubsetScorer(&stubScorer{scores: scores}),
	)

	err := sfs.Fit(X, y)
	var evalErr *errors.EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected *EvaluationError, got %T: %v", err, err)
	}
	if sfs.IsFitted() {
		t.Error("selector must not be fitted after an aborted search")
	}
}

// plainEstimator is neither a classifier nor a regressor, so a default
// scoring metric cannot be inferred for it.
type plainEstimator struct{}

func (e *plainEstimator) Fit(X, y mat.Matrix) error {
	return nil
}

func (e *plainEstimator) Predict(X mat.Matrix) (mat.Matrix, error) {
	return X, nil
}

func TestScoringInferenceFailure(t *testing.T) {
	X, y := fourFeatureData()

	sfs := NewSequentialFeatureSelector(
		func() model.Estimator { return &plainEstimator{} },
		WithKFeatures(1),
	)

	err := sfs.Fit(X, y)
	var typeErr *errors.EstimatorTypeError
	if !errors.As(err, &typeErr) {
		t.Errorf("expected *EstimatorTypeError, got %T: %v", err, err)
	}
}

func TestDefaultOracleWithRegressor(t *testing.T) {
	// y depends on column 1 alone; column 0 is an unrelated ramp
	X := mat.NewDense(4, 2, []float64{
		1, 5,
		2, 1,
		3, 9,
		4, 3,
	})
	y := mat.NewDense(4, 1, []float64{11, 3, 19, 7})

	sfs := NewSequentialFeatureSelector(
		func() model.Estimator { return linear.NewLinearRegression() },
		WithKFeatures(1),
		WithCV(0),
	)
	if err := sfs.Fit(X, y); err != nil {
		t.Fatalf("Fit() unexpected error: %v", err)
	}

	if !reflect.DeepEqual(sfs.FeatureIdx(), []int{1}) {
		t.Errorf("FeatureIdx() = %v, want the informative column [1]", sfs.FeatureIdx())
	}
	if math.Abs(sfs.Score()-1.0) > 1e-8 {
		t.Errorf("Score() = %v, want 1.0 for an exact linear fit", sfs.Score())
	}
}

func TestRefitDiscardsPreviousState(t *testing.T) {
	X, y := fourFeatureData()

	sfs := NewSequentialFeatureSelector(nil,
		WithKFeatures(2),
		WithSubsetScorer(&stubScorer{scores: forwardScenarioScores()}),
	)
	if err := sfs.Fit(X, y); err != nil {
		t.Fatalf("first Fit() unexpected error: %v", err)
	}

	// second fit with a different target must not keep the old registry
	WithKFeatures(1)(sfs)
	if err := sfs.Fit(X, y); err != nil {
		t.Fatalf("second Fit() unexpected error: %v", err)
	}

	if !reflect.DeepEqual(sfs.FeatureIdx(), []int{2}) {
		t.Errorf("FeatureIdx() = %v, want [2]", sfs.FeatureIdx())
	}
	if len(sfs.Subsets()) != 1 {
		t.Errorf("registry has %d entries after refit, want 1", len(sfs.Subsets()))
	}
}
