// Package feature_selection implements greedy sequential feature selection.
//
// SequentialFeatureSelector grows (forward) or shrinks (backward) a feature
// subset one feature per step, at each step keeping the candidate whose
// cross-validated score is highest. The per-size best subsets are recorded
// so that after fitting both the final subset and the full search history
// are available.
package feature_selection

import (
	"fmt"
	"log/slog"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/featgo/core/model"
	"github.com/YuminosukeSato/featgo/metrics"
	"github.com/YuminosukeSato/featgo/model_selection"
	"github.com/YuminosukeSato/featgo/pkg/errors"
	"github.com/YuminosukeSato/featgo/pkg/log"
)

// SequentialFeatureSelector は貪欲法による逐次特徴量選択器です。
// forward では空集合から1特徴ずつ追加し、backward では全特徴集合から
// 1特徴ずつ削除します。各ステップの勝者はクロスバリデーション平均
// スコアの argmax で決まり、同点は列挙順で先のものが勝ちます。
type SequentialFeatureSelector struct {
	model.BaseEstimator

	newEstimator model.EstimatorFactory
	kMin         int
	kMax         int
	ranged       bool
	forward      bool
	scoring      string
	cv           int
	nJobs        int
	evalJobs     int
	subsetScorer SubsetScorer
	logger       *slog.Logger

	featureIdx  []int
	score       float64
	subsets     map[int]ScoreRecord
	nFeaturesIn int
}

// Option はSequentialFeatureSelectorの設定オプションです。
type Option func(*SequentialFeatureSelector)

// WithKFeatures sets a fixed target subset size.
func WithKFeatures(k int) Option {
	return func(s *SequentialFeatureSelector) {
		s.kMin = k
		s.kMax = k
		s.ranged = false
	}
}

// WithKFeaturesRange asks for the best subset whose size lies in
// [minFeatures, maxFeatures]. Score ties resolve to the smaller size.
func WithKFeaturesRange(minFeatures, maxFeatures int) Option {
	return func(s *SequentialFeatureSelector) {
		s.kMin = minFeatures
		s.kMax = maxFeatures
		s.ranged = true
	}
}

// WithForward selects the search direction: true grows the subset from
// empty, false shrinks it from the full feature set. Default is forward.
func WithForward(forward bool) Option {
	return func(s *SequentialFeatureSelector) {
		s.forward = forward
	}
}

// WithScoring names the scoring metric (see metrics.GetScorer). When left
// empty the metric is inferred from the estimator type: accuracy for
// classifiers, r2 for regressors.
func WithScoring(scoring string) Option {
	return func(s *SequentialFeatureSelector) {
		s.scoring = scoring
	}
}

// WithCV sets the number of cross-validation folds (default: 5).
// A value below 2 disables cross-validation; candidates are then scored on
// their own training data.
func WithCV(folds int) Option {
	return func(s *SequentialFeatureSelector) {
		s.cv = folds
	}
}

// WithNJobs bounds the number of candidate subsets evaluated concurrently
// within one greedy step. Zero or negative means one worker per CPU core.
func WithNJobs(nJobs int) Option {
	return func(s *SequentialFeatureSelector) {
		s.nJobs = nJobs
	}
}

// WithEvaluatorJobs is a parallelism hint handed through to the stock
// evaluator for its per-fold work. The greedy loop itself never interprets
// it. Default is 1, keeping parallelism at the candidate level.
func WithEvaluatorJobs(nJobs int) Option {
	return func(s *SequentialFeatureSelector) {
		s.evalJobs = nJobs
	}
}

// WithSubsetScorer replaces the stock cross-validation evaluator with a
// custom scoring oracle. The estimator factory, scoring and cv settings are
// ignored when a custom oracle is installed.
func WithSubsetScorer(scorer SubsetScorer) Option {
	return func(s *SequentialFeatureSelector) {
		s.subsetScorer = scorer
	}
}

// WithLogger sets the logger used for per-step progress records.
func WithLogger(logger *slog.Logger) Option {
	return func(s *SequentialFeatureSelector) {
		s.logger = logger
	}
}

// NewSequentialFeatureSelector creates a selector around the given estimator
// factory. The factory is invoked once per fit-and-score, so every
// evaluation works on a fresh estimator and candidates can run in parallel.
func NewSequentialFeatureSelector(newEstimator model.EstimatorFactory, opts ...Option) *SequentialFeatureSelector {
	s := &SequentialFeatureSelector{
		newEstimator: newEstimator,
		kMin:         1,
		kMax:         1,
		forward:      true,
		cv:           5,
		nJobs:        1,
		evalJobs:     1,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fit runs the greedy search and remembers the winning subset.
// The registry of per-size best subsets is rebuilt from scratch, so calling
// Fit again with different data or options never leaks previous results.
func (s *SequentialFeatureSelector) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	yRows, yCols := y.Dims()

	if rows == 0 || cols == 0 {
		return errors.NewModelError("SequentialFeatureSelector.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != rows {
		return errors.NewDimensionError("SequentialFeatureSelector.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("SequentialFeatureSelector.Fit", "y must be a column vector")
	}
	if err := s.validateTarget(cols); err != nil {
		return err
	}

	oracle, scoring, err := s.resolveOracle()
	if err != nil {
		return err
	}

	direction := "backward"
	if s.forward {
		direction = "forward"
	}
	logger := s.logger.With(
		slog.String(log.ModelNameKey, "SequentialFeatureSelector"),
		slog.String(log.OperationKey, log.OperationFit),
		slog.String(log.DirectionKey, direction),
		slog.String(log.ScoringKey, scoring),
		slog.Int(log.SamplesKey, rows),
		slog.Int(log.FeaturesKey, cols),
	)

	// 再学習に備えて前回の結果を破棄する
	s.Reset()
	s.featureIdx = nil
	s.subsets = nil
	s.score = 0

	reg := newRegistry()

	var current []int
	var target int
	var kScore float64

	if s.forward {
		target = s.kMax
	} else {
		target = s.kMin
		current = make([]int, cols)
		for i := range current {
			current[i] = i
		}
		// backward は全特徴集合のスコアも記録対象とする
		scores, serr := oracle.ScoreSubset(X, y, current)
		if serr != nil {
			return errors.NewEvaluationError("SequentialFeatureSelector.Fit", current, serr)
		}
		rec := newScoreRecord(current, scores)
		reg.update(rec)
		kScore = rec.AvgScore
	}

	step := 0
	for len(current) != target {
		step++

		candidates, cerr := s.generateCandidates(current, cols, target)
		if cerr != nil {
			return cerr
		}

		winner, werr := s.scoreCandidates(oracle, X, y, candidates)
		if werr != nil {
			return werr
		}

		reg.update(winner)
		current = winner.FeatureIdx
		kScore = winner.AvgScore

		logger.Debug("greedy step complete",
			slog.Int(log.StepKey, step),
			slog.Int(log.SubsetSizeKey, len(current)),
			slog.Int(log.CandidatesKey, len(candidates)),
			slog.Float64(log.BestScoreKey, kScore),
		)
	}

	if s.ranged {
		rec, ok := reg.bestInRange(s.kMin, s.kMax)
		if !ok {
			return errors.NewValueError("SequentialFeatureSelector.Fit", "no subset recorded in the requested size range")
		}
		current = rec.FeatureIdx
		kScore = rec.AvgScore
	}

	s.featureIdx = current
	s.score = kScore
	s.subsets = reg.snapshot()
	s.nFeaturesIn = cols
	s.SetFitted()

	logger.Info("feature selection complete",
		slog.Int(log.SubsetSizeKey, len(current)),
		slog.Float64(log.BestScoreKey, kScore),
	)
	return nil
}

// Transform returns X restricted to the selected feature columns, in
// selection order.
func (s *SequentialFeatureSelector) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("SequentialFeatureSelector", "Transform")
	}

	_, cols := X.Dims()
	if cols != s.nFeaturesIn {
		return nil, errors.NewDimensionError("SequentialFeatureSelector.Transform", s.nFeaturesIn, cols, 1)
	}

	return ProjectColumns(X, s.featureIdx), nil
}

// FitTransform runs Fit and returns the transformed training data.
func (s *SequentialFeatureSelector) FitTransform(X, y mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X, y); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// FeatureIdx returns the selected feature indices, in inclusion order for
// forward selection and remaining order for backward selection.
func (s *SequentialFeatureSelector) FeatureIdx() []int {
	out := make([]int, len(s.featureIdx))
	copy(out, s.featureIdx)
	return out
}

// Score returns the average cross-validation score of the selected subset.
func (s *SequentialFeatureSelector) Score() float64 {
	return s.score
}

// Subsets returns the best-scoring subset recorded for every size the
// search visited, keyed by subset size.
func (s *SequentialFeatureSelector) Subsets() map[int]ScoreRecord {
	out := make(map[int]ScoreRecord, len(s.subsets))
	for size, rec := range s.subsets {
		out[size] = rec
	}
	return out
}

// GetParams returns the selector's hyperparameters.
func (s *SequentialFeatureSelector) GetParams() map[string]interface{} {
	var kFeatures interface{} = s.kMin
	if s.ranged {
		kFeatures = [2]int{s.kMin, s.kMax}
	}
	return map[string]interface{}{
		"k_features": kFeatures,
		"forward":    s.forward,
		"scoring":    s.scoring,
		"cv":         s.cv,
		"n_jobs":     s.nJobs,
	}
}

// String returns a short human-readable summary of the fitted selector.
func (s *SequentialFeatureSelector) String() string {
	if !s.IsFitted() {
		return "SequentialFeatureSelector(unfitted)"
	}
	idx := s.FeatureIdx()
	sort.Ints(idx)
	return fmt.Sprintf("SequentialFeatureSelector(features=%v, score=%.4f)", idx, s.score)
}

// validateTarget checks the requested subset size(s) against the number of
// available features.
func (s *SequentialFeatureSelector) validateTarget(nFeatures int) error {
	if s.ranged {
		if s.kMin < 1 || s.kMin > nFeatures {
			return errors.NewValidationError("k_features", fmt.Sprintf("range minimum must be in [1, %d]", nFeatures), s.kMin)
		}
		if s.kMax < 1 || s.kMax > nFeatures {
			return errors.NewValidationError("k_features", fmt.Sprintf("range maximum must be in [1, %d]", nFeatures), s.kMax)
		}
		if s.kMin > s.kMax {
			return errors.NewValidationError("k_features", "range minimum must not exceed range maximum", [2]int{s.kMin, s.kMax})
		}
		return nil
	}
	if s.kMin < 1 || s.kMin > nFeatures {
		return errors.NewValidationError("k_features", fmt.Sprintf("must be in [1, %d]", nFeatures), s.kMin)
	}
	return nil
}

// resolveOracle returns the SubsetScorer to use and the name of the scoring
// metric for logging. A custom oracle short-circuits metric resolution.
func (s *SequentialFeatureSelector) resolveOracle() (SubsetScorer, string, error) {
	if s.subsetScorer != nil {
		scoring := s.scoring
		if scoring == "" {
			scoring = "custom"
		}
		return s.subsetScorer, scoring, nil
	}

	if s.newEstimator == nil {
		return nil, "", errors.NewValueError("SequentialFeatureSelector.Fit", "estimator factory must not be nil")
	}

	scoring := s.scoring
	if scoring == "" {
		// 指標が未指定の場合は推定器の種別から推論する
		probe := s.newEstimator()
		switch probe.(type) {
		case model.Classifier:
			scoring = metrics.ScoringAccuracy
		case model.Regressor:
			scoring = metrics.ScoringR2
		default:
			return nil, "", errors.NewEstimatorTypeError(fmt.Sprintf("%T", probe))
		}
	}

	scorer, err := metrics.GetScorer(scoring)
	if err != nil {
		return nil, "", err
	}

	var splitter model_selection.Splitter
	if s.cv >= 2 {
		splitter = model_selection.NewKFold(s.cv, false, 0)
	}

	return &crossValSubsetScorer{
		newEstimator: s.newEstimator,
		scorer:       scorer,
		splitter:     splitter,
		nJobs:        s.evalJobs,
	}, scoring, nil
}

func (s *SequentialFeatureSelector) generateCandidates(current []int, nFeatures, target int) ([][]int, error) {
	if s.forward {
		return forwardCandidates(current, nFeatures, target)
	}
	return backwardCandidates(current, -1, target)
}

// scoreCandidates evaluates every candidate subset and returns the record of
// the best one. Candidates run concurrently, but results land in a
// candidate-indexed slice and the arg-max scans it in enumeration order, so
// the outcome is independent of goroutine scheduling. Ties go to the
// earliest candidate.
func (s *SequentialFeatureSelector) scoreCandidates(oracle SubsetScorer, X, y mat.Matrix, candidates [][]int) (ScoreRecord, error) {
	foldScores := make([][]float64, len(candidates))

	limit := s.nJobs
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i := range candidates {
		g.Go(func() error {
			scores, err := oracle.ScoreSubset(X, y, candidates[i])
			if err != nil {
				return errors.NewEvaluationError("SequentialFeatureSelector.Fit", candidates[i], err)
			}
			foldScores[i] = scores
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return ScoreRecord{}, err
	}

	best := newScoreRecord(candidates[0], foldScores[0])
	for i := 1; i < len(candidates); i++ {
		rec := newScoreRecord(candidates[i], foldScores[i])
		if rec.AvgScore > best.AvgScore {
			best = rec
		}
	}
	return best, nil
}
