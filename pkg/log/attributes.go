package log

// Standard attribute keys for selection and estimator operations. Using
// these keys keeps log records filterable across the greedy search loop,
// the evaluator and the estimators it drives.

// Model and operation context.
const (
	// ModelNameKey identifies the estimator or selector type.
	// Examples: "SequentialFeatureSelector", "LinearRegression"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "transform", "fit_transform", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "feature_selection", "model_selection", "metrics"
	ComponentKey = "ml.component"
)

// Data shape.
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"
)

// Selection loop context. These attributes describe one step of the greedy
// search: which step it is, how large the current subset is, and how the
// winning candidate scored.
const (
	// DirectionKey records the search direction, "forward" or "backward".
	DirectionKey = "selection.direction"

	// StepKey records the greedy step number, starting at 1.
	StepKey = "selection.step"

	// SubsetSizeKey records the size of the subset after the step.
	SubsetSizeKey = "selection.subset_size"

	// CandidatesKey records how many candidate subsets the step evaluated.
	CandidatesKey = "selection.candidates"

	// BestScoreKey records the average score of the step's winning candidate.
	BestScoreKey = "selection.best_score"

	// ScoringKey records the scoring metric in use.
	// Examples: "accuracy", "r2", "neg_mean_squared_error"
	ScoringKey = "selection.scoring"
)

// Performance.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Standard operation values.
const (
	OperationFit          = "fit"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationScore        = "score"
)
