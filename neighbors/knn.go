// Package neighbors implements the k-nearest neighbors classifier.
// It is the stock classification oracle for feature selection: cheap to
// refit for every candidate subset and sensitive to which features are kept.
package neighbors

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/featgo/core/model"
	"github.com/YuminosukeSato/featgo/core/parallel"
	"github.com/YuminosukeSato/featgo/metrics"
	"github.com/YuminosukeSato/featgo/pkg/errors"
)

// KNeighborsClassifier classifies samples by majority vote over the k
// nearest training samples under Euclidean distance.
type KNeighborsClassifier struct {
	model.BaseEstimator

	// NNeighbors is the number of neighbors to vote (default: 5)
	NNeighbors int

	trainX  *mat.Dense
	trainY  []float64
	classes []int
}

// NewKNeighborsClassifier creates a new classifier with the given number of
// neighbors.
func NewKNeighborsClassifier(nNeighbors int) *KNeighborsClassifier {
	if nNeighbors < 1 {
		nNeighbors = 5
	}
	return &KNeighborsClassifier{NNeighbors: nNeighbors}
}

// Fit stores the training data and the set of observed class labels.
func (knn *KNeighborsClassifier) Fit(X, y mat.Matrix) error {
	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("KNeighborsClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("KNeighborsClassifier.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("KNeighborsClassifier.Fit", "y must be a column vector")
	}
	if r < knn.NNeighbors {
		return errors.NewValueError("KNeighborsClassifier.Fit", "number of samples is smaller than n_neighbors")
	}

	knn.trainX = mat.DenseCopyOf(X)
	knn.trainY = make([]float64, r)
	classSet := make(map[int]bool)
	for i := 0; i < r; i++ {
		label := y.At(i, 0)
		knn.trainY[i] = label
		classSet[int(label)] = true
	}

	knn.classes = make([]int, 0, len(classSet))
	for class := range classSet {
		knn.classes = append(knn.classes, class)
	}
	sort.Ints(knn.classes)

	knn.SetFitted()
	return nil
}

// Predict returns the majority-vote label for every sample.
// Vote ties are broken toward the smallest class label.
func (knn *KNeighborsClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !knn.IsFitted() {
		return nil, errors.NewNotFittedError("KNeighborsClassifier", "Predict")
	}

	r, c := X.Dims()
	_, nFeatures := knn.trainX.Dims()
	if c != nFeatures {
		return nil, errors.NewDimensionError("KNeighborsClassifier.Predict", nFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)

	const parallelThreshold = 100
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			votes := knn.neighborVotes(X, i)
			predictions.Set(i, 0, float64(argmaxVote(votes, knn.classes)))
		}
	})

	return predictions, nil
}

// PredictProba returns, per sample, the fraction of the k nearest neighbors
// belonging to each class, columns ordered as Classes().
func (knn *KNeighborsClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !knn.IsFitted() {
		return nil, errors.NewNotFittedError("KNeighborsClassifier", "PredictProba")
	}

	r, c := X.Dims()
	_, nFeatures := knn.trainX.Dims()
	if c != nFeatures {
		return nil, errors.NewDimensionError("KNeighborsClassifier.PredictProba", nFeatures, c, 1)
	}

	proba := mat.NewDense(r, len(knn.classes), nil)
	classCol := make(map[int]int, len(knn.classes))
	for j, class := range knn.classes {
		classCol[class] = j
	}

	const parallelThreshold = 100
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			votes := knn.neighborVotes(X, i)
			for class, count := range votes {
				proba.Set(i, classCol[class], float64(count)/float64(knn.NNeighbors))
			}
		}
	})

	return proba, nil
}

// Classes returns the unique class labels seen during fitting.
func (knn *KNeighborsClassifier) Classes() []int {
	out := make([]int, len(knn.classes))
	copy(out, knn.classes)
	return out
}

// Score はテストデータに対する正解率（accuracy）を計算する
func (knn *KNeighborsClassifier) Score(X, y mat.Matrix) (float64, error) {
	if !knn.IsFitted() {
		return 0, errors.NewNotFittedError("KNeighborsClassifier", "Score")
	}

	pred, err := knn.Predict(X)
	if err != nil {
		return 0, err
	}

	r, _ := y.Dims()
	yTrue := mat.NewVecDense(r, nil)
	yPred := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yTrue.SetVec(i, y.At(i, 0))
		yPred.SetVec(i, pred.At(i, 0))
	}

	return metrics.Accuracy(yTrue, yPred)
}

// GetParams returns the classifier's hyperparameters.
func (knn *KNeighborsClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_neighbors": knn.NNeighbors,
	}
}

// neighborVotes counts the class labels among the k nearest training
// samples of query row i. Equidistant samples are ranked by training index.
func (knn *KNeighborsClassifier) neighborVotes(X mat.Matrix, i int) map[int]int {
	nTrain, nFeatures := knn.trainX.Dims()

	type neighbor struct {
		dist float64
		idx  int
	}
	dists := make([]neighbor, nTrain)
	for t := 0; t < nTrain; t++ {
		var d float64
		for j := 0; j < nFeatures; j++ {
			diff := X.At(i, j) - knn.trainX.At(t, j)
			d += diff * diff
		}
		dists[t] = neighbor{dist: d, idx: t}
	}

	sort.Slice(dists, func(a, b int) bool {
		if dists[a].dist != dists[b].dist {
			return dists[a].dist < dists[b].dist
		}
		return dists[a].idx < dists[b].idx
	})

	votes := make(map[int]int)
	for _, nb := range dists[:knn.NNeighbors] {
		votes[int(knn.trainY[nb.idx])]++
	}
	return votes
}

// argmaxVote picks the class with the most votes; ties go to the smallest
// class label, which classes provides in ascending order.
func argmaxVote(votes map[int]int, classes []int) int {
	best := classes[0]
	bestCount := -1
	for _, class := range classes {
		if count := votes[class]; count > bestCount {
			best = class
			bestCount = count
		}
	}
	return best
}
