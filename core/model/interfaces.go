// Package model provides the estimator state machine and the interfaces
// shared by every estimator in featgo.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Estimator は教師あり学習モデルの基本インターフェース。
// 特徴量選択のオラクルが候補サブセットごとに学習・評価する対象となる。
type Estimator interface {
	Fitter
	Predictor
}

// EstimatorFactory は独立した推定器インスタンスを生成する。
// 候補サブセットや交差検証フォールドを並列に評価するとき、
// ゴルーチンごとに専用の推定器を確保するために使う。
type EstimatorFactory func() Estimator

// Scorer is the interface for estimators that can compute their own score
// on held-out data (R^2 for regressors, accuracy for classifiers).
type Scorer interface {
	Score(X, y mat.Matrix) (float64, error)
}

// Regressor combines the interfaces a regression estimator satisfies.
// An estimator that is a Regressor but not a Classifier defaults to the
// r2 scoring metric during feature selection.
type Regressor interface {
	Estimator
	Scorer
}

// Classifier combines the interfaces a classification estimator satisfies.
// A Classifier defaults to the accuracy scoring metric during feature
// selection.
type Classifier interface {
	Estimator
	Scorer

	// PredictProba returns probability estimates for each class.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the unique classes seen during fitting.
	Classes() []int
}

// ParameterGetter is the interface for estimators that expose their
// hyperparameters for inspection.
type ParameterGetter interface {
	GetParams() map[string]interface{}
}
