// Package errors はプロジェクト全体のエラーハンドリングを提供します。
// scikit-learnの例外システムにインスパイアされており、逐次特徴量選択で
// 発生しうる失敗を構造化されたエラー情報として表現します。
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// NotFittedError はセレクタや推定器が未学習の状態で `Transform` や `Predict` を
// 呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("featgo: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("featgo: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
// 探索対象サイズ k の範囲逸脱など、探索開始前に検出される設定の誤りを表します。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("featgo: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("featgo: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError は推定器に関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("featgo: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("featgo: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// ===========================================================================
//
//	特徴量選択特有のエラー型
//
// ===========================================================================

// EstimatorTypeError はスコアリング指標が省略され、かつ推定器が分類器・回帰器の
// いずれでもないため、デフォルト指標を推論できない場合のエラーです。
type EstimatorTypeError struct {
	Estimator string
}

func (e *EstimatorTypeError) Error() string {
	return fmt.Sprintf("featgo: estimator %q must be a classifier or a regressor when no scoring metric is given", e.Estimator)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *EstimatorTypeError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("estimator", e.Estimator).
		Str("type", "EstimatorTypeError")
}

// NewEstimatorTypeError は新しいEstimatorTypeErrorを作成し、スタックトレースを付与します。
func NewEstimatorTypeError(estimator string) error {
	err := &EstimatorTypeError{Estimator: estimator}
	return errors.WithStack(err)
}

// EvaluationError は候補サブセットの評価中にオラクルが失敗した場合のエラーです。
// 探索は即座に中断され、レジストリには直前ステップまでの確定結果のみが残ります。
type EvaluationError struct {
	Op     string
	Subset []int
	Err    error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("featgo: %s: evaluation of subset %v failed: %v", e.Op, e.Subset, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *EvaluationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Ints("subset", e.Subset).
		AnErr("cause", e.Err).
		Str("type", "EvaluationError")
}

// NewEvaluationError は新しいEvaluationErrorを作成し、スタックトレースを付与します。
func NewEvaluationError(op string, subset []int, cause error) error {
	err := &EvaluationError{Op: op, Subset: subset, Err: cause}
	return errors.WithStack(err)
}

// ExhaustedSearchError は要求されたサイズに到達する前に合法な候補サブセットが
// 尽きた場合のエラーです。暗黙により小さい／大きいサブセットを返すことはしません。
type ExhaustedSearchError struct {
	Direction  string // "forward" or "backward"
	SubsetSize int
	Target     int
}

func (e *ExhaustedSearchError) Error() string {
	return fmt.Sprintf("featgo: %s selection ran out of candidates at subset size %d before reaching target size %d", e.Direction, e.SubsetSize, e.Target)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ExhaustedSearchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("direction", e.Direction).
		Int("subset_size", e.SubsetSize).
		Int("target", e.Target).
		Str("type", "ExhaustedSearchError")
}

// NewExhaustedSearchError は新しいExhaustedSearchErrorを作成し、スタックトレースを付与します。
func NewExhaustedSearchError(direction string, subsetSize, target int) error {
	err := &ExhaustedSearchError{Direction: direction, SubsetSize: subsetSize, Target: target}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は特異行列の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")
)
