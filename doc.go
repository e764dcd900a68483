// Package featgo provides greedy sequential feature selection for Go,
// designed for machine learning pipelines that need to shrink a feature
// space before training a final model.
//
// featgo offers a scikit-learn-like API: wrap any estimator in a
// SequentialFeatureSelector, fit it, and project new data down to the
// selected columns with Transform.
//
// # Quick Start
//
// Forward selection of the two best features for a linear model:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/featgo/core/model"
//	    "github.com/YuminosukeSato/featgo/feature_selection"
//	    "github.com/YuminosukeSato/featgo/linear"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 3, []float64{
//	        1, 10, 0,
//	        2, 20, 1,
//	        3, 30, 0,
//	        4, 40, 1,
//	    })
//	    y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})
//
//	    sfs := feature_selection.NewSequentialFeatureSelector(
//	        func() model.Estimator { return linear.NewLinearRegression() },
//	        feature_selection.WithKFeatures(2),
//	    )
//	    if err := sfs.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    fmt.Println("selected:", sfs.FeatureIdx())
//
//	    reduced, err := sfs.Transform(X)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("reduced:", mat.Formatted(reduced))
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - feature_selection: the greedy forward/backward selector
//   - model_selection: k-fold splitting and cross-validated scoring
//   - metrics: scoring metrics (accuracy, r2, negated error metrics)
//   - linear: linear regression, the stock regression estimator
//   - neighbors: k-nearest neighbors, the stock classification estimator
//   - plotting: score-versus-size charts of a selection run
//   - core/model: estimator interfaces and shared fitted-state handling
//   - pkg/errors: structured error types with stack traces
//   - pkg/log: structured logging setup and attribute keys
package featgo
