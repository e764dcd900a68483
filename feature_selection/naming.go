package feature_selection

import (
	"fmt"
	"reflect"
	"strings"
)

// NamedEstimator pairs an estimator with an auto-generated display name.
type NamedEstimator struct {
	Name      string
	Estimator interface{}
}

// NameEstimators derives lowercase display names from the estimators' type
// names. When the same type appears more than once, occurrences are
// disambiguated with -1, -2, ... suffixes in input order.
func NameEstimators(estimators ...interface{}) []NamedEstimator {
	names := make([]string, len(estimators))
	for i, est := range estimators {
		t := reflect.TypeOf(est)
		for t != nil && t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		if t == nil {
			names[i] = "nil"
			continue
		}
		names[i] = strings.ToLower(t.Name())
	}

	counts := make(map[string]int, len(names))
	for _, name := range names {
		counts[name]++
	}

	seen := make(map[string]int, len(names))
	out := make([]NamedEstimator, len(estimators))
	for i, est := range estimators {
		name := names[i]
		if counts[name] > 1 {
			seen[name]++
			name = fmt.Sprintf("%s-%d", name, seen[name])
		}
		out[i] = NamedEstimator{Name: name, Estimator: est}
	}
	return out
}
