package feature_selection

import (
	"sort"

	"github.com/YuminosukeSato/featgo/pkg/errors"
)

// forwardCandidates returns every subset reachable from current by adding a
// single feature out of the universe {0..nFeatures-1}. Candidates are
// ordered ascending by the added feature index, and the added feature is
// appended, so a subset's element order records its inclusion order.
//
// target is only used to report which size the search could not reach.
func forwardCandidates(current []int, nFeatures, target int) ([][]int, error) {
	inSubset := make([]bool, nFeatures)
	for _, f := range current {
		inSubset[f] = true
	}

	candidates := make([][]int, 0, nFeatures-len(current))
	for f := 0; f < nFeatures; f++ {
		if inSubset[f] {
			continue
		}
		subset := make([]int, len(current)+1)
		copy(subset, current)
		subset[len(current)] = f
		candidates = append(candidates, subset)
	}

	if len(candidates) == 0 {
		return nil, errors.NewExhaustedSearchError("forward", len(current), target)
	}
	return candidates, nil
}

// backwardCandidates returns every subset reachable from current by removing
// a single feature, ordered ascending by the removed feature index. The
// relative order of the surviving elements is preserved.
//
// locked names a feature that must be retained: any candidate dropping it is
// filtered out. Pass a negative value to disable the constraint. This is a
// primitive for floating-selection variants; the plain backward loop never
// locks a feature.
func backwardCandidates(current []int, locked, target int) ([][]int, error) {
	if len(current) < 2 {
		return nil, errors.NewExhaustedSearchError("backward", len(current), target)
	}

	// Enumerate removal positions by ascending feature index, independent of
	// the order the features happen to be stored in.
	positions := make([]int, len(current))
	for i := range positions {
		positions[i] = i
	}
	sort.Slice(positions, func(a, b int) bool {
		return current[positions[a]] < current[positions[b]]
	})

	candidates := make([][]int, 0, len(current))
	for _, pos := range positions {
		if current[pos] == locked {
			continue
		}
		subset := make([]int, 0, len(current)-1)
		subset = append(subset, current[:pos]...)
		subset = append(subset, current[pos+1:]...)
		candidates = append(candidates, subset)
	}

	if len(candidates) == 0 {
		return nil, errors.NewExhaustedSearchError("backward", len(current), target)
	}
	return candidates, nil
}
