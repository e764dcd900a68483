package feature_selection

import (
	"math"
	"reflect"
	"testing"
)

func TestNewScoreRecord(t *testing.T) {
	idx := []int{2, 1}
	scores := []float64{0.7, 0.9}
	rec := newScoreRecord(idx, scores)

	if math.Abs(rec.AvgScore-0.8) > 1e-12 {
		t.Errorf("AvgScore = %v, want 0.8", rec.AvgScore)
	}

	// the record owns copies, not the caller's slices
	idx[0] = 99
	scores[0] = 99
	if rec.FeatureIdx[0] != 2 || rec.CVScores[0] != 0.7 {
		t.Error("record must not alias the caller's slices")
	}
}

func TestRegistryUpdate(t *testing.T) {
	reg := newRegistry()

	first := newScoreRecord([]int{2}, []float64{0.7})
	if !reg.update(first) {
		t.Error("first record for a size must be stored")
	}

	// equal score: first-observed wins
	if reg.update(newScoreRecord([]int{1}, []float64{0.7})) {
		t.Error("a tie must not replace the existing record")
	}
	// lower score: rejected
	if reg.update(newScoreRecord([]int{0}, []float64{0.5})) {
		t.Error("a lower score must not replace the existing record")
	}

	got, ok := reg.get(1)
	if !ok || !reflect.DeepEqual(got.FeatureIdx, []int{2}) {
		t.Errorf("get(1) = %v, want subset [2]", got.FeatureIdx)
	}

	// strictly greater: replaced
	if !reg.update(newScoreRecord([]int{3}, []float64{0.9})) {
		t.Error("a strictly greater score must replace the existing record")
	}
	got, _ = reg.get(1)
	if !reflect.DeepEqual(got.FeatureIdx, []int{3}) {
		t.Errorf("get(1) after replacement = %v, want subset [3]", got.FeatureIdx)
	}
}

func TestRegistryBestInRange(t *testing.T) {
	reg := newRegistry()
	reg.update(newScoreRecord([]int{0}, []float64{0.80}))
	reg.update(newScoreRecord([]int{0, 1}, []float64{0.80}))
	reg.update(newScoreRecord([]int{0, 1, 2}, []float64{0.75}))

	// score tie between sizes 1 and 2 resolves to the smaller size
	best, ok := reg.bestInRange(1, 3)
	if !ok {
		t.Fatal("bestInRange() found nothing")
	}
	if len(best.FeatureIdx) != 1 {
		t.Errorf("tie resolved to size %d, want 1", len(best.FeatureIdx))
	}

	// range excluding the tie winner
	best, ok = reg.bestInRange(2, 3)
	if !ok || len(best.FeatureIdx) != 2 {
		t.Errorf("bestInRange(2,3) size = %d, want 2", len(best.FeatureIdx))
	}

	if _, ok := reg.bestInRange(4, 5); ok {
		t.Error("bestInRange() over unvisited sizes must report not found")
	}
}

func TestRegistrySnapshot(t *testing.T) {
	reg := newRegistry()
	reg.update(newScoreRecord([]int{1}, []float64{0.5}))

	snap := reg.snapshot()
	if len(snap) != 1 {
		t.Fatalf("snapshot has %d entries, want 1", len(snap))
	}

	// later updates must not show up in an earlier snapshot
	reg.update(newScoreRecord([]int{1, 2}, []float64{0.6}))
	if len(snap) != 1 {
		t.Error("snapshot must be detached from the registry")
	}
}
