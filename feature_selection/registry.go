package feature_selection

import (
	"gonum.org/v1/gonum/stat"
)

// ScoreRecord captures the evaluation outcome of one feature subset:
// the subset itself, the individual fold scores the oracle returned, and
// their arithmetic mean. Records are value types and never mutated after
// creation.
type ScoreRecord struct {
	// FeatureIdx is the subset, in inclusion order (forward selection) or
	// remaining order (backward selection).
	FeatureIdx []int

	// CVScores holds one score per cross-validation fold; a single element
	// when cross-validation is disabled.
	CVScores []float64

	// AvgScore is the mean of CVScores.
	AvgScore float64
}

func newScoreRecord(featureIdx []int, cvScores []float64) ScoreRecord {
	idx := make([]int, len(featureIdx))
	copy(idx, featureIdx)
	scores := make([]float64, len(cvScores))
	copy(scores, cvScores)

	return ScoreRecord{
		FeatureIdx: idx,
		CVScores:   scores,
		AvgScore:   stat.Mean(scores, nil),
	}
}

// registry keeps, per subset size, the best-scoring record observed during
// a single fit run. Entries are never removed; a fresh fit starts from a
// fresh registry.
type registry struct {
	records map[int]ScoreRecord
}

func newRegistry() *registry {
	return &registry{records: make(map[int]ScoreRecord)}
}

// update stores rec under its subset size. An existing entry for that size
// is replaced only when the new record's average score is strictly greater,
// so the first-observed record wins ties. Reports whether rec was stored.
func (r *registry) update(rec ScoreRecord) bool {
	size := len(rec.FeatureIdx)
	cur, ok := r.records[size]
	if ok && rec.AvgScore <= cur.AvgScore {
		return false
	}
	r.records[size] = rec
	return true
}

func (r *registry) get(size int) (ScoreRecord, bool) {
	rec, ok := r.records[size]
	return rec, ok
}

// bestInRange returns the best record among subset sizes in [minSize,
// maxSize]. Sizes are scanned in ascending order with a strictly-greater
// comparison, so score ties resolve to the smallest size.
func (r *registry) bestInRange(minSize, maxSize int) (ScoreRecord, bool) {
	var best ScoreRecord
	found := false
	for k := minSize; k <= maxSize; k++ {
		rec, ok := r.records[k]
		if !ok {
			continue
		}
		if !found || rec.AvgScore > best.AvgScore {
			best = rec
			found = true
		}
	}
	return best, found
}

// snapshot returns a copy of the registry's contents for external
// inspection.
func (r *registry) snapshot() map[int]ScoreRecord {
	out := make(map[int]ScoreRecord, len(r.records))
	for size, rec := range r.records {
		out[size] = rec
	}
	return out
}
