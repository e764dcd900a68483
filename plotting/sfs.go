// Package plotting renders diagnostic charts for feature selection runs.
package plotting

import (
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/featgo/feature_selection"
	"github.com/YuminosukeSato/featgo/pkg/errors"
)

// scorePoints carries one point per subset size together with the spread of
// that size's fold scores.
type scorePoints struct {
	plotter.XYs
	plotter.YErrors
}

// SelectionCurve builds a chart of average score against subset size from a
// fitted selector's per-size records (see SequentialFeatureSelector.Subsets).
// Error bars show one standard deviation of the fold scores; sizes with a
// single fold score get no bar.
func SelectionCurve(subsets map[int]feature_selection.ScoreRecord, title string) (*plot.Plot, error) {
	if len(subsets) == 0 {
		return nil, errors.NewValueError("plotting.SelectionCurve", "no subset records to plot")
	}

	sizes := make([]int, 0, len(subsets))
	for size := range subsets {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)

	data := scorePoints{
		XYs:     make(plotter.XYs, len(sizes)),
		YErrors: make(plotter.YErrors, len(sizes)),
	}
	for i, size := range sizes {
		rec := subsets[size]
		data.XYs[i].X = float64(size)
		data.XYs[i].Y = rec.AvgScore

		if len(rec.CVScores) > 1 {
			sd := stat.StdDev(rec.CVScores, nil)
			data.YErrors[i].Low = sd
			data.YErrors[i].High = sd
		}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "subset size"
	p.Y.Label.Text = "average score"

	line, points, err := plotter.NewLinePoints(data.XYs)
	if err != nil {
		return nil, errors.Wrap(err, "plotting.SelectionCurve: line")
	}
	bars, err := plotter.NewYErrorBars(data)
	if err != nil {
		return nil, errors.Wrap(err, "plotting.SelectionCurve: error bars")
	}

	p.Add(line, points, bars)
	return p, nil
}

// SaveSelectionCurve renders the selection curve to an image file. The
// format follows the file extension (png, svg, pdf, ...).
func SaveSelectionCurve(subsets map[int]feature_selection.ScoreRecord, title, path string) error {
	p, err := SelectionCurve(subsets, title)
	if err != nil {
		return err
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "plotting.SaveSelectionCurve")
	}
	return nil
}
