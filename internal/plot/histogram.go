package plot

import (
	"errors"
	"fmt"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
)

// Series is one labelled sequence of scores.
type Series struct {
	Label  string
	Values []float64
}

// HistogramOptions configures an overlaid histogram.
type HistogramOptions struct {
	Title  string
	XLabel string
	YLabel string
	// Bins is shared by every series.
	Bins int
	Page Page
	Out  string
}

// DefaultHistogramOptions mirrors the labels of the score comparison plot.
func DefaultHistogramOptions() HistogramOptions {
	return HistogramOptions{
		Title:  "Score Distribution Comparison",
		XLabel: "Score",
		YLabel: "Density",
		Bins:   50,
		Page:   DefaultPage(),
		Out:    "histogram_comparison.png",
	}
}

// Histogram overlays density-normalized histograms of every series at half
// opacity and writes the image to opt.Out.
func Histogram(series []Series, opt HistogramOptions) error {
	if len(series) == 0 {
		return errors.New("histogram: no series")
	}
	bins := opt.Bins
	if bins <= 0 {
		bins = 50
	}

	p := gplot.New()
	p.Title.Text = opt.Title
	p.X.Label.Text = opt.XLabel
	p.Y.Label.Text = opt.YLabel
	p.Legend.Top = true

	for i, s := range series {
		if len(s.Values) == 0 {
			return fmt.Errorf("histogram %q: %w", s.Label, ErrEmptySeries)
		}
		h, err := plotter.NewHist(plotter.Values(s.Values), bins)
		if err != nil {
			return fmt.Errorf("histogram %q: %w", s.Label, err)
		}
		// unit area, like a density plot
		h.Normalize(1)
		h.FillColor = seriesColor(i, 0.5)
		h.LineStyle.Color = seriesColor(i, 0.8)
		p.Add(h)
		p.Legend.Add(s.Label, h)
	}
	return save(p, opt.Page, opt.Out)
}
