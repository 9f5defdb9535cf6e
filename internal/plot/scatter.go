package plot

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/KaramelBytes/scoreplot-cli/internal/analysis"
	"gonum.org/v1/gonum/floats"
	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Diagonal selects the reference line drawn under a scatter plot.
type Diagonal int

const (
	// DiagonalIdentity draws y = x between DiagonalLow and DiagonalHigh.
	DiagonalIdentity Diagonal = iota
	// DiagonalRange draws y = x across the data's own min/max.
	DiagonalRange
	// DiagonalNone draws no reference line.
	DiagonalNone
)

// ParseDiagonal maps a flag value to a Diagonal.
func ParseDiagonal(s string) (Diagonal, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "identity", "fixed":
		return DiagonalIdentity, nil
	case "range", "data":
		return DiagonalRange, nil
	case "none", "off":
		return DiagonalNone, nil
	default:
		return 0, fmt.Errorf("unsupported diagonal: %s (use identity|range|none)", s)
	}
}

// ScatterOptions configures a paired scatter plot.
type ScatterOptions struct {
	Title  string
	XLabel string
	YLabel string

	Diagonal     Diagonal
	DiagonalLow  float64
	DiagonalHigh float64
	// HideStats suppresses the statistics box.
	HideStats bool

	Page Page
	Out  string
}

// DefaultScatterOptions returns the square layout with a y = x line over [0.9, 1.0].
func DefaultScatterOptions() ScatterOptions {
	return ScatterOptions{
		Title:        "Score Comparison",
		XLabel:       "X",
		YLabel:       "Y",
		Diagonal:     DiagonalIdentity,
		DiagonalLow:  0.9,
		DiagonalHigh: 1.0,
		Page:         Page{WidthIn: 8, HeightIn: 8, DPI: 300},
		Out:          "output/scatter_plot.png",
	}
}

// Scatter draws the aligned (x[i], y[i]) points, the reference diagonal and a
// box with the statistics in s, then writes the image to opt.Out.
func Scatter(x, y []float64, s analysis.Summary, opt ScatterOptions) error {
	if len(x) != len(y) {
		return fmt.Errorf("scatter: %w", analysis.ErrLengthMismatch)
	}
	if len(x) == 0 {
		return fmt.Errorf("scatter: %w", ErrEmptySeries)
	}

	p := gplot.New()
	p.Title.Text = opt.Title
	p.X.Label.Text = opt.XLabel
	p.Y.Label.Text = opt.YLabel
	p.Legend.Top = true

	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("scatter: %w", err)
	}
	sc.GlyphStyle.Color = seriesColor(0, 0.6)
	sc.GlyphStyle.Radius = vg.Points(2)
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(sc)
	p.Legend.Add("Points", sc)

	if lo, hi, ok := diagonalBounds(x, y, opt); ok {
		line, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
		if err != nil {
			return fmt.Errorf("diagonal: %w", err)
		}
		line.LineStyle.Color = color.NRGBA{R: 255, A: 255}
		line.LineStyle.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add("y = x", line)
	}

	if !opt.HideStats {
		p.Add(statsBox{lines: StatsLines(s)})
	}
	return save(p, opt.Page, opt.Out)
}

func diagonalBounds(x, y []float64, opt ScatterOptions) (lo, hi float64, ok bool) {
	switch opt.Diagonal {
	case DiagonalNone:
		return 0, 0, false
	case DiagonalRange:
		lo = min(floats.Min(x), floats.Min(y))
		hi = max(floats.Max(x), floats.Max(y))
	default:
		lo, hi = opt.DiagonalLow, opt.DiagonalHigh
	}
	return lo, hi, hi > lo
}

// StatsLines formats a summary the way the stats box shows it.
func StatsLines(s analysis.Summary) []string {
	return []string{
		fmt.Sprintf("N: %d", s.N),
		fmt.Sprintf("Mean X: %.4f", s.MeanX),
		fmt.Sprintf("Mean Y: %.4f", s.MeanY),
		fmt.Sprintf("Std X: %.4f", s.StdX),
		fmt.Sprintf("Std Y: %.4f", s.StdY),
		fmt.Sprintf("Pearson: %.4f", s.Pearson),
		fmt.Sprintf("Spearman: %.4f", s.Spearman),
	}
}

// statsBox is a plotter that draws text on a translucent white panel in the
// top-left corner of the data area.
type statsBox struct {
	lines []string
}

func (b statsBox) Plot(c draw.Canvas, plt *gplot.Plot) {
	if len(b.lines) == 0 {
		return
	}
	sty := plt.X.Tick.Label
	sty.XAlign = text.XLeft
	sty.YAlign = text.YTop
	txt := strings.Join(b.lines, "\n")

	pad := vg.Points(6)
	at := vg.Point{X: c.Min.X + 2*pad, Y: c.Max.Y - 2*pad}
	w, h := sty.Width(txt), sty.Height(txt)
	box := []vg.Point{
		{X: at.X - pad, Y: at.Y - h - pad},
		{X: at.X + w + pad, Y: at.Y - h - pad},
		{X: at.X + w + pad, Y: at.Y + pad},
		{X: at.X - pad, Y: at.Y + pad},
	}
	c.FillPolygon(color.NRGBA{R: 255, G: 255, B: 255, A: 179}, box)
	c.StrokeLines(draw.LineStyle{Color: color.Gray{Y: 160}, Width: vg.Points(0.5)}, append(box, box[0]))
	c.FillText(sty, at, txt)
}
