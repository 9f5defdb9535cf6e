package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrTooFewValues is returned when a summary would be computed over fewer than two values.
	ErrTooFewValues = errors.New("need at least two values")
	// ErrLengthMismatch is returned when paired sequences differ in length.
	ErrLengthMismatch = errors.New("paired sequences differ in length")
)

// Summary holds per-axis moments and the correlations between two paired sequences.
type Summary struct {
	N        int     `json:"n" yaml:"n"`
	MeanX    float64 `json:"mean_x" yaml:"mean_x"`
	MeanY    float64 `json:"mean_y" yaml:"mean_y"`
	StdX     float64 `json:"std_x" yaml:"std_x"`
	StdY     float64 `json:"std_y" yaml:"std_y"`
	Pearson  float64 `json:"pearson" yaml:"pearson"`
	Spearman float64 `json:"spearman" yaml:"spearman"`
}

// MarshalJSON encodes undefined statistics as null.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		N        int      `json:"n"`
		MeanX    *float64 `json:"mean_x"`
		MeanY    *float64 `json:"mean_y"`
		StdX     *float64 `json:"std_x"`
		StdY     *float64 `json:"std_y"`
		Pearson  *float64 `json:"pearson"`
		Spearman *float64 `json:"spearman"`
	}{s.N, finite(s.MeanX), finite(s.MeanY), finite(s.StdX), finite(s.StdY), finite(s.Pearson), finite(s.Spearman)})
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Distribution describes a single score sequence.
type Distribution struct {
	Label  string  `json:"label" yaml:"label"`
	N      int     `json:"n" yaml:"n"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Std    float64 `json:"std" yaml:"std"`
	Min    float64 `json:"min" yaml:"min"`
	P5     float64 `json:"p5" yaml:"p5"`
	Median float64 `json:"median" yaml:"median"`
	P95    float64 `json:"p95" yaml:"p95"`
	Max    float64 `json:"max" yaml:"max"`
}

// Mean returns the arithmetic mean of xs.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// StdDev returns the population standard deviation of xs.
func StdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	_, std := stat.PopMeanStdDev(xs, nil)
	return std
}

// Pearson returns the product-moment correlation of x and y. Zero-variance
// or single-element inputs yield NaN.
func Pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}

// Ranks returns the zero-based rank of every element of xs. Equal values
// keep their input order; no tie averaging is applied.
func Ranks(xs []float64) []float64 {
	order := make([]int, len(xs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return xs[order[a]] < xs[order[b]] })
	ranks := make([]float64, len(xs))
	for pos, idx := range order {
		ranks[idx] = float64(pos)
	}
	return ranks
}

// Spearman returns the Pearson correlation of the ranks of x and y.
func Spearman(x, y []float64) float64 {
	if len(x) != len(y) {
		return math.NaN()
	}
	return Pearson(Ranks(x), Ranks(y))
}

// Summarize computes moments and correlations for paired sequences.
func Summarize(x, y []float64) (Summary, error) {
	if len(x) != len(y) {
		return Summary{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(x), len(y))
	}
	if len(x) < 2 {
		return Summary{}, fmt.Errorf("%w: got %d", ErrTooFewValues, len(x))
	}
	s := Summary{N: len(x)}
	s.MeanX, s.StdX = stat.PopMeanStdDev(x, nil)
	s.MeanY, s.StdY = stat.PopMeanStdDev(y, nil)
	s.Pearson = Pearson(x, y)
	s.Spearman = Spearman(x, y)
	return s, nil
}

// Describe summarizes a single sequence, including its percentiles.
func Describe(label string, xs []float64) (Distribution, error) {
	if len(xs) == 0 {
		return Distribution{}, fmt.Errorf("%s: %w: got 0", label, ErrTooFewValues)
	}
	s := stats.Sample{Xs: append([]float64(nil), xs...)}
	s.Sort()
	d := Distribution{Label: label, N: len(xs)}
	d.Mean, d.Std = stat.PopMeanStdDev(xs, nil)
	d.Min, d.Max = s.Bounds()
	d.P5 = s.Quantile(0.05)
	d.Median = s.Quantile(0.5)
	d.P95 = s.Quantile(0.95)
	return d, nil
}
