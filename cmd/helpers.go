package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/KaramelBytes/scoreplot-cli/internal/analysis"
	"github.com/KaramelBytes/scoreplot-cli/internal/logging"
	"github.com/KaramelBytes/scoreplot-cli/internal/plot"
	"github.com/KaramelBytes/scoreplot-cli/internal/scores"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// loaderOptions builds scanner options from the effective config.
func loaderOptions() scores.Options {
	opt := scores.DefaultOptions()
	if cfg == nil {
		return opt
	}
	if cfg.ScoreHeader != "" {
		opt.Header = cfg.ScoreHeader
	}
	if cfg.FallbackColumn >= 0 {
		opt.Fallback = cfg.FallbackColumn
	}
	opt.MaxRows = cfg.MaxRows
	if debug {
		opt.Logger = logging.New("scores")
	}
	return opt
}

// loadPair reads two files concurrently. Each load is independent, so the
// results do not depend on scheduling.
func loadPair[T any](ctx context.Context, a, b string, load func(i int, path string) (T, error)) (T, T, error) {
	var ra, rb T
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := load(0, a)
		if err != nil {
			return err
		}
		ra = r
		return ctx.Err()
	})
	g.Go(func() error {
		r, err := load(1, b)
		if err != nil {
			return err
		}
		rb = r
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		var zero T
		return zero, zero, err
	}
	return ra, rb, nil
}

func flatInput(path, label string, s *scores.Scores) analysis.Input {
	return analysis.Input{
		Path:      path,
		Label:     label,
		Column:    s.Column,
		Rows:      s.Rows,
		Skipped:   s.Skipped,
		Retained:  len(s.Values),
		Truncated: s.Truncated,
	}
}

func keyedInput(path, label string, k *scores.Keyed) analysis.Input {
	return analysis.Input{
		Path:       path,
		Label:      label,
		Column:     k.Column,
		Rows:       k.Rows,
		Skipped:    k.Skipped,
		Retained:   k.Len(),
		Duplicates: k.Duplicates,
		Truncated:  k.Truncated,
	}
}

// noteInput surfaces skipped rows, duplicates and truncation on stderr and in the report.
func noteInput(cmd *cobra.Command, rep *analysis.Report, in analysis.Input) {
	var notes []string
	if in.Skipped > 0 {
		notes = append(notes, fmt.Sprintf("%s: skipped %d malformed row(s)", in.Path, in.Skipped))
	}
	if in.Duplicates > 0 {
		notes = append(notes, fmt.Sprintf("%s: %d duplicate key(s), last value kept", in.Path, in.Duplicates))
	}
	if in.Truncated {
		notes = append(notes, fmt.Sprintf("%s: stopped after %d row(s)", in.Path, in.Rows))
	}
	for _, n := range notes {
		warn(cmd, "%s", n)
		rep.Warn("%s", n)
	}
}

func warn(cmd *cobra.Command, msg string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: "+msg+"\n", args...)
}

// pageFromConfig returns the image size from config; square forces height = width.
func pageFromConfig(square bool) plot.Page {
	pg := plot.DefaultPage()
	if cfg == nil {
		return pg
	}
	if cfg.WidthIn > 0 {
		pg.WidthIn = cfg.WidthIn
	}
	if cfg.HeightIn > 0 {
		pg.HeightIn = cfg.HeightIn
	}
	if cfg.DPI > 0 {
		pg.DPI = cfg.DPI
	}
	if square {
		pg.HeightIn = pg.WidthIn
	}
	return pg
}

// scatterDefaults applies the configured diagonal to the plot defaults.
func scatterDefaults(out string) (plot.ScatterOptions, error) {
	opt := plot.DefaultScatterOptions()
	opt.Page = pageFromConfig(true)
	opt.Out = out
	if cfg == nil {
		return opt, nil
	}
	d, err := plot.ParseDiagonal(cfg.Diagonal)
	if err != nil {
		return opt, err
	}
	opt.Diagonal = d
	opt.DiagonalLow = cfg.DiagonalLow
	opt.DiagonalHigh = cfg.DiagonalHigh
	return opt, nil
}

// finishReport records the output path and writes the report when path is set.
func finishReport(cmd *cobra.Command, rep *analysis.Report, path string) error {
	if path == "" {
		return nil
	}
	if err := rep.WriteFile(path); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Report saved to: %s\n", path)
	return nil
}

// fileLogger opens a diagnostics sink for skipped rows.
func fileLogger(w io.Writer) *slog.Logger {
	return slog.New(logging.NewHandler(slog.LevelDebug, "text", w)).With(slog.String("component", "scores"))
}
