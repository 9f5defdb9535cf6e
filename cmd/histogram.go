package cmd

import (
	"fmt"

	"github.com/KaramelBytes/scoreplot-cli/internal/analysis"
	"github.com/KaramelBytes/scoreplot-cli/internal/plot"
	"github.com/KaramelBytes/scoreplot-cli/internal/scores"
	"github.com/spf13/cobra"
)

var (
	histLabel1 string
	histLabel2 string
	histBins   int
	histOut    string
	histTitle  string
	histReport string
)

var histogramCmd = &cobra.Command{
	Use:   "histogram <file1> <file2>",
	Short: "Overlay the score distributions of two files",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt := plot.DefaultHistogramOptions()
		opt.Page = pageFromConfig(false)
		labels := [2]string{"File 1", "File 2"}
		if cfg != nil {
			labels = [2]string{cfg.Label1, cfg.Label2}
			if cfg.Bins > 0 {
				opt.Bins = cfg.Bins
			}
			if cfg.HistogramOut != "" {
				opt.Out = cfg.HistogramOut
			}
		}
		f := cmd.Flags()
		if f.Changed("label1") {
			labels[0] = histLabel1
		}
		if f.Changed("label2") {
			labels[1] = histLabel2
		}
		if f.Changed("bins") {
			if histBins <= 0 {
				return fmt.Errorf("invalid --bins: %d", histBins)
			}
			opt.Bins = histBins
		}
		if f.Changed("out") {
			opt.Out = histOut
		}
		if f.Changed("title") {
			opt.Title = histTitle
		}

		lopt := loaderOptions()
		a, b, err := loadPair(cmd.Context(), args[0], args[1], func(_ int, p string) (*scores.Scores, error) {
			return scores.Load(p, lopt)
		})
		if err != nil {
			return err
		}

		rep := analysis.NewReport(analysis.KindHistogram)
		series := make([]plot.Series, 0, 2)
		for i, s := range []*scores.Scores{a, b} {
			in := flatInput(args[i], labels[i], s)
			rep.Inputs = append(rep.Inputs, in)
			noteInput(cmd, rep, in)
			if len(s.Values) == 0 {
				return fmt.Errorf("no valid scores in %s", args[i])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d scores\n", labels[i], len(s.Values))
			series = append(series, plot.Series{Label: labels[i], Values: s.Values})

			d, err := analysis.Describe(labels[i], s.Values)
			if err == nil {
				rep.Distributions = append(rep.Distributions, d)
			}
		}

		if err := plot.Histogram(series, opt); err != nil {
			return fmt.Errorf("render histogram: %w", err)
		}
		rep.Output = opt.Out
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Histogram saved to: %s\n", opt.Out)
		return finishReport(cmd, rep, histReport)
	},
}

func init() {
	rootCmd.AddCommand(histogramCmd)
	histogramCmd.Flags().StringVar(&histLabel1, "label1", "File 1", "legend label for the first file")
	histogramCmd.Flags().StringVar(&histLabel2, "label2", "File 2", "legend label for the second file")
	histogramCmd.Flags().IntVar(&histBins, "bins", 50, "number of histogram bins")
	histogramCmd.Flags().StringVar(&histOut, "out", "histogram_comparison.png", "output image path (.png, .svg, .pdf)")
	histogramCmd.Flags().StringVar(&histTitle, "title", "Score Distribution Comparison", "plot title")
	histogramCmd.Flags().StringVar(&histReport, "report", "", "write a run report (.json, .yaml or .md)")
}
