package cmd

import (
	"fmt"
	"os"

	"github.com/KaramelBytes/scoreplot-cli/internal/analysis"
	"github.com/KaramelBytes/scoreplot-cli/internal/format"
	"github.com/KaramelBytes/scoreplot-cli/internal/plot"
	"github.com/KaramelBytes/scoreplot-cli/internal/scores"
	"github.com/KaramelBytes/scoreplot-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	scatColX        int
	scatColY        int
	scatMaxRows     int
	scatDiagnostics string
	scatXLabel      string
	scatYLabel      string
	scatTitle       string
	scatOut         string
	scatDiagonal    string
	scatReport      string
)

var scatterCmd = &cobra.Command{
	Use:   "scatter <fileX> <fileY>",
	Short: "Pair two score files row by row and plot them",
	Long: `Reads one score column from each file and pairs the values by row order.
Columns are 1-based; 0 resolves the column from the "score" header field.
Only the first --max-rows data rows of each file are read.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := ""
		if cfg != nil {
			out = cfg.ScatterOut
		}
		opt, err := scatterDefaults(out)
		if err != nil {
			return err
		}
		opt.Title = scatTitle
		opt.XLabel = scatXLabel
		opt.YLabel = scatYLabel
		f := cmd.Flags()
		if f.Changed("out") || opt.Out == "" {
			opt.Out = scatOut
		}
		if f.Changed("diagonal") {
			d, err := plot.ParseDiagonal(scatDiagonal)
			if err != nil {
				return err
			}
			opt.Diagonal = d
		}
		if scatColX < 0 || scatColY < 0 {
			return fmt.Errorf("invalid column: columns are 1-based (0 = header lookup)")
		}

		lopt := loaderOptions()
		lopt.MaxRows = scatMaxRows
		if !f.Changed("max-rows") && cfg != nil && cfg.MaxRows > 0 {
			lopt.MaxRows = cfg.MaxRows
		}
		if scatDiagnostics != "" {
			if err := utils.EnsureParentDir(scatDiagnostics); err != nil {
				return fmt.Errorf("create diagnostics dir: %w", err)
			}
			df, err := os.Create(scatDiagnostics)
			if err != nil {
				return fmt.Errorf("open diagnostics: %w", err)
			}
			defer df.Close()
			lopt.Logger = fileLogger(df)
		}

		cols := [2]int{scatColX, scatColY}
		sx, sy, err := loadPair(cmd.Context(), args[0], args[1], func(i int, p string) (*scores.Scores, error) {
			o := lopt
			o.Position = cols[i]
			return scores.Load(p, o)
		})
		if err != nil {
			return err
		}

		rep := analysis.NewReport(analysis.KindScatter)
		for i, s := range []*scores.Scores{sx, sy} {
			in := flatInput(args[i], []string{opt.XLabel, opt.YLabel}[i], s)
			rep.Inputs = append(rep.Inputs, in)
			noteInput(cmd, rep, in)
			if len(s.Values) == 0 {
				return fmt.Errorf("no valid scores in %s", args[i])
			}
		}

		x, y := sx.Values, sy.Values
		if len(x) != len(y) {
			n := min(len(x), len(y))
			warn(cmd, "score counts differ (%d vs %d); pairing the first %d", len(x), len(y), n)
			rep.Warn("score counts differ (%d vs %d); paired the first %d", len(x), len(y), n)
			x, y = x[:n], y[:n]
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Paired scores: %d\n", len(x))

		s, err := analysis.Summarize(x, y)
		if err != nil {
			return fmt.Errorf("summarize paired scores: %w", err)
		}
		rep.Summary = &s
		fmt.Fprintln(cmd.OutOrStdout(), analysis.SummaryTable(s, format.ASCII))

		if err := plot.Scatter(x, y, s, opt); err != nil {
			return fmt.Errorf("render scatter: %w", err)
		}
		rep.Output = opt.Out
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Scatter plot saved to: %s\n", opt.Out)
		return finishReport(cmd, rep, scatReport)
	},
}

func init() {
	rootCmd.AddCommand(scatterCmd)
	scatterCmd.Flags().IntVar(&scatColX, "col-x", 0, "1-based score column in fileX (0 = header lookup)")
	scatterCmd.Flags().IntVar(&scatColY, "col-y", 0, "1-based score column in fileY (0 = header lookup)")
	scatterCmd.Flags().IntVar(&scatMaxRows, "max-rows", 1000, "data rows read per file (0 = all)")
	scatterCmd.Flags().StringVar(&scatDiagnostics, "diagnostics", "", "write skipped-row diagnostics to this file")
	scatterCmd.Flags().StringVar(&scatXLabel, "xlabel", "Ours", "x axis label")
	scatterCmd.Flags().StringVar(&scatYLabel, "ylabel", "Baseline", "y axis label")
	scatterCmd.Flags().StringVar(&scatTitle, "title", "Scatterplot of Normalized Results", "plot title")
	scatterCmd.Flags().StringVar(&scatOut, "out", "output/scatter_plot.png", "output image path (.png, .svg, .pdf)")
	scatterCmd.Flags().StringVar(&scatDiagonal, "diagonal", "identity", "reference line: identity|range|none")
	scatterCmd.Flags().StringVar(&scatReport, "report", "", "write a run report (.json, .yaml or .md)")
}
