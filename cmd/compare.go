package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/scoreplot-cli/internal/analysis"
	"github.com/KaramelBytes/scoreplot-cli/internal/format"
	"github.com/KaramelBytes/scoreplot-cli/internal/plot"
	"github.com/KaramelBytes/scoreplot-cli/internal/scores"
	"github.com/KaramelBytes/scoreplot-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	cmpXLabel   string
	cmpYLabel   string
	cmpTitle    string
	cmpOut      string
	cmpDiagonal string
	cmpNoStats  bool
	cmpPairs    string
	cmpReport   string
)

var compareCmd = &cobra.Command{
	Use:   "compare <fileA> <fileB>",
	Short: "Match two keyed score files by (query, target) and plot the pairs",
	Long: `Loads two "query target score" files, keeps the (query, target) pairs
present in both, prints their correlation and writes a scatter plot of
score A against score B.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := ""
		if cfg != nil {
			out = cfg.CompareOut
		}
		opt, err := scatterDefaults(out)
		if err != nil {
			return err
		}
		opt.Title = "Score Comparison"
		opt.XLabel = args[0]
		opt.YLabel = args[1]
		f := cmd.Flags()
		if f.Changed("xlabel") {
			opt.XLabel = cmpXLabel
		}
		if f.Changed("ylabel") {
			opt.YLabel = cmpYLabel
		}
		if f.Changed("title") {
			opt.Title = cmpTitle
		}
		if f.Changed("out") || opt.Out == "" {
			opt.Out = cmpOut
		}
		if f.Changed("diagonal") {
			d, err := plot.ParseDiagonal(cmpDiagonal)
			if err != nil {
				return err
			}
			opt.Diagonal = d
		}
		opt.HideStats = cmpNoStats

		lopt := loaderOptions()
		a, b, err := loadPair(cmd.Context(), args[0], args[1], func(_ int, p string) (*scores.Keyed, error) {
			return scores.LoadKeyed(p, lopt)
		})
		if err != nil {
			return err
		}

		rep := analysis.NewReport(analysis.KindCompare)
		for i, k := range []*scores.Keyed{a, b} {
			in := keyedInput(args[i], "", k)
			rep.Inputs = append(rep.Inputs, in)
			noteInput(cmd, rep, in)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d keys\n", args[i], k.Len())
		}

		m, err := scores.Match(a.Values, b.Values)
		if err != nil {
			return fmt.Errorf("%s vs %s: %w", args[0], args[1], err)
		}
		rep.Matched = m.Len()
		fmt.Fprintf(cmd.OutOrStdout(), "Matched pairs: %d\n", m.Len())

		s, err := analysis.Summarize(m.X, m.Y)
		if err != nil {
			return fmt.Errorf("summarize matched pairs: %w", err)
		}
		rep.Summary = &s
		fmt.Fprintln(cmd.OutOrStdout(), analysis.SummaryTable(s, format.ASCII))

		if cmpPairs != "" {
			if err := writePairs(cmpPairs, m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Matched pairs saved to: %s\n", cmpPairs)
		}

		if err := plot.Scatter(m.X, m.Y, s, opt); err != nil {
			return fmt.Errorf("render scatter: %w", err)
		}
		rep.Output = opt.Out
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Scatter plot saved to: %s\n", opt.Out)
		return finishReport(cmd, rep, cmpReport)
	},
}

// writePairs dumps the aligned pairs as "query target a b" rows.
func writePairs(path string, m *scores.Matched) error {
	var b strings.Builder
	b.WriteString("query\ttarget\ta\tb\n")
	for i, k := range m.Keys {
		b.WriteString(k.Query)
		b.WriteByte('\t')
		b.WriteString(k.Target)
		b.WriteByte('\t')
		b.WriteString(strconv.FormatFloat(m.X[i], 'g', -1, 64))
		b.WriteByte('\t')
		b.WriteString(strconv.FormatFloat(m.Y[i], 'g', -1, 64))
		b.WriteByte('\n')
	}
	if err := utils.EnsureParentDir(path); err != nil {
		return fmt.Errorf("create pairs dir: %w", err)
	}
	if err := utils.SafeWriteFile(path, []byte(b.String())); err != nil {
		return fmt.Errorf("write pairs: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringVar(&cmpXLabel, "xlabel", "", "x axis label (default: first file name)")
	compareCmd.Flags().StringVar(&cmpYLabel, "ylabel", "", "y axis label (default: second file name)")
	compareCmd.Flags().StringVar(&cmpTitle, "title", "Score Comparison", "plot title")
	compareCmd.Flags().StringVar(&cmpOut, "out", "output/compare_scatter.png", "output image path (.png, .svg, .pdf)")
	compareCmd.Flags().StringVar(&cmpDiagonal, "diagonal", "identity", "reference line: identity|range|none")
	compareCmd.Flags().BoolVar(&cmpNoStats, "no-stats", false, "omit the statistics box")
	compareCmd.Flags().StringVar(&cmpPairs, "pairs", "", "also write the matched pairs as TSV")
	compareCmd.Flags().StringVar(&cmpReport, "report", "", "write a run report (.json, .yaml or .md)")
}
