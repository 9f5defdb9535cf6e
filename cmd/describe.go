package cmd

import (
	"fmt"
	"maps"
	"slices"

	"github.com/KaramelBytes/scoreplot-cli/internal/analysis"
	"github.com/KaramelBytes/scoreplot-cli/internal/format"
	"github.com/KaramelBytes/scoreplot-cli/internal/scores"
	"github.com/spf13/cobra"
)

var (
	descKeyed    bool
	descColumn   int
	descMarkdown bool
)

var describeCmd = &cobra.Command{
	Use:   "describe <file>...",
	Short: "Print distribution statistics for one or more score files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if descColumn < 0 {
			return fmt.Errorf("invalid --column: %d", descColumn)
		}
		lopt := loaderOptions()
		lopt.Position = descColumn

		ds := make([]analysis.Distribution, 0, len(args))
		for _, path := range args {
			var values []float64
			var skipped int
			if descKeyed {
				k, err := scores.LoadKeyed(path, lopt)
				if err != nil {
					return err
				}
				// distinct keys only, in key order
				keys := slices.SortedFunc(maps.Keys(k.Values), func(a, b scores.Key) int {
					if a.Less(b) {
						return -1
					}
					if b.Less(a) {
						return 1
					}
					return 0
				})
				for _, key := range keys {
					values = append(values, k.Values[key])
				}
				skipped = k.Skipped
			} else {
				s, err := scores.Load(path, lopt)
				if err != nil {
					return err
				}
				values, skipped = s.Values, s.Skipped
			}
			if skipped > 0 {
				warn(cmd, "%s: skipped %d malformed row(s)", path, skipped)
			}
			d, err := analysis.Describe(path, values)
			if err != nil {
				return fmt.Errorf("no valid scores in %s", path)
			}
			ds = append(ds, d)
		}

		mode := format.ASCII
		if descMarkdown {
			mode = format.Markdown
		}
		fmt.Fprintln(cmd.OutOrStdout(), analysis.DistributionTable(ds, mode))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().BoolVar(&descKeyed, "keyed", false, "describe distinct (query, target) keys, last duplicate wins")
	describeCmd.Flags().IntVar(&descColumn, "column", 0, "1-based score column (0 = header lookup)")
	describeCmd.Flags().BoolVar(&descMarkdown, "markdown", false, "print a Markdown table")
}
