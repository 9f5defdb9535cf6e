package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/scoreplot-cli/internal/config"
	"github.com/KaramelBytes/scoreplot-cli/internal/plot"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set scoreplot configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "bins: %d\n", cfg.Bins)
		fmt.Fprintf(w, "label1: %s\n", cfg.Label1)
		fmt.Fprintf(w, "label2: %s\n", cfg.Label2)
		fmt.Fprintf(w, "histogram_out: %s\n", cfg.HistogramOut)
		fmt.Fprintf(w, "scatter_out: %s\n", cfg.ScatterOut)
		fmt.Fprintf(w, "compare_out: %s\n", cfg.CompareOut)
		fmt.Fprintf(w, "diagonal: %s\n", cfg.Diagonal)
		fmt.Fprintf(w, "diagonal_low: %.3f\n", cfg.DiagonalLow)
		fmt.Fprintf(w, "diagonal_high: %.3f\n", cfg.DiagonalHigh)
		fmt.Fprintf(w, "dpi: %d\n", cfg.DPI)
		fmt.Fprintf(w, "width_in: %.2f\n", cfg.WidthIn)
		fmt.Fprintf(w, "height_in: %.2f\n", cfg.HeightIn)
		if cfg.MaxRows > 0 {
			fmt.Fprintf(w, "max_rows: %d\n", cfg.MaxRows)
		}
		fmt.Fprintf(w, "score_header: %s\n", cfg.ScoreHeader)
		fmt.Fprintf(w, "fallback_column: %d\n", cfg.FallbackColumn)
		fmt.Fprintf(w, "log_format: %s\n", cfg.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "bins":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for bins: %v", val)
			}
			cfg.Bins = i
		case "label1":
			cfg.Label1 = val
		case "label2":
			cfg.Label2 = val
		case "histogram_out":
			cfg.HistogramOut = val
		case "scatter_out":
			cfg.ScatterOut = val
		case "compare_out":
			cfg.CompareOut = val
		case "diagonal":
			if _, err := plot.ParseDiagonal(val); err != nil {
				return err
			}
			cfg.Diagonal = val
		case "diagonal_low", "diagonal_high":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for %s: %w", key, err)
			}
			if key == "diagonal_low" {
				cfg.DiagonalLow = f
			} else {
				cfg.DiagonalHigh = f
			}
		case "dpi":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for dpi: %v", val)
			}
			cfg.DPI = i
		case "width_in", "height_in":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid float for %s: %v", key, val)
			}
			if key == "width_in" {
				cfg.WidthIn = f
			} else {
				cfg.HeightIn = f
			}
		case "max_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_rows: %v", val)
			}
			cfg.MaxRows = i
		case "score_header":
			cfg.ScoreHeader = val
		case "fallback_column":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for fallback_column: %v", val)
			}
			cfg.FallbackColumn = i
		case "log_format":
			switch val {
			case "text", "json":
				cfg.LogFormat = val
			default:
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
