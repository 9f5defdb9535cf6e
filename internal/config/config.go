package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Histogram defaults
	Bins         int    `mapstructure:"bins" yaml:"bins"`
	Label1       string `mapstructure:"label1" yaml:"label1"`
	Label2       string `mapstructure:"label2" yaml:"label2"`
	HistogramOut string `mapstructure:"histogram_out" yaml:"histogram_out"`

	// Scatter/compare defaults
	ScatterOut   string  `mapstructure:"scatter_out" yaml:"scatter_out"`
	CompareOut   string  `mapstructure:"compare_out" yaml:"compare_out"`
	Diagonal     string  `mapstructure:"diagonal" yaml:"diagonal"`
	DiagonalLow  float64 `mapstructure:"diagonal_low" yaml:"diagonal_low"`
	DiagonalHigh float64 `mapstructure:"diagonal_high" yaml:"diagonal_high"`

	// Image
	DPI      int     `mapstructure:"dpi" yaml:"dpi"`
	WidthIn  float64 `mapstructure:"width_in" yaml:"width_in"`
	HeightIn float64 `mapstructure:"height_in" yaml:"height_in"`

	// Loader
	MaxRows        int    `mapstructure:"max_rows" yaml:"max_rows"`
	ScoreHeader    string `mapstructure:"score_header" yaml:"score_header"`
	FallbackColumn int    `mapstructure:"fallback_column" yaml:"fallback_column"`

	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Defaults returns the built-in configuration.
func Defaults() *Global {
	return &Global{
		Bins:           50,
		Label1:         "File 1",
		Label2:         "File 2",
		HistogramOut:   "histogram_comparison.png",
		ScatterOut:     filepath.Join("output", "scatter_plot.png"),
		CompareOut:     filepath.Join("output", "compare_scatter.png"),
		Diagonal:       "identity",
		DiagonalLow:    0.9,
		DiagonalHigh:   1.0,
		DPI:            300,
		WidthIn:        8,
		HeightIn:       6,
		MaxRows:        0,
		ScoreHeader:    "score",
		FallbackColumn: 2,
		LogFormat:      "text",
	}
}

func setDefaults(v *viper.Viper, d *Global) {
	v.SetDefault("bins", d.Bins)
	v.SetDefault("label1", d.Label1)
	v.SetDefault("label2", d.Label2)
	v.SetDefault("histogram_out", d.HistogramOut)
	v.SetDefault("scatter_out", d.ScatterOut)
	v.SetDefault("compare_out", d.CompareOut)
	v.SetDefault("diagonal", d.Diagonal)
	v.SetDefault("diagonal_low", d.DiagonalLow)
	v.SetDefault("diagonal_high", d.DiagonalHigh)
	v.SetDefault("dpi", d.DPI)
	v.SetDefault("width_in", d.WidthIn)
	v.SetDefault("height_in", d.HeightIn)
	v.SetDefault("max_rows", d.MaxRows)
	v.SetDefault("score_header", d.ScoreHeader)
	v.SetDefault("fallback_column", d.FallbackColumn)
	v.SetDefault("log_format", d.LogFormat)
}

// Dir returns ~/.scoreplot.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".scoreplot"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.scoreplot/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command flags are applied on top by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SCOREPLOT")
	v.AutomaticEnv()

	setDefaults(v, Defaults())

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit --config must exist; the default location is optional
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
