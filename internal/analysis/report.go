package analysis

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/scoreplot-cli/internal/format"
	"github.com/KaramelBytes/scoreplot-cli/internal/utils"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Report kinds, one per plotting command.
const (
	KindHistogram = "histogram"
	KindCompare   = "compare"
	KindScatter   = "scatter"
	KindDemo      = "demo"
)

// Input records how one score file was read.
type Input struct {
	Path       string `json:"path" yaml:"path"`
	Label      string `json:"label,omitempty" yaml:"label,omitempty"`
	Column     int    `json:"column" yaml:"column"` // zero-based
	Rows       int    `json:"rows" yaml:"rows"`
	Skipped    int    `json:"skipped" yaml:"skipped"`
	Retained   int    `json:"retained" yaml:"retained"`
	Duplicates int    `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
	Truncated  bool   `json:"truncated,omitempty" yaml:"truncated,omitempty"`
}

// Report is a record of one plotting run.
type Report struct {
	ID            string         `json:"id" yaml:"id"`
	Kind          string         `json:"kind" yaml:"kind"`
	CreatedAt     time.Time      `json:"created_at" yaml:"created_at"`
	Inputs        []Input        `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Matched       int            `json:"matched,omitempty" yaml:"matched,omitempty"`
	Summary       *Summary       `json:"summary,omitempty" yaml:"summary,omitempty"`
	Distributions []Distribution `json:"distributions,omitempty" yaml:"distributions,omitempty"`
	Output        string         `json:"output,omitempty" yaml:"output,omitempty"`
	Warnings      []string       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// NewReport starts a report with a fresh run id.
func NewReport(kind string) *Report {
	return &Report{
		ID:        uuid.NewString(),
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
}

// Warn appends a formatted warning.
func (r *Report) Warn(msg string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(msg, args...))
}

// Markdown renders the report as a compact Markdown document.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# Score %s report\n\n", r.Kind))
	b.WriteString(fmt.Sprintf("Run: %s\n", r.ID))
	b.WriteString(fmt.Sprintf("Created: %s\n", r.CreatedAt.Format(time.RFC3339)))
	if r.Output != "" {
		b.WriteString(fmt.Sprintf("Output: %s\n", r.Output))
	}

	if len(r.Inputs) > 0 {
		b.WriteString("\n## Inputs\n\n")
		t := format.NewTable(format.Markdown)
		t.Header("File", "Label", "Column", "Rows", "Skipped", "Retained")
		for _, in := range r.Inputs {
			t.Row(filepath.Base(in.Path), in.Label, in.Column+1, in.Rows, in.Skipped, in.Retained)
		}
		b.WriteString(t.String())
		b.WriteString("\n")
	}

	if r.Summary != nil {
		b.WriteString("\n## Correlation\n\n")
		if r.Matched > 0 {
			b.WriteString(fmt.Sprintf("Matched pairs: %d\n\n", r.Matched))
		}
		b.WriteString(SummaryTable(*r.Summary, format.Markdown))
		b.WriteString("\n")
	}

	if len(r.Distributions) > 0 {
		b.WriteString("\n## Distributions\n\n")
		b.WriteString(DistributionTable(r.Distributions, format.Markdown))
		b.WriteString("\n")
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// WriteFile saves the report; the extension picks JSON, YAML or Markdown.
func (r *Report) WriteFile(path string) error {
	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		b, err := utils.PrettyJSON(r)
		if err != nil {
			return err
		}
		data = b
	case ".yaml", ".yml":
		b, err := yaml.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		data = b
	default:
		data = []byte(r.Markdown())
	}
	if err := utils.EnsureParentDir(path); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	return utils.SafeWriteFile(path, data)
}

// SummaryTable renders the moments and correlations of a paired summary.
func SummaryTable(s Summary, mode format.Mode) string {
	t := format.NewTable(mode)
	t.Header("Statistic", "Value")
	t.Row("Mean X", fmtStat(s.MeanX))
	t.Row("Mean Y", fmtStat(s.MeanY))
	t.Row("Std X", fmtStat(s.StdX))
	t.Row("Std Y", fmtStat(s.StdY))
	t.Row("Pearson", fmtStat(s.Pearson))
	t.Row("Spearman", fmtStat(s.Spearman))
	t.Columns(format.ColumnConfig{Number: 2, Align: format.AlignRight})
	return t.String()
}

// DistributionTable renders one row per described sequence.
func DistributionTable(ds []Distribution, mode format.Mode) string {
	t := format.NewTable(mode)
	t.Header("Label", "N", "Mean", "Std", "Min", "P5", "Median", "P95", "Max")
	for _, d := range ds {
		t.Row(d.Label, d.N, fmtStat(d.Mean), fmtStat(d.Std), fmtStat(d.Min),
			fmtStat(d.P5), fmtStat(d.Median), fmtStat(d.P95), fmtStat(d.Max))
	}
	return t.String()
}

func fmtStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.4f", v)
}
