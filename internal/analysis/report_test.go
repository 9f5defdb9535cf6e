package analysis

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/scoreplot-cli/internal/format"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

func sampleReport() *Report {
	r := NewReport(KindCompare)
	r.Inputs = []Input{
		{Path: "/data/nblast.tsv", Label: "NBLAST", Column: 2, Rows: 10, Skipped: 1, Retained: 9},
		{Path: "/data/nblastpp.tsv", Label: "NBLAST++", Column: 3, Rows: 12, Skipped: 0, Retained: 12, Duplicates: 2},
	}
	r.Matched = 8
	r.Summary = &Summary{N: 8, MeanX: 0.95, MeanY: 0.94, StdX: 0.01, StdY: 0.02, Pearson: 0.87654, Spearman: math.NaN()}
	r.Output = "output/compare.png"
	r.Warn("%d duplicate keys overwritten in %s", 2, "nblastpp.tsv")
	return r
}

func TestNewReportHasRunID(t *testing.T) {
	r := NewReport(KindHistogram)
	if _, err := uuid.Parse(r.ID); err != nil {
		t.Fatalf("run id %q is not a uuid: %v", r.ID, err)
	}
	if r.Kind != KindHistogram || r.CreatedAt.IsZero() {
		t.Fatalf("unexpected report: %+v", r)
	}
	if NewReport(KindHistogram).ID == r.ID {
		t.Fatalf("run ids must differ")
	}
}

func TestReportMarkdown(t *testing.T) {
	md := sampleReport().Markdown()
	for _, want := range []string{
		"# Score compare report",
		"Output: output/compare.png",
		"## Inputs",
		"nblast.tsv",
		"## Correlation",
		"Matched pairs: 8",
		"0.8765",
		"NaN",
		"## Notes",
		"- 2 duplicate keys overwritten in nblastpp.tsv",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "## Distributions") {
		t.Fatalf("unexpected distributions section:\n%s", md)
	}
}

func TestReportWriteFileFormats(t *testing.T) {
	dir := t.TempDir()
	r := sampleReport()

	jsonPath := filepath.Join(dir, "reports", "run.json")
	if err := r.WriteFile(jsonPath); err != nil {
		t.Fatalf("write json: %v", err)
	}
	b, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if decoded["id"] != r.ID || decoded["kind"] != KindCompare {
		t.Fatalf("json header mismatch: %v", decoded)
	}
	summary, ok := decoded["summary"].(map[string]any)
	if !ok {
		t.Fatalf("json summary missing: %s", b)
	}
	if summary["spearman"] != nil {
		t.Fatalf("NaN spearman should encode as null, got %v", summary["spearman"])
	}
	if summary["pearson"].(float64) != 0.87654 {
		t.Fatalf("pearson = %v", summary["pearson"])
	}

	yamlPath := filepath.Join(dir, "run.yaml")
	if err := r.WriteFile(yamlPath); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	yb, err := os.ReadFile(yamlPath)
	if err != nil {
		t.Fatalf("read yaml: %v", err)
	}
	var ydec struct {
		ID      string  `yaml:"id"`
		Matched int     `yaml:"matched"`
		Inputs  []Input `yaml:"inputs"`
	}
	if err := yaml.Unmarshal(yb, &ydec); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if ydec.ID != r.ID || ydec.Matched != 8 || len(ydec.Inputs) != 2 || ydec.Inputs[1].Duplicates != 2 {
		t.Fatalf("yaml mismatch: %+v", ydec)
	}

	mdPath := filepath.Join(dir, "run.md")
	if err := r.WriteFile(mdPath); err != nil {
		t.Fatalf("write md: %v", err)
	}
	mb, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("read md: %v", err)
	}
	if string(mb) != r.Markdown() {
		t.Fatalf("markdown file differs from Markdown()")
	}
}

func TestDistributionTable(t *testing.T) {
	out := DistributionTable([]Distribution{{Label: "File 1", N: 3, Mean: 0.5, Std: 0.1, Min: 0.4, P5: 0.41, Median: 0.5, P95: 0.59, Max: 0.6}}, format.ASCII)
	if !strings.Contains(out, "File 1") || !strings.Contains(out, "0.5900") {
		t.Fatalf("unexpected table:\n%s", out)
	}
}
