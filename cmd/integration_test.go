package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/scoreplot-cli/internal/scores"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag to its default so Changed state does not
// leak between invocations of the shared rootCmd.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	rootCmd.SetOut(nil)
	rootCmd.SetErr(nil)
	return out.String(), errOut.String(), err
}

// runCmd is a helper to execute the root command with args that must succeed.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, _, err := execute(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

// setupHome isolates config under a temp HOME and keeps rendered images small.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SCOREPLOT_DPI", "40")
	return home
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	if _, err := png.DecodeConfig(f); err != nil {
		t.Fatalf("%s is not a PNG: %v", path, err)
	}
}

func TestCLI_HistogramWritesImageAndReport(t *testing.T) {
	home := setupHome(t)
	a := writeFile(t, home, "a.tsv", "query target score\nq1 t1 0.91\nq1 t2 0.95\nq2 t1 bad\nq2 t2 0.97\n")
	b := writeFile(t, home, "b.tsv", "query target score\nq1 t1 0.80\nq1 t2 0.85\n")
	img := filepath.Join(home, "plots", "hist.png")
	report := filepath.Join(home, "hist.json")

	out := runCmd(t, "histogram", a, b, "--label1", "NBLAST", "--out", img, "--bins", "10", "--report", report)

	if !strings.Contains(out, "NBLAST: 3 scores") || !strings.Contains(out, "File 2: 2 scores") {
		t.Fatalf("unexpected counts in output:\n%s", out)
	}
	if !strings.Contains(out, "✓ Histogram saved to: "+img) {
		t.Fatalf("missing save message:\n%s", out)
	}
	assertPNG(t, img)

	raw, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var rep struct {
		ID     string `json:"id"`
		Kind   string `json:"kind"`
		Inputs []struct {
			Skipped  int `json:"skipped"`
			Retained int `json:"retained"`
		} `json:"inputs"`
		Distributions []struct {
			Label string `json:"label"`
		} `json:"distributions"`
	}
	if err := json.Unmarshal(raw, &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.ID == "" || rep.Kind != "histogram" || len(rep.Inputs) != 2 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if rep.Inputs[0].Skipped != 1 || rep.Inputs[0].Retained != 3 {
		t.Fatalf("first input = %+v", rep.Inputs[0])
	}
	if len(rep.Distributions) != 2 || rep.Distributions[0].Label != "NBLAST" {
		t.Fatalf("distributions = %+v", rep.Distributions)
	}
}

func TestCLI_HistogramEmptyFileFails(t *testing.T) {
	home := setupHome(t)
	a := writeFile(t, home, "a.tsv", "query target score\nq1 t1 0.9\n")
	b := writeFile(t, home, "b.tsv", "query target score\nq1 t1 n/a\n")
	img := filepath.Join(home, "hist.png")

	_, _, err := execute(t, "histogram", a, b, "--out", img)
	if err == nil || !strings.Contains(err.Error(), "no valid scores in "+b) {
		t.Fatalf("err = %v, want no valid scores", err)
	}
	if _, statErr := os.Stat(img); !os.IsNotExist(statErr) {
		t.Fatalf("image should not be written on failure")
	}
}

func TestCLI_CompareMatchesKeys(t *testing.T) {
	home := setupHome(t)
	a := writeFile(t, home, "nblast.tsv", "query target score\nq2 t1 0.70\nq1 t1 0.90\nq1 t2 0.80\n")
	b := writeFile(t, home, "nblastpp.tsv", "query target score\nq1 t1 0.95\nq3 t3 0.10\nq2 t1 0.60\nq1 t1 0.85\n")
	img := filepath.Join(home, "output", "cmp.svg")
	pairs := filepath.Join(home, "pairs.tsv")

	out, errOut, err := execute(t, "compare", a, b, "--out", img, "--pairs", pairs, "--diagonal", "range")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if !strings.Contains(out, "Matched pairs: 2") {
		t.Fatalf("missing matched count:\n%s", out)
	}
	if !strings.Contains(out, "Pearson") || !strings.Contains(out, "Spearman") {
		t.Fatalf("missing correlation table:\n%s", out)
	}
	if !strings.Contains(errOut, "1 duplicate key(s)") {
		t.Fatalf("expected duplicate warning, got stderr:\n%s", errOut)
	}
	if _, err := os.Stat(img); err != nil {
		t.Fatalf("scatter not written: %v", err)
	}

	got, err := os.ReadFile(pairs)
	if err != nil {
		t.Fatalf("read pairs: %v", err)
	}
	want := "query\ttarget\ta\tb\nq1\tt1\t0.9\t0.85\nq2\tt1\t0.7\t0.6\n"
	if string(got) != want {
		t.Fatalf("pairs =\n%q\nwant\n%q", got, want)
	}
}

func TestCLI_CompareNoOverlapFails(t *testing.T) {
	home := setupHome(t)
	a := writeFile(t, home, "a.tsv", "query target score\nq1 t1 0.9\nq1 t2 0.8\n")
	b := writeFile(t, home, "b.tsv", "query target score\nq9 t9 0.9\n")
	img := filepath.Join(home, "cmp.png")

	out, _, err := execute(t, "compare", a, b, "--out", img)
	if !errors.Is(err, scores.ErrNoOverlap) {
		t.Fatalf("err = %v, want ErrNoOverlap", err)
	}
	if strings.Contains(out, "Matched pairs") {
		t.Fatalf("no summary expected:\n%s", out)
	}
	if _, statErr := os.Stat(img); !os.IsNotExist(statErr) {
		t.Fatalf("image should not be written when nothing matches")
	}
}

func TestCLI_ScatterPositionalColumns(t *testing.T) {
	home := setupHome(t)
	// 1-based columns: score in column 4 of x, column 3 of y
	x := writeFile(t, home, "x.tsv", "q t raw norm\nq1 t1 10 0.91\nq1 t2 20 0.93\nq1 t3 30 oops\nq1 t4 40 0.97\nq1 t5 50 0.99\n")
	y := writeFile(t, home, "y.tsv", "q t norm\nq1 t1 0.90\nq1 t2 0.94\nq1 t3 0.95\n")
	img := filepath.Join(home, "scatter.png")
	diag := filepath.Join(home, "logs", "scatter.err")
	report := filepath.Join(home, "scatter.yaml")

	out, errOut, err := execute(t, "scatter", x, y, "--col-x", "4", "--col-y", "3",
		"--out", img, "--diagnostics", diag, "--report", report)
	if err != nil {
		t.Fatalf("scatter: %v", err)
	}
	if !strings.Contains(out, "Paired scores: 3") {
		t.Fatalf("expected truncation to 3 pairs:\n%s", out)
	}
	if !strings.Contains(errOut, "score counts differ (4 vs 3)") {
		t.Fatalf("missing length warning:\n%s", errOut)
	}
	assertPNG(t, img)

	logged, err := os.ReadFile(diag)
	if err != nil {
		t.Fatalf("read diagnostics: %v", err)
	}
	if !strings.Contains(string(logged), "skipping row") || !strings.Contains(string(logged), "row=3") {
		t.Fatalf("diagnostics missing skipped row:\n%s", logged)
	}
	rep, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(rep), "kind: scatter") {
		t.Fatalf("yaml report:\n%s", rep)
	}
}

func TestCLI_ScatterMaxRows(t *testing.T) {
	home := setupHome(t)
	body := "query target score\nq t 0.1\nq t 0.2\nq t 0.3\nq t 0.4\n"
	x := writeFile(t, home, "x.tsv", body)
	y := writeFile(t, home, "y.tsv", body)

	out := runCmd(t, "scatter", x, y, "--max-rows", "2", "--out", filepath.Join(home, "s.png"))
	if !strings.Contains(out, "Paired scores: 2") {
		t.Fatalf("expected 2 pairs with --max-rows 2:\n%s", out)
	}
}

func TestCLI_DemoSeeded(t *testing.T) {
	home := setupHome(t)
	img := filepath.Join(home, "demo.png")
	out := runCmd(t, "demo", "--points", "50", "--seed", "7", "--out", img)
	if !strings.Contains(out, "Generated 50 points (seed 7)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	assertPNG(t, img)

	if _, _, err := execute(t, "demo", "--low", "1", "--high", "0.5", "--out", img); err == nil {
		t.Fatalf("expected error for inverted range")
	}
}

func TestUniformPairsDeterministicAndBounded(t *testing.T) {
	x1, y1 := uniformPairs(42, 200, 0.9, 1.0)
	x2, y2 := uniformPairs(42, 200, 0.9, 1.0)
	for i := range x1 {
		if x1[i] != x2[i] || y1[i] != y2[i] {
			t.Fatalf("seeded draws differ at %d", i)
		}
		if x1[i] < 0.9 || x1[i] >= 1.0 || y1[i] < 0.9 || y1[i] >= 1.0 {
			t.Fatalf("draw %d out of range: %v, %v", i, x1[i], y1[i])
		}
	}
}

func TestCLI_Describe(t *testing.T) {
	home := setupHome(t)
	a := writeFile(t, home, "a.tsv", "query target score\nq1 t1 0.5\nq1 t1 0.7\nq2 t2 0.9\n")

	out := runCmd(t, "describe", a)
	if !strings.Contains(out, "0.7000") || !strings.Contains(strings.ToLower(out), "median") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	// keyed mode keeps the last duplicate: values 0.7 and 0.9
	out = runCmd(t, "describe", "--keyed", "--markdown", a)
	if !strings.Contains(out, "| ") || !strings.Contains(out, "0.8000") {
		t.Fatalf("unexpected keyed table:\n%s", out)
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home := setupHome(t)
	runCmd(t, "config", "set", "bins", "25")
	runCmd(t, "config", "set", "label1", "NBLAST")
	if _, err := os.Stat(filepath.Join(home, ".scoreplot", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "bins: 25") || !strings.Contains(out, "label1: NBLAST") {
		t.Fatalf("config show:\n%s", out)
	}
	if _, _, err := execute(t, "config", "set", "diagonal", "sideways"); err == nil {
		t.Fatalf("expected error for invalid diagonal")
	}
	if _, _, err := execute(t, "config", "set", "nope", "1"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestCLI_ConfigLabelsApplyToHistogram(t *testing.T) {
	home := setupHome(t)
	runCmd(t, "config", "set", "label2", "NBLAST++")
	a := writeFile(t, home, "a.tsv", "query target score\nq1 t1 0.9\nq1 t2 0.8\n")
	out := runCmd(t, "histogram", a, a, "--out", filepath.Join(home, "h.png"))
	if !strings.Contains(out, "NBLAST++: 2 scores") {
		t.Fatalf("config label not applied:\n%s", out)
	}
}
