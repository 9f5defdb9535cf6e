package format

import (
	"strings"
	"testing"
)

func TestMarkdownTable(t *testing.T) {
	tb := NewTable(Markdown)
	tb.Header("Statistic", "Value")
	tb.Row("Pearson", "0.9876")
	out := tb.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header, separator and one row:\n%s", out)
	}
	if !strings.HasPrefix(lines[0], "|") || !strings.Contains(strings.ToLower(lines[0]), "statistic") {
		t.Fatalf("missing header row:\n%s", out)
	}
	if !strings.Contains(lines[1], "---") {
		t.Fatalf("missing separator:\n%s", out)
	}
	if !strings.Contains(lines[2], "Pearson") || !strings.Contains(lines[2], "0.9876") {
		t.Fatalf("missing data row:\n%s", out)
	}
}

func TestASCIITable(t *testing.T) {
	tb := NewTable(ASCII)
	tb.Header("Label", "N")
	tb.Row("File 1", 42)
	tb.Columns(ColumnConfig{Number: 2, Align: AlignRight})
	out := tb.String()
	if !strings.Contains(out, "File 1") || !strings.Contains(out, "42") {
		t.Fatalf("missing cells:\n%s", out)
	}
	if !strings.Contains(out, "┌") {
		t.Fatalf("expected light box style:\n%s", out)
	}
	if !strings.Contains(strings.ToUpper(out), "LABEL") {
		t.Fatalf("missing header:\n%s", out)
	}
}
