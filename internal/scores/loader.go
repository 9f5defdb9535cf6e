package scores

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const (
	// DefaultHeader is the header field that names the score column.
	DefaultHeader = "score"
	// DefaultFallback is the zero-based column used when the header has no score field.
	DefaultFallback = 2
)

// Options controls how a score file is scanned.
type Options struct {
	// Position selects the score field by 1-based position and bypasses the
	// header lookup. Zero resolves the column from the header.
	Position int
	// Header is the field name searched for in the header line.
	Header string
	// Fallback is the zero-based column used when Header is absent.
	Fallback int
	// MaxRows caps the number of data rows scanned; 0 means unlimited.
	MaxRows int
	// Logger receives one WARN record per skipped row. Nil skips silently.
	Logger *slog.Logger
}

// DefaultOptions resolves the column from the header and never truncates.
func DefaultOptions() Options {
	return Options{
		Header:   DefaultHeader,
		Fallback: DefaultFallback,
	}
}

// Scores is the result of loading a flat score file.
type Scores struct {
	Values []float64
	// Column is the resolved zero-based score column.
	Column int
	// Rows counts non-empty data rows scanned.
	Rows int
	// Skipped counts rows dropped as malformed.
	Skipped int
	// Truncated is set when MaxRows stopped the scan early.
	Truncated bool
}

// Key identifies a query/target comparison.
type Key struct {
	Query  string
	Target string
}

// Less orders keys by query, then target.
func (k Key) Less(o Key) bool {
	if k.Query != o.Query {
		return k.Query < o.Query
	}
	return k.Target < o.Target
}

// Keyed is the result of loading a score file as a (query, target) mapping.
type Keyed struct {
	Values     map[Key]float64
	Column     int
	Rows       int
	Skipped    int
	Duplicates int
	Truncated  bool
}

// Len reports the number of distinct keys.
func (k *Keyed) Len() int { return len(k.Values) }

// ResolveColumn picks the score column for a header line.
func ResolveColumn(header []string, opt Options) int {
	if opt.Position > 0 {
		return opt.Position - 1
	}
	name := opt.Header
	if name == "" {
		name = DefaultHeader
	}
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return opt.Fallback
}

// Load reads a flat score file from disk.
func Load(path string, opt Options) (*Scores, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scores: %w", err)
	}
	defer f.Close()
	s, err := Read(f, opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadKeyed reads a keyed score file from disk.
func LoadKeyed(path string, opt Options) (*Keyed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scores: %w", err)
	}
	defer f.Close()
	k, err := ReadKeyed(f, opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return k, nil
}

// Read scans a header-bearing score stream and returns one value per valid row.
func Read(r io.Reader, opt Options) (*Scores, error) {
	out := &Scores{}
	col, trunc, err := scan(r, opt, func(row int, fields []string, col int, line string) {
		out.Rows++
		if len(fields) <= col {
			opt.skip(row, col, line, "not enough columns")
			out.Skipped++
			return
		}
		v, err := strconv.ParseFloat(fields[col], 64)
		if err != nil {
			opt.skip(row, col, line, "invalid score")
			out.Skipped++
			return
		}
		out.Values = append(out.Values, v)
	})
	if err != nil {
		return nil, err
	}
	out.Column = col
	out.Truncated = trunc
	return out, nil
}

// ReadKeyed scans a score stream into a (query, target) mapping. Fields 0
// and 1 are always the query and target; later duplicates overwrite earlier ones.
func ReadKeyed(r io.Reader, opt Options) (*Keyed, error) {
	out := &Keyed{Values: make(map[Key]float64)}
	col, trunc, err := scan(r, opt, func(row int, fields []string, col int, line string) {
		out.Rows++
		if len(fields) <= col || len(fields) < 2 {
			opt.skip(row, col, line, "not enough columns")
			out.Skipped++
			return
		}
		v, err := strconv.ParseFloat(fields[col], 64)
		if err != nil {
			opt.skip(row, col, line, "invalid score")
			out.Skipped++
			return
		}
		k := Key{Query: fields[0], Target: fields[1]}
		if _, ok := out.Values[k]; ok {
			out.Duplicates++
		}
		out.Values[k] = v
	})
	if err != nil {
		return nil, err
	}
	out.Column = col
	out.Truncated = trunc
	return out, nil
}

// scan reads the header, resolves the column and feeds each non-empty data
// row to fn. It reports the column and whether MaxRows cut the scan short.
func scan(r io.Reader, opt Options, fn func(row int, fields []string, col int, line string)) (int, bool, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)

	var header []string
	if sc.Scan() {
		header = strings.Fields(sc.Text())
	}
	col := ResolveColumn(header, opt)

	row := 0
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r\n")
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if opt.MaxRows > 0 && row >= opt.MaxRows {
			return col, true, nil
		}
		row++
		fn(row, fields, col, line)
	}
	if err := sc.Err(); err != nil {
		return col, false, fmt.Errorf("read row %d: %w", row+1, err)
	}
	return col, false, nil
}

func (o Options) skip(row, col int, line, reason string) {
	if o.Logger == nil {
		return
	}
	o.Logger.Warn("skipping row",
		slog.Int("row", row),
		slog.Int("column", col),
		slog.String("reason", reason),
		slog.String("line", line),
	)
}
