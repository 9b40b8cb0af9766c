package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kshedden/datareader"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// LoadOptions controls how a source file is read.
type LoadOptions struct {
	// Encoding of text files, as an HTML encoding label ("shift_jis",
	// "windows-1252"). Empty means UTF-8.
	Encoding string `yaml:"encoding"`
	// Delimiter of text files. Defaults to "," (tab for .tsv).
	Delimiter string `yaml:"delimiter"`
	// Sheet of an xlsx workbook. Defaults to the first sheet.
	Sheet string `yaml:"sheet"`
	// PreferSnapshot loads <stem>.gob instead of the source when the
	// snapshot exists and is not older than the source.
	PreferSnapshot bool `yaml:"prefer_snapshot"`
}

// Load reads the dataset at path. The format is chosen by extension.
func Load(path string, opts LoadOptions) (*Frame, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if opts.PreferSnapshot && ext != ".gob" {
		if snap := SnapshotPath(path); snapshotFresh(snap, path) {
			return LoadGob(snap)
		}
	}

	var (
		f   *Frame
		err error
	)
	switch ext {
	case ".csv", ".txt":
		f, err = loadDelimited(path, opts, ",")
	case ".tsv", ".tab":
		f, err = loadDelimited(path, opts, "\t")
	case ".dta":
		f, err = loadStata(path)
	case ".sas7bdat":
		f, err = loadSAS(path)
	case ".xlsx", ".xlsm":
		f, err = loadSheet(path, opts.Sheet)
	case ".gob":
		return LoadGob(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return f, nil
}

// SnapshotPath returns the gob snapshot path kept beside a source file.
func SnapshotPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".gob"
}

func snapshotFresh(snap, src string) bool {
	si, err := os.Stat(snap)
	if err != nil {
		return false
	}
	oi, err := os.Stat(src)
	if err != nil {
		return true
	}
	return !si.ModTime().Before(oi.ModTime())
}

func loadDelimited(path string, opts LoadOptions, defaultDelim string) (*Frame, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var reader io.Reader = bytes.NewReader(raw)
	if enc := opts.Encoding; enc != "" && !isUTF8(enc) {
		e, err := htmlindex.Get(enc)
		if err != nil {
			return nil, fmt.Errorf("unsupported encoding %q: %w", enc, err)
		}
		reader = transform.NewReader(reader, e.NewDecoder())
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	delim := opts.Delimiter
	if delim == "" {
		delim = defaultDelim
	}
	if delim != "," {
		if data, err = toCommaSeparated(data, []rune(delim)[0]); err != nil {
			return nil, err
		}
	}

	width, err := headerWidth(data)
	if err != nil {
		return nil, err
	}
	if width == 0 {
		return NewFrame(), nil
	}

	// Every column is read as text; numeric columns are decided below
	// over the whole column rather than from the first hundred lines.
	rdr := datareader.NewCSVReader(bytes.NewReader(data))
	rdr.TypeHintsPos = make([]string, width)
	for i := range rdr.TypeHintsPos {
		rdr.TypeHintsPos[i] = "string"
	}
	series, err := rdr.Read(-1)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return fromSeries(series)
}

// toCommaSeparated rewrites a file using another delimiter as plain CSV,
// the only dialect datareader.CSVReader accepts.
func toCommaSeparated(data []byte, comma rune) ([]byte, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("re-encode: %w", err)
	}
	return buf.Bytes(), nil
}

func headerWidth(data []byte) (int, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	return len(header), nil
}

func loadStata(path string) (*Frame, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer fh.Close()

	rdr, err := datareader.NewStataReader(fh)
	if err != nil {
		return nil, fmt.Errorf("stata header: %w", err)
	}
	// Codes must stay numeric so the codebook can relabel them.
	rdr.InsertCategoryLabels = false
	series, err := rdr.Read(-1)
	if err != nil {
		return nil, fmt.Errorf("stata data: %w", err)
	}
	if series == nil {
		return emptyFrame(rdr.ColumnNames()), nil
	}
	return fromSeries(series)
}

func loadSAS(path string) (*Frame, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer fh.Close()

	rdr, err := datareader.NewSAS7BDATReader(fh)
	if err != nil {
		return nil, fmt.Errorf("sas header: %w", err)
	}
	rdr.TrimStrings = true
	series, err := rdr.Read(-1)
	if errors.Is(err, io.EOF) {
		return emptyFrame(rdr.ColumnNames()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("sas data: %w", err)
	}
	return fromSeries(series)
}

func loadSheet(path, sheet string) (*Frame, error) {
	xf, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer xf.Close()

	if sheet == "" {
		sheet = xf.GetSheetName(0)
	}
	rows, err := xf.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return NewFrame(), nil
	}

	header := rows[0]
	series := make([]*datareader.Series, len(header))
	for j, name := range header {
		cells := make([]string, len(rows)-1)
		for i, row := range rows[1:] {
			if j < len(row) {
				cells[i] = row[j]
			}
		}
		s, err := datareader.NewSeries(name, cells, nil)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		series[j] = s
	}
	return fromSeries(series)
}

func emptyFrame(names []string) *Frame {
	f := NewFrame()
	for _, n := range names {
		_ = f.AddColumn(n, nil)
	}
	return f
}

func fromSeries(series []*datareader.Series) (*Frame, error) {
	f := NewFrame()
	for _, s := range series {
		values, err := seriesValues(s)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", s.Name, err)
		}
		if err := f.AddColumn(strings.TrimSpace(s.Name), values); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func seriesValues(s *datareader.Series) ([]Value, error) {
	switch s.Data().(type) {
	case []int64, []int32, []int16, []int8, []float32:
		s = s.UpcastNumeric()
	case []string:
		s = inferNumeric(s)
	}

	miss := s.Missing()
	isMissing := func(i int) bool { return miss != nil && miss[i] }

	out := make([]Value, s.Length())
	switch data := s.Data().(type) {
	case []float64:
		for i, x := range data {
			if isMissing(i) {
				continue
			}
			out[i] = Number(x)
		}
	case []string:
		for i, x := range data {
			if isMissing(i) || strings.TrimSpace(x) == "" {
				continue
			}
			out[i] = Text(x)
		}
	case []time.Time:
		for i, x := range data {
			if isMissing(i) {
				continue
			}
			out[i] = Text(x.Format("2006-01-02"))
		}
	case []uint64:
		for i, x := range data {
			if isMissing(i) {
				continue
			}
			out[i] = Number(float64(x))
		}
	default:
		return nil, fmt.Errorf("%w: column type %T", ErrUnsupportedFormat, data)
	}
	return out, nil
}

// inferNumeric converts a text column to float64 when every non-blank
// cell parses as a number.
func inferNumeric(s *datareader.Series) *datareader.Series {
	cells := s.Data().([]string)
	miss := s.Missing()

	trimmed := make([]string, len(cells))
	blank := make([]bool, len(cells))
	seen := false
	for i, c := range cells {
		c = strings.TrimSpace(c)
		if (miss != nil && miss[i]) || c == "" {
			blank[i] = true
			continue
		}
		if _, err := strconv.ParseFloat(c, 64); err != nil {
			return s
		}
		trimmed[i] = c
		seen = true
	}
	if !seen {
		return s
	}
	t, err := datareader.NewSeries(s.Name, trimmed, blank)
	if err != nil {
		return s
	}
	return t.ForceNumeric()
}

func isUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}
