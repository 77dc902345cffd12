package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type Dataset struct {
	Name    string
	Columns []string
	Rows    [][]string
}

func (d *Dataset) Len() int {
	return len(d.Rows)
}

func (d *Dataset) ColumnIndex(name string) (int, bool) {
	for i, c := range d.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Column returns a copy of one column's cells, in row order.
func (d *Dataset) Column(name string) ([]string, error) {
	idx, ok := d.ColumnIndex(name)
	if !ok {
		return nil, &ParseError{Name: d.Name, Reason: fmt.Sprintf("column %q not found, available columns: %s", name, strings.Join(d.Columns, ", "))}
	}

	out := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out, nil
}

// Parse picks a decoder from the file extension: .tsv is tab separated, .csv comma
// separated, .xlsx the first sheet of a workbook.
func Parse(name string, r io.Reader) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tsv":
		return ParseDelimited(name, r, '\t')
	case ".csv":
		return ParseDelimited(name, r, ',')
	case ".xlsx":
		return ParseSpreadsheet(name, r)
	default:
		return nil, &ParseError{Name: name, Reason: "unsupported file type, expected .csv, .tsv or .xlsx"}
	}
}

func ParseDelimited(name string, r io.Reader, sep rune) (*Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Name: name, Reason: "read failed", Err: err}
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	if sep == '\t' {
		reader.LazyQuotes = true
	}

	records, err := reader.ReadAll()
	if err != nil {
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			return nil, &ParseError{Name: name, Reason: fmt.Sprintf("malformed record on line %d", csvErr.Line), Err: csvErr.Err}
		}
		return nil, &ParseError{Name: name, Reason: "malformed delimited text", Err: err}
	}

	return newDataset(name, records)
}

func ParseSpreadsheet(name string, r io.Reader) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Name: name, Reason: "not a readable spreadsheet", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Name: name, Reason: "workbook has no sheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ParseError{Name: name, Reason: fmt.Sprintf("cannot read sheet %q", sheets[0]), Err: err}
	}

	return newDataset(name, rows)
}

func newDataset(name string, records [][]string) (*Dataset, error) {
	if len(records) == 0 {
		return nil, &ParseError{Name: name, Reason: "file is empty"}
	}

	header := records[0]
	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			return nil, &ParseError{Name: name, Reason: fmt.Sprintf("header cell %d is blank", i+1)}
		}
		if seen[h] {
			return nil, &ParseError{Name: name, Reason: fmt.Sprintf("duplicate column %q", h)}
		}
		seen[h] = true
		columns[i] = h
	}

	rows := make([][]string, 0, len(records)-1)
	for i, rec := range records[1:] {
		if isEmptyRecord(rec) {
			continue
		}
		if len(rec) > len(columns) {
			return nil, &ParseError{Name: name, Reason: fmt.Sprintf("row %d has %d cells but the header has %d", i+1, len(rec), len(columns))}
		}
		row := make([]string, len(columns))
		copy(row, rec)
		rows = append(rows, row)
	}

	return &Dataset{Name: name, Columns: columns, Rows: rows}, nil
}

// isEmptyRecord matches a line with no cells at all. Rows with blank cells are kept so
// they reach the classifier and are reported as failed rows.
func isEmptyRecord(rec []string) bool {
	return len(rec) == 0 || (len(rec) == 1 && rec[0] == "")
}
