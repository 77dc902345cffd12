package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/spacesedan/sentiflow-vader/internal/models"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"

	MIME_CSV  = "text/csv"
	MIME_XLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	EXPORT_BASENAME = "vader_result"
	SHEET_NAME      = "Sheet1"
	DERIVED_SUFFIX  = "_vader"
)

var DerivedColumns = []string{"neg", "neu", "pos", "compound", "label", "detected_language", "translated_text", "error"}

func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q, expected csv or xlsx", raw)
}

func (f Format) MIMEType() string {
	if f == FormatXLSX {
		return MIME_XLSX
	}
	return MIME_CSV
}

func (f Format) FileName() string {
	return EXPORT_BASENAME + "." + string(f)
}

func Export(result *models.BatchResult, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportCSV(result)
	case FormatXLSX:
		return ExportXLSX(result)
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

// Header is the original columns in input order followed by the derived columns. A derived
// column whose name is already taken by an input column gets DERIVED_SUFFIX, so every
// exported file parses back.
func Header(result *models.BatchResult) []string {
	header := make([]string, 0, len(result.Columns)+len(DerivedColumns))
	header = append(header, result.Columns...)

	taken := make(map[string]bool, cap(header))
	for _, c := range result.Columns {
		taken[c] = true
	}
	for _, name := range DerivedColumns {
		for taken[name] {
			name += DERIVED_SUFFIX
		}
		taken[name] = true
		header = append(header, name)
	}
	return header
}

// AugmentedRows joins each input row with its classification. Failed rows keep their
// input cells, leave the score cells blank and carry the failure message.
func AugmentedRows(result *models.BatchResult) [][]string {
	out := make([][]string, len(result.Rows))
	for i, row := range result.Rows {
		line := make([]string, 0, len(row)+len(DerivedColumns))
		line = append(line, row...)

		var rr models.RowResult
		if i < len(result.Results) {
			rr = result.Results[i]
		}

		if rr.Failed() || rr.Record == nil {
			msg := rr.Error
			if msg == "" && rr.Err != nil {
				msg = rr.Err.Error()
			}
			line = append(line, "", "", "", "", string(models.LabelFailed), "", "", msg)
			out[i] = line
			continue
		}

		rec := rr.Record
		translated := ""
		if rec.TranslatedText != nil {
			translated = *rec.TranslatedText
		}
		line = append(line,
			formatFloat(rec.Score.Negative),
			formatFloat(rec.Score.Neutral),
			formatFloat(rec.Score.Positive),
			formatFloat(rec.Score.Compound),
			string(rec.Label),
			rec.DetectedLanguage,
			translated,
			rec.Warning,
		)
		out[i] = line
	}
	return out
}

func ExportCSV(result *models.BatchResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header(result)); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := w.WriteAll(AugmentedRows(result)); err != nil {
		return nil, fmt.Errorf("failed to write csv rows: %w", err)
	}
	return buf.Bytes(), nil
}

func ExportXLSX(result *models.BatchResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheetRow(f, 1, Header(result)); err != nil {
		return nil, err
	}

	compoundCol := len(result.Columns) + 3
	for i, row := range AugmentedRows(result) {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
			// score cells go in as numbers so spreadsheets can sort and chart them
			if j >= len(result.Columns) && j <= compoundCol && v != "" {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					cells[j] = n
				}
			}
		}
		if err := writeSheetRow(f, i+2, cells); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheetRow[T any](f *excelize.File, row int, values []T) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("invalid sheet row %d: %w", row, err)
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(SHEET_NAME, cell, &cells); err != nil {
		return fmt.Errorf("failed to write sheet row %d: %w", row, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
