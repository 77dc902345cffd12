package tabular

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spacesedan/sentiflow-vader/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParse_TSV(t *testing.T) {
	in := "userName\tcontent\tscore\nalice\tGreat app\t5\nbob\tsaid \"meh\"\t1\n"

	ds, err := Parse("Data Ulasan.tsv", strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"userName", "content", "score"}, ds.Columns)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, `said "meh"`, ds.Rows[1][1])

	col, err := ds.Column("content")
	require.NoError(t, err)
	assert.Equal(t, []string{"Great app", `said "meh"`}, col)
}

func TestParse_CSV(t *testing.T) {
	in := "\xef\xbb\xbfid,text\n1,\"hello, world\"\n2\n\n3,bye\n"

	ds, err := Parse("reviews.CSV", strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "text"}, ds.Columns)
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"1", "hello, world"}, ds.Rows[0])
	assert.Equal(t, []string{"2", ""}, ds.Rows[1])
	assert.Equal(t, []string{"3", "bye"}, ds.Rows[2])
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]struct {
		name string
		body string
	}{
		"unsupported extension": {"notes.txt", "a,b\n"},
		"empty file":            {"empty.csv", ""},
		"blank header":          {"blank.csv", "a,,c\n1,2,3\n"},
		"duplicate header":      {"dup.csv", "a,a\n1,2\n"},
		"too many cells":        {"wide.csv", "a,b\n1,2,3\n"},
		"bad quoting":           {"quote.csv", "a,b\n\"unterminated,2\n"},
		"not a workbook":        {"fake.xlsx", "definitely not zip"},
	}

	for name, tc := range cases {
		_, err := Parse(tc.name, strings.NewReader(tc.body))

		var parseErr *ParseError
		assert.True(t, errors.As(err, &parseErr), name)
	}
}

func TestDataset_MissingColumn(t *testing.T) {
	ds := &Dataset{Name: "x.csv", Columns: []string{"a", "b"}}

	_, err := ds.Column("content")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, err.Error(), `column "content" not found`)
	assert.Contains(t, err.Error(), "a, b")
}

func TestParse_XLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"id", "content"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{1, "nice"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{2, "awful"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	ds, err := Parse("upload.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "content"}, ds.Columns)
	assert.Equal(t, [][]string{{"1", "nice"}, {"2", "awful"}}, ds.Rows)
}

func sampleResult() *models.BatchResult {
	translated := "very good"
	return &models.BatchResult{
		Columns:    []string{"id", "content"},
		Rows:       [][]string{{"1", "sangat bagus"}, {"2", ""}, {"3", "terrible"}},
		TextColumn: "content",
		Results: []models.RowResult{
			{Index: 0, Record: &models.ClassificationRecord{
				OriginalText: "sangat bagus", DetectedLanguage: "id", TranslatedText: &translated, TranslationApplied: true,
				Score: models.PolarityScore{Neutral: 0.25, Positive: 0.75, Compound: 0.4927}, Label: models.LabelPositive,
			}},
			{Index: 1, Err: errors.New("row 2: invalid input: text is empty or whitespace only"), Error: "row 2: invalid input: text is empty or whitespace only"},
			{Index: 2, Record: &models.ClassificationRecord{
				OriginalText: "terrible", DetectedLanguage: "en",
				Score: models.PolarityScore{Negative: 1, Compound: -0.4767}, Label: models.LabelNegative,
			}},
		},
	}
}

func TestExportCSV(t *testing.T) {
	out, err := Export(sampleResult(), FormatCSV)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "id,content,neg,neu,pos,compound,label,detected_language,translated_text,error", lines[0])
	assert.Equal(t, "1,sangat bagus,0,0.25,0.75,0.4927,Positive,id,very good,", lines[1])
	assert.Equal(t, "2,,,,,,Failed,,,row 2: invalid input: text is empty or whitespace only", lines[2])
	assert.Equal(t, "3,terrible,1,0,0,-0.4767,Negative,en,,", lines[3])

	again, err := Export(sampleResult(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestExportXLSX(t *testing.T) {
	out, err := Export(sampleResult(), FormatXLSX)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SHEET_NAME}, f.GetSheetList())

	rows, err := f.GetRows(SHEET_NAME)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, Header(sampleResult()), rows[0])
	assert.Equal(t, "Positive", rows[1][6])
	assert.Equal(t, "0.4927", rows[1][5])
	assert.Equal(t, "Failed", rows[2][6])
	assert.Equal(t, "Negative", rows[3][6])
}

func TestFormat(t *testing.T) {
	f, err := ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", f.MIMEType())
	assert.Equal(t, "vader_result.xlsx", f.FileName())

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", f.MIMEType())

	_, err = ParseFormat("parquet")
	assert.Error(t, err)
}

func TestParse_KeepsBlankRows(t *testing.T) {
	ds, err := Parse("r.csv", strings.NewReader("id,content\n1,good\n,\n3,bad\n"))
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"", ""}, ds.Rows[1])

	ds, err = Parse("r.csv", strings.NewReader("content\ngood\n   \nbad\n"))
	require.NoError(t, err)
	col, err := ds.Column("content")
	require.NoError(t, err)
	assert.Equal(t, []string{"good", "   ", "bad"}, col)
}

func TestDataset_ColumnShortRows(t *testing.T) {
	ds := &Dataset{Name: "x.csv", Columns: []string{"id", "content"}, Rows: [][]string{{"1", "hi"}, {"2"}, {}}}

	col, err := ds.Column("content")
	require.NoError(t, err)
	assert.Equal(t, []string{"hi", "", ""}, col)
}

func TestExport_ParsesBack(t *testing.T) {
	result := sampleResult()
	result.Columns = []string{"label", "content"}
	result.Rows = [][]string{{"P", "sangat bagus"}, {"NT", ""}, {"N", "terrible"}}

	header := Header(result)
	assert.Equal(t, []string{"label", "content", "neg", "neu", "pos", "compound", "label_vader",
		"detected_language", "translated_text", "error"}, header)

	for _, format := range []Format{FormatCSV, FormatXLSX} {
		out, err := Export(result, format)
		require.NoError(t, err)

		ds, err := Parse(format.FileName(), bytes.NewReader(out))
		require.NoError(t, err, format)
		assert.Equal(t, header, ds.Columns, format)
		require.Equal(t, 3, ds.Len(), format)

		labels, err := ds.Column("label_vader")
		require.NoError(t, err)
		assert.Equal(t, []string{"Positive", "Failed", "Negative"}, labels, format)

		manual, err := ds.Column("label")
		require.NoError(t, err)
		assert.Equal(t, []string{"P", "NT", "N"}, manual, format)
	}
}

func TestHeader_RepeatedCollision(t *testing.T) {
	result := &models.BatchResult{Columns: []string{"label", "label_vader"}}

	header := Header(result)
	assert.Equal(t, "label_vader_vader", header[6])
}
