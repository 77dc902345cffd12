package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spacesedan/sentiflow-vader/internal/classifier"
	"github.com/spacesedan/sentiflow-vader/internal/models"
	"github.com/spacesedan/sentiflow-vader/internal/sentiment"
	"github.com/spacesedan/sentiflow-vader/internal/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type englishDetector struct{}

func (englishDetector) Detect(text string) models.DetectionResult {
	return models.DetectionResult{LanguageCode: "en", Confidence: 1}
}

type scriptedClassifier struct {
	errs  map[string]error
	calls []string
}

func (s *scriptedClassifier) Classify(ctx context.Context, text string) (models.ClassificationRecord, error) {
	s.calls = append(s.calls, text)
	if err, ok := s.errs[text]; ok {
		return models.ClassificationRecord{}, err
	}
	return models.ClassificationRecord{OriginalText: text, Label: models.LabelNeutral}, nil
}

func dataset(texts ...string) *tabular.Dataset {
	ds := &tabular.Dataset{Name: "reviews.tsv", Columns: []string{"id", "content"}}
	for i, text := range texts {
		ds.Rows = append(ds.Rows, []string{fmt.Sprint(i + 1), text})
	}
	return ds
}

func newVaderProcessor(t *testing.T) *Processor {
	scorer, err := sentiment.SharedScorer()
	require.NoError(t, err)
	engine, err := classifier.NewEngine(englishDetector{}, nil, scorer)
	require.NoError(t, err)
	return NewProcessor(engine)
}

func TestProcess_ThreeRowScenario(t *testing.T) {
	processor := newVaderProcessor(t)

	var progress []float64
	result, err := processor.Process(context.Background(), dataset("great", "terrible", "it is a table"), "content", func(f float64) {
		progress = append(progress, f)
	})
	require.NoError(t, err)

	require.Equal(t, 3, result.Len())
	assert.Equal(t, models.LabelPositive, result.Results[0].Label())
	assert.Equal(t, models.LabelNegative, result.Results[1].Label())
	assert.Equal(t, models.LabelNeutral, result.Results[2].Label())
	assert.Equal(t, 1, result.Distribution[models.LabelPositive])
	assert.Equal(t, 1, result.Distribution[models.LabelNegative])
	assert.Equal(t, 1, result.Distribution[models.LabelNeutral])
	assert.Equal(t, 0, result.Distribution[models.LabelFailed])
	assert.Equal(t, 3, result.Distribution.Total())
	assert.Empty(t, result.FailedRows)

	assert.Equal(t, []float64{1.0 / 3, 2.0 / 3, 1.0}, progress)
}

func TestProcess_PreservesOrder(t *testing.T) {
	texts := make([]string, 50)
	for i := range texts {
		texts[i] = fmt.Sprintf("review number %d", i)
	}
	fake := &scriptedClassifier{}

	result, err := NewProcessor(fake).Process(context.Background(), dataset(texts...), "content", nil)
	require.NoError(t, err)

	assert.Equal(t, texts, fake.calls)
	for i, row := range result.Results {
		assert.Equal(t, i, row.Index)
		assert.Equal(t, texts[i], row.Record.OriginalText)
	}
}

func TestProcess_RowFailuresAreIsolated(t *testing.T) {
	fake := &scriptedClassifier{errs: map[string]error{
		"":     &sentiment.InvalidInputError{Reason: "text is empty or whitespace only"},
		"boom": errors.New("detector exploded"),
	}}

	var last float64
	result, err := NewProcessor(fake).Process(context.Background(), dataset("fine", "", "boom", "after"), "content", func(f float64) {
		assert.GreaterOrEqual(t, f, last)
		last = f
	})
	require.NoError(t, err)

	assert.Equal(t, 1.0, last)
	assert.Equal(t, []int{1, 2}, result.FailedRows)
	assert.Equal(t, 2, result.Distribution[models.LabelFailed])
	assert.Equal(t, 4, result.Distribution.Total())

	var rowErr *RowClassificationError
	require.ErrorAs(t, result.Results[1].Err, &rowErr)
	assert.Equal(t, 1, rowErr.Row)
	assert.True(t, sentiment.IsInvalidInput(result.Results[1].Err))
	assert.Equal(t, "row 3: detector exploded", result.Results[2].Error)
	assert.False(t, result.Results[3].Failed())
}

func TestProcess_ScorerUnavailableAborts(t *testing.T) {
	fake := &scriptedClassifier{errs: map[string]error{
		"second": fmt.Errorf("%w: lexicon gone", sentiment.ErrScorerUnavailable),
	}}

	result, err := NewProcessor(fake).Process(context.Background(), dataset("first", "second", "third"), "content", nil)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, sentiment.ErrScorerUnavailable)
	assert.Equal(t, []string{"first", "second"}, fake.calls)
}

func TestProcess_MissingColumnFailsBeforeAnyRow(t *testing.T) {
	fake := &scriptedClassifier{}

	_, err := NewProcessor(fake).Process(context.Background(), dataset("a", "b"), "review", nil)

	var parseErr *tabular.ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.Empty(t, fake.calls)
}

func TestProcess_EmptyDatasetReportsCompletion(t *testing.T) {
	var progress []float64

	result, err := NewProcessor(&scriptedClassifier{}).Process(context.Background(), dataset(), "content", func(f float64) {
		progress = append(progress, f)
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Len())
	assert.Equal(t, 0, result.Distribution.Total())
	assert.Equal(t, []float64{1.0}, progress)
}

func TestProcess_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fake := &scriptedClassifier{}

	_, err := NewProcessor(fake).Process(ctx, dataset("a"), "content", nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fake.calls)
}

func TestProcess_BlankRowIsFailedNotDropped(t *testing.T) {
	ds, err := tabular.Parse("r.csv", strings.NewReader("id,content\n1,good\n,\n3,bad\n"))
	require.NoError(t, err)

	result, err := newVaderProcessor(t).Process(context.Background(), ds, "content", nil)
	require.NoError(t, err)

	require.Equal(t, 3, result.Len())
	assert.Equal(t, models.LabelPositive, result.Results[0].Label())
	assert.Equal(t, models.LabelFailed, result.Results[1].Label())
	assert.Equal(t, models.LabelNegative, result.Results[2].Label())
	assert.Equal(t, []int{1}, result.FailedRows)
	assert.Equal(t, 1, result.Distribution[models.LabelFailed])
	assert.True(t, sentiment.IsInvalidInput(result.Results[1].Err))
}
