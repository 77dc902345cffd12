package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/sentiflow-vader/internal/models"
	"github.com/spacesedan/sentiflow-vader/internal/sentiment"
	"github.com/spacesedan/sentiflow-vader/internal/tabular"
)

type Classifier interface {
	Classify(ctx context.Context, text string) (models.ClassificationRecord, error)
}

// ProgressFunc receives the completed fraction of the batch after every row.
type ProgressFunc func(fraction float64)

type RowClassificationError struct {
	Row int
	Err error
}

func (e *RowClassificationError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row+1, e.Err)
}

func (e *RowClassificationError) Unwrap() error {
	return e.Err
}

type Processor struct {
	classifier Classifier
}

func NewProcessor(classifier Classifier) *Processor {
	return &Processor{classifier: classifier}
}

// Process classifies the text column of every row in input order. A row failure is recorded
// on that row and the batch continues; an unavailable scorer aborts the batch.
func (p *Processor) Process(ctx context.Context, dataset *tabular.Dataset, column string, progress ProgressFunc) (*models.BatchResult, error) {
	if dataset == nil {
		return nil, &tabular.ParseError{Reason: "no dataset provided"}
	}

	texts, err := dataset.Column(column)
	if err != nil {
		return nil, err
	}

	if progress == nil {
		progress = func(float64) {}
	}

	total := len(texts)
	result := &models.BatchResult{
		Columns:      dataset.Columns,
		Rows:         dataset.Rows,
		TextColumn:   column,
		Results:      make([]models.RowResult, 0, total),
		Distribution: models.NewLabelDistribution(),
		FailedRows:   []int{},
	}

	slog.Info("[BatchProcessor] Processing batch",
		slog.String("dataset", dataset.Name),
		slog.String("column", column),
		slog.Int("batch_size", total))
	start := time.Now()

	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			slog.Warn("[BatchProcessor] context canceled",
				slog.Int("processed", i),
				slog.Int("batch_size", total))
			return nil, err
		}

		row := models.RowResult{Index: i}
		record, err := p.classifier.Classify(ctx, text)
		switch {
		case sentiment.IsScorerUnavailable(err):
			slog.Error("[BatchProcessor] Scorer unavailable, aborting batch",
				slog.Int("row", i+1),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("batch aborted at row %d: %w", i+1, err)
		case err != nil:
			rowErr := &RowClassificationError{Row: i, Err: err}
			row.Err = rowErr
			row.Error = rowErr.Error()
			result.FailedRows = append(result.FailedRows, i)
			slog.Warn("[BatchProcessor] Row failed",
				slog.Int("row", i+1),
				slog.String("error", err.Error()))
		default:
			row.Record = &record
		}

		result.Results = append(result.Results, row)
		result.Distribution[row.Label()]++
		progress(float64(i+1) / float64(total))
	}

	if total == 0 {
		progress(1.0)
	}

	slog.Info("[BatchProcessor] Batch complete",
		slog.Int("batch_size", total),
		slog.Int("failed", len(result.FailedRows)),
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}
