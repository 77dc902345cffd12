package report

import (
	"fmt"
	"log/slog"

	"github.com/spacesedan/sentiflow-vader/internal/models"
	"github.com/spacesedan/sentiflow-vader/internal/sentiment"
)

// Agreement compares computed labels against a manually labelled column.
// Confusion is indexed manual label first, computed label second.
type Agreement struct {
	ManualColumn string                                `json:"manual_column"`
	Total        int                                   `json:"total"`
	Matched      int                                   `json:"matched"`
	Accuracy     float64                               `json:"accuracy"`
	Confusion    map[models.Label]map[models.Label]int `json:"confusion"`
	ManualCounts models.LabelDistribution              `json:"manual_counts"`
	Skipped      []int                                 `json:"skipped_rows"`
}

func Compare(result *models.BatchResult, manualColumn string) (*Agreement, error) {
	idx := -1
	for i, c := range result.Columns {
		if c == manualColumn {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("manual label column %q not found", manualColumn)
	}

	agreement := &Agreement{
		ManualColumn: manualColumn,
		Confusion:    make(map[models.Label]map[models.Label]int, len(models.Labels)),
		ManualCounts: models.LabelDistribution{},
		Skipped:      []int{},
	}
	for _, manual := range models.Labels {
		agreement.Confusion[manual] = make(map[models.Label]int, len(models.Labels))
		agreement.ManualCounts[manual] = 0
	}

	for i, row := range result.Results {
		manual, ok := sentiment.ParseLabel(result.Rows[i][idx])
		if !ok || row.Failed() || row.Record == nil {
			agreement.Skipped = append(agreement.Skipped, i)
			continue
		}

		computed := row.Record.Label
		agreement.Total++
		agreement.ManualCounts[manual]++
		agreement.Confusion[manual][computed]++
		if manual == computed {
			agreement.Matched++
		}
	}

	if agreement.Total > 0 {
		agreement.Accuracy = float64(agreement.Matched) / float64(agreement.Total)
	}

	slog.Info("[AgreementReport] Compared labels",
		slog.String("manual_column", manualColumn),
		slog.Int("total", agreement.Total),
		slog.Int("skipped", len(agreement.Skipped)),
		slog.Float64("accuracy", agreement.Accuracy))
	return agreement, nil
}
