package sentiment

import (
	"strings"

	"github.com/spacesedan/sentiflow-vader/internal/models"
)

const (
	POSITIVE_THRESHOLD = 0.05
	NEGATIVE_THRESHOLD = -0.05
)

// LabelFor partitions the compound range; both thresholds are inclusive on the polar side.
func LabelFor(compound float64) models.Label {
	switch {
	case compound >= POSITIVE_THRESHOLD:
		return models.LabelPositive
	case compound <= NEGATIVE_THRESHOLD:
		return models.LabelNegative
	default:
		return models.LabelNeutral
	}
}

// ParseLabel accepts the full label names and the short P/N/NT codes used in manually labelled sheets.
func ParseLabel(raw string) (models.Label, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "p", "pos", "positive":
		return models.LabelPositive, true
	case "n", "neg", "negative":
		return models.LabelNegative, true
	case "nt", "neu", "neutral":
		return models.LabelNeutral, true
	}
	return "", false
}
