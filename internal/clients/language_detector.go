package clients

import (
	"log/slog"

	"github.com/abadojack/whatlanggo"
	"github.com/spacesedan/sentiflow-vader/internal/models"
)

type LanguageDetector struct{}

func NewLanguageDetector() *LanguageDetector {
	return &LanguageDetector{}
}

// Detect never fails. Unreliable guesses are returned with their own confidence and an
// unrecognised language comes back as an empty code.
func (d *LanguageDetector) Detect(text string) models.DetectionResult {
	info := whatlanggo.Detect(text)

	confidence := info.Confidence
	if confidence > 1.0 {
		confidence = 1.0
	}
	if confidence < 0.0 {
		confidence = 0.0
	}

	code := ""
	if info.Lang >= 0 {
		code = info.Lang.Iso6391()
	}

	slog.Debug("[LanguageDetector] Detected language",
		slog.String("language", code),
		slog.Float64("confidence", confidence),
		slog.Bool("reliable", info.IsReliable()))

	return models.DetectionResult{
		LanguageCode: code,
		Confidence:   confidence,
	}
}
