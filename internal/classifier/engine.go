package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spacesedan/sentiflow-vader/internal/models"
	"github.com/spacesedan/sentiflow-vader/internal/sentiment"
)

const (
	ENGLISH                   = "en"
	SOURCE_AUTO               = "auto"
	DEFAULT_TRANSLATE_TIMEOUT = 10 * time.Second
)

type Detector interface {
	Detect(text string) models.DetectionResult
}

type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

type Engine struct {
	detector         Detector
	translator       Translator
	scorer           sentiment.Scorer
	translateTimeout time.Duration
	logger           *slog.Logger
}

type Option func(*Engine)

func WithTranslateTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.translateTimeout = d
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine requires a detector and a scorer. A nil translator is allowed, in which case
// every non-English item is scored untranslated and carries a warning.
func NewEngine(detector Detector, translator Translator, scorer sentiment.Scorer, opts ...Option) (*Engine, error) {
	if scorer == nil {
		return nil, fmt.Errorf("%w: no scorer configured", sentiment.ErrScorerUnavailable)
	}
	if detector == nil {
		return nil, errors.New("classification engine requires a language detector")
	}

	e := &Engine{
		detector:         detector,
		translator:       translator,
		scorer:           scorer,
		translateTimeout: DEFAULT_TRANSLATE_TIMEOUT,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func Decide(detection models.DetectionResult) models.TranslationDecision {
	if detection.LanguageCode == ENGLISH {
		return models.DecisionDirect
	}
	return models.DecisionTranslateThenScore
}

func (e *Engine) Classify(ctx context.Context, text string) (models.ClassificationRecord, error) {
	if strings.TrimSpace(text) == "" {
		return models.ClassificationRecord{}, &sentiment.InvalidInputError{Reason: "text is empty or whitespace only"}
	}

	detection := e.detector.Detect(text)
	record := models.ClassificationRecord{
		OriginalText:     text,
		DetectedLanguage: detection.LanguageCode,
		Confidence:       detection.Confidence,
		Decision:         Decide(detection),
	}

	scoredText := text
	if record.Decision == models.DecisionTranslateThenScore {
		translated, err := e.translate(ctx, text, detection.LanguageCode)
		if err != nil {
			record.Warning = err.Error()
			e.logger.Warn("[ClassificationEngine] Translation failed, scoring original text",
				slog.String("language", detection.LanguageCode),
				slog.String("error", err.Error()))
		} else {
			record.TranslatedText = &translated
			record.TranslationApplied = true
			scoredText = translated
		}
	}

	score, err := e.scorer.PolarityScores(scoredText)
	if err != nil {
		if sentiment.IsScorerUnavailable(err) {
			return models.ClassificationRecord{}, err
		}
		return models.ClassificationRecord{}, fmt.Errorf("%w: %v", sentiment.ErrScorerUnavailable, err)
	}

	record.Score = score
	record.Label = sentiment.LabelFor(score.Compound)
	return record, nil
}

func (e *Engine) translate(ctx context.Context, text, language string) (string, error) {
	if e.translator == nil {
		return "", &sentiment.TranslationFailure{Language: language, Err: errors.New("no translator configured")}
	}

	if e.translateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.translateTimeout)
		defer cancel()
	}

	start := time.Now()
	translated, err := e.translator.Translate(ctx, text, SOURCE_AUTO, ENGLISH)
	if err != nil {
		return "", &sentiment.TranslationFailure{Language: language, Err: err}
	}
	if strings.TrimSpace(translated) == "" {
		return "", &sentiment.TranslationFailure{Language: language, Err: errors.New("translator returned empty text")}
	}

	e.logger.Debug("[ClassificationEngine] Translated text",
		slog.String("language", language),
		slog.Duration("elapsed", time.Since(start)))
	return translated, nil
}
