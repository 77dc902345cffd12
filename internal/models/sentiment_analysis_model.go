package models

type Label string

const (
	LabelPositive Label = "Positive"
	LabelNeutral  Label = "Neutral"
	LabelNegative Label = "Negative"

	// LabelFailed is only used by batch distributions for rows that produced no score.
	LabelFailed Label = "Failed"
)

var Labels = []Label{LabelPositive, LabelNeutral, LabelNegative}

type TranslationDecision string

const (
	DecisionDirect             TranslationDecision = "direct"
	DecisionTranslateThenScore TranslationDecision = "translate_then_score"
)

type DetectionResult struct {
	LanguageCode string  `json:"language_code"`
	Confidence   float64 `json:"confidence"`
}

type PolarityScore struct {
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neu"`
	Positive float64 `json:"pos"`
	Compound float64 `json:"compound"`
}

type ClassificationRecord struct {
	OriginalText       string              `json:"original_text"`
	DetectedLanguage   string              `json:"detected_language"`
	Confidence         float64             `json:"language_confidence"`
	Decision           TranslationDecision `json:"decision"`
	TranslatedText     *string             `json:"translated_text,omitempty"`
	TranslationApplied bool                `json:"translation_applied"`
	Warning            string              `json:"warning,omitempty"`
	Score              PolarityScore       `json:"score"`
	Label              Label               `json:"label"`
}

// ScoredText is the text that actually went through the scorer.
func (r ClassificationRecord) ScoredText() string {
	if r.TranslatedText != nil {
		return *r.TranslatedText
	}
	return r.OriginalText
}
