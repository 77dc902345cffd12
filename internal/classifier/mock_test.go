package classifier

import (
	"context"

	"github.com/spacesedan/sentiflow-vader/internal/models"
)

type MockDetector struct {
	Result models.DetectionResult
	Calls  []string
}

func (m *MockDetector) Detect(text string) models.DetectionResult {
	m.Calls = append(m.Calls, text)
	return m.Result
}

type MockTranslator struct {
	Output string
	Err    error
	Calls  []string
	Source string
	Target string
}

func (m *MockTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	m.Calls = append(m.Calls, text)
	m.Source = source
	m.Target = target
	if m.Err != nil {
		return "", m.Err
	}
	return m.Output, nil
}

type MockScorer struct {
	Scores  map[string]models.PolarityScore
	Default models.PolarityScore
	Err     error
	Calls   []string
}

func (m *MockScorer) PolarityScores(text string) (models.PolarityScore, error) {
	m.Calls = append(m.Calls, text)
	if m.Err != nil {
		return models.PolarityScore{}, m.Err
	}
	if s, ok := m.Scores[text]; ok {
		return s, nil
	}
	return m.Default, nil
}
