package sentiment

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
	"github.com/spacesedan/sentiflow-vader/internal/models"
)

type Scorer interface {
	PolarityScores(text string) (models.PolarityScore, error)
}

var (
	sharedScorer     *VaderScorer
	sharedScorerErr  error
	sharedScorerOnce sync.Once

	urlPattern = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

type VaderScorer struct {
	analyzer      *govader.SentimentIntensityAnalyzer
	stripMarkdown bool
}

type ScorerOption func(*VaderScorer)

// WithMarkdownStripping flattens markdown to plain text and drops bare URLs before scoring.
func WithMarkdownStripping() ScorerOption {
	return func(v *VaderScorer) {
		v.stripMarkdown = true
	}
}

func NewVaderScorer(opts ...ScorerOption) (scorer *VaderScorer, err error) {
	defer func() {
		if r := recover(); r != nil {
			scorer = nil
			err = fmt.Errorf("%w: lexicon failed to load: %v", ErrScorerUnavailable, r)
		}
	}()

	analyzer := govader.NewSentimentIntensityAnalyzer()
	if analyzer == nil {
		return nil, fmt.Errorf("%w: analyzer construction returned nil", ErrScorerUnavailable)
	}

	v := &VaderScorer{analyzer: analyzer}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// SharedScorer builds the VADER lexicon once per process. Options only apply on the first call.
func SharedScorer(opts ...ScorerOption) (*VaderScorer, error) {
	sharedScorerOnce.Do(func() {
		sharedScorer, sharedScorerErr = NewVaderScorer(opts...)
		if sharedScorerErr != nil {
			slog.Error("[VaderScorer] Failed to initialize analyzer",
				slog.String("error", sharedScorerErr.Error()))
			return
		}
		slog.Info("[VaderScorer] Analyzer initialized",
			slog.Bool("strip_markdown", sharedScorer.stripMarkdown))
	})
	return sharedScorer, sharedScorerErr
}

func (v *VaderScorer) PolarityScores(text string) (models.PolarityScore, error) {
	if v == nil || v.analyzer == nil {
		return models.PolarityScore{}, ErrScorerUnavailable
	}

	if v.stripMarkdown {
		text = ConvertMarkdownToText(text)
	}

	s := v.analyzer.PolarityScores(text)
	return models.PolarityScore{
		Negative: s.Negative,
		Neutral:  s.Neutral,
		Positive: s.Positive,
		Compound: s.Compound,
	}, nil
}

func RemoveLinks(input string) string {
	return strings.Join(strings.Fields(urlPattern.ReplaceAllString(input, "")), " ")
}

// ConvertMarkdownToText keeps the visible text of a markdown document. Link targets
// and images are dropped, link text is kept.
func ConvertMarkdownToText(input string) string {
	root := blackfriday.New(blackfriday.WithNoExtensions()).Parse([]byte(input))

	var b strings.Builder
	root.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		switch node.Type {
		case blackfriday.Image:
			return blackfriday.SkipChildren
		case blackfriday.Text, blackfriday.Code, blackfriday.CodeBlock:
			if entering {
				b.Write(node.Literal)
			}
		case blackfriday.Softbreak, blackfriday.Hardbreak:
			b.WriteByte(' ')
		case blackfriday.Paragraph, blackfriday.Heading, blackfriday.Item:
			if !entering {
				b.WriteByte(' ')
			}
		}
		return blackfriday.GoToNext
	})

	return RemoveLinks(b.String())
}
