package pipeline

import (
	"context"
	"log/slog"

	"github.com/spacesedan/sentiflow-vader/config"
	"github.com/spacesedan/sentiflow-vader/internal/batch"
	"github.com/spacesedan/sentiflow-vader/internal/classifier"
	"github.com/spacesedan/sentiflow-vader/internal/clients"
	"github.com/spacesedan/sentiflow-vader/internal/sentiment"
)

type HealthChecker interface {
	HealthCheck(ctx context.Context) bool
}

// Pipeline holds the process-wide collaborators shared by every request.
type Pipeline struct {
	Engine     *classifier.Engine
	Processor  *batch.Processor
	Translator HealthChecker

	closers []func()
}

func New(cfg config.Config) (*Pipeline, error) {
	var scorerOpts []sentiment.ScorerOption
	if cfg.StripMarkdown {
		scorerOpts = append(scorerOpts, sentiment.WithMarkdownStripping())
	}
	scorer, err := sentiment.SharedScorer(scorerOpts...)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{}

	translator, err := p.buildTranslator(cfg)
	if err != nil {
		return nil, err
	}

	var engineTranslator classifier.Translator
	if translator != nil {
		engineTranslator = translator
		p.Translator = translator
	}

	engine, err := classifier.NewEngine(clients.NewLanguageDetector(), engineTranslator, scorer,
		classifier.WithTranslateTimeout(cfg.TranslateTimeout),
		classifier.WithLogger(slog.Default().With(slog.String("component", "classifier"))))
	if err != nil {
		return nil, err
	}

	p.Engine = engine
	p.Processor = batch.NewProcessor(engine)
	return p, nil
}

type healthCheckedTranslator interface {
	classifier.Translator
	HealthChecker
}

func (p *Pipeline) buildTranslator(cfg config.Config) (healthCheckedTranslator, error) {
	var translator healthCheckedTranslator
	switch cfg.TranslatorBackend {
	case config.TranslatorNone:
		slog.Warn("[Pipeline] Translation disabled, non-English text is scored as is")
		return nil, nil
	case config.TranslatorOpenAI:
		t, err := clients.NewOpenAITranslator(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			return nil, err
		}
		translator = t
	default:
		translator = clients.NewGoogleTranslator(cfg.TranslateTimeout)
	}

	if cfg.ValkeyAddress == "" {
		return translator, nil
	}

	vc, err := clients.NewValkeyClient(clients.ValkeyOptions{
		Address:  cfg.ValkeyAddress,
		Password: cfg.ValkeyPassword,
		UseTLS:   cfg.ValkeyTLS,
	})
	if err != nil {
		slog.Warn("[Pipeline] Translation cache unavailable, continuing without it",
			slog.String("error", err.Error()))
		return translator, nil
	}
	p.closers = append(p.closers, vc.Close)

	return clients.NewCachedTranslator(translator, vc), nil
}

func (p *Pipeline) Close() {
	for _, c := range p.closers {
		c()
	}
}
