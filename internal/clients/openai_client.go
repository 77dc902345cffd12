package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	openAIRequestTimeout = 60 * time.Second // Timeout for individual OpenAI API requests
	openAIDefaultModel   = openai.GPT4oMini

	translationPrompt = "You are a translation engine. Translate the user's text from %s into %s. " +
		"Reply with the translation only, without quotes, notes or explanations."
)

type OpenAITranslator struct {
	Client *openai.Client
	model  string
}

func NewOpenAITranslator(apiKey, model string) (*OpenAITranslator, error) {
	if apiKey == "" {
		slog.Error("[OpenAITranslator] Missing OPENAI_API_KEY")
		return nil, errors.New("openai translator requires an api key")
	}
	if model == "" {
		model = openAIDefaultModel
	}

	config := openai.DefaultConfig(apiKey)
	config.HTTPClient = &http.Client{
		Timeout: openAIRequestTimeout,
	}

	slog.Info("[OpenAITranslator] OpenAI client initialized",
		slog.String("model", model),
		slog.Duration("timeout", openAIRequestTimeout))

	return &OpenAITranslator{
		Client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

func (o *OpenAITranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	from := source
	if source == SOURCE_AUTO || source == "" {
		from = "whatever language it is written in"
	}

	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(translationPrompt, from, target)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		slog.Error("[OpenAITranslator] Chat completion failed",
			slog.String("error", err.Error()))
		return "", fmt.Errorf("openai translation failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai translation returned no choices")
	}

	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return "", errors.New("openai translation returned empty content")
	}
	return translated, nil
}

func (o *OpenAITranslator) HealthCheck(ctx context.Context) bool {
	_, err := o.Client.ListModels(ctx)
	return err == nil
}
