package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

type GoogleTranslator struct {
	Client   *retryablehttp.Client
	endpoint string
}

type GoogleTranslatorOption func(*GoogleTranslator)

func WithGoogleEndpoint(endpoint string) GoogleTranslatorOption {
	return func(g *GoogleTranslator) {
		g.endpoint = endpoint
	}
}

func WithRetryMax(retryMax int) GoogleTranslatorOption {
	return func(g *GoogleTranslator) {
		g.Client.RetryMax = retryMax
	}
}

func NewGoogleTranslator(timeout time.Duration, opts ...GoogleTranslatorOption) *GoogleTranslator {
	client := retryablehttp.NewClient()
	client.RetryMax = MAX_RETRIES
	client.RetryWaitMin = INITIAL_BACKOFF
	client.RetryWaitMax = MAX_BACKOFF
	client.HTTPClient.Timeout = timeout
	client.Logger = slog.Default()
	client.Backoff = retryablehttp.DefaultBackoff
	client.CheckRetry = retryPolicy

	g := &GoogleTranslator{
		Client:   client,
		endpoint: GOOGLE_TRANSLATE_ENDPOINT,
	}
	for _, opt := range opts {
		opt(g)
	}

	slog.Info("[GoogleTranslator] Initializing Client",
		slog.Duration("timeout", timeout),
		slog.String("endpoint", g.endpoint))
	return g
}

// retryPolicy only retries transport errors, 429 and 5xx responses.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if resp != nil && resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
		return false, nil
	}

	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

func (g *GoogleTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	start := time.Now()

	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", source)
	query.Set("tl", target)
	query.Set("dt", "t")
	query.Set("q", text)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := g.Client.Do(req)
	if err != nil {
		slog.Error("[GoogleTranslator] Request failed after retries",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return "", fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("[GoogleTranslator] Unexpected status",
			slog.Int("status", resp.StatusCode),
			getPreview(body))
		return "", fmt.Errorf("translate endpoint returned %s", errMsg(nil, resp))
	}

	translated, err := parseGoogleResponse(body)
	if err != nil {
		slog.Error("[GoogleTranslator] Failed to parse response",
			slog.String("error", err.Error()),
			getPreview(body),
			slog.Int("raw_response_length", len(body)))
		return "", err
	}

	slog.Debug("[GoogleTranslator] Translation successful",
		slog.String("source", source),
		slog.String("target", target),
		slog.Duration("elapsed", time.Since(start)))
	return translated, nil
}

func (g *GoogleTranslator) HealthCheck(ctx context.Context) bool {
	_, err := g.Translate(ctx, "ok", SOURCE_AUTO, TARGET_ENGLISH)
	return err == nil
}

// The gtx endpoint answers with nested arrays: [[["translated","original",...],...],...].
func parseGoogleResponse(body []byte) (string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("empty translation response")
	}

	var segments [][]any
	if err := json.Unmarshal(raw[0], &segments); err != nil {
		return "", fmt.Errorf("unexpected translation segments: %w", err)
	}

	var b strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		if s, ok := segment[0].(string); ok {
			b.WriteString(s)
		}
	}

	if b.Len() == 0 {
		return "", fmt.Errorf("translation response contained no text")
	}
	return b.String(), nil
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
