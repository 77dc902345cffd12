package clients

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"
)

type ValkeyOptions struct {
	Address  string
	Password string
	UseTLS   bool
}

type ValkeyClient struct {
	Client valkey.Client
}

func NewValkeyClient(opts ValkeyOptions) (*ValkeyClient, error) {
	clientOpts := valkey.ClientOption{
		InitAddress: []string{
			opts.Address,
		},
		Password:         opts.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if opts.UseTLS {
		clientOpts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", opts.Address))

	return &ValkeyClient{Client: client}, nil
}

func (vc *ValkeyClient) Close() {
	vc.Client.Close()
}

func (vc *ValkeyClient) Get(ctx context.Context, key string) (string, bool, error) {
	res := vc.DoWithRetry(ctx, vc.Client.B().Get().Key(key).Build(), 2)
	value, err := res.ToString()
	if valkey.IsValkeyNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (vc *ValkeyClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	cmd := vc.Client.B().Setex().Key(key).Seconds(int64(ttl / time.Second)).Value(value).Build()
	return vc.DoWithRetry(ctx, cmd, 2).Error()
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.Client.Do(ctx, completed)
		if err := result.Error(); err == nil || valkey.IsValkeyNil(err) || !isConnectionError(err) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		time.Sleep(250 * time.Millisecond)
	}

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}

type TranslationStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// CachedTranslator consults the store before calling the wrapped translator. Store
// failures are logged and bypassed, they never fail a translation.
type CachedTranslator struct {
	next  translator
	store TranslationStore
	ttl   time.Duration
}

func NewCachedTranslator(next translator, store TranslationStore) *CachedTranslator {
	return &CachedTranslator{
		next:  next,
		store: store,
		ttl:   TRANSLATION_CACHE_TTL,
	}
}

func (c *CachedTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	key := translationKey(text, source, target)

	cached, ok, err := c.store.Get(ctx, key)
	if err != nil {
		slog.Warn("[CachedTranslator] Cache lookup failed",
			slog.String("error", err.Error()))
	}
	if ok {
		return cached, nil
	}

	translated, err := c.next.Translate(ctx, text, source, target)
	if err != nil {
		return "", err
	}

	if err := c.store.Set(ctx, key, translated, c.ttl); err != nil {
		slog.Warn("[CachedTranslator] Cache write failed",
			slog.String("error", err.Error()))
	}
	return translated, nil
}

func (c *CachedTranslator) HealthCheck(ctx context.Context) bool {
	if hc, ok := c.next.(interface{ HealthCheck(context.Context) bool }); ok {
		return hc.HealthCheck(ctx)
	}
	return true
}

func translationKey(text, source, target string) string {
	sum := sha256.Sum256([]byte(source + "\x00" + target + "\x00" + text))
	return TRANSLATION_CACHE_PREFIX + hex.EncodeToString(sum[:])
}
