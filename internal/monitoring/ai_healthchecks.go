package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const (
	HEALTHCHECK_TIMER   = 60
	HEALTHCHECK_TIMEOUT = 10 * time.Second
)

type HealthChecker interface {
	HealthCheck(ctx context.Context) bool
}

func MonitorTranslatorHealth(ctx context.Context, translator HealthChecker, healthy *atomic.Bool) {
	MonitorTranslatorHealthEvery(ctx, translator, healthy, time.Second*HEALTHCHECK_TIMER)
}

func MonitorTranslatorHealthEvery(ctx context.Context, translator HealthChecker, healthy *atomic.Bool, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, HEALTHCHECK_TIMEOUT)
			isHealthy := translator.HealthCheck(checkCtx)
			cancel()

			if healthy.Swap(isHealthy) != isHealthy {
				slog.Info("[HealthCheck] Translator health changed",
					slog.Bool("healthy", isHealthy))
			}
			if !isHealthy {
				slog.Warn("[HealthCheck] Translator is unhealthy, non-English text will be scored untranslated")
			}
		}
	}
}
