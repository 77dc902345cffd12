package monitoring

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type flakyTranslator struct {
	healthy atomic.Bool
}

func (f *flakyTranslator) HealthCheck(ctx context.Context) bool {
	return f.healthy.Load()
}

func TestMonitorTranslatorHealth(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	translator := &flakyTranslator{}
	healthy := &atomic.Bool{}
	healthy.Store(true)

	done := make(chan struct{})
	go func() {
		MonitorTranslatorHealthEvery(ctx, translator, healthy, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return !healthy.Load() }, time.Second, 5*time.Millisecond)

	translator.healthy.Store(true)
	assert.Eventually(t, healthy.Load, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
}
