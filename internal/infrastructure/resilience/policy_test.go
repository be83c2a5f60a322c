package resilience

import (
	"testing"
	"time"
)

func TestDefaultConfigSuitsSlowBackends(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.RetryInitialBackoff < 500*time.Millisecond {
		t.Fatalf("initial backoff %v is below the floor for inference-bound calls", cfg.RetryInitialBackoff)
	}
	if cfg.RetryMaxBackoff < cfg.RetryInitialBackoff {
		t.Fatalf("max backoff %v below initial %v", cfg.RetryMaxBackoff, cfg.RetryInitialBackoff)
	}
	if cfg.RetryMaxAttempts < 2 {
		t.Fatalf("attempts = %d, transient failures need at least one retry", cfg.RetryMaxAttempts)
	}
	if !cfg.BreakerEnabled {
		t.Fatalf("breaker must be on by default")
	}
}

func TestNormalizeFillsZeroValues(t *testing.T) {
	got := Config{}.normalize()
	def := DefaultConfig()

	if got.RetryMaxAttempts != def.RetryMaxAttempts {
		t.Fatalf("attempts = %d, want default %d", got.RetryMaxAttempts, def.RetryMaxAttempts)
	}
	if got.RetryInitialBackoff != def.RetryInitialBackoff {
		t.Fatalf("initial backoff = %v, want default %v", got.RetryInitialBackoff, def.RetryInitialBackoff)
	}
	if got.BreakerMinRequests != def.BreakerMinRequests {
		t.Fatalf("min requests = %d, want default %d", got.BreakerMinRequests, def.BreakerMinRequests)
	}
}

func TestNormalizeClampsInvertedBackoffs(t *testing.T) {
	got := Config{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: 2 * time.Second,
		RetryMaxBackoff:     time.Second,
		RetryMultiplier:     2.0,
	}.normalize()

	if got.RetryMaxBackoff != got.RetryInitialBackoff {
		t.Fatalf("max backoff = %v, want clamped to initial %v", got.RetryMaxBackoff, got.RetryInitialBackoff)
	}
}
