package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
	"time"

	hub "github.com/minju-kim98/personal-ai-hub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

var _ net.Error = timeoutError{}

func fast(attempts int) Config {
	return Config{MaxAttempts: attempts, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}
}

func TestConfigDelay(t *testing.T) {
	cfg := Config{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2}
	assert.Equal(t, 100*time.Millisecond, cfg.Delay(0))
	assert.Equal(t, 200*time.Millisecond, cfg.Delay(1))
	assert.Equal(t, 400*time.Millisecond, cfg.Delay(2))
	assert.Equal(t, time.Second, cfg.Delay(10))
	assert.Equal(t, 100*time.Millisecond, cfg.Delay(-1))
}

func TestConfigDelayWithJitter(t *testing.T) {
	cfg := Config{InitialDelay: time.Second, MaxDelay: time.Minute, Multiplier: 2, Jitter: 0.1}
	for range 50 {
		d := cfg.Delay(0)
		assert.GreaterOrEqual(t, d, 900*time.Millisecond)
		assert.LessOrEqual(t, d, 1100*time.Millisecond)
	}
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, 3, DefaultConfig().MaxAttempts)
	assert.Equal(t, 1, Config{}.attempts())
	assert.Equal(t, 5*time.Millisecond, Config{InitialDelay: 5 * time.Millisecond}.Delay(3), "no multiplier keeps the delay constant")
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"rate limited", hub.NewStatusError("feed", 429, 0, nil), true},
		{"server error", hub.NewStatusError("feed", 503, 0, nil), true},
		{"not found", hub.NewStatusError("feed", 404, 0, nil), false},
		{"wrapped transient", fmt.Errorf("fetch: %w", hub.NewStatusError("feed", 502, 0, nil)), true},
		{"timeout", timeoutError{}, true},
		{"connection refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, true},
		{"temporary dns", &net.DNSError{Err: "try again", IsTemporary: true}, true},
		{"no such host", &net.DNSError{Err: "no such host", IsNotFound: true}, false},
		{"cancelled", context.Canceled, false},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fast(3), func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransient(t *testing.T) {
	calls := 0
	var retries []int
	cfg := fast(3)
	cfg.OnRetry = func(attempt int, _ error, _ time.Duration) { retries = append(retries, attempt) }

	got, err := Do(context.Background(), cfg, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, hub.NewStatusError("feed", 503, 0, nil)
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retries)
}

func TestDoStopsOnPermanent(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fast(5), func(context.Context) (int, error) {
		calls++
		return 0, hub.NewStatusError("feed", 403, 0, nil)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoExhausts(t *testing.T) {
	calls := 0
	last := hub.NewStatusError("feed", 500, 0, nil)
	_, err := Do(context.Background(), fast(3), func(context.Context) (int, error) {
		calls++
		return 0, last
	})
	assert.Same(t, last, err)
	assert.Equal(t, 3, calls)
}

func TestDoHonorsContextDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{MaxAttempts: 5, InitialDelay: time.Hour, MaxDelay: time.Hour, Multiplier: 1}
	cfg.OnRetry = func(int, error, time.Duration) { cancel() }

	_, err := Do(ctx, cfg, func(context.Context) (int, error) {
		return 0, timeoutError{}
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEffectiveDelay(t *testing.T) {
	withHint := hub.NewStatusError("feed", 429, 3*time.Second, nil)
	assert.Equal(t, 3*time.Second, effectiveDelay(time.Second, withHint))
	assert.Equal(t, 5*time.Second, effectiveDelay(5*time.Second, withHint))
	assert.Equal(t, time.Second, effectiveDelay(time.Second, errors.New("x")))
}
