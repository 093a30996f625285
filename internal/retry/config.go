// Package retry retries transient failures with exponential backoff.
//
// The model gateway never retries; this package serves the news fetcher,
// where a flaky feed server is worth a second try.
package retry

import (
	"math/rand/v2"
	"time"
)

// Config is a backoff policy. The zero value makes exactly one attempt.
type Config struct {
	MaxAttempts  int           // including the first; below 1 means 1
	InitialDelay time.Duration // sleep before the second attempt
	MaxDelay     time.Duration // 0 means uncapped
	Multiplier   float64       // growth per attempt; below 1 means constant
	Jitter       float64       // delay is scaled by a random factor in [1-Jitter, 1+Jitter]

	// OnRetry runs before each sleep with the 1-based number of the attempt
	// that just failed.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultConfig is tuned for feed downloads: three tries, roughly 1s then 2s
// apart.
func DefaultConfig() Config {
	return Config{MaxAttempts: 3, InitialDelay: time.Second, MaxDelay: 10 * time.Second, Multiplier: 2, Jitter: 0.1}
}

// Delay is the sleep after the failed attempt with 0-based index n.
func (c Config) Delay(n int) time.Duration {
	d := float64(c.InitialDelay)
	if c.Multiplier > 1 {
		for range max(n, 0) {
			d *= c.Multiplier
			if c.MaxDelay > 0 && d >= float64(c.MaxDelay) {
				break
			}
		}
	}
	if c.MaxDelay > 0 {
		d = min(d, float64(c.MaxDelay))
	}
	if c.Jitter > 0 {
		d *= 1 + c.Jitter*(2*rand.Float64()-1)
	}
	return time.Duration(d)
}

func (c Config) attempts() int { return max(c.MaxAttempts, 1) }
