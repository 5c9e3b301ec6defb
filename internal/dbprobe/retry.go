/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package dbprobe

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"
)

// RetryConfig defines retry behavior with exponential backoff
type RetryConfig struct {
	// MaxRetries is the number of attempts after the first one
	MaxRetries int
	// InitialInterval is the wait after the first failure
	InitialInterval time.Duration
	// MaxInterval caps the wait between attempts
	MaxInterval time.Duration
	// Multiplier is the factor by which the interval increases each retry
	Multiplier float64
	// RandomizationFactor adds jitter to the interval (0-1)
	RandomizationFactor float64
}

// ConnectionRetryConfig returns the backoff used while an external server
// may still be starting.
// Sequence: immediate -> 2s -> 4s -> 8s
func ConnectionRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:          3,
		InitialInterval:     2 * time.Second,
		MaxInterval:         30 * time.Second,
		Multiplier:          2.0,
		RandomizationFactor: 0.2,
	}
}

// next returns the interval following interval.
func (c RetryConfig) next(interval time.Duration) time.Duration {
	if interval == 0 {
		interval = c.InitialInterval
	} else {
		interval = time.Duration(float64(interval) * c.Multiplier)
	}
	if interval > c.MaxInterval {
		interval = c.MaxInterval
	}
	return interval
}

func (c RetryConfig) jitter(interval time.Duration) time.Duration {
	if c.RandomizationFactor <= 0 {
		return interval
	}
	delta := c.RandomizationFactor * float64(interval)
	return time.Duration(float64(interval) - delta + rand.Float64()*2*delta)
}

// RetryingProber retries probes that fail with a transient error.
type RetryingProber struct {
	prober Prober
	config RetryConfig
}

// WithRetry wraps prober so that transient failures are retried with backoff.
func WithRetry(prober Prober, config RetryConfig) *RetryingProber {
	return &RetryingProber{prober: prober, config: config}
}

// Probe probes target, retrying transient failures until the attempts are
// used up or ctx is done. The last error is returned.
func (r *RetryingProber) Probe(ctx context.Context, target Target) error {
	var interval time.Duration
	var err error
	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if attempt > 0 {
			interval = r.config.next(interval)
			select {
			case <-ctx.Done():
				return err
			case <-time.After(r.config.jitter(interval)):
			}
		}
		err = r.prober.Probe(ctx, target)
		if err == nil || !IsRetryableError(err) {
			return err
		}
	}
	return err
}

// IsRetryableError reports whether err looks like a transient connection
// failure rather than a rejected credential or unknown database.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	transientPatterns := []string{
		"connection refused",
		"connection reset",
		"no such host",
		"i/o timeout",
		"temporary failure",
		"too many connections",
		"the database system is starting up",
		"not currently accepting connections", // PostgreSQL SQLSTATE 55000
		"connection timed out",
		"network is unreachable",
		"no route to host",
		"broken pipe",
		"unexpected eof",
	}

	for _, pattern := range transientPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

var _ Prober = (*RetryingProber)(nil)
