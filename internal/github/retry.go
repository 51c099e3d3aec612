// Copyright 2025 RabbitHQ, Inc.
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package github

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	rabbiterrors "github.com/rabbithq/rabbit/internal/errors"
)

// RetryConfig configures the retry behavior for API calls
type RetryConfig struct {
	// MaxAttempts is the total number of invocations. Zero or negative
	// means a single invocation with no retry logic at all.
	MaxAttempts int
	// Delay is the wait before the first retry.
	Delay time.Duration
	// Backoff multiplies the delay after every retry.
	Backoff float64
}

// DefaultRetryConfig returns the default retry configuration: three
// attempts, ten seconds before the first retry, doubling after each one.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		Delay:       10 * time.Second,
		Backoff:     2.0,
	}
}

// retrySleep is swapped out by tests that assert on wait durations.
var retrySleep = func(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do invokes op up to cfg.MaxAttempts times. Only errors matching
// rabbiterrors.ErrRetryable are attempted again; anything else propagates
// immediately, including rate-limit errors, which the caller negotiates
// separately. Between attempts Do sleeps the current delay and then grows it
// by the backoff multiplier. After the final attempt the most recent
// retryable error is returned.
func Do(ctx context.Context, cfg RetryConfig, log zerolog.Logger, op func() error) error {
	if cfg.MaxAttempts <= 0 {
		return op()
	}

	delay := cfg.Delay
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if !errors.Is(err, rabbiterrors.ErrRetryable) {
			return err
		}
		lastErr = err

		if attempt == cfg.MaxAttempts {
			break
		}

		log.Info().
			Int("attempt", attempt).
			Int("max_attempts", cfg.MaxAttempts).
			Dur("delay", delay).
			Err(err).
			Msg("transient failure, retrying")

		if serr := retrySleep(ctx, delay); serr != nil {
			return serr
		}
		delay = time.Duration(float64(delay) * cfg.Backoff)
	}

	log.Error().
		Int("attempts", cfg.MaxAttempts).
		Err(lastErr).
		Msg("retries exhausted")
	return lastErr
}
