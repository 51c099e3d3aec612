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

// Package ratelimit interprets GitHub rate-limit response headers and blocks
// until the advertised quota reset.
package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// FromHeaders extracts the quota reset instant advertised by a 403 or 429
// response. Sources in priority order:
//
//  1. Retry-After: seconds to wait, counted from now.
//  2. X-RateLimit-Remaining == 0 with X-RateLimit-Reset: epoch seconds.
//
// The bool reports whether a usable reset was found. Responses that carry
// neither give the caller no instant to wait for.
func FromHeaders(h http.Header, now time.Time) (time.Time, bool) {
	if ra := h.Get("Retry-After"); ra != "" {
		if sec, err := strconv.Atoi(ra); err == nil && sec >= 0 {
			return now.Add(time.Duration(sec) * time.Second), true
		}
	}
	if rem := h.Get("X-RateLimit-Remaining"); rem != "" {
		if n, err := strconv.Atoi(rem); err == nil && n == 0 {
			if rs := h.Get("X-RateLimit-Reset"); rs != "" {
				if sec, err := strconv.ParseInt(rs, 10, 64); err == nil && sec > 0 {
					return time.Unix(sec, 0).UTC(), true
				}
			}
		}
	}
	return time.Time{}, false
}

// Waiter blocks until a quota reset instant. Now and Sleep are injectable so
// tests can run without real delays.
type Waiter struct {
	Log   zerolog.Logger
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewWaiter returns a Waiter backed by the real clock.
func NewWaiter(log zerolog.Logger) *Waiter {
	return &Waiter{Log: log, Now: time.Now, Sleep: sleepContext}
}

// Wait blocks until reset, honoring context cancellation. Instants in the
// past return immediately.
func (w *Waiter) Wait(ctx context.Context, reset time.Time) error {
	d := reset.Sub(w.Now())
	if d <= 0 {
		return nil
	}
	w.Log.Info().
		Time("reset", reset).
		Dur("wait", d).
		Msg("rate limit exceeded, waiting for quota reset")
	return w.Sleep(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
