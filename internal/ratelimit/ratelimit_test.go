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

package ratelimit

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestFromHeaders(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		headers   map[string]string
		wantReset time.Time
		wantOK    bool
	}{
		{
			name:      "retry-after in seconds",
			headers:   map[string]string{"Retry-After": "60"},
			wantReset: now.Add(60 * time.Second),
			wantOK:    true,
		},
		{
			name: "remaining zero with epoch reset",
			headers: map[string]string{
				"X-RateLimit-Remaining": "0",
				"X-RateLimit-Reset":     "1717245600", // 2024-06-01T12:40:00Z
			},
			wantReset: time.Unix(1717245600, 0).UTC(),
			wantOK:    true,
		},
		{
			name: "retry-after wins over ratelimit headers",
			headers: map[string]string{
				"Retry-After":           "10",
				"X-RateLimit-Remaining": "0",
				"X-RateLimit-Reset":     "1717245600",
			},
			wantReset: now.Add(10 * time.Second),
			wantOK:    true,
		},
		{
			name: "remaining nonzero gives no reset",
			headers: map[string]string{
				"X-RateLimit-Remaining": "42",
				"X-RateLimit-Reset":     "1717245600",
			},
			wantOK: false,
		},
		{
			name: "remaining zero without reset header",
			headers: map[string]string{
				"X-RateLimit-Remaining": "0",
			},
			wantOK: false,
		},
		{
			name:    "no headers at all",
			headers: nil,
			wantOK:  false,
		},
		{
			name:    "unparseable retry-after ignored",
			headers: map[string]string{"Retry-After": "soon"},
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tt.headers {
				h.Set(k, v)
			}
			reset, ok := FromHeaders(h, now)
			if ok != tt.wantOK {
				t.Fatalf("FromHeaders ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !reset.Equal(tt.wantReset) {
				t.Errorf("reset = %v, want %v", reset, tt.wantReset)
			}
		})
	}
}

func TestWaiterSleepsUntilReset(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	var slept time.Duration
	w := &Waiter{
		Log: zerolog.Nop(),
		Now: func() time.Time { return now },
		Sleep: func(ctx context.Context, d time.Duration) error {
			slept = d
			return nil
		},
	}

	if err := w.Wait(context.Background(), now.Add(90*time.Second)); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if slept != 90*time.Second {
		t.Errorf("slept %v, want 90s", slept)
	}
}

func TestWaiterSkipsPastInstants(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	w := &Waiter{
		Log: zerolog.Nop(),
		Now: func() time.Time { return now },
		Sleep: func(ctx context.Context, d time.Duration) error {
			t.Fatalf("unexpected sleep of %v for a past reset", d)
			return nil
		},
	}

	if err := w.Wait(context.Background(), now.Add(-time.Minute)); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
}

func TestWaiterHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWaiter(zerolog.Nop())
	err := w.Wait(ctx, time.Now().Add(time.Hour))
	if err != context.Canceled {
		t.Errorf("Wait error = %v, want context.Canceled", err)
	}
}
