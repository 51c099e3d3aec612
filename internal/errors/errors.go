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

// Package errors defines the error taxonomy shared by the GitHub client and
// the classification loop. Each condition pairs a typed error carrying data
// with a sentinel so callers can branch with errors.Is and extract details
// with errors.As. The sentinels map to specific exit codes in the CLI for
// proper scripting support.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrNotFound indicates the requested contributor does not exist upstream.
	// The classification loop absorbs it into an Invalid result, so it never
	// reaches the exit code mapping on its own.
	ErrNotFound = errors.New("contributor not found")

	// ErrRateLimit indicates the GitHub API rate limit has been exceeded and
	// waiting was not possible or not allowed.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("github rate limit exceeded")

	// ErrRetryable indicates a transient GitHub API failure. The retry policy
	// attempts it again; once attempts are exhausted it propagates.
	// Maps to exit code 2.
	ErrRetryable = errors.New("transient github api failure")

	// ErrAPIRequest indicates a GitHub API response the client has no
	// handling for.
	// Maps to exit code 3.
	ErrAPIRequest = errors.New("github api request failed")
)

// NotFoundError reports a login the upstream API knows nothing about.
type NotFoundError struct {
	Login string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("contributor not found: %s", e.Login)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// RateLimitError reports quota exhaustion. Reset is the instant the quota
// refreshes; ResetKnown is false when the API gave no usable reset hint, in
// which case waiting is pointless and the error must propagate.
type RateLimitError struct {
	Reset      time.Time
	ResetKnown bool
}

func (e *RateLimitError) Error() string {
	if !e.ResetKnown {
		return "github rate limit exceeded, reset time unknown"
	}
	return fmt.Sprintf("github rate limit exceeded, resets at %s", e.Reset.Format("2006-01-02 15:04:05"))
}

func (e *RateLimitError) Is(target error) bool { return target == ErrRateLimit }

// RetryableError reports a transient failure (HTTP 408, 500, 504 or an
// ambiguous 403/429 without rate-limit evidence).
type RetryableError struct {
	Reason string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("transient github api failure: %s", e.Reason)
}

func (e *RetryableError) Is(target error) bool { return target == ErrRetryable }

// APIRequestError reports a response status outside the handled set.
type APIRequestError struct {
	StatusCode int
	Reason     string
}

func (e *APIRequestError) Error() string {
	return fmt.Sprintf("github api request failed with status %d: %s", e.StatusCode, e.Reason)
}

func (e *APIRequestError) Is(target error) bool { return target == ErrAPIRequest }

// IsAPIError reports whether err belongs to the taxonomy above. The
// classification loop propagates taxonomy errors as-is and wraps everything
// else with Critical.
func IsAPIError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrRateLimit) ||
		errors.Is(err, ErrRetryable) ||
		errors.Is(err, ErrAPIRequest)
}

// Critical wraps an unexpected failure so it is distinguishable from the API
// conditions above. The message prefix is part of the tool's user-facing
// contract.
func Critical(err error) error {
	return fmt.Errorf("A critical error occurred: %w", err)
}
