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

// Package github provides a client for the GitHub REST API endpoints the
// classifier depends on: resolving an account's declared type and fetching
// pages of its public events. It handles authentication, pagination,
// rate-limit negotiation, and bounded retries, translating HTTP failures
// into the taxonomy in internal/errors.
//
// The package includes:
//   - A Client interface for account types and event pages
//   - A REST implementation with the full response state machine
//   - A retry helper with geometric backoff for transient failures
//   - Mock client for testing
//
// Basic usage:
//
//	client := github.NewRESTClient(github.Options{Token: "your-github-token"})
//	page, err := client.FetchEventPage(ctx, "octocat", github.FetchOptions{Page: 1})
//	if err != nil {
//	    // Handle error
//	}
//	for _, ev := range page.Events {
//	    // Process event
//	}
//
// Rate-limited requests sleep until the advertised quota reset and resume at
// the same page, unless Options.NoWait is set, in which case the rate-limit
// error propagates to the caller.
package github
