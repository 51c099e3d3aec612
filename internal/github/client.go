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

import "context"

// Client defines the interface for the GitHub API operations the
// classification loop needs. This interface allows for easy mocking in tests.
type Client interface {
	// QueryUserType resolves the declared account type for a login, one of
	// User, Bot, or Organization, with Unknown when the API declares nothing.
	QueryUserType(ctx context.Context, login string) (string, error)

	// FetchEventPage retrieves one page of public events for a login. The
	// caller drives the page number through opts.Page; EventPage.HasMore
	// reports whether a further page may exist upstream.
	FetchEventPage(ctx context.Context, login string, opts FetchOptions) (*EventPage, error)
}
