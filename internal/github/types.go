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
	"encoding/json"
	"time"
)

// Event is one raw public event as returned by the GitHub events API.
// The payload stays opaque at this layer; the activity mapper interprets it.
// Keeping it as raw JSON avoids decoding fields the pipeline never reads.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Actor     Actor           `json:"actor"`
	Repo      Repo            `json:"repo"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Public    bool            `json:"public"`
	CreatedAt time.Time       `json:"created_at"`
}

// Actor identifies the account that generated an event.
type Actor struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// Repo identifies the repository an event happened in. Name uses the
// "owner/name" form the events API emits.
type Repo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EventPage represents one page of events fetched for a login.
type EventPage struct {
	// Events holds the page contents in the API's order.
	Events []Event

	// Page is the 1-based page number that produced this page.
	Page int

	// HasMore reports whether the page was full, the only upstream signal
	// that another page may exist.
	HasMore bool
}

// FetchOptions configures a single event-page request.
type FetchOptions struct {
	// Page is the 1-based page number to fetch. Values below 1 are
	// treated as 1.
	Page int
}

// Account types as declared by the users endpoint.
const (
	TypeUser         = "User"
	TypeBot          = "Bot"
	TypeOrganization = "Organization"
	TypeUnknown      = "Unknown"
)

// eventsPageSize is the per_page value sent with every events request.
// The API caps public-event history at 300 events, three full pages.
const eventsPageSize = 100
