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

package testutil

import (
	"fmt"
	"strconv"
	"time"
)

// EventBase is the reference instant event fixtures hang off. It sits
// well past every mapping table revision so builder output always maps.
var EventBase = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// EventBuilder provides a fluent API for creating test event JSON
type EventBuilder struct {
	id        int64
	kind      string
	login     string
	repo      string
	createdAt time.Time
	payload   map[string]interface{}
}

// NewEventBuilder creates an event builder with defaults. Timestamps
// spread one minute apart by id so a batch arrives already ordered.
func NewEventBuilder(id int64, kind, login string) *EventBuilder {
	return &EventBuilder{
		id:        id,
		kind:      kind,
		login:     login,
		repo:      login + "/project",
		createdAt: EventBase.Add(time.Duration(id) * time.Minute),
	}
}

// WithCreatedAt sets when the event happened
func (b *EventBuilder) WithCreatedAt(t time.Time) *EventBuilder {
	b.createdAt = t
	return b
}

// WithRepo sets the repository the event happened in
func (b *EventBuilder) WithRepo(name string) *EventBuilder {
	b.repo = name
	return b
}

// WithPayload sets the raw event payload
func (b *EventBuilder) WithPayload(payload map[string]interface{}) *EventBuilder {
	b.payload = payload
	return b
}

// WithAction sets the payload action that qualifies the event kind
func (b *EventBuilder) WithAction(action string) *EventBuilder {
	if b.payload == nil {
		b.payload = map[string]interface{}{}
	}
	b.payload["action"] = action
	return b
}

// WithCommits fills the payload with n placeholder commits
func (b *EventBuilder) WithCommits(n int) *EventBuilder {
	commits := make([]map[string]interface{}, n)
	for i := 0; i < n; i++ {
		commits[i] = map[string]interface{}{
			"sha":     fmt.Sprintf("%040d", int(b.id)*100+i),
			"message": fmt.Sprintf("commit %d", i),
		}
	}
	if b.payload == nil {
		b.payload = map[string]interface{}{}
	}
	b.payload["commits"] = commits
	return b
}

// Build creates the event data structure
func (b *EventBuilder) Build() map[string]interface{} {
	event := map[string]interface{}{
		"id":   strconv.FormatInt(b.id, 10),
		"type": b.kind,
		"actor": map[string]interface{}{
			"id":    int64(100),
			"login": b.login,
		},
		"repo": map[string]interface{}{
			"id":   int64(200),
			"name": b.repo,
		},
		"public":     true,
		"created_at": b.createdAt.Format(time.RFC3339),
	}
	if b.payload != nil {
		event["payload"] = b.payload
	}
	return event
}

// EventPage builds a page of n events of one kind, ids ascending from
// startID. Timestamps follow the builder's per-id spread.
func EventPage(login, kind string, n int, startID int64) []map[string]interface{} {
	page := make([]map[string]interface{}, n)
	for i := 0; i < n; i++ {
		page[i] = NewEventBuilder(startID+int64(i), kind, login).Build()
	}
	return page
}

// PushEventPage builds a page of push events, the simplest kind that
// maps to activities without any payload qualifier.
func PushEventPage(login string, n int, startID int64) []map[string]interface{} {
	return EventPage(login, "PushEvent", n, startID)
}
