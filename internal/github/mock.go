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
	"fmt"
	"time"

	rabbiterrors "github.com/rabbithq/rabbit/internal/errors"
)

// MockClient is a mock implementation of the Client interface for testing.
type MockClient struct {
	// UserTypes maps login to the account type returned by QueryUserType.
	// Logins absent from the map resolve to TypeUser.
	UserTypes map[string]string

	// EventPages maps login to successive pages of events. Pages past the
	// configured set come back empty.
	EventPages map[string][][]Event

	// NotFoundLogins fail both operations with a NotFoundError.
	NotFoundLogins map[string]bool

	// UserTypeErr, when set, is returned by every QueryUserType call.
	UserTypeErr error

	// EventsErr, when set, fails FetchEventPage. If FailOnPage is nonzero
	// only that page fails; earlier pages succeed.
	EventsErr  error
	FailOnPage int

	// Track calls for verification
	UserTypeCalls  int
	EventPageCalls int
	PagesRequested []int
	LastLogin      string
}

// NewMockClient creates a mock client with the given options.
func NewMockClient(opts ...MockClientOption) *MockClient {
	m := &MockClient{
		UserTypes:      make(map[string]string),
		EventPages:     make(map[string][][]Event),
		NotFoundLogins: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// QueryUserType implements the Client interface
func (m *MockClient) QueryUserType(ctx context.Context, login string) (string, error) {
	m.UserTypeCalls++
	m.LastLogin = login

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if m.NotFoundLogins[login] {
		return "", &rabbiterrors.NotFoundError{Login: login}
	}
	if m.UserTypeErr != nil {
		return "", m.UserTypeErr
	}
	if t, ok := m.UserTypes[login]; ok {
		return t, nil
	}
	return TypeUser, nil
}

// FetchEventPage implements the Client interface
func (m *MockClient) FetchEventPage(ctx context.Context, login string, opts FetchOptions) (*EventPage, error) {
	m.EventPageCalls++
	m.PagesRequested = append(m.PagesRequested, opts.Page)
	m.LastLogin = login

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.NotFoundLogins[login] {
		return nil, &rabbiterrors.NotFoundError{Login: login}
	}
	if m.EventsErr != nil && (m.FailOnPage == 0 || m.FailOnPage == opts.Page) {
		return nil, m.EventsErr
	}

	pages := m.EventPages[login]
	if opts.Page < 1 || opts.Page > len(pages) {
		return &EventPage{Page: opts.Page}, nil
	}

	events := pages[opts.Page-1]
	return &EventPage{
		Events:  events,
		Page:    opts.Page,
		HasMore: len(events) == eventsPageSize,
	}, nil
}

// GenerateEvents creates n synthetic events of the given type for testing,
// spaced evenly starting at start. Repository and actor stay fixed so the
// output is deterministic.
func GenerateEvents(n int, eventType, login string, start time.Time, spacing time.Duration) []Event {
	events := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, Event{
			ID:        fmt.Sprintf("%d", 10000000000+i),
			Type:      eventType,
			Actor:     Actor{ID: 1, Login: login},
			Repo:      Repo{ID: 501, Name: login + "/project"},
			Public:    true,
			CreatedAt: start.Add(time.Duration(i) * spacing),
		})
	}
	return events
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithUserType sets the account type returned for a login.
func WithUserType(login, userType string) MockClientOption {
	return func(m *MockClient) {
		m.UserTypes[login] = userType
	}
}

// WithEventPages sets successive event pages returned for a login.
func WithEventPages(login string, pages ...[]Event) MockClientOption {
	return func(m *MockClient) {
		m.EventPages[login] = pages
	}
}

// WithNotFound marks a login unknown upstream.
func WithNotFound(login string) MockClientOption {
	return func(m *MockClient) {
		m.NotFoundLogins[login] = true
	}
}

// WithEventsError makes event-page calls return a specific error.
func WithEventsError(err error) MockClientOption {
	return func(m *MockClient) {
		m.EventsErr = err
	}
}

// WithUserTypeError makes QueryUserType return a specific error.
func WithUserTypeError(err error) MockClientOption {
	return func(m *MockClient) {
		m.UserTypeErr = err
	}
}
