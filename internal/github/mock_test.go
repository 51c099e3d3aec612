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
	"testing"
	"time"

	rabbiterrors "github.com/rabbithq/rabbit/internal/errors"
)

func TestMockClientUserTypes(t *testing.T) {
	mock := NewMockClient(
		WithUserType("corp", TypeOrganization),
		WithUserType("dep-bot", TypeBot),
	)

	tests := []struct {
		login string
		want  string
	}{
		{"corp", TypeOrganization},
		{"dep-bot", TypeBot},
		{"unconfigured", TypeUser},
	}

	for _, tt := range tests {
		got, err := mock.QueryUserType(context.Background(), tt.login)
		if err != nil {
			t.Fatalf("QueryUserType(%s): %v", tt.login, err)
		}
		if got != tt.want {
			t.Errorf("QueryUserType(%s) = %q, want %q", tt.login, got, tt.want)
		}
	}
	if mock.UserTypeCalls != 3 {
		t.Errorf("UserTypeCalls = %d, want 3", mock.UserTypeCalls)
	}
}

func TestMockClientEventPages(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	mock := NewMockClient(
		WithEventPages("octocat",
			GenerateEvents(100, "PushEvent", "octocat", start, time.Minute),
			GenerateEvents(30, "IssuesEvent", "octocat", start.Add(200*time.Minute), time.Minute),
		),
	)

	page1, err := mock.FetchEventPage(context.Background(), "octocat", FetchOptions{Page: 1})
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if len(page1.Events) != 100 || !page1.HasMore {
		t.Errorf("page 1 = %d events HasMore=%v, want 100/true", len(page1.Events), page1.HasMore)
	}

	page2, err := mock.FetchEventPage(context.Background(), "octocat", FetchOptions{Page: 2})
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(page2.Events) != 30 || page2.HasMore {
		t.Errorf("page 2 = %d events HasMore=%v, want 30/false", len(page2.Events), page2.HasMore)
	}

	page3, err := mock.FetchEventPage(context.Background(), "octocat", FetchOptions{Page: 3})
	if err != nil {
		t.Fatalf("page 3: %v", err)
	}
	if len(page3.Events) != 0 {
		t.Errorf("page 3 = %d events, want 0 past the configured set", len(page3.Events))
	}

	wantPages := []int{1, 2, 3}
	if len(mock.PagesRequested) != len(wantPages) {
		t.Fatalf("PagesRequested = %v, want %v", mock.PagesRequested, wantPages)
	}
	for i, p := range wantPages {
		if mock.PagesRequested[i] != p {
			t.Errorf("PagesRequested[%d] = %d, want %d", i, mock.PagesRequested[i], p)
		}
	}
}

func TestMockClientNotFound(t *testing.T) {
	mock := NewMockClient(WithNotFound("ghost"))

	_, err := mock.QueryUserType(context.Background(), "ghost")
	if !errors.Is(err, rabbiterrors.ErrNotFound) {
		t.Errorf("QueryUserType error = %v, want not found", err)
	}

	_, err = mock.FetchEventPage(context.Background(), "ghost", FetchOptions{Page: 1})
	if !errors.Is(err, rabbiterrors.ErrNotFound) {
		t.Errorf("FetchEventPage error = %v, want not found", err)
	}
}

func TestMockClientArmedErrors(t *testing.T) {
	armed := &rabbiterrors.RateLimitError{}
	mock := NewMockClient(
		WithEventPages("octocat", GenerateEvents(10, "PushEvent", "octocat", time.Now(), time.Minute)),
		WithEventsError(armed),
	)
	mock.FailOnPage = 2

	if _, err := mock.FetchEventPage(context.Background(), "octocat", FetchOptions{Page: 1}); err != nil {
		t.Fatalf("page 1 should succeed before the armed page: %v", err)
	}
	_, err := mock.FetchEventPage(context.Background(), "octocat", FetchOptions{Page: 2})
	if !errors.Is(err, rabbiterrors.ErrRateLimit) {
		t.Errorf("page 2 error = %v, want the armed rate limit", err)
	}
}

func TestMockClientContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := NewMockClient()
	if _, err := mock.QueryUserType(ctx, "octocat"); err != context.Canceled {
		t.Errorf("QueryUserType error = %v, want context.Canceled", err)
	}
	if _, err := mock.FetchEventPage(ctx, "octocat", FetchOptions{Page: 1}); err != context.Canceled {
		t.Errorf("FetchEventPage error = %v, want context.Canceled", err)
	}
}

func TestGenerateEventsDeterminism(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	events := GenerateEvents(3, "PushEvent", "octocat", start, time.Hour)

	if len(events) != 3 {
		t.Fatalf("len = %d, want 3", len(events))
	}
	if events[0].CreatedAt != start || events[2].CreatedAt != start.Add(2*time.Hour) {
		t.Errorf("timestamps not evenly spaced: %v, %v", events[0].CreatedAt, events[2].CreatedAt)
	}
	if events[1].Actor.Login != "octocat" || events[1].Repo.Name != "octocat/project" {
		t.Errorf("actor/repo = %q/%q, want octocat/octocat/project", events[1].Actor.Login, events[1].Repo.Name)
	}
}
