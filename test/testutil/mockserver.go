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
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// GitHubServer is an httptest double for the two REST endpoints the
// classifier touches: the user lookup and the public events listing.
// Users are registered up front with AddUser; everything else returns
// the API's standard 404 body.
type GitHubServer struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[string]*stubUser
	failures []stubFailure
	failFrom int
	failWith stubFailure

	requestCount int32
}

type stubUser struct {
	accountType string
	pages       [][]map[string]interface{}
}

type stubFailure struct {
	status  int
	headers map[string]string
	body    string
}

// NewGitHubServer starts a mock GitHub API with no registered users.
// The server is closed automatically when the test finishes.
func NewGitHubServer(t *testing.T) *GitHubServer {
	t.Helper()

	s := &GitHubServer{users: make(map[string]*stubUser)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// AddUser registers a login with its declared account type and scripted
// event pages. Page N of the events endpoint serves pages[N-1]; pages
// past the script are empty.
func (s *GitHubServer) AddUser(login, accountType string, pages ...[]map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[login] = &stubUser{accountType: accountType, pages: pages}
}

// FailNext queues count failures that are served before any routing,
// one per request in FIFO order. Headers may be nil. An empty body gets
// the standard message envelope for the status.
func (s *GitHubServer) FailNext(count, status int, headers map[string]string, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < count; i++ {
		s.failures = append(s.failures, stubFailure{status: status, headers: headers, body: body})
	}
}

// FailFrom makes every request from the nth one onward fail, counting
// from 1. Earlier requests are served normally, so a multi-contributor
// run can succeed partway and then hit the wall.
func (s *GitHubServer) FailFrom(n, status int, headers map[string]string, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failFrom = n
	s.failWith = stubFailure{status: status, headers: headers, body: body}
}

// RequestCount reports how many requests the server has seen, including
// scripted failures.
func (s *GitHubServer) RequestCount() int {
	return int(atomic.LoadInt32(&s.requestCount))
}

func (s *GitHubServer) handle(w http.ResponseWriter, r *http.Request) {
	seq := int(atomic.AddInt32(&s.requestCount, 1))

	if failure, ok := s.scriptedFailure(seq); ok {
		for k, v := range failure.headers {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(failure.status)
		body := failure.body
		if body == "" {
			body = fmt.Sprintf(`{"message": %q}`, http.StatusText(failure.status))
		}
		fmt.Fprintln(w, body)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 2 || parts[0] != "users" {
		writeNotFound(w)
		return
	}

	s.mu.Lock()
	stub, ok := s.users[parts[1]]
	s.mu.Unlock()
	if !ok {
		writeNotFound(w)
		return
	}

	switch {
	case len(parts) == 2:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"login": parts[1],
			"id":    1,
			"type":  stub.accountType,
		})
	case len(parts) == 3 && parts[2] == "events":
		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			if n, err := strconv.Atoi(p); err == nil && n > 0 {
				page = n
			}
		}
		events := []map[string]interface{}{}
		if page-1 < len(stub.pages) {
			events = stub.pages[page-1]
		}
		writeJSON(w, http.StatusOK, events)
	default:
		writeNotFound(w)
	}
}

func (s *GitHubServer) scriptedFailure(seq int) (stubFailure, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.failures) > 0 {
		failure := s.failures[0]
		s.failures = s.failures[1:]
		return failure, true
	}
	if s.failFrom > 0 && seq >= s.failFrom {
		return s.failWith, true
	}
	return stubFailure{}, false
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-RateLimit-Remaining", "4999")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]interface{}{"message": "Not Found"})
}

// NewErrorServer returns a server that answers every request with the
// given status and headers, for driving the error taxonomy end to end.
func NewErrorServer(t *testing.T, statusCode int, headers map[string]string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		fmt.Fprintf(w, `{"message": %q}`, http.StatusText(statusCode))
	}))
	t.Cleanup(server.Close)
	return server
}

// RateLimitHeaders builds the header set GitHub attaches to a primary
// rate-limit rejection: an exhausted quota plus a concrete reset instant.
func RateLimitHeaders(reset time.Time) map[string]string {
	return map[string]string{
		"X-RateLimit-Remaining": "0",
		"X-RateLimit-Reset":     strconv.FormatInt(reset.Unix(), 10),
	}
}

// RetryAfterHeaders builds the secondary rate-limit form, a bare
// Retry-After delay in seconds.
func RetryAfterHeaders(seconds int) map[string]string {
	return map[string]string{"Retry-After": strconv.Itoa(seconds)}
}
