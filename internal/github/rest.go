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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	rabbiterrors "github.com/rabbithq/rabbit/internal/errors"
	"github.com/rabbithq/rabbit/internal/ratelimit"
)

const (
	defaultBaseURL = "https://api.github.com"

	// defaultTimeout bounds each individual HTTP request.
	defaultTimeout = 30 * time.Second
)

// CallTracker observes every outbound API request. The run-metadata tracker
// implements it; a nil tracker disables accounting.
type CallTracker interface {
	IncrementAPICall()
}

// Options configures a RESTClient.
type Options struct {
	// BaseURL overrides the API endpoint. Defaults to the public API.
	BaseURL string

	// Token authenticates requests. Empty means anonymous traffic, which
	// falls under the much lower unauthenticated quota.
	Token string

	// Timeout bounds each HTTP request. Defaults to 30 seconds.
	Timeout time.Duration

	// NoWait propagates rate-limit errors instead of sleeping until the
	// advertised reset.
	NoWait bool

	// Retry bounds the transient-failure retry loop. The zero value means
	// DefaultRetryConfig.
	Retry RetryConfig

	// Logger receives debug diagnostics. The zero value is silent.
	Logger zerolog.Logger

	// Waiter blocks for rate-limit resets. Built from the real clock when
	// nil; tests inject their own.
	Waiter *ratelimit.Waiter

	// Tracker counts outbound API requests. May be nil.
	Tracker CallTracker
}

// RESTClient talks to the GitHub REST API with rate-limit negotiation and
// bounded retries. It implements Client.
type RESTClient struct {
	httpClient    *http.Client
	baseURL       string
	authenticated bool
	noWait        bool
	retry         RetryConfig
	waiter        *ratelimit.Waiter
	tracker       CallTracker
	log           zerolog.Logger
}

// NewRESTClient creates a client for the GitHub REST API. The underlying
// transport reuses connections across the sequential requests of a run.
func NewRESTClient(opts Options) *RESTClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	retry := opts.Retry
	if retry == (RetryConfig{}) {
		retry = DefaultRetryConfig()
	}

	waiter := opts.Waiter
	if waiter == nil {
		waiter = ratelimit.NewWaiter(opts.Logger)
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &RESTClient{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &authTransport{
				token: opts.Token,
				base:  transport,
			},
		},
		baseURL:       baseURL,
		authenticated: opts.Token != "",
		noWait:        opts.NoWait,
		retry:         retry,
		waiter:        waiter,
		tracker:       opts.Tracker,
		log:           opts.Logger,
	}
}

// QueryUserType resolves the account type declared by the users endpoint,
// returning TypeUnknown when the response carries no type field.
func (c *RESTClient) QueryUserType(ctx context.Context, login string) (string, error) {
	body, err := c.getWithPolicy(ctx, "/users/"+url.PathEscape(login), nil, login)
	if err != nil {
		return "", err
	}

	var user struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return "", fmt.Errorf("decode user %s: %w", login, err)
	}
	if user.Type == "" {
		return TypeUnknown, nil
	}
	return user.Type, nil
}

// FetchEventPage retrieves one page of public events for a login.
func (c *RESTClient) FetchEventPage(ctx context.Context, login string, opts FetchOptions) (*EventPage, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}

	query := url.Values{}
	query.Set("per_page", strconv.Itoa(eventsPageSize))
	query.Set("page", strconv.Itoa(page))

	body, err := c.getWithPolicy(ctx, "/users/"+url.PathEscape(login)+"/events", query, login)
	if err != nil {
		return nil, err
	}

	var events []Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("decode events page %d for %s: %w", page, login, err)
	}

	return &EventPage{
		Events:  events,
		Page:    page,
		HasMore: len(events) == eventsPageSize,
	}, nil
}

// getWithPolicy runs a GET under the retry policy, inside a rate-limit wait
// loop. Order matters: retries only see transient failures, while a
// rate-limit rejection passes straight out to the wait loop so the same
// request is reissued after the quota reset.
func (c *RESTClient) getWithPolicy(ctx context.Context, path string, query url.Values, login string) ([]byte, error) {
	for {
		var body []byte
		err := Do(ctx, c.retry, c.log, func() error {
			b, err := c.get(ctx, path, query, login)
			if err != nil {
				return err
			}
			body = b
			return nil
		})
		if err == nil {
			return body, nil
		}

		var rle *rabbiterrors.RateLimitError
		if errors.As(err, &rle) && rle.ResetKnown && !c.noWait {
			if werr := c.waiter.Wait(ctx, rle.Reset); werr != nil {
				return nil, werr
			}
			continue
		}
		return nil, err
	}
}

// get performs a single request and maps the response through the status
// machine.
func (c *RESTClient) get(ctx context.Context, path string, query url.Values, login string) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	if c.tracker != nil {
		c.tracker.IncrementAPICall()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Transport-level failures (refused connections, DNS, timeouts)
		// are transient from the caller's point of view.
		return nil, &rabbiterrors.RetryableError{Reason: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &rabbiterrors.RetryableError{Reason: err.Error()}
	}

	return c.handleStatus(resp, body, login)
}

// handleStatus translates an HTTP response into a body or a taxonomy error.
func (c *RESTClient) handleStatus(resp *http.Response, body []byte, login string) ([]byte, error) {
	switch resp.StatusCode {
	case http.StatusOK:
		c.log.Debug().
			Str("login", login).
			Str("remaining", resp.Header.Get("X-RateLimit-Remaining")).
			Msg("github api request ok")
		return body, nil

	case http.StatusForbidden, http.StatusTooManyRequests:
		return nil, c.rateLimitError(resp, body)

	case http.StatusNotFound:
		return nil, &rabbiterrors.NotFoundError{Login: login}

	case http.StatusRequestTimeout, http.StatusInternalServerError, http.StatusGatewayTimeout:
		return nil, &rabbiterrors.RetryableError{Reason: responseReason(resp, body)}

	default:
		return nil, &rabbiterrors.APIRequestError{
			StatusCode: resp.StatusCode,
			Reason:     responseReason(resp, body),
		}
	}
}

// rateLimitError classifies a 403/429 response. Headers give a concrete
// reset instant when available. An unauthenticated rejection that names the
// rate limit has exhausted the anonymous quota but offers no reset to wait
// for. Anything else is a secondary rejection worth retrying.
func (c *RESTClient) rateLimitError(resp *http.Response, body []byte) error {
	if reset, ok := ratelimit.FromHeaders(resp.Header, c.waiter.Now()); ok {
		return &rabbiterrors.RateLimitError{Reset: reset, ResetKnown: true}
	}

	reason := responseReason(resp, body)
	if !c.authenticated && mentionsRateLimit(reason) {
		return &rabbiterrors.RateLimitError{}
	}
	return &rabbiterrors.RetryableError{Reason: reason}
}
