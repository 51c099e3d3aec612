package github

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// apiMessage extracts the "message" field GitHub embeds in error bodies.
// Returns the empty string when the body is not such a document.
func apiMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}

// responseReason builds a human-readable diagnostic from a failed response.
// The status text alone is not enough: HTTP/2 has no reason phrases, so the
// upstream explanation ("API rate limit exceeded for ...") only survives in
// the body message.
func responseReason(resp *http.Response, body []byte) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if msg := apiMessage(body); msg != "" {
		if reason == "" {
			return msg
		}
		return reason + ": " + msg
	}
	if reason == "" {
		return http.StatusText(resp.StatusCode)
	}
	return reason
}

// mentionsRateLimit reports whether a 403/429 diagnostic names the primary
// rate limit. Unauthenticated rejections trip this without carrying the
// usual quota headers.
func mentionsRateLimit(reason string) bool {
	return strings.Contains(strings.ToLower(reason), "rate limit")
}
