package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	rabbiterrors "github.com/rabbithq/rabbit/internal/errors"
)

func TestMapErrorToExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: exitOK},
		{name: "usage", err: &usageError{err: errors.New("no contributors")}, want: exitUsage},
		{
			name: "wrapped usage",
			err:  fmt.Errorf("running classify: %w", &usageError{err: errors.New("bad flag")}),
			want: exitUsage,
		},
		{name: "rate limit", err: &rabbiterrors.RateLimitError{}, want: exitExhausted},
		{name: "retries exhausted", err: &rabbiterrors.RetryableError{Reason: "connection reset"}, want: exitExhausted},
		{name: "api request", err: &rabbiterrors.APIRequestError{StatusCode: 502, Reason: "bad gateway"}, want: exitUnexpected},
		{name: "critical", err: rabbiterrors.Critical(errors.New("tensor shape mismatch")), want: exitUnexpected},
		{name: "canceled", err: context.Canceled, want: exitUnexpected},
		{name: "plain", err: errors.New("something else"), want: exitUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapErrorToExitCode(tt.err); got != tt.want {
				t.Errorf("mapErrorToExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestCollectLogins(t *testing.T) {
	writeInput := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "logins.txt")
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("writing input file: %v", err)
		}
		return path
	}

	t.Run("positional only", func(t *testing.T) {
		got, err := collectLogins([]string{"octocat", "hubot"}, "")
		if err != nil {
			t.Fatalf("collectLogins() error = %v", err)
		}
		if want := []string{"octocat", "hubot"}; !reflect.DeepEqual(got, want) {
			t.Errorf("collectLogins() = %v, want %v", got, want)
		}
	})

	t.Run("file with blanks", func(t *testing.T) {
		path := writeInput(t, "alice\n\n  bob  \n\nclara\n")
		got, err := collectLogins(nil, path)
		if err != nil {
			t.Fatalf("collectLogins() error = %v", err)
		}
		if want := []string{"alice", "bob", "clara"}; !reflect.DeepEqual(got, want) {
			t.Errorf("collectLogins() = %v, want %v", got, want)
		}
	})

	t.Run("arguments precede file entries", func(t *testing.T) {
		path := writeInput(t, "from-file\n")
		got, err := collectLogins([]string{"from-args"}, path)
		if err != nil {
			t.Fatalf("collectLogins() error = %v", err)
		}
		if want := []string{"from-args", "from-file"}; !reflect.DeepEqual(got, want) {
			t.Errorf("collectLogins() = %v, want %v", got, want)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := collectLogins(nil, filepath.Join(t.TempDir(), "absent.txt"))
		if err == nil || !strings.Contains(err.Error(), "failed to read input file") {
			t.Errorf("collectLogins() error = %v, want read failure", err)
		}
	})
}

func TestWarnAPIKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "empty", key: "", want: "no API key provided"},
		{name: "short", key: "ghp_short", want: "too short"},
		{name: "plausible", key: strings.Repeat("a", 40), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			warnAPIKey(&buf, tt.key)
			if tt.want == "" {
				if buf.Len() != 0 {
					t.Errorf("expected no warning, got %q", buf.String())
				}
				return
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("warning = %q, want substring %q", buf.String(), tt.want)
			}
		})
	}
}

func TestClassifyCommandFlagDefaults(t *testing.T) {
	configFile := ""
	cmd := newClassifyCommand(&configFile)

	tests := []struct {
		flag      string
		shorthand string
		defValue  string
	}{
		{flag: "input-file", shorthand: "i", defValue: ""},
		{flag: "key", shorthand: "k", defValue: ""},
		{flag: "min-events", defValue: "5"},
		{flag: "min-confidence", defValue: "1"},
		{flag: "max-queries", defValue: "3"},
		{flag: "no-wait", defValue: "false"},
		{flag: "output", shorthand: "o", defValue: ""},
		{flag: "format", shorthand: "f", defValue: "term"},
		{flag: "incremental", defValue: "false"},
		{flag: "report", defValue: ""},
		{flag: "verbose", shorthand: "v", defValue: "false"},
	}

	for _, tt := range tests {
		f := cmd.Flags().Lookup(tt.flag)
		if f == nil {
			t.Errorf("flag --%s not registered", tt.flag)
			continue
		}
		if f.Shorthand != tt.shorthand {
			t.Errorf("flag --%s shorthand = %q, want %q", tt.flag, f.Shorthand, tt.shorthand)
		}
		if f.DefValue != tt.defValue {
			t.Errorf("flag --%s default = %q, want %q", tt.flag, f.DefValue, tt.defValue)
		}
	}
}
