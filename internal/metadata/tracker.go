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

// Package metadata provides functionality for tracking and persisting
// metadata about classification runs. It records how many contributors
// landed in each type, the number of GitHub API calls spent, and the run
// parameters, so that runs can be audited and reproduced.
//
// Metadata is saved as a JSON report file next to the classification
// output, allowing external tools to analyze run history and API cost.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rabbithq/rabbit/internal/classify"
)

// ModelVersion identifies the classification model a report was produced
// with.
const ModelVersion = "bimbas-v1"

// Tracker collects statistics during a classification run and generates the
// run report. Create one tracker at the start of a run, feed it every
// emitted result and API call, and call Generate at the end.
//
// Tracker is safe for concurrent use: the GitHub client reports API calls
// from whatever goroutine performs the request.
type Tracker struct {
	mu        sync.Mutex
	startTime time.Time
	apiCalls  int
	counts    typeCounts
}

// typeCounts tallies results per contributor type.
type typeCounts struct {
	bots          int
	humans        int
	organizations int
	unknown       int
	invalid       int
	total         int
}

// New creates a tracker and stamps it with the current time. Call this at
// the beginning of a run.
func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
	}
}

// IncrementAPICall records one outbound GitHub API request. The GitHub
// client calls this once per HTTP request, including retried attempts.
func (t *Tracker) IncrementAPICall() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.apiCalls++
}

// RecordResult tallies one emitted classification result.
func (t *Tracker) RecordResult(result classify.ContributorResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.counts.total++
	switch result.UserType {
	case classify.TypeBot:
		t.counts.bots++
	case classify.TypeHuman:
		t.counts.humans++
	case classify.TypeOrganization:
		t.counts.organizations++
	case classify.TypeInvalid:
		t.counts.invalid++
	default:
		t.counts.unknown++
	}
}

// Generate creates the RunMetadata record for a completed run. The version
// argument is the rabbit build version; params echoes the run configuration.
func (t *Tracker) Generate(version string, params RunParams) *RunMetadata {
	t.mu.Lock()
	defer t.mu.Unlock()

	completedAt := time.Now()
	duration := completedAt.Sub(t.startTime)

	return &RunMetadata{
		RabbitVersion: version,
		ModelVersion:  ModelVersion,
		RunID:         uuid.NewString(),
		Parameters:    params,
		Results: RunResults{
			Bots:          t.counts.bots,
			Humans:        t.counts.humans,
			Organizations: t.counts.organizations,
			Unknown:       t.counts.unknown,
			Invalid:       t.counts.invalid,
			Total:         t.counts.total,
			APICallCount:  t.apiCalls,
			Duration:      duration.String(),
			StartedAt:     t.startTime,
			CompletedAt:   completedAt,
		},
	}
}

// SaveReport persists a run report to the given path as indented JSON. The
// file is written through a temporary file and rename to prevent corruption.
func SaveReport(metadata *RunMetadata, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	// Write to temporary file first for atomicity
	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if err := WriteReport(metadata, file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to write report: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to close report file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to save report file: %w", err)
	}

	return nil
}

// WriteReport serializes a run report to the provided io.Writer with
// indentation for readability. Useful for emitting the report to stdout
// instead of a file.
func WriteReport(metadata *RunMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}
