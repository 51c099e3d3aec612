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

package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sync"

	"github.com/rabbithq/rabbit/internal/classify"
	"github.com/rabbithq/rabbit/internal/features"
)

// csvWriter renders results as CSV with a header line. With verbose enabled
// the feature columns follow the confidence column; results that never
// reached the classifier leave those cells empty.
type csvWriter struct {
	mu          sync.Mutex
	path        string
	verbose     bool
	incremental bool
	results     []classify.ContributorResult
}

func newCSVWriter(path string, verbose, incremental bool) *csvWriter {
	return &csvWriter{
		path:        path,
		verbose:     verbose,
		incremental: incremental,
	}
}

func (w *csvWriter) Write(result classify.ContributorResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.results = append(w.results, result)
	if w.incremental {
		return w.flush()
	}
	return nil
}

func (w *csvWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.flush()
}

func (w *csvWriter) flush() error {
	var buf bytes.Buffer
	enc := csv.NewWriter(&buf)

	header := []string{"contributor", "type", "confidence"}
	if w.verbose {
		header = append(header, features.Names()...)
	}
	if err := enc.Write(header); err != nil {
		return fmt.Errorf("failed to encode csv header: %w", err)
	}

	for _, result := range w.results {
		record := []string{result.Contributor, result.UserType, result.Confidence.String()}
		if w.verbose {
			if result.Features != nil {
				record = append(record, result.Features.Fields()...)
			} else {
				record = append(record, make([]string, features.Count)...)
			}
		}
		if err := enc.Write(record); err != nil {
			return fmt.Errorf("failed to encode csv record: %w", err)
		}
	}

	enc.Flush()
	if err := enc.Error(); err != nil {
		return fmt.Errorf("failed to encode csv output: %w", err)
	}
	return writeFileAtomic(w.path, buf.Bytes())
}
