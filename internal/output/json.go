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
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rabbithq/rabbit/internal/classify"
)

// jsonWriter renders results as an indented JSON array. Feature vectors are
// included only with verbose enabled, and only for results that carry them.
type jsonWriter struct {
	mu          sync.Mutex
	path        string
	verbose     bool
	incremental bool
	results     []classify.ContributorResult
}

func newJSONWriter(path string, verbose, incremental bool) *jsonWriter {
	return &jsonWriter{
		path:        path,
		verbose:     verbose,
		incremental: incremental,
	}
}

func (w *jsonWriter) Write(result classify.ContributorResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.results = append(w.results, result)
	if w.incremental {
		return w.flush()
	}
	return nil
}

func (w *jsonWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.flush()
}

func (w *jsonWriter) flush() error {
	records := make([]classify.ContributorResult, len(w.results))
	copy(records, w.results)
	if !w.verbose {
		for i := range records {
			records[i].Features = nil
		}
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode json output: %w", err)
	}
	data = append(data, '\n')
	return writeFileAtomic(w.path, data)
}
