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
	"encoding/csv"
	"os"
	"strings"
	"testing"
)

// AssertContainsString checks if a string contains a substring
func AssertContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("Expected string to contain %q, got: %s", needle, haystack)
	}
}

// AssertNotContainsString checks if a string does not contain a substring
func AssertNotContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Errorf("Expected string to NOT contain %q, got: %s", needle, haystack)
	}
}

// ReadCSVResults parses a CSV output file, header row included
func ReadCSVResults(t *testing.T, path string) [][]string {
	t.Helper()

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV file: %v", err)
	}
	return records
}

// ReadJSONResults parses a JSON output file into loose records
func ReadJSONResults(t *testing.T, path string) []map[string]interface{} {
	t.Helper()

	var records []map[string]interface{}
	ReadJSON(t, path, &records)
	return records
}

// AssertCSVRow checks the leading cells of one CSV record
func AssertCSVRow(t *testing.T, records [][]string, row int, want ...string) {
	t.Helper()

	if row >= len(records) {
		t.Fatalf("CSV has %d rows, wanted row %d", len(records), row)
	}
	got := records[row]
	if len(got) < len(want) {
		t.Fatalf("Row %d has %d cells, want at least %d: %v", row, len(got), len(want), got)
	}
	for i, cell := range want {
		if got[i] != cell {
			t.Errorf("Row %d cell %d: got %q, want %q", row, i, got[i], cell)
		}
	}
}
