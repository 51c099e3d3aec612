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
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rabbithq/rabbit/internal/classify"
	"github.com/rabbithq/rabbit/internal/features"
)

// Compile-time checks that every writer implements Writer.
var (
	_ Writer = (*termWriter)(nil)
	_ Writer = (*csvWriter)(nil)
	_ Writer = (*jsonWriter)(nil)
)

func TestFormatSet(t *testing.T) {
	tests := []struct {
		value   string
		want    Format
		wantErr bool
	}{
		{value: "term", want: FormatTerm},
		{value: "csv", want: FormatCSV},
		{value: "json", want: FormatJSON},
		{value: "xml", wantErr: true},
		{value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			var f Format
			err := f.Set(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Set(%q) expected error, got nil", tt.value)
				}
				if !strings.Contains(err.Error(), "must be one of") {
					t.Errorf("Set(%q) error = %v, want mention of valid formats", tt.value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set(%q) error = %v", tt.value, err)
			}
			if f != tt.want {
				t.Errorf("Set(%q) = %q, want %q", tt.value, f, tt.want)
			}
			if f.String() != tt.value {
				t.Errorf("String() = %q, want %q", f.String(), tt.value)
			}
		})
	}

	var f Format
	if f.Type() != "format" {
		t.Errorf("Type() = %q, want %q", f.Type(), "format")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "csv without path",
			cfg:     Config{Format: FormatCSV},
			wantErr: "requires a file path",
		},
		{
			name:    "json without path",
			cfg:     Config{Format: FormatJSON},
			wantErr: "requires a file path",
		},
		{
			name:    "unknown format",
			cfg:     Config{Format: Format("yaml"), Path: "out.yaml"},
			wantErr: "unknown output format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if err == nil {
				t.Fatalf("New(%+v) expected error, got nil", tt.cfg)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewTermWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.txt")
	w, err := New(Config{Format: FormatTerm, Path: path, Incremental: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := w.Write(testResult("octocat", classify.TypeHuman, classify.NewConfidence(0.914))); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if got, want := string(data), "octocat,Human,0.914\n"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	w := newCSVWriter(path, false, false)

	if err := w.Write(testResult("octocat", classify.TypeHuman, classify.NewConfidence(0.914))); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Write(testResult("ghost", classify.TypeInvalid, classify.NoConfidence())); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	// Non-incremental mode only writes the file at Close.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no file before Close, stat err = %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	want := "contributor,type,confidence\noctocat,Human,0.914\nghost,Invalid,-\n"
	if got := string(data); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestCSVWriterVerbose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	w := newCSVWriter(path, true, false)

	row := &features.Row{Login: "octocat"}
	row.Values[0] = 4
	row.Values[1] = 2
	row.Values[2] = 2
	row.Values[3] = 1
	row.Values[4] = 8.167

	classified := testResult("octocat", classify.TypeBot, classify.NewConfidence(0.882))
	classified.Features = row
	if err := w.Write(classified); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Write(testResult("ghost", classify.TypeInvalid, classify.NoConfidence())); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("parsing csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header and 2 records, got %d rows", len(records))
	}

	header := records[0]
	if len(header) != 3+features.Count {
		t.Fatalf("header has %d columns, want %d", len(header), 3+features.Count)
	}
	if header[3] != "NA" || header[4] != "NT" || header[len(header)-1] != "NAT_IQR" {
		t.Errorf("unexpected feature header columns: %v", header[3:])
	}

	got := records[1]
	if got[0] != "octocat" || got[1] != "Bot" || got[2] != "0.882" {
		t.Errorf("unexpected classified record prefix: %v", got[:3])
	}
	if got[3] != "4" || got[4] != "2" || got[7] != "8.167" {
		t.Errorf("unexpected feature cells: NA=%q NT=%q DCA_mean=%q", got[3], got[4], got[7])
	}

	// Results that never reached the classifier leave the feature cells empty.
	invalid := records[2]
	if len(invalid) != 3+features.Count {
		t.Fatalf("invalid record has %d columns, want %d", len(invalid), 3+features.Count)
	}
	for i, cell := range invalid[3:] {
		if cell != "" {
			t.Fatalf("feature cell %d = %q, want empty", i, cell)
		}
	}
}

func TestCSVWriterIncremental(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	w := newCSVWriter(path, false, true)

	if err := w.Write(testResult("octocat", classify.TypeHuman, classify.NewConfidence(0.914))); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	// The file is complete after every write, not just at Close.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output after first write: %v", err)
	}
	if got, want := string(data), "contributor,type,confidence\noctocat,Human,0.914\n"; got != want {
		t.Errorf("file after first write = %q, want %q", got, want)
	}

	if err := w.Write(testResult("hubot", classify.TypeBot, classify.NewConfidence(1))); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	want := "contributor,type,confidence\noctocat,Human,0.914\nhubot,Bot,1\n"
	if got := string(data); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind, stat err = %v", err)
	}
}

func TestJSONWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	w := newJSONWriter(path, false, false)

	classified := testResult("octocat", classify.TypeHuman, classify.NewConfidence(0.914))
	classified.Features = &features.Row{Login: "octocat"}
	if err := w.Write(classified); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Write(testResult("ghost", classify.TypeInvalid, classify.NoConfidence())); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}

	// Without verbose the feature vector is stripped even when present.
	want := `[
    {
        "contributor": "octocat",
        "type": "Human",
        "confidence": 0.914
    },
    {
        "contributor": "ghost",
        "type": "Invalid",
        "confidence": "-"
    }
]
`
	if got := string(data); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestJSONWriterVerbose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	w := newJSONWriter(path, true, false)

	row := &features.Row{Login: "octocat"}
	row.Values[0] = 4
	classified := testResult("octocat", classify.TypeBot, classify.NewConfidence(0.882))
	classified.Features = row
	if err := w.Write(classified); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("parsing json: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	feats, ok := records[0]["features"].(map[string]any)
	if !ok {
		t.Fatalf("expected features object, got %T", records[0]["features"])
	}
	if got := feats["NA"]; got != float64(4) {
		t.Errorf("features.NA = %v, want 4", got)
	}
	if len(feats) != features.Count {
		t.Errorf("features object has %d keys, want %d", len(feats), features.Count)
	}
}

func TestJSONWriterIncremental(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	w := newJSONWriter(path, false, true)

	readRecords := func() []classify.ContributorResult {
		t.Helper()
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading output: %v", err)
		}
		var records []classify.ContributorResult
		if err := json.Unmarshal(data, &records); err != nil {
			t.Fatalf("parsing json: %v", err)
		}
		return records
	}

	if err := w.Write(testResult("octocat", classify.TypeHuman, classify.NewConfidence(0.914))); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got := readRecords(); len(got) != 1 || got[0].Contributor != "octocat" {
		t.Fatalf("after first write got %+v, want single octocat record", got)
	}

	if err := w.Write(testResult("hubot", classify.TypeBot, classify.NewConfidence(1))); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got := readRecords(); len(got) != 2 || got[1].Contributor != "hubot" {
		t.Fatalf("after second write got %+v, want two records", got)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got := readRecords(); len(got) != 2 {
		t.Errorf("after Close got %d records, want 2", len(got))
	}
}

func TestJSONWriterEmptyRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	w := newJSONWriter(path, false, false)

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if got, want := string(data), "[]\n"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "out.txt")

	if err := writeFileAtomic(path, []byte("first")); err != nil {
		t.Fatalf("writeFileAtomic() error = %v", err)
	}
	if err := writeFileAtomic(path, []byte("second")); err != nil {
		t.Fatalf("writeFileAtomic() overwrite error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if got := string(data); got != "second" {
		t.Errorf("file = %q, want %q", got, "second")
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind, stat err = %v", err)
	}
}
