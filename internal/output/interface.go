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
	"fmt"
	"os"

	"github.com/rabbithq/rabbit/internal/classify"
)

// Writer renders classification results.
//
// Results arrive one at a time through Write, in the order they were
// classified. Close finalizes the output and releases any underlying file;
// it must be called exactly once after the last Write.
//
// Implementations are safe for concurrent use.
type Writer interface {
	// Write renders a single classification result.
	Write(result classify.ContributorResult) error

	// Close finalizes the output and releases any underlying resources.
	Close() error
}

// Format selects an output encoding.
type Format string

const (
	// FormatTerm renders an aligned table for terminals.
	FormatTerm Format = "term"
	// FormatCSV renders comma-separated rows with a header line.
	FormatCSV Format = "csv"
	// FormatJSON renders an indented JSON array.
	FormatJSON Format = "json"
)

// String implements flag.Value.
func (f *Format) String() string {
	return string(*f)
}

// Set implements flag.Value, rejecting unknown format names.
func (f *Format) Set(value string) error {
	switch Format(value) {
	case FormatTerm, FormatCSV, FormatJSON:
		*f = Format(value)
		return nil
	default:
		return fmt.Errorf("must be one of %q, %q, %q", FormatTerm, FormatCSV, FormatJSON)
	}
}

// Type implements pflag.Value.
func (f *Format) Type() string {
	return "format"
}

// Config describes where and how results are written.
type Config struct {
	// Format selects the encoding. An empty value means FormatTerm.
	Format Format
	// Path is the output file. It may be empty only for FormatTerm,
	// which then writes to stdout.
	Path string
	// Verbose adds the feature columns to CSV and JSON output.
	Verbose bool
	// Incremental rewrites the output after every result instead of
	// once at Close. For the terminal format it switches from a final
	// table to one plain line per result.
	Incremental bool
}

// New returns the writer for cfg.
func New(cfg Config) (Writer, error) {
	switch cfg.Format {
	case FormatTerm, "":
		if cfg.Path == "" {
			return newTermWriter(os.Stdout, nil, cfg.Incremental), nil
		}
		file, err := os.Create(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file: %w", err)
		}
		return newTermWriter(file, file.Close, cfg.Incremental), nil
	case FormatCSV:
		if cfg.Path == "" {
			return nil, fmt.Errorf("csv output requires a file path")
		}
		return newCSVWriter(cfg.Path, cfg.Verbose, cfg.Incremental), nil
	case FormatJSON:
		if cfg.Path == "" {
			return nil, fmt.Errorf("json output requires a file path")
		}
		return newJSONWriter(cfg.Path, cfg.Verbose, cfg.Incremental), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", cfg.Format)
	}
}
