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

// Package output renders classification results in the supported output
// formats: an aligned terminal table, CSV, and JSON.
//
// All writers share the same shape: results are handed over one at a time
// through Write and the output is finalized by Close. File-backed formats
// replace the target file atomically, so a reader never observes a partially
// written file even when the run is interrupted. With incremental mode
// enabled the file is rewritten after every result instead of once at the
// end, trading write volume for crash safety on long runs.
//
// Example usage:
//
//	w, err := output.New(output.Config{Format: output.FormatCSV, Path: "results.csv"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	for _, result := range results {
//	    if err := w.Write(result); err != nil {
//	        log.Printf("Failed to write result: %v", err)
//	    }
//	}
package output
