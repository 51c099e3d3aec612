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

// Package main implements the rabbit command-line interface. The tool
// classifies GitHub contributors as bots or humans from their public
// event timelines, using a pretrained behavioral model.
//
// The CLI supports:
//   - Classifying logins given as arguments, from a file, or both
//   - Terminal, CSV and JSON output with optional feature columns
//   - Incremental output that survives interrupted runs
//   - GitHub API key authentication via flag or environment variable
//   - Graceful error handling with appropriate exit codes
//
// Usage:
//
//	rabbit classify [login ...] [flags]
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	rabbit classify torvalds dependabot[bot] --format csv --output results.csv
//
// Exit codes:
//   - 0: Success
//   - 1: Invalid arguments
//   - 2: Rate limit or network exhaustion
//   - 3: Unexpected error
package main
