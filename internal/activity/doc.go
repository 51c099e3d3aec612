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

// Package activity maps raw GitHub events to the higher-level
// activities that behavioral features are computed from.
//
// The mapping runs in two stages driven by versioned tables. Stage one
// resolves each event, optionally qualified by its payload, to a
// fine-grained action; push events expand to one action per commit.
// Stage two groups actions under named activities and collapses bursts
// that originate from a single event, such as the commits of one push.
//
// Both tables carry dated versions. An event is always resolved
// against the rules that were in force at its creation time, so
// sequences spanning a table revision are mapped segment by segment.
// The built-in tables are embedded in the binary; LoadDir lets
// operators substitute their own.
package activity
