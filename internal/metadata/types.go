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

// Package metadata types define the structures used for recording a
// classification run. These types capture the run parameters and outcome
// statistics for audit and troubleshooting.
package metadata

import (
	"time"
)

// RunMetadata is the complete record of a single classification run. It
// captures what was requested, how the run was configured, and what came
// out, so a run can be reproduced and its API cost accounted for.
type RunMetadata struct {
	RabbitVersion string     `json:"rabbit_version"`
	ModelVersion  string     `json:"model_version"`
	RunID         string     `json:"run_id"`
	Parameters    RunParams  `json:"parameters"`
	Results       RunResults `json:"results"`
}

// RunParams captures the input parameters of a classification run: how many
// contributors were requested and the thresholds that steered the event
// fetching loop.
type RunParams struct {
	Contributors  int     `json:"contributors"`
	MinEvents     int     `json:"min_events"`
	MinConfidence float64 `json:"min_confidence"`
	MaxQueries    int     `json:"max_queries"`
	Incremental   bool    `json:"incremental"`
}

// RunResults contains the outcome statistics of a completed run: how many
// contributors landed in each type, the API calls spent, and the temporal
// bounds of the run.
type RunResults struct {
	Bots          int       `json:"bots"`
	Humans        int       `json:"humans"`
	Organizations int       `json:"organizations"`
	Unknown       int       `json:"unknown"`
	Invalid       int       `json:"invalid"`
	Total         int       `json:"total"`
	APICallCount  int       `json:"api_calls_made"`
	Duration      string    `json:"run_duration"`
	StartedAt     time.Time `json:"started_at"`
	CompletedAt   time.Time `json:"completed_at"`
}
