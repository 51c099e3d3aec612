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

package activity

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

//go:embed mappings/event_to_action.json mappings/action_to_activity.json
var embeddedMappings embed.FS

const (
	eventTableFile    = "event_to_action.json"
	activityTableFile = "action_to_activity.json"
)

// actionRule names the action an event kind maps to. PerCommit marks
// rules that emit one action per commit carried by the event payload.
type actionRule struct {
	Action    string `json:"action"`
	PerCommit bool   `json:"per_commit,omitempty"`
}

// actionVersion is one dated revision of the event table. Its rules
// apply to events created at or after ValidFrom, until a newer
// revision takes over.
type actionVersion struct {
	ValidFrom time.Time             `json:"valid_from"`
	Events    map[string]actionRule `json:"events"`
}

type actionTable struct {
	Versions []actionVersion `json:"versions"`
}

// activityRule groups one or more action kinds under a single activity
// name. Collapse merges consecutive actions from the same source event
// into one activity.
type activityRule struct {
	Activity string   `json:"activity"`
	Actions  []string `json:"actions"`
	Collapse bool     `json:"collapse,omitempty"`
}

type activityVersion struct {
	ValidFrom  time.Time      `json:"valid_from"`
	Activities []activityRule `json:"activities"`
}

type activityTable struct {
	Versions []activityVersion `json:"versions"`
}

// Tables holds both mapping tables used by the pipeline: event kinds
// to actions, and actions to named activities. Each table is versioned
// by date so that historical events resolve against the rules that
// were in force when they happened.
type Tables struct {
	actions    actionTable
	activities activityTable
}

// LoadEmbedded returns the mapping tables compiled into the binary.
func LoadEmbedded() (*Tables, error) {
	eventData, err := embeddedMappings.ReadFile("mappings/" + eventTableFile)
	if err != nil {
		return nil, fmt.Errorf("reading embedded event table: %w", err)
	}
	activityData, err := embeddedMappings.ReadFile("mappings/" + activityTableFile)
	if err != nil {
		return nil, fmt.Errorf("reading embedded activity table: %w", err)
	}
	return parseTables(eventData, activityData)
}

// LoadDir reads both mapping tables from dir, expecting the same file
// names the embedded copies use. It allows operators to override the
// built-in tables without rebuilding.
func LoadDir(dir string) (*Tables, error) {
	eventData, err := os.ReadFile(filepath.Join(dir, eventTableFile))
	if err != nil {
		return nil, fmt.Errorf("reading event table: %w", err)
	}
	activityData, err := os.ReadFile(filepath.Join(dir, activityTableFile))
	if err != nil {
		return nil, fmt.Errorf("reading activity table: %w", err)
	}
	return parseTables(eventData, activityData)
}

func parseTables(eventData, activityData []byte) (*Tables, error) {
	t := &Tables{}
	if err := json.Unmarshal(eventData, &t.actions); err != nil {
		return nil, fmt.Errorf("parsing event table: %w", err)
	}
	if err := json.Unmarshal(activityData, &t.activities); err != nil {
		return nil, fmt.Errorf("parsing activity table: %w", err)
	}
	if len(t.actions.Versions) == 0 {
		return nil, fmt.Errorf("event table has no versions")
	}
	if len(t.activities.Versions) == 0 {
		return nil, fmt.Errorf("activity table has no versions")
	}
	sort.SliceStable(t.actions.Versions, func(i, j int) bool {
		return t.actions.Versions[i].ValidFrom.Before(t.actions.Versions[j].ValidFrom)
	})
	sort.SliceStable(t.activities.Versions, func(i, j int) bool {
		return t.activities.Versions[i].ValidFrom.Before(t.activities.Versions[j].ValidFrom)
	})
	for i, v := range t.actions.Versions {
		if len(v.Events) == 0 {
			return nil, fmt.Errorf("event table version %d has no rules", i)
		}
	}
	for i, v := range t.activities.Versions {
		if len(v.Activities) == 0 {
			return nil, fmt.Errorf("activity table version %d has no rules", i)
		}
	}
	return t, nil
}

// actionVersionFor returns the index of the newest event table version
// whose ValidFrom is at or before ts, or -1 when ts predates them all.
func (t *Tables) actionVersionFor(ts time.Time) int {
	idx := -1
	for i, v := range t.actions.Versions {
		if !v.ValidFrom.After(ts) {
			idx = i
		}
	}
	return idx
}

// activityVersionFor is the activity table counterpart of
// actionVersionFor.
func (t *Tables) activityVersionFor(ts time.Time) int {
	idx := -1
	for i, v := range t.activities.Versions {
		if !v.ValidFrom.After(ts) {
			idx = i
		}
	}
	return idx
}
