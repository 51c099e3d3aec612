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
	"encoding/json"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/rabbithq/rabbit/internal/github"
)

// Pipeline turns raw GitHub events into the ordered activity sequence
// the feature extractor consumes. Mapping happens in two stages: events
// become fine-grained actions, then actions become named activities.
type Pipeline struct {
	tables *Tables
	log    zerolog.Logger
}

// NewPipeline returns a pipeline backed by the given mapping tables.
func NewPipeline(tables *Tables, log zerolog.Logger) *Pipeline {
	return &Pipeline{tables: tables, log: log}
}

// payloadProbe picks out the payload fields that discriminate event
// kinds. Everything else in the payload is ignored.
type payloadProbe struct {
	Action  string            `json:"action"`
	RefType string            `json:"ref_type"`
	Commits []json.RawMessage `json:"commits"`
}

// Map converts events into activities, oldest first. Events are
// resolved against the table versions in force at their creation time,
// so a batch spanning a table revision is mapped in per-version
// segments. Events predating every table version are dropped, as are
// event kinds with no action rule and actions with no activity rule.
func (p *Pipeline) Map(events []github.Event) []Activity {
	sorted := make([]github.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	diag := newMapDiagnostics()
	var out []Activity

	for start := 0; start < len(sorted); {
		ev := sorted[start]
		av := p.tables.actionVersionFor(ev.CreatedAt)
		tv := p.tables.activityVersionFor(ev.CreatedAt)

		end := start + 1
		for end < len(sorted) {
			next := sorted[end]
			if p.tables.actionVersionFor(next.CreatedAt) != av ||
				p.tables.activityVersionFor(next.CreatedAt) != tv {
				break
			}
			end++
		}

		if av < 0 || tv < 0 {
			diag.predating += end - start
		} else {
			actions := p.mapActions(sorted[start:end], av, diag)
			out = append(out, p.mapActivities(actions, tv, diag)...)
		}
		start = end
	}

	diag.report(p.log)
	return out
}

// mapActions resolves each event in the segment to zero or more
// actions using the event table version at index av.
func (p *Pipeline) mapActions(events []github.Event, av int, diag *mapDiagnostics) []Action {
	rules := p.tables.actions.Versions[av].Events
	actions := make([]Action, 0, len(events))

	for _, ev := range events {
		var probe payloadProbe
		if len(ev.Payload) > 0 {
			// Malformed payloads degrade to the bare event kind.
			_ = json.Unmarshal(ev.Payload, &probe)
		}

		rule, ok := lookupRule(rules, ev.Type, probe)
		if !ok {
			diag.unknownEvent(ev.Type)
			continue
		}

		n := 1
		if rule.PerCommit && len(probe.Commits) > 0 {
			n = len(probe.Commits)
		}
		for i := 0; i < n; i++ {
			actions = append(actions, Action{
				Kind:      rule.Action,
				EventID:   ev.ID,
				StartDate: ev.CreatedAt,
				Actor:     Actor{Login: ev.Actor.Login},
				Repository: Repository{
					ID:   ev.Repo.ID,
					Name: ev.Repo.Name,
				},
			})
		}
	}
	return actions
}

// lookupRule tries the most specific key first: the event type
// qualified by the payload action or ref type, then the bare type.
func lookupRule(rules map[string]actionRule, eventType string, probe payloadProbe) (actionRule, bool) {
	if probe.Action != "" {
		if rule, ok := rules[eventType+":"+probe.Action]; ok {
			return rule, true
		}
	}
	if probe.RefType != "" {
		if rule, ok := rules[eventType+":"+probe.RefType]; ok {
			return rule, true
		}
	}
	rule, ok := rules[eventType]
	return rule, ok
}

// mapActivities resolves actions to activities using the activity
// table version at index tv. Consecutive actions from the same source
// event collapse into one activity when their rule allows it, keeping
// the first action's timestamp.
func (p *Pipeline) mapActivities(actions []Action, tv int, diag *mapDiagnostics) []Activity {
	version := p.tables.activities.Versions[tv]
	byAction := make(map[string]*activityRule, len(version.Activities))
	for i := range version.Activities {
		rule := &version.Activities[i]
		for _, kind := range rule.Actions {
			if _, ok := byAction[kind]; !ok {
				byAction[kind] = rule
			}
		}
	}

	out := make([]Activity, 0, len(actions))
	var lastRule *activityRule
	lastEventID := ""

	for _, act := range actions {
		rule, ok := byAction[act.Kind]
		if !ok {
			diag.unusedAction(act.Kind)
			lastRule, lastEventID = nil, ""
			continue
		}
		if rule.Collapse && rule == lastRule && act.EventID == lastEventID {
			continue
		}
		out = append(out, Activity{
			Activity:   rule.Activity,
			StartDate:  formatDate(act.StartDate),
			Actor:      act.Actor,
			Repository: act.Repository,
		})
		lastRule, lastEventID = rule, act.EventID
	}
	return out
}

func formatDate(ts time.Time) string {
	return ts.UTC().Format(DateLayout)
}

// mapDiagnostics accumulates everything a Map call drops so it can be
// reported once instead of per event.
type mapDiagnostics struct {
	predating int
	unknown   map[string]int
	unused    map[string]int
}

func newMapDiagnostics() *mapDiagnostics {
	return &mapDiagnostics{
		unknown: make(map[string]int),
		unused:  make(map[string]int),
	}
}

func (d *mapDiagnostics) unknownEvent(kind string) { d.unknown[kind]++ }

func (d *mapDiagnostics) unusedAction(kind string) { d.unused[kind]++ }

func (d *mapDiagnostics) report(log zerolog.Logger) {
	if d.predating > 0 {
		log.Debug().
			Int("count", d.predating).
			Msg("skipping events predating mapping tables")
	}
	if len(d.unknown) > 0 {
		log.Debug().
			Strs("events", sortedKeys(d.unknown)).
			Msg("skipping events with no action mapping")
	}
	if len(d.unused) > 0 {
		log.Debug().
			Strs("actions", sortedKeys(d.unused)).
			Msg("Warning: Unused actions")
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
