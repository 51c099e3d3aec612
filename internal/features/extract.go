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

package features

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rabbithq/rabbit/internal/activity"
)

// tableRow is one activity flattened for feature computation.
type tableRow struct {
	date  time.Time
	kind  string
	repo  int64
	owner string
}

// Extract computes the behavioral feature row for login from its
// activity sequence. The sequence must be non-empty and belong to a
// single contributor; durations are measured in fractional hours.
func Extract(login string, activities []activity.Activity) (*Row, error) {
	if len(activities) == 0 {
		return nil, fmt.Errorf("no activities to extract features for %s", login)
	}

	rows := make([]tableRow, len(activities))
	var contributors []string
	for i, a := range activities {
		ts, err := time.Parse(activity.DateLayout, a.StartDate)
		if err != nil {
			return nil, fmt.Errorf("parsing activity date %q: %w", a.StartDate, err)
		}
		rows[i] = tableRow{
			date:  ts,
			kind:  a.Activity,
			repo:  a.Repository.ID,
			owner: ownerOf(a.Repository.Name),
		}
		if !contains(contributors, a.Actor.Login) {
			contributors = append(contributors, a.Actor.Login)
		}
	}
	if len(contributors) != 1 {
		return nil, fmt.Errorf("expected activities for one contributor, found %d: %v",
			len(contributors), contributors)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].date.Before(rows[j].date) })

	dates := make([]time.Time, len(rows))
	kinds := make([]string, len(rows))
	repos := make([]int64, len(rows))
	owners := make([]string, len(rows))
	for i, r := range rows {
		dates[i] = r.date
		kinds[i] = r.kind
		repos[i] = r.repo
		owners[i] = r.owner
	}

	repoCount := distinctCount(repos)
	orr := 0.0
	if repoCount > 0 {
		orr = float64(distinctCount(owners)) / float64(repoCount)
	}

	dca := make([]float64, 0, len(rows))
	for i := 0; i+1 < len(rows); i++ {
		dca = append(dca, dates[i+1].Sub(dates[i]).Hours())
	}

	repoGroups := consecutiveGroups(repos, dates)
	kindGroups := consecutiveGroups(kinds, dates)

	dcaS := describe(dca)
	narS := describe(groupCounts(repos))
	ntrS := describe(distinctPerGroup(repos, kinds))
	ncarS := describe(groupSizes(repoGroups))
	dcarS := describe(groupTimeSpent(repoGroups))
	daarS := describe(groupTimeToSwitch(repoGroups))
	dcatS := describe(groupTimeToSwitch(kindGroups))
	natS := describe(groupCounts(kinds))

	row := &Row{
		Login: login,
		Values: [Count]float64{
			float64(len(rows)), float64(distinctCount(kinds)), float64(distinctCount(owners)), orr,
			dcaS.mean, dcaS.median, dcaS.std, dcaS.gini,
			narS.mean, narS.median, narS.gini, narS.iqr,
			ntrS.mean, ntrS.median, ntrS.std, ntrS.gini,
			ncarS.mean, ncarS.std, ncarS.iqr,
			dcarS.mean, dcarS.median, dcarS.std, dcarS.iqr,
			daarS.mean, daarS.median, daarS.std, daarS.gini, daarS.iqr,
			dcatS.mean, dcatS.median, dcatS.std, dcatS.gini, dcatS.iqr,
			natS.mean, natS.median, natS.std, natS.gini, natS.iqr,
		},
	}
	for i := range row.Values {
		row.Values[i] = round3(row.Values[i])
	}
	return row, nil
}

// ownerOf extracts the owner half of an owner/name repository slug.
func ownerOf(name string) string {
	owner, _, found := strings.Cut(name, "/")
	if !found {
		return "unknown"
	}
	return owner
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

func distinctCount[K comparable](keys []K) int {
	seen := make(map[K]struct{}, len(keys))
	for _, k := range keys {
		seen[k] = struct{}{}
	}
	return len(seen)
}

// groupCounts counts rows per key, keeping groups in first-seen order.
func groupCounts[K comparable](keys []K) []float64 {
	index := make(map[K]int, len(keys))
	var counts []float64
	for _, k := range keys {
		i, ok := index[k]
		if !ok {
			i = len(counts)
			index[k] = i
			counts = append(counts, 0)
		}
		counts[i]++
	}
	return counts
}

// distinctPerGroup counts distinct values per key, keeping groups in
// first-seen order.
func distinctPerGroup[K comparable](keys []K, values []string) []float64 {
	index := make(map[K]int, len(keys))
	var sets []map[string]struct{}
	for i, k := range keys {
		gi, ok := index[k]
		if !ok {
			gi = len(sets)
			index[k] = gi
			sets = append(sets, make(map[string]struct{}))
		}
		sets[gi][values[i]] = struct{}{}
	}
	counts := make([]float64, len(sets))
	for i, s := range sets {
		counts[i] = float64(len(s))
	}
	return counts
}

// group is a run of consecutive rows sharing one key.
type group struct {
	size  float64
	start time.Time
	end   time.Time
}

// consecutiveGroups splits date-ordered rows into runs of equal key. A
// new group starts whenever the key differs from the previous row.
func consecutiveGroups[K comparable](keys []K, dates []time.Time) []group {
	var groups []group
	for i := range keys {
		if i == 0 || keys[i] != keys[i-1] {
			groups = append(groups, group{size: 1, start: dates[i], end: dates[i]})
			continue
		}
		g := &groups[len(groups)-1]
		g.size++
		g.end = dates[i]
	}
	return groups
}

func groupSizes(groups []group) []float64 {
	out := make([]float64, len(groups))
	for i, g := range groups {
		out[i] = g.size
	}
	return out
}

// groupTimeSpent is the span of each group in hours.
func groupTimeSpent(groups []group) []float64 {
	out := make([]float64, len(groups))
	for i, g := range groups {
		out[i] = g.end.Sub(g.start).Hours()
	}
	return out
}

// groupTimeToSwitch is the gap between each group's end and the next
// group's start, in hours. The last group has no successor and
// contributes no value.
func groupTimeToSwitch(groups []group) []float64 {
	if len(groups) < 2 {
		return nil
	}
	out := make([]float64, 0, len(groups)-1)
	for i := 0; i+1 < len(groups); i++ {
		out = append(out, groups[i+1].start.Sub(groups[i].end).Hours())
	}
	return out
}
