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
	"strings"
	"testing"

	"github.com/rabbithq/rabbit/internal/activity"
)

func fixtureActivity(start, kind string, repoID int64, repoName string) activity.Activity {
	return activity.Activity{
		Activity:   kind,
		StartDate:  start,
		Actor:      activity.Actor{Login: "octocat"},
		Repository: activity.Repository{ID: repoID, Name: repoName},
	}
}

func TestExtractFeatureVector(t *testing.T) {
	// Deliberately out of order; Extract sorts by date first.
	activities := []activity.Activity{
		fixtureActivity("2024-03-01T14:30:00Z", "Pushing commits", 202, "bob/beta"),
		fixtureActivity("2024-03-01T10:00:00Z", "Pushing commits", 101, "alice/alpha"),
		fixtureActivity("2024-03-02T10:30:00Z", "Pushing commits", 101, "alice/alpha"),
		fixtureActivity("2024-03-01T11:30:00Z", "Opening issue", 101, "alice/alpha"),
	}

	row, err := Extract("octocat", activities)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if row.Login != "octocat" {
		t.Errorf("login = %q, want %q", row.Login, "octocat")
	}

	want := map[string]float64{
		"NA": 4, "NT": 2, "NOR": 2, "ORR": 1,
		"DCA_mean": 8.167, "DCA_median": 3, "DCA_std": 10.275, "DCA_gini": 0.503,
		"NAR_mean": 2, "NAR_median": 2, "NAR_gini": 0.25, "NAR_IQR": 1,
		"NTR_mean": 1.5, "NTR_median": 1.5, "NTR_std": 0.707, "NTR_gini": 0.167,
		"NCAR_mean": 1.333, "NCAR_std": 0.577, "NCAR_IQR": 0.5,
		"DCAR_mean": 0.5, "DCAR_median": 0, "DCAR_std": 0.866, "DCAR_IQR": 0.75,
		"DAAR_mean": 11.5, "DAAR_median": 11.5, "DAAR_std": 12.021, "DAAR_gini": 0.37, "DAAR_IQR": 8.5,
		"DCAT_mean": 2.25, "DCAT_median": 2.25, "DCAT_std": 1.061, "DCAT_gini": 0.167, "DCAT_IQR": 0.75,
		"NAT_mean": 2, "NAT_median": 2, "NAT_std": 1.414, "NAT_gini": 0.25, "NAT_IQR": 1,
	}
	if len(want) != Count {
		t.Fatalf("fixture covers %d columns, want %d", len(want), Count)
	}

	for i, name := range Names() {
		if got := row.Values[i]; got != want[name] {
			t.Errorf("%s = %v, want %v", name, got, want[name])
		}
	}
}

func TestExtractSingleActivity(t *testing.T) {
	row, err := Extract("octocat", []activity.Activity{
		fixtureActivity("2024-03-01T10:00:00Z", "Starring repository", 101, "alice/alpha"),
	})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	// Empty gap series and single groups must aggregate to zero, not NaN.
	want := map[string]float64{
		"NA": 1, "NT": 1, "NOR": 1, "ORR": 1,
		"NAR_mean": 1, "NAR_median": 1,
		"NTR_mean": 1, "NTR_median": 1,
		"NCAR_mean": 1,
		"NAT_mean":  1, "NAT_median": 1,
	}
	for i, name := range Names() {
		if got := row.Values[i]; got != want[name] {
			t.Errorf("%s = %v, want %v", name, got, want[name])
		}
	}
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name       string
		activities []activity.Activity
		wantErr    string
	}{
		{
			name:       "empty sequence",
			activities: nil,
			wantErr:    "no activities",
		},
		{
			name: "multiple contributors",
			activities: []activity.Activity{
				fixtureActivity("2024-03-01T10:00:00Z", "Opening issue", 101, "alice/alpha"),
				{
					Activity:   "Opening issue",
					StartDate:  "2024-03-01T11:00:00Z",
					Actor:      activity.Actor{Login: "hubot"},
					Repository: activity.Repository{ID: 101, Name: "alice/alpha"},
				},
			},
			wantErr: "one contributor",
		},
		{
			name: "date without designator",
			activities: []activity.Activity{
				fixtureActivity("2024-03-01 10:00:00", "Opening issue", 101, "alice/alpha"),
			},
			wantErr: "parsing activity date",
		},
		{
			name: "date with numeric offset",
			activities: []activity.Activity{
				fixtureActivity("2024-03-01T10:00:00+02:00", "Opening issue", 101, "alice/alpha"),
			},
			wantErr: "parsing activity date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract("octocat", tt.activities)
			if err == nil {
				t.Fatal("Extract() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Extract() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestOwnerOf(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "alice/alpha", want: "alice"},
		{name: "a/b/c", want: "a"},
		{name: "bare", want: "unknown"},
		{name: "", want: "unknown"},
	}

	for _, tt := range tests {
		if got := ownerOf(tt.name); got != tt.want {
			t.Errorf("ownerOf(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestRowFormatting(t *testing.T) {
	activities := []activity.Activity{
		fixtureActivity("2024-03-01T14:30:00Z", "Pushing commits", 202, "bob/beta"),
		fixtureActivity("2024-03-01T10:00:00Z", "Pushing commits", 101, "alice/alpha"),
		fixtureActivity("2024-03-02T10:30:00Z", "Pushing commits", 101, "alice/alpha"),
		fixtureActivity("2024-03-01T11:30:00Z", "Opening issue", 101, "alice/alpha"),
	}
	row, err := Extract("octocat", activities)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	vec := row.Vector()
	if len(vec) != Count {
		t.Fatalf("Vector() length = %d, want %d", len(vec), Count)
	}
	if vec[0] != 4 {
		t.Errorf("vec[0] = %v, want 4", vec[0])
	}

	fields := row.Fields()
	if len(fields) != Count {
		t.Fatalf("Fields() length = %d, want %d", len(fields), Count)
	}
	if fields[0] != "4" || fields[1] != "2" || fields[2] != "2" {
		t.Errorf("integer fields = %v, want [4 2 2]", fields[:3])
	}
	if fields[4] != "8.167" {
		t.Errorf("DCA_mean field = %q, want %q", fields[4], "8.167")
	}

	data, err := row.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if !strings.HasPrefix(string(data), `{"NA":4,"NT":2,"NOR":2,"ORR":1,`) {
		t.Errorf("MarshalJSON() prefix = %s", data[:40])
	}
	if !strings.Contains(string(data), `"DCA_mean":8.167`) {
		t.Errorf("MarshalJSON() missing DCA_mean: %s", data)
	}
}
