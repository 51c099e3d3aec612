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

import "time"

// DateLayout is the timestamp format carried on activities. The trailing Z
// is literal; values are always UTC.
const DateLayout = "2006-01-02T15:04:05Z"

// Actor identifies the account an activity belongs to.
type Actor struct {
	Login string `json:"login"`
}

// Repository identifies where an activity happened. Name uses the
// "owner/name" form.
type Repository struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Action is the intermediate record produced by the first mapping stage:
// one event interpreted through the event-to-action table. A push expands
// into one action per commit; the source event identity is kept so the
// second stage can fold them back together.
type Action struct {
	Kind       string
	EventID    string
	StartDate  time.Time
	Actor      Actor
	Repository Repository
}

// Activity is the normalized unit of user work consumed by the feature
// extractor. StartDate is formatted with DateLayout.
type Activity struct {
	Activity   string     `json:"activity"`
	StartDate  string     `json:"start_date"`
	Actor      Actor      `json:"actor"`
	Repository Repository `json:"repository"`
}
