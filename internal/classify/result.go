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

package classify

import (
	"encoding/json"
	"strconv"

	"github.com/rabbithq/rabbit/internal/features"
)

// Contributor types a classification can produce.
const (
	TypeBot          = "Bot"
	TypeHuman        = "Human"
	TypeOrganization = "Organization"
	TypeUnknown      = "Unknown"
	TypeInvalid      = "Invalid"
)

// Confidence is a classification confidence: a number in [0, 1], or
// the "-" sentinel for results that never reached the model.
type Confidence struct {
	value float64
	known bool
}

// NewConfidence returns a numeric confidence.
func NewConfidence(v float64) Confidence {
	return Confidence{value: v, known: true}
}

// NoConfidence returns the "-" sentinel.
func NoConfidence() Confidence {
	return Confidence{}
}

// Known reports whether the confidence carries a number.
func (c Confidence) Known() bool { return c.known }

// Value returns the numeric confidence, or 0 for the sentinel.
func (c Confidence) Value() float64 { return c.value }

// String renders the number, or "-" for the sentinel.
func (c Confidence) String() string {
	if !c.known {
		return "-"
	}
	return strconv.FormatFloat(c.value, 'f', -1, 64)
}

// MarshalJSON emits the number, or the quoted sentinel.
func (c Confidence) MarshalJSON() ([]byte, error) {
	if !c.known {
		return []byte(`"-"`), nil
	}
	return json.Marshal(c.value)
}

// UnmarshalJSON accepts either form emitted by MarshalJSON.
func (c *Confidence) UnmarshalJSON(data []byte) error {
	if string(data) == `"-"` {
		*c = Confidence{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = Confidence{value: v, known: true}
	return nil
}

// ContributorResult is the verdict for one requested login.
type ContributorResult struct {
	Contributor string        `json:"contributor"`
	UserType    string        `json:"type"`
	Confidence  Confidence    `json:"confidence"`
	Features    *features.Row `json:"features,omitempty"`
}

func unknownResult(login string) ContributorResult {
	return ContributorResult{Contributor: login, UserType: TypeUnknown, Confidence: NoConfidence()}
}

func invalidResult(login string) ContributorResult {
	return ContributorResult{Contributor: login, UserType: TypeInvalid, Confidence: NoConfidence()}
}
