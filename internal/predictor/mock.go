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

package predictor

import (
	"github.com/rabbithq/rabbit/internal/features"
)

// MockPredictor returns scripted predictions for testing. Calls past
// the end of the script repeat the last entry; an empty script yields
// a fully confident Human.
type MockPredictor struct {
	// Predictions are returned in order, one per call.
	Predictions []Prediction

	// Err, when set, fails every call.
	Err error

	// Calls counts Predict invocations. Rows records the feature rows
	// seen, in order.
	Calls int
	Rows  []*features.Row
}

// Predict returns the next scripted prediction.
func (m *MockPredictor) Predict(row *features.Row) (Prediction, error) {
	m.Calls++
	m.Rows = append(m.Rows, row)

	if m.Err != nil {
		return Prediction{}, m.Err
	}
	if len(m.Predictions) == 0 {
		return Prediction{UserType: TypeHuman, Confidence: 1}, nil
	}
	i := m.Calls - 1
	if i >= len(m.Predictions) {
		i = len(m.Predictions) - 1
	}
	return m.Predictions[i], nil
}
