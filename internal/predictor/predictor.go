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

// Package predictor scores feature vectors with the BIMBAS bot
// detection model and turns probabilities into labeled verdicts.
package predictor

import (
	"math"

	"github.com/rabbithq/rabbit/internal/features"
)

// Contributor types a prediction can produce.
const (
	TypeBot   = "Bot"
	TypeHuman = "Human"
)

// Prediction is the classifier verdict for one feature row.
type Prediction struct {
	UserType   string
	Confidence float64
}

// Predictor scores a single contributor's feature row.
type Predictor interface {
	Predict(row *features.Row) (Prediction, error)
}

// Decide converts a bot probability into a labeled prediction. The
// label is Bot at probability 0.5 and above, Human below. Confidence
// is the distance from the decision boundary scaled to [0, 1] and
// rounded to three decimals.
func Decide(probability float64) Prediction {
	userType := TypeHuman
	if probability >= 0.5 {
		userType = TypeBot
	}
	confidence := math.Round(math.Abs(probability-0.5)*2*1000) / 1000
	return Prediction{UserType: userType, Confidence: confidence}
}
