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
	"sync"

	"github.com/rabbithq/rabbit/internal/features"
)

// Lazy defers construction of the underlying predictor until the
// first prediction and memoizes the outcome. Runs that never reach a
// prediction, such as lists of organizations or unknown accounts,
// never pay the model load.
type Lazy struct {
	build func() (Predictor, error)

	once  sync.Once
	inner Predictor
	err   error
}

// NewLazy wraps build so it runs at most once.
func NewLazy(build func() (Predictor, error)) *Lazy {
	return &Lazy{build: build}
}

// Predict builds the underlying predictor on first use and delegates
// to it. A construction failure is returned on this and every later
// call.
func (l *Lazy) Predict(row *features.Row) (Prediction, error) {
	l.once.Do(func() {
		l.inner, l.err = l.build()
	})
	if l.err != nil {
		return Prediction{}, l.err
	}
	return l.inner.Predict(row)
}

// Close releases the underlying predictor if it was ever built and
// supports closing.
func (l *Lazy) Close() error {
	if closer, ok := l.inner.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
