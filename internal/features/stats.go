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
	"math"
	"sort"
)

// summary bundles the five aggregations a feature series can produce.
// Each feature emits only a subset; see the column list in row.go.
type summary struct {
	mean   float64
	median float64
	std    float64
	gini   float64
	iqr    float64
}

// describe aggregates a series. Empty series produce all zeros rather
// than NaN so downstream tensors stay finite.
func describe(xs []float64) summary {
	if len(xs) == 0 {
		return summary{}
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return summary{
		mean:   mean(xs),
		median: quantile(sorted, 0.5),
		std:    sampleStd(xs),
		gini:   gini(xs),
		iqr:    quantile(sorted, 0.75) - quantile(sorted, 0.25),
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// quantile interpolates linearly between the two nearest ranks, the
// same scheme pandas and numpy default to. The input must be sorted.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (pos-float64(lo))*(sorted[hi]-sorted[lo])
}

// sampleStd is the n-1 denominator standard deviation. Fewer than two
// values yield 0.
func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// gini computes the Gini coefficient of a series. Zeros are dropped
// first; an empty result returns 0. With the survivors sorted
// ascending and indexed from 1, the coefficient is
// sum((2i - n - 1) * x_i) / (n * sum(x_i)).
func gini(xs []float64) float64 {
	filtered := make([]float64, 0, len(xs))
	for _, x := range xs {
		if x != 0 {
			filtered = append(filtered, x)
		}
	}
	if len(filtered) == 0 {
		return 0
	}
	sort.Float64s(filtered)

	n := float64(len(filtered))
	var weighted, total float64
	for i, x := range filtered {
		weighted += (2*float64(i+1) - n - 1) * x
		total += x
	}
	return weighted / (n * total)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
