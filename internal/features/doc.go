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

// Package features turns an activity sequence into the 38-column
// behavioral feature vector the classifier scores.
//
// The vector mixes simple counts (activities, activity kinds,
// repository owners) with aggregated series describing timing and
// locality: gaps between consecutive activities, activity counts and
// diversity per repository, and how the contributor switches between
// repositories and activity kinds. Series are summarized with mean,
// median, sample standard deviation, Gini coefficient, and
// interquartile range as configured per column, and every value is
// rounded to three decimals.
package features
