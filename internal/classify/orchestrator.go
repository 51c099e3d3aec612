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

// Package classify drives the per-contributor pipeline: account type
// lookup, event paging, activity mapping, feature extraction, and
// model scoring, streamed as results in request order.
package classify

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rabbithq/rabbit/internal/activity"
	rabbiterrors "github.com/rabbithq/rabbit/internal/errors"
	"github.com/rabbithq/rabbit/internal/features"
	"github.com/rabbithq/rabbit/internal/github"
	"github.com/rabbithq/rabbit/internal/predictor"
)

// Options tune a classification run. The CLI validates ranges before
// construction; see internal/config.
type Options struct {
	// MinEvents is the number of events required before the model is
	// consulted.
	MinEvents int

	// MinConfidence is the early-stop threshold. A tentative result at
	// or above it ends paging for that contributor.
	MinConfidence float64

	// MaxQueries caps event pages fetched per contributor.
	MaxQueries int
}

// DefaultOptions returns the standard run parameters.
func DefaultOptions() Options {
	return Options{MinEvents: 5, MinConfidence: 1.0, MaxQueries: 3}
}

// Sink receives results as they are produced. Returning an error
// stops the run; that is the caller's cancellation mechanism alongside
// context cancellation.
type Sink func(ContributorResult) error

// Orchestrator classifies contributors sequentially, reusing one
// client, one mapping pipeline, and one predictor across the run.
type Orchestrator struct {
	client    github.Client
	predictor predictor.Predictor
	pipeline  *activity.Pipeline
	opts      Options
	log       zerolog.Logger
}

// New returns an orchestrator for one run.
func New(client github.Client, pred predictor.Predictor, pipeline *activity.Pipeline, opts Options, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		client:    client,
		predictor: pred,
		pipeline:  pipeline,
		opts:      opts,
		log:       log,
	}
}

// Run classifies each login in order, pushing every result to emit.
// Unknown logins become Invalid results and the run continues; any
// other failure terminates the stream. Results already emitted remain
// valid.
func (o *Orchestrator) Run(ctx context.Context, logins []string, emit Sink) error {
	for _, login := range logins {
		result, err := o.classifyOne(ctx, login)
		switch {
		case err == nil:
		case errors.Is(err, rabbiterrors.ErrNotFound):
			o.log.Debug().Str("login", login).Msg("contributor not found")
			result = invalidResult(login)
		case rabbiterrors.IsAPIError(err):
			return err
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return err
		default:
			return rabbiterrors.Critical(err)
		}

		o.log.Debug().
			Str("login", result.Contributor).
			Str("type", result.UserType).
			Str("confidence", result.Confidence.String()).
			Msg("contributor classified")
		if err := emit(result); err != nil {
			return fmt.Errorf("emitting result for %s: %w", result.Contributor, err)
		}
	}
	return nil
}

func (o *Orchestrator) classifyOne(ctx context.Context, login string) (ContributorResult, error) {
	userType, err := o.client.QueryUserType(ctx, login)
	if err != nil {
		return ContributorResult{}, err
	}
	switch userType {
	case github.TypeOrganization:
		return ContributorResult{Contributor: login, UserType: TypeOrganization, Confidence: NewConfidence(1)}, nil
	case github.TypeBot:
		return ContributorResult{Contributor: login, UserType: TypeBot, Confidence: NewConfidence(1)}, nil
	}

	// User and anything unrecognized fall through to event
	// classification.
	var (
		events    []github.Event
		tentative *ContributorResult
	)
	for page := 1; page <= o.opts.MaxQueries; page++ {
		batch, err := o.client.FetchEventPage(ctx, login, github.FetchOptions{Page: page})
		if err != nil {
			return ContributorResult{}, err
		}
		events = append(events, batch.Events...)

		if len(events) >= o.opts.MinEvents {
			// Mapping always runs over the cumulative list: later
			// batches can change the collapse and switching structure
			// of earlier ones.
			activities := o.pipeline.Map(events)
			if len(activities) == 0 {
				o.log.Debug().
					Str("login", login).
					Int("events", len(events)).
					Msg("events mapped to no activities")
			} else {
				result, err := o.score(login, activities)
				if err != nil {
					return ContributorResult{}, err
				}
				tentative = &result
				if result.Confidence.Value() >= o.opts.MinConfidence {
					return result, nil
				}
			}
		}

		if !batch.HasMore {
			break
		}
	}

	if len(events) < o.opts.MinEvents {
		o.log.Debug().
			Str("login", login).
			Int("events", len(events)).
			Int("min_events", o.opts.MinEvents).
			Msg("not enough events to classify")
		return unknownResult(login), nil
	}
	if tentative == nil {
		return unknownResult(login), nil
	}
	return *tentative, nil
}

func (o *Orchestrator) score(login string, activities []activity.Activity) (ContributorResult, error) {
	row, err := features.Extract(login, activities)
	if err != nil {
		return ContributorResult{}, err
	}
	pred, err := o.predictor.Predict(row)
	if err != nil {
		return ContributorResult{}, err
	}
	return ContributorResult{
		Contributor: login,
		UserType:    pred.UserType,
		Confidence:  NewConfidence(pred.Confidence),
		Features:    row,
	}, nil
}
