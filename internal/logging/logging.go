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

// Package logging provides a zerolog wrapper with opinionated defaults for
// the CLI: console output on stderr, info level unless verbose is set.
// Results are written to stdout by the output writers; everything here goes
// to stderr so the two streams never interleave.
package logging

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the root logger.
type Options struct {
	// Verbose lowers the level from info to debug.
	Verbose bool
	// Writer overrides the destination, stderr when nil.
	Writer io.Writer
}

var (
	once   sync.Once
	root   atomic.Pointer[zerolog.Logger]
	inited atomic.Bool
)

// Init configures zerolog and builds the root logger, safe to call once.
// Later calls are no-ops.
func Init(opt Options) {
	once.Do(func() {
		log := build(opt)
		root.Store(&log)
		inited.Store(true)
	})
}

// build constructs a logger from opt without touching process-wide state.
func build(opt Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	var w io.Writer = os.Stderr
	if opt.Writer != nil {
		w = opt.Writer
	}
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}

	lvl := zerolog.InfoLevel
	if opt.Verbose {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(cw).Level(lvl).With().Timestamp().Logger()
}

// Get returns the process-wide root logger, initializing with defaults if
// Init was never called.
func Get() zerolog.Logger {
	if !inited.Load() {
		Init(Options{})
	}
	return *root.Load()
}

// Named returns a child of the root logger with a component field.
func Named(component string) zerolog.Logger {
	if component == "" {
		return Get()
	}
	return Get().With().Str("component", component).Logger()
}
