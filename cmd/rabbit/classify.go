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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rabbithq/rabbit/internal/activity"
	"github.com/rabbithq/rabbit/internal/classify"
	"github.com/rabbithq/rabbit/internal/config"
	rabbiterrors "github.com/rabbithq/rabbit/internal/errors"
	"github.com/rabbithq/rabbit/internal/github"
	"github.com/rabbithq/rabbit/internal/logging"
	"github.com/rabbithq/rabbit/internal/metadata"
	"github.com/rabbithq/rabbit/internal/output"
	"github.com/rabbithq/rabbit/internal/predictor"
	"github.com/rabbithq/rabbit/pkg/version"
)

// Exit codes of the rabbit binary.
const (
	exitOK         = 0
	exitUsage      = 1
	exitExhausted  = 2
	exitUnexpected = 3
)

// minKeyLength is the shortest plausible GitHub token. Anything shorter is
// most likely a paste error.
const minKeyLength = 40

// usageError marks failures the user must fix on the command line. The
// error mapper turns it into the invalid-arguments exit code.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// classifyOptions carries the classify command's flag values.
type classifyOptions struct {
	configFile    string
	inputFile     string
	apiKey        string
	minEvents     int
	minConfidence float64
	maxQueries    int
	noWait        bool
	outputFile    string
	format        output.Format
	incremental   bool
	reportFile    string
	verbose       bool
}

// classifyCmd represents the classify command
func newClassifyCommand(configFile *string) *cobra.Command {
	opts := classifyOptions{format: output.FormatTerm}

	cmd := &cobra.Command{
		Use:   "classify [login ...]",
		Short: "Classify GitHub contributors from their public events",
		Long: `Classify GitHub contributors as Bot or Human from their public activity.

Each login is first resolved through the GitHub users API: organizations and
accounts registered as apps short-circuit immediately. Everyone else is
classified from their recent public events with the bundled behavioral model.
Contributors with too little visible activity come back as Unknown, logins
that do not exist as Invalid.

Logins are taken from the arguments, from --input-file (one per line), or
both. An API key raises the GitHub rate limit from 60 to 5000 requests per
hour:
  - Use --key to provide a token directly
  - Or set the environment variable named by github.token_env (GITHUB_TOKEN)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configFile = *configFile
			return runClassify(cmd.Context(), cmd.Flags(), opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.inputFile, "input-file", "i", "", "Text file with one login per line, appended after the arguments")
	flags.StringVarP(&opts.apiKey, "key", "k", "", "GitHub API key (overrides the configured token environment variable)")
	flags.IntVar(&opts.minEvents, "min-events", 5, "Minimum events needed before a contributor is classified (1-300)")
	flags.Float64Var(&opts.minConfidence, "min-confidence", 1.0, "Confidence at which no further event pages are fetched (0.0-1.0)")
	flags.IntVar(&opts.maxQueries, "max-queries", 3, "Maximum event pages fetched per contributor (1-3)")
	flags.BoolVar(&opts.noWait, "no-wait", false, "Fail on rate limit instead of waiting for the reset")
	flags.StringVarP(&opts.outputFile, "output", "o", "", "Output file path (default: stdout)")
	flags.VarP(&opts.format, "format", "f", "Output format: term, csv or json (csv and json require --output)")
	flags.BoolVar(&opts.incremental, "incremental", false, "Rewrite the output after every contributor")
	flags.StringVar(&opts.reportFile, "report", "", "Write a JSON run report to this path")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging; csv and json outputs include the feature columns")

	return cmd
}

// runClassify executes the classify command
func runClassify(ctx context.Context, flags *pflag.FlagSet, opts classifyOptions, args []string) (runErr error) {
	logging.Init(logging.Options{Verbose: opts.verbose})
	log := logging.Named("rabbit")

	cfg, err := config.LoadConfig(opts.configFile)
	if err != nil {
		return &usageError{err: err}
	}
	applyFlagOverrides(cfg, flags, &opts)
	if err := cfg.Validate(); err != nil {
		return &usageError{err: err}
	}

	logins, err := collectLogins(args, opts.inputFile)
	if err != nil {
		return &usageError{err: err}
	}
	if len(logins) == 0 {
		return &usageError{err: errors.New("no contributors to classify: pass logins as arguments or use --input-file")}
	}

	format := output.Format(cfg.Output.Format)
	if (format == output.FormatCSV || format == output.FormatJSON) && opts.outputFile == "" {
		return &usageError{err: fmt.Errorf("%s output requires --output", format)}
	}

	key := opts.apiKey
	if key == "" {
		key = cfg.Token()
	}
	warnAPIKey(os.Stderr, key)

	writer, err := output.New(output.Config{
		Format:      format,
		Path:        opts.outputFile,
		Verbose:     opts.verbose,
		Incremental: opts.incremental,
	})
	if err != nil {
		return &usageError{err: err}
	}
	defer func() {
		if cerr := writer.Close(); cerr != nil && runErr == nil {
			runErr = fmt.Errorf("failed to finalize output: %w", cerr)
		}
	}()

	tables, err := loadTables(cfg)
	if err != nil {
		return err
	}

	tracker := metadata.New()
	client := github.NewRESTClient(github.Options{
		BaseURL: cfg.GitHub.APIEndpoint,
		Token:   key,
		NoWait:  cfg.Classify.NoWait,
		Logger:  logging.Named("github"),
		Tracker: tracker,
	})

	// The model file is only opened if some contributor actually reaches
	// the scoring stage.
	pred := predictor.NewLazy(func() (predictor.Predictor, error) {
		return predictor.NewONNXPredictor(predictor.Config{
			ModelPath:   cfg.ModelPath(),
			LibraryPath: cfg.Model.Library,
			Log:         logging.Named("predictor"),
		})
	})
	defer pred.Close()

	orch := classify.New(client, pred, activity.NewPipeline(tables, logging.Named("activity")), classify.Options{
		MinEvents:     cfg.Classify.MinEvents,
		MinConfidence: cfg.Classify.MinConfidence,
		MaxQueries:    cfg.Classify.MaxQueries,
	}, logging.Named("classify"))

	done := 0
	emit := func(result classify.ContributorResult) error {
		tracker.RecordResult(result)
		if err := writer.Write(result); err != nil {
			return err
		}
		done++
		fmt.Fprintf(os.Stderr, "\rClassifying %d contributors... %d done", len(logins), done)
		return nil
	}

	fmt.Fprintf(os.Stderr, "Classifying %d contributors...", len(logins))
	err = orch.Run(ctx, logins, emit)
	fmt.Fprintf(os.Stderr, "\r\033[K") // Clear progress line
	if err != nil {
		return err
	}

	meta := tracker.Generate(version.Version, metadata.RunParams{
		Contributors:  len(logins),
		MinEvents:     cfg.Classify.MinEvents,
		MinConfidence: cfg.Classify.MinConfidence,
		MaxQueries:    cfg.Classify.MaxQueries,
		Incremental:   opts.incremental,
	})
	log.Info().
		Int("contributors", meta.Results.Total).
		Int("bots", meta.Results.Bots).
		Int("humans", meta.Results.Humans).
		Int("api_calls", meta.Results.APICallCount).
		Str("duration", meta.Results.Duration).
		Msg("classification complete")

	if opts.reportFile != "" {
		if err := metadata.SaveReport(meta, opts.reportFile); err != nil {
			return err
		}
	}

	return nil
}

// applyFlagOverrides copies explicitly set flags over the loaded config,
// completing the flags > environment > file > defaults precedence.
func applyFlagOverrides(cfg *config.Config, flags *pflag.FlagSet, opts *classifyOptions) {
	if flags.Changed("min-events") {
		cfg.Classify.MinEvents = opts.minEvents
	}
	if flags.Changed("min-confidence") {
		cfg.Classify.MinConfidence = opts.minConfidence
	}
	if flags.Changed("max-queries") {
		cfg.Classify.MaxQueries = opts.maxQueries
	}
	if flags.Changed("no-wait") {
		cfg.Classify.NoWait = opts.noWait
	}
	if flags.Changed("format") {
		cfg.Output.Format = string(opts.format)
	}
}

// collectLogins merges positional logins with the ones from the input file,
// in that order. Blank lines and surrounding whitespace are ignored.
func collectLogins(args []string, inputFile string) ([]string, error) {
	logins := make([]string, 0, len(args))
	logins = append(logins, args...)

	if inputFile == "" {
		return logins, nil
	}

	data, err := os.ReadFile(inputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		logins = append(logins, line)
	}
	return logins, nil
}

// warnAPIKey nudges the user when running without a plausible API key.
// Classification still works, just under the far lower anonymous quota.
func warnAPIKey(w io.Writer, key string) {
	switch {
	case key == "":
		fmt.Fprintln(w, "Warning: no API key provided. Unauthenticated requests are limited to 60 per hour; a key is strongly recommended.")
	case len(key) < minKeyLength:
		fmt.Fprintln(w, "Warning: the provided API key looks too short to be a valid GitHub token.")
	}
}

// loadTables resolves the mapping tables, preferring a configured override
// directory over the embedded ones.
func loadTables(cfg *config.Config) (*activity.Tables, error) {
	if cfg.Mappings.Dir != "" {
		tables, err := activity.LoadDir(cfg.Mappings.Dir)
		if err != nil {
			return nil, &usageError{err: err}
		}
		return tables, nil
	}
	return activity.LoadEmbedded()
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var usage *usageError
	if errors.As(err, &usage) {
		return exitUsage
	}

	// Exhausted quota or ran out of retries against a flaky network.
	if errors.Is(err, rabbiterrors.ErrRateLimit) || errors.Is(err, rabbiterrors.ErrRetryable) {
		return exitExhausted
	}

	return exitUnexpected
}
