// Package common holds the bootstrap shared by every CLI action:
// logging, configuration, the cache store, and run-history recording.
package common

import (
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/adil-soubki/uc-transcripts/internal/cache"
	"github.com/adil-soubki/uc-transcripts/internal/config"
	"github.com/adil-soubki/uc-transcripts/internal/runstore"
	"github.com/adil-soubki/uc-transcripts/internal/stage"
)

// NewLogger builds the process logger: JSON on stderr, errors only when
// quiet is set.
func NewLogger(quiet bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if quiet {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// Runtime is what an action needs before it can process items.
type Runtime struct {
	Config  *config.Config
	Logger  *slog.Logger
	Store   *cache.Store
	started time.Time
}

// Bootstrap loads configuration, validates the credentials the action
// needs, and wires the cache store. Configuration problems are fatal
// before any item is processed, so they exit non-zero.
func Bootstrap(c *cli.Context, needYouTube, needOpenAI bool) (*Runtime, error) {
	logger := NewLogger(c.Bool("quiet"))

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		return nil, cli.Exit(err.Error(), 2)
	}
	if c.IsSet("data-dir") {
		cfg.DataDir = c.String("data-dir")
	}
	if err := cfg.Validate(needYouTube, needOpenAI); err != nil {
		logger.Error("invalid configuration", "error", err)
		return nil, cli.Exit(err.Error(), 2)
	}

	return &Runtime{
		Config:  cfg,
		Logger:  logger,
		Store:   cache.NewStore(cfg.DataDir),
		started: time.Now(),
	}, nil
}

// RecordRun appends one run to the history database. Recording is best
// effort; failures are logged and swallowed so they never fail the run.
func (rt *Runtime) RecordRun(stageName, target, model string, summary stage.Summary) {
	store, err := runstore.Open(rt.Config.RunDBPath())
	if err != nil {
		rt.Logger.Warn("run history unavailable", "error", err)
		return
	}
	defer store.Close()

	err = store.Record(runstore.Run{
		StartedAt: rt.started,
		Stage:     stageName,
		Target:    target,
		Model:     model,
		Success:   summary.Success,
		Skipped:   summary.Skipped,
		Errors:    summary.Errors,
		Duration:  time.Since(rt.started),
	})
	if err != nil {
		rt.Logger.Warn("failed to record run", "error", err)
	}
}
