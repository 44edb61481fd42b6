// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates the four-stage research run: discovery,
// market-fit analysis, tier categorization, and reporting.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/startup-scout/internal/agent"
	"github.com/pdiddy/startup-scout/internal/analyze"
	"github.com/pdiddy/startup-scout/internal/discover"
	"github.com/pdiddy/startup-scout/internal/notify"
	"github.com/pdiddy/startup-scout/internal/report"
	"github.com/pdiddy/startup-scout/internal/search"
	"github.com/pdiddy/startup-scout/internal/store"
	"github.com/pdiddy/startup-scout/internal/tier"
	"github.com/pdiddy/startup-scout/pkg/types"
)

// Agent names used in the tracker trace files.
const (
	discoveryAgent = "Discovery Agent"
	analystAgent   = "Market Analyst"
	tierAgent      = "Tier Classifier"
	reportAgent    = "Report Generator"
)

// Pipeline holds the wired dependencies for one or more runs.
type Pipeline struct {
	cfg      types.PipelineConfig
	store    *store.Store
	backend  agent.Backend
	backends []search.Backend
	logger   *zap.Logger
	out      io.Writer
}

// New validates the configuration and wires the pipeline dependencies.
// A missing or invalid LLM credential fails here, before any network
// call is attempted.
func New(ctx context.Context, cfg types.PipelineConfig, logger *zap.Logger, w io.Writer) (*Pipeline, error) {
	if err := cfg.Agent.Validate(); err != nil {
		return nil, err
	}

	st, err := store.NewStore(cfg.Store)
	if err != nil {
		return nil, err
	}

	backend, err := agent.NewBackend(ctx, cfg.Agent, nil)
	if err != nil {
		st.Close()
		return nil, err
	}

	return &Pipeline{
		cfg:      cfg,
		store:    st,
		backend:  backend,
		backends: search.Backends(cfg.Search, w),
		logger:   logger,
		out:      w,
	}, nil
}

// Close releases the pipeline's store.
func (p *Pipeline) Close() error {
	return p.store.Close()
}

// Store exposes the pipeline's store for CLI query commands.
func (p *Pipeline) Store() *store.Store {
	return p.store
}

// NewRunID returns a run identifier derived from the current time.
func NewRunID() string {
	return "run_" + time.Now().UTC().Format("20060102_150405")
}

// Run executes all four stages for a new run and returns the final
// ledger row. On a stage failure the run is marked failed in the ledger
// and the trace files written before the error is returned.
func (p *Pipeline) Run(ctx context.Context) (types.RunMetadata, error) {
	runID := NewRunID()
	started := time.Now()

	log := p.logger.With(zap.String("run_id", runID))
	log.Info("starting run",
		zap.String("provider", string(p.cfg.Agent.Provider)),
		zap.Int("search_backends", len(p.backends)))

	if err := p.store.BeginRun(ctx, runID); err != nil {
		return types.RunMetadata{}, err
	}

	tracker, err := agent.NewTracker(runID, p.cfg.Report.OutputDir)
	if err != nil {
		return types.RunMetadata{}, err
	}

	fail := func(agentName string, stageErr error) (types.RunMetadata, error) {
		log.Error("run failed", zap.String("agent", agentName), zap.Error(stageErr))
		tracker.Fail(agentName, stageErr)
		if err := p.store.FailRun(ctx, runID, time.Since(started)); err != nil {
			log.Error("recording failure", zap.Error(err))
		}
		if err := tracker.SaveAll(); err != nil {
			log.Error("writing trace files", zap.Error(err))
		}
		run, _ := p.store.GetRun(ctx, runID)
		return run, fmt.Errorf("%s: %w", agentName, stageErr)
	}

	tracker.Start(discoveryAgent, "discover recently founded startups")
	dSum, err := discover.Discover(ctx, p.backend, p.store, p.backends, p.cfg, runID, p.out)
	if err != nil {
		return fail(discoveryAgent, err)
	}
	tracker.End(discoveryAgent, fmt.Sprintf("found %d startups (%d duplicates skipped, %d queries)",
		dSum.Found, dSum.DuplicatesSkipped, dSum.QueriesUsed))
	log.Info("discovery complete", zap.Int("found", dSum.Found), zap.Int("duplicates", dSum.DuplicatesSkipped))

	tracker.Start(analystAgent, "score startups for Indian market fit")
	aSum, err := analyze.Analyze(ctx, p.backend, p.store, p.cfg, runID, p.out)
	if err != nil {
		return fail(analystAgent, err)
	}
	tracker.End(analystAgent, fmt.Sprintf("scored %d startups, %d above minimum", aSum.Analyzed, aSum.AboveMin))
	log.Info("analysis complete", zap.Int("analyzed", aSum.Analyzed), zap.Int("above_min", aSum.AboveMin))

	tracker.Start(tierAgent, "classify startups into market tiers")
	tSum, err := tier.Categorize(ctx, p.backend, p.store, p.cfg, runID, p.out)
	if err != nil {
		return fail(tierAgent, err)
	}
	tracker.End(tierAgent, fmt.Sprintf("categorized %d startups (%d below minimum)", tSum.Categorized, tSum.Skipped))
	log.Info("categorization complete", zap.Int("categorized", tSum.Categorized))

	tracker.Start(reportAgent, "assemble run report")
	reportPath, err := report.Generate(ctx, p.backend, p.store, p.cfg, runID, tracker.Dir(), p.out)
	if err != nil {
		return fail(reportAgent, err)
	}
	tracker.End(reportAgent, "report written to "+reportPath)

	if err := p.store.CompleteRun(ctx, runID, time.Since(started), reportPath); err != nil {
		return fail(reportAgent, err)
	}
	if err := tracker.SaveAll(); err != nil {
		log.Warn("writing trace files", zap.Error(err))
	}

	run, err := p.store.GetRun(ctx, runID)
	if err != nil {
		return types.RunMetadata{}, err
	}
	log.Info("run complete",
		zap.Int("total", run.TotalStartupsFound),
		zap.Float64("seconds", run.ProcessingTimeSeconds))

	if p.cfg.Notify.Enabled {
		if err := notify.Send(ctx, p.cfg.Notify, run, []string{reportPath}, p.out); err != nil {
			log.Warn("notification failed", zap.Error(err))
		}
	}

	return run, nil
}
