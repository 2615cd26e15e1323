/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package discovery runs discoveries: it resolves options, enumerates
// targets, dispatches probes and merges their results into the inventory.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/netscanner/pkg/inventory"
	"github.com/carverauto/netscanner/pkg/logger"
	"github.com/carverauto/netscanner/pkg/models"
	"github.com/carverauto/netscanner/pkg/probe"
	"github.com/carverauto/netscanner/pkg/scan"
)

// EventStarted is published when a run leaves Idle for Enumerating.
const EventStarted = "started"

// Config holds the engine defaults applied when neither the command nor the
// discovery sets a value.
type Config struct {
	Workers       int
	Timeout       time.Duration
	RateLimit     float64
	StrictOptions bool
}

// RunRequest carries the command side of a run.
type RunRequest struct {
	// Options are the command-level options, the lowest precedence layer.
	Options models.Options
	Workers int
	Timeout time.Duration
	// IncludeDisabled runs disabled discoveries too.
	IncludeDisabled bool
	// KeepFailed writes failed outcomes to the result log.
	KeepFailed   bool
	Destinations []string
}

// Orchestrator drives discoveries through Enumerating, Dispatching and
// Merging. It is safe for concurrent use; concurrent runs serialize on the
// store transaction of their merge.
type Orchestrator struct {
	store     inventory.Store
	registry  *probe.Registry
	merger    *Merger
	publisher Publisher
	recorder  Recorder
	logger    logger.Logger
	cfg       Config
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

func WithPublisher(p Publisher) Option {
	return func(o *Orchestrator) {
		if p != nil {
			o.publisher = p
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithClock replaces time.Now for run and merge timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
		o.merger.now = now
	}
}

func NewOrchestrator(
	store inventory.Store, registry *probe.Registry, log logger.Logger, cfg Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:     store,
		registry:  registry,
		merger:    NewMerger(log.WithComponent("merger")),
		publisher: nopPublisher{},
		recorder:  nopRecorder{},
		logger:    log,
		cfg:       cfg,
		now:       time.Now,
		sleep:     sleepContext,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// RunDiscovery loads a discovery by name and runs it.
func (o *Orchestrator) RunDiscovery(ctx context.Context, name string, req RunRequest) (*Run, error) {
	discovery, err := o.loadDiscovery(ctx, name)
	if err != nil {
		return nil, err
	}

	if discovery.Tool() == ToolSequence {
		return nil, fmt.Errorf("%w: %q", ErrIsSequence, name)
	}

	return o.Run(ctx, discovery, req)
}

// RunTool runs every discovery bound to tool, one after the other. A failed
// run does not stop the others; their errors are joined.
func (o *Orchestrator) RunTool(ctx context.Context, tool string, req RunRequest) ([]*Run, error) {
	if _, err := o.registry.Lookup(tool); err != nil {
		return nil, err
	}

	discoveries, err := o.store.FindDiscoveries(ctx, inventory.DiscoveryFilter{
		Tool:        tool,
		EnabledOnly: !req.IncludeDisabled,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s discoveries: %w", tool, err)
	}

	runs := make([]*Run, 0, len(discoveries))

	var errs []error

	for _, discovery := range discoveries {
		run, err := o.Run(ctx, discovery, req)
		runs = append(runs, run)

		if err != nil {
			errs = append(errs, err)
		}
	}

	return runs, errors.Join(errs...)
}

func (o *Orchestrator) loadDiscovery(ctx context.Context, name string) (*models.Discovery, error) {
	discovery, err := o.store.GetDiscoveryByName(ctx, name)
	if errors.Is(err, inventory.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrDiscoveryNotFound, name)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load discovery %q: %w", name, err)
	}

	return discovery, nil
}

// Run executes one discovery. The returned error is the cause of a Failed
// run; a skipped run returns no error.
func (o *Orchestrator) Run(ctx context.Context, discovery *models.Discovery, req RunRequest) (*Run, error) {
	run := newRun(discovery, o.now())
	log := o.logger.WithFields(map[string]interface{}{
		"discovery": discovery.Name,
		"run_id":    run.ID,
	})

	if !discovery.Enabled && !req.IncludeDisabled {
		o.enter(log, run, StateSkipped)
		log.Info().Msg("Discovery is disabled")
		o.finish(ctx, run)

		return run, nil
	}

	o.enter(log, run, StateEnumerating)
	o.publish(ctx, log, run, EventStarted)

	prober, targets, settings, err := o.prepare(ctx, discovery, req, run, log)
	if err != nil {
		return o.fail(ctx, log, run, err)
	}

	run.Targets = len(targets)

	o.enter(log, run, StateDispatching)
	log.Info().
		Str("tool", run.Tool).
		Int("targets", len(targets)).
		Int("workers", settings.workers).
		Dur("timeout", settings.timeout).
		Interface("options", run.Options).
		Msg("Dispatching discovery")

	dispatcher := scan.NewDispatcher(settings.workers, log, scan.WithRateLimit(settings.rateLimit))
	outcomes := dispatcher.Execute(ctx, targets, prober)

	for _, outcome := range outcomes {
		o.recorder.ProbeCompleted(run.Tool, outcome.Result.Status)

		if outcome.Result.Status {
			run.Succeeded++
		}
	}

	o.enter(log, run, StateMerging)

	stats, err := o.merger.Merge(ctx, o.store, MergeInput{
		Discovery:  discovery,
		RunID:      run.ID,
		Options:    run.Options,
		Outcomes:   outcomes,
		KeepFailed: req.KeepFailed,
	})
	if err != nil {
		return o.fail(ctx, log, run, err)
	}

	run.Merge = stats
	o.recorder.HostsMerged(ActionCreated, stats.Created)
	o.recorder.HostsMerged(ActionUpdated, stats.Updated)
	o.recorder.HostsMerged(ActionExcluded, stats.Excluded)

	o.stampLastScan(ctx, log, discovery)

	o.enter(log, run, StateCompleted)
	log.Info().
		Int("succeeded", run.Succeeded).
		Int("created", stats.Created).
		Int("updated", stats.Updated).
		Int("excluded", stats.Excluded).
		Msg("Discovery completed")
	o.finish(ctx, run)

	return run, nil
}

// prepare resolves options and settings, builds the probe and the targets.
// Every error it returns is a configuration error.
func (o *Orchestrator) prepare(
	ctx context.Context, discovery *models.Discovery, req RunRequest, run *Run, log logger.Logger,
) (probe.Probe, []models.Target, runSettings, error) {
	opts, err := resolveDiscoveryOptions(discovery, req.Options)
	if err != nil {
		return nil, nil, runSettings{}, err
	}

	run.Options = opts

	settings, err := resolveSettings(o.cfg, discovery, req, opts)
	if err != nil {
		return nil, nil, settings, err
	}

	registration, err := o.registry.Lookup(discovery.Tool())
	if err != nil {
		return nil, nil, settings, err
	}

	env := probe.Env{
		Catalog: o.store,
		Logger:  log,
		Timeout: settings.timeout,
		Strict:  o.cfg.StrictOptions,
	}

	prober, err := registration.New(ctx, env, opts)
	if err != nil {
		return nil, nil, settings, err
	}

	targets, err := o.targets(ctx, discovery, registration.HostDirected, req.Destinations)
	if err != nil {
		return nil, nil, settings, err
	}

	return prober, targets, settings, nil
}

func (o *Orchestrator) fail(ctx context.Context, log logger.Logger, run *Run, err error) (*Run, error) {
	run.Err = err
	o.enter(log, run, StateFailed)
	log.Error().Err(err).Str("tool", run.Tool).Msg("Discovery failed")
	o.finish(ctx, run)

	return run, err
}

func (*Orchestrator) enter(log logger.Logger, run *Run, state State) {
	if err := run.transition(state); err != nil {
		log.Error().Err(err).Msg("Unexpected state transition")

		return
	}

	log.Debug().Str("state", string(state)).Msg("Run state changed")
}

func (o *Orchestrator) finish(ctx context.Context, run *Run) {
	run.EndedAt = o.now()
	o.recorder.RunFinished(run.Tool, string(run.State), run.EndedAt.Sub(run.StartedAt))
	o.publish(ctx, o.logger, run, string(run.State))
}

func (o *Orchestrator) publish(ctx context.Context, log logger.Logger, run *Run, state string) {
	event := run.event(o.now())
	event.State = state

	if err := o.publisher.PublishRun(ctx, event); err != nil {
		log.Warn().Err(err).Str("state", state).Msg("failed to publish run event")
	}
}
