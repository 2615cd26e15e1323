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

package scan

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/carverauto/netscanner/pkg/logger"
	"github.com/carverauto/netscanner/pkg/models"
)

const (
	DefaultWorkers = 10

	defaultConcurrencyMultiplier = 2
)

// Executor runs one probe against one target. Implementations must not
// return before their own timeout elapses.
type Executor interface {
	Execute(ctx context.Context, target models.Target) models.ProbeResult
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, target models.Target) models.ProbeResult

func (f ExecutorFunc) Execute(ctx context.Context, target models.Target) models.ProbeResult {
	return f(ctx, target)
}

// Dispatcher is a bounded worker pool. Every target handed to it yields
// exactly one Outcome, including targets drained after cancellation.
type Dispatcher struct {
	workers int
	limiter *rate.Limiter
	logger  logger.Logger
	active  atomic.Int64
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithRateLimit caps probe starts across all workers to perSecond.
// Zero or negative disables the limit.
func WithRateLimit(perSecond float64) DispatcherOption {
	return func(d *Dispatcher) {
		if perSecond > 0 {
			d.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

func NewDispatcher(workers int, log logger.Logger, opts ...DispatcherOption) *Dispatcher {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	d := &Dispatcher{
		workers: workers,
		logger:  log,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Workers returns the configured concurrency bound.
func (d *Dispatcher) Workers() int {
	return d.workers
}

// Active returns the number of running worker goroutines.
func (d *Dispatcher) Active() int {
	return int(d.active.Load())
}

// Execute probes every target and blocks until all workers have exited.
// Results are in completion order.
func (d *Dispatcher) Execute(ctx context.Context, targets []models.Target, exec Executor) []models.Outcome {
	outcomes := make([]models.Outcome, 0, len(targets))

	for outcome := range d.Stream(ctx, targets, exec) {
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

// Stream starts the pool and returns a channel that is closed once every
// target has produced an outcome and every worker has exited.
func (d *Dispatcher) Stream(ctx context.Context, targets []models.Target, exec Executor) <-chan models.Outcome {
	resultCh := make(chan models.Outcome, len(targets))

	if len(targets) == 0 {
		close(resultCh)

		return resultCh
	}

	workers := min(d.workers, len(targets))
	workCh := make(chan models.Target, workers*defaultConcurrencyMultiplier)

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		d.active.Add(1)

		go func() {
			defer wg.Done()
			defer d.active.Add(-1)

			d.worker(ctx, workCh, resultCh, exec)
		}()
	}

	// closing workCh is the stop signal; workers keep draining after
	// cancellation so every queued target is answered
	go func() {
		defer close(workCh)

		for _, t := range targets {
			workCh <- t
		}
	}()

	go func() {
		wg.Wait()

		close(resultCh)
	}()

	return resultCh
}

func (d *Dispatcher) worker(
	ctx context.Context, workCh <-chan models.Target, resultCh chan<- models.Outcome, exec Executor) {
	for t := range workCh {
		resultCh <- models.Outcome{Target: t, Result: d.probe(ctx, t, exec)}
	}
}

func (d *Dispatcher) probe(ctx context.Context, t models.Target, exec Executor) (result models.ProbeResult) {
	if ctx.Err() != nil {
		return models.Failed()
	}

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return models.Failed()
		}
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().
				Err(fmt.Errorf("%w: %v", errProbePanicked, r)).
				Str("address", t.Address).
				Msg("Probe failed")

			result = models.Failed()
		}
	}()

	result = exec.Execute(ctx, t)
	if result.Fields == nil {
		result.Fields = map[string]interface{}{}
	}

	return result
}
