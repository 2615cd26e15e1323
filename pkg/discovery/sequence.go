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

package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carverauto/netscanner/pkg/inventory"
	"github.com/carverauto/netscanner/pkg/logger"
	"github.com/carverauto/netscanner/pkg/models"
)

// ToolSequence is the tool identifier of sequence discoveries. Their option
// blob is a JSON array of {"discovery", "wait"} steps.
const ToolSequence = "sequence"

// SequenceRun tracks one execution of a sequence discovery.
type SequenceRun struct {
	ID        string
	Sequence  string
	State     State
	Steps     []*Run
	StartedAt time.Time
	EndedAt   time.Time
}

// Failed returns the step runs that ended in StateFailed.
func (s *SequenceRun) Failed() []*Run {
	var failed []*Run

	for _, run := range s.Steps {
		if run.State == StateFailed {
			failed = append(failed, run)
		}
	}

	return failed
}

// RunSequence loads a sequence discovery by name and runs it.
func (o *Orchestrator) RunSequence(ctx context.Context, name string, req RunRequest) (*SequenceRun, error) {
	seq, err := o.loadDiscovery(ctx, name)
	if err != nil {
		return nil, err
	}

	return o.Sequence(ctx, seq, req)
}

// Sequence runs every step discovery in order, sleeping after each step for
// its wait. Step discoveries run even when disabled; a failed step does not
// stop the chain. The sequence last scan is stamped once every step is done.
func (o *Orchestrator) Sequence(ctx context.Context, seq *models.Discovery, req RunRequest) (*SequenceRun, error) {
	if seq.Tool() != ToolSequence {
		return nil, fmt.Errorf("%w: %q", ErrNotSequence, seq.Name)
	}

	sr := &SequenceRun{
		ID:        uuid.New().String(),
		Sequence:  seq.Name,
		State:     StateIdle,
		StartedAt: o.now(),
	}

	log := o.logger.WithFields(map[string]interface{}{
		"sequence": seq.Name,
		"run_id":   sr.ID,
	})

	if !seq.Enabled && !req.IncludeDisabled {
		sr.State = StateSkipped
		sr.EndedAt = o.now()
		log.Info().Msg("Sequence is disabled")

		return sr, nil
	}

	steps, discoveries, err := o.sequenceSteps(ctx, seq)
	if err != nil {
		sr.State = StateFailed
		sr.EndedAt = o.now()
		log.Error().Err(err).Msg("Sequence failed")

		return sr, err
	}

	stepReq := req
	stepReq.IncludeDisabled = true

	for i, step := range steps {
		log.Info().Int("step", i+1).Str("discovery", step.Discovery).Msg("Running sequence step")

		run, err := o.Run(ctx, discoveries[i], stepReq)
		sr.Steps = append(sr.Steps, run)

		if err != nil {
			log.Warn().Err(err).Str("discovery", step.Discovery).Msg("Sequence step failed")
		}

		if wait := step.WaitDuration(); wait > 0 {
			log.Debug().Dur("wait", wait).Msg("Waiting before next step")

			if err := o.sleep(ctx, wait); err != nil {
				sr.State = StateFailed
				sr.EndedAt = o.now()

				return sr, err
			}
		}
	}

	o.stampLastScan(ctx, log, seq)

	sr.State = StateCompleted
	sr.EndedAt = o.now()
	log.Info().
		Int("steps", len(sr.Steps)).
		Int("failed", len(sr.Failed())).
		Msg("Sequence completed")

	return sr, nil
}

// sequenceSteps parses the step list and loads every step discovery before
// the first one runs.
func (o *Orchestrator) sequenceSteps(
	ctx context.Context, seq *models.Discovery) ([]models.SequenceStep, []*models.Discovery, error) {
	steps, err := models.ParseSequence(seq.Options)
	if err != nil {
		return nil, nil, fmt.Errorf("sequence %q: %w", seq.Name, err)
	}

	discoveries := make([]*models.Discovery, len(steps))

	for i, step := range steps {
		discovery, err := o.store.GetDiscoveryByName(ctx, step.Discovery)
		if errors.Is(err, inventory.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownStep, step.Discovery)
		}

		if err != nil {
			return nil, nil, fmt.Errorf("failed to load step %q: %w", step.Discovery, err)
		}

		if discovery.Tool() == ToolSequence {
			return nil, nil, fmt.Errorf("%w: step %q", ErrIsSequence, step.Discovery)
		}

		discoveries[i] = discovery
	}

	return steps, discoveries, nil
}

func (o *Orchestrator) stampLastScan(ctx context.Context, log logger.Logger, discovery *models.Discovery) {
	if err := o.store.UpdateDiscoveryLastScan(ctx, discovery.ID, o.now()); err != nil {
		log.Error().Err(err).Msg("failed to stamp last scan")
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
