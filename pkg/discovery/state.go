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
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carverauto/netscanner/pkg/models"
)

// State is the lifecycle state of one discovery run.
type State string

const (
	StateIdle        State = "idle"
	StateEnumerating State = "enumerating"
	StateDispatching State = "dispatching"
	StateMerging     State = "merging"
	StateCompleted   State = "completed"
	StateSkipped     State = "skipped"
	StateFailed      State = "failed"
)

var transitions = map[State][]State{
	StateIdle:        {StateEnumerating, StateSkipped},
	StateEnumerating: {StateDispatching, StateFailed},
	StateDispatching: {StateMerging, StateFailed},
	StateMerging:     {StateCompleted, StateFailed},
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	_, ok := transitions[s]

	return !ok
}

// Run tracks one execution of a discovery.
type Run struct {
	ID        string
	Discovery string
	Tool      string
	State     State
	Targets   int
	Succeeded int
	Merge     MergeStats
	Options   models.Options
	StartedAt time.Time
	EndedAt   time.Time
	// Err is set when the run ends in StateFailed.
	Err error

	history []State
}

func newRun(discovery *models.Discovery, now time.Time) *Run {
	return &Run{
		ID:        uuid.New().String(),
		Discovery: discovery.Name,
		Tool:      discovery.Tool(),
		State:     StateIdle,
		StartedAt: now,
		history:   []State{StateIdle},
	}
}

// History returns every state the run went through, in order.
func (r *Run) History() []State {
	return append([]State(nil), r.history...)
}

func (r *Run) transition(to State) error {
	for _, allowed := range transitions[r.State] {
		if allowed == to {
			r.State = to
			r.history = append(r.history, to)

			return nil
		}
	}

	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.State, to)
}

func (r *Run) event(now time.Time) *models.RunEvent {
	event := &models.RunEvent{
		RunID:     r.ID,
		Discovery: r.Discovery,
		Tool:      r.Tool,
		State:     string(r.State),
		Targets:   r.Targets,
		Succeeded: r.Succeeded,
		Created:   r.Merge.Created,
		Updated:   r.Merge.Updated,
		Timestamp: now,
	}

	if r.Err != nil {
		event.Error = r.Err.Error()
	}

	return event
}
