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
	"time"

	"github.com/carverauto/netscanner/pkg/models"
)

//go:generate mockgen -destination=mock_discovery.go -package=discovery github.com/carverauto/netscanner/pkg/discovery Publisher,Recorder

// Publisher announces run lifecycle events. Publishing failures never affect
// the run.
type Publisher interface {
	PublishRun(ctx context.Context, event *models.RunEvent) error
}

// Recorder receives run and probe measurements.
type Recorder interface {
	ProbeCompleted(tool string, succeeded bool)
	RunFinished(tool, state string, elapsed time.Duration)
	HostsMerged(action string, count int)
}

type nopPublisher struct{}

func (nopPublisher) PublishRun(context.Context, *models.RunEvent) error { return nil }

type nopRecorder struct{}

func (nopRecorder) ProbeCompleted(string, bool)               {}
func (nopRecorder) RunFinished(string, string, time.Duration) {}
func (nopRecorder) HostsMerged(string, int)                   {}
