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

// Package probe implements the network probes run by discoveries and the
// registry that maps tool identifiers to probe factories.
package probe

import (
	"context"
	"time"

	"github.com/carverauto/netscanner/pkg/logger"
	"github.com/carverauto/netscanner/pkg/models"
)

const (
	defaultTimeout     = time.Second
	defaultHostTimeout = 30 * time.Second
)

// Probe performs one network operation per target. Execute never returns an
// error: transport failures become a failed ProbeResult.
type Probe interface {
	Tool() string
	Execute(ctx context.Context, target models.Target) models.ProbeResult
}

// Env carries what a factory needs besides the tool options.
type Env struct {
	Catalog Catalog
	Logger  logger.Logger
	// Timeout is the per-target timeout; zero selects the tool default.
	Timeout time.Duration
	// Strict rejects unknown option keys instead of ignoring them.
	Strict bool
}

func (e Env) timeoutOr(fallback time.Duration) time.Duration {
	if e.Timeout > 0 {
		return e.Timeout
	}

	return fallback
}

func (e Env) log(tool string) logger.Logger {
	if e.Logger == nil {
		return logger.NewTestLogger().WithComponent(tool)
	}

	return e.Logger.WithComponent(tool)
}
