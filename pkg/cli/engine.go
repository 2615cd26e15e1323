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

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/carverauto/netscanner/pkg/config"
	"github.com/carverauto/netscanner/pkg/discovery"
	"github.com/carverauto/netscanner/pkg/events"
	"github.com/carverauto/netscanner/pkg/inventory"
	"github.com/carverauto/netscanner/pkg/inventory/postgres"
	"github.com/carverauto/netscanner/pkg/logger"
	"github.com/carverauto/netscanner/pkg/metrics"
	"github.com/carverauto/netscanner/pkg/probe"
)

// openStore opens the store selected by database.driver. The memory store
// is loaded from seed_file when one is configured.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (inventory.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.Database.DSN(), log.WithComponent("postgres"))
	default:
		store := inventory.NewMemoryStore()

		if cfg.SeedFile == "" {
			log.Warn().Msg("memory store without seed_file, no discoveries are defined")

			return store, nil
		}

		seed, err := inventory.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			return nil, err
		}

		if err := store.Apply(seed); err != nil {
			return nil, fmt.Errorf("failed to apply seed file %s: %w", cfg.SeedFile, err)
		}

		return store, nil
	}
}

// engine is everything a discovery command needs, wired from configuration.
type engine struct {
	store        inventory.Store
	orchestrator *discovery.Orchestrator
	publisher    *events.Publisher
	recorder     *metrics.Recorder

	stopMetrics context.CancelFunc
	metricsDone chan error
	logger      logger.Logger
}

func (a *app) startEngine(ctx context.Context) (*engine, error) {
	store, err := a.openStore(ctx, a.cfg, a.log)
	if err != nil {
		return nil, err
	}

	e := &engine{
		store:    store,
		recorder: metrics.NewRecorder(),
		logger:   a.log,
	}

	opts := []discovery.Option{discovery.WithRecorder(e.recorder)}

	publisher, err := events.Connect(ctx, a.cfg.NATS, a.log.WithComponent("events"))
	if err != nil {
		_ = e.Close()

		return nil, err
	}

	// Connect returns a nil publisher when events are disabled.
	if publisher != nil {
		e.publisher = publisher
		opts = append(opts, discovery.WithPublisher(publisher))
	}

	if a.cfg.Metrics.Listen != "" {
		srv, err := metrics.Listen(a.cfg.Metrics.Listen, e.recorder, a.log.WithComponent("metrics"))
		if err != nil {
			_ = e.Close()

			return nil, err
		}

		serveCtx, cancel := context.WithCancel(ctx)
		e.stopMetrics = cancel
		e.metricsDone = make(chan error, 1)

		go func() {
			e.metricsDone <- srv.Serve(serveCtx)
		}()
	}

	e.orchestrator = discovery.NewOrchestrator(
		store, probe.DefaultRegistry(), a.log.WithComponent("discovery"), a.cfg.Engine.Discovery(), opts...)

	return e, nil
}

// Close stops the metrics endpoint, drains the event connection and closes
// the store.
func (e *engine) Close() error {
	var errs []error

	if e.stopMetrics != nil {
		e.stopMetrics()

		if err := <-e.metricsDone; err != nil {
			errs = append(errs, err)
		}
	}

	if e.publisher != nil {
		if err := e.publisher.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := e.store.Close(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
