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

// Package cli builds the netscanner command tree.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carverauto/netscanner/pkg/config"
	"github.com/carverauto/netscanner/pkg/inventory"
	"github.com/carverauto/netscanner/pkg/logger"
)

// StoreOpener opens the inventory store described by the configuration.
type StoreOpener func(ctx context.Context, cfg *config.Config, log logger.Logger) (inventory.Store, error)

type app struct {
	configPath string
	verbosity  int

	cfg       *config.Config
	log       logger.Logger
	openStore StoreOpener
}

// Option customizes the command tree.
type Option func(*app)

// WithStoreOpener replaces the store selected by database.driver.
func WithStoreOpener(open StoreOpener) Option {
	return func(a *app) {
		a.openStore = open
	}
}

// NewRootCommand returns the netscanner root command.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{openStore: openStore}

	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:           "netscanner",
		Short:         "Network host discovery engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to a JSON or YAML configuration file")
	flags.CountVarP(&a.verbosity, "verbosity", "v", "Increase output verbosity (-v results, -vv destinations, -vvv traces)")

	root.AddGroup(
		&cobra.Group{ID: "tools", Title: "Tool runners:"},
		&cobra.Group{ID: "discovery", Title: "Discovery commands:"},
	)

	root.AddCommand(a.toolCommands()...)
	root.AddCommand(
		a.discoveryCommand(),
		a.sequenceCommand(),
		a.resultsCommand(),
		a.migrateCommand(),
	)

	return root
}

// Execute runs the command tree with os.Args.
func Execute(ctx context.Context, opts ...Option) error {
	return NewRootCommand(opts...).ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command) error {
	bootstrap, err := logger.Init(logger.DefaultConfig())
	if err != nil {
		return err
	}

	cfg, err := config.Load(a.configPath, bootstrap)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cmd.Flags().Changed("verbosity") {
		cfg.Logging.Level = logger.LevelForVerbosity(a.verbosity).String()
		cfg.Logging.Debug = false
	}

	log, err := logger.Init(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log.Debug().Interface("config", config.Redacted(cfg)).Msg("configuration loaded")

	a.cfg = cfg
	a.log = log

	return nil
}
