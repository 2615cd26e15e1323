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
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/carverauto/netscanner/pkg/config"
	"github.com/carverauto/netscanner/pkg/discovery"
	"github.com/carverauto/netscanner/pkg/inventory"
	"github.com/carverauto/netscanner/pkg/inventory/postgres"
)

func (a *app) discoveryCommand() *cobra.Command {
	var (
		common       runFlags
		name         string
		disabled     bool
		failing      bool
		destinations string
	)

	cmd := &cobra.Command{
		Use:     "discovery --discovery NAME",
		Short:   "Run a discovery by name",
		GroupID: "discovery",
		Args:    cobra.NoArgs,
		Example: `  netscanner discovery --discovery arp-lab
  netscanner discovery --discovery tcp-ssh --destinations "10.0.0.1 10.0.0.7" --failing`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name == "" {
				return errDiscoveryRequired
			}

			req := common.request(cmd.Flags())
			req.IncludeDisabled = disabled
			req.KeepFailed = failing
			req.Destinations = discovery.ParseDestinations(destinations)

			e, err := a.startEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer a.closeEngine(e)

			run, err := e.orchestrator.RunDiscovery(cmd.Context(), name, req)
			if run != nil {
				printRun(cmd.OutOrStdout(), run)
			}

			return err
		},
	}

	common.bind(cmd.Flags())

	flags := cmd.Flags()
	flags.StringVar(&name, "discovery", "", "Discovery name")
	flags.BoolVar(&disabled, "disabled", false, "Run the discovery even when it is disabled")
	flags.BoolVar(&failing, "failing", false, "Also log failed results")
	flags.StringVar(&destinations, "destinations", "", "Space separated destinations replacing the subnet")

	return cmd
}

func (a *app) sequenceCommand() *cobra.Command {
	var (
		common       runFlags
		name         string
		disabled     bool
		destinations string
	)

	cmd := &cobra.Command{
		Use:     "sequence --discovery NAME",
		Short:   "Run the steps of a sequence discovery in order",
		GroupID: "discovery",
		Args:    cobra.NoArgs,
		Example: `  netscanner sequence --discovery nightly
  netscanner sequence --discovery nightly --disabled --destinations "10.0.0.1 10.0.0.7"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name == "" {
				return errDiscoveryRequired
			}

			req := common.request(cmd.Flags())
			req.IncludeDisabled = disabled
			req.Destinations = discovery.ParseDestinations(destinations)

			e, err := a.startEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer a.closeEngine(e)

			seq, err := e.orchestrator.RunSequence(cmd.Context(), name, req)
			if seq != nil {
				printSequence(cmd.OutOrStdout(), seq)
			}

			return err
		},
	}

	common.bind(cmd.Flags())

	flags := cmd.Flags()
	flags.StringVar(&name, "discovery", "", "Sequence discovery name")
	flags.BoolVar(&disabled, "disabled", false, "Run the sequence even when it is disabled")
	flags.StringVar(&destinations, "destinations", "", "Space separated destinations passed to every step")

	return cmd
}

func (a *app) resultsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "results",
		Short:   "Work with stored discovery results",
		GroupID: "discovery",
	}

	var (
		name  string
		since string
	)

	reapply := &cobra.Command{
		Use:   "reapply --discovery NAME [--since TIME]",
		Short: "Merge stored results into the inventory again without probing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name == "" {
				return errDiscoveryRequired
			}

			from, err := parseSince(since, time.Now())
			if err != nil {
				return err
			}

			e, err := a.startEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer a.closeEngine(e)

			stats, err := e.orchestrator.Reapply(cmd.Context(), name, from)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "discovery=%s rows=%d malformed=%d created=%d updated=%d excluded=%d\n",
				name, stats.Rows, stats.Malformed, stats.Merge.Created, stats.Merge.Updated, stats.Merge.Excluded)

			return nil
		},
	}

	flags := reapply.Flags()
	flags.StringVar(&name, "discovery", "", "Discovery name")
	flags.StringVar(&since, "since", "", "Only rows at or after this RFC 3339 time, or this long ago (e.g. 24h)")

	cmd.AddCommand(reapply)

	return cmd
}

// parseSince accepts an RFC 3339 timestamp or a duration counted back from
// now. Empty means every row.
func parseSince(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return time.Time{}, fmt.Errorf("%w: %q", errInvalidSince, s)
	}

	return now.Add(-d), nil
}

func (a *app) migrateCommand() *cobra.Command {
	var seedFile string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the inventory schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Database.Driver != config.DriverPostgres {
				return fmt.Errorf("%w: database.driver is %q", errMigrateDriver, a.cfg.Database.Driver)
			}

			ctx := cmd.Context()

			store, err := postgres.New(ctx, a.cfg.Database.DSN(), a.log.WithComponent("postgres"))
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			if err := store.Migrate(ctx); err != nil {
				return err
			}

			if seedFile == "" {
				return nil
			}

			seed, err := inventory.LoadSeedFile(seedFile)
			if err != nil {
				return err
			}

			return store.Import(ctx, seed)
		},
	}

	cmd.Flags().StringVar(&seedFile, "seed", "", "Seed file imported after migrating")

	return cmd
}

func (a *app) closeEngine(e *engine) {
	if err := e.Close(); err != nil {
		a.log.Warn().Err(err).Msg("failed to shut down cleanly")
	}
}
