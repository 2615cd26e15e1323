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
	"fmt"
	"time"

	"github.com/carverauto/netscanner/pkg/models"
)

// ReapplyStats reports what a reapplication read and merged.
type ReapplyStats struct {
	Rows      int
	Malformed int
	Merge     MergeStats
}

// Reapply merges the stored results of a discovery again, without probing.
// Rows older than since are ignored; a zero since reads every row. The
// result log is not written.
func (o *Orchestrator) Reapply(ctx context.Context, name string, since time.Time) (ReapplyStats, error) {
	discovery, err := o.loadDiscovery(ctx, name)
	if err != nil {
		return ReapplyStats{}, err
	}

	if discovery.Tool() == ToolSequence {
		return ReapplyStats{}, fmt.Errorf("%w: %q", ErrIsSequence, name)
	}

	rows, err := o.store.ListDiscoveryResults(ctx, discovery.ID, since)
	if err != nil {
		return ReapplyStats{}, fmt.Errorf("failed to list results of %q: %w", name, err)
	}

	log := o.logger.WithFields(map[string]interface{}{"discovery": name})
	stats := ReapplyStats{Rows: len(rows)}
	outcomes := make([]models.Outcome, 0, len(rows))

	for _, row := range rows {
		result, err := DecodeResult(row.Results)
		if err != nil {
			stats.Malformed++
			log.Warn().Err(err).Int64("result_id", row.ID).Msg("Skipping stored result")

			continue
		}

		outcomes = append(outcomes, models.Outcome{
			Target: models.AddressTarget(row.Address),
			Result: result,
		})
	}

	merged, err := o.merger.Merge(ctx, o.store, MergeInput{
		Discovery: discovery,
		Outcomes:  outcomes,
		SkipLog:   true,
	})
	if err != nil {
		return stats, err
	}

	stats.Merge = merged
	log.Info().
		Int("rows", stats.Rows).
		Int("created", merged.Created).
		Int("updated", merged.Updated).
		Msg("Results reapplied")

	return stats, nil
}
