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

package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/carverauto/netscanner/pkg/inventory"
	"github.com/carverauto/netscanner/pkg/models"
)

const discoverySelect = `SELECT d.id, d.name, d.subnet_id, d.enabled, d.timeout, d.workers, d.options,
	d.interval, d.last_scan, s.id, s.name, s.tool, s.options
FROM discoveries d
JOIN scanners s ON s.id = d.scanner_id`

func scanDiscovery(row pgx.Row) (*models.Discovery, error) {
	var d models.Discovery

	err := row.Scan(
		&d.ID, &d.Name, &d.SubnetID, &d.Enabled, &d.Timeout, &d.Workers, &d.Options,
		&d.Interval, &d.LastScan, &d.Scanner.ID, &d.Scanner.Name, &d.Scanner.Tool, &d.Scanner.Options,
	)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

// discoveryWhere renders the filter as a WHERE clause with positional args.
func discoveryWhere(filter inventory.DiscoveryFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	if filter.Name != "" {
		args = append(args, filter.Name)
		clauses = append(clauses, fmt.Sprintf("d.name = $%d", len(args)))
	}

	if filter.Tool != "" {
		args = append(args, filter.Tool)
		clauses = append(clauses, fmt.Sprintf("s.tool = $%d", len(args)))
	}

	if filter.EnabledOnly {
		clauses = append(clauses, "d.enabled")
	}

	if len(clauses) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (s *Store) FindDiscoveries(ctx context.Context, filter inventory.DiscoveryFilter) ([]*models.Discovery, error) {
	where, args := discoveryWhere(filter)

	rows, err := s.q.Query(ctx, discoverySelect+where+" ORDER BY d.name", args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query discoveries: %w", err)
	}
	defer rows.Close()

	var discoveries []*models.Discovery

	for rows.Next() {
		d, err := scanDiscovery(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan discovery: %w", err)
		}

		discoveries = append(discoveries, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate discoveries: %w", err)
	}

	return discoveries, nil
}

func (s *Store) GetDiscoveryByName(ctx context.Context, name string) (*models.Discovery, error) {
	d, err := scanDiscovery(s.q.QueryRow(ctx, discoverySelect+" WHERE d.name = $1", name))
	if err != nil {
		return nil, fmt.Errorf("discovery %q: %w", name, mapError(err))
	}

	return d, nil
}

func (s *Store) UpdateDiscoveryLastScan(ctx context.Context, id int64, at time.Time) error {
	tag, err := s.q.Exec(ctx, `UPDATE discoveries SET last_scan = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("discovery %d: %w", id, mapError(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("discovery %d: %w", id, inventory.ErrNotFound)
	}

	return nil
}

func (s *Store) AppendDiscoveryResult(ctx context.Context, result *models.DiscoveryResult) error {
	err := s.q.QueryRow(ctx, `INSERT INTO discovery_results
		(discovery_id, run_id, address, options, scan_datetime, results)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id`,
		result.DiscoveryID, result.RunID, result.Address, result.Options, result.ScanDatetime, result.Results,
	).Scan(&result.ID)
	if err != nil {
		return fmt.Errorf("append result for discovery %d: %w", result.DiscoveryID, mapError(err))
	}

	return nil
}

func (s *Store) ListDiscoveryResults(
	ctx context.Context, discoveryID int64, since time.Time) ([]*models.DiscoveryResult, error) {
	rows, err := s.q.Query(ctx, `SELECT id, discovery_id, run_id, address, options, scan_datetime, results
	FROM discovery_results
	WHERE discovery_id = $1 AND scan_datetime >= $2
	ORDER BY scan_datetime, id`, discoveryID, since)
	if err != nil {
		return nil, fmt.Errorf("postgres: query discovery results: %w", err)
	}
	defer rows.Close()

	var results []*models.DiscoveryResult

	for rows.Next() {
		var r models.DiscoveryResult

		if err := rows.Scan(&r.ID, &r.DiscoveryID, &r.RunID, &r.Address, &r.Options, &r.ScanDatetime, &r.Results); err != nil {
			return nil, fmt.Errorf("postgres: scan discovery result: %w", err)
		}

		results = append(results, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate discovery results: %w", err)
	}

	return results, nil
}
