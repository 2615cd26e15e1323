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

	"github.com/jackc/pgx/v5"

	"github.com/carverauto/netscanner/pkg/models"
)

const addressLockPrefix = "netscanner.hosts:"

const hostColumns = `id, name, address, mac_address, hostname, serial, description, area, position,
	subnet_id, domain_id, device_model_id, operating_system_id, company_id, location_id,
	snmp_configuration_id, snmp_version, snmp_community, enabled, no_discovery, last_seen`

func scanHost(row pgx.Row) (*models.Host, error) {
	var h models.Host

	err := row.Scan(
		&h.ID, &h.Name, &h.Address, &h.MACAddress, &h.Hostname, &h.Serial, &h.Description, &h.Area, &h.Position,
		&h.SubnetID, &h.DomainID, &h.DeviceModelID, &h.OperatingSystemID, &h.CompanyID, &h.LocationID,
		&h.SNMPConfigurationID, &h.SNMPVersion, &h.SNMPCommunity, &h.Enabled, &h.NoDiscovery, &h.LastSeen,
	)
	if err != nil {
		return nil, err
	}

	return &h, nil
}

func (s *Store) queryHosts(ctx context.Context, query string, args ...any) ([]*models.Host, error) {
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query hosts: %w", err)
	}
	defer rows.Close()

	var hosts []*models.Host

	for rows.Next() {
		h, err := scanHost(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan host: %w", err)
		}

		hosts = append(hosts, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate hosts: %w", err)
	}

	return hosts, nil
}

// forUpdate locks the selected host rows until the bound transaction ends, so
// read-modify-write merges of one host serialize.
func (s *Store) forUpdate() string {
	if s.tx == nil {
		return ""
	}

	return " FOR UPDATE"
}

// lockAddress takes a transaction-scoped advisory lock on an address. It also
// covers addresses with no host row yet, which FOR UPDATE cannot lock.
func (s *Store) lockAddress(ctx context.Context, address string) error {
	if s.tx == nil {
		return nil
	}

	if _, err := s.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, addressLockPrefix+address); err != nil {
		return fmt.Errorf("postgres: lock address %s: %w", address, err)
	}

	return nil
}

func (s *Store) FindHostsByAddress(ctx context.Context, address string) ([]*models.Host, error) {
	if err := s.lockAddress(ctx, address); err != nil {
		return nil, err
	}

	return s.queryHosts(ctx, `SELECT `+hostColumns+` FROM hosts WHERE address = $1 ORDER BY id`+s.forUpdate(), address)
}

func (s *Store) FindHostsByAddresses(ctx context.Context, addresses []string) ([]*models.Host, error) {
	if len(addresses) == 0 {
		return nil, nil
	}

	return s.queryHosts(ctx,
		`SELECT `+hostColumns+` FROM hosts WHERE address = ANY($1) ORDER BY id`+s.forUpdate(), addresses)
}

func (s *Store) GetHost(ctx context.Context, id int64) (*models.Host, error) {
	h, err := scanHost(s.q.QueryRow(ctx, `SELECT `+hostColumns+` FROM hosts WHERE id = $1`+s.forUpdate(), id))
	if err != nil {
		return nil, fmt.Errorf("host %d: %w", id, mapError(err))
	}

	return h, nil
}

func (s *Store) CreateHost(ctx context.Context, host *models.Host) (*models.Host, error) {
	row := s.q.QueryRow(ctx, `INSERT INTO hosts (
		name, address, mac_address, hostname, serial, description, area, position,
		subnet_id, domain_id, device_model_id, operating_system_id, company_id, location_id,
		snmp_configuration_id, snmp_version, snmp_community, enabled, no_discovery, last_seen
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	RETURNING `+hostColumns,
		host.Name, host.Address, host.MACAddress, host.Hostname, host.Serial, host.Description, host.Area,
		host.Position, host.SubnetID, host.DomainID, host.DeviceModelID, host.OperatingSystemID, host.CompanyID,
		host.LocationID, host.SNMPConfigurationID, host.SNMPVersion, host.SNMPCommunity, host.Enabled,
		host.NoDiscovery, host.LastSeen,
	)

	created, err := scanHost(row)
	if err != nil {
		return nil, fmt.Errorf("create host %s/%s: %w", host.Name, host.Address, mapError(err))
	}

	return created, nil
}

func (s *Store) UpdateHost(ctx context.Context, host *models.Host) error {
	tag, err := s.q.Exec(ctx, `UPDATE hosts SET
		name = $2, address = $3, mac_address = $4, hostname = $5, serial = $6, description = $7,
		area = $8, position = $9, subnet_id = $10, domain_id = $11, device_model_id = $12,
		operating_system_id = $13, company_id = $14, location_id = $15, snmp_configuration_id = $16,
		snmp_version = $17, snmp_community = $18, enabled = $19, no_discovery = $20, last_seen = $21
	WHERE id = $1`,
		host.ID, host.Name, host.Address, host.MACAddress, host.Hostname, host.Serial, host.Description,
		host.Area, host.Position, host.SubnetID, host.DomainID, host.DeviceModelID, host.OperatingSystemID,
		host.CompanyID, host.LocationID, host.SNMPConfigurationID, host.SNMPVersion, host.SNMPCommunity,
		host.Enabled, host.NoDiscovery, host.LastSeen,
	)
	if err != nil {
		return fmt.Errorf("update host %d: %w", host.ID, mapError(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update host %d: %w", host.ID, mapError(pgx.ErrNoRows))
	}

	return nil
}
