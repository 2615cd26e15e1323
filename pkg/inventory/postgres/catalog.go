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

func (s *Store) GetSubnet(ctx context.Context, id int64) (*models.Subnet, error) {
	return s.querySubnet(ctx, fmt.Sprintf("subnet %d", id), `WHERE id = $1`, id)
}

func (s *Store) FindSubnetByName(ctx context.Context, name string) (*models.Subnet, error) {
	return s.querySubnet(ctx, fmt.Sprintf("subnet %q", name), `WHERE name = $1`, name)
}

func (s *Store) querySubnet(ctx context.Context, label, where string, arg any) (*models.Subnet, error) {
	var sn models.Subnet

	err := s.q.QueryRow(ctx, `SELECT id, name, subnet_ip, cidr FROM subnets `+where, arg).
		Scan(&sn.ID, &sn.Name, &sn.Address, &sn.CIDR)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, mapError(err))
	}

	return &sn, nil
}

func (s *Store) FindDomain(ctx context.Context, name, subdomain string) (*models.Domain, error) {
	var d models.Domain

	err := s.q.QueryRow(ctx, `SELECT id, name, subdomain FROM domains
	WHERE name = $1 AND subdomain = $2
	ORDER BY id LIMIT 1`, name, subdomain).Scan(&d.ID, &d.Name, &d.Subdomain)
	if err != nil {
		return nil, fmt.Errorf("domain %s.%s: %w", subdomain, name, mapError(err))
	}

	return &d, nil
}

func (s *Store) GetDeviceModel(ctx context.Context, id int64) (*models.DeviceModel, error) {
	var m models.DeviceModel

	err := s.q.QueryRow(ctx, `SELECT id, name, brand, snmp_configuration_id FROM device_models WHERE id = $1`, id).
		Scan(&m.ID, &m.Name, &m.Brand, &m.SNMPConfigurationID)
	if err != nil {
		return nil, fmt.Errorf("device model %d: %w", id, mapError(err))
	}

	return &m, nil
}

func (s *Store) FindSNMPVersion(ctx context.Context, name string) (*models.SNMPVersion, error) {
	var v models.SNMPVersion

	err := s.q.QueryRow(ctx, `SELECT id, name, version FROM snmp_versions WHERE name = $1`, name).
		Scan(&v.ID, &v.Name, &v.Version)
	if err != nil {
		return nil, fmt.Errorf("snmp version %q: %w", name, mapError(err))
	}

	return &v, nil
}

const configurationSelect = `SELECT c.id, c.name, c.device_model_id, c.autodetect_value,
	v.id, v.name, v.section, v.brand, v.oid, v.format, v.lstrip, v.rstrip
FROM snmp_configurations c
LEFT JOIN snmp_values v ON v.id = c.autodetect_value_id`

func scanConfiguration(row pgx.Row) (*models.SNMPConfiguration, error) {
	var (
		c       models.SNMPConfiguration
		valueID *int64
		name    *string
		section *string
		brand   *string
		oid     *string
		format  *string
		lstrip  *bool
		rstrip  *bool
	)

	err := row.Scan(&c.ID, &c.Name, &c.DeviceModelID, &c.AutodetectValue,
		&valueID, &name, &section, &brand, &oid, &format, &lstrip, &rstrip)
	if err != nil {
		return nil, err
	}

	if valueID != nil {
		c.Autodetect = &models.SNMPValue{
			ID:      *valueID,
			Name:    deref(name),
			Section: deref(section),
			Brand:   deref(brand),
			OID:     deref(oid),
			Format:  deref(format),
			LStrip:  deref(lstrip),
			RStrip:  deref(rstrip),
		}
	}

	return &c, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}

	return *p
}

func (s *Store) GetSNMPConfiguration(ctx context.Context, id int64) (*models.SNMPConfiguration, error) {
	return s.queryConfiguration(ctx, fmt.Sprintf("snmp configuration %d", id), ` WHERE c.id = $1`, id)
}

func (s *Store) FindSNMPConfigurationByName(ctx context.Context, name string) (*models.SNMPConfiguration, error) {
	return s.queryConfiguration(ctx, fmt.Sprintf("snmp configuration %q", name), ` WHERE c.name = $1`, name)
}

func (s *Store) queryConfiguration(
	ctx context.Context, label, where string, arg any) (*models.SNMPConfiguration, error) {
	c, err := scanConfiguration(s.q.QueryRow(ctx, configurationSelect+where, arg))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, mapError(err))
	}

	if err := s.loadValues(ctx, []*models.SNMPConfiguration{c}); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Store) ListSNMPConfigurationsByDeviceModel(
	ctx context.Context, deviceModelID int64) ([]*models.SNMPConfiguration, error) {
	return s.listConfigurations(ctx, configurationSelect+` WHERE c.device_model_id = $1 ORDER BY c.name`, deviceModelID)
}

// listConfigurations drains the result set before loading values since a
// transaction connection cannot run a second query while rows are open.
func (s *Store) listConfigurations(ctx context.Context, query string, args ...any) ([]*models.SNMPConfiguration, error) {
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query snmp configurations: %w", err)
	}
	defer rows.Close()

	var configurations []*models.SNMPConfiguration

	for rows.Next() {
		c, err := scanConfiguration(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan snmp configuration: %w", err)
		}

		configurations = append(configurations, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate snmp configurations: %w", err)
	}

	rows.Close()

	if err := s.loadValues(ctx, configurations); err != nil {
		return nil, err
	}

	return configurations, nil
}

func (s *Store) loadValues(ctx context.Context, configurations []*models.SNMPConfiguration) error {
	if len(configurations) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(configurations))
	byID := make(map[int64]*models.SNMPConfiguration, len(configurations))

	for _, c := range configurations {
		ids = append(ids, c.ID)
		byID[c.ID] = c
	}

	rows, err := s.q.Query(ctx, `SELECT cv.configuration_id, cv.field,
		v.id, v.name, v.section, v.brand, v.oid, v.format, v.lstrip, v.rstrip
	FROM snmp_configuration_values cv
	JOIN snmp_values v ON v.id = cv.value_id
	WHERE cv.configuration_id = ANY($1)
	ORDER BY cv.configuration_id, cv.position, v.id`, ids)
	if err != nil {
		return fmt.Errorf("postgres: query snmp values: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			configurationID int64
			cv              models.SNMPConfigurationValue
		)

		err := rows.Scan(&configurationID, &cv.Field,
			&cv.Value.ID, &cv.Value.Name, &cv.Value.Section, &cv.Value.Brand, &cv.Value.OID,
			&cv.Value.Format, &cv.Value.LStrip, &cv.Value.RStrip)
		if err != nil {
			return fmt.Errorf("postgres: scan snmp value: %w", err)
		}

		if c, ok := byID[configurationID]; ok {
			c.Values = append(c.Values, cv)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("postgres: iterate snmp values: %w", err)
	}

	return nil
}

func (s *Store) ListAutodetectModels(ctx context.Context) ([]models.AutodetectModel, error) {
	configurations, err := s.listConfigurations(ctx, configurationSelect+`
	WHERE c.device_model_id IS NOT NULL AND c.autodetect_value_id IS NOT NULL
	ORDER BY c.name`)
	if err != nil {
		return nil, err
	}

	pairs := make([]models.AutodetectModel, 0, len(configurations))

	for _, c := range configurations {
		m, err := s.GetDeviceModel(ctx, *c.DeviceModelID)
		if err != nil {
			return nil, err
		}

		pairs = append(pairs, models.AutodetectModel{Model: *m, Configuration: *c})
	}

	return pairs, nil
}
