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

	"github.com/carverauto/netscanner/pkg/inventory"
	"github.com/carverauto/netscanner/pkg/models"
)

// Import upserts the seed records by name in one transaction. Discovery
// last_scan stamps and host attributes filled by discovery are preserved.
func (s *Store) Import(ctx context.Context, seed *inventory.Seed) error {
	return s.RunInTx(ctx, func(ctx context.Context, tx inventory.Store) error {
		return tx.(*Store).importSeed(ctx, seed)
	})
}

type seedIDs struct {
	subnets        map[string]int64
	deviceModels   map[string]int64
	configurations map[string]int64
	scanners       map[string]int64
}

func (s *Store) importSeed(ctx context.Context, seed *inventory.Seed) error {
	ids := seedIDs{
		subnets:        make(map[string]int64, len(seed.Subnets)),
		deviceModels:   make(map[string]int64, len(seed.DeviceModels)),
		configurations: make(map[string]int64, len(seed.SNMPConfigurations)),
		scanners:       make(map[string]int64, len(seed.Scanners)),
	}

	steps := []func(context.Context, *inventory.Seed, *seedIDs) error{
		s.importCatalog,
		s.importConfigurations,
		s.importDiscoveries,
		s.importHosts,
	}

	for _, step := range steps {
		if err := step(ctx, seed, &ids); err != nil {
			return err
		}
	}

	s.logger.Info().
		Int("subnets", len(seed.Subnets)).
		Int("snmp_configurations", len(seed.SNMPConfigurations)).
		Int("discoveries", len(seed.Discoveries)).
		Int("hosts", len(seed.Hosts)).
		Msg("seed imported")

	return nil
}

func (s *Store) importCatalog(ctx context.Context, seed *inventory.Seed, ids *seedIDs) error {
	for _, sn := range seed.Subnets {
		var id int64

		err := s.q.QueryRow(ctx, `INSERT INTO subnets (name, subnet_ip, cidr) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET subnet_ip = EXCLUDED.subnet_ip, cidr = EXCLUDED.cidr
		RETURNING id`, sn.Name, sn.Address, sn.CIDR).Scan(&id)
		if err != nil {
			return fmt.Errorf("import subnet %q: %w", sn.Name, mapError(err))
		}

		ids.subnets[sn.Name] = id
	}

	for _, d := range seed.Domains {
		if _, err := s.q.Exec(ctx, `INSERT INTO domains (name, subdomain) VALUES ($1, $2)
		ON CONFLICT (name, subdomain) DO NOTHING`, d.Name, d.Subdomain); err != nil {
			return fmt.Errorf("import domain %s.%s: %w", d.Subdomain, d.Name, mapError(err))
		}
	}

	for _, v := range seed.SNMPVersions {
		if _, err := s.q.Exec(ctx, `INSERT INTO snmp_versions (name, version) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET version = EXCLUDED.version`, v.Name, v.Version); err != nil {
			return fmt.Errorf("import snmp version %q: %w", v.Name, mapError(err))
		}
	}

	for _, m := range seed.DeviceModels {
		var id int64

		err := s.q.QueryRow(ctx, `INSERT INTO device_models (name, brand) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET brand = EXCLUDED.brand
		RETURNING id`, m.Name, m.Brand).Scan(&id)
		if err != nil {
			return fmt.Errorf("import device model %q: %w", m.Name, mapError(err))
		}

		ids.deviceModels[m.Name] = id
	}

	for _, sc := range seed.Scanners {
		var id int64

		err := s.q.QueryRow(ctx, `INSERT INTO scanners (name, tool, options) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET tool = EXCLUDED.tool, options = EXCLUDED.options
		RETURNING id`, sc.Name, sc.Tool, sc.Options).Scan(&id)
		if err != nil {
			return fmt.Errorf("import scanner %q: %w", sc.Name, mapError(err))
		}

		ids.scanners[sc.Name] = id
	}

	return nil
}

func (s *Store) upsertValue(ctx context.Context, v models.SNMPValue) (int64, error) {
	var id int64

	err := s.q.QueryRow(ctx, `INSERT INTO snmp_values (name, section, brand, oid, format, lstrip, rstrip)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (section, brand, name, oid) DO UPDATE
		SET format = EXCLUDED.format, lstrip = EXCLUDED.lstrip, rstrip = EXCLUDED.rstrip
	RETURNING id`, v.Name, v.Section, v.Brand, v.OID, v.Format, v.LStrip, v.RStrip).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("import snmp value %q: %w", v.Label(), mapError(err))
	}

	return id, nil
}

func (s *Store) importConfigurations(ctx context.Context, seed *inventory.Seed, ids *seedIDs) error {
	for _, c := range seed.SNMPConfigurations {
		var (
			modelID      *int64
			autodetectID *int64
		)

		if c.DeviceModel != "" {
			id, err := lookupSeedName(ids.deviceModels, "device model", c.DeviceModel)
			if err != nil {
				return err
			}

			modelID = models.ID(id)
		}

		if c.Autodetect != nil {
			id, err := s.upsertValue(ctx, *c.Autodetect)
			if err != nil {
				return err
			}

			autodetectID = models.ID(id)
		}

		var configurationID int64

		err := s.q.QueryRow(ctx, `INSERT INTO snmp_configurations
			(name, device_model_id, autodetect_value_id, autodetect_value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET
			device_model_id = EXCLUDED.device_model_id,
			autodetect_value_id = EXCLUDED.autodetect_value_id,
			autodetect_value = EXCLUDED.autodetect_value
		RETURNING id`, c.Name, modelID, autodetectID, c.AutodetectValue).Scan(&configurationID)
		if err != nil {
			return fmt.Errorf("import snmp configuration %q: %w", c.Name, mapError(err))
		}

		if _, err := s.q.Exec(ctx, `DELETE FROM snmp_configuration_values WHERE configuration_id = $1`,
			configurationID); err != nil {
			return fmt.Errorf("import snmp configuration %q: %w", c.Name, mapError(err))
		}

		for position, v := range c.Values {
			valueID, err := s.upsertValue(ctx, v.SNMPValue)
			if err != nil {
				return err
			}

			if _, err := s.q.Exec(ctx, `INSERT INTO snmp_configuration_values
				(configuration_id, value_id, field, position) VALUES ($1, $2, $3, $4)
			ON CONFLICT (configuration_id, value_id) DO UPDATE SET field = EXCLUDED.field, position = EXCLUDED.position`,
				configurationID, valueID, v.Field, position); err != nil {
				return fmt.Errorf("import snmp configuration %q: %w", c.Name, mapError(err))
			}
		}

		ids.configurations[c.Name] = configurationID
	}

	for _, m := range seed.DeviceModels {
		if m.Configuration == "" {
			continue
		}

		configurationID, err := lookupSeedName(ids.configurations, "SNMP configuration", m.Configuration)
		if err != nil {
			return err
		}

		if _, err := s.q.Exec(ctx, `UPDATE device_models SET snmp_configuration_id = $2 WHERE id = $1`,
			ids.deviceModels[m.Name], configurationID); err != nil {
			return fmt.Errorf("import device model %q: %w", m.Name, mapError(err))
		}
	}

	return nil
}

func (s *Store) importDiscoveries(ctx context.Context, seed *inventory.Seed, ids *seedIDs) error {
	for _, d := range seed.Discoveries {
		scannerID, err := lookupSeedName(ids.scanners, "scanner", d.Scanner)
		if err != nil {
			return err
		}

		var subnetID *int64

		if d.Subnet != "" {
			id, err := lookupSeedName(ids.subnets, "subnet", d.Subnet)
			if err != nil {
				return err
			}

			subnetID = models.ID(id)
		}

		options, err := d.OptionBlob()
		if err != nil {
			return err
		}

		enabled := d.Enabled == nil || *d.Enabled

		if _, err := s.q.Exec(ctx, `INSERT INTO discoveries
			(name, subnet_id, enabled, scanner_id, timeout, workers, options, interval)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (name) DO UPDATE SET
			subnet_id = EXCLUDED.subnet_id, enabled = EXCLUDED.enabled, scanner_id = EXCLUDED.scanner_id,
			timeout = EXCLUDED.timeout, workers = EXCLUDED.workers, options = EXCLUDED.options,
			interval = EXCLUDED.interval`,
			d.Name, subnetID, enabled, scannerID, d.Timeout, d.Workers, options, d.Interval); err != nil {
			return fmt.Errorf("import discovery %q: %w", d.Name, mapError(err))
		}
	}

	return nil
}

func (s *Store) importHosts(ctx context.Context, seed *inventory.Seed, ids *seedIDs) error {
	for _, h := range seed.Hosts {
		name := h.Name
		if name == "" {
			name = h.Address
		}

		var subnetID, modelID, configurationID *int64

		refs := []struct {
			table map[string]int64
			kind  string
			name  string
			dst   **int64
		}{
			{ids.subnets, "subnet", h.Subnet, &subnetID},
			{ids.deviceModels, "device model", h.DeviceModel, &modelID},
			{ids.configurations, "SNMP configuration", h.Configuration, &configurationID},
		}

		for _, ref := range refs {
			if ref.name == "" {
				continue
			}

			id, err := lookupSeedName(ref.table, ref.kind, ref.name)
			if err != nil {
				return err
			}

			*ref.dst = models.ID(id)
		}

		if _, err := s.q.Exec(ctx, `INSERT INTO hosts
			(name, address, subnet_id, device_model_id, snmp_configuration_id,
			 snmp_version, snmp_community, enabled, no_discovery)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8)
		ON CONFLICT ((COALESCE(location_id, 0)), name, address) DO UPDATE SET
			subnet_id = EXCLUDED.subnet_id, device_model_id = EXCLUDED.device_model_id,
			snmp_configuration_id = EXCLUDED.snmp_configuration_id, snmp_version = EXCLUDED.snmp_version,
			snmp_community = EXCLUDED.snmp_community, no_discovery = EXCLUDED.no_discovery`,
			name, h.Address, subnetID, modelID, configurationID,
			h.SNMPVersion, h.SNMPCommunity, h.NoDiscovery); err != nil {
			return fmt.Errorf("import host %s/%s: %w", name, h.Address, mapError(err))
		}
	}

	return nil
}

func lookupSeedName(table map[string]int64, kind, name string) (int64, error) {
	id, ok := table[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s %q", inventory.ErrNotFound, kind, name)
	}

	return id, nil
}
