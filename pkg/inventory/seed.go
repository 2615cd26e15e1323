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

package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/carverauto/netscanner/pkg/models"
)

// Seed is the content of an inventory seed file. Discoveries and hosts refer
// to other records by name.
type Seed struct {
	Subnets            []models.Subnet      `json:"subnets"`
	Domains            []models.Domain      `json:"domains"`
	DeviceModels       []SeedDeviceModel    `json:"device_models"`
	SNMPVersions       []models.SNMPVersion `json:"snmp_versions"`
	SNMPConfigurations []SeedConfiguration  `json:"snmp_configurations"`
	Scanners           []models.Scanner     `json:"scanners"`
	Discoveries        []SeedDiscovery      `json:"discoveries"`
	Hosts              []SeedHost           `json:"hosts"`
}

type SeedDeviceModel struct {
	Name  string `json:"name"`
	Brand string `json:"brand"`
	// Configuration names the model's default SNMP configuration.
	Configuration string `json:"snmp_configuration"`
}

type SeedConfiguration struct {
	Name            string            `json:"name"`
	DeviceModel     string            `json:"device_model"`
	Values          []SeedConfigValue `json:"values"`
	Autodetect      *models.SNMPValue `json:"autodetect,omitempty"`
	AutodetectValue string            `json:"autodetect_value"`
}

type SeedConfigValue struct {
	models.SNMPValue
	Field string `json:"field"`
}

type SeedDiscovery struct {
	Name     string `json:"name"`
	Subnet   string `json:"subnet"`
	Scanner  string `json:"scanner"`
	Enabled  *bool  `json:"enabled,omitempty"`
	Timeout  int    `json:"timeout"`
	Workers  int    `json:"workers"`
	Interval int    `json:"interval"`
	// Options is either a JSON object string or an inline mapping.
	Options interface{} `json:"options,omitempty"`
}

type SeedHost struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Subnet        string `json:"subnet"`
	DeviceModel   string `json:"device_model"`
	Configuration string `json:"snmp_configuration"`
	SNMPVersion   string `json:"snmp_version"`
	SNMPCommunity string `json:"snmp_community"`
	NoDiscovery   bool   `json:"no_discovery"`
}

// LoadSeedFile reads a YAML or JSON seed file.
func LoadSeedFile(path string) (*Seed, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	return ParseSeed(data)
}

// ParseSeed decodes seed content. YAML is a superset of JSON, so the content
// is read as YAML and mapped onto the JSON field names.
func ParseSeed(data []byte) (*Seed, error) {
	var raw interface{}

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	seed := &Seed{}
	if err := json.Unmarshal(encoded, seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	return seed, nil
}

// Apply loads the seed into the store. Names referenced by discoveries and
// hosts must be defined in the same seed.
func (s *MemoryStore) Apply(seed *Seed) error {
	subnets := make(map[string]int64, len(seed.Subnets))
	for _, subnet := range seed.Subnets {
		subnets[subnet.Name] = s.AddSubnet(subnet).ID
	}

	for _, domain := range seed.Domains {
		s.AddDomain(domain)
	}

	for _, version := range seed.SNMPVersions {
		s.AddSNMPVersion(version)
	}

	deviceModels := make(map[string]int64, len(seed.DeviceModels))
	for _, m := range seed.DeviceModels {
		deviceModels[m.Name] = s.AddDeviceModel(models.DeviceModel{Name: m.Name, Brand: m.Brand}).ID
	}

	configurations := make(map[string]int64, len(seed.SNMPConfigurations))

	for _, c := range seed.SNMPConfigurations {
		cfg := models.SNMPConfiguration{
			Name:            c.Name,
			Autodetect:      c.Autodetect,
			AutodetectValue: c.AutodetectValue,
		}

		if c.DeviceModel != "" {
			id, err := lookupName(deviceModels, "device model", c.DeviceModel)
			if err != nil {
				return err
			}

			cfg.DeviceModelID = models.ID(id)
		}

		for _, v := range c.Values {
			cfg.Values = append(cfg.Values, models.SNMPConfigurationValue{Value: v.SNMPValue, Field: v.Field})
		}

		configurations[c.Name] = s.AddSNMPConfiguration(cfg).ID
	}

	for _, m := range seed.DeviceModels {
		if m.Configuration == "" {
			continue
		}

		id, err := lookupName(configurations, "SNMP configuration", m.Configuration)
		if err != nil {
			return err
		}

		s.setDefaultConfiguration(deviceModels[m.Name], id)
	}

	scanners := make(map[string]models.Scanner, len(seed.Scanners))
	for _, scanner := range seed.Scanners {
		scanners[scanner.Name] = s.AddScanner(scanner)
	}

	for _, d := range seed.Discoveries {
		if err := s.applyDiscovery(d, subnets, scanners); err != nil {
			return err
		}
	}

	for _, h := range seed.Hosts {
		if err := s.applyHost(h, subnets, deviceModels, configurations); err != nil {
			return err
		}
	}

	return nil
}

func (s *MemoryStore) applyDiscovery(d SeedDiscovery, subnets map[string]int64, scanners map[string]models.Scanner) error {
	scanner, ok := scanners[d.Scanner]
	if !ok {
		return fmt.Errorf("%w: scanner %q", ErrNotFound, d.Scanner)
	}

	disc := models.Discovery{
		Name:     d.Name,
		Enabled:  d.Enabled == nil || *d.Enabled,
		Scanner:  scanner,
		Timeout:  d.Timeout,
		Workers:  d.Workers,
		Interval: d.Interval,
	}

	if d.Subnet != "" {
		id, err := lookupName(subnets, "subnet", d.Subnet)
		if err != nil {
			return err
		}

		disc.SubnetID = models.ID(id)
	}

	options, err := d.OptionBlob()
	if err != nil {
		return err
	}

	disc.Options = options
	s.AddDiscovery(disc)

	return nil
}

func (s *MemoryStore) applyHost(h SeedHost, subnets, deviceModels, configurations map[string]int64) error {
	host := &models.Host{
		Name:          h.Name,
		Address:       h.Address,
		SNMPVersion:   h.SNMPVersion,
		SNMPCommunity: h.SNMPCommunity,
		Enabled:       true,
		NoDiscovery:   h.NoDiscovery,
	}

	if host.Name == "" {
		host.Name = host.Address
	}

	refs := []struct {
		table map[string]int64
		kind  string
		name  string
		dst   **int64
	}{
		{subnets, "subnet", h.Subnet, &host.SubnetID},
		{deviceModels, "device model", h.DeviceModel, &host.DeviceModelID},
		{configurations, "SNMP configuration", h.Configuration, &host.SNMPConfigurationID},
	}

	for _, ref := range refs {
		if ref.name == "" {
			continue
		}

		id, err := lookupName(ref.table, ref.kind, ref.name)
		if err != nil {
			return err
		}

		*ref.dst = models.ID(id)
	}

	_, err := s.CreateHost(context.Background(), host)

	return err
}

// OptionBlob renders Options, given either as a JSON string or as a
// mapping, as a stored option blob.
func (d SeedDiscovery) OptionBlob() (string, error) {
	switch o := d.Options.(type) {
	case nil:
		return "", nil
	case string:
		if _, err := models.ParseOptions(o); err != nil {
			return "", fmt.Errorf("discovery %q: %w", d.Name, err)
		}

		return strings.TrimSpace(o), nil
	default:
		encoded, err := json.Marshal(o)
		if err != nil {
			return "", fmt.Errorf("discovery %q: %w", d.Name, err)
		}

		return string(encoded), nil
	}
}

func lookupName(table map[string]int64, kind, name string) (int64, error) {
	id, ok := table[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s %q", ErrNotFound, kind, name)
	}

	return id, nil
}

func (s *MemoryStore) AddSubnet(subnet models.Subnet) models.Subnet {
	_ = s.write(func(d *memoryData) error {
		subnet.ID = d.assignID(subnet.ID)
		d.subnets[subnet.ID] = &subnet

		return nil
	})

	return subnet
}

func (s *MemoryStore) AddDomain(domain models.Domain) models.Domain {
	_ = s.write(func(d *memoryData) error {
		domain.ID = d.assignID(domain.ID)
		d.domains[domain.ID] = &domain

		return nil
	})

	return domain
}

func (s *MemoryStore) AddDeviceModel(model models.DeviceModel) models.DeviceModel {
	_ = s.write(func(d *memoryData) error {
		model.ID = d.assignID(model.ID)
		d.deviceModels[model.ID] = &model

		return nil
	})

	return model
}

func (s *MemoryStore) setDefaultConfiguration(deviceModelID, configurationID int64) {
	_ = s.write(func(d *memoryData) error {
		if m, ok := d.deviceModels[deviceModelID]; ok {
			c := *m
			c.SNMPConfigurationID = models.ID(configurationID)
			d.deviceModels[deviceModelID] = &c
		}

		return nil
	})
}

func (s *MemoryStore) AddSNMPVersion(version models.SNMPVersion) models.SNMPVersion {
	_ = s.write(func(d *memoryData) error {
		version.ID = d.assignID(version.ID)
		d.snmpVersions[version.ID] = &version

		return nil
	})

	return version
}

func (s *MemoryStore) AddSNMPConfiguration(cfg models.SNMPConfiguration) models.SNMPConfiguration {
	_ = s.write(func(d *memoryData) error {
		cfg.ID = d.assignID(cfg.ID)
		d.snmpConfigurations[cfg.ID] = &cfg

		return nil
	})

	return cfg
}

func (s *MemoryStore) AddScanner(scanner models.Scanner) models.Scanner {
	_ = s.write(func(d *memoryData) error {
		scanner.ID = d.assignID(scanner.ID)
		d.scanners[scanner.ID] = &scanner

		return nil
	})

	return scanner
}

func (s *MemoryStore) AddDiscovery(disc models.Discovery) models.Discovery {
	_ = s.write(func(d *memoryData) error {
		disc.ID = d.assignID(disc.ID)
		d.discoveries[disc.ID] = cloneDiscovery(&disc)

		return nil
	})

	return disc
}
