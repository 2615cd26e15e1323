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
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/carverauto/netscanner/pkg/models"
)

// MemoryStore keeps the inventory in process memory. Writes are serialized;
// a transaction works on a private copy that replaces the live data on
// commit.
type MemoryStore struct {
	// writeMu serializes writers and whole transactions
	writeMu sync.Mutex
	mu      sync.RWMutex
	data    *memoryData
	inTx    bool
}

type memoryData struct {
	nextID             int64
	hosts              map[int64]*models.Host
	subnets            map[int64]*models.Subnet
	domains            map[int64]*models.Domain
	deviceModels       map[int64]*models.DeviceModel
	snmpConfigurations map[int64]*models.SNMPConfiguration
	snmpVersions       map[int64]*models.SNMPVersion
	scanners           map[int64]*models.Scanner
	discoveries        map[int64]*models.Discovery
	results            []*models.DiscoveryResult
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: &memoryData{
			hosts:              make(map[int64]*models.Host),
			subnets:            make(map[int64]*models.Subnet),
			domains:            make(map[int64]*models.Domain),
			deviceModels:       make(map[int64]*models.DeviceModel),
			snmpConfigurations: make(map[int64]*models.SNMPConfiguration),
			snmpVersions:       make(map[int64]*models.SNMPVersion),
			scanners:           make(map[int64]*models.Scanner),
			discoveries:        make(map[int64]*models.Discovery),
		},
	}
}

// clone copies every mutable record; catalog records are never modified in
// place and are shared.
func (d *memoryData) clone() *memoryData {
	c := &memoryData{
		nextID:             d.nextID,
		hosts:              make(map[int64]*models.Host, len(d.hosts)),
		subnets:            copyMap(d.subnets),
		domains:            copyMap(d.domains),
		deviceModels:       copyMap(d.deviceModels),
		snmpConfigurations: copyMap(d.snmpConfigurations),
		snmpVersions:       copyMap(d.snmpVersions),
		scanners:           copyMap(d.scanners),
		discoveries:        make(map[int64]*models.Discovery, len(d.discoveries)),
		results:            append([]*models.DiscoveryResult(nil), d.results...),
	}

	for id, h := range d.hosts {
		c.hosts[id] = h.Clone()
	}

	for id, disc := range d.discoveries {
		c.discoveries[id] = cloneDiscovery(disc)
	}

	return c
}

func copyMap[T any](m map[int64]*T) map[int64]*T {
	c := make(map[int64]*T, len(m))
	for k, v := range m {
		c[k] = v
	}

	return c
}

func cloneDiscovery(d *models.Discovery) *models.Discovery {
	c := *d
	if d.SubnetID != nil {
		c.SubnetID = models.ID(*d.SubnetID)
	}

	if d.LastScan != nil {
		t := *d.LastScan
		c.LastScan = &t
	}

	return &c
}

func (d *memoryData) assignID(id int64) int64 {
	if id == 0 {
		d.nextID++

		return d.nextID
	}

	if id > d.nextID {
		d.nextID = id
	}

	return id
}

func (s *MemoryStore) read(fn func(d *memoryData) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(s.data)
}

func (s *MemoryStore) write(fn func(d *memoryData) error) error {
	if !s.inTx {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s.data)
}

// RunInTx runs fn on a private copy of the data. Transactions are
// serialized with every other writer. Nested calls join the outer
// transaction.
func (s *MemoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	tx := &MemoryStore{data: s.data.clone(), inTx: true}
	s.mu.RUnlock()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = tx.data
	s.mu.Unlock()

	return nil
}

func (*MemoryStore) Close() error { return nil }

func (s *MemoryStore) FindHostsByAddress(_ context.Context, address string) ([]*models.Host, error) {
	var hosts []*models.Host

	err := s.read(func(d *memoryData) error {
		for _, h := range d.hosts {
			if h.Address == address {
				hosts = append(hosts, h.Clone())
			}
		}

		return nil
	})

	sortHosts(hosts)

	return hosts, err
}

func (s *MemoryStore) FindHostsByAddresses(_ context.Context, addresses []string) ([]*models.Host, error) {
	wanted := make(map[string]struct{}, len(addresses))
	for _, a := range addresses {
		wanted[a] = struct{}{}
	}

	var hosts []*models.Host

	err := s.read(func(d *memoryData) error {
		for _, h := range d.hosts {
			if _, ok := wanted[h.Address]; ok {
				hosts = append(hosts, h.Clone())
			}
		}

		return nil
	})

	sortHosts(hosts)

	return hosts, err
}

// AllHosts returns every host ordered by ID.
func (s *MemoryStore) AllHosts() []*models.Host {
	var hosts []*models.Host

	_ = s.read(func(d *memoryData) error {
		for _, h := range d.hosts {
			hosts = append(hosts, h.Clone())
		}

		return nil
	})

	sortHosts(hosts)

	return hosts
}

func sortHosts(hosts []*models.Host) {
	sort.Slice(hosts, func(i, j int) bool { return hosts[i].ID < hosts[j].ID })
}

func (s *MemoryStore) GetHost(_ context.Context, id int64) (*models.Host, error) {
	var host *models.Host

	err := s.read(func(d *memoryData) error {
		h, ok := d.hosts[id]
		if !ok {
			return fmt.Errorf("%w: host %d", ErrNotFound, id)
		}

		host = h.Clone()

		return nil
	})

	return host, err
}

func (s *MemoryStore) CreateHost(_ context.Context, host *models.Host) (*models.Host, error) {
	var created *models.Host

	err := s.write(func(d *memoryData) error {
		if err := d.checkHostUnique(host); err != nil {
			return err
		}

		h := host.Clone()
		h.ID = d.assignID(h.ID)
		d.hosts[h.ID] = h
		created = h.Clone()

		return nil
	})

	return created, err
}

func (s *MemoryStore) UpdateHost(_ context.Context, host *models.Host) error {
	return s.write(func(d *memoryData) error {
		if _, ok := d.hosts[host.ID]; !ok {
			return fmt.Errorf("%w: host %d", ErrNotFound, host.ID)
		}

		if err := d.checkHostUnique(host); err != nil {
			return err
		}

		d.hosts[host.ID] = host.Clone()

		return nil
	})
}

// checkHostUnique enforces one host per (location, name, address).
func (d *memoryData) checkHostUnique(host *models.Host) error {
	for id, h := range d.hosts {
		if id == host.ID || h.Name != host.Name || h.Address != host.Address {
			continue
		}

		if sameID(h.LocationID, host.LocationID) {
			return fmt.Errorf("%w: host %q at %s", ErrConflict, host.Name, host.Address)
		}
	}

	return nil
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return *a == *b
}

func (s *MemoryStore) FindDiscoveries(_ context.Context, filter DiscoveryFilter) ([]*models.Discovery, error) {
	var discoveries []*models.Discovery

	err := s.read(func(d *memoryData) error {
		for _, disc := range d.discoveries {
			if filter.Name != "" && disc.Name != filter.Name {
				continue
			}

			if filter.Tool != "" && disc.Scanner.Tool != filter.Tool {
				continue
			}

			if filter.EnabledOnly && !disc.Enabled {
				continue
			}

			discoveries = append(discoveries, cloneDiscovery(disc))
		}

		return nil
	})

	sort.Slice(discoveries, func(i, j int) bool { return discoveries[i].Name < discoveries[j].Name })

	return discoveries, err
}

func (s *MemoryStore) GetDiscoveryByName(ctx context.Context, name string) (*models.Discovery, error) {
	discoveries, err := s.FindDiscoveries(ctx, DiscoveryFilter{Name: name})
	if err != nil {
		return nil, err
	}

	if len(discoveries) == 0 {
		return nil, fmt.Errorf("%w: discovery %q", ErrNotFound, name)
	}

	return discoveries[0], nil
}

func (s *MemoryStore) UpdateDiscoveryLastScan(_ context.Context, id int64, at time.Time) error {
	return s.write(func(d *memoryData) error {
		disc, ok := d.discoveries[id]
		if !ok {
			return fmt.Errorf("%w: discovery %d", ErrNotFound, id)
		}

		updated := cloneDiscovery(disc)
		updated.LastScan = &at
		d.discoveries[id] = updated

		return nil
	})
}

func (s *MemoryStore) AppendDiscoveryResult(_ context.Context, result *models.DiscoveryResult) error {
	return s.write(func(d *memoryData) error {
		if _, ok := d.discoveries[result.DiscoveryID]; !ok {
			return fmt.Errorf("%w: discovery %d", ErrNotFound, result.DiscoveryID)
		}

		r := *result
		r.ID = d.assignID(0)
		d.results = append(d.results, &r)
		result.ID = r.ID

		return nil
	})
}

func (s *MemoryStore) ListDiscoveryResults(
	_ context.Context, discoveryID int64, since time.Time) ([]*models.DiscoveryResult, error) {
	var results []*models.DiscoveryResult

	err := s.read(func(d *memoryData) error {
		for _, r := range d.results {
			if r.DiscoveryID != discoveryID || r.ScanDatetime.Before(since) {
				continue
			}

			c := *r
			results = append(results, &c)
		}

		return nil
	})

	return results, err
}

func (s *MemoryStore) GetSubnet(_ context.Context, id int64) (*models.Subnet, error) {
	return getRecord(s, "subnet", id, func(d *memoryData) map[int64]*models.Subnet { return d.subnets })
}

func (s *MemoryStore) FindSubnetByName(_ context.Context, name string) (*models.Subnet, error) {
	return findRecord(s, "subnet", name,
		func(d *memoryData) map[int64]*models.Subnet { return d.subnets },
		func(v *models.Subnet) bool { return v.Name == name })
}

func (s *MemoryStore) FindDomain(_ context.Context, name, subdomain string) (*models.Domain, error) {
	return findRecord(s, "domain", subdomain+"."+name,
		func(d *memoryData) map[int64]*models.Domain { return d.domains },
		func(v *models.Domain) bool { return v.Name == name && v.Subdomain == subdomain })
}

func (s *MemoryStore) GetDeviceModel(_ context.Context, id int64) (*models.DeviceModel, error) {
	return getRecord(s, "device model", id, func(d *memoryData) map[int64]*models.DeviceModel { return d.deviceModels })
}

func (s *MemoryStore) GetSNMPConfiguration(_ context.Context, id int64) (*models.SNMPConfiguration, error) {
	return getRecord(s, "SNMP configuration", id,
		func(d *memoryData) map[int64]*models.SNMPConfiguration { return d.snmpConfigurations })
}

func (s *MemoryStore) FindSNMPConfigurationByName(_ context.Context, name string) (*models.SNMPConfiguration, error) {
	return findRecord(s, "SNMP configuration", name,
		func(d *memoryData) map[int64]*models.SNMPConfiguration { return d.snmpConfigurations },
		func(v *models.SNMPConfiguration) bool { return v.Name == name })
}

func (s *MemoryStore) ListSNMPConfigurationsByDeviceModel(
	_ context.Context, deviceModelID int64) ([]*models.SNMPConfiguration, error) {
	var configurations []*models.SNMPConfiguration

	err := s.read(func(d *memoryData) error {
		for _, c := range d.snmpConfigurations {
			if c.DeviceModelID != nil && *c.DeviceModelID == deviceModelID {
				cc := *c
				configurations = append(configurations, &cc)
			}
		}

		return nil
	})

	sort.Slice(configurations, func(i, j int) bool { return configurations[i].Name < configurations[j].Name })

	return configurations, err
}

func (s *MemoryStore) ListAutodetectModels(_ context.Context) ([]models.AutodetectModel, error) {
	var candidates []models.AutodetectModel

	err := s.read(func(d *memoryData) error {
		for _, c := range d.snmpConfigurations {
			if c.DeviceModelID == nil || c.Autodetect == nil {
				continue
			}

			model, ok := d.deviceModels[*c.DeviceModelID]
			if !ok {
				continue
			}

			candidates = append(candidates, models.AutodetectModel{Model: *model, Configuration: *c})
		}

		return nil
	})

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Configuration.Name < candidates[j].Configuration.Name
	})

	return candidates, err
}

func (s *MemoryStore) FindSNMPVersion(_ context.Context, name string) (*models.SNMPVersion, error) {
	return findRecord(s, "SNMP version", name,
		func(d *memoryData) map[int64]*models.SNMPVersion { return d.snmpVersions },
		func(v *models.SNMPVersion) bool { return v.Name == name })
}

func getRecord[T any](s *MemoryStore, kind string, id int64, table func(*memoryData) map[int64]*T) (*T, error) {
	var record *T

	err := s.read(func(d *memoryData) error {
		v, ok := table(d)[id]
		if !ok {
			return fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
		}

		c := *v
		record = &c

		return nil
	})

	return record, err
}

// findRecord returns the match with the lowest ID.
func findRecord[T any](
	s *MemoryStore, kind, key string, table func(*memoryData) map[int64]*T, match func(*T) bool) (*T, error) {
	var record *T

	err := s.read(func(d *memoryData) error {
		ids := make([]int64, 0, len(table(d)))
		for id := range table(d) {
			ids = append(ids, id)
		}

		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		for _, id := range ids {
			if v := table(d)[id]; match(v) {
				c := *v
				record = &c

				return nil
			}
		}

		return fmt.Errorf("%w: %s %q", ErrNotFound, kind, key)
	})

	return record, err
}
