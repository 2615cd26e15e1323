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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/netscanner/pkg/models"
)

func TestMemoryStoreHosts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a, err := store.CreateHost(ctx, &models.Host{Name: "a", Address: "10.0.0.1"})
	require.NoError(t, err)
	assert.NotZero(t, a.ID)

	b, err := store.CreateHost(ctx, &models.Host{Name: "b", Address: "10.0.0.1", LocationID: models.ID(2)})
	require.NoError(t, err)

	_, err = store.CreateHost(ctx, &models.Host{Name: "a", Address: "10.0.0.1"})
	require.ErrorIs(t, err, ErrConflict)

	hosts, err := store.FindHostsByAddress(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.Len(t, hosts, 2)
	assert.Equal(t, a.ID, hosts[0].ID)
	assert.Equal(t, b.ID, hosts[1].ID)

	// returned records are copies
	hosts[0].MACAddress = "AABBCCDDEEFF"

	got, err := store.GetHost(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, got.MACAddress)

	got.MACAddress = "AABBCCDDEEFF"
	require.NoError(t, store.UpdateHost(ctx, got))

	got, err = store.GetHost(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "AABBCCDDEEFF", got.MACAddress)

	err = store.UpdateHost(ctx, &models.Host{ID: 999, Address: "10.0.0.9"})
	require.ErrorIs(t, err, ErrNotFound)

	hosts, err = store.FindHostsByAddresses(ctx, []string{"10.0.0.1", "10.0.0.2"})
	require.NoError(t, err)
	assert.Len(t, hosts, 2)
}

func TestMemoryStoreRunInTx(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	errBoom := errors.New("boom")

	err := store.RunInTx(ctx, func(ctx context.Context, tx Store) error {
		_, err := tx.CreateHost(ctx, &models.Host{Name: "x", Address: "10.0.0.7"})
		require.NoError(t, err)

		hosts, err := tx.FindHostsByAddress(ctx, "10.0.0.7")
		require.NoError(t, err)
		assert.Len(t, hosts, 1)

		return errBoom
	})
	require.ErrorIs(t, err, errBoom)
	assert.Empty(t, store.AllHosts())

	err = store.RunInTx(ctx, func(ctx context.Context, tx Store) error {
		_, err := tx.CreateHost(ctx, &models.Host{Name: "x", Address: "10.0.0.7"})
		if err != nil {
			return err
		}

		// nested calls join the outer transaction
		return tx.RunInTx(ctx, func(ctx context.Context, inner Store) error {
			_, err := inner.CreateHost(ctx, &models.Host{Name: "y", Address: "10.0.0.8"})

			return err
		})
	})
	require.NoError(t, err)
	assert.Len(t, store.AllHosts(), 2)
}

func TestMemoryStoreTransactionsSerialize(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	host, err := store.CreateHost(ctx, &models.Host{Name: "h", Address: "10.0.0.1"})
	require.NoError(t, err)

	const writers = 8

	var wg sync.WaitGroup

	for i := 0; i < writers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_ = store.RunInTx(ctx, func(ctx context.Context, tx Store) error {
				h, err := tx.GetHost(ctx, host.ID)
				if err != nil {
					return err
				}

				h.Description += "x"

				return tx.UpdateHost(ctx, h)
			})
		}()
	}

	wg.Wait()

	got, err := store.GetHost(ctx, host.ID)
	require.NoError(t, err)
	assert.Len(t, got.Description, writers)
}

func TestMemoryStoreDiscoveries(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	scanner := store.AddScanner(models.Scanner{Name: "ping", Tool: "icmp_reply"})
	store.AddDiscovery(models.Discovery{Name: "b-ping", Scanner: scanner, Enabled: true})
	off := store.AddDiscovery(models.Discovery{Name: "a-ping", Scanner: scanner})

	all, err := store.FindDiscoveries(ctx, DiscoveryFilter{Tool: "icmp_reply"})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a-ping", all[0].Name)

	enabled, err := store.FindDiscoveries(ctx, DiscoveryFilter{EnabledOnly: true})
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, "b-ping", enabled[0].Name)

	_, err = store.GetDiscoveryByName(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpdateDiscoveryLastScan(ctx, off.ID, now))

	got, err := store.GetDiscoveryByName(ctx, "a-ping")
	require.NoError(t, err)
	require.NotNil(t, got.LastScan)
	assert.True(t, now.Equal(*got.LastScan))

	require.NoError(t, store.AppendDiscoveryResult(ctx, &models.DiscoveryResult{
		DiscoveryID: off.ID, Address: "10.0.0.1", ScanDatetime: now.Add(-time.Hour),
	}))
	require.NoError(t, store.AppendDiscoveryResult(ctx, &models.DiscoveryResult{
		DiscoveryID: off.ID, Address: "10.0.0.2", ScanDatetime: now,
	}))

	err = store.AppendDiscoveryResult(ctx, &models.DiscoveryResult{DiscoveryID: 999})
	require.ErrorIs(t, err, ErrNotFound)

	results, err := store.ListDiscoveryResults(ctx, off.ID, now.Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "10.0.0.2", results[0].Address)
}

const testSeed = `
subnets:
  - name: lan
    subnet_ip: 192.168.1.0
    cidr: 24
domains:
  - name: example.com
  - name: example.com
    subdomain: office
snmp_versions:
  - name: v2c
    version: 2
device_models:
  - name: LaserJet
    brand: HP
    snmp_configuration: laserjet
snmp_configurations:
  - name: laserjet
    device_model: LaserJet
    autodetect:
      name: Model
      oid: 1.3.6.1.2.1.25.3.2.1.3.1
    autodetect_value: HP LaserJet
    values:
      - name: Serial
        section: Printer
        brand: HP
        oid: 1.3.6.1.2.1.43.5.1.1.17.1
        field: host.serial
  - name: generic
scanners:
  - name: ping
    tool: icmp_reply
discoveries:
  - name: lan-ping
    subnet: lan
    scanner: ping
    workers: 20
    options:
      timeout: 2
hosts:
  - address: 192.168.1.20
    subnet: lan
    device_model: LaserJet
`

func TestApplySeed(t *testing.T) {
	ctx := context.Background()

	seed, err := ParseSeed([]byte(testSeed))
	require.NoError(t, err)

	store := NewMemoryStore()
	require.NoError(t, store.Apply(seed))

	subnet, err := store.FindSubnetByName(ctx, "lan")
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.0", subnet.Address)
	assert.Equal(t, 24, subnet.CIDR)

	office, err := store.FindDomain(ctx, "example.com", "office")
	require.NoError(t, err)
	assert.Equal(t, "office", office.Subdomain)

	_, err = store.FindDomain(ctx, "example.org", "")
	require.ErrorIs(t, err, ErrNotFound)

	disc, err := store.GetDiscoveryByName(ctx, "lan-ping")
	require.NoError(t, err)
	assert.True(t, disc.Enabled)
	assert.Equal(t, "icmp_reply", disc.Tool())
	assert.Equal(t, 20, disc.Workers)
	assert.JSONEq(t, `{"timeout": 2}`, disc.Options)
	require.NotNil(t, disc.SubnetID)
	assert.Equal(t, subnet.ID, *disc.SubnetID)

	candidates, err := store.ListAutodetectModels(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "LaserJet", candidates[0].Model.Name)
	assert.Equal(t, "HP LaserJet", candidates[0].Configuration.AutodetectValue)

	model, err := store.GetDeviceModel(ctx, candidates[0].Model.ID)
	require.NoError(t, err)
	require.NotNil(t, model.SNMPConfigurationID)

	cfg, err := store.GetSNMPConfiguration(ctx, *model.SNMPConfigurationID)
	require.NoError(t, err)
	require.Len(t, cfg.Values, 1)
	assert.Equal(t, "host.serial", cfg.Values[0].Field)
	assert.Equal(t, "Printer - HP - Serial", cfg.Values[0].Value.Label())

	byModel, err := store.ListSNMPConfigurationsByDeviceModel(ctx, model.ID)
	require.NoError(t, err)
	assert.Len(t, byModel, 1)

	version, err := store.FindSNMPVersion(ctx, "v2c")
	require.NoError(t, err)
	assert.Equal(t, 2, version.Version)

	hosts, err := store.FindHostsByAddress(ctx, "192.168.1.20")
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	assert.Equal(t, "192.168.1.20", hosts[0].Name)
	assert.True(t, hosts[0].HasDeviceModel())
}

func TestApplySeedUnknownReference(t *testing.T) {
	seed, err := ParseSeed([]byte(`{"discoveries": [{"name": "d", "scanner": "nope"}]}`))
	require.NoError(t, err)

	err = NewMemoryStore().Apply(seed)
	require.ErrorIs(t, err, ErrNotFound)
}
