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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/netscanner/pkg/inventory"
	"github.com/carverauto/netscanner/pkg/logger"
	"github.com/carverauto/netscanner/pkg/models"
	"github.com/carverauto/netscanner/pkg/probe"
)

var errAppend = errors.New("append failed")

// failingLogStore fails every result log write, inside transactions too.
type failingLogStore struct {
	inventory.Store
}

func (failingLogStore) AppendDiscoveryResult(context.Context, *models.DiscoveryResult) error {
	return errAppend
}

func (s failingLogStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx inventory.Store) error) error {
	return s.Store.RunInTx(ctx, func(ctx context.Context, tx inventory.Store) error {
		return fn(ctx, failingLogStore{Store: tx})
	})
}

func newTestMerger(clock *testClock) *Merger {
	m := NewMerger(logger.NewTestLogger())
	m.now = clock.Now

	return m
}

func addDiscovery(store *inventory.MemoryStore, name, tool string) *models.Discovery {
	scanner := store.AddScanner(models.Scanner{Name: name, Tool: tool})
	disc := store.AddDiscovery(models.Discovery{Name: name, Enabled: true, Scanner: scanner})

	return &disc
}

func succeeded(address string, fields map[string]interface{}) models.Outcome {
	return models.Outcome{Target: models.AddressTarget(address), Result: models.Succeeded(fields)}
}

func TestMergeFillsGapsIdempotently(t *testing.T) {
	ctx := context.Background()
	store := inventory.NewMemoryStore()
	clock := newTestClock()
	m := newTestMerger(clock)

	model := store.AddDeviceModel(models.DeviceModel{Name: "ProCurve", Brand: "HP"})
	disc := addDiscovery(store, "find-model", probe.ToolSNMPFindModel)

	host, err := store.CreateHost(ctx, &models.Host{Name: "sw", Address: "10.0.0.7", SNMPVersion: "1"})
	require.NoError(t, err)

	in := MergeInput{
		Discovery: disc,
		Outcomes: []models.Outcome{
			succeeded("10.0.0.7", map[string]interface{}{"model_id": model.ID, "version": "2c"}),
		},
		SkipLog: true,
	}

	stats, err := m.Merge(ctx, store, in)
	require.NoError(t, err)
	assert.Equal(t, MergeStats{Updated: 1}, stats)

	first, err := store.GetHost(ctx, host.ID)
	require.NoError(t, err)
	require.NotNil(t, first.DeviceModelID)
	assert.Equal(t, model.ID, *first.DeviceModelID)
	assert.Equal(t, "1", first.SNMPVersion)

	_, err = m.Merge(ctx, store, in)
	require.NoError(t, err)

	second, err := store.GetHost(ctx, host.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMergeIgnoresUnknownDeviceModel(t *testing.T) {
	ctx := context.Background()
	store := inventory.NewMemoryStore()
	disc := addDiscovery(store, "find-model", probe.ToolSNMPFindModel)

	stats, err := newTestMerger(newTestClock()).Merge(ctx, store, MergeInput{
		Discovery: disc,
		Outcomes:  []models.Outcome{succeeded("10.0.0.8", map[string]interface{}{"model_id": int64(404)})},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Created)

	hosts := store.AllHosts()
	require.Len(t, hosts, 1)
	assert.Nil(t, hosts[0].DeviceModelID)
}

func TestMergeHostnameResolvesDomain(t *testing.T) {
	ctx := context.Background()
	store := inventory.NewMemoryStore()
	store.AddDomain(models.Domain{Name: "example.com"})
	lab := store.AddDomain(models.Domain{Name: "example.com", Subdomain: "lab"})
	disc := addDiscovery(store, "names", probe.ToolHostname)

	_, err := newTestMerger(newTestClock()).Merge(ctx, store, MergeInput{
		Discovery: disc,
		Outcomes: []models.Outcome{
			succeeded("10.0.0.9", map[string]interface{}{"fqdn": "srv1.lab.example.com"}),
			succeeded("10.0.0.10", map[string]interface{}{"fqdn": "srv2.unknown.org"}),
		},
	})
	require.NoError(t, err)

	hosts, err := store.FindHostsByAddress(ctx, "10.0.0.9")
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	assert.Equal(t, "srv1", hosts[0].Hostname)
	require.NotNil(t, hosts[0].DomainID)
	assert.Equal(t, lab.ID, *hosts[0].DomainID)

	hosts, err = store.FindHostsByAddress(ctx, "10.0.0.10")
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	assert.Equal(t, "srv2", hosts[0].Hostname)
	assert.Nil(t, hosts[0].DomainID)
}

func TestMergeGetInfoNeverCreates(t *testing.T) {
	ctx := context.Background()
	store := inventory.NewMemoryStore()
	disc := addDiscovery(store, "info", probe.ToolSNMPGetInfo)

	host, err := store.CreateHost(ctx, &models.Host{Name: "ap", Address: "10.0.0.3", Area: "lobby"})
	require.NoError(t, err)

	stats, err := newTestMerger(newTestClock()).Merge(ctx, store, MergeInput{
		Discovery: disc,
		Outcomes: []models.Outcome{
			{
				Target: models.HostTarget(host),
				Result: models.Succeeded(map[string]interface{}{
					"host.area":     "roof",
					"host.position": 3,
					"host.unknown":  "x",
					"System - HP":   "ignored",
				}),
			},
			succeeded("10.0.0.4", map[string]interface{}{"host.serial": "S1"}),
			{
				Target: models.HostTarget(&models.Host{ID: 999, Address: "10.0.0.5"}),
				Result: models.Succeeded(nil),
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Created)
	assert.Equal(t, 1, stats.Updated)

	got, err := store.GetHost(ctx, host.ID)
	require.NoError(t, err)
	assert.Equal(t, "lobby", got.Area)
	assert.Equal(t, "3", got.Position)
	assert.Len(t, store.AllHosts(), 1)
}

func TestMergeDiscardsFailedOutcomes(t *testing.T) {
	ctx := context.Background()
	store := inventory.NewMemoryStore()
	disc := addDiscovery(store, "arp", probe.ToolARPRequest)

	failed := models.Outcome{Target: models.AddressTarget("10.0.0.2"), Result: models.Failed()}

	stats, err := newTestMerger(newTestClock()).Merge(ctx, store, MergeInput{
		Discovery: disc,
		Outcomes:  []models.Outcome{failed},
	})
	require.NoError(t, err)
	assert.Equal(t, MergeStats{Discarded: 1}, stats)
	assert.Empty(t, store.AllHosts())

	results, err := store.ListDiscoveryResults(ctx, disc.ID, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMergeRollsBackOnStoreFailure(t *testing.T) {
	ctx := context.Background()
	store := inventory.NewMemoryStore()
	disc := addDiscovery(store, "arp", probe.ToolARPRequest)

	_, err := newTestMerger(newTestClock()).Merge(ctx, failingLogStore{Store: store}, MergeInput{
		Discovery: disc,
		Outcomes: []models.Outcome{
			succeeded("10.0.0.1", map[string]interface{}{"mac_address": "AA:BB:CC:DD:EE:01"}),
		},
	})
	require.ErrorIs(t, err, errAppend)
	assert.Empty(t, store.AllHosts())
}

func TestMergeStoresResolvedOptions(t *testing.T) {
	ctx := context.Background()
	store := inventory.NewMemoryStore()
	disc := addDiscovery(store, "tcp", probe.ToolTCPConnect)

	_, err := newTestMerger(newTestClock()).Merge(ctx, store, MergeInput{
		Discovery: disc,
		RunID:     "run-1",
		Options:   models.Options{"port": float64(22)},
		Outcomes:  []models.Outcome{succeeded("10.0.0.1", map[string]interface{}{"port": 22})},
	})
	require.NoError(t, err)

	results, err := store.ListDiscoveryResults(ctx, disc.ID, time.Time{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.JSONEq(t, `{"port": 22}`, results[0].Options)
	assert.JSONEq(t, `{"port": 22, "status": true}`, results[0].Results)
	assert.Equal(t, "run-1", results[0].RunID)
}
