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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/netscanner/pkg/models"
)

func addSequence(f *fixture, name, blob string, enabled bool) {
	scanner := f.store.AddScanner(models.Scanner{Name: name, Tool: ToolSequence})
	f.store.AddDiscovery(models.Discovery{Name: name, Enabled: enabled, Scanner: scanner, Options: blob})
}

func TestSequenceRunsStepsInOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.store.AddDiscovery(models.Discovery{
		Name: "arp-off", Enabled: false, Scanner: f.discovery.Scanner, SubnetID: models.ID(f.subnet.ID),
	})
	f.store.AddDiscovery(models.Discovery{Name: "arp-broken", Enabled: true, Scanner: f.discovery.Scanner})
	addSequence(f, "nightly", `[
		{"discovery": "arp-lab", "wait": 2},
		{"discovery": "arp-broken", "wait": 0},
		{"discovery": "arp-off", "wait": 0.5}
	]`, true)

	o := f.orchestrator(t)

	var waits []time.Duration

	o.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		f.clock.Advance(d)

		return nil
	}

	sr, err := o.RunSequence(ctx, "nightly", RunRequest{})
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, sr.State)
	assert.Equal(t, []time.Duration{2 * time.Second, 500 * time.Millisecond}, waits)

	require.Len(t, sr.Steps, 3)
	assert.Equal(t, "arp-lab", sr.Steps[0].Discovery)
	assert.Equal(t, StateCompleted, sr.Steps[0].State)
	assert.Equal(t, StateFailed, sr.Steps[1].State)
	// disabled steps still run inside a sequence
	assert.Equal(t, StateCompleted, sr.Steps[2].State)
	require.Len(t, sr.Failed(), 1)
	assert.Equal(t, "arp-broken", sr.Failed()[0].Discovery)

	seq, err := f.store.GetDiscoveryByName(ctx, "nightly")
	require.NoError(t, err)
	require.NotNil(t, seq.LastScan)
	assert.Equal(t, f.clock.Now(), *seq.LastScan)
}

func TestSequenceSkippedWhenDisabled(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	addSequence(f, "nightly", `[{"discovery": "arp-lab", "wait": 0}]`, false)

	sr, err := f.orchestrator(t).RunSequence(ctx, "nightly", RunRequest{})
	require.NoError(t, err)
	assert.Equal(t, StateSkipped, sr.State)
	assert.Empty(t, sr.Steps)
	assert.Empty(t, f.arp.addresses())

	seq, err := f.store.GetDiscoveryByName(ctx, "nightly")
	require.NoError(t, err)
	assert.Nil(t, seq.LastScan)
}

func TestSequenceValidatesStepsFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	addSequence(f, "unknown", `[{"discovery": "arp-lab", "wait": 0}, {"discovery": "ghost", "wait": 0}]`, true)
	addSequence(f, "nested", `[{"discovery": "unknown", "wait": 0}]`, true)
	addSequence(f, "garbled", `{"discovery": "arp-lab"}`, true)

	o := f.orchestrator(t)

	sr, err := o.RunSequence(ctx, "unknown", RunRequest{})
	require.ErrorIs(t, err, ErrUnknownStep)
	assert.Equal(t, StateFailed, sr.State)
	assert.Empty(t, f.arp.addresses())

	_, err = o.RunSequence(ctx, "nested", RunRequest{})
	require.ErrorIs(t, err, ErrIsSequence)

	_, err = o.RunSequence(ctx, "garbled", RunRequest{})
	require.ErrorIs(t, err, models.ErrInvalidSequence)

	_, err = o.RunSequence(ctx, "arp-lab", RunRequest{})
	require.ErrorIs(t, err, ErrNotSequence)

	_, err = o.RunSequence(ctx, "ghost", RunRequest{})
	require.ErrorIs(t, err, ErrDiscoveryNotFound)
}

func TestSequenceStopsWhenCancelled(t *testing.T) {
	f := newFixture()
	addSequence(f, "nightly", `[{"discovery": "arp-lab", "wait": 60}, {"discovery": "arp-lab", "wait": 0}]`, true)

	ctx, cancel := context.WithCancel(context.Background())
	o := f.orchestrator(t)
	o.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()

		return sleepContext(ctx, d)
	}

	sr, err := o.RunSequence(ctx, "nightly", RunRequest{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateFailed, sr.State)
	assert.Len(t, sr.Steps, 1)
}

func TestSleepContext(t *testing.T) {
	require.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}

func TestReapply(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	o := f.orchestrator(t)

	old := f.clock.Now().Add(-48 * time.Hour)
	recent := f.clock.Now().Add(-time.Hour)

	rows := []models.DiscoveryResult{
		{Address: "10.0.0.1", ScanDatetime: recent, Results: `{"mac_address": "AA:BB:CC:DD:EE:01", "status": true}`},
		{Address: "10.0.0.2", ScanDatetime: recent, Results: `{"status": false}`},
		{Address: "10.0.0.3", ScanDatetime: recent, Results: `{not json`},
		{Address: "10.0.0.4", ScanDatetime: old, Results: `{"mac_address": "AA:BB:CC:DD:EE:04"}`},
	}

	for i := range rows {
		rows[i].DiscoveryID = f.discovery.ID
		require.NoError(t, f.store.AppendDiscoveryResult(ctx, &rows[i]))
	}

	stats, err := o.Reapply(ctx, "arp-lab", f.clock.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Rows)
	assert.Equal(t, 1, stats.Malformed)
	assert.Equal(t, 1, stats.Merge.Created)
	assert.Equal(t, 1, stats.Merge.Discarded)
	assert.Equal(t, 0, stats.Merge.Logged)

	hosts := f.store.AllHosts()
	require.Len(t, hosts, 1)
	assert.Equal(t, "AABBCCDDEE01", hosts[0].MACAddress)

	stats, err = o.Reapply(ctx, "arp-lab", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Rows)
	assert.Equal(t, 1, stats.Merge.Created)
	assert.Equal(t, 1, stats.Merge.Updated)

	results, err := f.store.ListDiscoveryResults(ctx, f.discovery.ID, time.Time{})
	require.NoError(t, err)
	assert.Len(t, results, 4)

	_, err = o.Reapply(ctx, "missing", time.Time{})
	require.ErrorIs(t, err, ErrDiscoveryNotFound)
}
