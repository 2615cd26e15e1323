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

package cli

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/netscanner/pkg/config"
	"github.com/carverauto/netscanner/pkg/discovery"
	"github.com/carverauto/netscanner/pkg/inventory"
	"github.com/carverauto/netscanner/pkg/logger"
	"github.com/carverauto/netscanner/pkg/models"
	"github.com/carverauto/netscanner/pkg/probe"
)

// listenLoopback accepts and closes connections until the test ends.
func listenLoopback(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}

			_ = conn.Close()
		}
	}()

	return ln.Addr().(*net.TCPAddr).Port
}

func newLoopbackStore(port int) *inventory.MemoryStore {
	store := inventory.NewMemoryStore()
	subnet := store.AddSubnet(models.Subnet{Name: "loopback", Address: "127.0.0.1", CIDR: 32})

	scanner := store.AddScanner(models.Scanner{Name: "tcp", Tool: probe.ToolTCPConnect})
	store.AddDiscovery(models.Discovery{
		Name:     "tcp-local",
		Enabled:  true,
		SubnetID: models.ID(subnet.ID),
		Scanner:  scanner,
		Timeout:  2,
		Options:  fmt.Sprintf(`{"port": %d}`, port),
	})
	store.AddDiscovery(models.Discovery{
		Name:    "tcp-off",
		Enabled: false,
		Scanner: scanner,
		Options: fmt.Sprintf(`{"port": %d}`, port),
	})

	sequence := store.AddScanner(models.Scanner{Name: "sequence", Tool: discovery.ToolSequence})
	store.AddDiscovery(models.Discovery{
		Name:    "nightly",
		Enabled: true,
		Scanner: sequence,
		Options: `[{"discovery": "tcp-local", "wait": 0}]`,
	})
	store.AddDiscovery(models.Discovery{
		Name:    "off-seq",
		Enabled: false,
		Scanner: sequence,
		Options: `[{"discovery": "tcp-off", "wait": 0}]`,
	})

	return store
}

func execute(t *testing.T, store inventory.Store, args ...string) (string, error) {
	t.Helper()

	opener := func(context.Context, *config.Config, logger.Logger) (inventory.Store, error) {
		return store, nil
	}

	var out bytes.Buffer

	cmd := NewRootCommand(WithStoreOpener(opener))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := cmd.ExecuteContext(ctx)

	return out.String(), err
}

func TestDiscoveryCommand(t *testing.T) {
	store := newLoopbackStore(listenLoopback(t))

	out, err := execute(t, store, "discovery", "--discovery", "tcp-local", "--workers", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "discovery=tcp-local tool=tcp_connect state=completed targets=1 succeeded=1 created=1")

	hosts, err := store.FindHostsByAddress(context.Background(), "127.0.0.1")
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	assert.NotNil(t, hosts[0].LastSeen)
}

func TestDiscoveryCommandDisabled(t *testing.T) {
	store := newLoopbackStore(listenLoopback(t))

	out, err := execute(t, store, "discovery", "--discovery", "tcp-off")
	require.NoError(t, err)
	assert.Contains(t, out, "state=skipped")

	out, err = execute(t, store, "discovery", "--discovery", "tcp-off", "--disabled", "--destinations", "127.0.0.1")
	require.NoError(t, err)
	assert.Contains(t, out, "state=completed targets=1 succeeded=1")
}

func TestDiscoveryCommandErrors(t *testing.T) {
	store := newLoopbackStore(listenLoopback(t))

	_, err := execute(t, store, "discovery")
	require.ErrorIs(t, err, errDiscoveryRequired)

	_, err = execute(t, store, "discovery", "--discovery", "missing")
	require.ErrorIs(t, err, discovery.ErrDiscoveryNotFound)

	_, err = execute(t, store, "discovery", "--discovery", "nightly")
	require.ErrorIs(t, err, discovery.ErrIsSequence)
}

func TestToolCommandRunsEnabledDiscoveries(t *testing.T) {
	store := newLoopbackStore(listenLoopback(t))

	out, err := execute(t, store, "tcp_connect", "--timeout", "1.5")
	require.NoError(t, err)

	assert.Contains(t, out, "discovery=tcp-local")
	assert.NotContains(t, out, "discovery=tcp-off")
}

func TestSequenceCommand(t *testing.T) {
	store := newLoopbackStore(listenLoopback(t))

	out, err := execute(t, store, "sequence", "--discovery", "nightly")
	require.NoError(t, err)

	assert.Contains(t, out, "  discovery=tcp-local tool=tcp_connect state=completed")
	assert.Contains(t, out, "sequence=nightly state=completed steps=1 failed=0")

	disc, err := store.GetDiscoveryByName(context.Background(), "nightly")
	require.NoError(t, err)
	assert.NotNil(t, disc.LastScan)
}

func TestSequenceCommandDisabledWithDestinations(t *testing.T) {
	store := newLoopbackStore(listenLoopback(t))

	out, err := execute(t, store, "sequence", "--discovery", "off-seq")
	require.NoError(t, err)
	assert.Contains(t, out, "sequence=off-seq state=skipped steps=0 failed=0")

	out, err = execute(t, store, "sequence", "--discovery", "off-seq",
		"--disabled", "--destinations", "127.0.0.1", "--workers", "1", "--timeout", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "  discovery=tcp-off tool=tcp_connect state=completed targets=1 succeeded=1")
	assert.Contains(t, out, "sequence=off-seq state=completed steps=1 failed=0")
}

func TestResultsReapplyCommand(t *testing.T) {
	store := newLoopbackStore(listenLoopback(t))

	_, err := execute(t, store, "discovery", "--discovery", "tcp-local")
	require.NoError(t, err)

	out, err := execute(t, store, "results", "reapply", "--discovery", "tcp-local", "--since", "1h")
	require.NoError(t, err)
	assert.Contains(t, out, "discovery=tcp-local rows=1 malformed=0 created=0 updated=1")

	_, err = execute(t, store, "results", "reapply", "--discovery", "tcp-local", "--since", "yesterday")
	require.ErrorIs(t, err, errInvalidSince)
}

func TestMigrateRequiresPostgres(t *testing.T) {
	_, err := execute(t, inventory.NewMemoryStore(), "migrate")
	require.ErrorIs(t, err, errMigrateDriver)
}

func TestCommandOptions(t *testing.T) {
	a := &app{}

	var spec toolSpec

	for _, s := range toolSpecs {
		if s.tool == probe.ToolSNMPFindModel {
			spec = s
		}
	}

	cmd := a.toolCommand(spec)
	require.NoError(t, cmd.ParseFlags([]string{"--community", "private", "--skip-existing", "--retries", "2"}))

	opts := commandOptions(cmd.Flags(), spec.flags)
	assert.Equal(t, models.Options{"community": "private", "skip_existing": true, "retries": 2}, opts)

	req := (&runFlags{}).request(cmd.Flags())
	assert.Zero(t, req.Workers)
	assert.Zero(t, req.Timeout)
}

func TestToolCommandsCoverRegistry(t *testing.T) {
	var tools []string
	for _, spec := range toolSpecs {
		tools = append(tools, spec.tool)
	}

	assert.ElementsMatch(t, probe.DefaultRegistry().Tools(), tools)
}

func TestParseSince(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	got, err := parseSince("", now)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = parseSince("2h", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-2*time.Hour), got)

	got, err = parseSince("2024-02-28T08:00:00Z", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 28, 8, 0, 0, 0, time.UTC), got)

	_, err = parseSince("-1h", now)
	require.ErrorIs(t, err, errInvalidSince)
}
