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

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions("")
	require.NoError(t, err)
	assert.Empty(t, opts)

	opts, err = ParseOptions(`{"port": 161, "community": "private"}`)
	require.NoError(t, err)
	assert.InDelta(t, 161, opts["port"], 0)
	assert.Equal(t, "private", opts["community"])

	_, err = ParseOptions(`[1,2]`)
	require.ErrorIs(t, err, ErrInvalidOptions)
}

func TestParseSequence(t *testing.T) {
	steps, err := ParseSequence(`[{"discovery": "arp", "wait": 1.5}, {"discovery": "snmp", "wait": 0}]`)
	require.NoError(t, err)
	require.Len(t, steps, 2)

	assert.Equal(t, "arp", steps[0].Discovery)
	assert.Equal(t, 1500*time.Millisecond, steps[0].WaitDuration())
	assert.Equal(t, time.Duration(0), steps[1].WaitDuration())

	_, err = ParseSequence(`[{"wait": 3}]`)
	require.ErrorIs(t, err, ErrInvalidSequence)

	_, err = ParseSequence(`{"discovery": "arp"}`)
	require.ErrorIs(t, err, ErrInvalidSequence)
}

func TestHostTargetIsPrivateCopy(t *testing.T) {
	seen := time.Now()
	host := &Host{ID: 4, Address: "10.0.0.4", DeviceModelID: ID(9), LastSeen: &seen}

	target := HostTarget(host)
	require.True(t, target.IsHost())

	*host.DeviceModelID = 10
	host.Address = "10.0.0.5"

	assert.Equal(t, "10.0.0.4", target.Address)
	assert.Equal(t, int64(9), *target.Host.DeviceModelID)
	assert.False(t, AddressTarget("10.0.0.1").IsHost())
}

func TestSNMPValueLabel(t *testing.T) {
	v := SNMPValue{Section: "System", Brand: "HP", Name: "Serial"}
	assert.Equal(t, "System - HP - Serial", v.Label())
}
