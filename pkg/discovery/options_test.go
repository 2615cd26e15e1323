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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/netscanner/pkg/models"
	"github.com/carverauto/netscanner/pkg/probe"
	"github.com/carverauto/netscanner/pkg/scan"
)

func TestResolveOptions(t *testing.T) {
	resolved := ResolveOptions(
		models.Options{"port": 161, "verbosity": 3, "destinations": "10.0.0.1"},
		models.Options{"port": 1161, "community": "private"},
		nil,
		models.Options{"community": "secret", "traceback": true},
	)

	assert.Equal(t, models.Options{"port": 1161, "community": "secret"}, resolved)
}

func TestResolveDiscoveryOptions(t *testing.T) {
	disc := &models.Discovery{
		Name:    "snmp",
		Scanner: models.Scanner{Name: "snmp", Tool: probe.ToolSNMPRequest, Options: `{"port": 1161, "retries": 2}`},
		Options: `{"retries": 5}`,
	}

	opts, err := resolveDiscoveryOptions(disc, models.Options{"port": 161, "community": "public", "settings": "x"})
	require.NoError(t, err)
	assert.Equal(t, models.Options{"port": float64(1161), "retries": float64(5), "community": "public"}, opts)

	disc.Options = `not json`
	_, err = resolveDiscoveryOptions(disc, nil)
	require.ErrorIs(t, err, models.ErrInvalidOptions)
}

func TestResolveSettings(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		discovery models.Discovery
		req       RunRequest
		opts      models.Options
		want      runSettings
	}{
		{
			name: "engine defaults",
			want: runSettings{workers: scan.DefaultWorkers},
		},
		{
			name: "config",
			cfg:  Config{Workers: 4, Timeout: 2 * time.Second, RateLimit: 50},
			want: runSettings{workers: 4, timeout: 2 * time.Second, rateLimit: 50},
		},
		{
			name: "options override config",
			cfg:  Config{Workers: 4, Timeout: 2 * time.Second},
			opts: models.Options{"workers": float64(8), "timeout": "0.5", "rate_limit": 10},
			want: runSettings{workers: 8, timeout: 500 * time.Millisecond, rateLimit: 10},
		},
		{
			name:      "discovery overrides options",
			discovery: models.Discovery{Workers: 16, Timeout: 3},
			opts:      models.Options{"workers": float64(8), "timeout": float64(1)},
			want:      runSettings{workers: 16, timeout: 3 * time.Second},
		},
		{
			name:      "request wins",
			discovery: models.Discovery{Workers: 16, Timeout: 3},
			req:       RunRequest{Workers: 2, Timeout: time.Second},
			want:      runSettings{workers: 2, timeout: time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveSettings(tt.cfg, &tt.discovery, tt.req, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := resolveSettings(Config{}, &models.Discovery{}, RunRequest{}, models.Options{"workers": "many"})
	require.ErrorIs(t, err, probe.ErrInvalidOption)

	_, err = resolveSettings(Config{}, &models.Discovery{}, RunRequest{}, models.Options{"timeout": []int{1}})
	require.ErrorIs(t, err, probe.ErrInvalidOption)
}

func TestRunTransitions(t *testing.T) {
	run := newRun(&models.Discovery{Name: "d", Scanner: models.Scanner{Tool: "t"}}, time.Now())
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, StateIdle, run.State)

	require.ErrorIs(t, run.transition(StateMerging), ErrInvalidTransition)
	require.NoError(t, run.transition(StateEnumerating))
	require.ErrorIs(t, run.transition(StateSkipped), ErrInvalidTransition)
	require.NoError(t, run.transition(StateFailed))
	require.ErrorIs(t, run.transition(StateEnumerating), ErrInvalidTransition)

	assert.Equal(t, []State{StateIdle, StateEnumerating, StateFailed}, run.History())

	for _, s := range []State{StateCompleted, StateSkipped, StateFailed} {
		assert.True(t, s.Terminal(), s)
	}

	for _, s := range []State{StateIdle, StateEnumerating, StateDispatching, StateMerging} {
		assert.False(t, s.Terminal(), s)
	}
}

func TestSerializeResult(t *testing.T) {
	seen := time.Unix(1700000000, 0)

	payload, err := SerializeResult(models.Succeeded(map[string]interface{}{
		"last_boot": seen,
		"ports":     []string{"22", "80"},
		"mixed":     []interface{}{1, "a"},
		"name":      "srv",
	}))
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"last_boot": 1700000000, "ports": "22, 80", "mixed": "1, a", "name": "srv", "status": true}`,
		payload)

	result, err := DecodeResult(payload)
	require.NoError(t, err)
	assert.True(t, result.Status)
	assert.Equal(t, "srv", result.String("name"))
	assert.NotContains(t, result.Fields, "status")

	payload, err = SerializeResult(models.Failed())
	require.NoError(t, err)
	assert.JSONEq(t, `{"status": false}`, payload)
}

func TestDecodeResult(t *testing.T) {
	result, err := DecodeResult("")
	require.NoError(t, err)
	assert.False(t, result.Status)

	result, err = DecodeResult(`{"mac_address": "AA"}`)
	require.NoError(t, err)
	assert.True(t, result.Status)

	result, err = DecodeResult(`{"status": false, "mac_address": "AA"}`)
	require.NoError(t, err)
	assert.False(t, result.Status)
	assert.Empty(t, result.Fields)

	_, err = DecodeResult(`{"status": "yes"}`)
	require.ErrorIs(t, err, ErrMalformedResult)

	_, err = DecodeResult(`{broken`)
	require.ErrorIs(t, err, ErrMalformedResult)
}
