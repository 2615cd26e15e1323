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

package probe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/netscanner/pkg/logger"
	"github.com/carverauto/netscanner/pkg/models"
)

func TestDecodeOptions(t *testing.T) {
	env := Env{Logger: logger.NewTestLogger()}

	var cfg tcpConnectConfig

	err := decodeOptions(ToolTCPConnect, env, models.Options{"port": 22.0, "workers": 5.0, "bogus": true}, &cfg)
	require.NoError(t, err)
	assert.Equal(t, 22, cfg.Port)

	env.Strict = true
	err = decodeOptions(ToolTCPConnect, env, models.Options{"port": 22.0, "bogus": true}, &tcpConnectConfig{})
	require.ErrorIs(t, err, ErrUnknownOption)
	assert.Contains(t, err.Error(), "bogus")

	// engine keys are never unknown
	err = decodeOptions(ToolTCPConnect, env, models.Options{"timeout": 3.0, "rate_limit": 10.0}, &tcpConnectConfig{})
	require.NoError(t, err)

	err = decodeOptions(ToolTCPConnect, env, models.Options{"port": "ssh"}, &tcpConnectConfig{})
	require.ErrorIs(t, err, ErrInvalidOption)
}

func TestDecodeOptionsEmbeddedConfig(t *testing.T) {
	cfg := snmpRequestConfig{snmpAgentConfig: defaultSNMPAgentConfig()}

	err := decodeOptions(ToolSNMPRequest, Env{Strict: true},
		models.Options{"community": "private", "configuration": "printers", "retries": 2.0}, &cfg)
	require.NoError(t, err)

	assert.Equal(t, "private", cfg.Community)
	assert.Equal(t, "printers", cfg.Configuration)
	assert.Equal(t, 2, cfg.Retries)
	assert.Equal(t, defaultSNMPVersion, cfg.Version)
	assert.Equal(t, defaultSNMPPort, cfg.Port)
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, []string{
		ToolARPRequest,
		ToolHostname,
		ToolICMPReply,
		ToolNetBIOSInfo,
		ToolRawICMPReply,
		ToolSMBInfo,
		ToolSNMPFindModel,
		ToolSNMPGet,
		ToolSNMPGetInfo,
		ToolSNMPRequest,
		ToolTCPConnect,
		ToolZabbixAgent,
	}, r.Tools())

	for _, tool := range r.Tools() {
		reg, err := r.Lookup(tool)
		require.NoError(t, err)
		assert.Equal(t, tool == ToolSNMPGet || tool == ToolSNMPGetInfo, reg.HostDirected, tool)
	}

	err := r.Register(Registration{Tool: ToolTCPConnect, New: newTCPConnect})
	require.ErrorIs(t, err, ErrDuplicateTool)

	_, err = r.New(context.Background(), "telnet", Env{}, nil)
	require.ErrorIs(t, err, ErrUnknownTool)

	_, err = r.New(context.Background(), ToolTCPConnect, Env{}, models.Options{})
	require.ErrorIs(t, err, ErrMissingOption)

	_, err = r.New(context.Background(), ToolTCPConnect, Env{}, models.Options{"port": 70000.0})
	require.ErrorIs(t, err, ErrInvalidOption)

	_, err = r.New(context.Background(), ToolSNMPGet, Env{}, models.Options{})
	require.ErrorIs(t, err, ErrCatalogRequired)
}

func TestRegistryCustomTool(t *testing.T) {
	r := NewRegistry()

	called := false

	require.NoError(t, r.Register(Registration{
		Tool: "custom",
		New: func(_ context.Context, env Env, opts models.Options) (Probe, error) {
			called = true

			assert.Equal(t, "x", opts["flag"])

			return nil, nil
		},
	}))

	_, err := r.New(context.Background(), "custom", Env{}, models.Options{"flag": "x"})
	require.NoError(t, err)
	assert.True(t, called)
}
