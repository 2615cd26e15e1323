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
	"net"
	"strconv"
	"time"

	"github.com/carverauto/netscanner/pkg/logger"
	"github.com/carverauto/netscanner/pkg/models"
)

const ToolTCPConnect = "tcp_connect"

type tcpConnectConfig struct {
	Port int `json:"port"`
}

type tcpConnectProbe struct {
	port    int
	timeout time.Duration
	logger  logger.Logger
}

func newTCPConnect(_ context.Context, env Env, opts models.Options) (Probe, error) {
	var cfg tcpConnectConfig

	if err := decodeOptions(ToolTCPConnect, env, opts, &cfg); err != nil {
		return nil, err
	}

	if cfg.Port == 0 {
		return nil, missingOption(ToolTCPConnect, "port")
	}

	if err := validatePort(ToolTCPConnect, "port", cfg.Port); err != nil {
		return nil, err
	}

	return &tcpConnectProbe{
		port:    cfg.Port,
		timeout: env.timeoutOr(defaultTimeout),
		logger:  env.log(ToolTCPConnect),
	}, nil
}

func (*tcpConnectProbe) Tool() string { return ToolTCPConnect }

func (p *tcpConnectProbe) Execute(ctx context.Context, target models.Target) models.ProbeResult {
	p.logger.Debug().Str("address", target.Address).Int("port", p.port).Msg("Connecting")

	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var dialer net.Dialer

	conn, err := dialer.DialContext(probeCtx, "tcp", net.JoinHostPort(target.Address, strconv.Itoa(p.port)))
	if err != nil {
		p.logger.Trace().Err(err).Str("address", target.Address).Msg("Connection failed")

		return models.Failed()
	}

	if err := conn.Close(); err != nil {
		p.logger.Error().Err(err).Msg("failed to close connection")
	}

	return models.Succeeded(map[string]interface{}{"connected": true})
}
