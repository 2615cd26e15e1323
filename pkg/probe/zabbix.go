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
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/carverauto/netscanner/pkg/logger"
	"github.com/carverauto/netscanner/pkg/models"
)

const (
	ToolZabbixAgent = "zabbix_agent"

	defaultZabbixPort = 10050
	zabbixPingItem    = "agent.ping"
	zabbixUnsupported = "ZBX_NOTSUPPORTED"

	// "ZBXD" + flags + uint32 data length + uint32 reserved
	zabbixHeaderLen  = 13
	zabbixMaxPayload = 4096
)

var zabbixMagic = []byte("ZBXD\x01")

type zabbixAgentConfig struct {
	Port  int      `json:"port"`
	Items []string `json:"items"`
}

type zabbixAgentProbe struct {
	port    int
	items   []string
	timeout time.Duration
	logger  logger.Logger
	now     func() time.Time
}

func newZabbixAgent(_ context.Context, env Env, opts models.Options) (Probe, error) {
	cfg := zabbixAgentConfig{Port: defaultZabbixPort}

	if err := decodeOptions(ToolZabbixAgent, env, opts, &cfg); err != nil {
		return nil, err
	}

	if err := validatePort(ToolZabbixAgent, "port", cfg.Port); err != nil {
		return nil, err
	}

	if len(cfg.Items) == 0 {
		return nil, missingOption(ToolZabbixAgent, "items")
	}

	return &zabbixAgentProbe{
		port:    cfg.Port,
		items:   cfg.Items,
		timeout: env.timeoutOr(defaultTimeout),
		logger:  env.log(ToolZabbixAgent),
		now:     time.Now,
	}, nil
}

func (*zabbixAgentProbe) Tool() string { return ToolZabbixAgent }

func (p *zabbixAgentProbe) Execute(ctx context.Context, target models.Target) models.ProbeResult {
	p.logger.Debug().Str("address", target.Address).Msg("Querying agent")

	fields := make(map[string]interface{})

	for _, item := range p.items {
		p.logger.Trace().Str("address", target.Address).Str("item", item).Msg("Requesting item")

		value, err := p.query(ctx, target.Address, item)
		if err != nil {
			// an agent that does not answer the ping is down
			if item == zabbixPingItem && !errors.Is(err, errZabbixUnsupported) {
				break
			}

			continue
		}

		fields[item] = value
	}

	if len(fields) == 0 {
		return models.Failed()
	}

	fields["timestamp"] = p.now()

	return models.Succeeded(fields)
}

func (p *zabbixAgentProbe) query(ctx context.Context, address, item string) (string, error) {
	queryCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var dialer net.Dialer

	conn, err := dialer.DialContext(queryCtx, "tcp", net.JoinHostPort(address, strconv.Itoa(p.port)))
	if err != nil {
		return "", err
	}

	defer func() {
		_ = conn.Close()
	}()

	if deadline, ok := queryCtx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return "", err
		}
	}

	if _, err := conn.Write(encodeZabbixRequest(item)); err != nil {
		return "", err
	}

	return readZabbixResponse(conn)
}

// encodeZabbixRequest frames item as ZBXD\x01 + uint64 LE length + data.
func encodeZabbixRequest(item string) []byte {
	buf := make([]byte, 0, len(zabbixMagic)+8+len(item))
	buf = append(buf, zabbixMagic...)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(item)))

	return append(buf, item...)
}

func readZabbixResponse(r io.Reader) (string, error) {
	header := make([]byte, zabbixHeaderLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return "", err
	}

	if !bytes.HasPrefix(header, zabbixMagic[:4]) {
		return "", errBadZabbixHeader
	}

	size := int(binary.LittleEndian.Uint32(header[5:9]))
	if size > zabbixMaxPayload {
		size = zabbixMaxPayload
	}

	data := make([]byte, size)

	n, err := io.ReadFull(r, data)
	if err != nil && n == 0 && size > 0 {
		return "", err
	}

	value := string(data[:n])
	if strings.HasPrefix(value, zabbixUnsupported) {
		return "", fmt.Errorf("%w: %s", errZabbixUnsupported, value)
	}

	return value, nil
}
