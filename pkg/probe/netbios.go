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

const (
	ToolNetBIOSInfo = "netbios_info"
	ToolSMBInfo     = "smb_info"

	defaultNetBIOSSessionPort = 139
	defaultNetBIOSNamePort    = 137
	defaultSMBPort            = 445

	nbstatReadBuffer = 2000
)

type netbiosInfoConfig struct {
	Port      int `json:"port"`
	PortNames int `json:"port_names"`
}

type smbInfoConfig struct {
	Port int `json:"port"`
}

// netbiosProbe runs the SMB exchange, preceded by a node status query and a
// session request when names is set.
type netbiosProbe struct {
	tool      string
	names     bool
	port      int
	portNames int
	timeout   time.Duration
	logger    logger.Logger
	now       func() time.Time
}

func newNetBIOSInfo(_ context.Context, env Env, opts models.Options) (Probe, error) {
	cfg := netbiosInfoConfig{Port: defaultNetBIOSSessionPort, PortNames: defaultNetBIOSNamePort}

	if err := decodeOptions(ToolNetBIOSInfo, env, opts, &cfg); err != nil {
		return nil, err
	}

	if err := validatePort(ToolNetBIOSInfo, "port", cfg.Port); err != nil {
		return nil, err
	}

	if err := validatePort(ToolNetBIOSInfo, "port_names", cfg.PortNames); err != nil {
		return nil, err
	}

	return &netbiosProbe{
		tool:      ToolNetBIOSInfo,
		names:     true,
		port:      cfg.Port,
		portNames: cfg.PortNames,
		timeout:   env.timeoutOr(defaultTimeout),
		logger:    env.log(ToolNetBIOSInfo),
		now:       time.Now,
	}, nil
}

func newSMBInfo(_ context.Context, env Env, opts models.Options) (Probe, error) {
	cfg := smbInfoConfig{Port: defaultSMBPort}

	if err := decodeOptions(ToolSMBInfo, env, opts, &cfg); err != nil {
		return nil, err
	}

	if err := validatePort(ToolSMBInfo, "port", cfg.Port); err != nil {
		return nil, err
	}

	return &netbiosProbe{
		tool:    ToolSMBInfo,
		port:    cfg.Port,
		timeout: env.timeoutOr(defaultTimeout),
		logger:  env.log(ToolSMBInfo),
		now:     time.Now,
	}, nil
}

func (p *netbiosProbe) Tool() string { return p.tool }

func (p *netbiosProbe) Execute(ctx context.Context, target models.Target) models.ProbeResult {
	p.logger.Debug().Str("address", target.Address).Msg("Inspecting NetBIOS/SMB")

	fields := make(map[string]interface{})

	var calledName string

	if p.names {
		names, err := p.queryNames(ctx, target.Address)
		if err != nil || len(names.Unique) == 0 {
			return models.Failed()
		}

		fields["names"] = names.Unique
		fields["group"] = names.Group
		calledName = names.Unique[0]
	}

	smbFields, err := p.sessionSetup(ctx, target.Address, calledName)
	if err != nil {
		p.logger.Trace().Err(err).Str("address", target.Address).Msg("SMB exchange incomplete")
	}

	for k, v := range smbFields {
		fields[k] = v
	}

	if len(fields) == 0 {
		return models.Failed()
	}

	fields["timestamp"] = p.now()

	return models.Succeeded(fields)
}

func (p *netbiosProbe) queryNames(ctx context.Context, address string) (nbstatNames, error) {
	queryCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var dialer net.Dialer

	conn, err := dialer.DialContext(queryCtx, "udp4", net.JoinHostPort(address, strconv.Itoa(p.portNames)))
	if err != nil {
		return nbstatNames{}, err
	}

	defer func() {
		_ = conn.Close()
	}()

	if deadline, ok := queryCtx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return nbstatNames{}, err
		}
	}

	if _, err := conn.Write(nbstatQuery); err != nil {
		return nbstatNames{}, err
	}

	buf := make([]byte, nbstatReadBuffer)

	n, err := conn.Read(buf)
	if err != nil {
		return nbstatNames{}, err
	}

	p.logger.Trace().Str("address", address).Hex("reply", buf[:n]).Msg("NBSTAT reply")

	return parseNBSTAT(buf[:n])
}

func (p *netbiosProbe) sessionSetup(ctx context.Context, address, calledName string) (map[string]interface{}, error) {
	exchangeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var dialer net.Dialer

	conn, err := dialer.DialContext(exchangeCtx, "tcp", net.JoinHostPort(address, strconv.Itoa(p.port)))
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = conn.Close()
	}()

	if deadline, ok := exchangeCtx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, err
		}
	}

	if p.names {
		if err := roundTrip(conn, nbssSessionRequest(calledName)); err != nil {
			return nil, err
		}
	}

	if err := roundTrip(conn, smbNegotiateRequest); err != nil {
		return nil, err
	}

	if _, err := conn.Write(smbSessionSetupRequest); err != nil {
		return nil, err
	}

	reply, err := readNBSSFrame(conn)
	if err != nil {
		return nil, err
	}

	p.logger.Trace().Str("address", address).Hex("reply", reply).Msg("Session setup reply")

	return parseSessionSetup(reply)
}

func roundTrip(conn net.Conn, request []byte) error {
	if _, err := conn.Write(request); err != nil {
		return err
	}

	_, err := readNBSSFrame(conn)

	return err
}
