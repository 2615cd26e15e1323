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
	"fmt"
	"net"
	"net/netip"
	"strings"
	"time"

	"github.com/mdlayher/arp"

	"github.com/carverauto/netscanner/pkg/logger"
	"github.com/carverauto/netscanner/pkg/models"
)

const ToolARPRequest = "arp_request"

type arpRequestConfig struct {
	Interface string `json:"interface"`
}

// arpResolver is the part of *arp.Client used by the probe.
type arpResolver interface {
	SetDeadline(t time.Time) error
	Resolve(ip netip.Addr) (net.HardwareAddr, error)
	Close() error
}

type arpDialFunc func(ifi *net.Interface) (arpResolver, error)

func dialARP(ifi *net.Interface) (arpResolver, error) {
	client, err := arp.Dial(ifi)
	if err != nil {
		return nil, err
	}

	return client, nil
}

type arpRequestProbe struct {
	iface   *net.Interface
	dial    arpDialFunc
	route   func(ip netip.Addr) (*net.Interface, error)
	timeout time.Duration
	logger  logger.Logger
}

func newARPRequest(_ context.Context, env Env, opts models.Options) (Probe, error) {
	var cfg arpRequestConfig

	if err := decodeOptions(ToolARPRequest, env, opts, &cfg); err != nil {
		return nil, err
	}

	p := &arpRequestProbe{
		dial:    dialARP,
		route:   interfaceFor,
		timeout: env.timeoutOr(defaultTimeout),
		logger:  env.log(ToolARPRequest),
	}

	if cfg.Interface != "" {
		ifi, err := net.InterfaceByName(cfg.Interface)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrUnknownInterface, cfg.Interface, err)
		}

		p.iface = ifi
	}

	return p, nil
}

func (*arpRequestProbe) Tool() string { return ToolARPRequest }

func (p *arpRequestProbe) Execute(ctx context.Context, target models.Target) models.ProbeResult {
	addr, err := netip.ParseAddr(target.Address)
	if err != nil || !addr.Is4() {
		return models.Failed()
	}

	ifi := p.iface
	if ifi == nil {
		if ifi, err = p.route(addr); err != nil {
			p.logger.Trace().Err(err).Str("address", target.Address).Msg("No interface")

			return models.Failed()
		}
	}

	p.logger.Debug().Str("address", target.Address).Str("interface", ifi.Name).Msg("Sending ARP request")

	client, err := p.dial(ifi)
	if err != nil {
		p.logger.Warn().Err(err).Str("interface", ifi.Name).Msg("failed to open ARP socket")

		return models.Failed()
	}

	defer func() {
		if err := client.Close(); err != nil {
			p.logger.Error().Err(err).Msg("failed to close ARP client")
		}
	}()

	deadline := time.Now().Add(p.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := client.SetDeadline(deadline); err != nil {
		return models.Failed()
	}

	mac, err := client.Resolve(addr)
	if err != nil || len(mac) == 0 {
		return models.Failed()
	}

	return models.Succeeded(map[string]interface{}{
		"mac_address": strings.ToUpper(mac.String()),
	})
}

// interfaceFor returns the up, non-loopback interface with an IPv4 network
// containing ip.
func interfaceFor(ip netip.Addr) (*net.Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for i := range ifaces {
		ifi := &ifaces[i]
		if ifi.Flags&net.FlagUp == 0 || ifi.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := ifi.Addrs()
		if err != nil {
			continue
		}

		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok || ipnet.IP.To4() == nil {
				continue
			}

			if ipnet.Contains(net.IP(ip.AsSlice())) {
				return ifi, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %s", errNoInterface, ip)
}
