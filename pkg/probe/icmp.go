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
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"

	"github.com/carverauto/netscanner/pkg/logger"
	"github.com/carverauto/netscanner/pkg/models"
)

const (
	ToolICMPReply    = "icmp_reply"
	ToolRawICMPReply = "raw_icmp_reply"

	// unprivileged datagram socket, kernel assisted
	icmpNetworkDatagram = "udp4"
	// raw socket, needs CAP_NET_RAW
	icmpNetworkRaw = "ip4:icmp"

	icmpProtocol   = 1
	icmpReadBuffer = 1500
)

var (
	rawSocketCheck = checkRawSocket

	icmpEchoID  = os.Getpid() & 0xffff
	icmpEchoSeq atomic.Uint32
	icmpPayload = []byte("netscanner")
)

type icmpReplyProbe struct {
	tool    string
	network string
	timeout time.Duration
	logger  logger.Logger
}

func newICMPFactory(tool, network string) Factory {
	return func(_ context.Context, env Env, opts models.Options) (Probe, error) {
		var cfg struct{}

		if err := decodeOptions(tool, env, opts, &cfg); err != nil {
			return nil, err
		}

		if network == icmpNetworkRaw {
			if err := rawSocketCheck(); err != nil {
				return nil, err
			}
		}

		return &icmpReplyProbe{
			tool:    tool,
			network: network,
			timeout: env.timeoutOr(defaultTimeout),
			logger:  env.log(tool),
		}, nil
	}
}

func (p *icmpReplyProbe) Tool() string { return p.tool }

func (p *icmpReplyProbe) Execute(ctx context.Context, target models.Target) models.ProbeResult {
	dst := net.ParseIP(target.Address).To4()
	if dst == nil {
		return models.Failed()
	}

	p.logger.Debug().Str("address", target.Address).Msg("Sending echo request")

	conn, err := icmp.ListenPacket(p.network, "0.0.0.0")
	if err != nil {
		p.logger.Warn().Err(err).Str("network", p.network).Msg("failed to open ICMP socket")

		return models.Failed()
	}

	defer func() {
		if err := conn.Close(); err != nil {
			p.logger.Error().Err(err).Msg("failed to close ICMP socket")
		}
	}()

	deadline := time.Now().Add(p.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := conn.SetDeadline(deadline); err != nil {
		return models.Failed()
	}

	seq := int(icmpEchoSeq.Add(1) & 0xffff)

	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{ID: icmpEchoID, Seq: seq, Data: icmpPayload},
	}

	data, err := msg.Marshal(nil)
	if err != nil {
		return models.Failed()
	}

	var peer net.Addr = &net.IPAddr{IP: dst}
	if p.network == icmpNetworkDatagram {
		peer = &net.UDPAddr{IP: dst}
	}

	if _, err := conn.WriteTo(data, peer); err != nil {
		p.logger.Trace().Err(err).Str("address", target.Address).Msg("Echo request not sent")

		return models.Failed()
	}

	buf := make([]byte, icmpReadBuffer)

	for {
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			return models.Failed()
		}

		if !addrIP(from).Equal(dst) {
			continue
		}

		reply, err := icmp.ParseMessage(icmpProtocol, buf[:n])
		if err != nil || reply.Type != ipv4.ICMPTypeEchoReply {
			continue
		}

		echo, ok := reply.Body.(*icmp.Echo)
		if !ok || echo.Seq != seq {
			continue
		}

		// the kernel rewrites the identifier on datagram sockets
		if p.network == icmpNetworkRaw && echo.ID != icmpEchoID {
			continue
		}

		if reply.Code != 0 {
			return models.Failed()
		}

		return models.Succeeded(map[string]interface{}{"reply": true})
	}
}

func addrIP(addr net.Addr) net.IP {
	switch a := addr.(type) {
	case *net.IPAddr:
		return a.IP
	case *net.UDPAddr:
		return a.IP
	default:
		return nil
	}
}
