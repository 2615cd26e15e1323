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
	"strings"
	"time"

	"github.com/carverauto/netscanner/pkg/logger"
	"github.com/carverauto/netscanner/pkg/models"
)

const ToolHostname = "hostname"

// Resolver performs reverse lookups. *net.Resolver satisfies it.
type Resolver interface {
	LookupAddr(ctx context.Context, addr string) ([]string, error)
}

type hostnameProbe struct {
	resolver Resolver
	timeout  time.Duration
	logger   logger.Logger
}

func newHostname(resolver Resolver) Factory {
	return func(_ context.Context, env Env, opts models.Options) (Probe, error) {
		var cfg struct{}

		if err := decodeOptions(ToolHostname, env, opts, &cfg); err != nil {
			return nil, err
		}

		return &hostnameProbe{
			resolver: resolver,
			timeout:  env.timeoutOr(defaultTimeout),
			logger:   env.log(ToolHostname),
		}, nil
	}
}

func (*hostnameProbe) Tool() string { return ToolHostname }

func (p *hostnameProbe) Execute(ctx context.Context, target models.Target) models.ProbeResult {
	p.logger.Debug().Str("address", target.Address).Msg("Resolving")

	lookupCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	names, err := p.resolver.LookupAddr(lookupCtx, target.Address)
	if err != nil || len(names) == 0 {
		return models.Failed()
	}

	fqdn := strings.TrimSuffix(names[0], ".")
	if fqdn == "" || fqdn == target.Address {
		return models.Failed()
	}

	return models.Succeeded(map[string]interface{}{"fqdn": fqdn})
}

// SplitFQDN splits a fully qualified name into the host label and the
// remaining domain. domain is empty when fqdn has no dot.
func SplitFQDN(fqdn string) (host, domain string) {
	host, domain, _ = strings.Cut(fqdn, ".")

	return host, domain
}
