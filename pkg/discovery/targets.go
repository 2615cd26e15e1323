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
	"context"
	"fmt"
	"strings"

	"github.com/carverauto/netscanner/pkg/models"
	"github.com/carverauto/netscanner/pkg/scan"
)

// ParseDestinations splits a space separated destination list.
func ParseDestinations(s string) []string {
	return strings.Fields(s)
}

// addresses returns the explicit destinations or the enumerated subnet.
func (o *Orchestrator) addresses(ctx context.Context, discovery *models.Discovery, destinations []string) ([]string, error) {
	if len(destinations) > 0 {
		return destinations, nil
	}

	if discovery.SubnetID == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoTargetSource, discovery.Name)
	}

	subnet, err := o.store.GetSubnet(ctx, *discovery.SubnetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subnet of %q: %w", discovery.Name, err)
	}

	addresses, err := scan.EnumerateSubnet(subnet.Address, subnet.CIDR)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%d: %w", ErrInvalidSubnet, subnet.Address, subnet.CIDR, err)
	}

	return addresses, nil
}

// targets builds the work list. Host-directed tools probe the inventory
// records at those addresses that have a device model.
func (o *Orchestrator) targets(
	ctx context.Context, discovery *models.Discovery, hostDirected bool, destinations []string) ([]models.Target, error) {
	addresses, err := o.addresses(ctx, discovery, destinations)
	if err != nil {
		return nil, err
	}

	if !hostDirected {
		targets := make([]models.Target, len(addresses))
		for i, address := range addresses {
			targets[i] = models.AddressTarget(address)
		}

		return targets, nil
	}

	if len(addresses) == 0 {
		return nil, nil
	}

	hosts, err := o.store.FindHostsByAddresses(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("failed to load hosts of %q: %w", discovery.Name, err)
	}

	targets := make([]models.Target, 0, len(hosts))

	for _, host := range hosts {
		if host.HasDeviceModel() {
			targets = append(targets, models.HostTarget(host))
		}
	}

	return targets, nil
}
