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

// Package scan expands subnets into probe targets and fans probes out over a
// bounded worker pool.
package scan

import (
	"encoding/binary"
	"fmt"
	"net"
)

const (
	maxPrefix = 32

	// widest network that is expanded into targets
	minPrefix = 8

	// upper bound on the slice preallocation for very large networks
	maxPrealloc = 1 << 16
)

// EnumerateSubnet returns the usable host addresses of address/prefix in
// ascending numeric order. Network and broadcast addresses are excluded,
// except for /31 (both addresses usable) and /32 (the single address).
// Prefixes shorter than /8 are rejected with ErrSubnetTooLarge.
func EnumerateSubnet(address string, prefix int) ([]string, error) {
	ip := net.ParseIP(address)
	if ip == nil || ip.To4() == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotIPv4, address)
	}

	if prefix < 0 || prefix > maxPrefix {
		return nil, fmt.Errorf("%w: /%d", ErrInvalidPrefix, prefix)
	}

	return ExpandCIDR(fmt.Sprintf("%s/%d", ip.To4(), prefix))
}

// ExpandCIDR expands a CIDR notation into a slice of usable host addresses.
func ExpandCIDR(cidr string) ([]string, error) {
	baseIP, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSubnet, err)
	}

	if baseIP.To4() == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotIPv4, cidr)
	}

	ones, _ := ipnet.Mask.Size()
	if ones < minPrefix {
		return nil, fmt.Errorf("%w: /%d", ErrSubnetTooLarge, ones)
	}

	network := binary.BigEndian.Uint32(ipnet.IP.To4())
	size := uint64(1) << uint(maxPrefix-ones)

	first, last := uint64(network), uint64(network)+size-1

	// point-to-point and single host networks have no reserved addresses
	if ones < maxPrefix-1 {
		first++
		last--
	}

	count := last - first + 1

	ips := make([]string, 0, min(count, maxPrealloc))

	for n := first; n <= last; n++ {
		ips = append(ips, uint32ToIP(uint32(n)).String())
	}

	return ips, nil
}

// Contains reports whether address belongs to the network address/prefix.
func Contains(network string, prefix int, address string) bool {
	_, ipnet, err := net.ParseCIDR(fmt.Sprintf("%s/%d", network, prefix))
	if err != nil {
		return false
	}

	ip := net.ParseIP(address)

	return ip != nil && ipnet.Contains(ip)
}

func uint32ToIP(n uint32) net.IP {
	ip := make(net.IP, net.IPv4len)
	binary.BigEndian.PutUint32(ip, n)

	return ip
}
