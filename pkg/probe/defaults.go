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

import "net"

// DefaultRegistry returns a registry holding every built-in tool.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	for _, reg := range builtinRegistrations(net.DefaultResolver) {
		// identifiers below are unique
		_ = r.Register(reg)
	}

	return r
}

func builtinRegistrations(resolver Resolver) []Registration {
	return []Registration{
		{Tool: ToolARPRequest, New: newARPRequest},
		{Tool: ToolICMPReply, New: newICMPFactory(ToolICMPReply, icmpNetworkDatagram)},
		{Tool: ToolRawICMPReply, New: newICMPFactory(ToolRawICMPReply, icmpNetworkRaw)},
		{Tool: ToolTCPConnect, New: newTCPConnect},
		{Tool: ToolHostname, New: newHostname(resolver)},
		{Tool: ToolNetBIOSInfo, New: newNetBIOSInfo},
		{Tool: ToolSMBInfo, New: newSMBInfo},
		{Tool: ToolSNMPRequest, New: newSNMPRequest},
		{Tool: ToolSNMPFindModel, New: newSNMPFindModel},
		{Tool: ToolSNMPGet, HostDirected: true, New: newSNMPHostFactory(ToolSNMPGet, false)},
		{Tool: ToolSNMPGetInfo, HostDirected: true, New: newSNMPHostFactory(ToolSNMPGetInfo, true)},
		{Tool: ToolZabbixAgent, New: newZabbixAgent},
	}
}
