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

import "errors"

var (
	// Registry errors
	ErrUnknownTool   = errors.New("unknown tool")
	ErrDuplicateTool = errors.New("tool already registered")

	// Option translation errors
	ErrUnknownOption = errors.New("unknown option")
	ErrInvalidOption = errors.New("invalid option value")
	ErrMissingOption = errors.New("missing required option")

	// Configuration errors reported by probe factories
	ErrUnknownSNMPVersion     = errors.New("unknown SNMP version")
	ErrUnsupportedSNMPVersion = errors.New("unsupported SNMP version")
	ErrUnknownConfiguration   = errors.New("unknown SNMP configuration")
	ErrUnknownInterface       = errors.New("unknown network interface")
	ErrRawSocketDenied        = errors.New("raw socket not permitted")

	// Wire decoding errors, never surfaced past Execute
	errShortNBSTATReply  = errors.New("short NBSTAT reply")
	errShortSMBReply     = errors.New("short SMB session setup reply")
	errNoNTLMSSP         = errors.New("NTLMSSP signature not found")
	errBadZabbixHeader   = errors.New("bad Zabbix response header")
	errZabbixUnsupported = errors.New("item not supported by agent")
	errNoInterface       = errors.New("no interface reaches address")
)

// ErrCatalogRequired is returned by factories of tools that read device
// models or SNMP configurations when no catalog is available.
var ErrCatalogRequired = errors.New("tool requires an inventory catalog")
