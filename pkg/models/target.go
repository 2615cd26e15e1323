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

// Package models provides the data models shared by the discovery engine.
package models

// Target is the unit of work handed to the worker pool. Host is only set for
// host-directed discoveries and always points at a private copy.
type Target struct {
	Address string
	Host    *Host
}

// AddressTarget builds a target for an address-directed probe.
func AddressTarget(address string) Target {
	return Target{Address: address}
}

// HostTarget builds a target bound to an inventory record.
func HostTarget(host *Host) Target {
	h := host.Clone()

	return Target{Address: h.Address, Host: h}
}

// IsHost reports whether the target references an inventory record.
func (t Target) IsHost() bool {
	return t.Host != nil
}

// ProbeResult is the structured outcome of one probe invocation.
type ProbeResult struct {
	Status bool
	Fields map[string]interface{}
}

// Failed returns an empty, unsuccessful result.
func Failed() ProbeResult {
	return ProbeResult{Fields: map[string]interface{}{}}
}

// Succeeded wraps fields into a successful result.
func Succeeded(fields map[string]interface{}) ProbeResult {
	if fields == nil {
		fields = map[string]interface{}{}
	}

	return ProbeResult{Status: true, Fields: fields}
}

// String returns a string field, or "" when absent or not a string.
func (r ProbeResult) String(key string) string {
	if v, ok := r.Fields[key].(string); ok {
		return v
	}

	return ""
}

// Outcome pairs a target with the result of probing it.
type Outcome struct {
	Target Target
	Result ProbeResult
}
