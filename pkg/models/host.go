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

package models

import "time"

// Host is an inventory record. Several hosts may share an address when they
// belong to different locations.
type Host struct {
	ID                  int64      `json:"id"`
	Name                string     `json:"name"`
	Address             string     `json:"address"`
	MACAddress          string     `json:"mac_address"`
	Hostname            string     `json:"hostname"`
	Serial              string     `json:"serial"`
	Description         string     `json:"description"`
	Area                string     `json:"area"`
	Position            string     `json:"position"`
	SubnetID            *int64     `json:"subnet_id,omitempty"`
	DomainID            *int64     `json:"domain_id,omitempty"`
	DeviceModelID       *int64     `json:"device_model_id,omitempty"`
	OperatingSystemID   *int64     `json:"operating_system_id,omitempty"`
	CompanyID           *int64     `json:"company_id,omitempty"`
	LocationID          *int64     `json:"location_id,omitempty"`
	SNMPConfigurationID *int64     `json:"snmp_configuration_id,omitempty"`
	SNMPVersion         string     `json:"snmp_version"`
	SNMPCommunity       string     `json:"snmp_community"`
	Enabled             bool       `json:"enabled"`
	NoDiscovery         bool       `json:"no_discovery"`
	LastSeen            *time.Time `json:"last_seen,omitempty"`
}

// Clone returns a deep copy of the host.
func (h *Host) Clone() *Host {
	if h == nil {
		return nil
	}

	c := *h
	c.SubnetID = cloneID(h.SubnetID)
	c.DomainID = cloneID(h.DomainID)
	c.DeviceModelID = cloneID(h.DeviceModelID)
	c.OperatingSystemID = cloneID(h.OperatingSystemID)
	c.CompanyID = cloneID(h.CompanyID)
	c.LocationID = cloneID(h.LocationID)
	c.SNMPConfigurationID = cloneID(h.SNMPConfigurationID)

	if h.LastSeen != nil {
		t := *h.LastSeen
		c.LastSeen = &t
	}

	return &c
}

// HasDeviceModel reports whether a device model is assigned.
func (h *Host) HasDeviceModel() bool {
	return h.DeviceModelID != nil
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}

	v := *id

	return &v
}

// ID returns a pointer to a copy of v, for optional foreign keys.
func ID(v int64) *int64 {
	return &v
}

// Subnet is an IPv4 network the engine can enumerate.
type Subnet struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"subnet_ip"`
	CIDR    int    `json:"cidr"`
}

// Domain is a DNS domain; Subdomain is empty for a main domain.
type Domain struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Subdomain string `json:"subdomain"`
}

// DeviceModel identifies a kind of device and its default SNMP configuration.
type DeviceModel struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	Brand               string `json:"brand"`
	SNMPConfigurationID *int64 `json:"snmp_configuration_id,omitempty"`
}
