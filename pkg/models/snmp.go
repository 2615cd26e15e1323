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

import "fmt"

// SNMPValue describes one OID and how its raw value is formatted.
type SNMPValue struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Section string `json:"section"`
	Brand   string `json:"brand"`
	OID     string `json:"oid"`
	Format  string `json:"format"`
	LStrip  bool   `json:"lstrip"`
	RStrip  bool   `json:"rstrip"`
}

// Label is the result key used by host-directed SNMP probes.
func (v SNMPValue) Label() string {
	return fmt.Sprintf("%s - %s - %s", v.Section, v.Brand, v.Name)
}

// SNMPConfigurationValue binds a value to a configuration. Field, when set,
// names the host attribute the value may fill, e.g. "host.serial".
type SNMPConfigurationValue struct {
	Value SNMPValue `json:"value"`
	Field string    `json:"field"`
}

// SNMPConfiguration is a named set of SNMP values, optionally tied to a device
// model and carrying the autodetection signature for it.
type SNMPConfiguration struct {
	ID              int64                    `json:"id"`
	Name            string                   `json:"name"`
	DeviceModelID   *int64                   `json:"device_model_id,omitempty"`
	Values          []SNMPConfigurationValue `json:"values"`
	Autodetect      *SNMPValue               `json:"autodetect,omitempty"`
	AutodetectValue string                   `json:"autodetect_value"`
}

// SNMPVersion maps an operator-facing name ("v1", "v2c") to a protocol version.
type SNMPVersion struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Version int    `json:"version"`
}

// AutodetectModel is a device model paired with the configuration holding its
// autodetection signature.
type AutodetectModel struct {
	Model         DeviceModel
	Configuration SNMPConfiguration
}
