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

	"github.com/carverauto/netscanner/pkg/models"
)

//go:generate mockgen -destination=mock_probe.go -package=probe github.com/carverauto/netscanner/pkg/probe Catalog,Probe

// Catalog is the read-only slice of the inventory store used by probes that
// need device model or SNMP configuration data.
type Catalog interface {
	FindHostsByAddress(ctx context.Context, address string) ([]*models.Host, error)
	GetDeviceModel(ctx context.Context, id int64) (*models.DeviceModel, error)
	GetSNMPConfiguration(ctx context.Context, id int64) (*models.SNMPConfiguration, error)
	FindSNMPConfigurationByName(ctx context.Context, name string) (*models.SNMPConfiguration, error)
	ListSNMPConfigurationsByDeviceModel(ctx context.Context, deviceModelID int64) ([]*models.SNMPConfiguration, error)
	ListAutodetectModels(ctx context.Context) ([]models.AutodetectModel, error)
	FindSNMPVersion(ctx context.Context, name string) (*models.SNMPVersion, error)
}
