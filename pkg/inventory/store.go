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

// Package inventory defines the record store consumed by the discovery
// engine and an in-memory implementation of it.
package inventory

import (
	"context"
	"time"

	"github.com/carverauto/netscanner/pkg/models"
)

//go:generate mockgen -destination=mock_inventory.go -package=inventory github.com/carverauto/netscanner/pkg/inventory Store

// DiscoveryFilter selects discovery definitions. Zero fields match anything.
type DiscoveryFilter struct {
	Name        string
	Tool        string
	EnabledOnly bool
}

// Store is the inventory as seen by the engine. Every method is a
// synchronous call; RunInTx groups calls into one atomic unit.
type Store interface {
	FindHostsByAddress(ctx context.Context, address string) ([]*models.Host, error)
	FindHostsByAddresses(ctx context.Context, addresses []string) ([]*models.Host, error)
	GetHost(ctx context.Context, id int64) (*models.Host, error)
	CreateHost(ctx context.Context, host *models.Host) (*models.Host, error)
	UpdateHost(ctx context.Context, host *models.Host) error

	FindDiscoveries(ctx context.Context, filter DiscoveryFilter) ([]*models.Discovery, error)
	GetDiscoveryByName(ctx context.Context, name string) (*models.Discovery, error)
	UpdateDiscoveryLastScan(ctx context.Context, id int64, at time.Time) error
	AppendDiscoveryResult(ctx context.Context, result *models.DiscoveryResult) error
	ListDiscoveryResults(ctx context.Context, discoveryID int64, since time.Time) ([]*models.DiscoveryResult, error)

	GetSubnet(ctx context.Context, id int64) (*models.Subnet, error)
	FindSubnetByName(ctx context.Context, name string) (*models.Subnet, error)
	FindDomain(ctx context.Context, name, subdomain string) (*models.Domain, error)
	GetDeviceModel(ctx context.Context, id int64) (*models.DeviceModel, error)
	GetSNMPConfiguration(ctx context.Context, id int64) (*models.SNMPConfiguration, error)
	FindSNMPConfigurationByName(ctx context.Context, name string) (*models.SNMPConfiguration, error)
	ListSNMPConfigurationsByDeviceModel(ctx context.Context, deviceModelID int64) ([]*models.SNMPConfiguration, error)
	ListAutodetectModels(ctx context.Context) ([]models.AutodetectModel, error)
	FindSNMPVersion(ctx context.Context, name string) (*models.SNMPVersion, error)

	// RunInTx runs fn against a transactional view of the store. Changes
	// made through tx are committed when fn returns nil and discarded
	// otherwise.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error

	Close() error
}
