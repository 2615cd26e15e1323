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
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/carverauto/netscanner/pkg/inventory"
	"github.com/carverauto/netscanner/pkg/logger"
	"github.com/carverauto/netscanner/pkg/models"
	"github.com/carverauto/netscanner/pkg/probe"
)

// Merge actions reported to the Recorder.
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionExcluded = "excluded"
)

const hostFieldPrefix = "host."

// MergeStats counts what one merge did.
type MergeStats struct {
	Created  int
	Updated  int
	Excluded int
	// Discarded counts failed outcomes, which never touch hosts.
	Discarded int
	Logged    int
}

// MergeInput is the outcome set of one run.
type MergeInput struct {
	Discovery *models.Discovery
	RunID     string
	Options   models.Options
	Outcomes  []models.Outcome
	// KeepFailed also writes failed outcomes to the result log.
	KeepFailed bool
	// SkipLog leaves the result log untouched, used when re-merging
	// stored results.
	SkipLog bool
}

// Merger reconciles probe outcomes with the inventory.
type Merger struct {
	logger logger.Logger
	now    func() time.Time
}

func NewMerger(log logger.Logger) *Merger {
	return &Merger{logger: log, now: time.Now}
}

// Merge applies every successful outcome inside one store transaction. Any
// store error rolls the whole merge back.
func (m *Merger) Merge(ctx context.Context, store inventory.Store, in MergeInput) (MergeStats, error) {
	policy := policyFor(in.Discovery.Tool())

	options := in.Options
	if options == nil {
		options = models.Options{}
	}

	serializedOptions, err := json.Marshal(options)
	if err != nil {
		return MergeStats{}, fmt.Errorf("failed to serialize options: %w", err)
	}

	var stats MergeStats

	err = store.RunInTx(ctx, func(ctx context.Context, tx inventory.Store) error {
		stats = MergeStats{}
		now := m.now()

		for _, outcome := range in.Outcomes {
			if !outcome.Result.Status {
				stats.Discarded++

				if in.KeepFailed && !in.SkipLog {
					if err := m.appendResult(ctx, tx, in, string(serializedOptions), outcome, now); err != nil {
						return err
					}

					stats.Logged++
				}

				continue
			}

			m.logger.Info().
				Str("address", outcome.Target.Address).
				Interface("fields", outcome.Result.Fields).
				Msg("Probe result")

			if err := m.mergeOutcome(ctx, tx, policy, in.Discovery, outcome, now, &stats); err != nil {
				return err
			}

			if in.SkipLog {
				continue
			}

			if err := m.appendResult(ctx, tx, in, string(serializedOptions), outcome, now); err != nil {
				return err
			}

			stats.Logged++
		}

		return nil
	})
	if err != nil {
		return MergeStats{}, fmt.Errorf("merge for discovery %q rolled back: %w", in.Discovery.Name, err)
	}

	return stats, nil
}

func (m *Merger) appendResult(
	ctx context.Context, tx inventory.Store, in MergeInput, options string, outcome models.Outcome, now time.Time) error {
	payload, err := SerializeResult(outcome.Result)
	if err != nil {
		return err
	}

	return tx.AppendDiscoveryResult(ctx, &models.DiscoveryResult{
		DiscoveryID:  in.Discovery.ID,
		RunID:        in.RunID,
		Address:      outcome.Target.Address,
		Options:      options,
		ScanDatetime: now,
		Results:      payload,
	})
}

func (m *Merger) mergeOutcome(
	ctx context.Context, tx inventory.Store, policy mergePolicy, discovery *models.Discovery,
	outcome models.Outcome, now time.Time, stats *MergeStats) error {
	fields := outcome.Result.Fields

	// host-directed outcomes only touch the probed record
	if outcome.Target.Host != nil {
		host, err := tx.GetHost(ctx, outcome.Target.Host.ID)
		if errors.Is(err, inventory.ErrNotFound) {
			m.logger.Warn().Int64("host_id", outcome.Target.Host.ID).Msg("Probed host no longer exists")

			return nil
		}

		if err != nil {
			return err
		}

		return m.updateHost(ctx, tx, policy, host, fields, now, stats)
	}

	hosts, err := tx.FindHostsByAddress(ctx, outcome.Target.Address)
	if err != nil {
		return err
	}

	if len(hosts) == 0 {
		if !policy.create {
			return nil
		}

		host := &models.Host{
			Name:    outcome.Target.Address,
			Address: outcome.Target.Address,
			Enabled: true,
		}

		if discovery.SubnetID != nil {
			host.SubnetID = models.ID(*discovery.SubnetID)
		}

		if err := policy.apply(ctx, tx, host, fields); err != nil {
			return err
		}

		seen := now
		host.LastSeen = &seen

		if _, err := tx.CreateHost(ctx, host); err != nil {
			return err
		}

		stats.Created++

		return nil
	}

	for _, host := range hosts {
		if err := m.updateHost(ctx, tx, policy, host, fields, now, stats); err != nil {
			return err
		}
	}

	return nil
}

func (*Merger) updateHost(
	ctx context.Context, tx inventory.Store, policy mergePolicy, host *models.Host,
	fields map[string]interface{}, now time.Time, stats *MergeStats) error {
	if host.NoDiscovery {
		stats.Excluded++

		return nil
	}

	if err := policy.apply(ctx, tx, host, fields); err != nil {
		return err
	}

	seen := now
	host.LastSeen = &seen

	if err := tx.UpdateHost(ctx, host); err != nil {
		return err
	}

	stats.Updated++

	return nil
}

// applyFunc copies the host attributes a tool owns from a result.
type applyFunc func(ctx context.Context, tx inventory.Store, host *models.Host, fields map[string]interface{}) error

type mergePolicy struct {
	// create adds a host for an address without inventory records
	create bool
	apply  applyFunc
}

var (
	defaultPolicy = mergePolicy{create: true, apply: refreshOnly}

	mergePolicies = map[string]mergePolicy{
		probe.ToolARPRequest:    {create: true, apply: applyMACAddress},
		probe.ToolHostname:      {create: true, apply: applyHostname},
		probe.ToolSNMPRequest:   {create: true, apply: applySNMPVersion},
		probe.ToolSNMPFindModel: {create: true, apply: applyDeviceModel},
		probe.ToolSNMPGet:       {apply: refreshOnly},
		probe.ToolSNMPGetInfo:   {apply: applyHostFields},
	}
)

func policyFor(tool string) mergePolicy {
	if policy, ok := mergePolicies[tool]; ok {
		return policy
	}

	return defaultPolicy
}

func refreshOnly(context.Context, inventory.Store, *models.Host, map[string]interface{}) error {
	return nil
}

func applyMACAddress(_ context.Context, _ inventory.Store, host *models.Host, fields map[string]interface{}) error {
	if mac := stringField(fields, "mac_address"); mac != "" {
		host.MACAddress = strings.ReplaceAll(mac, ":", "")
	}

	return nil
}

func applyHostname(ctx context.Context, tx inventory.Store, host *models.Host, fields map[string]interface{}) error {
	fqdn := stringField(fields, "fqdn")
	if fqdn == "" {
		return nil
	}

	hostname, domainName := probe.SplitFQDN(fqdn)
	host.Hostname = hostname

	if domainName == "" {
		return nil
	}

	domain, err := findDomain(ctx, tx, domainName)
	if err != nil {
		return err
	}

	if domain != nil {
		host.DomainID = models.ID(domain.ID)
	}

	return nil
}

// findDomain looks name up as a main domain, then as sub.parent.
func findDomain(ctx context.Context, tx inventory.Store, name string) (*models.Domain, error) {
	domain, err := tx.FindDomain(ctx, name, "")
	if err == nil {
		return domain, nil
	}

	if !errors.Is(err, inventory.ErrNotFound) {
		return nil, err
	}

	sub, parent, ok := strings.Cut(name, ".")
	if !ok {
		return nil, nil
	}

	domain, err = tx.FindDomain(ctx, parent, sub)
	if errors.Is(err, inventory.ErrNotFound) {
		return nil, nil
	}

	return domain, err
}

func applySNMPVersion(_ context.Context, _ inventory.Store, host *models.Host, fields map[string]interface{}) error {
	if version := stringField(fields, "version"); version != "" && host.SNMPVersion == "" {
		host.SNMPVersion = version
	}

	return nil
}

func applyDeviceModel(ctx context.Context, tx inventory.Store, host *models.Host, fields map[string]interface{}) error {
	if id, ok := int64Field(fields, "model_id"); ok && host.DeviceModelID == nil {
		_, err := tx.GetDeviceModel(ctx, id)

		switch {
		case err == nil:
			host.DeviceModelID = models.ID(id)
		case !errors.Is(err, inventory.ErrNotFound):
			return err
		}
	}

	return applySNMPVersion(ctx, tx, host, fields)
}

// applyHostFields fills empty host attributes from "host.<attribute>" keys.
func applyHostFields(_ context.Context, _ inventory.Store, host *models.Host, fields map[string]interface{}) error {
	for key, value := range fields {
		name, ok := strings.CutPrefix(key, hostFieldPrefix)
		if !ok {
			continue
		}

		if attr := hostAttribute(host, name); attr != nil && *attr == "" {
			*attr = formatHostValue(value)
		}
	}

	return nil
}

func hostAttribute(host *models.Host, name string) *string {
	switch name {
	case "name":
		return &host.Name
	case "mac_address":
		return &host.MACAddress
	case "hostname":
		return &host.Hostname
	case "serial":
		return &host.Serial
	case "description":
		return &host.Description
	case "area":
		return &host.Area
	case "position":
		return &host.Position
	case "snmp_version":
		return &host.SNMPVersion
	case "snmp_community":
		return &host.SNMPCommunity
	default:
		return nil
	}
}

func formatHostValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func stringField(fields map[string]interface{}, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// int64Field reads an integer that may have gone through JSON.
func int64Field(fields map[string]interface{}, key string) (int64, bool) {
	switch v := fields[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()

		return n, err == nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)

		return n, err == nil
	default:
		return 0, false
	}
}
