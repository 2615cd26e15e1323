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
	"fmt"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/carverauto/netscanner/pkg/logger"
	"github.com/carverauto/netscanner/pkg/models"
)

const (
	ToolSNMPRequest   = "snmp_request"
	ToolSNMPFindModel = "snmp_find_model"
	ToolSNMPGet       = "snmp_get"
	ToolSNMPGetInfo   = "snmp_get_info"
)

// snmpAgentConfig holds the session options shared by address-directed
// SNMP tools.
type snmpAgentConfig struct {
	Version   string `json:"version"`
	Community string `json:"community"`
	Port      int    `json:"port"`
	Retries   int    `json:"retries"`
}

func defaultSNMPAgentConfig() snmpAgentConfig {
	return snmpAgentConfig{
		Version:   defaultSNMPVersion,
		Community: defaultSNMPCommunity,
		Port:      defaultSNMPPort,
	}
}

func (c snmpAgentConfig) validate(tool string) error {
	if c.Retries < 0 {
		return fmt.Errorf("%w for %s: retries=%d", ErrInvalidOption, tool, c.Retries)
	}

	return validatePort(tool, "port", c.Port)
}

// snmpAgent is the session state shared by the SNMP probes.
type snmpAgent struct {
	versionName string
	version     gosnmp.SnmpVersion
	community   string
	port        int
	retries     int
	timeout     time.Duration
	dial        snmpDialer
	logger      logger.Logger
	now         func() time.Time
}

func newSNMPAgent(ctx context.Context, tool string, env Env, cfg snmpAgentConfig) (snmpAgent, error) {
	if err := cfg.validate(tool); err != nil {
		return snmpAgent{}, err
	}

	version, err := resolveSNMPVersion(ctx, env.Catalog, cfg.Version)
	if err != nil {
		return snmpAgent{}, err
	}

	return snmpAgent{
		versionName: cfg.Version,
		version:     version,
		community:   cfg.Community,
		port:        cfg.Port,
		retries:     cfg.Retries,
		timeout:     env.timeoutOr(defaultTimeout),
		dial:        dialSNMP,
		logger:      env.log(tool),
		now:         time.Now,
	}, nil
}

func (a snmpAgent) open(ctx context.Context, address string) (snmpSession, error) {
	return a.dial(ctx, snmpTarget{
		Address:   address,
		Port:      a.port,
		Version:   a.version,
		Community: a.community,
		Timeout:   a.timeout,
		Retries:   a.retries,
	})
}

type snmpRequestConfig struct {
	snmpAgentConfig
	Configuration string `json:"configuration"`
}

type snmpRequestProbe struct {
	snmpAgent
	values []models.SNMPConfigurationValue
}

func newSNMPRequest(ctx context.Context, env Env, opts models.Options) (Probe, error) {
	cfg := snmpRequestConfig{snmpAgentConfig: defaultSNMPAgentConfig()}

	if err := decodeOptions(ToolSNMPRequest, env, opts, &cfg); err != nil {
		return nil, err
	}

	if env.Catalog == nil {
		return nil, ErrCatalogRequired
	}

	if cfg.Configuration == "" {
		return nil, missingOption(ToolSNMPRequest, "configuration")
	}

	configuration, err := findConfiguration(ctx, env.Catalog, cfg.Configuration)
	if err != nil {
		return nil, err
	}

	agent, err := newSNMPAgent(ctx, ToolSNMPRequest, env, cfg.snmpAgentConfig)
	if err != nil {
		return nil, err
	}

	return &snmpRequestProbe{snmpAgent: agent, values: configuration.Values}, nil
}

func (*snmpRequestProbe) Tool() string { return ToolSNMPRequest }

func (p *snmpRequestProbe) Execute(ctx context.Context, target models.Target) models.ProbeResult {
	p.logger.Debug().Str("address", target.Address).Msg("Requesting SNMP values")

	session, err := p.open(ctx, target.Address)
	if err != nil {
		return models.Failed()
	}
	defer closeSession(session, p.logger)

	fields := make(map[string]interface{})
	readValues(session, p.values, p.now(), p.logger, func(v models.SNMPValue) string { return v.Name }, false, fields)

	if len(fields) == 0 {
		return models.Failed()
	}

	fields["version"] = p.versionName

	return models.Succeeded(fields)
}

type snmpFindModelConfig struct {
	snmpAgentConfig
	SkipExisting         bool   `json:"skip_existing"`
	InitialConfiguration string `json:"initial_configuration"`
}

type snmpFindModelProbe struct {
	snmpAgent
	catalog      Catalog
	skipExisting bool
	initial      []models.SNMPConfigurationValue
	candidates   []models.AutodetectModel
}

func newSNMPFindModel(ctx context.Context, env Env, opts models.Options) (Probe, error) {
	cfg := snmpFindModelConfig{snmpAgentConfig: defaultSNMPAgentConfig()}

	if err := decodeOptions(ToolSNMPFindModel, env, opts, &cfg); err != nil {
		return nil, err
	}

	if env.Catalog == nil {
		return nil, ErrCatalogRequired
	}

	agent, err := newSNMPAgent(ctx, ToolSNMPFindModel, env, cfg.snmpAgentConfig)
	if err != nil {
		return nil, err
	}

	p := &snmpFindModelProbe{
		snmpAgent:    agent,
		catalog:      env.Catalog,
		skipExisting: cfg.SkipExisting,
	}

	if cfg.InitialConfiguration != "" {
		initial, err := findConfiguration(ctx, env.Catalog, cfg.InitialConfiguration)
		if err != nil {
			return nil, err
		}

		p.initial = initial.Values
	}

	if p.candidates, err = env.Catalog.ListAutodetectModels(ctx); err != nil {
		return nil, fmt.Errorf("failed to list autodetect models: %w", err)
	}

	return p, nil
}

func (*snmpFindModelProbe) Tool() string { return ToolSNMPFindModel }

func (p *snmpFindModelProbe) Execute(ctx context.Context, target models.Target) models.ProbeResult {
	if p.skipExisting && p.hasModel(ctx, target.Address) {
		p.logger.Debug().Str("address", target.Address).Msg("Skipping host with a device model")

		return models.Failed()
	}

	p.logger.Debug().Str("address", target.Address).Msg("Detecting device model")

	session, err := p.open(ctx, target.Address)
	if err != nil {
		return models.Failed()
	}
	defer closeSession(session, p.logger)

	now := p.now()

	// a silent agent would otherwise be asked once per model
	if len(p.initial) > 0 {
		probed := make(map[string]interface{})
		readValues(session, p.initial, now, p.logger, func(v models.SNMPValue) string { return v.OID }, false, probed)

		if len(probed) == 0 {
			return models.Failed()
		}
	}

	for _, candidate := range p.candidates {
		autodetect := candidate.Configuration.Autodetect
		if autodetect == nil {
			continue
		}

		raw, ok := fetchValue(session, autodetect.OID, p.logger)
		if !ok {
			continue
		}

		value, ok := FormatSNMPValue(raw, *autodetect, now)
		if !ok {
			continue
		}

		formatted := fmt.Sprint(value)
		p.logger.Trace().Str("model", candidate.Model.Name).Str("value", formatted).Msg("Autodetect value")

		if formatted != "" && formatted == candidate.Configuration.AutodetectValue {
			return models.Succeeded(map[string]interface{}{
				"model_id":   candidate.Model.ID,
				"model_name": candidate.Model.Name,
				"version":    p.versionName,
			})
		}
	}

	return models.Failed()
}

func (p *snmpFindModelProbe) hasModel(ctx context.Context, address string) bool {
	hosts, err := p.catalog.FindHostsByAddress(ctx, address)
	if err != nil {
		p.logger.Warn().Err(err).Str("address", address).Msg("failed to look up existing hosts")

		return false
	}

	for _, host := range hosts {
		if host.HasDeviceModel() {
			return true
		}
	}

	return false
}

type snmpHostConfig struct {
	Port    int `json:"port"`
	Retries int `json:"retries"`
}

// snmpHostProbe queries existing hosts using the SNMP settings stored on
// each host record.
type snmpHostProbe struct {
	tool    string
	catalog Catalog
	port    int
	retries int
	timeout time.Duration
	// withConfigurations reads every configuration of the device model and
	// exposes values bound to host attributes
	withConfigurations bool
	dial               snmpDialer
	logger             logger.Logger
	now                func() time.Time
}

func newSNMPHostFactory(tool string, withConfigurations bool) Factory {
	return func(_ context.Context, env Env, opts models.Options) (Probe, error) {
		cfg := snmpHostConfig{Port: defaultSNMPPort}

		if err := decodeOptions(tool, env, opts, &cfg); err != nil {
			return nil, err
		}

		if env.Catalog == nil {
			return nil, ErrCatalogRequired
		}

		if err := (snmpAgentConfig{Port: cfg.Port, Retries: cfg.Retries}).validate(tool); err != nil {
			return nil, err
		}

		return &snmpHostProbe{
			tool:               tool,
			catalog:            env.Catalog,
			port:               cfg.Port,
			retries:            cfg.Retries,
			timeout:            env.timeoutOr(defaultHostTimeout),
			withConfigurations: withConfigurations,
			dial:               dialSNMP,
			logger:             env.log(tool),
			now:                time.Now,
		}, nil
	}
}

func (p *snmpHostProbe) Tool() string { return p.tool }

func (p *snmpHostProbe) Execute(ctx context.Context, target models.Target) models.ProbeResult {
	host := target.Host
	if host == nil {
		return models.Failed()
	}

	p.logger.Debug().Str("address", host.Address).Int64("host_id", host.ID).Msg("Reading host SNMP values")

	configurations, err := p.configurations(ctx, host)
	if err != nil {
		p.logger.Warn().Err(err).Int64("host_id", host.ID).Msg("failed to load SNMP configurations")

		return models.Failed()
	}

	if len(configurations) == 0 {
		return models.Failed()
	}

	community := host.SNMPCommunity
	if community == "" {
		community = defaultSNMPCommunity
	}

	session, err := p.dial(ctx, snmpTarget{
		Address:   host.Address,
		Port:      p.port,
		Version:   hostSNMPVersion(host.SNMPVersion),
		Community: community,
		Timeout:   p.timeout,
		Retries:   p.retries,
	})
	if err != nil {
		return models.Failed()
	}
	defer closeSession(session, p.logger)

	now := p.now()
	fields := make(map[string]interface{})

	for _, configuration := range configurations {
		readValues(session, configuration.Values, now, p.logger, models.SNMPValue.Label, p.withConfigurations, fields)
	}

	if len(fields) == 0 {
		return models.Failed()
	}

	return models.Succeeded(fields)
}

func (p *snmpHostProbe) configurations(ctx context.Context, host *models.Host) ([]*models.SNMPConfiguration, error) {
	if host.SNMPConfigurationID != nil {
		configuration, err := p.catalog.GetSNMPConfiguration(ctx, *host.SNMPConfigurationID)
		if err != nil {
			return nil, err
		}

		return []*models.SNMPConfiguration{configuration}, nil
	}

	if host.DeviceModelID == nil {
		return nil, nil
	}

	if p.withConfigurations {
		return p.catalog.ListSNMPConfigurationsByDeviceModel(ctx, *host.DeviceModelID)
	}

	model, err := p.catalog.GetDeviceModel(ctx, *host.DeviceModelID)
	if err != nil {
		return nil, err
	}

	if model.SNMPConfigurationID == nil {
		return nil, nil
	}

	configuration, err := p.catalog.GetSNMPConfiguration(ctx, *model.SNMPConfigurationID)
	if err != nil {
		return nil, err
	}

	return []*models.SNMPConfiguration{configuration}, nil
}
