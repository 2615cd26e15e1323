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

// Package config loads the netscanner application configuration from a JSON
// or YAML file and NETSCANNER_* environment variables.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/carverauto/netscanner/pkg/discovery"
	"github.com/carverauto/netscanner/pkg/events"
	"github.com/carverauto/netscanner/pkg/logger"
)

// EnvPrefix prefixes every environment override, e.g. NETSCANNER_DATABASE_URL.
const EnvPrefix = "NETSCANNER_"

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config is the application configuration.
type Config struct {
	Logging  *logger.Config `json:"logging"`
	Database DatabaseConfig `json:"database"`
	NATS     events.Config  `json:"nats"`
	Metrics  MetricsConfig  `json:"metrics"`
	Engine   EngineConfig   `json:"engine"`
	// SeedFile is loaded into the memory store at startup.
	SeedFile string `json:"seed_file,omitempty"`
}

// DatabaseConfig selects and locates the inventory store.
type DatabaseConfig struct {
	Driver   string `json:"driver"`
	URL      string `json:"url,omitempty" sensitive:"true"`
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"`
	Database string `json:"database,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty" sensitive:"true"`
	SSLMode  string `json:"sslmode,omitempty"`
	MaxConns int32  `json:"max_conns,omitempty"`
}

// MetricsConfig enables the Prometheus endpoint when Listen is set.
type MetricsConfig struct {
	Listen string `json:"listen,omitempty"`
}

// EngineConfig holds the defaults applied to every discovery run.
type EngineConfig struct {
	Workers       int      `json:"workers"`
	Timeout       Duration `json:"timeout"`
	StrictOptions bool     `json:"strict_options"`
	RateLimit     float64  `json:"rate_limit"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: logger.DefaultConfig(),
		Database: DatabaseConfig{
			Driver:  DriverMemory,
			Port:    5432,
			SSLMode: "disable",
		},
		NATS: events.Config{
			SubjectPrefix: events.DefaultSubjectPrefix,
			Stream:        events.DefaultStream,
		},
		Engine: EngineConfig{
			Workers: 10,
			Timeout: Duration(time.Second),
		},
	}
}

// Validate checks the values the engine cannot recover from.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMemory, DriverPostgres:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Database.Driver)
	}

	if c.Engine.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidEngine)
	}

	if c.Engine.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidEngine)
	}

	if c.Engine.RateLimit < 0 {
		return fmt.Errorf("%w: rate_limit must not be negative", ErrInvalidEngine)
	}

	return nil
}

// Discovery converts the engine section into orchestrator defaults.
func (e EngineConfig) Discovery() discovery.Config {
	return discovery.Config{
		Workers:       e.Workers,
		Timeout:       time.Duration(e.Timeout),
		RateLimit:     e.RateLimit,
		StrictOptions: e.StrictOptions,
	}
}

// DSN returns URL when set, otherwise a postgres URL built from the parts.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Database,
	}

	if d.Username != "" {
		u.User = url.UserPassword(d.Username, d.Password)
	}

	q := url.Values{}
	if d.SSLMode != "" {
		q.Set("sslmode", d.SSLMode)
	}

	if d.MaxConns > 0 {
		q.Set("pool_max_conns", strconv.Itoa(int(d.MaxConns)))
	}

	u.RawQuery = q.Encode()

	return u.String()
}
