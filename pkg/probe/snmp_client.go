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
	"errors"
	"fmt"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/carverauto/netscanner/pkg/inventory"
	"github.com/carverauto/netscanner/pkg/logger"
	"github.com/carverauto/netscanner/pkg/models"
)

const (
	defaultSNMPPort      = 161
	defaultSNMPCommunity = "public"
	defaultSNMPVersion   = "v2c"

	snmpVersion1  = 1
	snmpVersion2c = 2
)

// snmpVersionNumbers resolves the version of inventory records, which only
// carry the version name.
var snmpVersionNumbers = map[string]int{
	"v1":  snmpVersion1,
	"v2c": snmpVersion2c,
}

// snmpSession is the part of *gosnmp.GoSNMP used by the probes.
type snmpSession interface {
	Get(oids []string) (*gosnmp.SnmpPacket, error)
	Close() error
}

type snmpTarget struct {
	Address   string
	Port      int
	Version   gosnmp.SnmpVersion
	Community string
	Timeout   time.Duration
	Retries   int
}

type snmpDialer func(ctx context.Context, target snmpTarget) (snmpSession, error)

type goSNMPSession struct {
	client *gosnmp.GoSNMP
}

func (s *goSNMPSession) Get(oids []string) (*gosnmp.SnmpPacket, error) {
	return s.client.Get(oids)
}

func (s *goSNMPSession) Close() error {
	if s.client.Conn == nil {
		return nil
	}

	return s.client.Conn.Close()
}

func dialSNMP(ctx context.Context, target snmpTarget) (snmpSession, error) {
	client := &gosnmp.GoSNMP{
		Context:            ctx,
		Target:             target.Address,
		Port:               uint16(target.Port), // #nosec G115 -- range checked by validatePort
		Community:          target.Community,
		Version:            target.Version,
		Timeout:            target.Timeout,
		Retries:            target.Retries,
		MaxOids:            gosnmp.MaxOids,
		ExponentialTimeout: true,
	}

	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect SNMP client: %w", err)
	}

	return &goSNMPSession{client: client}, nil
}

func gosnmpVersion(version int) (gosnmp.SnmpVersion, error) {
	switch version {
	case snmpVersion1:
		return gosnmp.Version1, nil
	case snmpVersion2c:
		return gosnmp.Version2c, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedSNMPVersion, version)
	}
}

// resolveSNMPVersion looks up a named version in the catalog.
func resolveSNMPVersion(ctx context.Context, catalog Catalog, name string) (gosnmp.SnmpVersion, error) {
	version, err := catalog.FindSNMPVersion(ctx, name)
	if errors.Is(err, inventory.ErrNotFound) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSNMPVersion, name)
	}

	if err != nil {
		return 0, fmt.Errorf("failed to look up SNMP version %q: %w", name, err)
	}

	return gosnmpVersion(version.Version)
}

// hostSNMPVersion maps the version name stored on a host, defaulting to v2c.
func hostSNMPVersion(name string) gosnmp.SnmpVersion {
	number, ok := snmpVersionNumbers[name]
	if !ok {
		number = snmpVersion2c
	}

	version, _ := gosnmpVersion(number)

	return version
}

func findConfiguration(ctx context.Context, catalog Catalog, name string) (*models.SNMPConfiguration, error) {
	configuration, err := catalog.FindSNMPConfigurationByName(ctx, name)
	if errors.Is(err, inventory.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownConfiguration, name)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to look up SNMP configuration %q: %w", name, err)
	}

	return configuration, nil
}

// fetchValue reads a single OID. Any failure, including a panic inside the
// SNMP library, only loses this value.
func fetchValue(session snmpSession, oid string, log logger.Logger) (raw interface{}, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Debug().Str("oid", oid).Interface("panic", r).Msg("SNMP get aborted")

			raw, ok = nil, false
		}
	}()

	packet, err := session.Get([]string{oid})
	if err != nil {
		log.Debug().Err(err).Str("oid", oid).Msg("SNMP get failed")

		return nil, false
	}

	if packet == nil || packet.Error != gosnmp.NoError || len(packet.Variables) == 0 {
		return nil, false
	}

	return rawSNMPValue(packet.Variables[0])
}

// rawSNMPValue converts a PDU into []byte, string or int64.
func rawSNMPValue(pdu gosnmp.SnmpPDU) (interface{}, bool) {
	switch pdu.Type {
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView, gosnmp.Null:
		return nil, false
	case gosnmp.OctetString, gosnmp.BitString, gosnmp.Opaque:
		b, ok := pdu.Value.([]byte)

		return b, ok
	case gosnmp.ObjectIdentifier, gosnmp.IPAddress:
		s, ok := pdu.Value.(string)

		return s, ok
	default:
		if pdu.Value == nil {
			return nil, false
		}

		return gosnmp.ToBigInt(pdu.Value).Int64(), true
	}
}

// readValues fetches and formats values into fields, keyed by key(value).
// With assign set, a value bound to a host attribute is also stored under
// that attribute name.
func readValues(
	session snmpSession, values []models.SNMPConfigurationValue, now time.Time, log logger.Logger,
	key func(models.SNMPValue) string, assign bool, fields map[string]interface{}) {
	for _, cv := range values {
		log.Trace().Str("oid", cv.Value.OID).Str("value", cv.Value.Name).Msg("Requesting value")

		raw, ok := fetchValue(session, cv.Value.OID, log)
		if !ok {
			continue
		}

		formatted, ok := FormatSNMPValue(raw, cv.Value, now)
		if !ok {
			continue
		}

		fields[key(cv.Value)] = formatted

		if assign && cv.Field != "" {
			fields[cv.Field] = formatted
		}
	}
}

func closeSession(session snmpSession, log logger.Logger) {
	if err := session.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close SNMP session")
	}
}
