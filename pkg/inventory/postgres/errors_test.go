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

package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/netscanner/pkg/inventory"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      string
		transient bool
	}{
		{"nil", nil, "", false},
		{"deadlock", &pgconn.PgError{Code: sqlstateDeadlockDetected}, sqlstateDeadlockDetected, true},
		{"serialization", fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: sqlstateSerializationFailed}),
			sqlstateSerializationFailed, true},
		{"unique", &pgconn.PgError{Code: sqlstateUniqueViolation}, sqlstateUniqueViolation, false},
		{"message", errors.New("ERROR: deadlock detected"), sqlstateDeadlockDetected, true},
		{"other", errors.New("connection refused"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, transient := classifyError(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.transient, transient)
		})
	}
}

func TestMapError(t *testing.T) {
	require.NoError(t, mapError(nil))
	require.ErrorIs(t, mapError(pgx.ErrNoRows), inventory.ErrNotFound)

	unique := &pgconn.PgError{Code: sqlstateUniqueViolation, ConstraintName: "hosts_location_name_address_key"}
	err := mapError(unique)
	require.ErrorIs(t, err, inventory.ErrConflict)

	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "hosts_location_name_address_key", pgErr.ConstraintName)

	other := errors.New("boom")
	assert.Equal(t, other, mapError(other))
}

func TestBackoffDelay(t *testing.T) {
	first := backoffDelay(1, sqlstateDeadlockDetected)
	assert.GreaterOrEqual(t, first, deadlockBackoff)
	assert.Less(t, first, 2*deadlockBackoff)

	third := backoffDelay(3, "")
	assert.GreaterOrEqual(t, third, 4*baseBackoff)
	assert.Less(t, third, 5*baseBackoff)

	assert.GreaterOrEqual(t, backoffDelay(0, ""), time.Duration(0))
}

func TestDiscoveryWhere(t *testing.T) {
	where, args := discoveryWhere(inventory.DiscoveryFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = discoveryWhere(inventory.DiscoveryFilter{Tool: "arp_request", EnabledOnly: true})
	assert.Equal(t, " WHERE s.tool = $1 AND d.enabled", where)
	assert.Equal(t, []any{"arp_request"}, args)

	where, args = discoveryWhere(inventory.DiscoveryFilter{Name: "lab", Tool: "tcp_connect"})
	assert.Equal(t, " WHERE d.name = $1 AND s.tool = $2", where)
	assert.Equal(t, []any{"lab", "tcp_connect"}, args)
}

func TestHostLocksOnlyInsideTransactions(t *testing.T) {
	s := &Store{}

	assert.Empty(t, s.forUpdate())
	require.NoError(t, s.lockAddress(context.Background(), "10.0.0.1"))
}
