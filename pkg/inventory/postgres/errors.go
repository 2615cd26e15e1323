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
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carverauto/netscanner/pkg/inventory"
)

// PostgreSQL SQLSTATE codes the store reacts to.
const (
	sqlstateUniqueViolation     = "23505"
	sqlstateDeadlockDetected    = "40P01"
	sqlstateSerializationFailed = "40001"
)

const (
	deadlockBackoff = 500 * time.Millisecond
	baseBackoff     = 150 * time.Millisecond
)

// classifyError returns the SQLSTATE of err and whether rerunning the
// transaction may succeed.
func classifyError(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlstateDeadlockDetected, sqlstateSerializationFailed:
			return pgErr.Code, true
		}

		return pgErr.Code, false
	}

	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "deadlock detected"):
		return sqlstateDeadlockDetected, true
	case strings.Contains(msg, "could not serialize access"):
		return sqlstateSerializationFailed, true
	default:
		return "", false
	}
}

// backoffDelay grows exponentially with attempt and adds up to one base
// interval of jitter.
func backoffDelay(attempt int, sqlstate string) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	base := baseBackoff
	if sqlstate == sqlstateDeadlockDetected || sqlstate == sqlstateSerializationFailed {
		base = deadlockBackoff
	}

	backoff := base * time.Duration(1<<(attempt-1))
	jitter := time.Now().UnixNano() % int64(base)

	return backoff + time.Duration(jitter)
}

// mapError translates driver errors into inventory sentinels.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return inventory.ErrNotFound
	}

	if code, _ := classifyError(err); code == sqlstateUniqueViolation {
		return errors.Join(inventory.ErrConflict, err)
	}

	return err
}
