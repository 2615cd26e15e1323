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

// Package postgres implements the inventory store on PostgreSQL using pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carverauto/netscanner/pkg/inventory"
	"github.com/carverauto/netscanner/pkg/logger"
)

const defaultMaxTxAttempts = 3

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is a pgx-backed inventory.Store. A Store returned to a RunInTx
// callback is bound to that transaction.
type Store struct {
	pool   *pgxpool.Pool
	q      querier
	tx     pgx.Tx
	logger logger.Logger

	maxAttempts int
	backoff     func(attempt int, sqlstate string) time.Duration
}

var _ inventory.Store = (*Store)(nil)

// New dials the database at dsn and returns a store backed by a pool.
func New(ctx context.Context, dsn string, log logger.Logger) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to initialize pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	log.Info().
		Str("host", poolConfig.ConnConfig.Host).
		Uint16("port", poolConfig.ConnConfig.Port).
		Str("database", poolConfig.ConnConfig.Database).
		Int32("max_conns", poolConfig.MaxConns).
		Msg("connected to inventory database")

	return NewFromPool(pool, log), nil
}

// NewFromPool wraps an existing pool. Close closes the pool.
func NewFromPool(pool *pgxpool.Pool, log logger.Logger) *Store {
	return &Store{
		pool:        pool,
		q:           pool,
		logger:      log,
		maxAttempts: defaultMaxTxAttempts,
		backoff:     backoffDelay,
	}
}

// Pool exposes the underlying pool, e.g. for migrations.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// RunInTx runs fn in a read-committed transaction. Transient failures
// (deadlocks, serialization failures) roll back and rerun fn. Calls made
// from inside a transaction join it.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx inventory.Store) error) error {
	if s.tx != nil {
		return fn(ctx, s)
	}

	var lastErr error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err := s.runTx(ctx, fn)
		if err == nil {
			return nil
		}

		lastErr = err

		code, transient := classifyError(err)
		if !transient || attempt == s.maxAttempts {
			return err
		}

		delay := s.backoff(attempt, code)

		s.logger.Warn().
			Err(err).
			Str("sqlstate", code).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Msg("transient transaction error, retrying")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()

			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}

func (s *Store) runTx(ctx context.Context, fn func(ctx context.Context, tx inventory.Store) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}

	defer func() {
		if err == nil {
			return
		}

		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			s.logger.Error().Err(rbErr).Msg("failed to roll back transaction")
		}
	}()

	bound := &Store{pool: s.pool, q: tx, tx: tx, logger: s.logger}

	if err = fn(ctx, bound); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}

	return nil
}

// Close releases the pool. It is a no-op on a transaction-bound store.
func (s *Store) Close() error {
	if s.tx != nil || s.pool == nil {
		return nil
	}

	s.pool.Close()

	return nil
}
