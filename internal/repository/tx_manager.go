package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// A transient failure is replayed once, after a short backoff. A second
// failure is returned to the caller.
const (
	txMaxRetries = 1
	txRetryBase  = 20 * time.Millisecond
)

func txBackoff() retry.Backoff {
	return retry.WithMaxRetries(txMaxRetries, retry.NewExponential(txRetryBase))
}

// PostgresTxManager runs units of work in SERIALIZABLE transactions and
// replays them when Postgres reports a serialization failure or deadlock.
type PostgresTxManager struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresTxManager(pool *pgxpool.Pool, logger *zap.Logger) *PostgresTxManager {
	return &PostgresTxManager{pool: pool, logger: logger}
}

func (m *PostgresTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error {
	return m.run(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, fn)
}

func (m *PostgresTxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error {
	return m.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (m *PostgresTxManager) run(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, repos Repos) error) error {
	attempt := 0
	return retry.Do(ctx, txBackoff(), func(ctx context.Context) error {
		attempt++
		err := m.once(ctx, opts, fn)
		if err != nil && IsTransient(err) {
			m.logger.Debug("retrying transaction",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return retry.RetryableError(err)
		}
		return err
	})
}

func (m *PostgresTxManager) once(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, repos Repos) error) (err error) {
	tx, err := m.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				m.logger.Warn("rollback failed", zap.Error(rbErr))
			}
		}
	}()

	repos := Repos{
		Classes:     NewClassRepository(tx),
		Enrollments: NewEnrollmentRepository(tx),
		Changes:     NewChangeRequestRepository(tx),
		Roster:      NewRosterRepository(tx),
	}

	if err = fn(ctx, repos); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}
