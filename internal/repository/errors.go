package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Store-level constraint violations. Services normally detect these cases
// first; the errors surface only when a constraint catches a race.
var (
	ErrDuplicate   = errors.New("duplicate row")
	ErrOverlap     = errors.New("overlapping time slot")
	ErrForeignKey  = errors.New("referenced row does not exist")
	ErrNotAffected = errors.New("no rows affected")
)

const (
	pgUniqueViolation       = "23505"
	pgForeignKeyViolation   = "23503"
	pgExclusionViolation    = "23P01"
	pgSerializationFailure  = "40001"
	pgDeadlockDetected      = "40P01"
	pgAdminShutdown         = "57P01"
	pgCannotConnectNow      = "57P03"
	pgConnectionException   = "08000"
	pgConnectionFailure     = "08006"
	pgConnectionDoesntExist = "08003"
)

// IsTransient reports whether err is a storage failure that may succeed on
// a retry: serialization failures, deadlocks and lost connections.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgAdminShutdown, pgCannotConnectNow,
			pgConnectionException, pgConnectionFailure, pgConnectionDoesntExist:
			return true
		}
		return false
	}
	return pgconn.SafeToRetry(err) || pgconn.Timeout(err)
}

// translate maps constraint violations to the package sentinels.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return errors.Join(ErrDuplicate, err)
	case pgExclusionViolation:
		return errors.Join(ErrOverlap, err)
	case pgForeignKeyViolation:
		return errors.Join(ErrForeignKey, err)
	}
	return err
}
