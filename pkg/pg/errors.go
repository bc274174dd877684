package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrParseConfig      = errors.New("pg.parse_config_failed")
	ErrConnect          = errors.New("pg.connect_failed")
	ErrHealthcheck      = errors.New("pg.healthcheck_failed")
	ErrApplyMigrations  = errors.New("pg.migrations_failed")
	ErrNoMigrationsFS   = errors.New("pg.migrations_fs_missing")
	ErrTransactionAbort = errors.New("pg.transaction_aborted")
)

// IsNotFoundError reports whether err wraps pgx.ErrNoRows.
func IsNotFoundError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateKeyError reports a unique constraint violation (SQLSTATE 23505).
func IsDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ConstraintName returns the violated constraint, if any.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
