package pgstore

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/authcore/pkg/auth"
	"github.com/dmitrymomot/authcore/pkg/pg"
)

// Migrations holds the schema, applied with pg.Migrate.
//
//go:embed migrations/*.sql
var Migrations embed.FS

const MigrationsDir = "migrations"

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is an auth.Store backed by PostgreSQL.
type Store struct {
	db querier
}

var (
	_ auth.Store      = (*Store)(nil)
	_ auth.Transactor = (*Store)(nil)
)

func New(pool *pgxpool.Pool) *Store {
	return &Store{db: pool}
}

// InTx runs fn with a Store bound to a single transaction. The pool-backed
// store is required; a store already inside a transaction runs fn directly.
func (s *Store) InTx(ctx context.Context, fn func(auth.Store) error) error {
	pool, ok := s.db.(*pgxpool.Pool)
	if !ok {
		return fn(s)
	}
	return pg.WithTx(ctx, pool, func(tx pgx.Tx) error {
		return fn(&Store{db: tx})
	})
}

// classify maps driver errors onto the auth store errors.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case pg.IsNotFoundError(err):
		return auth.ErrNotFound
	case pg.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w (%s)", op, auth.ErrDuplicate, pg.ConstraintName(err))
	}
	return fmt.Errorf("%s: %w", op, err)
}

// affected turns an update or delete that matched nothing into ErrNotFound.
func affected(op string, tag pgconn.CommandTag, err error) error {
	if err != nil {
		return classify(op, err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrNotFound
	}
	return nil
}

// timeOrNow lets the database default fill zero timestamps.
func timeOrNow(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
