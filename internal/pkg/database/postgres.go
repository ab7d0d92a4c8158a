package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrConstraintViolation is returned when a write is rejected by a foreign key,
// unique or check constraint. The enclosing transaction has been rolled back.
var ErrConstraintViolation = errors.New("constraint violation")

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx. Begin on a pgx.Tx opens a savepoint.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Queries runs every read and write against the connection or transaction it wraps.
type Queries struct {
	db DBTX
}

func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

// InTx runs fn inside a transaction, or a savepoint when q already wraps one.
// The transaction is committed when fn returns nil and rolled back otherwise.
func (q *Queries) InTx(ctx context.Context, fn func(*Queries) error) error {
	tx, err := q.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(&Queries{db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return classify(fmt.Errorf("commit: %w", err))
	}
	return nil
}

type Database struct {
	*Queries
	pool *pgxpool.Pool
}

// Connect opens a connection pool and verifies the database is reachable.
func Connect(ctx context.Context, dsn string) (*Database, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	cfg := pool.Config().ConnConfig
	zap.L().Info("database connected", zap.String("host", cfg.Host), zap.String("database", cfg.Database))
	return NewDatabase(pool), nil
}

func NewDatabase(pool *pgxpool.Pool) *Database {
	return &Database{
		Queries: NewQueries(pool),
		pool:    pool,
	}
}

// Ping returns nil when the database is reachable.
func (db *Database) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

func (db *Database) Close() error {
	if db.pool == nil {
		return nil
	}
	db.pool.Close()
	return nil
}

// classify wraps integrity constraint errors with ErrConstraintViolation.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return fmt.Errorf("%w: %s: %w", ErrConstraintViolation, pgErr.ConstraintName, err)
	}
	return err
}
