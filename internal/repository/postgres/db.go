package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aerotix/aerotix/internal/repository"
)

// DB is the subset of pgxpool.Pool and pgx.Tx the repositories run on, so
// the same query code serves both pooled one-shot calls and transactions.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type Store struct {
	pool *pgxpool.Pool
	db   DB // non-nil when the store is bound to a transaction
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) handle() DB {
	if s.db != nil {
		return s.db
	}
	return s.pool
}

func (s *Store) Inventory() repository.Inventory { return &InventoryRepo{db: s.handle()} }
func (s *Store) Sales() repository.Sales         { return &SaleRepo{db: s.handle()} }
func (s *Store) Tickets() repository.Tickets     { return &TicketRepo{db: s.handle()} }
func (s *Store) Query() repository.Query         { return &QueryRepo{db: s.handle()} }

// Atomic runs fn against a Store bound to one serializable transaction.
// Nested calls reuse the enclosing transaction.
func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context, st repository.Store) error) error {
	if s.db != nil {
		return fn(ctx, s)
	}
	return s.RunTx(ctx, nil, func(ctx context.Context, tx DB) error {
		return fn(ctx, &Store{pool: s.pool, db: tx})
	})
}

// RunTx executes fn inside a transaction, serializable unless opts override.
func (s *Store) RunTx(
	ctx context.Context,
	opts *pgx.TxOptions,
	fn func(ctx context.Context, tx DB) error,
) error {
	txOpts := pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	}
	if opts != nil {
		txOpts = *opts
	}

	tx, err := s.pool.BeginTx(ctx, txOpts)
	if err != nil {
		return translateDBErr(err)
	}

	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", translateDBErr(err))
	}

	return nil
}

var _ repository.Store = (*Store)(nil)
