package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quintans/faults"

	"digital-banking/internal/utils"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresStore struct {
	pool *pgxpool.Pool
	db   DBTX
	inTx bool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	utils.LogSuccess("PostgresStore", "store initialised")
	return &PostgresStore{pool: pool, db: pool}
}

func (s *PostgresStore) Customers() CustomerRepository   { return NewCustomerRepository(s.db) }
func (s *PostgresStore) Accounts() AccountRepository     { return NewAccountRepository(s.db) }
func (s *PostgresStore) Operations() OperationRepository { return NewOperationRepository(s.db) }
func (s *PostgresStore) Users() UserRepository           { return NewUserRepository(s.db) }

func (s *PostgresStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return faults.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&PostgresStore{pool: s.pool, db: tx, inTx: true}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return faults.Errorf("commit transaction: %w", err)
	}
	return nil
}

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation || pgErr.Code == pgUniqueViolation
	}
	return false
}
