package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"digital-banking/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict reports a write rejected by a referential or uniqueness constraint.
	ErrConflict = errors.New("record conflicts with existing data")
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id models.CustomerID) (*models.Customer, error)
	List(ctx context.Context) ([]models.Customer, error)
	SearchByName(ctx context.Context, keyword string) ([]models.Customer, error)
	Delete(ctx context.Context, id models.CustomerID) error
}

type AccountRepository interface {
	Create(ctx context.Context, account models.BankAccount) error
	GetByID(ctx context.Context, id models.AccountID) (models.BankAccount, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id models.AccountID) (models.BankAccount, error)
	List(ctx context.Context) ([]models.BankAccount, error)
	UpdateBalance(ctx context.Context, id models.AccountID, balance decimal.Decimal) error
}

type OperationRepository interface {
	Append(ctx context.Context, op *models.AccountOperation) error
	ListByAccount(ctx context.Context, accountID models.AccountID) ([]models.AccountOperation, error)
	// PageByAccount returns one page of operations and the total operation count.
	PageByAccount(ctx context.Context, accountID models.AccountID, page, size int) ([]models.AccountOperation, int, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByName(ctx context.Context, username string) (*models.User, error)
}

// Store groups the repositories that share one transaction scope.
type Store interface {
	Customers() CustomerRepository
	Accounts() AccountRepository
	Operations() OperationRepository
	Users() UserRepository
	// WithinTx runs fn in a single transaction. Calling it on a Store already
	// bound to a transaction joins that transaction.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
