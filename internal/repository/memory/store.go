// Package memory is a process-local implementation of repository.Store.
// Transactions are serialized and applied to a copy of the data, which is
// published only when the callback succeeds.
package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"digital-banking/internal/models"
	"digital-banking/internal/repository"
)

type state struct {
	customers      map[models.CustomerID]models.Customer
	nextCustomerID models.CustomerID

	accounts     map[models.AccountID]accountRecord
	accountOrder []models.AccountID

	operations []models.AccountOperation
	nextOpID   models.OperationID

	users      map[string]models.User
	nextUserID int64
}

type accountRecord struct {
	base           models.Account
	kind           models.AccountType
	overdraftLimit decimal.Decimal
	interestRate   decimal.Decimal
}

func newState() *state {
	return &state{
		customers: map[models.CustomerID]models.Customer{},
		accounts:  map[models.AccountID]accountRecord{},
		users:     map[string]models.User{},
	}
}

func (s *state) clone() *state {
	c := &state{
		customers:      make(map[models.CustomerID]models.Customer, len(s.customers)),
		nextCustomerID: s.nextCustomerID,
		accounts:       make(map[models.AccountID]accountRecord, len(s.accounts)),
		accountOrder:   append([]models.AccountID(nil), s.accountOrder...),
		operations:     append([]models.AccountOperation(nil), s.operations...),
		nextOpID:       s.nextOpID,
		users:          make(map[string]models.User, len(s.users)),
		nextUserID:     s.nextUserID,
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.users {
		v.Roles = append([]string(nil), v.Roles...)
		c.users[k] = v
	}
	return c
}

type root struct {
	mu   sync.Mutex
	data *state
}

type Store struct {
	root *root
	// tx is non-nil when the store is bound to a running transaction.
	tx *state
}

func NewStore() *Store {
	return &Store{root: &root{data: newState()}}
}

func (s *Store) Customers() repository.CustomerRepository   { return customerRepo{s} }
func (s *Store) Accounts() repository.AccountRepository     { return accountRepo{s} }
func (s *Store) Operations() repository.OperationRepository { return operationRepo{s} }
func (s *Store) Users() repository.UserRepository           { return userRepo{s} }

func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	s.root.mu.Lock()
	defer s.root.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	working := s.root.data.clone()
	if err := fn(&Store{root: s.root, tx: working}); err != nil {
		return err
	}
	s.root.data = working
	return nil
}

// view runs fn against the transaction data, or against the shared data
// under the lock when no transaction is bound.
func (s *Store) view(fn func(st *state) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.root.mu.Lock()
	defer s.root.mu.Unlock()
	return fn(s.root.data)
}
