package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital-banking/internal/models"
	"digital-banking/internal/repository"
)

func seedAccount(t *testing.T, s *Store) (models.CustomerID, models.AccountID) {
	t.Helper()
	ctx := context.Background()

	customer := &models.Customer{Name: "Hassan", Email: "hassan@gmail.com"}
	require.NoError(t, s.Customers().Create(ctx, customer))

	account := &models.CurrentAccount{
		Account: models.Account{
			ID:         "acc-1",
			Balance:    decimal.NewFromInt(100),
			CreatedAt:  time.Now(),
			Status:     models.AccountStatusCreated,
			CustomerID: customer.ID,
		},
		OverdraftLimit: decimal.NewFromInt(9000),
	}
	require.NoError(t, s.Accounts().Create(ctx, account))
	return customer.ID, account.ID
}

func TestCustomersCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	a := &models.Customer{Name: "Hassan", Email: "h@x.io"}
	b := &models.Customer{Name: "Aicha", Email: "a@x.io"}
	require.NoError(t, s.Customers().Create(ctx, a))
	require.NoError(t, s.Customers().Create(ctx, b))
	assert.Equal(t, models.CustomerID(1), a.ID)
	assert.Equal(t, models.CustomerID(2), b.ID)

	found, err := s.Customers().SearchByName(ctx, "has")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Hassan", found[0].Name)

	a.Email = "new@x.io"
	require.NoError(t, s.Customers().Update(ctx, a))
	got, err := s.Customers().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@x.io", got.Email)

	require.NoError(t, s.Customers().Delete(ctx, b.ID))
	_, err = s.Customers().GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	all, err := s.Customers().List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	err = s.Customers().Update(ctx, &models.Customer{ID: 42, Name: "ghost"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteCustomerWithAccountsConflicts(t *testing.T) {
	s := NewStore()
	customerID, _ := seedAccount(t, s)

	err := s.Customers().Delete(context.Background(), customerID)
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestAccountVariantRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	customerID, currentID := seedAccount(t, s)

	saving := &models.SavingAccount{
		Account:      models.Account{ID: "acc-2", Balance: decimal.NewFromInt(5), CustomerID: customerID},
		InterestRate: decimal.RequireFromString("5.5"),
	}
	require.NoError(t, s.Accounts().Create(ctx, saving))

	got, err := s.Accounts().GetByID(ctx, currentID)
	require.NoError(t, err)
	current, ok := got.(*models.CurrentAccount)
	require.True(t, ok)
	assert.True(t, current.OverdraftLimit.Equal(decimal.NewFromInt(9000)))

	got, err = s.Accounts().GetByID(ctx, "acc-2")
	require.NoError(t, err)
	assert.Equal(t, models.SavingAccountType, got.Type())

	list, err := s.Accounts().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, currentID, list[0].Base().ID)
}

func TestReturnedAccountsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, id := seedAccount(t, s)

	got, err := s.Accounts().GetByID(ctx, id)
	require.NoError(t, err)
	got.Base().Balance = decimal.NewFromInt(-1)

	again, err := s.Accounts().GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, again.Base().Balance.Equal(decimal.NewFromInt(100)))
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, id := seedAccount(t, s)
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(tx repository.Store) error {
		require.NoError(t, tx.Accounts().UpdateBalance(ctx, id, decimal.Zero))
		require.NoError(t, tx.Operations().Append(ctx, &models.AccountOperation{
			AccountID: id, Amount: decimal.NewFromInt(100), Type: models.OperationDebit,
		}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	account, err := s.Accounts().GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, account.Base().Balance.Equal(decimal.NewFromInt(100)))

	ops, err := s.Operations().ListByAccount(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestWithinTxCommits(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, id := seedAccount(t, s)

	err := s.WithinTx(ctx, func(tx repository.Store) error {
		return tx.WithinTx(ctx, func(inner repository.Store) error {
			return inner.Accounts().UpdateBalance(ctx, id, decimal.NewFromInt(7))
		})
	})
	require.NoError(t, err)

	account, err := s.Accounts().GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, account.Base().Balance.Equal(decimal.NewFromInt(7)))
}

func TestPageByAccount(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, id := seedAccount(t, s)

	for i := 0; i < 12; i++ {
		require.NoError(t, s.Operations().Append(ctx, &models.AccountOperation{
			AccountID: id, Amount: decimal.NewFromInt(int64(i + 1)), Type: models.OperationCredit,
		}))
	}

	page, total, err := s.Operations().PageByAccount(ctx, id, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	require.Len(t, page, 2)
	assert.Equal(t, models.OperationID(11), page[0].ID)

	page, _, err = s.Operations().PageByAccount(ctx, id, 9, 5)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	user := &models.User{Username: "admin", PasswordHash: "hash", Roles: []string{"ROLE_USER", "ROLE_ADMIN"}}
	require.NoError(t, s.Users().Create(ctx, user))
	assert.NotZero(t, user.ID)

	err := s.Users().Create(ctx, &models.User{Username: "admin"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	got, err := s.Users().GetByName(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, []string{"ROLE_USER", "ROLE_ADMIN"}, got.Roles)

	_, err = s.Users().GetByName(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
