package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital-banking/internal/models"
	"digital-banking/internal/repository/memory"
	"digital-banking/internal/services"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newService(t *testing.T) (*services.AccountService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return services.NewAccountService(store), store
}

func newCustomer(t *testing.T, svc *services.AccountService, name string) models.CustomerID {
	t.Helper()
	customer, err := svc.CreateCustomer(context.Background(), models.CustomerRequest{Name: name, Email: name + "@gmail.com"})
	require.NoError(t, err)
	return customer.ID
}

func newCurrentAccount(t *testing.T, svc *services.AccountService, balance string) models.AccountID {
	t.Helper()
	customerID := newCustomer(t, svc, "Owner")
	account, err := svc.CreateCurrentAccount(context.Background(), dec(balance), dec("9000"), customerID)
	require.NoError(t, err)
	return account.ID
}

func balanceOf(t *testing.T, svc *services.AccountService, id models.AccountID) decimal.Decimal {
	t.Helper()
	account, err := svc.GetAccount(context.Background(), id)
	require.NoError(t, err)
	return account.Balance
}

func TestCreateCurrentAccount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	customerID := newCustomer(t, svc, "Hassan")

	account, err := svc.CreateCurrentAccount(ctx, dec("9000"), dec("9000"), customerID)
	require.NoError(t, err)

	assert.NotEmpty(t, account.ID)
	assert.Equal(t, models.CurrentAccountType, account.Type)
	assert.Equal(t, models.AccountStatusCreated, account.Status)
	assert.False(t, account.CreatedAt.IsZero())
	assert.Equal(t, "Hassan", account.Customer.Name)
	require.NotNil(t, account.OverdraftLimit)
	assert.True(t, account.OverdraftLimit.Equal(dec("9000")))
	assert.Nil(t, account.InterestRate)

	got, err := svc.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CurrentAccountType, got.Type)
	assert.True(t, got.Balance.Equal(dec("9000")))
}

func TestCreateSavingAccount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	customerID := newCustomer(t, svc, "Aicha")

	account, err := svc.CreateSavingAccount(ctx, dec("100"), dec("5.5"), customerID)
	require.NoError(t, err)

	got, err := svc.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SavingAccountType, got.Type)
	require.NotNil(t, got.InterestRate)
	assert.True(t, got.InterestRate.Equal(dec("5.5")))
	assert.Nil(t, got.OverdraftLimit)
}

func TestCreateAccountUnknownCustomerPersistsNothing(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.CreateCurrentAccount(ctx, dec("10"), dec("10"), 404)
	assert.ErrorIs(t, err, services.ErrCustomerNotFound)

	_, err = svc.CreateSavingAccount(ctx, dec("10"), dec("1"), 404)
	assert.ErrorIs(t, err, services.ErrCustomerNotFound)

	accounts, err := svc.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestAccountIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	customerID := newCustomer(t, svc, "Yassine")

	seen := map[models.AccountID]bool{}
	for i := 0; i < 20; i++ {
		account, err := svc.CreateCurrentAccount(ctx, dec("1"), dec("1"), customerID)
		require.NoError(t, err)
		assert.False(t, seen[account.ID], "duplicate id %s", account.ID)
		seen[account.ID] = true
	}
}

func TestGetAccountNotFound(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.GetAccount(context.Background(), "missing")
	assert.ErrorIs(t, err, services.ErrAccountNotFound)
}

func TestListAccountsMixesVariants(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	customerID := newCustomer(t, svc, "Hassan")

	_, err := svc.CreateCurrentAccount(ctx, dec("1"), dec("2"), customerID)
	require.NoError(t, err)
	_, err = svc.CreateSavingAccount(ctx, dec("3"), dec("4"), customerID)
	require.NoError(t, err)

	accounts, err := svc.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, models.CurrentAccountType, accounts[0].Type)
	assert.Equal(t, models.SavingAccountType, accounts[1].Type)
	assert.Equal(t, customerID, accounts[1].Customer.ID)
}
