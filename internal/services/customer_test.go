package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital-banking/internal/models"
	"digital-banking/internal/services"
)

func TestCustomerLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	created, err := svc.CreateCustomer(ctx, models.CustomerRequest{Name: "Yassine", Email: "yassine@gmail.com"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := svc.GetCustomer(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)

	updated, err := svc.UpdateCustomer(ctx, created.ID, models.CustomerRequest{Name: "Yassine B", Email: "yb@gmail.com"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Yassine B", updated.Name)

	require.NoError(t, svc.DeleteCustomer(ctx, created.ID))
	_, err = svc.GetCustomer(ctx, created.ID)
	assert.ErrorIs(t, err, services.ErrCustomerNotFound)

	require.NoError(t, svc.DeleteCustomer(ctx, created.ID))
}

func TestCreateCustomerValidation(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.CreateCustomer(context.Background(), models.CustomerRequest{Name: " ", Email: "a@b.c"})
	assert.ErrorIs(t, err, services.ErrInvalidCustomer)

	_, err = svc.CreateCustomer(context.Background(), models.CustomerRequest{Name: "Aicha"})
	assert.ErrorIs(t, err, services.ErrInvalidCustomer)
}

func TestUpdateUnknownCustomer(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.UpdateCustomer(context.Background(), 77, models.CustomerRequest{Name: "Ghost", Email: "g@h.io"})
	assert.ErrorIs(t, err, services.ErrCustomerNotFound)
}

func TestDeleteCustomerWithAccounts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	customerID := newCustomer(t, svc, "Hassan")
	_, err := svc.CreateSavingAccount(ctx, dec("10"), dec("5.5"), customerID)
	require.NoError(t, err)

	err = svc.DeleteCustomer(ctx, customerID)
	assert.ErrorIs(t, err, services.ErrCustomerHasAccounts)

	_, err = svc.GetCustomer(ctx, customerID)
	assert.NoError(t, err)
}

func TestSearchCustomers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	for _, name := range []string{"Hassan", "Yassine", "Aicha"} {
		newCustomer(t, svc, name)
	}

	tests := []struct {
		keyword string
		want    []string
	}{
		{keyword: "", want: []string{"Hassan", "Yassine", "Aicha"}},
		{keyword: "ss", want: []string{"Hassan", "Yassine"}},
		{keyword: "AICH", want: []string{"Aicha"}},
		{keyword: "zzz", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			found, err := svc.SearchCustomers(ctx, tt.keyword)
			require.NoError(t, err)

			var names []string
			for _, c := range found {
				names = append(names, c.Name)
			}
			assert.ElementsMatch(t, tt.want, names)
		})
	}
}
