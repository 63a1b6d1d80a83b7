// Package testfixture builds demo data through the public service API.
package testfixture

import (
	"context"
	"errors"
	"math/rand"

	"github.com/shopspring/decimal"

	"digital-banking/internal/models"
	"digital-banking/internal/services"
)

var DemoCustomers = []string{"Hassan", "Yassine", "Aicha"}

// Seed creates one current and one saving account per demo customer and runs
// ten credit/debit rounds on each account. Debits that would overdraw are skipped.
func Seed(ctx context.Context, svc *services.AccountService, rng *rand.Rand) error {
	for _, name := range DemoCustomers {
		customer, err := svc.CreateCustomer(ctx, models.CustomerRequest{Name: name, Email: name + "@gmail.com"})
		if err != nil {
			return err
		}

		if _, err := svc.CreateCurrentAccount(ctx, randomAmount(rng, 0, 9000), decimal.NewFromInt(9000), customer.ID); err != nil {
			return err
		}
		if _, err := svc.CreateSavingAccount(ctx, randomAmount(rng, 0, 91000), decimal.RequireFromString("5.5"), customer.ID); err != nil {
			return err
		}
	}

	accounts, err := svc.ListAccounts(ctx)
	if err != nil {
		return err
	}
	for _, account := range accounts {
		for i := 0; i < 10; i++ {
			if err := svc.Credit(ctx, account.ID, randomAmount(rng, 10000, 120000), "Credit"); err != nil {
				return err
			}
			err := svc.Debit(ctx, account.ID, randomAmount(rng, 10000, 9000), "Debit")
			if err != nil && !errors.Is(err, services.ErrInsufficientBalance) {
				return err
			}
		}
	}
	return nil
}

// randomAmount returns base + U[0,1)*spread rounded to cents.
func randomAmount(rng *rand.Rand, base, spread float64) decimal.Decimal {
	return decimal.NewFromFloat(base + rng.Float64()*spread).Round(2)
}
