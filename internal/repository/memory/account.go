package memory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"digital-banking/internal/models"
	"digital-banking/internal/repository"
)

type accountRepo struct {
	s *Store
}

func toRecord(account models.BankAccount) (accountRecord, error) {
	rec := accountRecord{base: *account.Base(), kind: account.Type()}
	switch acc := account.(type) {
	case *models.CurrentAccount:
		rec.overdraftLimit = acc.OverdraftLimit
	case *models.SavingAccount:
		rec.interestRate = acc.InterestRate
	default:
		return accountRecord{}, fmt.Errorf("unsupported account type %T", account)
	}
	return rec, nil
}

func (rec accountRecord) toModel() models.BankAccount {
	if rec.kind == models.SavingAccountType {
		return &models.SavingAccount{Account: rec.base, InterestRate: rec.interestRate}
	}
	return &models.CurrentAccount{Account: rec.base, OverdraftLimit: rec.overdraftLimit}
}

func (r accountRepo) Create(_ context.Context, account models.BankAccount) error {
	rec, err := toRecord(account)
	if err != nil {
		return err
	}
	return r.s.view(func(st *state) error {
		if _, ok := st.customers[rec.base.CustomerID]; !ok {
			return repository.ErrConflict
		}
		if _, ok := st.accounts[rec.base.ID]; ok {
			return repository.ErrConflict
		}
		st.accounts[rec.base.ID] = rec
		st.accountOrder = append(st.accountOrder, rec.base.ID)
		return nil
	})
}

func (r accountRepo) GetByID(_ context.Context, id models.AccountID) (models.BankAccount, error) {
	var found models.BankAccount
	err := r.s.view(func(st *state) error {
		rec, ok := st.accounts[id]
		if !ok {
			return repository.ErrNotFound
		}
		found = rec.toModel()
		return nil
	})
	return found, err
}

// GetForUpdate needs no row lock: transactions are already serialized.
func (r accountRepo) GetForUpdate(ctx context.Context, id models.AccountID) (models.BankAccount, error) {
	return r.GetByID(ctx, id)
}

func (r accountRepo) List(_ context.Context) ([]models.BankAccount, error) {
	accounts := []models.BankAccount{}
	err := r.s.view(func(st *state) error {
		for _, id := range st.accountOrder {
			accounts = append(accounts, st.accounts[id].toModel())
		}
		return nil
	})
	return accounts, err
}

func (r accountRepo) UpdateBalance(_ context.Context, id models.AccountID, balance decimal.Decimal) error {
	return r.s.view(func(st *state) error {
		rec, ok := st.accounts[id]
		if !ok {
			return repository.ErrNotFound
		}
		rec.base.Balance = balance
		st.accounts[id] = rec
		return nil
	})
}
