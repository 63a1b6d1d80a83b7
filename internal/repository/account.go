package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/quintans/faults"
	"github.com/shopspring/decimal"

	"digital-banking/internal/models"
	"digital-banking/internal/utils"
)

// Discriminator values stored in bank_accounts.type.
const (
	discriminatorCurrent = "CA"
	discriminatorSaving  = "SA"
)

const accountColumns = `id, type, balance, created_at, status, customer_id, over_draft, interest_rate`

type AccountRepo struct {
	db DBTX
}

func NewAccountRepository(db DBTX) *AccountRepo {
	return &AccountRepo{db: db}
}

func (r *AccountRepo) Create(ctx context.Context, account models.BankAccount) error {
	base := account.Base()

	var (
		discriminator string
		overDraft     decimal.NullDecimal
		interestRate  decimal.NullDecimal
	)
	switch acc := account.(type) {
	case *models.CurrentAccount:
		discriminator = discriminatorCurrent
		overDraft = decimal.NewNullDecimal(acc.OverdraftLimit)
	case *models.SavingAccount:
		discriminator = discriminatorSaving
		interestRate = decimal.NewNullDecimal(acc.InterestRate)
	default:
		return faults.Errorf("unsupported account type %T", account)
	}

	query := `
		INSERT INTO bank_accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	utils.LogDB("CREATE ACCOUNT", fmt.Sprintf("id=%s type=%s customer=%d", base.ID, discriminator, base.CustomerID))

	_, err := r.db.Exec(ctx, query,
		base.ID,
		discriminator,
		base.Balance,
		base.CreatedAt,
		base.Status,
		base.CustomerID,
		overDraft,
		interestRate,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrConflict
		}
		return faults.Errorf("create account %s: %w", base.ID, err)
	}
	return nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id models.AccountID) (models.BankAccount, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM bank_accounts WHERE id = $1`, id)
}

func (r *AccountRepo) GetForUpdate(ctx context.Context, id models.AccountID) (models.BankAccount, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM bank_accounts WHERE id = $1 FOR UPDATE`, id)
}

func (r *AccountRepo) get(ctx context.Context, query string, id models.AccountID) (models.BankAccount, error) {
	account, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, faults.Errorf("get account %s: %w", id, err)
	}
	return account, nil
}

func (r *AccountRepo) List(ctx context.Context) ([]models.BankAccount, error) {
	rows, err := r.db.Query(ctx, `SELECT `+accountColumns+` FROM bank_accounts ORDER BY created_at, id`)
	if err != nil {
		return nil, faults.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []models.BankAccount{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, faults.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, faults.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepo) UpdateBalance(ctx context.Context, id models.AccountID, balance decimal.Decimal) error {
	result, err := r.db.Exec(ctx, `UPDATE bank_accounts SET balance = $1 WHERE id = $2`, balance, id)
	if err != nil {
		return faults.Errorf("update balance of %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (models.BankAccount, error) {
	var (
		base          models.Account
		discriminator string
		overDraft     decimal.NullDecimal
		interestRate  decimal.NullDecimal
	)
	err := row.Scan(
		&base.ID,
		&discriminator,
		&base.Balance,
		&base.CreatedAt,
		&base.Status,
		&base.CustomerID,
		&overDraft,
		&interestRate,
	)
	if err != nil {
		return nil, err
	}

	switch discriminator {
	case discriminatorCurrent:
		return &models.CurrentAccount{Account: base, OverdraftLimit: overDraft.Decimal}, nil
	case discriminatorSaving:
		return &models.SavingAccount{Account: base, InterestRate: interestRate.Decimal}, nil
	default:
		return nil, fmt.Errorf("unknown account discriminator %q", discriminator)
	}
}
