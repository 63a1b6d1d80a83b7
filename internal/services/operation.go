package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/quintans/faults"
	"github.com/shopspring/decimal"

	"digital-banking/internal/models"
	"digital-banking/internal/repository"
	"digital-banking/internal/utils"
	"digital-banking/internal/worker"
)

const (
	transferDescription = "Transfer"

	// amountScale is the number of fractional digits the ledger stores.
	amountScale = 4
)

// validAmount accepts strictly positive amounts the ledger can store exactly.
func validAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.Equal(amount.Truncate(amountScale))
}

// Debit fails with ErrInsufficientBalance when balance < amount. The overdraft
// limit of current accounts is not taken into account.
func (s *AccountService) Debit(ctx context.Context, accountID models.AccountID, amount decimal.Decimal, description string) error {
	utils.LogInfo("AccountService", "debit %s from %s", amount, accountID)

	if !validAmount(amount) {
		return ErrInvalidAmount
	}

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		return s.debit(ctx, tx, accountID, amount, description)
	})
	if err != nil {
		utils.LogError("AccountService", fmt.Sprintf("debit on %s failed", accountID), err)
		return err
	}

	s.invalidateCache(accountID)
	utils.LogSuccess("AccountService", "debited %s from %s", amount, accountID)
	return nil
}

func (s *AccountService) Credit(ctx context.Context, accountID models.AccountID, amount decimal.Decimal, description string) error {
	utils.LogInfo("AccountService", "credit %s to %s", amount, accountID)

	if !validAmount(amount) {
		return ErrInvalidAmount
	}

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		return s.credit(ctx, tx, accountID, amount, description)
	})
	if err != nil {
		utils.LogError("AccountService", fmt.Sprintf("credit on %s failed", accountID), err)
		return err
	}

	s.invalidateCache(accountID)
	utils.LogSuccess("AccountService", "credited %s to %s", amount, accountID)
	return nil
}

// Transfer debits source and credits destination in one transaction: when the
// credit fails the debit is rolled back.
func (s *AccountService) Transfer(ctx context.Context, source, destination models.AccountID, amount decimal.Decimal) error {
	utils.LogInfo("AccountService", "transfer %s: %s -> %s", amount, source, destination)

	if !validAmount(amount) {
		return ErrInvalidAmount
	}

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := s.debit(ctx, tx, source, amount, transferDescription); err != nil {
			return err
		}
		return s.credit(ctx, tx, destination, amount, transferDescription)
	})
	if err != nil {
		utils.LogError("AccountService", fmt.Sprintf("transfer %s -> %s failed", source, destination), err)
		return err
	}

	s.invalidateCache(source, destination)
	utils.LogSuccess("AccountService", "transferred %s: %s -> %s", amount, source, destination)
	return nil
}

func (s *AccountService) debit(ctx context.Context, tx repository.Store, accountID models.AccountID, amount decimal.Decimal, description string) error {
	account, err := s.lockAccount(ctx, tx, accountID)
	if err != nil {
		return err
	}

	base := account.Base()
	if base.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}

	if err := s.record(ctx, tx, accountID, models.OperationDebit, amount, description); err != nil {
		return err
	}
	return s.setBalance(ctx, tx, accountID, base.Balance.Sub(amount))
}

func (s *AccountService) credit(ctx context.Context, tx repository.Store, accountID models.AccountID, amount decimal.Decimal, description string) error {
	account, err := s.lockAccount(ctx, tx, accountID)
	if err != nil {
		return err
	}

	if err := s.record(ctx, tx, accountID, models.OperationCredit, amount, description); err != nil {
		return err
	}
	return s.setBalance(ctx, tx, accountID, account.Base().Balance.Add(amount))
}

func (s *AccountService) lockAccount(ctx context.Context, tx repository.Store, accountID models.AccountID) (models.BankAccount, error) {
	account, err := tx.Accounts().GetForUpdate(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, faults.Errorf("load account %s: %w", accountID, err)
	}
	return account, nil
}

func (s *AccountService) record(ctx context.Context, tx repository.Store, accountID models.AccountID, opType models.OperationType, amount decimal.Decimal, description string) error {
	op := &models.AccountOperation{
		OperationDate: s.now(),
		Amount:        amount,
		Type:          opType,
		Description:   description,
		AccountID:     accountID,
	}
	if err := tx.Operations().Append(ctx, op); err != nil {
		return faults.Errorf("append %s operation: %w", opType, err)
	}
	return nil
}

func (s *AccountService) setBalance(ctx context.Context, tx repository.Store, accountID models.AccountID, balance decimal.Decimal) error {
	if err := tx.Accounts().UpdateBalance(ctx, accountID, balance); err != nil {
		return faults.Errorf("update balance of %s: %w", accountID, err)
	}
	return nil
}

// AccountHistory lists every operation of the account in insertion order.
// Unknown accounts yield an empty list.
func (s *AccountService) AccountHistory(ctx context.Context, accountID models.AccountID) ([]models.AccountOperationResponse, error) {
	operations, err := s.store.Operations().ListByAccount(ctx, accountID)
	if err != nil {
		utils.LogError("AccountService", fmt.Sprintf("history of %s failed", accountID), err)
		return nil, err
	}
	return toOperationResponses(operations), nil
}

func (s *AccountService) GetAccountHistory(ctx context.Context, accountID models.AccountID, page, size int) (*models.AccountHistoryResponse, error) {
	if page < 0 || size <= 0 || page > math.MaxInt/size {
		return nil, ErrInvalidPage
	}

	account, err := s.store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	operations, total, err := s.store.Operations().PageByAccount(ctx, accountID, page, size)
	if err != nil {
		utils.LogError("AccountService", fmt.Sprintf("paged history of %s failed", accountID), err)
		return nil, err
	}

	return &models.AccountHistoryResponse{
		AccountID:   account.Base().ID,
		Balance:     account.Base().Balance,
		CurrentPage: page,
		TotalPages:  totalPages(total, size),
		PageSize:    size,
		Operations:  toOperationResponses(operations),
	}, nil
}

// totalPages is ceil(total/size) without overflowing for large sizes.
func totalPages(total, size int) int {
	pages := total / size
	if total%size != 0 {
		pages++
	}
	return pages
}

func toOperationResponses(operations []models.AccountOperation) []models.AccountOperationResponse {
	responses := make([]models.AccountOperationResponse, 0, len(operations))
	for _, op := range operations {
		responses = append(responses, models.AccountOperationResponse{
			ID:            op.ID,
			OperationDate: op.OperationDate,
			Amount:        op.Amount,
			Type:          op.Type,
			Description:   op.Description,
		})
	}
	return responses
}

// invalidateCache evicts written accounts before the write call returns, so
// a following read sees the committed balance. A read that loaded the account
// before the commit may still store it afterwards: the worker pool evicts
// once more after evictDelay, retrying on failure.
func (s *AccountService) invalidateCache(accountIDs ...models.AccountID) {
	if s.cache == nil {
		return
	}

	evict := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		return s.cache.DeleteAccounts(ctx, accountIDs...)
	}

	if err := evict(context.Background()); err != nil {
		utils.LogWarning("Cache", "eviction of %v failed: %v", accountIDs, err)
	}

	if s.workerPool == nil {
		return
	}

	delay := s.evictDelay
	job := worker.Job{
		ID: fmt.Sprintf("cache-evict-%v", accountIDs),
		Task: func(ctx context.Context) error {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			return evict(ctx)
		},
	}
	if err := s.workerPool.Submit(job); err != nil {
		utils.LogWarning("AccountService", "delayed eviction of %v not scheduled: %v", accountIDs, err)
	}
}
