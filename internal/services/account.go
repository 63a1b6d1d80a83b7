package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quintans/faults"
	"github.com/shopspring/decimal"

	"digital-banking/internal/cache"
	"digital-banking/internal/models"
	"digital-banking/internal/repository"
	"digital-banking/internal/utils"
	"digital-banking/internal/worker"
)

var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrAccountNotFound     = errors.New("bank account not found")
	ErrInsufficientBalance = errors.New("balance not sufficient")
	ErrInvalidAmount       = errors.New("amount must be greater than 0")
	ErrInvalidPage         = errors.New("page must be >= 0 and size must be > 0")
	ErrInvalidCustomer     = errors.New("customer name and email are required")
	ErrCustomerHasAccounts = errors.New("customer still owns bank accounts")
)

// AccountCache stores rendered account details. *cache.RedisCache satisfies it.
type AccountCache interface {
	GetAccount(ctx context.Context, id models.AccountID) (*models.AccountResponse, error)
	SetAccount(ctx context.Context, account *models.AccountResponse) error
	DeleteAccounts(ctx context.Context, ids ...models.AccountID) error
}

const defaultEvictDelay = 500 * time.Millisecond

// AccountService owns every balance mutation and every ledger write.
type AccountService struct {
	store      repository.Store
	cache      AccountCache
	workerPool *worker.WorkerPool
	evictDelay time.Duration
	now        func() time.Time
	newID      func() models.AccountID
}

func NewAccountService(store repository.Store) *AccountService {
	return &AccountService{
		store:      store,
		evictDelay: defaultEvictDelay,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      func() models.AccountID { return models.AccountID(uuid.New().String()) },
	}
}

func NewAccountServiceWithCache(store repository.Store, accountCache AccountCache) *AccountService {
	s := NewAccountService(store)
	s.cache = accountCache
	return s
}

// SetWorkerPool enables the delayed second eviction of written accounts.
func (s *AccountService) SetWorkerPool(pool *worker.WorkerPool) {
	s.workerPool = pool
	utils.LogSuccess("AccountService", "worker pool attached")
}

func (s *AccountService) CreateCurrentAccount(ctx context.Context, initialBalance, overdraftLimit decimal.Decimal, customerID models.CustomerID) (*models.AccountResponse, error) {
	utils.LogInfo("AccountService", "creating current account for customer %d", customerID)

	account := &models.CurrentAccount{OverdraftLimit: overdraftLimit}
	return s.createAccount(ctx, account, initialBalance, customerID)
}

func (s *AccountService) CreateSavingAccount(ctx context.Context, initialBalance, interestRate decimal.Decimal, customerID models.CustomerID) (*models.AccountResponse, error) {
	utils.LogInfo("AccountService", "creating saving account for customer %d", customerID)

	account := &models.SavingAccount{InterestRate: interestRate}
	return s.createAccount(ctx, account, initialBalance, customerID)
}

func (s *AccountService) createAccount(ctx context.Context, account models.BankAccount, initialBalance decimal.Decimal, customerID models.CustomerID) (*models.AccountResponse, error) {
	var response *models.AccountResponse
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		customer, err := tx.Customers().GetByID(ctx, customerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}

		base := account.Base()
		base.ID = s.newID()
		base.Balance = initialBalance
		base.CreatedAt = s.now()
		base.Status = models.AccountStatusCreated
		base.CustomerID = customer.ID

		if err := tx.Accounts().Create(ctx, account); err != nil {
			return faults.Errorf("save account: %w", err)
		}

		response = toAccountResponse(account, customer)
		return nil
	})
	if err != nil {
		utils.LogError("AccountService", fmt.Sprintf("account creation failed for customer %d", customerID), err)
		return nil, err
	}

	utils.LogSuccess("AccountService", "account %s (%s) created for customer %d", response.ID, response.Type, customerID)
	return response, nil
}

func (s *AccountService) GetAccount(ctx context.Context, accountID models.AccountID) (*models.AccountResponse, error) {
	utils.LogInfo("AccountService", "loading account %s", accountID)

	if s.cache != nil {
		cached, err := s.cache.GetAccount(ctx, accountID)
		switch {
		case err == nil:
			utils.LogDebug("Cache", "HIT account %s", accountID)
			return cached, nil
		case errors.Is(err, cache.ErrMiss):
			utils.LogDebug("Cache", "MISS account %s", accountID)
		default:
			utils.LogWarning("Cache", "read failed: %v", err)
		}
	}

	account, err := s.store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	customers := newCustomerLookup(s.store)
	customer, err := customers.get(ctx, account.Base().CustomerID)
	if err != nil {
		return nil, err
	}
	response := toAccountResponse(account, customer)

	if s.cache != nil {
		if err := s.cache.SetAccount(ctx, response); err != nil {
			utils.LogWarning("Cache", "write failed: %v", err)
		}
	}

	return response, nil
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]models.AccountResponse, error) {
	accounts, err := s.store.Accounts().List(ctx)
	if err != nil {
		utils.LogError("AccountService", "listing accounts failed", err)
		return nil, err
	}

	customers := newCustomerLookup(s.store)
	responses := make([]models.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		customer, err := customers.get(ctx, account.Base().CustomerID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *toAccountResponse(account, customer))
	}

	utils.LogSuccess("AccountService", "%d accounts listed", len(responses))
	return responses, nil
}

// customerLookup memoizes customer reads for the duration of one call.
type customerLookup struct {
	store repository.Store
	seen  map[models.CustomerID]*models.Customer
}

func newCustomerLookup(store repository.Store) *customerLookup {
	return &customerLookup{store: store, seen: map[models.CustomerID]*models.Customer{}}
}

func (l *customerLookup) get(ctx context.Context, id models.CustomerID) (*models.Customer, error) {
	if customer, ok := l.seen[id]; ok {
		return customer, nil
	}
	customer, err := l.store.Customers().GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		customer = &models.Customer{ID: id}
	}
	l.seen[id] = customer
	return customer, nil
}

func toAccountResponse(account models.BankAccount, customer *models.Customer) *models.AccountResponse {
	base := account.Base()
	response := &models.AccountResponse{
		Type:      account.Type(),
		ID:        base.ID,
		Balance:   base.Balance,
		CreatedAt: base.CreatedAt,
		Status:    base.Status,
		Customer:  toCustomerResponse(customer),
	}

	switch acc := account.(type) {
	case *models.CurrentAccount:
		limit := acc.OverdraftLimit
		response.OverdraftLimit = &limit
	case *models.SavingAccount:
		rate := acc.InterestRate
		response.InterestRate = &rate
	}
	return response
}
