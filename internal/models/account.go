package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// AccountID is generated by the service, never by the store.
type AccountID string

type AccountType string

const (
	CurrentAccountType AccountType = "CurrentAccount"
	SavingAccountType  AccountType = "SavingAccount"
)

type AccountStatus string

const (
	AccountStatusCreated   AccountStatus = "CREATED"
	AccountStatusActivated AccountStatus = "ACTIVATED"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
)

// Account holds the fields shared by every account variant.
type Account struct {
	ID         AccountID
	Balance    decimal.Decimal
	CreatedAt  time.Time
	Status     AccountStatus
	CustomerID CustomerID
}

// BankAccount is implemented by *CurrentAccount and *SavingAccount only.
type BankAccount interface {
	Base() *Account
	Type() AccountType
}

type CurrentAccount struct {
	Account
	OverdraftLimit decimal.Decimal
}

func (a *CurrentAccount) Base() *Account    { return &a.Account }
func (a *CurrentAccount) Type() AccountType { return CurrentAccountType }

type SavingAccount struct {
	Account
	InterestRate decimal.Decimal
}

func (a *SavingAccount) Base() *Account    { return &a.Account }
func (a *SavingAccount) Type() AccountType { return SavingAccountType }

type CreateCurrentAccountRequest struct {
	InitialBalance decimal.Decimal `json:"initialBalance"`
	OverdraftLimit decimal.Decimal `json:"overdraftLimit"`
	CustomerID     CustomerID      `json:"customerId"`
}

type CreateSavingAccountRequest struct {
	InitialBalance decimal.Decimal `json:"initialBalance"`
	InterestRate   decimal.Decimal `json:"interestRate"`
	CustomerID     CustomerID      `json:"customerId"`
}

type AccountResponse struct {
	Type           AccountType      `json:"type"`
	ID             AccountID        `json:"id"`
	Balance        decimal.Decimal  `json:"balance"`
	CreatedAt      time.Time        `json:"createdAt"`
	Status         AccountStatus    `json:"status"`
	Customer       CustomerResponse `json:"customer"`
	OverdraftLimit *decimal.Decimal `json:"overdraftLimit,omitempty"`
	InterestRate   *decimal.Decimal `json:"interestRate,omitempty"`
}
