package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OperationID int64

type OperationType string

const (
	OperationDebit  OperationType = "DEBIT"
	OperationCredit OperationType = "CREDIT"
)

// AccountOperation is a ledger entry. Entries are appended, never updated.
type AccountOperation struct {
	ID            OperationID
	OperationDate time.Time
	Amount        decimal.Decimal
	Type          OperationType
	Description   string
	AccountID     AccountID
}

// OperationRequest is the body of both the debit and the credit endpoints.
type OperationRequest struct {
	AccountID   AccountID       `json:"accountId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type TransferRequest struct {
	AccountSource      AccountID       `json:"accountSource"`
	AccountDestination AccountID       `json:"accountDestination"`
	Amount             decimal.Decimal `json:"amount"`
}

type AccountOperationResponse struct {
	ID            OperationID     `json:"id"`
	OperationDate time.Time       `json:"operationDate"`
	Amount        decimal.Decimal `json:"amount"`
	Type          OperationType   `json:"type"`
	Description   string          `json:"description"`
}

type AccountHistoryResponse struct {
	AccountID   AccountID                  `json:"accountId"`
	Balance     decimal.Decimal            `json:"balance"`
	CurrentPage int                        `json:"currentPage"`
	TotalPages  int                        `json:"totalPages"`
	PageSize    int                        `json:"pageSize"`
	Operations  []AccountOperationResponse `json:"accountOperationDTOS"`
}
