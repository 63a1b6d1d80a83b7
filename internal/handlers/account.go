package handlers

import (
	"time"

	"github.com/valyala/fasthttp"

	"digital-banking/internal/models"
	"digital-banking/internal/services"
	"digital-banking/internal/utils"
)

type AccountHandler struct {
	accountService *services.AccountService
}

func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

func accountIDParam(ctx *fasthttp.RequestCtx) models.AccountID {
	id, _ := ctx.UserValue("id").(string)
	return models.AccountID(id)
}

// GetAccountByID handles GET /accounts/{id}.
func (h *AccountHandler) GetAccountByID(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()
	defer logDone(ctx, startTime)

	account, err := h.accountService.GetAccount(ctx, accountIDParam(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, account)
}

// GetAccounts handles GET /accounts.
func (h *AccountHandler) GetAccounts(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()
	defer logDone(ctx, startTime)

	accounts, err := h.accountService.ListAccounts(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, accounts)
}

// CreateCurrentAccount handles POST /accounts/current.
func (h *AccountHandler) CreateCurrentAccount(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()
	defer logDone(ctx, startTime)

	var req models.CreateCurrentAccountRequest
	if err := decodeBody(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}

	account, err := h.accountService.CreateCurrentAccount(ctx, req.InitialBalance, req.OverdraftLimit, req.CustomerID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	utils.LogSuccess("AccountHandler", "current account %s created", account.ID)
	writeJSON(ctx, fasthttp.StatusCreated, account)
}

// CreateSavingAccount handles POST /accounts/saving.
func (h *AccountHandler) CreateSavingAccount(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()
	defer logDone(ctx, startTime)

	var req models.CreateSavingAccountRequest
	if err := decodeBody(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}

	account, err := h.accountService.CreateSavingAccount(ctx, req.InitialBalance, req.InterestRate, req.CustomerID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	utils.LogSuccess("AccountHandler", "saving account %s created", account.ID)
	writeJSON(ctx, fasthttp.StatusCreated, account)
}
