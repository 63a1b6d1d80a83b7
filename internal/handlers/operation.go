package handlers

import (
	"strconv"
	"time"

	"github.com/valyala/fasthttp"

	"digital-banking/internal/models"
	"digital-banking/internal/services"
)

const (
	defaultPage = 0
	defaultSize = 5
)

// Debit handles POST /accounts/debit and echoes the request body.
func (h *AccountHandler) Debit(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()
	defer logDone(ctx, startTime)

	var req models.OperationRequest
	if err := decodeBody(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}

	if err := h.accountService.Debit(ctx, req.AccountID, req.Amount, req.Description); err != nil {
		writeError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, req)
}

// Credit handles POST /accounts/credit and echoes the request body.
func (h *AccountHandler) Credit(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()
	defer logDone(ctx, startTime)

	var req models.OperationRequest
	if err := decodeBody(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}

	if err := h.accountService.Credit(ctx, req.AccountID, req.Amount, req.Description); err != nil {
		writeError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, req)
}

// Transfer handles POST /accounts/transfer. Success has an empty body.
func (h *AccountHandler) Transfer(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()
	defer logDone(ctx, startTime)

	var req models.TransferRequest
	if err := decodeBody(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}

	if err := h.accountService.Transfer(ctx, req.AccountSource, req.AccountDestination, req.Amount); err != nil {
		writeError(ctx, err)
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
}

// History handles GET /accounts/{id}/operations.
func (h *AccountHandler) History(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()
	defer logDone(ctx, startTime)

	operations, err := h.accountService.AccountHistory(ctx, accountIDParam(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, operations)
}

// PagedHistory handles GET /accounts/{id}/pageOperations?page=&size=.
func (h *AccountHandler) PagedHistory(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()
	defer logDone(ctx, startTime)

	page, err := intQueryArg(ctx, "page", defaultPage)
	if err != nil {
		writeError(ctx, err)
		return
	}
	size, err := intQueryArg(ctx, "size", defaultSize)
	if err != nil {
		writeError(ctx, err)
		return
	}

	history, err := h.accountService.GetAccountHistory(ctx, accountIDParam(ctx), page, size)
	if err != nil {
		writeError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, history)
}

func intQueryArg(ctx *fasthttp.RequestCtx, name string, fallback int) (int, error) {
	raw := ctx.QueryArgs().Peek(name)
	if len(raw) == 0 {
		return fallback, nil
	}
	value, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, services.ErrInvalidPage
	}
	return value, nil
}
