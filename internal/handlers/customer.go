package handlers

import (
	"strconv"
	"time"

	"github.com/valyala/fasthttp"

	"digital-banking/internal/models"
	"digital-banking/internal/services"
	"digital-banking/internal/utils"
)

type CustomerHandler struct {
	accountService *services.AccountService
}

func NewCustomerHandler(accountService *services.AccountService) *CustomerHandler {
	return &CustomerHandler{accountService: accountService}
}

// customerIDParam reports false after answering 400 when {id} is not numeric.
func customerIDParam(ctx *fasthttp.RequestCtx) (models.CustomerID, bool) {
	raw, _ := ctx.UserValue("id").(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeJSON(ctx, fasthttp.StatusBadRequest, map[string]string{"error": "invalid customer id"})
		return 0, false
	}
	return models.CustomerID(id), true
}

// List handles GET /customers.
func (h *CustomerHandler) List(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()
	defer logDone(ctx, startTime)

	customers, err := h.accountService.ListCustomers(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, customers)
}

// Search handles GET /customers/search?keyword=.
func (h *CustomerHandler) Search(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()
	defer logDone(ctx, startTime)

	keyword := string(ctx.QueryArgs().Peek("keyword"))
	customers, err := h.accountService.SearchCustomers(ctx, keyword)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, customers)
}

// Get handles GET /customers/{id}.
func (h *CustomerHandler) Get(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()
	defer logDone(ctx, startTime)

	id, ok := customerIDParam(ctx)
	if !ok {
		return
	}

	customer, err := h.accountService.GetCustomer(ctx, id)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, customer)
}

// Create handles POST /customers.
func (h *CustomerHandler) Create(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()
	defer logDone(ctx, startTime)

	var req models.CustomerRequest
	if err := decodeBody(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}

	customer, err := h.accountService.CreateCustomer(ctx, req)
	if err != nil {
		writeError(ctx, err)
		return
	}

	utils.LogSuccess("CustomerHandler", "customer %d created", customer.ID)
	writeJSON(ctx, fasthttp.StatusCreated, customer)
}

// Update handles PUT /customers/{id}.
func (h *CustomerHandler) Update(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()
	defer logDone(ctx, startTime)

	id, ok := customerIDParam(ctx)
	if !ok {
		return
	}

	var req models.CustomerRequest
	if err := decodeBody(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}

	customer, err := h.accountService.UpdateCustomer(ctx, id, req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, customer)
}

// Delete handles DELETE /customers/{id}.
func (h *CustomerHandler) Delete(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()
	defer logDone(ctx, startTime)

	id, ok := customerIDParam(ctx)
	if !ok {
		return
	}

	if err := h.accountService.DeleteCustomer(ctx, id); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
}
