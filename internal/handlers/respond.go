package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"digital-banking/internal/services"
	"digital-banking/internal/utils"
)

var errBadRequestBody = errors.New("invalid request body")

func writeJSON(ctx *fasthttp.RequestCtx, status int, body interface{}) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	if body == nil {
		return
	}
	if err := json.NewEncoder(ctx).Encode(body); err != nil {
		utils.LogError("Handler", "response encoding failed", err)
	}
}

// writeError maps service errors to a status code. Unknown errors are
// reported as 500 without leaking their text.
func writeError(ctx *fasthttp.RequestCtx, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == fasthttp.StatusInternalServerError {
		utils.LogError("Handler", string(ctx.Path()), err)
		message = "internal server error"
	}
	writeJSON(ctx, status, map[string]string{"error": message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, services.ErrAccountNotFound):
		return fasthttp.StatusNotFound
	case errors.Is(err, services.ErrInsufficientBalance),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidPage),
		errors.Is(err, services.ErrInvalidCustomer),
		errors.Is(err, errBadRequestBody):
		return fasthttp.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return fasthttp.StatusUnauthorized
	case errors.Is(err, services.ErrCustomerHasAccounts):
		return fasthttp.StatusConflict
	default:
		return fasthttp.StatusInternalServerError
	}
}

func decodeBody(ctx *fasthttp.RequestCtx, dest interface{}) error {
	if err := json.Unmarshal(ctx.PostBody(), dest); err != nil {
		utils.LogWarning("Handler", "bad JSON on %s: %v", ctx.Path(), err)
		return errBadRequestBody
	}
	return nil
}

func logDone(ctx *fasthttp.RequestCtx, startTime time.Time) {
	utils.LogResponse(string(ctx.Path()), ctx.Response.StatusCode(), time.Since(startTime))
}

// Health reports that the server is up.
func Health(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
}

// Recover turns a handler panic into a 500 so the server keeps running.
func Recover(ctx *fasthttp.RequestCtx, recovered interface{}) {
	utils.LogError("Handler", fmt.Sprintf("panic on %s %s", ctx.Method(), ctx.Path()), fmt.Errorf("%v", recovered))
	ctx.ResetBody()
	writeJSON(ctx, fasthttp.StatusInternalServerError, map[string]string{"error": "internal server error"})
}
