package handlers

import (
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"digital-banking/internal/models"
	"digital-banking/internal/services"
	"digital-banking/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	utils.LogSuccess("AuthHandler", "auth handler initialised")
	return &AuthHandler{authService: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()
	defer logDone(ctx, startTime)
	utils.LogRequest("POST", "/auth/login", "anonymous")

	var req models.LoginRequest
	if err := decodeBody(ctx, &req); err != nil {
		writeError(ctx, err)
		return
	}

	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		writeJSON(ctx, fasthttp.StatusBadRequest, map[string]string{"error": "username and password are required"})
		return
	}

	token, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		writeError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, token)
}
