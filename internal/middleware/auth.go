package middleware

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"digital-banking/internal/services"
	"digital-banking/internal/utils"
)

// User values set on authenticated requests.
const (
	UsernameKey = "username"
	ScopeKey    = "scope"
)

type AuthMiddleware struct {
	authService *services.AuthService
}

func NewAuthMiddleware(authService *services.AuthService) *AuthMiddleware {
	utils.LogSuccess("Middleware", "auth middleware initialised")
	return &AuthMiddleware{
		authService: authService,
	}
}

// RequireAuth accepts any valid bearer token.
func (m *AuthMiddleware) RequireAuth(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return m.RequireScope("", next)
}

// RequireScope rejects requests without a valid bearer token (401) or whose
// token does not grant scope (403). An empty scope only checks the token.
func (m *AuthMiddleware) RequireScope(scope string, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		startTime := time.Now()
		path := string(ctx.Path())

		authHeader := string(ctx.Request.Header.Peek("Authorization"))
		if authHeader == "" {
			utils.LogWarning("Middleware", "missing Authorization header on %s", path)
			deny(ctx, fasthttp.StatusUnauthorized, "authentication required")
			utils.LogResponse(path, fasthttp.StatusUnauthorized, time.Since(startTime))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.LogWarning("Middleware", "malformed Authorization header on %s", path)
			deny(ctx, fasthttp.StatusUnauthorized, "invalid token format")
			utils.LogResponse(path, fasthttp.StatusUnauthorized, time.Since(startTime))
			return
		}

		claims, err := m.authService.ValidateToken(parts[1])
		if err != nil {
			utils.LogWarning("Middleware", "invalid token: %v", err)
			deny(ctx, fasthttp.StatusUnauthorized, "invalid or expired token")
			utils.LogResponse(path, fasthttp.StatusUnauthorized, time.Since(startTime))
			return
		}

		if scope != "" && !claims.HasScope(scope) {
			utils.LogWarning("Middleware", "user %s lacks %s for %s", claims.Subject, scope, path)
			deny(ctx, fasthttp.StatusForbidden, "insufficient scope")
			utils.LogResponse(path, fasthttp.StatusForbidden, time.Since(startTime))
			return
		}

		ctx.SetUserValue(UsernameKey, claims.Subject)
		ctx.SetUserValue(ScopeKey, claims.Scope)
		utils.LogRequest(string(ctx.Method()), path, claims.Subject)

		next(ctx)
	}
}

func deny(ctx *fasthttp.RequestCtx, status int, message string) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	_ = json.NewEncoder(ctx).Encode(map[string]string{"error": message})
}
