// Package server maps routes to handlers and their required scopes.
package server

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"digital-banking/internal/handlers"
	"digital-banking/internal/middleware"
	"digital-banking/internal/services"
)

func NewRouter(accountService *services.AccountService, authService *services.AuthService) *router.Router {
	authMiddleware := middleware.NewAuthMiddleware(authService)
	authHandler := handlers.NewAuthHandler(authService)
	accountHandler := handlers.NewAccountHandler(accountService)
	customerHandler := handlers.NewCustomerHandler(accountService)

	user := func(h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return authMiddleware.RequireScope(services.RoleUser, h)
	}
	admin := func(h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return authMiddleware.RequireScope(services.RoleAdmin, h)
	}

	r := router.New()
	r.PanicHandler = handlers.Recover

	r.GET("/health", handlers.Health)
	r.POST("/auth/login", authHandler.Login)

	r.GET("/accounts", user(accountHandler.GetAccounts))
	r.GET("/accounts/{id}", user(accountHandler.GetAccountByID))
	r.GET("/accounts/{id}/operations", user(accountHandler.History))
	r.GET("/accounts/{id}/pageOperations", user(accountHandler.PagedHistory))
	r.POST("/accounts/debit", user(accountHandler.Debit))
	r.POST("/accounts/credit", user(accountHandler.Credit))
	r.POST("/accounts/transfer", user(accountHandler.Transfer))
	r.POST("/accounts/current", admin(accountHandler.CreateCurrentAccount))
	r.POST("/accounts/saving", admin(accountHandler.CreateSavingAccount))

	r.GET("/customers", user(customerHandler.List))
	r.GET("/customers/search", user(customerHandler.Search))
	r.GET("/customers/{id}", user(customerHandler.Get))
	r.POST("/customers", admin(customerHandler.Create))
	r.PUT("/customers/{id}", admin(customerHandler.Update))
	r.DELETE("/customers/{id}", admin(customerHandler.Delete))

	return r
}
