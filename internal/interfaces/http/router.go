// Package http assembles the gin engine.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cardwallet/internal/application/cards"
	"cardwallet/internal/application/certificates"
	"cardwallet/internal/application/tenants"
	"cardwallet/internal/application/wallet"
	"cardwallet/internal/infrastructure/config"
	"cardwallet/internal/interfaces/http/handlers"
	"cardwallet/internal/interfaces/http/middleware"
	"cardwallet/internal/interfaces/http/routes"
	"cardwallet/internal/shared/logger"
)

// Dependencies carries the application services the routes need.
type Dependencies struct {
	Wallet       *wallet.Service
	Cards        *cards.Service
	Tenants      *tenants.Service
	Certificates *certificates.Service
}

type Router struct {
	engine *gin.Engine
	deps   Dependencies
	cfg    *config.Config
	logger logger.Interface
}

func NewRouter(deps Dependencies, cfg *config.Config, logger logger.Interface) *Router {
	return &Router{
		engine: gin.New(),
		deps:   deps,
		cfg:    cfg,
		logger: logger,
	}
}

func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.logger))

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.SetupWalletRoutes(r.engine, &routes.WalletRouteConfig{
		Handler:   handlers.NewWalletHandler(r.deps.Wallet, r.logger),
		AuthToken: r.cfg.Wallet.AuthToken,
		Logger:    r.logger,
	})

	routes.SetupAdminRoutes(r.engine, &routes.AdminRouteConfig{
		CardHandler:        handlers.NewCardHandler(r.deps.Cards, r.logger),
		TenantHandler:      handlers.NewTenantHandler(r.deps.Tenants, r.logger),
		CertificateHandler: handlers.NewCertificateHandler(r.deps.Certificates, r.logger),
		JWTSecret:          r.cfg.Admin.JWTSecret,
		Logger:             r.logger,
	})
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
