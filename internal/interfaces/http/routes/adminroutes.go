package routes

import (
	"github.com/gin-gonic/gin"

	"cardwallet/internal/interfaces/http/handlers"
	"cardwallet/internal/interfaces/http/middleware"
	"cardwallet/internal/shared/logger"
)

// AdminRouteConfig holds the configuration for the JWT-protected admin
// routes.
type AdminRouteConfig struct {
	CardHandler        *handlers.CardHandler
	TenantHandler      *handlers.TenantHandler
	CertificateHandler *handlers.CertificateHandler
	JWTSecret          string
	Logger             logger.Interface
}

// SetupAdminRoutes configures the card, tenant and certificate admin routes.
func SetupAdminRoutes(engine *gin.Engine, config *AdminRouteConfig) {
	api := engine.Group("/api")
	api.Use(middleware.AdminAuth(config.JWTSecret, config.Logger))
	{
		api.POST("/cards", config.CardHandler.CreateCard)
		api.GET("/cards/:id", config.CardHandler.GetCard)
		api.PUT("/cards/:id", config.CardHandler.UpdateCard)

		api.POST("/tenants", config.TenantHandler.CreateTenant)
		api.GET("/tenants/:id", config.TenantHandler.GetTenant)

		api.POST("/certificates/claim", config.CertificateHandler.ClaimCertificate)
	}
}
