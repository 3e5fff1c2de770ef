// Package routes wires handlers onto the gin engine.
package routes

import (
	"github.com/gin-gonic/gin"

	"cardwallet/internal/interfaces/http/handlers"
	"cardwallet/internal/interfaces/http/middleware"
	"cardwallet/internal/shared/logger"
)

// WalletRouteConfig holds the configuration for the device-facing routes.
type WalletRouteConfig struct {
	Handler   *handlers.WalletHandler
	AuthToken string
	Logger    logger.Interface
}

// SetupWalletRoutes configures the Wallet web-service routes. Per the
// protocol only the write calls carry the ApplePass token; pass fetch and
// log submission are open.
func SetupWalletRoutes(engine *gin.Engine, config *WalletRouteConfig) {
	v1 := engine.Group("/v1")
	{
		registrations := v1.Group("/devices/:deviceLibraryIdentifier/registrations/:passTypeIdentifier")
		{
			registrations.GET("", config.Handler.PollSerials)

			authed := registrations.Group("")
			authed.Use(middleware.ApplePassAuth(config.AuthToken, config.Logger))
			{
				authed.POST("/:serialNumber", config.Handler.RegisterDevice)
				authed.DELETE("/:serialNumber", config.Handler.UnregisterDevice)
			}
		}

		v1.GET("/passes/:passTypeIdentifier/:serialNumber", config.Handler.GetPass)
		v1.POST("/log", config.Handler.RecordLog)
	}
}
