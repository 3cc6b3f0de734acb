package routes

import (
	"net/http"

	"braindump_backend/internal/handlers"
	"braindump_backend/internal/middleware"
	"braindump_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every HTTP and websocket route.
func RegisterRoutes(router *gin.Engine, appHandlers *handlers.AppHandlers, wsHandler *ws.Handler) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)

		authenticated := api.Group("")
		authenticated.Use(middleware.AuthMiddleware())
		{
			appHandlers.AuthHandler.RegisterAuthenticatedRoutes(authenticated)
			appHandlers.DumpHandler.RegisterRoutes(authenticated)
			appHandlers.ProfileHandler.RegisterRoutes(authenticated)
			appHandlers.SubscriptionHandler.RegisterRoutes(authenticated)
			appHandlers.VoiceHandler.RegisterRoutes(authenticated)
		}
	}

	wsGroup := router.Group("/ws")
	wsGroup.Use(middleware.AuthMiddleware())
	{
		wsGroup.GET("", wsHandler.ServeWS)
	}
}
