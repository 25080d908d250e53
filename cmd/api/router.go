package api

import (
	"net/http"

	"medic-backend/internal/auth/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	// PWA assets served from the site root
	r.GET("/firebase-messaging-sw.js", h.pwaHandler.ServiceWorker)
	r.GET("/manifest.webmanifest", h.pwaHandler.Manifest)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", h.authHandler.Login)
			auth.GET("/me", delivery.AuthMiddleware(h.authUsecase), h.authHandler.Me)
		}

		// Push registration
		push := api.Group("/push")
		{
			push.GET("/config", h.pwaHandler.PushConfig)

			token := push.Group("/token")
			token.Use(delivery.AuthMiddleware(h.authUsecase))
			{
				token.GET("", h.authHandler.PushStatus)
				token.PUT("", h.authHandler.RegisterPushToken)
				token.DELETE("", h.authHandler.UnregisterPushToken)
			}
		}

		// Dispatch (protected)
		notifications := api.Group("/notifications")
		notifications.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			notifications.POST("/send", h.notificationHandler.Send)
		}

		// Chat routes (protected)
		chat := api.Group("/chat")
		chat.Use(delivery.AuthMiddleware(h.authUsecase))
		{
			chat.POST("/messages", h.chatHandler.SendMessage)
			chat.GET("/messages/:contactId", h.chatHandler.GetMessages)
			chat.PATCH("/messages/:contactId/read", h.chatHandler.MarkAsRead)
		}

		// Install guidance (public)
		api.GET("/pwa/advice", h.pwaHandler.Advice)
	}
}
