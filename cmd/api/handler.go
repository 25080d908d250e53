package api

import (
	"net/http"

	authDelivery "medic-backend/internal/auth/delivery"
	authUsecase "medic-backend/internal/auth/usecase"
	chatDelivery "medic-backend/internal/chat/delivery"
	chatUsecase "medic-backend/internal/chat/usecase"
	notifDelivery "medic-backend/internal/notification/delivery"
	notifUsecase "medic-backend/internal/notification/usecase"
	"medic-backend/pkg/config"
	"medic-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Handler struct {
	authUsecase         authUsecase.AuthUsecase
	authHandler         *authDelivery.AuthHandler
	notificationHandler *notifDelivery.NotificationHandler
	chatHandler         *chatDelivery.ChatHandler
	pwaHandler          *PWAHandler
	logger              zerolog.Logger
}

func NewHandler(authUc authUsecase.AuthUsecase, dispatchUc notifUsecase.DispatchUsecase, chatUc chatUsecase.ChatUsecase, cfg *config.Config, log zerolog.Logger) *Handler {
	return &Handler{
		authUsecase:         authUc,
		authHandler:         authDelivery.NewAuthHandler(authUc),
		notificationHandler: notifDelivery.NewNotificationHandler(dispatchUc, logger.Component(log, "dispatch")),
		chatHandler:         chatDelivery.NewChatHandler(chatUc),
		pwaHandler:          NewPWAHandler(cfg, logger.Component(log, "pwa")),
		logger:              log,
	}
}

// Engine builds the gin engine with CORS and every route registered.
func (h *Handler) Engine() *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h)
	return r
}

func (h *Handler) Start(addr string) error {
	h.logger.Info().Str("addr", addr).Msg("server starting")
	return h.Engine().Run(addr)
}
