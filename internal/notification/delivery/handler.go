package delivery

import (
	"errors"
	"net/http"

	notifdomain "medic-backend/internal/notification/domain"
	notifdto "medic-backend/internal/notification/dto"
	"medic-backend/internal/notification/usecase"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NotificationHandler exposes the push dispatch entrypoint
type NotificationHandler struct {
	dispatch usecase.DispatchUsecase
	logger   zerolog.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(dispatch usecase.DispatchUsecase, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		dispatch: dispatch,
		logger:   logger,
	}
}

// Send pushes one notification to a receiver and records the outcome
// POST /api/notifications/send
func (h *NotificationHandler) Send(c *gin.Context) {
	var req notifdto.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, notifdto.ErrorResponse{Error: "Missing required fields: receiverId, title, body"})
		return
	}

	resp, err := h.dispatch.Dispatch(c.Request.Context(), &req)
	if err != nil {
		status, body := errorResponse(err)
		if status == http.StatusInternalServerError {
			h.logger.Error().Err(err).Str("receiver", req.ReceiverID).Msg("notification dispatch failed")
		}
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func errorResponse(err error) (int, notifdto.ErrorResponse) {
	switch {
	case errors.Is(err, notifdomain.ErrInvalidRequest):
		return http.StatusBadRequest, notifdto.ErrorResponse{Error: "Missing required fields: receiverId, title, body"}
	case errors.Is(err, notifdomain.ErrUserNotFound):
		return http.StatusNotFound, notifdto.ErrorResponse{Error: "User not found"}
	case errors.Is(err, notifdomain.ErrNoToken):
		return http.StatusBadRequest, notifdto.ErrorResponse{Error: "User has no FCM token"}
	case errors.Is(err, notifdomain.ErrNotConfigured):
		return http.StatusInternalServerError, notifdto.ErrorResponse{Error: "Firebase configuration not found"}
	default:
		return http.StatusInternalServerError, notifdto.ErrorResponse{Error: "Internal server error", Details: err.Error()}
	}
}
