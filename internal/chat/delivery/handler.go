package delivery

import (
	"errors"
	"net/http"

	authdomain "medic-backend/internal/auth/domain"
	"medic-backend/internal/chat/domain"
	"medic-backend/internal/chat/usecase"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles chat HTTP requests
type ChatHandler struct {
	chatUsecase usecase.ChatUsecase
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatUsecase usecase.ChatUsecase) *ChatHandler {
	return &ChatHandler{
		chatUsecase: chatUsecase,
	}
}

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	ReceiverID  string `json:"receiver_id" binding:"required"`
	Message     string `json:"message" binding:"required"`
	MessageType string `json:"message_type" binding:"required"`
	SenderType  string `json:"sender_type"`
}

// SendMessage stores a message from the authenticated user
// POST /api/chat/messages
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	senderType, ok := allowedSenderType(c, domain.SenderType(req.SenderType))
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "sender_type not allowed for this user"})
		return
	}

	msg, err := h.chatUsecase.SendMessage(c.Request.Context(), c.GetString("userID"), req.ReceiverID, req.Message, domain.MessageType(req.MessageType), senderType)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// GetMessages returns the recent conversation with a contact
// GET /api/chat/messages/:contactId
func (h *ChatHandler) GetMessages(c *gin.Context) {
	messages, err := h.chatUsecase.GetRecentMessages(c.GetString("userID"), c.Param("contactId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if messages == nil {
		messages = []*domain.ChatMessage{}
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// MarkAsRead marks the contact's messages to the caller as read
// PATCH /api/chat/messages/:contactId/read
func (h *ChatHandler) MarkAsRead(c *gin.Context) {
	updated, err := h.chatUsecase.MarkAsRead(c.GetString("userID"), c.Param("contactId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// allowedSenderType resolves the sender type for the caller. An empty
// request value means the caller's own role; system messages are admin only.
func allowedSenderType(c *gin.Context, requested domain.SenderType) (domain.SenderType, bool) {
	var user *authdomain.User
	if v, ok := c.Get("user"); ok {
		user, _ = v.(*authdomain.User)
	}

	own := domain.SenderTypeCustomer
	if user != nil && user.UserType == authdomain.UserTypeEmployee {
		own = domain.SenderTypeEmployee
	}

	switch requested {
	case "", own:
		return own, true
	case domain.SenderTypeSystem:
		return requested, user != nil && user.IsAdmin
	default:
		return "", false
	}
}
