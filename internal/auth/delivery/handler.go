package delivery

import (
	"errors"
	"net/http"

	authdomain "medic-backend/internal/auth/domain"
	authdto "medic-backend/internal/auth/dto"
	"medic-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles login and push registration requests
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
	}
}

// Login exchanges an id/password pair for an access token
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authUsecase.Login(&req)
	if err != nil {
		if errors.Is(err, authdomain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated user
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, _ := c.Get("user")
	c.JSON(http.StatusOK, user)
}

// RegisterPushToken stores the caller's push token, replacing any previous one
// PUT /api/push/token
func (h *AuthHandler) RegisterPushToken(c *gin.Context) {
	var req authdto.RegisterPushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authUsecase.RegisterPushToken(c.GetString("userID"), req.Token, req.DeviceInfo); err != nil {
		writeTokenError(c, err)
		return
	}

	c.JSON(http.StatusOK, authdto.PushStatusResponse{Registered: true})
}

// UnregisterPushToken clears the caller's push token
// DELETE /api/push/token
func (h *AuthHandler) UnregisterPushToken(c *gin.Context) {
	if err := h.authUsecase.UnregisterPushToken(c.GetString("userID")); err != nil {
		writeTokenError(c, err)
		return
	}

	c.JSON(http.StatusOK, authdto.PushStatusResponse{Registered: false})
}

// PushStatus reports whether the caller has a stored push token
// GET /api/push/token
func (h *AuthHandler) PushStatus(c *gin.Context) {
	registered, err := h.authUsecase.PushStatus(c.GetString("userID"))
	if err != nil {
		writeTokenError(c, err)
		return
	}

	c.JSON(http.StatusOK, authdto.PushStatusResponse{Registered: registered})
}

func writeTokenError(c *gin.Context, err error) {
	if errors.Is(err, authdomain.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
