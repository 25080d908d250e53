package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authdomain "medic-backend/internal/auth/domain"
	"medic-backend/internal/chat/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChat struct {
	sent       *domain.ChatMessage
	senderType domain.SenderType
}

func (s *stubChat) SendMessage(ctx context.Context, senderID, receiverID, message string, messageType domain.MessageType, senderType domain.SenderType) (*domain.ChatMessage, error) {
	if !messageType.Valid() {
		return nil, domain.ErrInvalidMessage
	}
	s.senderType = senderType
	s.sent = &domain.ChatMessage{ID: "m1", SenderID: senderID, ReceiverID: receiverID, Message: message, MessageType: messageType, SenderType: senderType}
	return s.sent, nil
}

func (s *stubChat) GetRecentMessages(userID, contactID string) ([]*domain.ChatMessage, error) {
	return nil, nil
}

func (s *stubChat) MarkAsRead(userID, contactID string) (int64, error) {
	return 3, nil
}

func newRouter(uc *stubChat, user *authdomain.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user", user)
		c.Set("userID", user.ID)
	})
	h := NewChatHandler(uc)
	r.POST("/api/chat/messages", h.SendMessage)
	r.GET("/api/chat/messages/:contactId", h.GetMessages)
	r.PATCH("/api/chat/messages/:contactId/read", h.MarkAsRead)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSendMessage_DerivesSenderTypeFromUser(t *testing.T) {
	uc := &stubChat{}
	r := newRouter(uc, &authdomain.User{ID: "E0012345", UserType: authdomain.UserTypeEmployee})

	w := do(r, http.MethodPost, "/api/chat/messages", `{"receiver_id":"C0000001","message":"了解","message_type":"auto_response"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, domain.SenderTypeEmployee, uc.senderType)
	assert.Equal(t, "E0012345", uc.sent.SenderID)
}

func TestSendMessage_SenderTypeRestrictedToCallerRole(t *testing.T) {
	customer := &authdomain.User{ID: "C0000001", UserType: authdomain.UserTypeCustomer}
	employee := &authdomain.User{ID: "E0012345", UserType: authdomain.UserTypeEmployee}
	admin := &authdomain.User{ID: "E0000001", UserType: authdomain.UserTypeEmployee, IsAdmin: true}

	cases := []struct {
		name       string
		user       *authdomain.User
		senderType string
		wantCode   int
		wantType   domain.SenderType
	}{
		{"customer as self", customer, "customer", http.StatusCreated, domain.SenderTypeCustomer},
		{"customer as employee", customer, "employee", http.StatusForbidden, ""},
		{"customer as system", customer, "system", http.StatusForbidden, ""},
		{"employee as customer", employee, "customer", http.StatusForbidden, ""},
		{"employee as system", employee, "system", http.StatusForbidden, ""},
		{"admin as system", admin, "system", http.StatusCreated, domain.SenderTypeSystem},
		{"unknown type", employee, "robot", http.StatusForbidden, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := &stubChat{}
			r := newRouter(uc, tc.user)

			w := do(r, http.MethodPost, "/api/chat/messages", `{"receiver_id":"X","message":"m","message_type":"auto_response","sender_type":"`+tc.senderType+`"}`)
			require.Equal(t, tc.wantCode, w.Code)
			assert.Equal(t, tc.wantType, uc.senderType)
			if tc.wantCode == http.StatusForbidden {
				assert.Nil(t, uc.sent)
			}
		})
	}
}

func TestSendMessage_InvalidType(t *testing.T) {
	r := newRouter(&stubChat{}, &authdomain.User{ID: "C0000001", UserType: authdomain.UserTypeCustomer})

	w := do(r, http.MethodPost, "/api/chat/messages", `{"receiver_id":"E0012345","message":"x","message_type":"shout"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMessages_EmptyListNotNull(t *testing.T) {
	r := newRouter(&stubChat{}, &authdomain.User{ID: "C0000001"})

	w := do(r, http.MethodGet, "/api/chat/messages/E0012345", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"messages":[]}`, w.Body.String())
}

func TestMarkAsRead_ReportsCount(t *testing.T) {
	r := newRouter(&stubChat{}, &authdomain.User{ID: "C0000001"})

	w := do(r, http.MethodPatch, "/api/chat/messages/E0012345/read", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body["updated"])
}
