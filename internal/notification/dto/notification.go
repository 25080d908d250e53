package dto

import notifdomain "medic-backend/internal/notification/domain"

// SendNotificationRequest is the dispatch entrypoint body.
type SendNotificationRequest struct {
	ReceiverID string                 `json:"receiverId"`
	Title      string                 `json:"title"`
	Body       string                 `json:"body"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

func (r *SendNotificationRequest) Valid() bool {
	return r != nil && r.ReceiverID != "" && r.Title != "" && r.Body != ""
}

type SendNotificationResponse struct {
	Success        bool                       `json:"success"`
	DeliveryStatus notifdomain.DeliveryStatus `json:"deliveryStatus"`
	ProviderResult map[string]interface{}     `json:"providerResult"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
