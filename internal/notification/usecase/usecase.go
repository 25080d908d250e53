package usecase

import (
	"context"

	notifdto "medic-backend/internal/notification/dto"
)

// DispatchUsecase delivers one push attempt and records its outcome
type DispatchUsecase interface {
	// Dispatch never retries. Validation, configuration and lookup problems are
	// returned as errors; provider failures come back as a failed response.
	Dispatch(ctx context.Context, req *notifdto.SendNotificationRequest) (*notifdto.SendNotificationResponse, error)
}

// Notifier is what primary flows (chat) use to request a push. Implementations
// may deliver synchronously or hand the request to a queue.
type Notifier interface {
	Notify(ctx context.Context, req *notifdto.SendNotificationRequest) error
}
