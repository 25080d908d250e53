package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	authrepo "medic-backend/internal/auth/repository"
	notifdomain "medic-backend/internal/notification/domain"
	notifdto "medic-backend/internal/notification/dto"
	"medic-backend/internal/notification/repository"
	"medic-backend/pkg/fcm"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
)

type dispatchUsecase struct {
	userRepo     authrepo.UserRepository
	historyRepo  repository.HistoryRepository
	sender       fcm.Sender
	kind         fcm.Kind
	presentation fcm.Presentation
	logger       zerolog.Logger
	now          func() time.Time
}

// NewDispatchUsecase creates the dispatch usecase. A nil sender means Firebase
// is not configured; every dispatch then fails with ErrNotConfigured.
func NewDispatchUsecase(
	userRepo authrepo.UserRepository,
	historyRepo repository.HistoryRepository,
	sender fcm.Sender,
	kind fcm.Kind,
	presentation fcm.Presentation,
	logger zerolog.Logger,
) DispatchUsecase {
	return &dispatchUsecase{
		userRepo:     userRepo,
		historyRepo:  historyRepo,
		sender:       sender,
		kind:         kind,
		presentation: presentation,
		logger:       logger,
		now:          time.Now,
	}
}

func (u *dispatchUsecase) Dispatch(ctx context.Context, req *notifdto.SendNotificationRequest) (*notifdto.SendNotificationResponse, error) {
	if !req.Valid() {
		return nil, notifdomain.ErrInvalidRequest
	}
	if u.sender == nil {
		return nil, notifdomain.ErrNotConfigured
	}

	user, err := u.userRepo.FindByID(req.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user data: %w", err)
	}
	if user == nil {
		return nil, notifdomain.ErrUserNotFound
	}

	token := user.PushToken()
	if token == "" {
		u.record(req, notifdomain.DeliveryStatusFailed)
		u.logger.Info().Str("receiver", req.ReceiverID).Msg("receiver has no push token, skipping send")
		return &notifdto.SendNotificationResponse{
			Success:        false,
			DeliveryStatus: notifdomain.DeliveryStatusFailed,
			ProviderResult: map[string]interface{}{"error": "no_token"},
		}, notifdomain.ErrNoToken
	}

	status := notifdomain.DeliveryStatusFailed
	var providerResult map[string]interface{}

	msg, err := fcm.NewMessage(u.kind, token, fcm.NotificationData{
		Title: req.Title,
		Body:  req.Body,
		Data:  fcm.StringData(req.Data),
	}, u.presentation)
	if err != nil {
		providerResult = map[string]interface{}{"error": err.Error()}
	} else {
		result, sendErr := u.sender.Send(ctx, msg)
		if result != nil {
			providerResult = result.Raw
		}
		if sendErr != nil {
			u.logger.Warn().Err(sendErr).Str("receiver", req.ReceiverID).Str("token", fcm.MaskToken(token)).Msg("push send failed")
			if providerResult == nil {
				providerResult = map[string]interface{}{"error": sendErr.Error()}
			}
		} else if result != nil && result.Name != "" {
			status = notifdomain.DeliveryStatusSent
		}
	}
	if providerResult == nil {
		providerResult = map[string]interface{}{}
	}

	u.record(req, status)

	return &notifdto.SendNotificationResponse{
		Success:        status == notifdomain.DeliveryStatusSent,
		DeliveryStatus: status,
		ProviderResult: providerResult,
	}, nil
}

// record writes the audit row. Failing to write it is logged, not returned:
// the push has already been attempted at this point.
func (u *dispatchUsecase) record(req *notifdto.SendNotificationRequest, status notifdomain.DeliveryStatus) {
	entry := &notifdomain.NotificationHistory{
		UserID:         req.ReceiverID,
		Title:          req.Title,
		Body:           req.Body,
		DeliveryStatus: status,
		SentAt:         u.now(),
	}
	if len(req.Data) > 0 {
		if raw, err := json.Marshal(req.Data); err == nil {
			entry.Data = datatypes.JSON(raw)
		}
	}

	if err := u.historyRepo.Create(entry); err != nil {
		u.logger.Error().Err(err).Str("receiver", req.ReceiverID).Msg("failed to log notification history")
	}
}

// directNotifier dispatches inline.
type directNotifier struct {
	dispatch DispatchUsecase
}

// NewDirectNotifier returns a Notifier that calls Dispatch synchronously.
func NewDirectNotifier(dispatch DispatchUsecase) Notifier {
	return &directNotifier{dispatch: dispatch}
}

func (n *directNotifier) Notify(ctx context.Context, req *notifdto.SendNotificationRequest) error {
	resp, err := n.dispatch.Dispatch(ctx, req)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("push delivery %s", resp.DeliveryStatus)
	}
	return nil
}
