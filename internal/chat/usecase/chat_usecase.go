package usecase

import (
	"context"
	"fmt"
	"time"

	authrepo "medic-backend/internal/auth/repository"
	"medic-backend/internal/chat/domain"
	"medic-backend/internal/chat/repository"
	notifdto "medic-backend/internal/notification/dto"
	notifusecase "medic-backend/internal/notification/usecase"

	"github.com/rs/zerolog"
)

const notifyTimeout = 30 * time.Second

type chatUsecase struct {
	chatRepo repository.ChatRepository
	userRepo authrepo.UserRepository
	notifier notifusecase.Notifier
	logger   zerolog.Logger
	now      func() time.Time
}

// NewChatUsecase creates a new chat usecase. notifier may be nil, in which
// case messages are stored without a push.
func NewChatUsecase(chatRepo repository.ChatRepository, userRepo authrepo.UserRepository, notifier notifusecase.Notifier, logger zerolog.Logger) ChatUsecase {
	return &chatUsecase{
		chatRepo: chatRepo,
		userRepo: userRepo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

func (u *chatUsecase) SendMessage(ctx context.Context, senderID, receiverID, message string, messageType domain.MessageType, senderType domain.SenderType) (*domain.ChatMessage, error) {
	if senderID == "" || receiverID == "" || message == "" || !messageType.Valid() || !senderType.Valid() {
		return nil, domain.ErrInvalidMessage
	}

	msg := &domain.ChatMessage{
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Message:     message,
		MessageType: messageType,
		SenderType:  senderType,
		CreatedAt:   u.now(),
	}
	if err := u.chatRepo.Create(msg); err != nil {
		return nil, fmt.Errorf("failed to save chat message: %w", err)
	}

	if u.notifier != nil {
		req := &notifdto.SendNotificationRequest{
			ReceiverID: receiverID,
			Title:      fmt.Sprintf("%sからメッセージ", u.senderName(senderID)),
			Body:       message,
			Data: map[string]interface{}{
				"chatId":      senderID,
				"messageType": string(messageType),
				"senderId":    senderID,
			},
		}
		go u.notify(req)
	}

	return msg, nil
}

func (u *chatUsecase) notify(req *notifdto.SendNotificationRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := u.notifier.Notify(ctx, req); err != nil {
		u.logger.Warn().Err(err).Str("receiver", req.ReceiverID).Msg("chat notification not delivered")
		return
	}
	u.logger.Debug().Str("receiver", req.ReceiverID).Msg("chat notification sent")
}

func (u *chatUsecase) senderName(senderID string) string {
	user, err := u.userRepo.FindByID(senderID)
	if err != nil {
		u.logger.Warn().Err(err).Str("sender", senderID).Msg("failed to look up sender name")
	}
	if user == nil || user.Name == "" {
		return "ユーザー" + senderID
	}
	return user.Name
}

func (u *chatUsecase) GetRecentMessages(userID, contactID string) ([]*domain.ChatMessage, error) {
	return u.chatRepo.FindConversation(userID, contactID, u.now().Add(-domain.RecentWindow))
}

func (u *chatUsecase) MarkAsRead(userID, contactID string) (int64, error) {
	return u.chatRepo.MarkAsRead(userID, contactID)
}
