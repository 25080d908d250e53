package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	notifdomain "medic-backend/internal/notification/domain"
	notifdto "medic-backend/internal/notification/dto"
	"medic-backend/internal/notification/usecase"

	"cloud.google.com/go/pubsub"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// Service queues dispatch requests on a Pub/Sub topic and consumes them from
// the "<topic>-sub" subscription. It implements usecase.Notifier.
type Service struct {
	pubsubClient *pubsub.Client
	dispatch     usecase.DispatchUsecase
	topicName    string
	subName      string
	logger       zerolog.Logger
}

// TopicName reduces a full resource name ("projects/p/topics/t") to its short form.
func TopicName(raw string) string {
	if parts := strings.Split(raw, "/"); len(parts) > 1 {
		return parts[len(parts)-1]
	}
	return raw
}

func NewService(ctx context.Context, projectID, topic string, dispatch usecase.DispatchUsecase, logger zerolog.Logger, opts ...option.ClientOption) (*Service, error) {
	topicName := TopicName(topic)
	if topicName == "" {
		return nil, errors.New("pubsub topic is required")
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	return &Service{
		pubsubClient: client,
		dispatch:     dispatch,
		topicName:    topicName,
		subName:      topicName + "-sub",
		logger:       logger,
	}, nil
}

// Notify publishes the request and waits for the broker to accept it.
func (s *Service) Notify(ctx context.Context, req *notifdto.SendNotificationRequest) error {
	if !req.Valid() {
		return notifdomain.ErrInvalidRequest
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	result := s.pubsubClient.Topic(s.topicName).Publish(ctx, &pubsub.Message{
		Data:       payload,
		Attributes: map[string]string{"receiverId": req.ReceiverID},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// Start blocks consuming the subscription until ctx is cancelled. Every
// message is acked after a single dispatch attempt.
func (s *Service) Start(ctx context.Context) {
	s.logger.Info().Str("topic", s.topicName).Str("subscription", s.subName).Msg("starting notification worker")

	sub, err := s.ensureSubscription(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("notification worker not started")
		return
	}

	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if err := s.handleMessage(ctx, msg.Data); err != nil {
			s.logger.Warn().Err(err).Str("message_id", msg.ID).Msg("queued notification not delivered")
		}
		msg.Ack()
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("error receiving notifications")
	}
}

// Close releases the underlying Pub/Sub client.
func (s *Service) Close() error {
	return s.pubsubClient.Close()
}

func (s *Service) ensureSubscription(ctx context.Context) (*pubsub.Subscription, error) {
	sub := s.pubsubClient.Subscription(s.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking subscription %s: %w", s.subName, err)
	}
	if exists {
		return sub, nil
	}

	topic := s.pubsubClient.Topic(s.topicName)
	topicExists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking topic %s: %w", s.topicName, err)
	}
	if !topicExists {
		return nil, fmt.Errorf("topic %s does not exist", s.topicName)
	}

	sub, err = s.pubsubClient.CreateSubscription(ctx, s.subName, pubsub.SubscriptionConfig{
		Topic:       topic,
		AckDeadline: 10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("creating subscription %s: %w", s.subName, err)
	}
	s.logger.Info().Str("subscription", s.subName).Msg("created subscription")
	return sub, nil
}

func (s *Service) handleMessage(ctx context.Context, data []byte) error {
	return handleQueued(ctx, s.dispatch, s.logger, data)
}

func handleQueued(ctx context.Context, dispatch usecase.DispatchUsecase, logger zerolog.Logger, data []byte) error {
	var req notifdto.SendNotificationRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to decode queued notification: %w", err)
	}

	resp, err := dispatch.Dispatch(ctx, &req)
	if err != nil {
		return err
	}
	logger.Debug().
		Str("receiver", req.ReceiverID).
		Str("status", string(resp.DeliveryStatus)).
		Msg("queued notification dispatched")
	if !resp.Success {
		return fmt.Errorf("push delivery %s", resp.DeliveryStatus)
	}
	return nil
}
