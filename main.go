package main

import (
	"context"

	api "medic-backend/cmd/api"
	authdomain "medic-backend/internal/auth/domain"
	authRepo "medic-backend/internal/auth/repository"
	authUsecase "medic-backend/internal/auth/usecase"
	chatdomain "medic-backend/internal/chat/domain"
	chatRepo "medic-backend/internal/chat/repository"
	chatUsecase "medic-backend/internal/chat/usecase"
	"medic-backend/internal/notification"
	notifdomain "medic-backend/internal/notification/domain"
	notifRepo "medic-backend/internal/notification/repository"
	notifUsecase "medic-backend/internal/notification/usecase"
	"medic-backend/pkg/config"
	"medic-backend/pkg/database"
	"medic-backend/pkg/fcm"
	"medic-backend/pkg/logger"
	"medic-backend/pkg/serviceaccount"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(logger.Config{Env: cfg.Env, Level: cfg.LogLevel})
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := db.AutoMigrate(&authdomain.User{}, &notifdomain.NotificationHistory{}, &chatdomain.ChatMessage{}); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Initialize repositories
	userRepo := authRepo.NewUserRepository(db)
	pushTokenRepo := authRepo.NewPushTokenRepository(db)
	historyRepo := notifRepo.NewHistoryRepository(db)
	chatRepository := chatRepo.NewGormChatRepository(db)

	ctx := context.Background()

	// Push sender is optional; without it dispatch answers "Firebase configuration not found"
	sender, projectID := newSender(ctx, cfg, log)

	dispatchUc := notifUsecase.NewDispatchUsecase(
		userRepo,
		historyRepo,
		sender,
		fcm.ParseKind(cfg.Push.Kind),
		fcm.Presentation{
			Icon:               cfg.Push.Icon,
			Badge:              cfg.Push.Badge,
			RequireInteraction: cfg.Push.RequireInteraction,
			TTL:                cfg.Push.TTL,
		},
		logger.Component(log, "dispatch"),
	)

	// Chat notifications go through Pub/Sub when a topic is configured
	var notifier notifUsecase.Notifier = notifUsecase.NewDirectNotifier(dispatchUc)
	if cfg.PubSubTopic != "" && projectID != "" && sender != nil {
		notifService, err := notification.NewService(ctx, projectID, cfg.PubSubTopic, dispatchUc, logger.Component(log, "pubsub"), pubsubOptions(cfg)...)
		if err != nil {
			log.Error().Err(err).Msg("failed to initialize notification worker, dispatching inline")
		} else {
			notifier = notifService
			go notifService.Start(ctx)
		}
	}

	// Initialize use cases
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, pushTokenRepo, cfg, logger.Component(log, "auth"))
	chatUsecaseInstance := chatUsecase.NewChatUsecase(chatRepository, userRepo, notifier, logger.Component(log, "chat"))

	handler := api.NewHandler(authUsecaseInstance, dispatchUc, chatUsecaseInstance, cfg, log)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

// newSender builds the FCM sender from the service account. It returns nil
// when Firebase is not configured or the credential is unusable.
func newSender(ctx context.Context, cfg *config.Config, log zerolog.Logger) (fcm.Sender, string) {
	projectID := cfg.FirebaseProjectID

	raw, err := cfg.ServiceAccountJSON()
	if err != nil {
		log.Warn().Err(err).Msg("failed to read service account, push disabled")
		return nil, projectID
	}
	if len(raw) == 0 {
		log.Warn().Msg("no service account configured, push disabled")
		return nil, projectID
	}

	cred, err := serviceaccount.ParseCredential(raw)
	if err != nil {
		log.Warn().Err(err).Msg("invalid service account, push disabled")
		return nil, projectID
	}
	if projectID == "" {
		projectID = cred.ProjectID
	}
	if projectID == "" {
		log.Warn().Msg("FIREBASE_PROJECT_ID not set, push disabled")
		return nil, projectID
	}

	var opts []serviceaccount.Option
	if cfg.OAuthTokenURL != "" {
		opts = append(opts, serviceaccount.WithTokenURL(cfg.OAuthTokenURL))
	}
	ts, err := serviceaccount.NewTokenSource(cred, opts...)
	if err != nil {
		log.Warn().Err(err).Msg("invalid service account key, push disabled")
		return nil, projectID
	}

	var src oauth2.TokenSource = ts
	if cfg.FCMTokenCache {
		src = serviceaccount.Cached(ts)
	}

	fcmLog := logger.Component(log, "fcm")
	switch cfg.FCMSender {
	case "admin":
		s, err := fcm.NewAdminSender(ctx, projectID, fcmLog, option.WithTokenSource(src))
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize Firebase Admin SDK, push disabled")
			return nil, projectID
		}
		log.Info().Str("project", projectID).Msg("push sender: admin sdk")
		return s, projectID
	default:
		log.Info().Str("project", projectID).Msg("push sender: http v1")
		return fcm.NewHTTPSender(ctx, projectID, cfg.FCMEndpoint, src, fcmLog), projectID
	}
}

func pubsubOptions(cfg *config.Config) []option.ClientOption {
	if cfg.FirebaseCredentialsFile != "" {
		return []option.ClientOption{option.WithCredentialsFile(cfg.FirebaseCredentialsFile)}
	}
	if cfg.FirebaseServiceAccountKey != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountKey))}
	}
	return nil
}
