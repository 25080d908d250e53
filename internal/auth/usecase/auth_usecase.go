package usecase

import (
	"errors"
	"time"

	authdomain "medic-backend/internal/auth/domain"
	authdto "medic-backend/internal/auth/dto"
	"medic-backend/internal/auth/repository"
	"medic-backend/pkg/config"
	"medic-backend/pkg/fcm"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo  repository.UserRepository
	tokenRepo repository.PushTokenRepository
	config    *config.Config
	logger    zerolog.Logger
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, tokenRepo repository.PushTokenRepository, cfg *config.Config, logger zerolog.Logger) AuthUsecase {
	return &authUsecase{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		config:    cfg,
		logger:    logger,
	}
}

func (u *authUsecase) Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByID(req.ID)
	if err != nil {
		return nil, err
	}
	if user == nil || !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, authdomain.ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(u.config.JWTAccessExpiry)
	accessToken, err := u.generateAccessToken(user, expiresAt)
	if err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt.Unix(),
		User:        user,
	}, nil
}

func (u *authUsecase) generateAccessToken(user *authdomain.User, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   user.ID,
		"user_type": user.UserType,
		"is_admin":  user.IsAdmin,
		"exp":       expiresAt.Unix(),
		"iat":       time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, authdomain.ErrUserNotFound
	}

	return user, nil
}

func (u *authUsecase) RegisterPushToken(userID, token, deviceInfo string) error {
	if token == "" {
		return errors.New("token is required")
	}
	if err := u.tokenRepo.SaveToken(userID, token); err != nil {
		return err
	}
	u.logger.Info().
		Str("user_id", userID).
		Str("token", fcm.MaskToken(token)).
		Str("device", deviceInfo).
		Msg("push token registered")
	return nil
}

func (u *authUsecase) UnregisterPushToken(userID string) error {
	if err := u.tokenRepo.ClearToken(userID); err != nil {
		return err
	}
	u.logger.Info().Str("user_id", userID).Msg("push token cleared")
	return nil
}

func (u *authUsecase) PushStatus(userID string) (bool, error) {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, authdomain.ErrUserNotFound
	}
	return user.HasPushToken(), nil
}
