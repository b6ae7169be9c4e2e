package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/bookcatalog-api/internal/domain/entity"
	"github.com/yourusername/bookcatalog-api/internal/domain/repository"
	apperrors "github.com/yourusername/bookcatalog-api/internal/pkg/errors"
	"github.com/yourusername/bookcatalog-api/pkg/auth"
)

// TokenPair содержит пару access/refresh токенов
type TokenPair struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
	ExpiresIn    int    `json:"expires_in"`
}

// AuthService предоставляет методы регистрации, подтверждения email и выдачи токенов
type AuthService struct {
	userRepo         repository.UserRepository
	codeRepo         repository.ConfirmationCodeRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtService       *auth.JWTService
	emailService     EmailService
	refreshTokenTTL  time.Duration
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(
	userRepo repository.UserRepository,
	codeRepo repository.ConfirmationCodeRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	jwtService *auth.JWTService,
	emailService EmailService,
	refreshTokenTTL time.Duration,
) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if codeRepo == nil {
		return nil, fmt.Errorf("ConfirmationCodeRepository is required for AuthService")
	}
	if refreshTokenRepo == nil {
		return nil, fmt.Errorf("RefreshTokenRepository is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	if emailService == nil {
		return nil, fmt.Errorf("EmailService is required for AuthService")
	}
	if refreshTokenTTL <= 0 {
		refreshTokenTTL = 30 * 24 * time.Hour
	}

	return &AuthService{
		userRepo:         userRepo,
		codeRepo:         codeRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtService:       jwtService,
		emailService:     emailService,
		refreshTokenTTL:  refreshTokenTTL,
	}, nil
}

// Register регистрирует нового неподтвержденного пользователя и отправляет
// код подтверждения на email. Никаких чувствительных данных не возвращает.
func (s *AuthService) Register(ctx context.Context, email, password, confirmPassword string) error {
	email = normalizeEmail(email)

	if password != confirmPassword {
		return fmt.Errorf("%w: password fields didn't match", apperrors.ErrValidation)
	}

	// Проверяем, существует ли пользователь с таким email
	_, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return fmt.Errorf("%w: user with this email already exists", apperrors.ErrValidation)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check email existence: %w", err)
	}

	user := &entity.User{
		Email:    email,
		Password: password, // Хешируется в BeforeSave
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("%w: user with this email already exists", apperrors.ErrValidation)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	code, err := entity.GenerateConfirmationCode()
	if err != nil {
		return fmt.Errorf("failed to generate confirmation code: %w", err)
	}

	// Новый код заменяет предыдущие коды пользователя
	if err := s.codeRepo.DeleteByUserID(user.ID); err != nil {
		log.Printf("[AuthService] Ошибка удаления старых кодов пользователя ID=%d: %v", user.ID, err)
	}
	record := &entity.ConfirmationCode{
		UserID: user.ID,
		Code:   code,
	}
	if err := s.codeRepo.Create(record); err != nil {
		return fmt.Errorf("failed to create confirmation code: %w", err)
	}

	idempotencyKey := fmt.Sprintf("email-confirm:%d:%s", user.ID, uuid.NewString())
	if err := s.emailService.SendConfirmationCode(ctx, user.Email, code, idempotencyKey); err != nil {
		// Пользователь уже создан; письмо можно запросить повторно
		log.Printf("[AuthService] Ошибка отправки кода подтверждения для пользователя ID=%d: %v", user.ID, err)
	}

	return nil
}

// Confirm подтверждает пользователя по коду. Подтверждение и удаление кода
// выполняются одной транзакцией на уровне репозитория.
func (s *AuthService) Confirm(code string) (*entity.User, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: empty confirmation code", apperrors.ErrValidation)
	}

	user, err := s.codeRepo.Consume(code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid or already confirmed code", apperrors.ErrNotFound)
		}
		return nil, err
	}

	log.Printf("[AuthService] Пользователь ID=%d (%s) подтвердил email", user.ID, user.Email)
	return user, nil
}

// Login аутентифицирует пользователя и возвращает пару токенов
func (s *AuthService) Login(email, password string) (*TokenPair, error) {
	email = normalizeEmail(email)

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperrors.ErrNotFound)
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, fmt.Errorf("%w: incorrect password", apperrors.ErrUnauthorized)
	}

	return s.issueTokenPair(user)
}

// Refresh проверяет refresh токен, отзывает его и выдает новую пару (ротация)
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	record, err := s.refreshTokenRepo.GetTokenByHash(HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrExpiredToken) {
			return nil, fmt.Errorf("%w: invalid refresh token", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	if !record.IsValid() {
		return nil, fmt.Errorf("%w: refresh token revoked", apperrors.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByID(record.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.refreshTokenRepo.RevokeToken(record.TokenHash, "rotated"); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.issueTokenPair(user)
}

// Logout отзывает (блеклистит) refresh токен
func (s *AuthService) Logout(refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return fmt.Errorf("%w: refresh_token is required", apperrors.ErrValidation)
	}

	err := s.refreshTokenRepo.RevokeToken(HashRefreshToken(refreshToken), "logout")
	if err != nil {
		// Любая ошибка инвалидации (в т.ч. неизвестный токен) — ошибка выхода
		return fmt.Errorf("%w: unable to log out", apperrors.ErrValidation)
	}
	return nil
}

// LogoutAll отзывает все активные refresh токены пользователя,
// завершая его сессии на всех устройствах
func (s *AuthService) LogoutAll(userID uint) error {
	if err := s.refreshTokenRepo.RevokeAllForUser(userID, "logout_all"); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

// GetUserByID возвращает пользователя по ID
func (s *AuthService) GetUserByID(id uint) (*entity.User, error) {
	return s.userRepo.GetByID(id)
}

// issueTokenPair генерирует access JWT и opaque refresh токен (хеш в БД)
func (s *AuthService) issueTokenPair(user *entity.User) (*TokenPair, error) {
	accessToken, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshValue := uuid.NewString()
	record := entity.NewRefreshToken(user.ID, HashRefreshToken(refreshValue), time.Now().Add(s.refreshTokenTTL))
	if _, err := s.refreshTokenRepo.CreateToken(record); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshValue,
		ExpiresIn:    int(s.jwtService.AccessTokenTTL().Seconds()),
	}, nil
}

// HashRefreshToken возвращает SHA-256 хеш значения refresh токена
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// normalizeEmail приводит email к нижнему регистру и убирает пробелы
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
