package auth

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/yourusername/bookcatalog-api/internal/domain/entity"
)

// JWTCustomClaims содержит пользовательские поля для токена
type JWTCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService предоставляет методы для работы с JWT access токенами
type JWTService struct {
	secretKey     string
	expirationHrs int
}

// NewJWTService создает новый сервис JWT и возвращает ошибку при проблемах
func NewJWTService(secretKey string, expirationHrs int) (*JWTService, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("JWT secret key is required for JWTService")
	}
	if expirationHrs <= 0 {
		expirationHrs = 24
	}
	return &JWTService{
		secretKey:     secretKey,
		expirationHrs: expirationHrs,
	}, nil
}

// AccessTokenTTL возвращает время жизни access токена
func (s *JWTService) AccessTokenTTL() time.Duration {
	return time.Duration(s.expirationHrs) * time.Hour
}

// GenerateToken создает новый access токен для пользователя
func (s *JWTService) GenerateToken(user *entity.User) (string, error) {
	now := time.Now()
	claims := &JWTCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.AccessTokenTTL())),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "bookcatalog-api",
			Subject:   fmt.Sprintf("%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		log.Printf("[JWT] Ошибка генерации токена для пользователя ID=%d: %v", user.ID, err)
		return "", err
	}

	return tokenString, nil
}

// ParseToken проверяет и расшифровывает access токен
func (s *JWTService) ParseToken(tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("token expired: %w", err)
		}
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
