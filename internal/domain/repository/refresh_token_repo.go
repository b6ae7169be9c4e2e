package repository

import (
	"time"

	"github.com/yourusername/bookcatalog-api/internal/domain/entity"
)

// RefreshTokenRepository определяет методы для работы с refresh-токенами
type RefreshTokenRepository interface {
	CreateToken(token *entity.RefreshToken) (uint, error)
	GetTokenByHash(tokenHash string) (*entity.RefreshToken, error)
	RevokeToken(tokenHash, reason string) error
	RevokeAllForUser(userID uint, reason string) error
	CleanupExpired(cutoff time.Time) (int64, error)
}
