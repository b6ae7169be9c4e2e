package postgres

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/bookcatalog-api/internal/domain/entity"
	apperrors "github.com/yourusername/bookcatalog-api/internal/pkg/errors"
)

// RefreshTokenRepo реализует интерфейс RefreshTokenRepository с использованием PostgreSQL и GORM
type RefreshTokenRepo struct {
	db *gorm.DB
}

// NewRefreshTokenRepo создает новый экземпляр RefreshTokenRepo и возвращает ошибку при проблемах
func NewRefreshTokenRepo(gormDB *gorm.DB) (*RefreshTokenRepo, error) {
	if gormDB == nil {
		return nil, fmt.Errorf("GORM DB instance is required for RefreshTokenRepo")
	}
	return &RefreshTokenRepo{db: gormDB}, nil
}

// CreateToken сохраняет новый refresh токен в базе данных и возвращает его ID
func (r *RefreshTokenRepo) CreateToken(token *entity.RefreshToken) (uint, error) {
	result := r.db.Create(token)
	if result.Error != nil {
		return 0, fmt.Errorf("ошибка создания refresh токена: %w", result.Error)
	}
	if token.ID == 0 {
		return 0, fmt.Errorf("не удалось получить ID после создания refresh токена")
	}
	return token.ID, nil
}

// GetTokenByHash находит refresh токен по его SHA-256 хешу
func (r *RefreshTokenRepo) GetTokenByHash(tokenHash string) (*entity.RefreshToken, error) {
	var token entity.RefreshToken
	result := r.db.Where("token_hash = ?", tokenHash).First(&token)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения refresh токена: %w", result.Error)
	}

	if token.ExpiresAt.Before(time.Now()) {
		return nil, apperrors.ErrExpiredToken
	}

	return &token, nil
}

// RevokeToken помечает токен отозванным по его хешу
func (r *RefreshTokenRepo) RevokeToken(tokenHash, reason string) error {
	now := time.Now()
	result := r.db.Model(&entity.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", tokenHash).
		Updates(map[string]interface{}{
			"revoked_at": &now,
			"reason":     reason,
		})
	if result.Error != nil {
		return fmt.Errorf("ошибка отзыва refresh токена: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RevokeAllForUser отзывает все активные токены пользователя
func (r *RefreshTokenRepo) RevokeAllForUser(userID uint, reason string) error {
	now := time.Now()
	result := r.db.Model(&entity.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Updates(map[string]interface{}{
			"revoked_at": &now,
			"reason":     reason,
		})
	if result.Error != nil {
		return fmt.Errorf("ошибка отзыва токенов пользователя: %w", result.Error)
	}
	log.Printf("[RefreshTokenRepo] Отозвано %d токенов для пользователя ID=%d", result.RowsAffected, userID)
	return nil
}

// CleanupExpired удаляет истекшие и отозванные токены старше cutoff
func (r *RefreshTokenRepo) CleanupExpired(cutoff time.Time) (int64, error) {
	result := r.db.Where("expires_at < ? OR (revoked_at IS NOT NULL AND revoked_at < ?)", cutoff, cutoff).
		Delete(&entity.RefreshToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("ошибка очистки refresh токенов: %w", result.Error)
	}
	return result.RowsAffected, nil
}
