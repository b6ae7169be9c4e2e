package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/bookcatalog-api/internal/domain/entity"
	apperrors "github.com/yourusername/bookcatalog-api/internal/pkg/errors"
)

// ConfirmationCodeRepo реализует repository.ConfirmationCodeRepository
type ConfirmationCodeRepo struct {
	db *gorm.DB
}

// NewConfirmationCodeRepo создает новый репозиторий кодов подтверждения
func NewConfirmationCodeRepo(db *gorm.DB) *ConfirmationCodeRepo {
	return &ConfirmationCodeRepo{db: db}
}

// Create сохраняет новый код подтверждения
func (r *ConfirmationCodeRepo) Create(code *entity.ConfirmationCode) error {
	return r.db.Create(code).Error
}

// Consume подтверждает пользователя и удаляет код одной транзакцией.
// Либо обе операции применяются, либо ни одна.
func (r *ConfirmationCodeRepo) Consume(code string) (*entity.User, error) {
	var user entity.User

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var record entity.ConfirmationCode
		if err := tx.Where("code = ?", code).Order("created_at DESC").First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		if err := tx.First(&user, record.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		if err := tx.Model(&entity.User{}).
			Where("id = ?", user.ID).
			Update("is_verified", true).Error; err != nil {
			return fmt.Errorf("не удалось пометить пользователя подтвержденным: %w", err)
		}
		user.IsVerified = true

		// Код одноразовый — удаляем его в той же транзакции
		if err := tx.Delete(&entity.ConfirmationCode{}, record.ID).Error; err != nil {
			return fmt.Errorf("не удалось удалить использованный код: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// DeleteByUserID удаляет все коды пользователя (перед выдачей нового)
func (r *ConfirmationCodeRepo) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&entity.ConfirmationCode{}).Error
}
