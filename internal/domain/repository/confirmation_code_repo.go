package repository

import (
	"github.com/yourusername/bookcatalog-api/internal/domain/entity"
)

// ConfirmationCodeRepository определяет методы для работы с кодами подтверждения email
type ConfirmationCodeRepository interface {
	Create(code *entity.ConfirmationCode) error
	// Consume подтверждает пользователя и удаляет код одной транзакцией.
	// Возвращает подтвержденного пользователя.
	Consume(code string) (*entity.User, error)
	DeleteByUserID(userID uint) error
}
