package entity

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// ConfirmationCode хранит одноразовый код подтверждения email.
// Код удаляется после успешного подтверждения; выдача нового кода
// удаляет предыдущие коды пользователя.
type ConfirmationCode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Code      string    `gorm:"size:6;not null;index" json:"-"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (ConfirmationCode) TableName() string {
	return "confirmation_codes"
}

// GenerateConfirmationCode генерирует 4-значный числовой код
func GenerateConfirmationCode() (string, error) {
	max := big.NewInt(10000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
