package entity

import "time"

// Минимальный и максимальный допустимый рейтинг отзыва
const (
	MinRating = 1
	MaxRating = 5
)

// Review представляет отзыв пользователя на книгу
type Review struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	BookID  uint   `gorm:"not null;index" json:"book_id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Rating  int    `gorm:"not null" json:"rating"`
	Comment string `gorm:"type:text;not null" json:"comment"`

	User User `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Review) TableName() string {
	return "reviews"
}

// IsValidRating проверяет, что рейтинг находится в допустимом диапазоне [1,5]
func IsValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}
