package entity

import "time"

// RefreshToken stores a refresh token session record (hash-only model).
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	TokenHash string     `gorm:"column:token_hash;type:text;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time  `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at,omitempty"`
	Reason    string     `gorm:"size:255" json:"reason,omitempty"`
}

// NewRefreshToken creates a refresh token entity using precomputed SHA-256 token hash.
func NewRefreshToken(userID uint, tokenHash string, expiresAt time.Time) *RefreshToken {
	return &RefreshToken{
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
}

// IsValid checks token validity.
func (rt *RefreshToken) IsValid() bool {
	return rt.RevokedAt == nil && rt.ExpiresAt.After(time.Now())
}

// Revoke marks token as revoked with reason.
func (rt *RefreshToken) Revoke(reason string) {
	now := time.Now()
	rt.RevokedAt = &now
	rt.Reason = reason
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
