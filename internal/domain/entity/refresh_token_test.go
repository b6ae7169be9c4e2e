package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefreshToken_IsValid_ActiveToken(t *testing.T) {
	token := NewRefreshToken(1, "hash-value", time.Now().Add(time.Hour))

	assert.True(t, token.IsValid(), "Неистекший и неотозванный токен должен быть валиден")
}

func TestRefreshToken_IsValid_ExpiredToken(t *testing.T) {
	token := NewRefreshToken(1, "hash-value", time.Now().Add(-time.Minute))

	assert.False(t, token.IsValid(), "Истекший токен не должен быть валиден")
}

func TestRefreshToken_IsValid_RevokedToken(t *testing.T) {
	token := NewRefreshToken(1, "hash-value", time.Now().Add(time.Hour))

	token.Revoke("logout")

	assert.False(t, token.IsValid(), "Отозванный токен не должен быть валиден")
	assert.NotNil(t, token.RevokedAt)
	assert.Equal(t, "logout", token.Reason)
}
