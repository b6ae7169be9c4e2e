package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bookcatalog-api/internal/domain/entity"
)

func TestNewJWTService_RequiresSecret(t *testing.T) {
	service, err := NewJWTService("", 1)

	assert.Error(t, err)
	assert.Nil(t, service)
}

func TestJWTService_GenerateAndParseToken(t *testing.T) {
	// Arrange
	service, err := NewJWTService("test-secret", 1)
	require.NoError(t, err)

	user := &entity.User{ID: 7, Email: "user@example.com", Role: entity.RoleAdmin}

	// Act
	tokenString, err := service.GenerateToken(user)
	require.NoError(t, err)

	claims, err := service.ParseToken(tokenString)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
	assert.Equal(t, "bookcatalog-api", claims.Issuer)
}

func TestJWTService_ParseToken_WrongSecret(t *testing.T) {
	// Arrange: токен подписан другим секретом
	issuer, err := NewJWTService("secret-one", 1)
	require.NoError(t, err)
	verifier, err := NewJWTService("secret-two", 1)
	require.NoError(t, err)

	tokenString, err := issuer.GenerateToken(&entity.User{ID: 1, Email: "user@example.com"})
	require.NoError(t, err)

	// Act
	claims, err := verifier.ParseToken(tokenString)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_ParseToken_Expired(t *testing.T) {
	// Arrange: токен с истекшим сроком формируем вручную тем же секретом
	secret := "test-secret"
	service, err := NewJWTService(secret, 1)
	require.NoError(t, err)

	expired := &JWTCustomClaims{
		UserID: 1,
		Email:  "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).SignedString([]byte(secret))
	require.NoError(t, err)

	// Act
	claims, err := service.ParseToken(tokenString)

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
	assert.Nil(t, claims)
}

func TestJWTService_ParseToken_RejectsUnsignedToken(t *testing.T) {
	// Arrange: alg=none не должен приниматься
	service, err := NewJWTService("test-secret", 1)
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &JWTCustomClaims{UserID: 1})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	// Act
	claims, err := service.ParseToken(tokenString)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, claims)
}
