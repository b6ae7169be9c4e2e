package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/bookcatalog-api/internal/pkg/errors"
	"github.com/yourusername/bookcatalog-api/internal/service"
)

// AuthHandler обрабатывает запросы, связанные с аутентификацией
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Структуры запросов и ответов

// RegisterRequest представляет запрос на регистрацию
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// ConfirmCodeRequest представляет запрос на подтверждение кода
type ConfirmCodeRequest struct {
	Code string `json:"code" binding:"required,max=6"`
}

// LoginRequest представляет запрос на вход
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest представляет запрос на обновление токенов
type RefreshTokenRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// LogoutRequest представляет запрос на выход
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Register обрабатывает запрос на регистрацию.
// Ошибки валидации возвращаются со статусом 406, как и дубликат email.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusNotAcceptable, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.ConfirmPassword); err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusNotAcceptable, gin.H{"error": err.Error()})
			return
		}
		h.handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User successfully registered. Confirmation code sent to your email.",
	})
}

// ConfirmCode обрабатывает запрос на подтверждение email по коду
func (h *AuthHandler) ConfirmCode(c *gin.Context) {
	var req ConfirmCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.authService.Confirm(req.Code); err != nil {
		// Неизвестный код — 400, как и любая ошибка подтверждения
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or already confirmed code."})
			return
		}
		h.handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "You successfully verified your account!",
	})
}

// Login обрабатывает запрос на вход
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokenPair, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found!"})
			return
		}
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect password!"})
			return
		}
		h.handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"refresh": tokenPair.RefreshToken,
		"access":  tokenPair.AccessToken,
	})
}

// RefreshToken обновляет пару токенов по refresh токену (с ротацией)
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokenPair, err := h.authService.Refresh(req.Refresh)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
			return
		}
		h.handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"refresh": tokenPair.RefreshToken,
		"access":  tokenPair.AccessToken,
	})
}

// Logout отзывает refresh токен. Любая ошибка инвалидации — 400.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.Logout(req.RefreshToken); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to log out."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "You have successfully logged out.",
	})
}

// LogoutAll отзывает все refresh токены текущего пользователя
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	if err := h.authService.LogoutAll(userID); err != nil {
		log.Printf("[AuthHandler] Ошибка отзыва всех токенов пользователя ID=%d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to log out."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "You have been logged out on all devices.",
	})
}

// handleAuthError преобразует ошибки сервиса в HTTP-статусы
func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in AuthHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
