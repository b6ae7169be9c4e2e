package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestGinContext создает *gin.Context для тестов с JSON body
func newTestGinContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, path, bytes.NewReader(bodyBytes))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

// parseJSONResponse парсит JSON ответ из *httptest.ResponseRecorder
func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}

// ============================================================================
// Request validation tests — не требуют реального AuthService.
// Handler возвращает ошибку привязки до вызова сервиса.
// ============================================================================

func TestRegister_ValidationErrors(t *testing.T) {
	handler := &AuthHandler{} // nil service — OK для validation tests

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{
			name:       "empty body",
			body:       nil,
			wantStatus: http.StatusNotAcceptable,
		},
		{
			name:       "missing email",
			body:       map[string]string{"password": "123456", "confirm_password": "123456"},
			wantStatus: http.StatusNotAcceptable,
		},
		{
			name:       "invalid email format",
			body:       map[string]string{"email": "not-an-email", "password": "123456", "confirm_password": "123456"},
			wantStatus: http.StatusNotAcceptable,
		},
		{
			name:       "missing confirm_password",
			body:       map[string]string{"email": "user@test.com", "password": "123456"},
			wantStatus: http.StatusNotAcceptable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodPost, "/register/", tt.body)

			handler.Register(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Contains(t, resp, "error")
		})
	}
}

// Пароль любой длины проходит привязку: ограничений длины нет,
// как и у оригинального API.
func TestRegisterRequest_ShortPasswordPassesBinding(t *testing.T) {
	c, _ := newTestGinContext(http.MethodPost, "/register/", map[string]string{
		"email":            "user@test.com",
		"password":         "x",
		"confirm_password": "x",
	})

	var req RegisterRequest
	err := c.ShouldBindJSON(&req)

	require.NoError(t, err)
	assert.Equal(t, "x", req.Password)
}

func TestConfirmCode_ValidationErrors(t *testing.T) {
	handler := &AuthHandler{}

	tests := []struct {
		name string
		body interface{}
	}{
		{name: "empty body", body: nil},
		{name: "missing code", body: map[string]string{}},
		{name: "code too long", body: map[string]string{"code": "1234567"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodPost, "/email-confirm/", tt.body)

			handler.ConfirmCode(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestLogin_ValidationErrors(t *testing.T) {
	handler := &AuthHandler{}

	tests := []struct {
		name string
		body interface{}
	}{
		{name: "empty body", body: nil},
		{name: "missing password", body: map[string]string{"email": "user@test.com"}},
		{name: "invalid email", body: map[string]string{"email": "nope", "password": "123456"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext(http.MethodPost, "/login/", tt.body)

			handler.Login(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestLogout_MissingRefreshToken(t *testing.T) {
	handler := &AuthHandler{}

	c, w := newTestGinContext(http.MethodPost, "/logout/", map[string]string{})

	handler.Logout(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
