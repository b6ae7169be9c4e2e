package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ExtractUintParam создает middleware для извлечения и валидации числового параметра URL.
// Извлеченное значение uint сохраняется в контексте Gin под ключом contextKey.
// В случае ошибки парсинга возвращает 400 Bad Request и прерывает цепочку.
func ExtractUintParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		paramValue := c.Param(paramName)
		id, err := strconv.ParseUint(paramValue, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + paramName + " format: must be a positive integer"})
			c.Abort()
			return
		}
		c.Set(contextKey, uint(id))
		c.Next()
	}
}
