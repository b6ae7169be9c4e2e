package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
	// maxPage ограничивает номер страницы, чтобы (page-1)*limit
	// не переполнял int и не давал отрицательный offset
	maxPage = 1_000_000
)

// parsePagination извлекает параметры page/limit из query string.
// Некорректные значения заменяются умолчаниями.
func parsePagination(c *gin.Context) (page, limit, offset int) {
	page = defaultPage
	if value, err := strconv.Atoi(c.Query("page")); err == nil && value > 0 {
		page = value
	}
	if page > maxPage {
		page = maxPage
	}

	limit = defaultLimit
	if value, err := strconv.Atoi(c.Query("limit")); err == nil && value > 0 {
		limit = value
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset = (page - 1) * limit
	return page, limit, offset
}
