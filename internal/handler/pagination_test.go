package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", query: "", wantPage: 1, wantLimit: 10, wantOffset: 0},
		{name: "second page", query: "page=2&limit=20", wantPage: 2, wantLimit: 20, wantOffset: 20},
		{name: "limit capped", query: "limit=1000", wantPage: 1, wantLimit: 100, wantOffset: 0},
		{name: "garbage values fall back", query: "page=abc&limit=-5", wantPage: 1, wantLimit: 10, wantOffset: 0},
		{name: "zero page falls back", query: "page=0", wantPage: 1, wantLimit: 10, wantOffset: 0},
		{name: "huge page clamped, offset stays non-negative", query: "page=4611686018427387904&limit=100", wantPage: maxPage, wantLimit: 100, wantOffset: (maxPage - 1) * 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestGinContext(http.MethodGet, "/book/list/?"+tt.query, nil)

			page, limit, offset := parsePagination(c)

			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}
