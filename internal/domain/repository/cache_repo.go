package repository

import (
	"time"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string) (string, error)
	Delete(key string) error
}
