// Package cache предоставляет кеш значений с временем жизни.
// Доступен backend на Redis и ограниченный по объему in-memory backend.
// Кеш передается зависимостью через узкий интерфейс, глобального
// состояния пакет не держит.
package cache

import "time"

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}
