package cache

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// MemoryCache реализует Cache в памяти процесса. Время берется из
// внедренных часов, чтобы тесты управляли истечением, а объем ограничен
// capacity: при переполнении вытесняется запись с ближайшим истечением.
// Просроченные записи удаляются при чтении.
type MemoryCache struct {
	mu       sync.Mutex // Get тоже пишет: удаляет просроченные записи
	data     map[string]memoryEntry
	capacity int
	now      func() time.Time
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// NewMemoryCache создает in-memory кеш с ограничением по числу записей.
// Значение capacity меньше единицы приводится к единице.
// now может быть nil, тогда используется time.Now.
func NewMemoryCache(capacity int, now func() time.Time) *MemoryCache {
	if capacity < 1 {
		capacity = 1
	}
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{
		data:     make(map[string]memoryEntry),
		capacity: capacity,
		now:      now,
	}
}

// Get пытается получить значение из кеша по ключу.
func (c *MemoryCache) Get(key string, result any) (bool, error) {
	const op = "cache.memory.Get"
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[key]
	if !ok {
		return false, nil
	}
	if c.now().After(e.expiresAt) {
		delete(c.data, key)
		return false, nil
	}
	if err := json.Unmarshal(e.payload, result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set сохраняет значение в кеш с временем жизни.
func (c *MemoryCache) Set(key string, value any, expiration time.Duration) error {
	const op = "cache.memory.Set"
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.data[key]; !exists && len(c.data) >= c.capacity {
		c.evictSoonest()
	}
	c.data[key] = memoryEntry{
		payload:   payload,
		expiresAt: c.now().Add(expiration),
	}
	return nil
}

// Invalidate удаляет значение из кеша по ключу.
func (c *MemoryCache) Invalidate(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// evictSoonest удаляет запись с ближайшим истечением. Вызывается под мьютексом.
func (c *MemoryCache) evictSoonest() {
	var victim string
	var victimExpiry time.Time
	first := true
	for key, e := range c.data {
		if first || e.expiresAt.Before(victimExpiry) {
			victim = key
			victimExpiry = e.expiresAt
			first = false
		}
	}
	if !first {
		delete(c.data, victim)
	}
}
