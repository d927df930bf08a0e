package domain

import (
	"context"
	"time"
)

// Контракт внешнего k/v хранилища (Redis или in-memory).
// Ошибки наружу не глушим — это делает cache.Service (fail-open).
type CacheStore interface {
	// Get возвращает значение и признак наличия ключа.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set перезаписывает значение; ttl <= 0 — без авто-истечения.
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// Clear очищает всё хранилище (только обслуживание/тесты).
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
	Close()
}

// Опциональная способность: атомарный get-or-set.
// Проверяется type assertion'ом; Redis-реализация её не даёт.
type AtomicStore interface {
	ComputeIfAbsent(ctx context.Context, key string, factory func(context.Context) ([]byte, error), ttl time.Duration) ([]byte, error)
}

// Опциональная способность: выборка ключей по префиксу (для wildcard-инвалидации).
// У Redis-реализации отсутствует сознательно — см. cache.Invalidator.
type PrefixScanner interface {
	ScanByPrefix(ctx context.Context, prefix string) ([]string, error)
}

// Ключи кеша — единое место, чтобы не расползались по коду.
func CacheKeyFood(id FoodID) string                { return "food:" + id.String() }
func CacheKeyUserProfile(keycloakID string) string { return "user_profile:" + keycloakID }
func CacheKeyTokenJTI(jti string) string           { return "jti:" + jti }
