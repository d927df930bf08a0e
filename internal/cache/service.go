// Package cache — кеш-слой поверх domain.CacheStore: fail-open сервис,
// генерация ключей и декларативная инвалидация.
//
// Главный принцип: кеш никогда не становится причиной падения запроса.
// Все ошибки хранилища гасятся на границе Service (логируются и
// превращаются в "промах"/"no-op"); вызывающий код видит отсутствие
// значения, а не ошибку.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
)

// Стандартный срок жизни записи, если TTL не задан явно (секунды).
const DefaultTTLSeconds = 300

// служебный ключ для проверки доступности хранилища
const probeKey = "cache:probe"

// Stats — результат лёгкой проверки доступности хранилища.
type Stats struct {
	Connected bool   `json:"connected"`
	KeyCount  *int64 `json:"key_count,omitempty"`
}

// keyCounter — опциональная способность бэкенда отдавать число ключей
// (Redis DBSIZE, memory Len).
type keyCounter interface {
	DBSize(ctx context.Context) (int64, error)
}

type lenCounter interface {
	Len(ctx context.Context) (int64, error)
}

// Service — тонкая fail-open обёртка над хранилищем.
type Service struct {
	store      domain.CacheStore
	logger     *log.Logger
	defaultTTL int // секунды
}

func NewService(store domain.CacheStore, logger *log.Logger, defaultTTLSeconds int) *Service {
	if defaultTTLSeconds <= 0 {
		defaultTTLSeconds = DefaultTTLSeconds
	}
	return &Service{store: store, logger: logger, defaultTTL: defaultTTLSeconds}
}

// DefaultTTL — сконфигурированный TTL по умолчанию (секунды).
func (s *Service) DefaultTTL() int { return s.defaultTTL }

// Get возвращает значение и признак попадания.
// Ошибка хранилища = промах; наружу не пробрасывается.
func (s *Service) Get(ctx context.Context, key string) ([]byte, bool) {
	b, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Printf("get %q failed (treated as miss): %v", key, err)
		return nil, false
	}
	return b, ok
}

// Set пишет значение с TTL в секундах (<=0 — TTL по умолчанию).
// Ошибка записи глушится: вызывающий код не может отличить успешную
// запись от неуспешной — осознанное fail-open поведение, не дефект.
func (s *Service) Set(ctx context.Context, key string, val []byte, ttlSeconds int) {
	if ttlSeconds <= 0 {
		ttlSeconds = s.defaultTTL
	}
	// хранилище оперирует миллисекундами
	ttl := time.Duration(int64(ttlSeconds)*1000) * time.Millisecond
	if err := s.store.Set(ctx, key, val, ttl); err != nil {
		s.logger.Printf("set %q failed (ignored): %v", key, err)
	}
}

// Del удаляет ключ best-effort.
func (s *Service) Del(ctx context.Context, key string) {
	if err := s.store.Del(ctx, key); err != nil {
		s.logger.Printf("del %q failed (ignored): %v", key, err)
	}
}

// DelMany удаляет набор ключей: по одному, сбой на одном ключе
// не мешает остальным.
func (s *Service) DelMany(ctx context.Context, keys []string) {
	for _, k := range keys {
		if err := s.store.Del(ctx, k); err != nil {
			s.logger.Printf("del %q failed (ignored): %v", k, err)
		}
	}
}

// Reset очищает всё хранилище (обслуживание/тесты).
func (s *Service) Reset(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Printf("reset failed (ignored): %v", err)
	}
}

// GenerateKey собирает ключ вида prefix:part1:part2. Чистая функция.
func (s *Service) GenerateKey(prefix string, parts ...any) string {
	sb := strings.Builder{}
	sb.WriteString(prefix)
	for _, p := range parts {
		sb.WriteString(":")
		sb.WriteString(fmt.Sprint(p))
	}
	return sb.String()
}

// GenerateInvalidationKeys — канонический набор производных ключей
// для шаблона: pattern:list, pattern:count (+ pattern:id, если id задан).
func (s *Service) GenerateInvalidationKeys(pattern string, id ...string) []string {
	keys := []string{pattern + ":list", pattern + ":count"}
	if len(id) > 0 && id[0] != "" {
		keys = append(keys, pattern+":"+id[0])
	}
	return keys
}

// KeysByPattern раскрывает wildcard-шаблон в конкретные ключи через
// опциональную способность хранилища. Второй результат — поддерживает ли
// бэкенд выборку по префиксу вообще.
func (s *Service) KeysByPattern(ctx context.Context, pattern string) ([]string, bool) {
	scanner, ok := s.store.(domain.PrefixScanner)
	if !ok {
		return nil, false
	}
	prefix := strings.TrimSuffix(pattern, "*")
	keys, err := scanner.ScanByPrefix(ctx, prefix)
	if err != nil {
		s.logger.Printf("scan %q failed (treated as empty): %v", pattern, err)
		return nil, true
	}
	return keys, true
}

// GetStats — лёгкая проверка: пишем, читаем и удаляем сторожевой ключ.
// Любая ошибка — {connected:false}.
func (s *Service) GetStats(ctx context.Context) Stats {
	if err := s.store.Set(ctx, probeKey, []byte("1"), 5*time.Second); err != nil {
		return Stats{Connected: false}
	}
	if _, ok, err := s.store.Get(ctx, probeKey); err != nil || !ok {
		return Stats{Connected: false}
	}
	if err := s.store.Del(ctx, probeKey); err != nil {
		return Stats{Connected: false}
	}

	st := Stats{Connected: true}
	switch c := s.store.(type) {
	case keyCounter:
		if n, err := c.DBSize(ctx); err == nil {
			st.KeyCount = &n
		}
	case lenCounter:
		if n, err := c.Len(ctx); err == nil {
			st.KeyCount = &n
		}
	}
	return st
}

func (s *Service) IsAvailable(ctx context.Context) bool {
	return s.GetStats(ctx).Connected
}

// GetOrSet — read-through: промах → factory → запись → результат.
// Взаимного исключения между конкурентными вызовами НЕТ: два промаха по
// одному ключу могут оба вызвать factory и оба записать результат.
// Допустимо, т.к. factory — идемпотентное чтение. Это задокументированная
// не-гарантия, а не баг.
func GetOrSet[T any](ctx context.Context, s *Service, key string, ttlSeconds int, factory func(context.Context) (T, error)) (T, error) {
	if b, ok := s.Get(ctx, key); ok {
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			return v, nil
		}
		// битое значение в кеше — считаем промахом
		s.logger.Printf("unmarshal %q failed (treated as miss)", key)
	}

	v, err := factory(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if b, err := json.Marshal(v); err == nil {
		s.Set(ctx, key, b, ttlSeconds)
	}
	return v, nil
}

// Wrap — как GetOrSet, но предпочитает атомарный compute-if-absent,
// если бэкенд его умеет; при любой ошибке хранилища деградирует до
// прямого вызова fn (данные вернутся, даже если кеш сломан).
func Wrap[T any](ctx context.Context, s *Service, key string, ttlSeconds int, fn func(context.Context) (T, error)) (T, error) {
	atomic, ok := s.store.(domain.AtomicStore)
	if !ok {
		return GetOrSet(ctx, s, key, ttlSeconds, fn)
	}

	if ttlSeconds <= 0 {
		ttlSeconds = s.defaultTTL
	}
	ttl := time.Duration(int64(ttlSeconds)*1000) * time.Millisecond

	var fnErr error
	b, err := atomic.ComputeIfAbsent(ctx, key, func(ctx context.Context) ([]byte, error) {
		v, err := fn(ctx)
		if err != nil {
			fnErr = err
			return nil, err
		}
		return json.Marshal(v)
	}, ttl)
	if fnErr != nil {
		// источник сам упал — это не проблема кеша
		var zero T
		return zero, fnErr
	}
	if err != nil {
		s.logger.Printf("wrap %q failed, calling source directly: %v", key, err)
		return fn(ctx)
	}

	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		s.logger.Printf("wrap %q unmarshal failed, calling source directly: %v", key, err)
		return fn(ctx)
	}
	return v, nil
}
