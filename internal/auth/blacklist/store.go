package blacklist

import (
	"context"
	"time"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/cache"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
)

// Store — блэклист отозванных токенов поверх общего cache.Service.
// Раньше это был отдельный KV-клиент со своей дисциплиной — теперь
// ревокация живёт в том же кеш-слое, что и остальные ключи.
//
// Семантика best-effort: сервис fail-open, поэтому при лежащем
// хранилище ревокация не фиксируется — токен в любом случае умрёт
// по собственному exp.
type Store struct {
	svc *cache.Service
}

var _ domain.TokenBlacklist = (*Store)(nil)

func NewStore(svc *cache.Service) *Store {
	return &Store{svc: svc}
}

// Revoke помечает jti отозванным до времени exp (TTL = exp-now).
func (s *Store) Revoke(ctx context.Context, jti string, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		ttl = time.Minute // подстраховка, если exp в прошлом
	}
	s.svc.Set(ctx, domain.CacheKeyTokenJTI(jti), []byte("1"), int(ttl.Seconds()))
	return nil
}

func (s *Store) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, ok := s.svc.Get(ctx, domain.CacheKeyTokenJTI(jti))
	return ok, nil
}
