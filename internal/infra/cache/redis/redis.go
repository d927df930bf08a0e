package redisx

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
)

// Store — Redis-бэкенд кеша.
//
// Сознательно НЕ реализует domain.PrefixScanner и domain.AtomicStore:
// выборка ключей по шаблону (SCAN) сюда пока не интегрирована, поэтому
// wildcard-инвалидация против Redis остаётся no-op'ом — cache.Invalidator
// обнаруживает отсутствие способности и громко предупреждает в логах.
type Store struct {
	rdb    *redis.Client
	logger *log.Logger
}

type Config struct {
	Addr     string
	DB       int
	Password string
}

var _ domain.CacheStore = (*Store)(nil)

func New(cfg Config, logger *log.Logger) *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Password: cfg.Password,
	})
	return &Store{rdb: rdb, logger: logger}
}

func (s *Store) Ping(ctx context.Context) error {
	err := s.rdb.Ping(ctx).Err()
	if err != nil {
		s.logger.Printf("PING failed: %v", err)
	} else {
		s.logger.Println("PING ok")
	}
	return err
}

func (s *Store) Close() {
	if s.rdb == nil {
		s.logger.Println("nothing to close")
		return
	}

	if err := s.rdb.Close(); err != nil {
		s.logger.Printf("error while closing: %v", err)
		return
	}

	s.logger.Println("closed")
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		s.logger.Printf("GET %q: not found", key)
		return nil, false, nil
	}
	if err != nil {
		s.logger.Printf("GET %q: error: %v", key, err)
		return nil, false, err
	}
	s.logger.Printf("GET %q: hit (%d bytes)", key, len(b))
	return b, true, nil
}

func (s *Store) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	err := s.rdb.Set(ctx, key, val, ttl).Err()
	if err != nil {
		s.logger.Printf("SET %q failed: %v", key, err)
	} else {
		s.logger.Printf("SET %q ok (ttl=%s)", key, ttl)
	}
	return err
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	n, err := s.rdb.Del(ctx, keys...).Result()
	if err != nil {
		s.logger.Printf("DEL %v failed: %v", keys, err)
	} else {
		s.logger.Printf("DEL %v: deleted=%d", keys, n)
	}
	return err
}

func (s *Store) Clear(ctx context.Context) error {
	err := s.rdb.FlushDB(ctx).Err()
	if err != nil {
		s.logger.Printf("FLUSHDB failed: %v", err)
	} else {
		s.logger.Println("FLUSHDB ok")
	}
	return err
}

// DBSize возвращает количество ключей (для cache.Service.GetStats).
func (s *Store) DBSize(ctx context.Context) (int64, error) {
	return s.rdb.DBSize(ctx).Result()
}
