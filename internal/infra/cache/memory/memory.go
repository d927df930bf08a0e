package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
)

// Store — in-memory бэкенд кеша (CACHE_BACKEND=memory и тесты).
// В отличие от Redis-бэкенда реализует обе опциональные способности:
// ComputeIfAbsent и ScanByPrefix.
type Store struct {
	mu    sync.RWMutex
	items map[string]item
	done  chan struct{}
	once  sync.Once
}

type item struct {
	val       []byte
	expiresAt time.Time // zero — без истечения
}

var (
	_ domain.CacheStore    = (*Store)(nil)
	_ domain.AtomicStore   = (*Store)(nil)
	_ domain.PrefixScanner = (*Store)(nil)
)

func New() *Store {
	s := &Store{
		items: make(map[string]item),
		done:  make(chan struct{}),
	}
	go s.sweep()
	return s
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[key]
	if !ok || it.expired(time.Now()) {
		return nil, false, nil
	}
	// копия: значение в мапе не должно меняться из-под читателя
	out := make([]byte, len(it.val))
	copy(out, it.val)
	return out, true, nil
}

func (s *Store) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	cp := make([]byte, len(val))
	copy(cp, val)

	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.items[key] = item{val: cp, expiresAt: exp}
	s.mu.Unlock()
	return nil
}

func (s *Store) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	for _, k := range keys {
		delete(s.items, k)
	}
	s.mu.Unlock()
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	s.items = make(map[string]item)
	s.mu.Unlock()
	return nil
}

// ComputeIfAbsent — атомарный get-or-set под общим локом.
func (s *Store) ComputeIfAbsent(ctx context.Context, key string, factory func(context.Context) ([]byte, error), ttl time.Duration) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if it, ok := s.items[key]; ok && !it.expired(time.Now()) {
		out := make([]byte, len(it.val))
		copy(out, it.val)
		return out, nil
	}

	val, err := factory(ctx)
	if err != nil {
		return nil, err
	}

	cp := make([]byte, len(val))
	copy(cp, val)
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.items[key] = item{val: cp, expiresAt: exp}
	return val, nil
}

func (s *Store) ScanByPrefix(_ context.Context, prefix string) ([]string, error) {
	now := time.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for k, it := range s.items {
		if strings.HasPrefix(k, prefix) && !it.expired(now) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() {
	s.once.Do(func() { close(s.done) })
}

// Len — количество живых ключей (для cache.Service.GetStats).
func (s *Store) Len(context.Context) (int64, error) {
	now := time.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, it := range s.items {
		if !it.expired(now) {
			n++
		}
	}
	return n, nil
}

func (it item) expired(now time.Time) bool {
	return !it.expiresAt.IsZero() && now.After(it.expiresAt)
}

// sweep периодически вычищает истёкшие записи
func (s *Store) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for k, it := range s.items {
				if it.expired(now) {
					delete(s.items, k)
				}
			}
			s.mu.Unlock()
		}
	}
}
