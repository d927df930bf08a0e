package cache_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/infra/cache/memory"
)

// brokenStore падает на каждом вызове — для проверки fail-open.
type brokenStore struct{}

var errStoreDown = errors.New("store down")

func (brokenStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errStoreDown
}
func (brokenStore) Set(context.Context, string, []byte, time.Duration) error { return errStoreDown }
func (brokenStore) Del(context.Context, ...string) error                     { return errStoreDown }
func (brokenStore) Clear(context.Context) error                              { return errStoreDown }
func (brokenStore) Ping(context.Context) error                               { return errStoreDown }
func (brokenStore) Close()                                                   {}

// recordingStore считает удаления по ключам поверх рабочего in-memory бэкенда.
type recordingStore struct {
	mem *memory.Store

	mu   sync.Mutex
	dels map[string]int
}

func newRecordingStore() *recordingStore {
	return &recordingStore{mem: memory.New(), dels: make(map[string]int)}
}

func (r *recordingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return r.mem.Get(ctx, key)
}

func (r *recordingStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.mem.Set(ctx, key, val, ttl)
}

func (r *recordingStore) Del(ctx context.Context, keys ...string) error {
	r.mu.Lock()
	for _, k := range keys {
		r.dels[k]++
	}
	r.mu.Unlock()
	return r.mem.Del(ctx, keys...)
}

func (r *recordingStore) Clear(ctx context.Context) error { return r.mem.Clear(ctx) }
func (r *recordingStore) Ping(ctx context.Context) error  { return r.mem.Ping(ctx) }
func (r *recordingStore) Close()                          { r.mem.Close() }

func (r *recordingStore) delCount(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dels[key]
}

func (r *recordingStore) deletedKeys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.dels))
	for k := range r.dels {
		keys = append(keys, k)
	}
	return keys
}

// plainStore — рабочий бэкенд без опциональных способностей
// (моделирует Redis-реализацию: ни сканирования, ни compute-if-absent).
type plainStore struct {
	mem *memory.Store
}

func newPlainStore() *plainStore { return &plainStore{mem: memory.New()} }

func (p *plainStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return p.mem.Get(ctx, key)
}

func (p *plainStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return p.mem.Set(ctx, key, val, ttl)
}

func (p *plainStore) Del(ctx context.Context, keys ...string) error { return p.mem.Del(ctx, keys...) }
func (p *plainStore) Clear(ctx context.Context) error               { return p.mem.Clear(ctx) }
func (p *plainStore) Ping(ctx context.Context) error                { return p.mem.Ping(ctx) }
func (p *plainStore) Close()                                        { p.mem.Close() }

var (
	_ domain.CacheStore = brokenStore{}
	_ domain.CacheStore = (*recordingStore)(nil)
	_ domain.CacheStore = (*plainStore)(nil)
)
