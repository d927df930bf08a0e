package mw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/cache"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/infra/cache/memory"
)

// countingStore считает удаления по ключам поверх memory-хранилища
type countingStore struct {
	*memory.Store

	mu   sync.Mutex
	dels map[string]int
}

func newCountingStore() *countingStore {
	return &countingStore{Store: memory.New(), dels: map[string]int{}}
}

func (s *countingStore) Del(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	for _, k := range keys {
		s.dels[k]++
	}
	s.mu.Unlock()
	return s.Store.Del(ctx, keys...)
}

func (s *countingStore) delCount(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dels[key]
}

func (s *countingStore) totalDels() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.dels {
		n += c
	}
	return n
}

func TestEvict_RouteParam_DeletesExactKeyOnce(t *testing.T) {
	store := newCountingStore()
	defer store.Close()
	svc := cache.NewService(store, testLogger(), 300)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux := http.NewServeMux()
	mux.Handle("PUT /v1/foods/{id}", Evict(svc, testLogger(), []string{"food:{id}"}, h))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/v1/foods/123", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, store.delCount("food:123"))
	assert.Equal(t, 1, store.totalDels())
}

func TestEvict_HandlerError_NoDeletes(t *testing.T) {
	store := newCountingStore()
	defer store.Close()
	svc := cache.NewService(store, testLogger(), 300)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux := http.NewServeMux()
	mux.Handle("PUT /v1/foods/{id}", Evict(svc, testLogger(), []string{"food:{id}", "food:list"}, h))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/v1/foods/123", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 0, store.totalDels())
}

func TestEvict_NoPrincipal_EmptySubstitution(t *testing.T) {
	// Нерешённый {keycloakId} без принципала даёт пустую подстановку —
	// принятое поведение, не ошибка.
	store := newCountingStore()
	defer store.Close()
	svc := cache.NewService(store, testLogger(), 300)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := Evict(svc, testLogger(), []string{"user_profile:{keycloakId}"}, h)

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/v1/users/me", nil))

	assert.Equal(t, 1, store.delCount("user_profile:"))
}

func TestEvict_PrincipalAliases(t *testing.T) {
	store := newCountingStore()
	defer store.Close()
	svc := cache.NewService(store, testLogger(), 300)

	u := domain.User{ID: uuid.New(), KeycloakID: "kc-42", Login: "bob"}
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	templates := []string{"user_profile:{keycloakId}", "pantry:{userId}:list"}
	wrapped := Evict(svc, testLogger(), templates, h)

	req := httptest.NewRequest(http.MethodPut, "/v1/users/me", nil)
	req = req.WithContext(domain.WithUser(req.Context(), u))
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, 1, store.delCount("user_profile:kc-42"))
	assert.Equal(t, 1, store.delCount("pantry:"+u.ID.String()+":list"))
}

func TestEvict_AnonymousUserIDAlias(t *testing.T) {
	store := newCountingStore()
	defer store.Close()
	svc := cache.NewService(store, testLogger(), 300)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	wrapped := Evict(svc, testLogger(), []string{"pantry:{userId}:list"}, h)

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/pantry/1", nil))

	assert.Equal(t, 1, store.delCount("pantry:anonymous:list"))
}

func TestEvict_EmptyTemplates_Passthrough(t *testing.T) {
	store := newCountingStore()
	defer store.Close()
	svc := cache.NewService(store, testLogger(), 300)

	called := false
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	wrapped := Evict(svc, testLogger(), nil, h)

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/foods", nil))

	assert.True(t, called)
	assert.Equal(t, 0, store.totalDels())
}

func TestEvict_RouteParamWinsOverPrincipal(t *testing.T) {
	store := newCountingStore()
	defer store.Close()
	svc := cache.NewService(store, testLogger(), 300)

	u := domain.User{ID: uuid.New(), Login: "bob"}
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux := http.NewServeMux()
	mux.Handle("DELETE /v1/foods/{id}", Evict(svc, testLogger(), []string{"food:{id}"}, h))

	req := httptest.NewRequest(http.MethodDelete, "/v1/foods/777", nil)
	req = req.WithContext(domain.WithUser(req.Context(), u))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, 1, store.delCount("food:777"))
	assert.Equal(t, 0, store.delCount("food:"+u.ID.String()))
}
