package mw

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/cache"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/infra/cache/memory"
)

func testLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func TestCache_MissThenHit_HandlerRunsOnce(t *testing.T) {
	store := memory.New()
	defer store.Close()
	svc := cache.NewService(store, testLogger(), 300)

	calls := 0
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":"foods"}`))
	})
	wrapped := Cache(svc, testLogger(), CacheConfig{})(h)

	req := httptest.NewRequest(http.MethodGet, "/v1/foods?limit=10", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)

	// запись в кеш фоновая — дожидаемся её
	key := cacheKey(req)
	require.Eventually(t, func() bool {
		_, ok := svc.Get(req.Context(), key)
		return ok
	}, time.Second, 5*time.Millisecond)

	rec2 := httptest.NewRecorder()
	wrapped.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/v1/foods?limit=10", nil))

	require.Equal(t, http.StatusOK, rec2.Code)
	assert.Equal(t, "HIT", rec2.Header().Get("X-Cache"))
	assert.Equal(t, `{"data":"foods"}`, rec2.Body.String())
	assert.Equal(t, "application/json", rec2.Header().Get("Content-Type"))
	assert.Equal(t, 1, calls, "обработчик должен исполниться ровно один раз")
}

func TestCache_DifferentQuery_SeparateKeys(t *testing.T) {
	a := httptest.NewRequest(http.MethodGet, "/v1/foods?limit=10", nil)
	b := httptest.NewRequest(http.MethodGet, "/v1/foods?limit=20", nil)
	c := httptest.NewRequest(http.MethodGet, "/v1/foods", nil)

	assert.NotEqual(t, cacheKey(a), cacheKey(b))
	assert.NotEqual(t, cacheKey(a), cacheKey(c))
	assert.Equal(t, "api:/v1/foods:anonymous", cacheKey(c))
}

func TestCache_MaxAgeZero_NotStored(t *testing.T) {
	store := memory.New()
	defer store.Close()
	svc := cache.NewService(store, testLogger(), 300)

	calls := 0
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte("ok"))
	})
	wrapped := Cache(svc, testLogger(), CacheConfig{})(h)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/foods", nil)
		req.Header.Set("Cache-Control", "max-age=0")
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, calls)
}

func TestCache_MaxAgeHeaderOverridesTTL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/foods", nil)
	req.Header.Set("Cache-Control", "no-transform, max-age=42")
	assert.Equal(t, 42, requestTTL(req, 300))

	req2 := httptest.NewRequest(http.MethodGet, "/v1/foods", nil)
	assert.Equal(t, 300, requestTTL(req2, 300), "без заголовка — дефолт")

	req3 := httptest.NewRequest(http.MethodGet, "/v1/foods", nil)
	req3.Header.Set("Cache-Control", "max-age=oops")
	assert.Equal(t, 300, requestTTL(req3, 300), "мусор в max-age — дефолт")
}

func TestCache_NonGetPassthrough(t *testing.T) {
	store := memory.New()
	defer store.Close()
	svc := cache.NewService(store, testLogger(), 300)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	wrapped := Cache(svc, testLogger(), CacheConfig{})(h)

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/foods", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestCache_SkipPrefix(t *testing.T) {
	store := memory.New()
	defer store.Close()
	svc := cache.NewService(store, testLogger(), 300)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	cfg := CacheConfig{SkipPrefixes: []string{"/v1/auth", "/v1/healthz"}}
	wrapped := Cache(svc, testLogger(), cfg)(h)

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))

	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestCache_ErrorResponseNotStored(t *testing.T) {
	store := memory.New()
	defer store.Close()
	svc := cache.NewService(store, testLogger(), 300)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	wrapped := Cache(svc, testLogger(), CacheConfig{})(h)

	req := httptest.NewRequest(http.MethodGet, "/v1/foods", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	// 5xx не кешируется — следующий запрос снова промах
	time.Sleep(20 * time.Millisecond)
	_, ok := svc.Get(req.Context(), cacheKey(req))
	assert.False(t, ok)
}
