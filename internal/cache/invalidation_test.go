package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/cache"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/infra/cache/memory"
)

func TestInvalidateResolvesStrategyKeys(t *testing.T) {
	rec := newRecordingStore()
	svc := cache.NewService(rec, discard(), 0)
	inv := cache.NewInvalidatorWithStrategies(svc, discard(), map[string]cache.Strategy{
		"food:update": {Pattern: "foods", Dependencies: []string{"foods:list", "foods:count"}},
	})

	inv.Invalidate(context.Background(), "food:update", "42")

	assert.ElementsMatch(t,
		[]string{"foods:42", "foods:list", "foods:count"},
		rec.deletedKeys())
}

func TestInvalidateUnknownOperationIsNoop(t *testing.T) {
	rec := newRecordingStore()
	svc := cache.NewService(rec, discard(), 0)
	inv := cache.NewInvalidator(svc, discard())

	inv.Invalidate(context.Background(), "nonexistent:op", "1")

	assert.Empty(t, rec.deletedKeys())
}

func TestInvalidateAdditionalKeys(t *testing.T) {
	rec := newRecordingStore()
	svc := cache.NewService(rec, discard(), 0)
	inv := cache.NewInvalidator(svc, discard())

	inv.Invalidate(context.Background(), "food:delete", "7", "search:food:apple")

	assert.Contains(t, rec.deletedKeys(), "food:7")
	assert.Contains(t, rec.deletedKeys(), "search:food:apple")
}

// Две операции делят зависимости food:list/food:count — общий ключ
// должен удаляться ровно один раз.
func TestBulkInvalidateDeduplicates(t *testing.T) {
	rec := newRecordingStore()
	svc := cache.NewService(rec, discard(), 0)
	inv := cache.NewInvalidator(svc, discard())

	inv.BulkInvalidate(context.Background(), []cache.Operation{
		{Operation: "food:update", EntityID: "1"},
		{Operation: "food:delete", EntityID: "2"},
		{Operation: "unknown:op", EntityID: "3"}, // молча пропускается
	})

	assert.Equal(t, 1, rec.delCount("food:list"))
	assert.Equal(t, 1, rec.delCount("food:count"))
	assert.Equal(t, 1, rec.delCount("food:1"))
	assert.Equal(t, 1, rec.delCount("food:2"))
	assert.Equal(t, 0, rec.delCount("food:3"))
}

func TestInvalidateEntityBypassesRegistry(t *testing.T) {
	rec := newRecordingStore()
	svc := cache.NewService(rec, discard(), 0)
	inv := cache.NewInvalidator(svc, discard())

	inv.InvalidateEntity(context.Background(), "recipe", "9")

	assert.ElementsMatch(t,
		[]string{"recipe:9", "recipe:list", "recipe:count", "recipe:all"},
		rec.deletedKeys())
}

func TestConditionalInvalidate(t *testing.T) {
	ctx := context.Background()

	t.Run("predicate true", func(t *testing.T) {
		rec := newRecordingStore()
		inv := cache.NewInvalidator(cache.NewService(rec, discard(), 0), discard())

		inv.ConditionalInvalidate(ctx, func(context.Context) (bool, error) { return true, nil }, []string{"a", "b"})
		assert.ElementsMatch(t, []string{"a", "b"}, rec.deletedKeys())
	})

	t.Run("predicate false", func(t *testing.T) {
		rec := newRecordingStore()
		inv := cache.NewInvalidator(cache.NewService(rec, discard(), 0), discard())

		inv.ConditionalInvalidate(ctx, func(context.Context) (bool, error) { return false, nil }, []string{"a"})
		assert.Empty(t, rec.deletedKeys())
	})

	t.Run("predicate error skips", func(t *testing.T) {
		rec := newRecordingStore()
		inv := cache.NewInvalidator(cache.NewService(rec, discard(), 0), discard())

		inv.ConditionalInvalidate(ctx, func(context.Context) (bool, error) { return true, errors.New("boom") }, []string{"a"})
		assert.Empty(t, rec.deletedKeys())
	})
}

func TestScheduleInvalidationFires(t *testing.T) {
	mem := memory.New()
	svc := cache.NewService(mem, discard(), 0)
	inv := cache.NewInvalidator(svc, discard())
	ctx := context.Background()

	svc.Set(ctx, "food:list", []byte("x"), 60)
	inv.ScheduleInvalidation([]string{"food:list"}, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := svc.Get(ctx, "food:list")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

// Бэкенд умеет ScanByPrefix — wildcard раскрывается в конкретные ключи.
func TestWildcardInvalidationWithScanner(t *testing.T) {
	mem := memory.New()
	svc := cache.NewService(mem, discard(), 0)
	inv := cache.NewInvalidatorWithStrategies(svc, discard(), map[string]cache.Strategy{
		"food:purge": {Pattern: "food", Dependencies: []string{"food:list:*"}},
	})
	ctx := context.Background()

	svc.Set(ctx, "food:list:p1", []byte("x"), 60)
	svc.Set(ctx, "food:list:p2", []byte("y"), 60)
	svc.Set(ctx, "pantry:list", []byte("z"), 60)

	inv.Invalidate(ctx, "food:purge", "")

	_, ok := svc.Get(ctx, "food:list:p1")
	assert.False(t, ok)
	_, ok = svc.Get(ctx, "food:list:p2")
	assert.False(t, ok)
	_, ok = svc.Get(ctx, "pantry:list")
	assert.True(t, ok, "чужой префикс не задет")
}

// Бэкенд без PrefixScanner (как Redis-реализация): wildcard — no-op,
// точные ключи при этом удаляются.
func TestWildcardInvalidationUnsupportedIsNoop(t *testing.T) {
	plain := newPlainStore()
	svc := cache.NewService(plain, discard(), 0)
	inv := cache.NewInvalidatorWithStrategies(svc, discard(), map[string]cache.Strategy{
		"food:purge": {Pattern: "food", Dependencies: []string{"food:list:*", "food:count"}},
	})
	ctx := context.Background()

	svc.Set(ctx, "food:list:p1", []byte("x"), 60)
	svc.Set(ctx, "food:count", []byte("2"), 60)

	inv.Invalidate(ctx, "food:purge", "")

	_, ok := svc.Get(ctx, "food:list:p1")
	assert.True(t, ok, "wildcard не раскрыт — ключ остаётся до TTL")
	_, ok = svc.Get(ctx, "food:count")
	assert.False(t, ok, "точный ключ удалён")
}

func TestInvalidateByPattern(t *testing.T) {
	mem := memory.New()
	svc := cache.NewService(mem, discard(), 0)
	inv := cache.NewInvalidator(svc, discard())
	ctx := context.Background()

	svc.Set(ctx, "search:food:a", []byte("1"), 60)
	svc.Set(ctx, "search:food:b", []byte("2"), 60)

	inv.InvalidateByPattern(ctx, "search:food:*")

	_, ok := svc.Get(ctx, "search:food:a")
	assert.False(t, ok)
	_, ok = svc.Get(ctx, "search:food:b")
	assert.False(t, ok)
}

func TestInvalidationStats(t *testing.T) {
	inv := cache.NewInvalidator(cache.NewService(memory.New(), discard(), 0), discard())

	st := inv.Stats()
	assert.Equal(t, st.StrategiesCount, len(st.Strategies))
	assert.Contains(t, st.Strategies, "food:update")
	assert.Contains(t, st.Strategies, "shopping_list:complete")
	assert.Contains(t, st.Strategies, "user:update")
}
