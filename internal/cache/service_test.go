package cache_test

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/cache"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/infra/cache/memory"
)

func discard() *log.Logger { return log.New(io.Discard, "", 0) }

func TestServiceSetThenGet(t *testing.T) {
	svc := cache.NewService(memory.New(), discard(), 0)
	ctx := context.Background()

	svc.Set(ctx, "foods:123", []byte(`{"name":"apple"}`), 60)

	b, ok := svc.Get(ctx, "foods:123")
	require.True(t, ok)
	assert.Equal(t, `{"name":"apple"}`, string(b))
}

func TestServiceDelThenGet(t *testing.T) {
	svc := cache.NewService(memory.New(), discard(), 0)
	ctx := context.Background()

	svc.Set(ctx, "foods:123", []byte("x"), 60)
	svc.Del(ctx, "foods:123")

	_, ok := svc.Get(ctx, "foods:123")
	assert.False(t, ok)
}

func TestGenerateKey(t *testing.T) {
	svc := cache.NewService(memory.New(), discard(), 0)

	assert.Equal(t, "foods:123", svc.GenerateKey("foods", "123"))
	assert.Equal(t, "list:foods:1:10", svc.GenerateKey("list", "foods", 1, 10))
	assert.Equal(t, "foods", svc.GenerateKey("foods"))
}

func TestGenerateInvalidationKeys(t *testing.T) {
	svc := cache.NewService(memory.New(), discard(), 0)

	assert.Equal(t,
		[]string{"food:list", "food:count"},
		svc.GenerateInvalidationKeys("food"))
	assert.Equal(t,
		[]string{"food:list", "food:count", "food:123"},
		svc.GenerateInvalidationKeys("food", "123"))
}

// Хранилище падает на каждом вызове: сервис не должен ни паниковать,
// ни возвращать ошибки — только промахи и no-op'ы.
func TestServiceFailOpenOnBrokenStore(t *testing.T) {
	svc := cache.NewService(brokenStore{}, discard(), 0)
	ctx := context.Background()

	b, ok := svc.Get(ctx, "k")
	assert.False(t, ok)
	assert.Nil(t, b)

	// не паникуют и не возвращают ошибок
	svc.Set(ctx, "k", []byte("v"), 10)
	svc.Del(ctx, "k")
	svc.DelMany(ctx, []string{"a", "b", "c"})
	svc.Reset(ctx)

	st := svc.GetStats(ctx)
	assert.False(t, st.Connected)
	assert.False(t, svc.IsAvailable(ctx))
}

func TestGetStatsConnected(t *testing.T) {
	mem := memory.New()
	svc := cache.NewService(mem, discard(), 0)
	ctx := context.Background()

	svc.Set(ctx, "a", []byte("1"), 60)
	svc.Set(ctx, "b", []byte("2"), 60)

	st := svc.GetStats(ctx)
	require.True(t, st.Connected)
	require.NotNil(t, st.KeyCount)
	assert.EqualValues(t, 2, *st.KeyCount)
	assert.True(t, svc.IsAvailable(ctx))
}

func TestGetOrSetMissThenHit(t *testing.T) {
	svc := cache.NewService(memory.New(), discard(), 0)
	ctx := context.Background()

	calls := 0
	factory := func(context.Context) (string, error) {
		calls++
		return "banana", nil
	}

	v, err := cache.GetOrSet(ctx, svc, "food:1", 60, factory)
	require.NoError(t, err)
	assert.Equal(t, "banana", v)
	assert.Equal(t, 1, calls)

	// повторный вызов — из кеша, factory не дёргается
	v, err = cache.GetOrSet(ctx, svc, "food:1", 60, factory)
	require.NoError(t, err)
	assert.Equal(t, "banana", v)
	assert.Equal(t, 1, calls)
}

func TestGetOrSetBrokenStoreStillReturnsData(t *testing.T) {
	svc := cache.NewService(brokenStore{}, discard(), 0)
	ctx := context.Background()

	calls := 0
	v, err := cache.GetOrSet(ctx, svc, "food:1", 60, func(context.Context) (int, error) {
		calls++
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)
}

func TestWrapUsesAtomicStore(t *testing.T) {
	// memory.Store реализует ComputeIfAbsent
	svc := cache.NewService(memory.New(), discard(), 0)
	ctx := context.Background()

	calls := 0
	fn := func(context.Context) (string, error) {
		calls++
		return "cached", nil
	}

	v, err := cache.Wrap(ctx, svc, "k", 60, fn)
	require.NoError(t, err)
	assert.Equal(t, "cached", v)

	v, err = cache.Wrap(ctx, svc, "k", 60, fn)
	require.NoError(t, err)
	assert.Equal(t, "cached", v)
	assert.Equal(t, 1, calls, "второй вызов должен попасть в кеш")
}

func TestWrapFallsBackWithoutAtomicStore(t *testing.T) {
	// plainStore способности compute-if-absent не имеет — путь GetOrSet
	svc := cache.NewService(newPlainStore(), discard(), 0)
	ctx := context.Background()

	v, err := cache.Wrap(ctx, svc, "k", 60, func(context.Context) (string, error) {
		return "direct", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "direct", v)
}

func TestWrapBrokenStoreCallsSourceDirectly(t *testing.T) {
	svc := cache.NewService(brokenStore{}, discard(), 0)
	ctx := context.Background()

	v, err := cache.Wrap(ctx, svc, "k", 60, func(context.Context) (string, error) {
		return "still works", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "still works", v)
}
