package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetGetDel(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))

	b, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), b)

	require.NoError(t, s.Del(ctx, "k"))
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_TTLExpiry(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 10*time.Millisecond))

	require.Eventually(t, func() bool {
		_, ok, _ := s.Get(ctx, "k")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestStore_ValueIsolation(t *testing.T) {
	// хранилище отдаёт копию — мутация результата не портит кеш
	s := New()
	defer s.Close()
	ctx := context.Background()

	src := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", src, time.Minute))
	src[0] = 'X'

	b, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), b)

	b[0] = 'Y'
	b2, _, _ := s.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), b2)
}

func TestStore_ScanByPrefix(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	_ = s.Set(ctx, "food:1", []byte("a"), time.Minute)
	_ = s.Set(ctx, "food:2", []byte("b"), time.Minute)
	_ = s.Set(ctx, "pantry:1", []byte("c"), time.Minute)

	keys, err := s.ScanByPrefix(ctx, "food:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"food:1", "food:2"}, keys)
}

func TestStore_ComputeIfAbsent(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	calls := 0
	factory := func(context.Context) ([]byte, error) {
		calls++
		return []byte("v"), nil
	}

	b, err := s.ComputeIfAbsent(ctx, "k", factory, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), b)

	b, err = s.ComputeIfAbsent(ctx, "k", factory, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), b)
	assert.Equal(t, 1, calls, "второй вызов должен взять значение из кеша")
}

func TestStore_ComputeIfAbsent_FactoryError(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	boom := errors.New("boom")
	_, err := s.ComputeIfAbsent(ctx, "k", func(context.Context) ([]byte, error) {
		return nil, boom
	}, time.Minute)
	require.ErrorIs(t, err, boom)

	// ошибка фабрики ничего не записывает
	_, ok, _ := s.Get(ctx, "k")
	assert.False(t, ok)
}

func TestStore_Clear(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	_ = s.Set(ctx, "a", []byte("1"), time.Minute)
	_ = s.Set(ctx, "b", []byte("2"), time.Minute)

	require.NoError(t, s.Clear(ctx))
	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
