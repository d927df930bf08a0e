package blacklist

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/cache"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/infra/cache/memory"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mem := memory.New()
	t.Cleanup(mem.Close)
	return NewStore(cache.NewService(mem, log.New(io.Discard, "", 0), 300))
}

func TestStore_RevokeThenIsRevoked(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err = s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestStore_RevokeExpiredToken(t *testing.T) {
	// exp в прошлом — всё равно ставим короткий заслон
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Revoke(ctx, "jti-old", time.Now().Add(-time.Hour)))

	revoked, err := s.IsRevoked(ctx, "jti-old")
	require.NoError(t, err)
	assert.True(t, revoked)
}
