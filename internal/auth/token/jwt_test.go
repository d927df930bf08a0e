package token

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
)

func TestManager_IssueParse(t *testing.T) {
	m := New("test-secret", "foodmission", time.Hour)
	u := domain.User{ID: uuid.New(), KeycloakID: "kc-1", Login: "alice"}

	raw, claims, err := m.Issue(context.Background(), u)
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "kc-1", claims.KeycloakID)

	parsed, err := m.Parse(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, claims.JTI, parsed.JTI)
	assert.Equal(t, u.ID, parsed.UserID)
	assert.Equal(t, "kc-1", parsed.KeycloakID)
	assert.Equal(t, "alice", parsed.Login)
}

func TestManager_ParseWrongSecret(t *testing.T) {
	m := New("secret-a", "foodmission", time.Hour)
	other := New("secret-b", "foodmission", time.Hour)

	raw, _, err := m.Issue(context.Background(), domain.User{ID: uuid.New(), Login: "bob"})
	require.NoError(t, err)

	_, err = other.Parse(context.Background(), raw)
	assert.Error(t, err)
}

func TestManager_ParseExpired(t *testing.T) {
	m := New("test-secret", "foodmission", -time.Minute)

	raw, _, err := m.Issue(context.Background(), domain.User{ID: uuid.New(), Login: "bob"})
	require.NoError(t, err)

	_, err = m.Parse(context.Background(), raw)
	assert.Error(t, err)
}
