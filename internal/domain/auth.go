package domain

import (
	"context"
	"time"
)

type Token = string

type TokenClaims struct {
	JTI        string // уникальный id токена
	UserID     UserID
	KeycloakID string
	Login      string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// Хеширование паролей
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encodedHash string) (bool, error)
}

// Управление токенами (JWT, HS256)
type TokenManager interface {
	Issue(ctx context.Context, u User) (Token, TokenClaims, error)
	Parse(ctx context.Context, t Token) (TokenClaims, error)
}

// Ревокация токенов; хранится в кеш-слое (jti -> до exp)
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, exp time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
