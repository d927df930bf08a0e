package domain

import "context"

// Ключ для хранения аутентифицированного пользователя в контексте HTTP-запроса
type ctxKey int

const userCtxKey ctxKey = 1

// AnonymousID подставляется в ключи кеша, когда пользователя в контексте нет.
const AnonymousID = "anonymous"

func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userCtxKey, u)
}

func UserFromCtx(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userCtxKey).(User)
	return u, ok
}

// PrincipalID — id пользователя для ключей кеша ("anonymous", если не авторизован).
func PrincipalID(ctx context.Context) string {
	if u, ok := UserFromCtx(ctx); ok {
		return u.ID.String()
	}
	return AnonymousID
}
