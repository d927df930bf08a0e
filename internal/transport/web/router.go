package web

import (
	"log"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/docs"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/mw"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1/auth"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1/food"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1/health"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1/pantry"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1/shopping"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/transport/web/v1/user"
)

type handlers struct {
	health   *health.Handler
	register *auth.HandlerRegister
	login    *auth.HandlerLogin
	logout   *auth.HandlerLogout
	foods    *food.Handler
	pantry   *pantry.Handler
	shopping *shopping.Handler
	users    *user.Handler
}

func newRouter(h handlers, authDeps mw.AuthDeps, cacheDeps CacheDeps, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	ad := authDeps
	svc := cacheDeps.Service

	// шорткаты: обязательная авторизация и eviction после успешной мутации
	authed := func(hf http.HandlerFunc) http.Handler {
		return mw.RequireAuth(ad, hf)
	}
	evict := func(templates []string, hf http.HandlerFunc) http.Handler {
		return mw.Evict(svc, logger, templates, mw.RequireAuth(ad, hf))
	}

	// health
	mux.HandleFunc("GET /v1/healthz", h.health.Liveness)
	mux.HandleFunc("GET /v1/readyz", h.health.Readiness)

	// auth
	mux.HandleFunc("POST /v1/auth/register", h.register.Register)
	mux.HandleFunc("POST /v1/auth/login", h.login.Login)
	mux.HandleFunc("DELETE /v1/auth/logout", h.logout.Logout)

	// foods (чтение публичное, мутации — только с токеном)
	mux.HandleFunc("GET /v1/foods", h.foods.List)
	mux.HandleFunc("GET /v1/foods/{id}", h.foods.GetOne)
	mux.HandleFunc("GET /v1/foods/{id}/image", h.foods.GetImage)
	mux.Handle("POST /v1/foods",
		evict([]string{"food:list", "food:count"}, h.foods.Create))
	mux.Handle("PUT /v1/foods/{id}",
		evict([]string{"food:{id}", "food:list", "food:count"}, h.foods.Update))
	mux.Handle("DELETE /v1/foods/{id}",
		evict([]string{"food:{id}", "food:list", "food:count"}, h.foods.Delete))
	mux.Handle("POST /v1/foods/{id}/image",
		evict([]string{"food:{id}"}, limitBody(16<<20, h.foods.UploadImage))) // 16MB лимит

	// pantry (всё приватное; гасим и производный ключ GET-кеша)
	pantryEvict := []string{"pantry:list", "pantry:count", "api:/v1/pantry:{userId}"}
	mux.Handle("GET /v1/pantry", authed(h.pantry.List))
	mux.Handle("POST /v1/pantry", evict(pantryEvict, h.pantry.Create))
	mux.Handle("PUT /v1/pantry/{id}", evict(pantryEvict, h.pantry.Update))
	mux.Handle("DELETE /v1/pantry/{id}", evict(pantryEvict, h.pantry.Delete))

	// shopping lists
	shoppingEvict := []string{"shopping_list:list", "shopping_list:count", "api:/v1/shopping:{userId}"}
	itemEvict := append([]string{"shopping_list:{id}"}, shoppingEvict...)
	mux.Handle("GET /v1/shopping", authed(h.shopping.Lists))
	mux.Handle("GET /v1/shopping/{id}", authed(h.shopping.GetOne))
	mux.Handle("POST /v1/shopping", evict(shoppingEvict, h.shopping.Create))
	mux.Handle("PUT /v1/shopping/{id}", evict(itemEvict, h.shopping.Rename))
	mux.Handle("DELETE /v1/shopping/{id}", evict(itemEvict, h.shopping.Delete))
	mux.Handle("POST /v1/shopping/{id}/items", evict(itemEvict, h.shopping.AddItem))
	mux.Handle("PUT /v1/shopping/{id}/items/{itemId}", evict(itemEvict, h.shopping.UpdateItem))
	mux.Handle("DELETE /v1/shopping/{id}/items/{itemId}", evict(itemEvict, h.shopping.RemoveItem))
	mux.Handle("POST /v1/shopping/{id}/complete", evict(itemEvict, h.shopping.Complete))

	// users
	mux.Handle("GET /v1/users/me", authed(h.users.Me))
	mux.Handle("PUT /v1/users/me",
		evict([]string{"user_profile:{keycloakId}", "api:/v1/users/me:{userId}"}, h.users.Update))

	// swagger
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// 🔗 middleware: req_id → логирование → опциональный принципал → GET-кеш
	cacheCfg := mw.CacheConfig{SkipPrefixes: []string{
		"/v1/auth", "/v1/healthz", "/v1/readyz", "/swagger",
	}}
	var root http.Handler = mux
	root = mw.Cache(svc, logger, cacheCfg)(root)
	root = mw.OptionalAuth(ad, root)
	root = mw.Logging(logger)(root)
	return mw.WithRequestID(root)
}

func limitBody(n int64, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, n)
		h(w, r)
	}
}
