package web

import (
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/cache"
	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
)

type Repos struct {
	Users    domain.UsersRepo
	Foods    domain.FoodsRepo
	Pantry   domain.PantryRepo
	Shopping domain.ShoppingRepo
}

type AuthDeps struct {
	Hasher     domain.PasswordHasher
	Tokens     domain.TokenManager
	Blacklist  domain.TokenBlacklist
	AdminToken string
}

type CacheDeps struct {
	Service     *cache.Service
	Invalidator *cache.Invalidator
	ListTTL     int // секунд
	EntityTTL   int // секунд
}
