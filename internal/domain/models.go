package domain

import (
	"time"

	"github.com/google/uuid"
)

// Базовые идентификаторы
type UserID = uuid.UUID
type FoodID = uuid.UUID
type PantryItemID = uuid.UUID
type ShoppingListID = uuid.UUID
type ShoppingItemID = uuid.UUID

// Пользователь. KeycloakID — subject внешнего identity-провайдера.
type User struct {
	ID         UserID    `json:"id"`
	KeycloakID string    `json:"keycloak_id"`
	Login      string    `json:"login"`
	PassHash   []byte    `json:"-"` // никогда не отдаём наружу
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Продукт (справочник еды)
type Food struct {
	ID          FoodID    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Unit        string    `json:"unit"` // базовая единица: g, ml, pcs
	CaloriesPer int       `json:"calories_per_100"`
	CreatedBy   UserID    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Где лежит картинка (S3/MinIO); пусто — картинки нет
	ImageKey string `json:"-"`
}

// Позиция кладовки пользователя
type PantryItem struct {
	ID        PantryItemID `json:"id"`
	UserID    UserID       `json:"user_id"`
	FoodID    FoodID       `json:"food_id"`
	Quantity  float64      `json:"quantity"`
	Unit      string       `json:"unit"`
	Location  string       `json:"location"` // fridge / freezer / shelf
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Список покупок
type ShoppingList struct {
	ID        ShoppingListID `json:"id"`
	UserID    UserID         `json:"user_id"`
	Name      string         `json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Позиция списка покупок
type ShoppingItem struct {
	ID       ShoppingItemID `json:"id"`
	ListID   ShoppingListID `json:"list_id"`
	FoodID   FoodID         `json:"food_id"`
	Quantity float64        `json:"quantity"`
	Unit     string         `json:"unit"`
	Bought   bool           `json:"bought"`
}
