package domain

import "context"

// Сортировка списков продуктов
type ListSort string

const (
	SortByNameAsc     ListSort = "name_asc"
	SortByNameDesc    ListSort = "name_desc"
	SortByCreatedDesc ListSort = "created_desc"
	SortByCreatedAsc  ListSort = "created_asc"
)

// Фильтрация/пагинация справочника еды
type FoodFilter struct {
	Category string
	Query    string // подстрока имени
	Limit    int
	Offset   int
	Sort     ListSort
}

type UsersRepo interface {
	Close()
	Ping(context.Context) error
	CreateUser(ctx context.Context, keycloakID, login string, passHash []byte) (User, error)
	UserByLogin(ctx context.Context, login string) (User, error)
	UserByID(ctx context.Context, id UserID) (User, error)
	UserByKeycloakID(ctx context.Context, keycloakID string) (User, error)
	UpdateUser(ctx context.Context, id UserID, login string) (User, error)
}

type FoodsRepo interface {
	CreateFood(ctx context.Context, f Food) (Food, error)
	FoodByID(ctx context.Context, id FoodID) (Food, error)
	UpdateFood(ctx context.Context, f Food) (Food, error)
	DeleteFood(ctx context.Context, id FoodID, owner UserID) error
	FoodsList(ctx context.Context, f FoodFilter) ([]Food, error)
	FoodsCount(ctx context.Context, f FoodFilter) (int64, error)
	SetFoodImage(ctx context.Context, id FoodID, imageKey string) error
}

type PantryRepo interface {
	CreateItem(ctx context.Context, it PantryItem) (PantryItem, error)
	ItemByID(ctx context.Context, id PantryItemID) (PantryItem, error)
	UpdateItem(ctx context.Context, it PantryItem) (PantryItem, error)
	DeleteItem(ctx context.Context, id PantryItemID, owner UserID) error
	ItemsByUser(ctx context.Context, owner UserID) ([]PantryItem, error)
}

type ShoppingRepo interface {
	CreateList(ctx context.Context, l ShoppingList) (ShoppingList, error)
	ListByID(ctx context.Context, id ShoppingListID) (ShoppingList, error)
	RenameList(ctx context.Context, id ShoppingListID, owner UserID, name string) (ShoppingList, error)
	DeleteList(ctx context.Context, id ShoppingListID, owner UserID) error
	ListsByUser(ctx context.Context, owner UserID) ([]ShoppingList, error)

	AddItem(ctx context.Context, it ShoppingItem) (ShoppingItem, error)
	UpdateItem(ctx context.Context, it ShoppingItem) (ShoppingItem, error)
	RemoveItem(ctx context.Context, listID ShoppingListID, itemID ShoppingItemID) error
	ItemsByList(ctx context.Context, listID ShoppingListID) ([]ShoppingItem, error)
	// Купленные позиции списка (для переноса в кладовку при complete)
	BoughtItems(ctx context.Context, listID ShoppingListID) ([]ShoppingItem, error)
}
