package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
)

const (
	listCols     = "id, user_id, name, created_at, updated_at"
	listItemCols = "id, list_id, food_id, quantity, unit, bought"
)

func scanShoppingList(row interface{ Scan(...any) error }) (domain.ShoppingList, error) {
	var l domain.ShoppingList
	err := row.Scan(&l.ID, &l.UserID, &l.Name, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func scanShoppingItem(row interface{ Scan(...any) error }) (domain.ShoppingItem, error) {
	var it domain.ShoppingItem
	err := row.Scan(&it.ID, &it.ListID, &it.FoodID, &it.Quantity, &it.Unit, &it.Bought)
	return it, err
}

func (r *PGRepo) CreateList(ctx context.Context, l domain.ShoppingList) (domain.ShoppingList, error) {
	q := r.qb().Insert(r.table("shopping_lists")).
		Columns("user_id", "name").
		Values(l.UserID, l.Name).
		Suffix("RETURNING " + listCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Shopping.CreateList", sqlStr, args)

	start := time.Now()
	out, err := scanShoppingList(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("Shopping.CreateList scan error after %s: %v", time.Since(start), err)
		return domain.ShoppingList{}, err
	}
	r.logger.Printf("Shopping.CreateList ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}

func (r *PGRepo) ListByID(ctx context.Context, id domain.ShoppingListID) (domain.ShoppingList, error) {
	q := r.qb().Select(listCols).
		From(r.table("shopping_lists")).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Shopping.ListByID", sqlStr, args)

	l, err := scanShoppingList(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ShoppingList{}, domain.ErrNotFound
		}
		return domain.ShoppingList{}, err
	}
	return l, nil
}

func (r *PGRepo) RenameList(ctx context.Context, id domain.ShoppingListID, owner domain.UserID, name string) (domain.ShoppingList, error) {
	q := r.qb().Update(r.table("shopping_lists")).
		Set("name", name).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "user_id": owner}).
		Suffix("RETURNING " + listCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Shopping.RenameList", sqlStr, args)

	l, err := scanShoppingList(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ShoppingList{}, domain.ErrNotFound
		}
		return domain.ShoppingList{}, err
	}
	return l, nil
}

func (r *PGRepo) DeleteList(ctx context.Context, id domain.ShoppingListID, owner domain.UserID) error {
	q := r.qb().Delete(r.table("shopping_lists")).
		Where(sq.Eq{"id": id, "user_id": owner})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Shopping.DeleteList", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGRepo) ListsByUser(ctx context.Context, owner domain.UserID) ([]domain.ShoppingList, error) {
	q := r.qb().Select(listCols).
		From(r.table("shopping_lists")).
		Where(sq.Eq{"user_id": owner}).
		OrderBy("created_at DESC")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Shopping.ListsByUser", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ShoppingList
	for rows.Next() {
		l, err := scanShoppingList(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PGRepo) AddItem(ctx context.Context, it domain.ShoppingItem) (domain.ShoppingItem, error) {
	q := r.qb().Insert(r.table("shopping_items")).
		Columns("list_id", "food_id", "quantity", "unit").
		Values(it.ListID, it.FoodID, it.Quantity, it.Unit).
		Suffix("RETURNING " + listItemCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Shopping.AddItem", sqlStr, args)

	out, err := scanShoppingItem(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("Shopping.AddItem scan error: %v", err)
		return domain.ShoppingItem{}, err
	}
	return out, nil
}

func (r *PGRepo) UpdateItem(ctx context.Context, it domain.ShoppingItem) (domain.ShoppingItem, error) {
	q := r.qb().Update(r.table("shopping_items")).
		Set("quantity", it.Quantity).
		Set("unit", it.Unit).
		Set("bought", it.Bought).
		Where(sq.Eq{"id": it.ID, "list_id": it.ListID}).
		Suffix("RETURNING " + listItemCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Shopping.UpdateItem", sqlStr, args)

	out, err := scanShoppingItem(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ShoppingItem{}, domain.ErrNotFound
		}
		return domain.ShoppingItem{}, err
	}
	return out, nil
}

func (r *PGRepo) RemoveItem(ctx context.Context, listID domain.ShoppingListID, itemID domain.ShoppingItemID) error {
	q := r.qb().Delete(r.table("shopping_items")).
		Where(sq.Eq{"id": itemID, "list_id": listID})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Shopping.RemoveItem", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGRepo) ItemsByList(ctx context.Context, listID domain.ShoppingListID) ([]domain.ShoppingItem, error) {
	return r.listItems(ctx, "Shopping.ItemsByList", sq.Eq{"list_id": listID})
}

func (r *PGRepo) BoughtItems(ctx context.Context, listID domain.ShoppingListID) ([]domain.ShoppingItem, error) {
	return r.listItems(ctx, "Shopping.BoughtItems", sq.Eq{"list_id": listID, "bought": true})
}

func (r *PGRepo) listItems(ctx context.Context, op string, where sq.Eq) ([]domain.ShoppingItem, error) {
	q := r.qb().Select(listItemCols).
		From(r.table("shopping_items")).
		Where(where).
		OrderBy("id")

	sqlStr, args, _ := q.ToSql()
	r.logSQL(op, sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ShoppingItem
	for rows.Next() {
		it, err := scanShoppingItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
