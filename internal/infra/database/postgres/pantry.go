package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
)

const pantryCols = "id, user_id, food_id, quantity, unit, location, expires_at, created_at, updated_at"

func scanPantryItem(row interface{ Scan(...any) error }) (domain.PantryItem, error) {
	var it domain.PantryItem
	err := row.Scan(&it.ID, &it.UserID, &it.FoodID, &it.Quantity, &it.Unit, &it.Location, &it.ExpiresAt, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

func (r *PGRepo) CreateItem(ctx context.Context, it domain.PantryItem) (domain.PantryItem, error) {
	q := r.qb().Insert(r.table("pantry_items")).
		Columns("user_id", "food_id", "quantity", "unit", "location", "expires_at").
		Values(it.UserID, it.FoodID, it.Quantity, it.Unit, it.Location, it.ExpiresAt).
		Suffix("RETURNING " + pantryCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Pantry.CreateItem", sqlStr, args)

	start := time.Now()
	out, err := scanPantryItem(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("Pantry.CreateItem scan error after %s: %v", time.Since(start), err)
		return domain.PantryItem{}, err
	}
	r.logger.Printf("Pantry.CreateItem ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}

func (r *PGRepo) ItemByID(ctx context.Context, id domain.PantryItemID) (domain.PantryItem, error) {
	q := r.qb().Select(pantryCols).
		From(r.table("pantry_items")).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Pantry.ItemByID", sqlStr, args)

	it, err := scanPantryItem(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PantryItem{}, domain.ErrNotFound
		}
		return domain.PantryItem{}, err
	}
	return it, nil
}

func (r *PGRepo) UpdateItem(ctx context.Context, it domain.PantryItem) (domain.PantryItem, error) {
	q := r.qb().Update(r.table("pantry_items")).
		Set("quantity", it.Quantity).
		Set("unit", it.Unit).
		Set("location", it.Location).
		Set("expires_at", it.ExpiresAt).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": it.ID, "user_id": it.UserID}).
		Suffix("RETURNING " + pantryCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Pantry.UpdateItem", sqlStr, args)

	out, err := scanPantryItem(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PantryItem{}, domain.ErrNotFound
		}
		return domain.PantryItem{}, err
	}
	return out, nil
}

func (r *PGRepo) DeleteItem(ctx context.Context, id domain.PantryItemID, owner domain.UserID) error {
	q := r.qb().Delete(r.table("pantry_items")).
		Where(sq.Eq{"id": id, "user_id": owner})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Pantry.DeleteItem", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGRepo) ItemsByUser(ctx context.Context, owner domain.UserID) ([]domain.PantryItem, error) {
	q := r.qb().Select(pantryCols).
		From(r.table("pantry_items")).
		Where(sq.Eq{"user_id": owner}).
		OrderBy("created_at DESC")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("Pantry.ItemsByUser", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PantryItem
	for rows.Next() {
		it, err := scanPantryItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
