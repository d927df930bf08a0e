package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/reedu-reengineering-education/foodmission-data-framework-sub001/internal/domain"
)

const foodCols = "id, name, category, unit, calories_per_100, image_key, created_by, created_at, updated_at"

func scanFood(row interface{ Scan(...any) error }) (domain.Food, error) {
	var f domain.Food
	err := row.Scan(&f.ID, &f.Name, &f.Category, &f.Unit, &f.CaloriesPer, &f.ImageKey, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

func (r *PGRepo) CreateFood(ctx context.Context, f domain.Food) (domain.Food, error) {
	q := r.qb().Insert(r.table("foods")).
		Columns("name", "category", "unit", "calories_per_100", "created_by").
		Values(f.Name, f.Category, f.Unit, f.CaloriesPer, f.CreatedBy).
		Suffix("RETURNING " + foodCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateFood", sqlStr, args)

	start := time.Now()
	out, err := scanFood(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("CreateFood scan error after %s: %v", time.Since(start), err)
		return domain.Food{}, err
	}
	r.logger.Printf("CreateFood ok in %s id=%s name=%q", time.Since(start), out.ID, out.Name)
	return out, nil
}

func (r *PGRepo) FoodByID(ctx context.Context, id domain.FoodID) (domain.Food, error) {
	q := r.qb().Select(foodCols).
		From(r.table("foods")).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("FoodByID", sqlStr, args)

	f, err := scanFood(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Food{}, domain.ErrNotFound
		}
		return domain.Food{}, err
	}
	return f, nil
}

func (r *PGRepo) UpdateFood(ctx context.Context, f domain.Food) (domain.Food, error) {
	q := r.qb().Update(r.table("foods")).
		Set("name", f.Name).
		Set("category", f.Category).
		Set("unit", f.Unit).
		Set("calories_per_100", f.CaloriesPer).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": f.ID}).
		Suffix("RETURNING " + foodCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdateFood", sqlStr, args)

	start := time.Now()
	out, err := scanFood(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Food{}, domain.ErrNotFound
		}
		r.logger.Printf("UpdateFood scan error after %s: %v", time.Since(start), err)
		return domain.Food{}, err
	}
	r.logger.Printf("UpdateFood ok in %s id=%s", time.Since(start), out.ID)
	return out, nil
}

func (r *PGRepo) DeleteFood(ctx context.Context, id domain.FoodID, owner domain.UserID) error {
	q := r.qb().Delete(r.table("foods")).
		Where(sq.Eq{"id": id, "created_by": owner})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("DeleteFood", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGRepo) FoodsList(ctx context.Context, f domain.FoodFilter) ([]domain.Food, error) {
	q := r.qb().Select(foodCols).From(r.table("foods"))
	q = applyFoodFilter(q, f)

	switch f.Sort {
	case domain.SortByNameDesc:
		q = q.OrderBy("name DESC")
	case domain.SortByCreatedAsc:
		q = q.OrderBy("created_at ASC")
	case domain.SortByCreatedDesc:
		q = q.OrderBy("created_at DESC")
	default:
		q = q.OrderBy("name ASC")
	}

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	q = q.Limit(uint64(limit))
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	sqlStr, args, _ := q.ToSql()
	r.logSQL("FoodsList", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Food, 0, limit)
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *PGRepo) FoodsCount(ctx context.Context, f domain.FoodFilter) (int64, error) {
	q := r.qb().Select("count(*)").From(r.table("foods"))
	q = applyFoodFilter(q, f)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("FoodsCount", sqlStr, args)

	var n int64
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PGRepo) SetFoodImage(ctx context.Context, id domain.FoodID, imageKey string) error {
	q := r.qb().Update(r.table("foods")).
		Set("image_key", imageKey).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("SetFoodImage", sqlStr, args)

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func applyFoodFilter(q sq.SelectBuilder, f domain.FoodFilter) sq.SelectBuilder {
	if f.Category != "" {
		q = q.Where(sq.Eq{"category": f.Category})
	}
	if f.Query != "" {
		q = q.Where(sq.ILike{"name": "%" + f.Query + "%"})
	}
	return q
}
