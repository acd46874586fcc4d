package fooditem

import (
	"context"
	"errors"
	"fmt"

	"foodorder/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const itemColumns = `id, restaurant_id, name, description, price_cents, category, image, rating, is_trending, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.SugaredLogger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.SugaredLogger) Repository {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.FoodItem, error) {
	return r.query(ctx, "list", `SELECT `+itemColumns+` FROM food_items ORDER BY created_at ASC, id ASC`)
}

func (r *postgresRepo) ListByRestaurant(ctx context.Context, restaurantID string) ([]domain.FoodItem, error) {
	items, err := r.query(ctx, "list by restaurant", `
SELECT `+itemColumns+`
FROM food_items
WHERE restaurant_id = $1
ORDER BY created_at ASC, id ASC
`, restaurantID)
	if err == nil {
		r.logger.Debugf("food item repo: list restaurant_id=%s count=%d", restaurantID, len(items))
	}
	return items, err
}

func (r *postgresRepo) ListTrending(ctx context.Context) ([]domain.FoodItem, error) {
	return r.query(ctx, "list trending", `
SELECT `+itemColumns+`
FROM food_items
WHERE is_trending
ORDER BY created_at ASC, id ASC
`)
}

func (r *postgresRepo) ListByRating(ctx context.Context) ([]domain.FoodItem, error) {
	return r.query(ctx, "list by rating", `
SELECT `+itemColumns+`
FROM food_items
ORDER BY rating DESC, created_at ASC, id ASC
`)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.FoodItem, error) {
	item, err := r.scan(r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM food_items WHERE id = $1`, id))
	if errors.Is(err, domain.ErrNotFound) {
		r.logger.Debugf("food item repo: get id=%s not found", id)
	}
	return item, err
}

func (r *postgresRepo) Create(ctx context.Context, item domain.FoodItem) (*domain.FoodItem, error) {
	const q = `
INSERT INTO food_items (id, restaurant_id, name, description, price_cents, category, image, rating, is_trending)
VALUES (COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + itemColumns
	out, err := r.scan(r.pool.QueryRow(ctx, q, item.ID, item.RestaurantID, item.Name, item.Description, item.PriceCents, item.Category, item.Image, item.Rating, item.IsTrending))
	if err != nil {
		r.logger.Warnf("food item repo: create restaurant_id=%s name=%q error=%v", item.RestaurantID, item.Name, err)
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) Update(ctx context.Context, item domain.FoodItem) (*domain.FoodItem, error) {
	const q = `
UPDATE food_items
SET restaurant_id = $2, name = $3, description = $4, price_cents = $5, category = $6, image = $7, rating = $8, is_trending = $9
WHERE id = $1
RETURNING ` + itemColumns
	return r.scan(r.pool.QueryRow(ctx, q, item.ID, item.RestaurantID, item.Name, item.Description, item.PriceCents, item.Category, item.Image, item.Rating, item.IsTrending))
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM food_items WHERE id = $1`, id)
	if err != nil {
		r.logger.Errorf("food item repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Upsert(ctx context.Context, item domain.FoodItem) (*domain.FoodItem, error) {
	const q = `
INSERT INTO food_items (id, restaurant_id, name, description, price_cents, category, image, rating, is_trending)
VALUES (COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (restaurant_id, name) DO UPDATE SET
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    category = EXCLUDED.category,
    image = COALESCE(NULLIF(EXCLUDED.image, ''), food_items.image),
    rating = EXCLUDED.rating,
    is_trending = EXCLUDED.is_trending
RETURNING ` + itemColumns
	out, err := r.scan(r.pool.QueryRow(ctx, q, item.ID, item.RestaurantID, item.Name, item.Description, item.PriceCents, item.Category, item.Image, item.Rating, item.IsTrending))
	if err != nil {
		r.logger.Errorf("food item repo: upsert restaurant_id=%s name=%q error=%v", item.RestaurantID, item.Name, err)
		return nil, err
	}
	if item.ID != "" && out.ID != item.ID {
		return nil, fmt.Errorf("food item repo: id mismatch for name=%q restaurant_id=%s existing_id=%s import_id=%s", item.Name, item.RestaurantID, out.ID, item.ID)
	}
	r.logger.Infof("food item repo: upserted name=%q restaurant_id=%s id=%s", out.Name, out.RestaurantID, out.ID)
	return out, nil
}

func (r *postgresRepo) Categories(ctx context.Context) ([]string, error) {
	const q = `
SELECT category
FROM food_items
WHERE category <> ''
GROUP BY category
ORDER BY min(created_at) ASC, category ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Errorf("food item repo: categories error=%v", err)
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *postgresRepo) query(ctx context.Context, op, q string, args ...interface{}) ([]domain.FoodItem, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Errorf("food item repo: %s error=%v", op, err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.FoodItem{}
	for rows.Next() {
		item, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		r.logger.Errorf("food item repo: %s rows error=%v", op, err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) scan(row pgx.Row) (*domain.FoodItem, error) {
	var it domain.FoodItem
	err := row.Scan(&it.ID, &it.RestaurantID, &it.Name, &it.Description, &it.PriceCents, &it.Category, &it.Image, &it.Rating, &it.IsTrending, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, domain.ErrAlreadyExists
			case "23503":
				return nil, domain.Invalid("restaurantId", "restaurant does not exist")
			}
		}
		return nil, err
	}
	return &it, nil
}
