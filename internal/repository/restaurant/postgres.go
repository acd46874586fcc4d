package restaurant

import (
	"context"
	"encoding/json"
	"errors"

	"foodorder/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const restaurantColumns = `id, name, rating, delivery_time, image, cuisine, distance, created_at`

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

func (r *postgresRepo) List(ctx context.Context) ([]domain.Restaurant, error) {
	const q = `SELECT ` + restaurantColumns + ` FROM restaurants ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Errorf("restaurant repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.Restaurant{}
	for rows.Next() {
		rest, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rest)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Debugf("restaurant repo: list count=%d", len(result))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	const q = `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = $1`
	return r.scan(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) Create(ctx context.Context, rest domain.Restaurant) (*domain.Restaurant, error) {
	cuisine, err := encodeCuisine(rest.Cuisine)
	if err != nil {
		return nil, err
	}
	const q = `
INSERT INTO restaurants (id, name, rating, delivery_time, image, cuisine, distance)
VALUES (COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3, $4, $5, $6, $7)
RETURNING ` + restaurantColumns
	out, err := r.scan(r.pool.QueryRow(ctx, q, rest.ID, rest.Name, rest.Rating, rest.DeliveryTime, rest.Image, cuisine, rest.Distance))
	if err == nil {
		r.logger.Infof("restaurant repo: created id=%s name=%q", out.ID, out.Name)
	}
	return out, err
}

func (r *postgresRepo) Update(ctx context.Context, rest domain.Restaurant) (*domain.Restaurant, error) {
	cuisine, err := encodeCuisine(rest.Cuisine)
	if err != nil {
		return nil, err
	}
	const q = `
UPDATE restaurants
SET name = $2, rating = $3, delivery_time = $4, image = $5, cuisine = $6, distance = $7
WHERE id = $1
RETURNING ` + restaurantColumns
	return r.scan(r.pool.QueryRow(ctx, q, rest.ID, rest.Name, rest.Rating, rest.DeliveryTime, rest.Image, cuisine, rest.Distance))
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
	if err != nil {
		r.logger.Errorf("restaurant repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM restaurants`).Scan(&n)
	return n, err
}

func (r *postgresRepo) scan(row pgx.Row) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	var cuisineJSON []byte
	err := row.Scan(&rest.ID, &rest.Name, &rest.Rating, &rest.DeliveryTime, &rest.Image, &cuisineJSON, &rest.Distance, &rest.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Errorf("restaurant repo: scan error=%v", err)
		return nil, err
	}
	rest.Cuisine = []string{}
	if len(cuisineJSON) > 0 {
		if err := json.Unmarshal(cuisineJSON, &rest.Cuisine); err != nil {
			r.logger.Errorf("restaurant repo: decode cuisine id=%s error=%v", rest.ID, err)
			return nil, err
		}
	}
	return &rest, nil
}

func encodeCuisine(c []string) ([]byte, error) {
	if c == nil {
		c = []string{}
	}
	return json.Marshal(c)
}
