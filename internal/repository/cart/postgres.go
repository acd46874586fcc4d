package cart

import (
	"context"
	"encoding/json"
	"errors"

	"foodorder/internal/cart"
	"foodorder/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

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

func (r *postgresRepo) Get(ctx context.Context, userID string) (cart.State, error) {
	var version uint64
	err := r.pool.QueryRow(ctx, `SELECT version FROM carts WHERE user_id = $1`, userID).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cart.Empty(), domain.ErrNotFound
		}
		r.logger.Errorf("cart repo: get user_id=%s error=%v", userID, err)
		return cart.Empty(), err
	}

	const linesQuery = `
SELECT product_id, name, image, unit_price_cents, quantity, addons, restaurant_id
FROM cart_lines
WHERE user_id = $1
ORDER BY position ASC
`
	rows, err := r.pool.Query(ctx, linesQuery, userID)
	if err != nil {
		return cart.Empty(), err
	}
	defer rows.Close()

	var items []cart.LineItem
	for rows.Next() {
		var line cart.LineItem
		var addOnsJSON []byte
		if err := rows.Scan(&line.ID, &line.Name, &line.Image, &line.UnitPriceCents, &line.Quantity, &addOnsJSON, &line.RestaurantID); err != nil {
			return cart.Empty(), err
		}
		if err := json.Unmarshal(addOnsJSON, &line.AddOns); err != nil {
			r.logger.Errorf("cart repo: decode addons user_id=%s product_id=%s error=%v", userID, line.ID, err)
			return cart.Empty(), err
		}
		items = append(items, line)
	}
	if err := rows.Err(); err != nil {
		return cart.Empty(), err
	}

	// Totals are recomputed from the lines rather than read back.
	s := cart.FromItems(items)
	s.Version = version
	return s, nil
}

func (r *postgresRepo) Save(ctx context.Context, userID string, s cart.State) (bool, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
INSERT INTO carts (user_id, version, total_items, total_cents, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (user_id) DO UPDATE SET
    version = EXCLUDED.version,
    total_items = EXCLUDED.total_items,
    total_cents = EXCLUDED.total_cents,
    updated_at = now()
WHERE carts.version < EXCLUDED.version
`, userID, s.Version, s.TotalItems, s.TotalPriceCents)
	if err != nil {
		r.logger.Errorf("cart repo: save user_id=%s version=%d error=%v", userID, s.Version, err)
		return false, err
	}
	if cmd.RowsAffected() == 0 {
		r.logger.Debugf("cart repo: stale save user_id=%s version=%d", userID, s.Version)
		return false, nil
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE user_id = $1`, userID); err != nil {
		return false, err
	}

	batch := &pgx.Batch{}
	for i, line := range s.Items {
		addOns := line.AddOns
		if addOns == nil {
			addOns = []cart.AddOn{}
		}
		addOnsJSON, err := json.Marshal(addOns)
		if err != nil {
			return false, err
		}
		batch.Queue(`
INSERT INTO cart_lines (user_id, position, product_id, name, image, unit_price_cents, quantity, addons, restaurant_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`, userID, i, line.ID, line.Name, line.Image, line.UnitPriceCents, line.Quantity, addOnsJSON, line.RestaurantID)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			r.logger.Errorf("cart repo: save lines user_id=%s error=%v", userID, err)
			return false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	r.logger.Debugf("cart repo: saved user_id=%s version=%d lines=%d", userID, s.Version, len(s.Items))
	return true, nil
}

func (r *postgresRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	return err
}
