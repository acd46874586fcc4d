package order

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

const orderColumns = `id, user_id, user_name, type, items, total_cents, total_items, details, status, created_at`

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

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return nil, err
	}
	detailsJSON, err := json.Marshal(o.Details)
	if err != nil {
		return nil, err
	}
	status := o.Status
	if status == "" {
		status = domain.OrderStatusPending
	}
	const q = `
INSERT INTO orders (id, user_id, user_name, type, items, total_cents, total_items, details, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + orderColumns
	out, err := r.scan(r.pool.QueryRow(ctx, q, o.ID, o.UserID, o.UserName, o.Type, itemsJSON, o.TotalCents, o.TotalItems, detailsJSON, status))
	if err != nil {
		r.logger.Errorf("order repo: create id=%s user_id=%s error=%v", o.ID, o.UserID, err)
		return nil, err
	}
	r.logger.Infof("order repo: created id=%s user_id=%s total_cents=%d items=%d", out.ID, out.UserID, out.TotalCents, out.TotalItems)
	return out, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.query(ctx, `
SELECT `+orderColumns+`
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
`, userID)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id, status string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		r.logger.Errorf("order repo: update status id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Infof("order repo: status id=%s status=%q", id, status)
	return nil
}

func (r *postgresRepo) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := r.pool.QueryRow(ctx, `SELECT count(*), COALESCE(sum(total_cents), 0)::bigint FROM orders`).Scan(&t.Count, &t.RevenueCents)
	return t, err
}

func (r *postgresRepo) query(ctx context.Context, q string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Errorf("order repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.Order{}
	for rows.Next() {
		o, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) scan(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var itemsJSON, detailsJSON []byte
	err := row.Scan(&o.ID, &o.UserID, &o.UserName, &o.Type, &itemsJSON, &o.TotalCents, &o.TotalItems, &detailsJSON, &o.Status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		r.logger.Errorf("order repo: decode items id=%s error=%v", o.ID, err)
		return nil, err
	}
	if len(detailsJSON) > 0 {
		if err := json.Unmarshal(detailsJSON, &o.Details); err != nil {
			r.logger.Errorf("order repo: decode details id=%s error=%v", o.ID, err)
			return nil, err
		}
	}
	return &o, nil
}
