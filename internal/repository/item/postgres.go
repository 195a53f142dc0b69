package item

import (
	"context"
	"errors"
	"io"
	"log"

	"storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Item, error) {
	const q = `
SELECT id::text, code, name, COALESCE(description, ''), price_cents, provider_price_code, currency, views, sold, created_at
FROM items
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("item repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Item
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.Code, &it.Name, &it.Description, &it.PriceCents, &it.ProviderPriceCode, &it.Currency, &it.Views, &it.Sold, &it.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	const q = `
SELECT id::text, code, name, COALESCE(description, ''), price_cents, provider_price_code, currency, views, sold, created_at
FROM items
WHERE id = $1
`
	var it domain.Item
	err := r.pool.QueryRow(ctx, q, id).Scan(&it.ID, &it.Code, &it.Name, &it.Description, &it.PriceCents, &it.ProviderPriceCode, &it.Currency, &it.Views, &it.Sold, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("item repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &it, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, item domain.Item) (*domain.Item, error) {
	const q = `
INSERT INTO items (code, name, description, price_cents, provider_price_code, currency)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
ON CONFLICT (code) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    provider_price_code = EXCLUDED.provider_price_code,
    currency = EXCLUDED.currency
RETURNING id::text, views, sold, created_at
`
	res := item
	err := r.pool.QueryRow(ctx, q,
		item.Code,
		item.Name,
		item.Description,
		item.PriceCents,
		item.ProviderPriceCode,
		item.Currency,
	).Scan(&res.ID, &res.Views, &res.Sold, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("item repo: upsert code=%s error=%v", item.Code, err)
		return nil, err
	}
	r.logger.Printf("item repo: upserted code=%s id=%s", res.Code, res.ID)
	return &res, nil
}

func (r *postgresRepo) AddSold(ctx context.Context, id string, quantity int) error {
	const q = `
UPDATE items
SET sold = sold + $2
WHERE id = $1
`
	cmd, err := r.pool.Exec(ctx, q, id, quantity)
	if err != nil {
		r.logger.Printf("item repo: add sold id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
