package payment

import (
	"context"
	"errors"

	"storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, s domain.PaymentSession) (*domain.PaymentSession, error) {
	const q = `
INSERT INTO payment_sessions (order_code, provider_session_id, redirect_url)
VALUES ($1, $2, $3)
ON CONFLICT (order_code) DO NOTHING
RETURNING order_code, provider_session_id, redirect_url, created_at
`
	var res domain.PaymentSession
	err := r.pool.QueryRow(ctx, q, s.OrderCode, s.ProviderSessionID, s.RedirectURL).
		Scan(&res.OrderCode, &res.ProviderSessionID, &res.RedirectURL, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost the insert race; the earlier session is authoritative.
			return r.GetByOrderCode(ctx, s.OrderCode)
		}
		return nil, err
	}
	return &res, nil
}

func (r *postgresRepo) GetByOrderCode(ctx context.Context, code int64) (*domain.PaymentSession, error) {
	const q = `
SELECT order_code, provider_session_id, redirect_url, created_at
FROM payment_sessions
WHERE order_code = $1
`
	var res domain.PaymentSession
	err := r.pool.QueryRow(ctx, q, code).
		Scan(&res.OrderCode, &res.ProviderSessionID, &res.RedirectURL, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}
