package address

import (
	"context"
	"errors"

	"storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// foreignKeyViolation is the Postgres error code raised when deleting an
// address still referenced by an order batch.
const foreignKeyViolation = "23503"

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, a domain.Address) (*domain.Address, error) {
	const q = `
INSERT INTO addresses (user_id, country, region, city, street, street_number)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text, created_at
`
	res := a
	err := r.pool.QueryRow(ctx, q, a.UserID, a.Country, a.Region, a.City, a.Street, a.StreetNumber).
		Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Address, error) {
	const q = `
SELECT id::text, user_id::text, country, region, city, street, street_number, created_at
FROM addresses
WHERE id = $1
`
	return r.fetch(ctx, q, id)
}

func (r *postgresRepo) GetOwned(ctx context.Context, userID, id string) (*domain.Address, error) {
	const q = `
SELECT id::text, user_id::text, country, region, city, street, street_number, created_at
FROM addresses
WHERE id = $1 AND user_id = $2
`
	return r.fetch(ctx, q, id, userID)
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Address, error) {
	const q = `
SELECT id::text, user_id::text, country, region, city, street, street_number, created_at
FROM addresses
WHERE user_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Address
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Country, &a.Region, &a.City, &a.Street, &a.StreetNumber, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *postgresRepo) Delete(ctx context.Context, userID, id string) error {
	const q = `
DELETE FROM addresses
WHERE id = $1 AND user_id = $2
`
	cmd, err := r.pool.Exec(ctx, q, id, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return domain.ErrConflict
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) fetch(ctx context.Context, q string, args ...interface{}) (*domain.Address, error) {
	var a domain.Address
	err := r.pool.QueryRow(ctx, q, args...).
		Scan(&a.ID, &a.UserID, &a.Country, &a.Region, &a.City, &a.Street, &a.StreetNumber, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
