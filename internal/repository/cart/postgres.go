package cart

import (
	"context"
	"errors"

	"storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const lineColumns = `id::text, user_id::text, item_id::text, quantity, in_cart, wishlist, ordered_count, created_at, updated_at`

func (r *postgresRepo) AddOrIncrement(ctx context.Context, userID, itemID string, delta int) (*domain.CartLine, error) {
	const q = `
INSERT INTO cart_lines (user_id, item_id, quantity, in_cart)
VALUES ($1, $2, GREATEST($3, 1), TRUE)
ON CONFLICT (user_id, item_id) DO UPDATE SET
    quantity = cart_lines.quantity + $3,
    in_cart = cart_lines.quantity + $3 > 0,
    updated_at = now()
RETURNING ` + lineColumns
	line, err := r.scanLine(r.pool.QueryRow(ctx, q, userID, itemID, delta))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case foreignKeyViolation:
				return nil, domain.ErrNotFound
			case checkViolation:
				return nil, domain.ErrInvalidQuantity
			}
		}
		return nil, err
	}
	return line, nil
}

func (r *postgresRepo) SetQuantity(ctx context.Context, userID, lineID string, quantity int) (*domain.CartLine, error) {
	const q = `
UPDATE cart_lines
SET quantity = GREATEST($3, 0),
    in_cart = $3 > 0,
    updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + lineColumns
	line, err := r.scanLine(r.pool.QueryRow(ctx, q, lineID, userID, quantity))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return line, nil
}

func (r *postgresRepo) SetWishlist(ctx context.Context, userID, itemID string, on bool) (*domain.CartLine, error) {
	const q = `
INSERT INTO cart_lines (user_id, item_id, quantity, in_cart, wishlist)
VALUES ($1, $2, 0, FALSE, $3)
ON CONFLICT (user_id, item_id) DO UPDATE SET
    wishlist = $3,
    updated_at = now()
RETURNING ` + lineColumns
	line, err := r.scanLine(r.pool.QueryRow(ctx, q, userID, itemID, on))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return line, nil
}

func (r *postgresRepo) Snapshot(ctx context.Context, userID string) ([]domain.SnapshotLine, error) {
	const q = `
SELECT cl.id::text, cl.item_id::text, i.name, i.provider_price_code, cl.quantity, i.price_cents
FROM cart_lines cl
JOIN items i ON i.id = cl.item_id
WHERE cl.user_id = $1 AND cl.in_cart
ORDER BY cl.created_at ASC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SnapshotLine
	for rows.Next() {
		var line domain.SnapshotLine
		if err := rows.Scan(&line.LineID, &line.ItemID, &line.ItemName, &line.ProviderPriceCode, &line.Quantity, &line.UnitPriceCents); err != nil {
			return nil, err
		}
		result = append(result, line)
	}
	return result, rows.Err()
}

func (r *postgresRepo) ClearInCart(ctx context.Context, userID string) error {
	const q = `
UPDATE cart_lines
SET ordered_count = ordered_count + quantity,
    quantity = 0,
    in_cart = FALSE,
    updated_at = now()
WHERE user_id = $1 AND in_cart
`
	_, err := r.pool.Exec(ctx, q, userID)
	return err
}

func (r *postgresRepo) scanLine(row pgx.Row) (*domain.CartLine, error) {
	var line domain.CartLine
	err := row.Scan(
		&line.ID,
		&line.UserID,
		&line.ItemID,
		&line.Quantity,
		&line.InCart,
		&line.Wishlist,
		&line.OrderedCount,
		&line.CreatedAt,
		&line.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &line, nil
}
