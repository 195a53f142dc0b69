package order

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const foreignKeyViolation = "23503"

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

func (r *postgresRepo) CreateBatch(ctx context.Context, in CreateBatchInput) (*domain.OrderBatch, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var code int64
	if err := tx.QueryRow(ctx, `SELECT nextval('order_code_seq')`).Scan(&code); err != nil {
		return nil, err
	}

	batch := domain.OrderBatch{
		OrderCode:  code,
		UserID:     in.UserID,
		AddressID:  in.AddressID,
		Status:     domain.OrderPending,
		TotalCents: in.TotalCents,
	}
	err = tx.QueryRow(ctx, `
INSERT INTO order_batches (order_code, user_id, address_id, status, total_cents)
VALUES ($1, $2, $3, 'pending', $4)
RETURNING created_at
`, code, in.UserID, in.AddressID, in.TotalCents).Scan(&batch.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return nil, domain.ErrInvalidAddress
		}
		return nil, err
	}

	for _, line := range in.Lines {
		var out domain.OrderLine
		err := tx.QueryRow(ctx, `
INSERT INTO order_lines (order_code, item_id, item_name, quantity, unit_price_cents)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text
`, code, line.ItemID, line.ItemName, line.Quantity, line.UnitPriceCents).Scan(&out.ID)
		if err != nil {
			return nil, err
		}
		out.OrderCode = code
		out.ItemID = line.ItemID
		out.ItemName = line.ItemName
		out.Quantity = line.Quantity
		out.UnitPriceCents = line.UnitPriceCents
		batch.Lines = append(batch.Lines, out)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: created batch order_code=%d user_id=%s lines=%d", code, in.UserID, len(batch.Lines))
	return &batch, nil
}

func (r *postgresRepo) GetByCode(ctx context.Context, code int64) (*domain.OrderBatch, error) {
	const q = `
SELECT order_code, user_id::text, address_id::text, status, total_cents, created_at, settled_at
FROM order_batches
WHERE order_code = $1
`
	var batch domain.OrderBatch
	err := r.pool.QueryRow(ctx, q, code).Scan(
		&batch.OrderCode,
		&batch.UserID,
		&batch.AddressID,
		&batch.Status,
		&batch.TotalCents,
		&batch.CreatedAt,
		&batch.SettledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const linesQ = `
SELECT id::text, order_code, item_id::text, item_name, quantity, unit_price_cents, fulfilled
FROM order_lines
WHERE order_code = $1
ORDER BY id
`
	rows, err := r.pool.Query(ctx, linesQ, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderCode, &line.ItemID, &line.ItemName, &line.Quantity, &line.UnitPriceCents, &line.Fulfilled); err != nil {
			return nil, err
		}
		batch.Lines = append(batch.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.OrderBatch, error) {
	const q = `
SELECT order_code, user_id::text, address_id::text, status, total_cents, created_at, settled_at
FROM order_batches
WHERE user_id = $1
ORDER BY created_at DESC
`
	return r.list(ctx, q, userID)
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.OrderBatch, error) {
	const q = `
SELECT order_code, user_id::text, address_id::text, status, total_cents, created_at, settled_at
FROM order_batches
ORDER BY created_at DESC
`
	return r.list(ctx, q)
}

func (r *postgresRepo) TransitionStatus(ctx context.Context, code int64, from, to domain.OrderStatus) (bool, error) {
	const q = `
UPDATE order_batches
SET status = $3,
    settled_at = CASE WHEN $3 IN ('paid', 'failed') THEN now() ELSE settled_at END
WHERE order_code = $1 AND status = $2
`
	cmd, err := r.pool.Exec(ctx, q, code, from, to)
	if err != nil {
		return false, err
	}
	if cmd.RowsAffected() == 0 {
		return false, nil
	}
	r.logger.Printf("order repo: transition order_code=%d %s -> %s", code, from, to)
	return true, nil
}

func (r *postgresRepo) MarkLinesFulfilled(ctx context.Context, code int64) error {
	const q = `
UPDATE order_lines
SET fulfilled = TRUE
WHERE order_code = $1
`
	_, err := r.pool.Exec(ctx, q, code)
	return err
}

func (r *postgresRepo) FailStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `
UPDATE order_batches
SET status = 'failed', settled_at = now()
WHERE status = 'pending' AND created_at < $1
`
	cmd, err := r.pool.Exec(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *postgresRepo) list(ctx context.Context, q string, args ...interface{}) ([]domain.OrderBatch, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.OrderBatch
	for rows.Next() {
		var batch domain.OrderBatch
		if err := rows.Scan(&batch.OrderCode, &batch.UserID, &batch.AddressID, &batch.Status, &batch.TotalCents, &batch.CreatedAt, &batch.SettledAt); err != nil {
			return nil, err
		}
		result = append(result, batch)
	}
	return result, rows.Err()
}
