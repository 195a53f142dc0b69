package order

import (
	"context"
	"time"

	"storefront/internal/domain"
)

type BatchLine struct {
	ItemID         string
	ItemName       string
	Quantity       int
	UnitPriceCents int64
}

type CreateBatchInput struct {
	UserID     string
	AddressID  string
	TotalCents int64
	Lines      []BatchLine
}

type Repository interface {
	// CreateBatch allocates the next order code from the database sequence
	// and persists the batch with its lines in one transaction. The
	// sequence linearizes allocation across concurrent checkouts.
	CreateBatch(ctx context.Context, in CreateBatchInput) (*domain.OrderBatch, error)
	GetByCode(ctx context.Context, code int64) (*domain.OrderBatch, error)
	ListByUser(ctx context.Context, userID string) ([]domain.OrderBatch, error)
	ListAll(ctx context.Context) ([]domain.OrderBatch, error)
	// TransitionStatus performs a conditional update guarded on the current
	// status. It reports false when no row matched, which callers use as
	// the idempotency / race signal.
	TransitionStatus(ctx context.Context, code int64, from, to domain.OrderStatus) (bool, error)
	MarkLinesFulfilled(ctx context.Context, code int64) error
	// FailStalePending fails every pending batch created before cutoff and
	// returns how many were transitioned.
	FailStalePending(ctx context.Context, cutoff time.Time) (int64, error)
}
