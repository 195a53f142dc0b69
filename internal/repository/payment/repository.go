package payment

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	// Create persists the session. If a session already exists for the
	// order code the existing row wins and is returned, making the call
	// safe under concurrent duplicate checkouts.
	Create(ctx context.Context, s domain.PaymentSession) (*domain.PaymentSession, error)
	GetByOrderCode(ctx context.Context, code int64) (*domain.PaymentSession, error)
}
