package user

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Upsert(ctx context.Context, u domain.User) (*domain.User, error)
}
