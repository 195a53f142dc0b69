package item

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Item, error)
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	Upsert(ctx context.Context, item domain.Item) (*domain.Item, error)
	AddSold(ctx context.Context, id string, quantity int) error
}
