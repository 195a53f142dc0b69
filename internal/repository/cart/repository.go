package cart

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	// AddOrIncrement creates the (user, item) line with the given quantity
	// or adds delta to the existing one, setting in_cart. The arithmetic
	// happens inside a single statement so concurrent requests from the
	// same user cannot lose updates.
	AddOrIncrement(ctx context.Context, userID, itemID string, delta int) (*domain.CartLine, error)
	// SetQuantity sets an absolute quantity; values <= 0 soft-empty the
	// line (quantity 0, in_cart false) without deleting the row.
	SetQuantity(ctx context.Context, userID, lineID string, quantity int) (*domain.CartLine, error)
	SetWishlist(ctx context.Context, userID, itemID string, on bool) (*domain.CartLine, error)
	// Snapshot returns the in-cart lines joined with current item name and
	// price.
	Snapshot(ctx context.Context, userID string) ([]domain.SnapshotLine, error)
	// ClearInCart zeroes every in-cart line for the user and adds the
	// consumed quantities to ordered_count.
	ClearInCart(ctx context.Context, userID string) error
}
