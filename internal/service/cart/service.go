package cart

import (
	"context"

	"storefront/internal/domain"
)

type Service struct {
	repo cartRepo
}

type cartRepo interface {
	AddOrIncrement(ctx context.Context, userID, itemID string, delta int) (*domain.CartLine, error)
	SetQuantity(ctx context.Context, userID, lineID string, quantity int) (*domain.CartLine, error)
	SetWishlist(ctx context.Context, userID, itemID string, on bool) (*domain.CartLine, error)
	Snapshot(ctx context.Context, userID string) ([]domain.SnapshotLine, error)
}

func New(repo cartRepo) *Service {
	return &Service{repo: repo}
}

// AddOrIncrement adds delta to the user's line for the item, creating the
// line with quantity 1 on first add.
func (s *Service) AddOrIncrement(ctx context.Context, userID, itemID string, delta int) (*domain.CartLine, error) {
	if delta == 0 {
		return nil, domain.ErrInvalidQuantity
	}
	return s.repo.AddOrIncrement(ctx, userID, itemID, delta)
}

// SetQuantity sets an absolute quantity; anything <= 0 soft-empties the line.
func (s *Service) SetQuantity(ctx context.Context, userID, lineID string, quantity int) (*domain.CartLine, error) {
	return s.repo.SetQuantity(ctx, userID, lineID, quantity)
}

func (s *Service) SetWishlist(ctx context.Context, userID, itemID string, on bool) (*domain.CartLine, error) {
	return s.repo.SetWishlist(ctx, userID, itemID, on)
}

// Snapshot returns the priced in-cart view with the running total.
func (s *Service) Snapshot(ctx context.Context, userID string) (*domain.CartSnapshot, error) {
	lines, err := s.repo.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	snap := &domain.CartSnapshot{Lines: lines}
	for _, line := range lines {
		snap.TotalCents += line.UnitPriceCents * int64(line.Quantity)
	}
	return snap, nil
}
