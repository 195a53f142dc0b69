// Package checkout turns a cart snapshot into a pending order batch and a
// hosted payment session. The cart is cleared only after the provider
// returned a redirect URL; a gateway failure leaves the cart intact and the
// batch failed, never pending without a session.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"storefront/internal/domain"
	"storefront/internal/gateway/hostedpay"
	orderrepo "storefront/internal/repository/order"
)

type Service struct {
	carts     cartRepo
	addresses addressRepo
	orders    orderRepo
	sessions  sessionRepo
	gateway   paymentGateway
	logger    *log.Logger
}

type cartRepo interface {
	Snapshot(ctx context.Context, userID string) ([]domain.SnapshotLine, error)
	ClearInCart(ctx context.Context, userID string) error
}

type addressRepo interface {
	GetOwned(ctx context.Context, userID, id string) (*domain.Address, error)
}

type orderRepo interface {
	CreateBatch(ctx context.Context, in orderrepo.CreateBatchInput) (*domain.OrderBatch, error)
	TransitionStatus(ctx context.Context, code int64, from, to domain.OrderStatus) (bool, error)
}

type sessionRepo interface {
	Create(ctx context.Context, s domain.PaymentSession) (*domain.PaymentSession, error)
	GetByOrderCode(ctx context.Context, code int64) (*domain.PaymentSession, error)
}

type paymentGateway interface {
	CreateSession(ctx context.Context, req hostedpay.SessionRequest) (*hostedpay.SessionResponse, error)
}

func New(carts cartRepo, addresses addressRepo, orders orderRepo, sessions sessionRepo, gateway paymentGateway, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		carts:     carts,
		addresses: addresses,
		orders:    orders,
		sessions:  sessions,
		gateway:   gateway,
		logger:    logger,
	}
}

// Checkout allocates an order batch from the user's cart and returns the
// provider redirect URL.
func (s *Service) Checkout(ctx context.Context, userID, addressID string) (string, error) {
	batch, lines, err := s.Allocate(ctx, userID, addressID)
	if err != nil {
		return "", err
	}

	redirectURL, err := s.CreateSession(ctx, batch.OrderCode, lines)
	if err != nil {
		// The batch must not stay pending without a payment session.
		if ok, terr := s.orders.TransitionStatus(ctx, batch.OrderCode, domain.OrderPending, domain.OrderFailed); terr != nil || !ok {
			s.logger.Printf("checkout: fail batch order_code=%d ok=%t error=%v", batch.OrderCode, ok, terr)
		}
		return "", err
	}

	// Cart lines were consumed by the session; zero them. A failure here is
	// logged rather than surfaced: the order and session already exist and
	// settlement does not depend on the cart.
	if err := s.carts.ClearInCart(ctx, userID); err != nil {
		s.logger.Printf("checkout: clear cart user_id=%s order_code=%d error=%v", userID, batch.OrderCode, err)
	}

	return redirectURL, nil
}

// Allocate converts the user's cart snapshot into a pending order batch,
// copying current prices and names into the order lines.
func (s *Service) Allocate(ctx context.Context, userID, addressID string) (*domain.OrderBatch, []domain.SnapshotLine, error) {
	lines, err := s.carts.Snapshot(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if len(lines) == 0 {
		return nil, nil, domain.ErrEmptyCart
	}

	if _, err := s.addresses.GetOwned(ctx, userID, addressID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrInvalidAddress
		}
		return nil, nil, err
	}

	in := orderrepo.CreateBatchInput{UserID: userID, AddressID: addressID}
	for _, line := range lines {
		in.TotalCents += line.UnitPriceCents * int64(line.Quantity)
		in.Lines = append(in.Lines, orderrepo.BatchLine{
			ItemID:         line.ItemID,
			ItemName:       line.ItemName,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
		})
	}

	batch, err := s.orders.CreateBatch(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	return batch, lines, nil
}

// CreateSession obtains a hosted checkout session for the order code. It is
// idempotent: an existing session short-circuits with the stored redirect
// URL and the provider is not called again.
func (s *Service) CreateSession(ctx context.Context, orderCode int64, lines []domain.SnapshotLine) (string, error) {
	existing, err := s.sessions.GetByOrderCode(ctx, orderCode)
	if err == nil {
		return existing.RedirectURL, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	req := hostedpay.SessionRequest{OrderCode: orderCode}
	for _, line := range lines {
		req.LineItems = append(req.LineItems, hostedpay.LineItem{
			PriceCode: line.ProviderPriceCode,
			Quantity:  line.Quantity,
		})
	}

	resp, err := s.gateway.CreateSession(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create session for order %d: %w", orderCode, err)
	}

	sess, err := s.sessions.Create(ctx, domain.PaymentSession{
		OrderCode:         orderCode,
		ProviderSessionID: resp.SessionID,
		RedirectURL:       resp.RedirectURL,
	})
	if err != nil {
		return "", err
	}
	return sess.RedirectURL, nil
}
