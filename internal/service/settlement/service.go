// Package settlement consumes provider-signed confirmation events and
// transitions pending order batches to their terminal state. Processing is
// structured as verify, look up, transition with guard, emit side effect, so
// redelivered events are no-ops after the first transition.
package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"storefront/internal/domain"
)

const (
	EventPaid    = "checkout.session.completed"
	EventExpired = "checkout.session.expired"
	EventFailed  = "payment.failed"
)

const transitionAttempts = 3

// Outcome values reported in the acknowledgement.
const (
	OutcomeProcessed    = "processed"
	OutcomeDuplicate    = "duplicate"
	OutcomeUnknownOrder = "unknown_order"
	OutcomeIgnored      = "ignored"
)

// Ack tells the transport layer whether the event was accepted. Accepted
// covers processed, duplicate and unknown-order events; only a signature
// failure is rejected.
type Ack struct {
	Accepted bool   `json:"accepted"`
	Outcome  string `json:"outcome,omitempty"`
}

type event struct {
	Type string `json:"type"`
	Data struct {
		OrderCode int64  `json:"order_code"`
		SessionID string `json:"session_id"`
	} `json:"data"`
}

type Service struct {
	verifier  *Verifier
	orders    orderRepo
	items     itemRepo
	addresses addressRepo
	users     userRepo
	notifier  notifier
	ownerTo   string
	logger    *log.Logger
	sleep     func(time.Duration)
}

type orderRepo interface {
	GetByCode(ctx context.Context, code int64) (*domain.OrderBatch, error)
	TransitionStatus(ctx context.Context, code int64, from, to domain.OrderStatus) (bool, error)
	MarkLinesFulfilled(ctx context.Context, code int64) error
}

type itemRepo interface {
	AddSold(ctx context.Context, id string, quantity int) error
}

type addressRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Address, error)
}

type userRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type notifier interface {
	Send(to, subject, body string) error
}

func New(verifier *Verifier, orders orderRepo, items itemRepo, addresses addressRepo, users userRepo, n notifier, ownerTo string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		verifier:  verifier,
		orders:    orders,
		items:     items,
		addresses: addresses,
		users:     users,
		notifier:  n,
		ownerTo:   ownerTo,
		logger:    logger,
		sleep:     time.Sleep,
	}
}

// HandleEvent verifies and processes one settlement event. The returned
// error is non-nil only for signature failures and internal errors; every
// other case is acknowledged so the provider stops redelivering.
func (s *Service) HandleEvent(ctx context.Context, payload []byte, sigHeader string) (Ack, error) {
	if err := s.verifier.Verify(payload, sigHeader, time.Now()); err != nil {
		s.logger.Printf("settlement: signature rejected: %v", err)
		return Ack{Accepted: false}, err
	}

	var ev event
	if err := json.Unmarshal(payload, &ev); err != nil {
		// Signed but unparsable; acknowledge so the provider stops
		// redelivering something we will never understand.
		s.logger.Printf("settlement: unparsable payload: %v", err)
		return Ack{Accepted: true, Outcome: OutcomeIgnored}, nil
	}

	var target domain.OrderStatus
	switch ev.Type {
	case EventPaid:
		target = domain.OrderPaid
	case EventExpired, EventFailed:
		target = domain.OrderFailed
	default:
		s.logger.Printf("settlement: ignoring event type=%s", ev.Type)
		return Ack{Accepted: true, Outcome: OutcomeIgnored}, nil
	}

	batch, err := s.orders.GetByCode(ctx, ev.Data.OrderCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Possibly another deployment's order; acknowledge without
			// leaking whether the code exists.
			s.logger.Printf("settlement: %v order_code=%d", domain.ErrUnknownOrder, ev.Data.OrderCode)
			return Ack{Accepted: true, Outcome: OutcomeUnknownOrder}, nil
		}
		return Ack{Accepted: false}, err
	}

	if batch.Status != domain.OrderPending {
		return Ack{Accepted: true, Outcome: OutcomeDuplicate}, nil
	}

	transitioned, err := s.transition(ctx, ev.Data.OrderCode, target)
	if err != nil {
		return Ack{Accepted: false}, err
	}
	if !transitioned {
		// A concurrent event settled the batch first.
		return Ack{Accepted: true, Outcome: OutcomeDuplicate}, nil
	}

	if target == domain.OrderPaid {
		s.fulfill(ctx, batch)
	}
	return Ack{Accepted: true, Outcome: OutcomeProcessed}, nil
}

// transition attempts the guarded pending->target update with bounded
// retries. It reports false without error when the batch reached a terminal
// state through another writer.
func (s *Service) transition(ctx context.Context, code int64, target domain.OrderStatus) (bool, error) {
	var lastErr error
	for attempt := 1; attempt <= transitionAttempts; attempt++ {
		ok, err := s.orders.TransitionStatus(ctx, code, domain.OrderPending, target)
		if err != nil {
			lastErr = err
			s.sleep(time.Duration(attempt) * 50 * time.Millisecond)
			continue
		}
		if ok {
			return true, nil
		}
		batch, err := s.orders.GetByCode(ctx, code)
		if err != nil {
			return false, err
		}
		if batch.Status != domain.OrderPending {
			return false, nil
		}
		// Still pending but our update matched nothing: a conflicting
		// writer is in flight, retry.
		s.sleep(time.Duration(attempt) * 50 * time.Millisecond)
	}
	if lastErr != nil {
		return false, lastErr
	}
	return false, fmt.Errorf("settle order %d: %w", code, domain.ErrConflict)
}

// fulfill runs the post-payment side effects. None of them may undo the paid
// transition; failures are logged and dropped.
func (s *Service) fulfill(ctx context.Context, batch *domain.OrderBatch) {
	if err := s.orders.MarkLinesFulfilled(ctx, batch.OrderCode); err != nil {
		s.logger.Printf("settlement: mark fulfilled order_code=%d error=%v", batch.OrderCode, err)
	}
	for _, line := range batch.Lines {
		if err := s.items.AddSold(ctx, line.ItemID, line.Quantity); err != nil {
			s.logger.Printf("settlement: add sold item_id=%s error=%v", line.ItemID, err)
		}
	}
	if s.notifier == nil || s.ownerTo == "" {
		return
	}
	if err := s.notifier.Send(s.ownerTo, fmt.Sprintf("Order %d paid", batch.OrderCode), s.notificationBody(ctx, batch)); err != nil {
		s.logger.Printf("settlement: notify order_code=%d error=%v", batch.OrderCode, err)
	}
}

func (s *Service) notificationBody(ctx context.Context, batch *domain.OrderBatch) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order %d was paid.\n\nItems:\n", batch.OrderCode)
	for _, line := range batch.Lines {
		fmt.Fprintf(&b, "  %s x %d\n", line.ItemName, line.Quantity)
	}
	fmt.Fprintf(&b, "Total: %d.%02d\n", batch.TotalCents/100, batch.TotalCents%100)

	if user, err := s.users.GetByID(ctx, batch.UserID); err == nil {
		fmt.Fprintf(&b, "\nCustomer: %s <%s>\n", user.Name, user.Email)
	}
	if addr, err := s.addresses.GetByID(ctx, batch.AddressID); err == nil {
		fmt.Fprintf(&b, "Ship to: %s %s\n%s, %s, %s\n",
			addr.Street, addr.StreetNumber, addr.City, addr.Region, addr.Country)
	}
	return b.String()
}
