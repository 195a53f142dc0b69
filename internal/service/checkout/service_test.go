package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/gateway/hostedpay"
	orderrepo "storefront/internal/repository/order"
)

type stubCartRepo struct {
	lines      []domain.SnapshotLine
	snapErr    error
	clearErr   error
	clearCalls int
}

func (s *stubCartRepo) Snapshot(_ context.Context, _ string) ([]domain.SnapshotLine, error) {
	return s.lines, s.snapErr
}

func (s *stubCartRepo) ClearInCart(_ context.Context, _ string) error {
	s.clearCalls++
	return s.clearErr
}

type stubAddressRepo struct {
	addr *domain.Address
	err  error
}

func (s *stubAddressRepo) GetOwned(_ context.Context, _, _ string) (*domain.Address, error) {
	return s.addr, s.err
}

type stubOrderRepo struct {
	mu          sync.Mutex
	nextCode    int64
	created     []orderrepo.CreateBatchInput
	createErr   error
	transitions []string
}

func (s *stubOrderRepo) CreateBatch(_ context.Context, in orderrepo.CreateBatchInput) (*domain.OrderBatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.nextCode++
	s.created = append(s.created, in)
	return &domain.OrderBatch{
		OrderCode:  s.nextCode,
		UserID:     in.UserID,
		AddressID:  in.AddressID,
		Status:     domain.OrderPending,
		TotalCents: in.TotalCents,
	}, nil
}

func (s *stubOrderRepo) TransitionStatus(_ context.Context, code int64, from, to domain.OrderStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transitions = append(s.transitions, fmt.Sprintf("%d:%s->%s", code, from, to))
	return true, nil
}

type stubSessionRepo struct {
	mu       sync.Mutex
	existing *domain.PaymentSession
	sessions map[int64]domain.PaymentSession
}

func (s *stubSessionRepo) Create(_ context.Context, sess domain.PaymentSession) (*domain.PaymentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions == nil {
		s.sessions = make(map[int64]domain.PaymentSession)
	}
	if prior, ok := s.sessions[sess.OrderCode]; ok {
		return &prior, nil
	}
	s.sessions[sess.OrderCode] = sess
	return &sess, nil
}

func (s *stubSessionRepo) GetByOrderCode(_ context.Context, code int64) (*domain.PaymentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.existing != nil && s.existing.OrderCode == code {
		return s.existing, nil
	}
	if sess, ok := s.sessions[code]; ok {
		return &sess, nil
	}
	return nil, domain.ErrNotFound
}

type stubGateway struct {
	mu    sync.Mutex
	resp  *hostedpay.SessionResponse
	err   error
	calls int
	last  hostedpay.SessionRequest
}

func (s *stubGateway) CreateSession(_ context.Context, req hostedpay.SessionRequest) (*hostedpay.SessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	if s.resp != nil {
		return s.resp, nil
	}
	return &hostedpay.SessionResponse{
		SessionID:   fmt.Sprintf("cs_%d", req.OrderCode),
		RedirectURL: fmt.Sprintf("https://pay.example.com/%d", req.OrderCode),
	}, nil
}

func twoLineCart() []domain.SnapshotLine {
	return []domain.SnapshotLine{
		{LineID: "l1", ItemID: "a", ItemName: "Item A", ProviderPriceCode: "price_a", Quantity: 2, UnitPriceCents: 1000},
		{LineID: "l2", ItemID: "b", ItemName: "Item B", ProviderPriceCode: "price_b", Quantity: 1, UnitPriceCents: 500},
	}
}

func newService(carts *stubCartRepo, addrs *stubAddressRepo, orders *stubOrderRepo, sessions *stubSessionRepo, gw *stubGateway) *Service {
	return New(carts, addrs, orders, sessions, gw, nil)
}

func TestCheckoutEmptyCart(t *testing.T) {
	carts := &stubCartRepo{}
	orders := &stubOrderRepo{}
	gw := &stubGateway{}
	svc := newService(carts, &stubAddressRepo{addr: &domain.Address{ID: "a1"}}, orders, &stubSessionRepo{}, gw)

	_, err := svc.Checkout(context.Background(), "u1", "a1")
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected empty cart, got %v", err)
	}
	if len(orders.created) != 0 || gw.calls != 0 || carts.clearCalls != 0 {
		t.Fatalf("empty cart checkout must perform no writes")
	}
}

func TestCheckoutInvalidAddress(t *testing.T) {
	carts := &stubCartRepo{lines: twoLineCart()}
	orders := &stubOrderRepo{}
	svc := newService(carts, &stubAddressRepo{err: domain.ErrNotFound}, orders, &stubSessionRepo{}, &stubGateway{})

	_, err := svc.Checkout(context.Background(), "u1", "a-other")
	if !errors.Is(err, domain.ErrInvalidAddress) {
		t.Fatalf("expected invalid address, got %v", err)
	}
	if len(orders.created) != 0 {
		t.Fatalf("no batch should be created for an invalid address")
	}
}

func TestAllocateSnapshotsPricesAndTotal(t *testing.T) {
	carts := &stubCartRepo{lines: twoLineCart()}
	orders := &stubOrderRepo{}
	svc := newService(carts, &stubAddressRepo{addr: &domain.Address{ID: "a1"}}, orders, &stubSessionRepo{}, &stubGateway{})

	batch, _, err := svc.Allocate(context.Background(), "u1", "a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if batch.TotalCents != 2500 {
		t.Fatalf("expected total 2500, got %d", batch.TotalCents)
	}
	in := orders.created[0]
	if len(in.Lines) != 2 {
		t.Fatalf("expected 2 order lines, got %d", len(in.Lines))
	}
	if in.Lines[0].Quantity != 2 || in.Lines[0].UnitPriceCents != 1000 || in.Lines[0].ItemName != "Item A" {
		t.Fatalf("line snapshot mismatch: %+v", in.Lines[0])
	}
}

func TestCheckoutGatewayFailureFailsBatchAndKeepsCart(t *testing.T) {
	carts := &stubCartRepo{lines: twoLineCart()}
	orders := &stubOrderRepo{}
	gw := &stubGateway{err: fmt.Errorf("%w: provider down", domain.ErrGateway)}
	svc := newService(carts, &stubAddressRepo{addr: &domain.Address{ID: "a1"}}, orders, &stubSessionRepo{}, gw)

	_, err := svc.Checkout(context.Background(), "u1", "a1")
	if !errors.Is(err, domain.ErrGateway) {
		t.Fatalf("expected gateway error, got %v", err)
	}
	if carts.clearCalls != 0 {
		t.Fatalf("cart must stay intact on gateway failure")
	}
	if len(orders.transitions) != 1 || orders.transitions[0] != "1:pending->failed" {
		t.Fatalf("batch must be failed, transitions=%v", orders.transitions)
	}
}

func TestCheckoutSuccessClearsCartAndPersistsSession(t *testing.T) {
	carts := &stubCartRepo{lines: twoLineCart()}
	orders := &stubOrderRepo{}
	sessions := &stubSessionRepo{}
	gw := &stubGateway{}
	svc := newService(carts, &stubAddressRepo{addr: &domain.Address{ID: "a1"}}, orders, sessions, gw)

	url, err := svc.Checkout(context.Background(), "u1", "a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://pay.example.com/1" {
		t.Fatalf("unexpected redirect url %q", url)
	}
	if carts.clearCalls != 1 {
		t.Fatalf("cart must be cleared exactly once, got %d", carts.clearCalls)
	}
	if _, ok := sessions.sessions[1]; !ok {
		t.Fatalf("session must be persisted for order 1")
	}
	if len(gw.last.LineItems) != 2 || gw.last.LineItems[0].PriceCode != "price_a" {
		t.Fatalf("gateway must receive provider price codes, got %+v", gw.last.LineItems)
	}
	if len(orders.transitions) != 0 {
		t.Fatalf("no transition expected on success, got %v", orders.transitions)
	}
}

func TestCreateSessionIdempotent(t *testing.T) {
	existing := &domain.PaymentSession{OrderCode: 7, ProviderSessionID: "cs_old", RedirectURL: "https://pay.example.com/old"}
	sessions := &stubSessionRepo{existing: existing}
	gw := &stubGateway{}
	svc := newService(&stubCartRepo{}, &stubAddressRepo{}, &stubOrderRepo{}, sessions, gw)

	url, err := svc.CreateSession(context.Background(), 7, twoLineCart())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != existing.RedirectURL {
		t.Fatalf("expected existing redirect url, got %q", url)
	}
	if gw.calls != 0 {
		t.Fatalf("provider must not be called when a session exists")
	}
}

func TestCreateSessionTwiceReturnsSameURL(t *testing.T) {
	sessions := &stubSessionRepo{}
	gw := &stubGateway{}
	svc := newService(&stubCartRepo{}, &stubAddressRepo{}, &stubOrderRepo{}, sessions, gw)

	first, err := svc.CreateSession(context.Background(), 3, twoLineCart())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.CreateSession(context.Background(), 3, twoLineCart())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("redirect urls differ: %q vs %q", first, second)
	}
	if gw.calls != 1 {
		t.Fatalf("provider must be called once, got %d", gw.calls)
	}
	if len(sessions.sessions) != 1 {
		t.Fatalf("exactly one session record expected, got %d", len(sessions.sessions))
	}
}

func TestConcurrentAllocationsGetUniqueCodes(t *testing.T) {
	const n = 25
	carts := &stubCartRepo{lines: twoLineCart()}
	orders := &stubOrderRepo{}
	svc := newService(carts, &stubAddressRepo{addr: &domain.Address{ID: "a1"}}, orders, &stubSessionRepo{}, &stubGateway{})

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		codes = make(map[int64]bool)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			batch, _, err := svc.Allocate(context.Background(), "u1", "a1")
			if err != nil {
				t.Errorf("allocate: %v", err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if codes[batch.OrderCode] {
				t.Errorf("duplicate order code %d", batch.OrderCode)
			}
			codes[batch.OrderCode] = true
		}()
	}
	wg.Wait()

	if len(codes) != n {
		t.Fatalf("expected %d unique codes, got %d", n, len(codes))
	}
	for code := int64(1); code <= n; code++ {
		if !codes[code] {
			t.Fatalf("missing order code %d", code)
		}
	}
}
