package importer

import (
	"context"
	"strings"
	"testing"

	"storefront/internal/domain"
)

type stubItemWriter struct {
	items []domain.Item
	err   error
}

func (s *stubItemWriter) Upsert(_ context.Context, item domain.Item) (*domain.Item, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.items = append(s.items, item)
	return &item, nil
}

func TestRunImportsRows(t *testing.T) {
	csv := strings.Join([]string{
		"code,name,description,price_cents,provider_price_code,currency",
		"mug-01,Mug,A mug,1250,price_mug,EUR",
		"tee-01,T-Shirt,,2000,price_tee,",
	}, "\n")

	repo := &stubItemWriter{}
	imp := NewCSVImporter(strings.NewReader(csv), repo)
	n, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 || len(repo.items) != 2 {
		t.Fatalf("expected 2 imports, got n=%d items=%d", n, len(repo.items))
	}
	first := repo.items[0]
	if first.Code != "mug-01" || first.PriceCents != 1250 || first.ProviderPriceCode != "price_mug" || first.Currency != "EUR" {
		t.Fatalf("unexpected item: %+v", first)
	}
	if repo.items[1].Currency != "USD" {
		t.Fatalf("empty currency must default to USD, got %q", repo.items[1].Currency)
	}
}

func TestRunSkipsBlankCode(t *testing.T) {
	csv := strings.Join([]string{
		"code,name,description,price_cents,provider_price_code,currency",
		",Ghost,,100,price_ghost,USD",
		"mug-01,Mug,,1250,price_mug,USD",
	}, "\n")

	repo := &stubItemWriter{}
	n, err := NewCSVImporter(strings.NewReader(csv), repo).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 import, got %d", n)
	}
}

func TestRunMissingRequiredColumn(t *testing.T) {
	csv := "code,name,description,currency\nmug-01,Mug,,USD\n"
	_, err := NewCSVImporter(strings.NewReader(csv), &stubItemWriter{}).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "price_cents") {
		t.Fatalf("expected missing column error, got %v", err)
	}
}

func TestRunBadPrice(t *testing.T) {
	csv := strings.Join([]string{
		"code,name,description,price_cents,provider_price_code",
		"mug-01,Mug,,not-a-number,price_mug",
	}, "\n")

	n, err := NewCSVImporter(strings.NewReader(csv), &stubItemWriter{}).Run(context.Background())
	if err == nil {
		t.Fatal("expected parse error")
	}
	if n != 0 {
		t.Fatalf("expected 0 imports before failure, got %d", n)
	}
}

func TestRunCaseInsensitiveHeaders(t *testing.T) {
	csv := strings.Join([]string{
		"Code, Name ,Description,Price_Cents,Provider_Price_Code",
		"mug-01,Mug,,1250,price_mug",
	}, "\n")

	repo := &stubItemWriter{}
	n, err := NewCSVImporter(strings.NewReader(csv), repo).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 || repo.items[0].Code != "mug-01" {
		t.Fatalf("unexpected result n=%d items=%+v", n, repo.items)
	}
}
