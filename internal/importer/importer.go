package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storefront/internal/domain"
)

type ItemWriter interface {
	Upsert(ctx context.Context, item domain.Item) (*domain.Item, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates items. Expected
// columns: code, name, description, price_cents, provider_price_code,
// currency.
type CSVImporter struct {
	reader   *csv.Reader
	itemRepo ItemWriter
}

func NewCSVImporter(r io.Reader, repo ItemWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{reader: csvr, itemRepo: repo}
}

// Run parses CSV rows and upserts one item per row. It returns the number of
// imported items.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{"code", "name", "price_cents", "provider_price_code"} {
		if _, ok := index[required]; !ok {
			return 0, fmt.Errorf("missing column %q", required)
		}
	}

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		item, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if item == nil {
			continue
		}
		if _, err := i.itemRepo.Upsert(ctx, *item); err != nil {
			return imported, fmt.Errorf("upsert item %s: %w", item.Code, err)
		}
		imported++
	}
	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return index
}

func parseRow(record []string, index map[string]int) (*domain.Item, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	code := field("code")
	if code == "" {
		return nil, nil
	}

	cents, err := strconv.ParseInt(field("price_cents"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("item %s: bad price_cents: %w", code, err)
	}

	currency := field("currency")
	if currency == "" {
		currency = "USD"
	}

	return &domain.Item{
		Code:              code,
		Name:              field("name"),
		Description:       field("description"),
		PriceCents:        cents,
		ProviderPriceCode: field("provider_price_code"),
		Currency:          currency,
	}, nil
}
