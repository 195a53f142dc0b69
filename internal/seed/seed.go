package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type itemSeed struct {
	Code              string
	Name              string
	Description       string
	PriceCents        int64
	ProviderPriceCode string
	Currency          string
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	userID, err := ensureUser(ctx, pool, "demo@store.local", "Demo Customer")
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}

	if err := ensureAddress(ctx, pool, userID); err != nil {
		return fmt.Errorf("ensure address: %w", err)
	}

	items := []itemSeed{
		{
			Code:              "demo-shirt",
			Name:              "Demo T-Shirt",
			Description:       "Soft cotton tee for demo purposes",
			PriceCents:        1999,
			ProviderPriceCode: "price_demo_shirt",
			Currency:          "USD",
		},
		{
			Code:              "demo-mug",
			Name:              "Demo Mug",
			Description:       "Ceramic mug with demo logo",
			PriceCents:        1299,
			ProviderPriceCode: "price_demo_mug",
			Currency:          "USD",
		},
	}

	for _, it := range items {
		if err := upsertItem(ctx, pool, it); err != nil {
			return fmt.Errorf("upsert item %s: %w", it.Code, err)
		}
	}

	return nil
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, email, name string) (string, error) {
	const q = `
INSERT INTO users (email, name)
VALUES ($1, $2)
ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, email, name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func ensureAddress(ctx context.Context, pool *pgxpool.Pool, userID string) error {
	const q = `
INSERT INTO addresses (user_id, country, region, city, street, street_number)
SELECT $1, 'GR', 'Attica', 'Athens', 'Ermou', '1'
WHERE NOT EXISTS (SELECT 1 FROM addresses WHERE user_id = $1)
`
	_, err := pool.Exec(ctx, q, userID)
	return err
}

func upsertItem(ctx context.Context, pool *pgxpool.Pool, it itemSeed) error {
	const q = `
INSERT INTO items (code, name, description, price_cents, provider_price_code, currency)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (code) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    provider_price_code = EXCLUDED.provider_price_code,
    currency = EXCLUDED.currency
`
	_, err := pool.Exec(ctx, q, it.Code, it.Name, it.Description, it.PriceCents, it.ProviderPriceCode, it.Currency)
	return err
}
