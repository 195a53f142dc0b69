package domain

import "time"

// Item is the read-only catalog projection used by cart and checkout.
// ProviderPriceCode is the price identifier registered with the payment
// provider, distinct from the display price.
type Item struct {
	ID                string    `json:"id"`
	Code              string    `json:"code"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	PriceCents        int64     `json:"priceCents"`
	ProviderPriceCode string    `json:"-"`
	Currency          string    `json:"currency"`
	Views             int       `json:"views"`
	Sold              int       `json:"sold"`
	CreatedAt         time.Time `json:"createdAt"`
}
