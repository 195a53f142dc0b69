package domain

import "time"

// CartLine is the per-(user, item) quantity ledger. Lines are never deleted:
// emptying a line zeroes the quantity and clears in_cart, preserving the
// wishlist flag and ordered count on the same row.
type CartLine struct {
	ID           string    `json:"id"`
	UserID       string    `json:"-"`
	ItemID       string    `json:"itemId"`
	Quantity     int       `json:"quantity"`
	InCart       bool      `json:"inCart"`
	Wishlist     bool      `json:"wishlist"`
	OrderedCount int       `json:"orderedCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SnapshotLine is an in-cart line joined with the item's current catalog data.
type SnapshotLine struct {
	LineID            string `json:"lineId"`
	ItemID            string `json:"itemId"`
	ItemName          string `json:"itemName"`
	ProviderPriceCode string `json:"-"`
	Quantity          int    `json:"quantity"`
	UnitPriceCents    int64  `json:"unitPriceCents"`
}

// CartSnapshot is the priced view of a user's in-cart lines.
type CartSnapshot struct {
	Lines      []SnapshotLine `json:"lines"`
	TotalCents int64          `json:"totalCents"`
}
