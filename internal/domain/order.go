package domain

import "time"

// OrderStatus is the lifecycle state of an order batch. Paid and Failed are
// terminal.
type OrderStatus string

const (
	OrderPending OrderStatus = "pending"
	OrderPaid    OrderStatus = "paid"
	OrderFailed  OrderStatus = "failed"
)

// OrderBatch is one checkout transaction: the set of order lines sharing an
// order code, owner, delivery address and lifecycle status.
type OrderBatch struct {
	OrderCode  int64       `json:"orderCode"`
	UserID     string      `json:"-"`
	AddressID  string      `json:"addressId"`
	Status     OrderStatus `json:"status"`
	TotalCents int64       `json:"totalCents"`
	CreatedAt  time.Time   `json:"createdAt"`
	SettledAt  *time.Time  `json:"settledAt,omitempty"`
	Lines      []OrderLine `json:"lines,omitempty"`
}

// OrderLine captures item, quantity and unit price at allocation time. Name
// and price are copied, not referenced, so later catalog edits cannot alter
// order history.
type OrderLine struct {
	ID             string `json:"id"`
	OrderCode      int64  `json:"orderCode"`
	ItemID         string `json:"itemId"`
	ItemName       string `json:"itemName"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Fulfilled      bool   `json:"fulfilled"`
}
