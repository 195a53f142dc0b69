package domain

import "time"

// PaymentSession correlates an order batch with the provider's hosted
// checkout session. One session per order code; kept at least until the
// batch settles so duplicate settlement events can be matched.
type PaymentSession struct {
	OrderCode         int64     `json:"orderCode"`
	ProviderSessionID string    `json:"providerSessionId"`
	RedirectURL       string    `json:"redirectUrl"`
	CreatedAt         time.Time `json:"createdAt"`
}
