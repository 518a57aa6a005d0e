package dto

type BillingWebhook struct {
	APIVersion string       `json:"api_version"`
	Event      BillingEvent `json:"event"`
}

type BillingEvent struct {
	Type           string  `json:"type"`
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	ProductID      string  `json:"product_id"`
	PurchasedAtMs  int64   `json:"purchased_at_ms"`
	ExpirationAtMs int64   `json:"expiration_at_ms"`
	Environment    string  `json:"environment"`
	Currency       string  `json:"currency"`
	Price          float64 `json:"price"`
}
