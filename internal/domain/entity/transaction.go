package entity

import "time"

// TransactionType classifies what a payment was for.
type TransactionType string

const (
	TransactionOrder        TransactionType = "order"
	TransactionSubscription TransactionType = "subscription"
)

// Transaction is an append-only payment record.
type Transaction struct {
	ID          string          `json:"transaction_id"`
	UserID      string          `json:"user_id"`
	VendorID    string          `json:"vendor_id"`
	Amount      float64         `json:"amount"`
	Date        time.Time       `json:"date"`
	OrderID     string          `json:"order_id,omitempty"`
	ReferenceID string          `json:"reference_id,omitempty"`
	Type        TransactionType `json:"type,omitempty"`
}
