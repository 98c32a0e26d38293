package entity

import "time"

// DeliveryStatus is the outcome of one scheduled subscription drop.
type DeliveryStatus string

const (
	DeliveryScheduled DeliveryStatus = "scheduled"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliverySkipped   DeliveryStatus = "skipped"
	DeliveryMissed    DeliveryStatus = "missed"
)

// IsValid checks if the DeliveryStatus is a valid value.
func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryScheduled, DeliveryDelivered, DeliverySkipped, DeliveryMissed:
		return true
	default:
		return false
	}
}

// Delivery records a single day of a subscription. It is created lazily the
// first time the status for that day is touched.
type Delivery struct {
	ID             string         `json:"delivery_id"`
	SubscriptionID string         `json:"subscription_id"`
	UserID         string         `json:"user_id"`
	VendorID       string         `json:"vendor_id"`
	ScheduledDate  string         `json:"scheduled_date"`
	Status         DeliveryStatus `json:"status"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
