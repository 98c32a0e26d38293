// Package entity contains the core business objects of the project.
package entity

import "time"

// DateLayout is the calendar-date format used by subscriptions and deliveries.
const DateLayout = "2006-01-02"

// SubscriptionType is the delivery cadence.
type SubscriptionType string

const (
	SubscriptionDaily   SubscriptionType = "daily"
	SubscriptionWeekly  SubscriptionType = "weekly"
	SubscriptionMonthly SubscriptionType = "monthly"
)

// IsValid checks if the SubscriptionType is a valid value.
func (t SubscriptionType) IsValid() bool {
	switch t {
	case SubscriptionDaily, SubscriptionWeekly, SubscriptionMonthly:
		return true
	default:
		return false
	}
}

// SubscriptionStatus is the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPaused    SubscriptionStatus = "paused"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// IsValid checks if the SubscriptionStatus is a valid value.
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionActive, SubscriptionPaused, SubscriptionCancelled:
		return true
	default:
		return false
	}
}

// Subscription is a recurring delivery arrangement between a consumer and a vendor.
// Subscriptions are end-dated on cancellation, never deleted.
type Subscription struct {
	ID            string             `json:"subscription_id"`
	UserID        string             `json:"user_id"`
	VendorID      string             `json:"vendor_id"`
	ProductID     string             `json:"product_id,omitempty"`
	Quantity      int                `json:"quantity,omitempty"`
	Type          SubscriptionType   `json:"type"`
	Status        SubscriptionStatus `json:"status"`
	StartDate     string             `json:"start_date"`
	EndDate       string             `json:"end_date,omitempty"`
	PreferredDay  string             `json:"preferred_day,omitempty"`
	DeliveryTime  string             `json:"delivery_time,omitempty"`
	VacationMode  bool               `json:"vacation_mode,omitempty"`
	VacationStart string             `json:"vacation_start,omitempty"`
	VacationEnd   string             `json:"vacation_end,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// OnVacation reports whether deliveries are suspended on the given date (DateLayout).
func (s *Subscription) OnVacation(date string) bool {
	if !s.VacationMode {
		return false
	}
	if s.VacationStart != "" && date < s.VacationStart {
		return false
	}
	if s.VacationEnd != "" && date > s.VacationEnd {
		return false
	}

	return true
}
