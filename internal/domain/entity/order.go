package entity

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderProcessing     OrderStatus = "processing"
	OrderOutForDelivery OrderStatus = "out for delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

var orderNext = map[OrderStatus]map[OrderStatus]bool{
	OrderPending:        {OrderProcessing: true, OrderOutForDelivery: true, OrderDelivered: true, OrderCancelled: true},
	OrderProcessing:     {OrderOutForDelivery: true, OrderDelivered: true, OrderCancelled: true},
	OrderOutForDelivery: {OrderDelivered: true},
	OrderDelivered:      {},
	OrderCancelled:      {},
}

// IsValid checks if the OrderStatus is a known value.
func (s OrderStatus) IsValid() bool {
	_, ok := orderNext[s]
	return ok
}

// IsTerminal reports whether no further status change is allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	return orderNext[from][to]
}

// Order is a one-off checkout from a single vendor.
type Order struct {
	ID              string      `json:"order_id"`
	UserID          string      `json:"user_id"`
	VendorID        string      `json:"vendor_id"`
	Products        []string    `json:"products"`             // Product ids in cart order.
	Quantities      []int       `json:"quantities,omitempty"` // Parallel to Products; missing entries count as 1.
	Status          OrderStatus `json:"status"`
	Total           float64     `json:"total"`
	DeliveryAddress string      `json:"delivery_address,omitempty"`
	DeliveryDate    string      `json:"delivery_date,omitempty"`
	DeliveryTime    string      `json:"delivery_time,omitempty"`
	PaymentMethod   string      `json:"payment_method,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// QuantityAt returns the quantity ordered for the i-th product.
func (o *Order) QuantityAt(i int) int {
	if i < len(o.Quantities) && o.Quantities[i] > 0 {
		return o.Quantities[i]
	}

	return 1
}

// References reports whether the order contains the given product.
func (o *Order) References(productID string) bool {
	for _, id := range o.Products {
		if id == productID {
			return true
		}
	}

	return false
}
