package models

import "time"

// Order statuses settable by an admin. The payment verification flow
// additionally writes the provider's own status (e.g. "success").
const (
	OrderStatusPending   = "pending"
	OrderStatusAccepted  = "accepted"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// ValidOrderStatus reports whether s is a status an admin may set.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is one line of an order.
type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Order is a customer order, stored under "order:<reference>" where the
// reference is the payment provider's transaction reference.
type Order struct {
	OrderID    string      `json:"orderId"`
	Email      string      `json:"email"`
	Amount     float64     `json:"amount"`
	Items      []OrderItem `json:"items"`
	Status     string      `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	VerifiedAt *time.Time  `json:"verifiedAt,omitempty"`
	UpdatedAt  *time.Time  `json:"updatedAt,omitempty"`
}
