package models

import "time"

// OrderStatus represents payment state of an order.
type OrderStatus string

// Order statuses. Orders are materialized by the reconciler once the
// provider reports a successful checkout, so PAID is the common case.
const (
	OrderStatusPending OrderStatus = "PENDING"
	OrderStatusPaid    OrderStatus = "PAID"
)

// Order mirrors one payment-provider checkout session. The provider
// session id is unique so replayed webhook deliveries upsert the same row.
type Order struct {
	ID                string      `db:"id" json:"id"`
	ProviderSessionID string      `db:"provider_session_id" json:"provider_session_id"`
	StudentID         string      `db:"student_id" json:"student_id"`
	CourseID          string      `db:"course_id" json:"course_id"`
	AmountTotal       int64       `db:"amount_total" json:"amount_total"`
	Currency          string      `db:"currency" json:"currency"`
	Status            OrderStatus `db:"status" json:"status"`
	CreatedAt         time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time   `db:"updated_at" json:"updated_at"`
}

// OrderItem is the single line item of an order. Its id is derived
// deterministically from the order id so retried deliveries update the
// same row instead of inserting a duplicate.
type OrderItem struct {
	ID           string    `db:"id" json:"id"`
	OrderID      string    `db:"order_id" json:"order_id"`
	ProductType  string    `db:"product_type" json:"product_type"`
	Quantity     int       `db:"quantity" json:"quantity"`
	HoursPerUnit int       `db:"hours_per_unit" json:"hours_per_unit"`
	Amount       int64     `db:"amount" json:"amount"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
