package models

import "time"

// Order statuses. COMPLETED and CANCELLED are terminal.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusPreparing = "PREPARING"
	OrderStatusReady     = "READY"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// Payment statuses of an order.
const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusPaid     = "PAID"
	PaymentStatusFailed   = "FAILED"
	PaymentStatusRefunded = "REFUNDED"
)

// Payment methods.
const (
	PaymentMethodCash = "CASH"
	PaymentMethodCard = "CARD"
	PaymentMethodQRIS = "QRIS"
)

// Order types.
const (
	OrderTypeDineIn   = "DINE_IN"
	OrderTypeTakeaway = "TAKEAWAY"
	OrderTypeDelivery = "DELIVERY"
)

type Order struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	OrderNumber   string  `gorm:"type:varchar(20);uniqueIndex;not null" json:"order_number"`
	OrderType     string  `gorm:"type:varchar(20);not null" json:"order_type"`
	TableID       *uint   `gorm:"index" json:"table_id,omitempty"`
	Table         *Table  `gorm:"foreignKey:TableID" json:"table,omitempty"`
	CustomerID    *uint   `gorm:"index" json:"customer_id,omitempty"`
	CustomerName  string  `gorm:"type:varchar(255)" json:"customer_name,omitempty"`
	CustomerPhone string  `gorm:"type:varchar(50)" json:"customer_phone,omitempty"`
	Status        string  `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	PaymentStatus string  `gorm:"type:varchar(20);not null;default:'PENDING'" json:"payment_status"`
	PaymentMethod *string `gorm:"type:varchar(20)" json:"payment_method,omitempty"`

	// All monetary fields are integer cents. TotalCents is always
	// recomputed from the other four, never edited directly.
	SubtotalCents int64 `gorm:"not null;default:0" json:"subtotal_cents"`
	TaxCents      int64 `gorm:"not null;default:0" json:"tax_cents"`
	DiscountCents int64 `gorm:"not null;default:0" json:"discount_cents"`
	TipCents      int64 `gorm:"not null;default:0" json:"tip_cents"`
	TotalCents    int64 `gorm:"not null;default:0" json:"total_cents"`

	SpecialInstructions string      `gorm:"type:text" json:"special_instructions,omitempty"`
	OrderItems          []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`
	CreatedAt           time.Time   `gorm:"not null;index" json:"created_at"`
	UpdatedAt           time.Time   `gorm:"not null" json:"updated_at"`
	CompletedAt         *time.Time  `json:"completed_at,omitempty"`
}

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

func TerminalOrderStatus(s string) bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

func ValidPaymentMethod(s string) bool {
	switch s {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodQRIS:
		return true
	}
	return false
}

func ValidOrderType(s string) bool {
	switch s {
	case OrderTypeDineIn, OrderTypeTakeaway, OrderTypeDelivery:
		return true
	}
	return false
}
