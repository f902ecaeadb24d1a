package models

import "time"

// OrderCounter is the single-row sequence behind order numbers. The row is
// locked for update inside the order creation transaction, so two
// concurrent creations can never mint the same number. The unique index on
// orders.order_number is the backstop if they somehow do.
type OrderCounter struct {
	ID        uint      `gorm:"primaryKey"`
	LastValue int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}
