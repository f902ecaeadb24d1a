package models

import "time"

// Item-level preparation statuses. These move independently of the order
// status so the kitchen can track partially plated orders.
const (
	ItemStatusPending   = "PENDING"
	ItemStatusPreparing = "PREPARING"
	ItemStatusReady     = "READY"
	ItemStatusServed    = "SERVED"
)

type OrderItem struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// Omitting Order field from JSON to avoid recursive nesting
	OrderID    uint     `gorm:"not null;index" json:"order_id"`
	Order      Order    `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuItemID uint     `gorm:"not null" json:"menu_item_id"`
	MenuItem   MenuItem `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu_item"`
	Quantity   int      `gorm:"not null" json:"quantity"`
	// UnitPriceCents is the menu price captured at order time. Later menu
	// price changes must not alter historical orders.
	UnitPriceCents      int64     `gorm:"not null" json:"unit_price_cents"`
	Customizations      string    `gorm:"type:text" json:"customizations,omitempty"`
	SpecialInstructions string    `gorm:"type:text" json:"special_instructions,omitempty"`
	Status              string    `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	CreatedAt           time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time `gorm:"not null" json:"updated_at"`
}

func ValidItemStatus(s string) bool {
	switch s {
	case ItemStatusPending, ItemStatusPreparing, ItemStatusReady, ItemStatusServed:
		return true
	}
	return false
}
