package models

import "time"

// Table statuses.
const (
	TableStatusAvailable   = "AVAILABLE"
	TableStatusOccupied    = "OCCUPIED"
	TableStatusReserved    = "RESERVED"
	TableStatusCleaning    = "CLEANING"
	TableStatusMaintenance = "MAINTENANCE"
)

type Table struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TableNumber  string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"table_number"`
	Capacity     int       `gorm:"not null;default:2" json:"capacity"`
	Status       string    `gorm:"type:varchar(50);not null;default:'AVAILABLE'" json:"status"`
	FloorSection *string   `gorm:"type:varchar(100)" json:"floor_section,omitempty"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func ValidTableStatus(s string) bool {
	switch s {
	case TableStatusAvailable, TableStatusOccupied, TableStatusReserved,
		TableStatusCleaning, TableStatusMaintenance:
		return true
	}
	return false
}
