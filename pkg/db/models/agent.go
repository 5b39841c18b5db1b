package models

import (
	"time"

	"github.com/google/uuid"
)

// Agent is a field courier attached to exactly one warehouse. HoursWorked,
// DistanceTravelled and OrdersAssigned accumulate over the operational day
// and are zeroed by the daily reset.
type Agent struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	WarehouseID       uuid.UUID  `gorm:"column:warehouse_id;type:uuid;not null"`
	Name              string     `gorm:"column:name;not null"`
	Phone             *string    `gorm:"column:phone"`
	Latitude          float64    `gorm:"column:latitude;type:numeric(9,6);not null"`
	Longitude         float64    `gorm:"column:longitude;type:numeric(9,6);not null"`
	IsAvailable       bool       `gorm:"column:is_available;not null;default:false"`
	CheckedInAt       *time.Time `gorm:"column:checked_in_at"`
	HoursWorked       float64    `gorm:"column:hours_worked;type:numeric(6,2);not null;default:0"`
	DistanceTravelled float64    `gorm:"column:distance_travelled;type:numeric(8,2);not null;default:0"`
	OrdersAssigned    int        `gorm:"column:orders_assigned;not null;default:0"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
