package models

import (
	"time"

	"github.com/google/uuid"
)

// Warehouse is a fulfillment site that owns its own agent roster and order
// backlog. Allocation never crosses warehouse boundaries.
type Warehouse struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	City      *string   `gorm:"column:city"`
	Latitude  float64   `gorm:"column:latitude;type:numeric(9,6);not null"`
	Longitude float64   `gorm:"column:longitude;type:numeric(9,6);not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
