package models

import (
	"time"

	"github.com/google/uuid"
)

// Assignment is the immutable audit record of one order handed to one agent
// during an allocation run.
type Assignment struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AgentID    uuid.UUID `gorm:"column:agent_id;type:uuid;not null"`
	OrderID    uuid.UUID `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	DistanceKm float64   `gorm:"column:distance_km;type:numeric(8,2);not null"`
	AssignedAt time.Time `gorm:"column:assigned_at;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
