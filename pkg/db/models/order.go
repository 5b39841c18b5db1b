package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/swiftdrop/dispatch-backend/pkg/enums"
)

// Order is a customer delivery request pinned to a warehouse. Status moves
// pending -> assigned or pending -> postponed during an allocation run;
// postponed orders are re-queued by the daily reset.
type Order struct {
	ID                  uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	WarehouseID         uuid.UUID         `gorm:"column:warehouse_id;type:uuid;not null"`
	CustomerName        string            `gorm:"column:customer_name;not null"`
	DeliveryAddress     string            `gorm:"column:delivery_address;not null"`
	Latitude            float64           `gorm:"column:latitude;type:numeric(9,6);not null"`
	Longitude           float64           `gorm:"column:longitude;type:numeric(9,6);not null"`
	Status              enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'pending'"`
	AssignedAgentID     *uuid.UUID        `gorm:"column:assigned_agent_id;type:uuid"`
	EstimatedDeliveryAt *time.Time        `gorm:"column:estimated_delivery_at"`
	CreatedAt           time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
