package dispatch

import (
	"time"

	"github.com/google/uuid"
)

// WarehouseReport summarizes one warehouse's share of an allocation run.
type WarehouseReport struct {
	WarehouseID      uuid.UUID   `json:"warehouse_id"`
	WarehouseName    string      `json:"warehouse_name"`
	AgentsConsidered int         `json:"agents_considered"`
	OrdersConsidered int         `json:"orders_considered"`
	AssignedCount    int         `json:"assigned_count"`
	PostponedCount   int         `json:"postponed_count"`
	PostponedOrders  []uuid.UUID `json:"postponed_orders,omitempty"`
}

// RunReport aggregates the outcome of a full allocation run.
type RunReport struct {
	StartedAt      time.Time         `json:"started_at"`
	FinishedAt     time.Time         `json:"finished_at"`
	AssignedTotal  int               `json:"assigned_total"`
	PostponedTotal int               `json:"postponed_total"`
	Warehouses     []WarehouseReport `json:"warehouses"`
}
