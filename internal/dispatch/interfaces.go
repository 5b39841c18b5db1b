package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swiftdrop/dispatch-backend/pkg/db/models"
)

// AgentProgress is the post-assignment state written back for an agent:
// consumed budgets, today's order count, and the agent's new position (the
// delivery coordinate of the order it just took).
type AgentProgress struct {
	HoursWorked       float64
	DistanceTravelled float64
	OrdersAssigned    int
	Latitude          float64
	Longitude         float64
}

// Repository defines persistence operations for allocation runs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListWarehouses(ctx context.Context) ([]models.Warehouse, error)
	ListAvailableAgents(ctx context.Context, warehouseID uuid.UUID) ([]models.Agent, error)
	ListPendingOrders(ctx context.Context, warehouseID uuid.UUID) ([]models.Order, error)
	MarkOrderAssigned(ctx context.Context, orderID, agentID uuid.UUID, eta time.Time) (int64, error)
	MarkOrderPostponed(ctx context.Context, orderID uuid.UUID) (int64, error)
	UpdateAgentAfterAssignment(ctx context.Context, agentID uuid.UUID, progress AgentProgress) error
	RecordAssignment(ctx context.Context, assignment *models.Assignment) error
}
