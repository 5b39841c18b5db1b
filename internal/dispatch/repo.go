package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swiftdrop/dispatch-backend/pkg/db/models"
	"github.com/swiftdrop/dispatch-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a dispatch repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	var warehouses []models.Warehouse
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&warehouses).Error
	if err != nil {
		return nil, err
	}
	return warehouses, nil
}

func (r *repository) ListAvailableAgents(ctx context.Context, warehouseID uuid.UUID) ([]models.Agent, error) {
	var agents []models.Agent
	err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND is_available = ? AND checked_in_at IS NOT NULL", warehouseID, true).
		Order("created_at ASC, id ASC").
		Find(&agents).Error
	if err != nil {
		return nil, err
	}
	return agents, nil
}

func (r *repository) ListPendingOrders(ctx context.Context, warehouseID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND status = ?", warehouseID, enums.OrderStatusPending).
		Order("created_at ASC, id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) MarkOrderAssigned(ctx context.Context, orderID, agentID uuid.UUID, eta time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, enums.OrderStatusPending).
		Updates(map[string]any{
			"status":                enums.OrderStatusAssigned,
			"assigned_agent_id":     agentID,
			"estimated_delivery_at": eta,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) MarkOrderPostponed(ctx context.Context, orderID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, enums.OrderStatusPending).
		Update("status", enums.OrderStatusPostponed)
	return res.RowsAffected, res.Error
}

func (r *repository) UpdateAgentAfterAssignment(ctx context.Context, agentID uuid.UUID, progress AgentProgress) error {
	return r.db.WithContext(ctx).
		Model(&models.Agent{}).
		Where("id = ?", agentID).
		Updates(map[string]any{
			"hours_worked":       progress.HoursWorked,
			"distance_travelled": progress.DistanceTravelled,
			"orders_assigned":    progress.OrdersAssigned,
			"latitude":           progress.Latitude,
			"longitude":          progress.Longitude,
		}).Error
}

func (r *repository) RecordAssignment(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}
