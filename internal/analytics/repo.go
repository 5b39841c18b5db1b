package analytics

import (
	"context"

	"gorm.io/gorm"

	"github.com/swiftdrop/dispatch-backend/pkg/db/models"
	"github.com/swiftdrop/dispatch-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an analytics repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CountWarehouses(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Warehouse{}).Count(&count).Error
	return count, err
}

func (r *repository) CountAgents(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Agent{}).Count(&count).Error
	return count, err
}

func (r *repository) CountAvailableAgents(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Agent{}).
		Where("is_available = ?", true).
		Count(&count).Error
	return count, err
}

func (r *repository) CountAgentsWithOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Agent{}).
		Where("orders_assigned > 0").
		Count(&count).Error
	return count, err
}

func (r *repository) CountAgentsWithAssignments(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Distinct("agent_id").
		Count(&count).Error
	return count, err
}

func (r *repository) SumAssignedOrders(ctx context.Context) (int64, error) {
	var sum *int64
	err := r.db.WithContext(ctx).
		Model(&models.Agent{}).
		Select("SUM(orders_assigned)").
		Scan(&sum).Error
	if err != nil || sum == nil {
		return 0, err
	}
	return *sum, nil
}

func (r *repository) CountOrdersByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	type row struct {
		Status enums.OrderStatus
		Total  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[enums.OrderStatus]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Total
	}
	return out, nil
}
