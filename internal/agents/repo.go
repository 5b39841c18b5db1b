package agents

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swiftdrop/dispatch-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an agents repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, agent *models.Agent) (*models.Agent, error) {
	if err := r.db.WithContext(ctx).Create(agent).Error; err != nil {
		return nil, err
	}
	return agent, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Agent, error) {
	var agent models.Agent
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&agent).Error
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *repository) List(ctx context.Context, warehouseID *uuid.UUID) ([]models.Agent, error) {
	q := r.db.WithContext(ctx)
	if warehouseID != nil {
		q = q.Where("warehouse_id = ?", *warehouseID)
	}
	var agents []models.Agent
	if err := q.Order("created_at ASC, id ASC").Find(&agents).Error; err != nil {
		return nil, err
	}
	return agents, nil
}

func (r *repository) CheckIn(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Agent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"checked_in_at": at,
			"is_available":  true,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) ResetDaily(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Agent{}).
		Where("1 = 1").
		Updates(map[string]any{
			"hours_worked":       0,
			"distance_travelled": 0,
			"orders_assigned":    0,
			"is_available":       false,
			"checked_in_at":      nil,
		})
	return res.RowsAffected, res.Error
}
