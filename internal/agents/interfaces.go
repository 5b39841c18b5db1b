package agents

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swiftdrop/dispatch-backend/pkg/db/models"
)

// Repository defines persistence operations for the agent roster.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, agent *models.Agent) (*models.Agent, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Agent, error)
	List(ctx context.Context, warehouseID *uuid.UUID) ([]models.Agent, error)
	CheckIn(ctx context.Context, id uuid.UUID, at time.Time) (int64, error)
	ResetDaily(ctx context.Context) (int64, error)
}
