package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swiftdrop/dispatch-backend/pkg/db/models"
	"github.com/swiftdrop/dispatch-backend/pkg/enums"
)

// ListFilters narrows order listings.
type ListFilters struct {
	WarehouseID *uuid.UUID
	Status      *enums.OrderStatus
}

// Repository defines persistence operations for customer orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filters ListFilters) ([]models.Order, error)
	RequeuePostponed(ctx context.Context) (int64, error)
}
