package analytics

import (
	"context"

	"gorm.io/gorm"

	"github.com/swiftdrop/dispatch-backend/pkg/enums"
)

// Repository defines the aggregate queries backing fleet reporting.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CountWarehouses(ctx context.Context) (int64, error)
	CountAgents(ctx context.Context) (int64, error)
	CountAvailableAgents(ctx context.Context) (int64, error)
	CountAgentsWithOrders(ctx context.Context) (int64, error)
	CountAgentsWithAssignments(ctx context.Context) (int64, error)
	SumAssignedOrders(ctx context.Context) (int64, error)
	CountOrdersByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error)
}
