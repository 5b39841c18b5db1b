package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swiftdrop/dispatch-backend/pkg/db/models"
	"github.com/swiftdrop/dispatch-backend/pkg/enums"
	pkgerrors "github.com/swiftdrop/dispatch-backend/pkg/errors"
	"github.com/swiftdrop/dispatch-backend/pkg/logger"
)

type warehouseFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
}

// CreateOrderInput carries the fields needed to place an order.
type CreateOrderInput struct {
	WarehouseID     uuid.UUID
	CustomerName    string
	DeliveryAddress string
	Latitude        float64
	Longitude       float64
}

// Service defines order intake operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filters ListFilters) ([]models.Order, error)
}

type service struct {
	repo       Repository
	warehouses warehouseFinder
	logg       *logger.Logger
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, warehouses warehouseFinder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if warehouses == nil {
		return nil, fmt.Errorf("warehouse finder required")
	}
	return &service{repo: repo, warehouses: warehouses, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if _, err := s.warehouses.FindByID(ctx, input.WarehouseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up warehouse")
	}

	order := &models.Order{
		WarehouseID:     input.WarehouseID,
		CustomerName:    input.CustomerName,
		DeliveryAddress: input.DeliveryAddress,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		Status:          enums.OrderStatusPending,
	}
	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithWarehouseID(ctx, created.WarehouseID.String()), "order placed")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]models.Order, error) {
	orders, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return orders, nil
}
