package warehouses

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swiftdrop/dispatch-backend/pkg/db/models"
	pkgerrors "github.com/swiftdrop/dispatch-backend/pkg/errors"
	"github.com/swiftdrop/dispatch-backend/pkg/logger"
)

// CreateWarehouseInput carries the fields needed to register a warehouse.
type CreateWarehouseInput struct {
	Name      string
	City      *string
	Latitude  float64
	Longitude float64
}

// Service defines warehouse operations.
type Service interface {
	Create(ctx context.Context, input CreateWarehouseInput) (*models.Warehouse, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
	List(ctx context.Context) ([]models.Warehouse, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds a warehouses service.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("warehouses repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateWarehouseInput) (*models.Warehouse, error) {
	warehouse := &models.Warehouse{
		Name:      input.Name,
		City:      input.City,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	}
	created, err := s.repo.Create(ctx, warehouse)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating warehouse")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithWarehouseID(ctx, created.ID.String()), "warehouse registered")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	warehouse, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading warehouse")
	}
	return warehouse, nil
}

func (s *service) List(ctx context.Context) ([]models.Warehouse, error) {
	warehouses, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing warehouses")
	}
	return warehouses, nil
}
