package agents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swiftdrop/dispatch-backend/pkg/db/models"
	pkgerrors "github.com/swiftdrop/dispatch-backend/pkg/errors"
	"github.com/swiftdrop/dispatch-backend/pkg/logger"
)

type warehouseFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
}

// Service defines roster operations beyond repository reads.
type Service interface {
	Create(ctx context.Context, input CreateAgentInput) (*models.Agent, error)
	List(ctx context.Context, warehouseID *uuid.UUID) ([]models.Agent, error)
	CheckIn(ctx context.Context, agentID uuid.UUID) (*models.Agent, error)
}

type service struct {
	repo       Repository
	warehouses warehouseFinder
	logg       *logger.Logger
	now        func() time.Time
}

// NewService builds an agents service with the required dependencies.
func NewService(repo Repository, warehouses warehouseFinder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("agents repository required")
	}
	if warehouses == nil {
		return nil, fmt.Errorf("warehouse finder required")
	}
	return &service{
		repo:       repo,
		warehouses: warehouses,
		logg:       logg,
		now:        time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateAgentInput) (*models.Agent, error) {
	if _, err := s.warehouses.FindByID(ctx, input.WarehouseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up warehouse")
	}

	agent := &models.Agent{
		WarehouseID: input.WarehouseID,
		Name:        input.Name,
		Phone:       input.Phone,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
	}
	created, err := s.repo.Create(ctx, agent)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating agent")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithAgentID(ctx, created.ID.String()), "agent enrolled")
	}
	return created, nil
}

func (s *service) List(ctx context.Context, warehouseID *uuid.UUID) ([]models.Agent, error) {
	agents, err := s.repo.List(ctx, warehouseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing agents")
	}
	return agents, nil
}

// CheckIn marks the agent present and available for today's allocation run.
// Checking in twice is harmless; the timestamp just moves forward.
func (s *service) CheckIn(ctx context.Context, agentID uuid.UUID) (*models.Agent, error) {
	rows, err := s.repo.CheckIn(ctx, agentID, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking in agent")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")
	}

	agent, err := s.repo.FindByID(ctx, agentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading agent")
	}
	return agent, nil
}
