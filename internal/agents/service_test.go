package agents

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swiftdrop/dispatch-backend/pkg/db/models"
	pkgerrors "github.com/swiftdrop/dispatch-backend/pkg/errors"
)

type stubAgentsRepo struct {
	agents      map[uuid.UUID]*models.Agent
	checkInRows int64
	checkInErr  error
	lastCheckIn time.Time
}

func newStubAgentsRepo() *stubAgentsRepo {
	return &stubAgentsRepo{agents: make(map[uuid.UUID]*models.Agent)}
}

func (s *stubAgentsRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubAgentsRepo) Create(ctx context.Context, agent *models.Agent) (*models.Agent, error) {
	if agent.ID == uuid.Nil {
		agent.ID = uuid.New()
	}
	s.agents[agent.ID] = agent
	return agent, nil
}

func (s *stubAgentsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Agent, error) {
	agent, ok := s.agents[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return agent, nil
}

func (s *stubAgentsRepo) List(ctx context.Context, warehouseID *uuid.UUID) ([]models.Agent, error) {
	var out []models.Agent
	for _, a := range s.agents {
		if warehouseID == nil || a.WarehouseID == *warehouseID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *stubAgentsRepo) CheckIn(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
	if s.checkInErr != nil {
		return 0, s.checkInErr
	}
	s.lastCheckIn = at
	if agent, ok := s.agents[id]; ok {
		agent.CheckedInAt = &at
		agent.IsAvailable = true
	}
	return s.checkInRows, nil
}

func (s *stubAgentsRepo) ResetDaily(ctx context.Context) (int64, error) {
	return int64(len(s.agents)), nil
}

type stubWarehouseFinder struct {
	warehouses map[uuid.UUID]*models.Warehouse
}

func (s *stubWarehouseFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	wh, ok := s.warehouses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return wh, nil
}

func TestCheckInMarksAgentAvailable(t *testing.T) {
	repo := newStubAgentsRepo()
	agent := &models.Agent{ID: uuid.New(), Name: "rider"}
	repo.agents[agent.ID] = agent
	repo.checkInRows = 1

	svc, err := NewService(repo, &stubWarehouseFinder{}, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	got, err := svc.CheckIn(context.Background(), agent.ID)
	if err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}
	if got.CheckedInAt == nil {
		t.Fatal("expected check-in timestamp to be set")
	}
	if !got.IsAvailable {
		t.Fatal("expected agent to be available after check-in")
	}
}

func TestCheckInUnknownAgentReturnsNotFound(t *testing.T) {
	repo := newStubAgentsRepo()
	repo.checkInRows = 0

	svc, err := NewService(repo, &stubWarehouseFinder{}, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	_, err = svc.CheckIn(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected error for unknown agent")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestCreateRejectsUnknownWarehouse(t *testing.T) {
	repo := newStubAgentsRepo()
	finder := &stubWarehouseFinder{warehouses: map[uuid.UUID]*models.Warehouse{}}

	svc, err := NewService(repo, finder, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	_, err = svc.Create(context.Background(), CreateAgentInput{
		WarehouseID: uuid.New(),
		Name:        "rider",
		Latitude:    28.70,
		Longitude:   77.10,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for missing warehouse, got %v", err)
	}
}

func TestCreatePersistsAgent(t *testing.T) {
	repo := newStubAgentsRepo()
	wh := &models.Warehouse{ID: uuid.New(), Name: "central"}
	finder := &stubWarehouseFinder{warehouses: map[uuid.UUID]*models.Warehouse{wh.ID: wh}}

	svc, err := NewService(repo, finder, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	created, err := svc.Create(context.Background(), CreateAgentInput{
		WarehouseID: wh.ID,
		Name:        "rider",
		Latitude:    28.70,
		Longitude:   77.10,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected agent ID to be assigned")
	}
	if created.WarehouseID != wh.ID {
		t.Fatalf("agent bound to wrong warehouse: %s", created.WarehouseID)
	}
}
