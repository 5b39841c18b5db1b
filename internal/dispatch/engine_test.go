package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swiftdrop/dispatch-backend/pkg/db/models"
	"github.com/swiftdrop/dispatch-backend/pkg/enums"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubDispatchRepo struct {
	warehouses  []models.Warehouse
	agents      map[uuid.UUID][]*models.Agent
	orders      []*models.Order
	assignments []models.Assignment
}

func newStubRepo() *stubDispatchRepo {
	return &stubDispatchRepo{agents: make(map[uuid.UUID][]*models.Agent)}
}

func (s *stubDispatchRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubDispatchRepo) ListWarehouses(ctx context.Context) ([]models.Warehouse, error) {
	return s.warehouses, nil
}

func (s *stubDispatchRepo) ListAvailableAgents(ctx context.Context, warehouseID uuid.UUID) ([]models.Agent, error) {
	var out []models.Agent
	for _, a := range s.agents[warehouseID] {
		if a.IsAvailable && a.CheckedInAt != nil {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *stubDispatchRepo) ListPendingOrders(ctx context.Context, warehouseID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range s.orders {
		if o.WarehouseID == warehouseID && o.Status == enums.OrderStatusPending {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *stubDispatchRepo) MarkOrderAssigned(ctx context.Context, orderID, agentID uuid.UUID, eta time.Time) (int64, error) {
	for _, o := range s.orders {
		if o.ID == orderID && o.Status == enums.OrderStatusPending {
			o.Status = enums.OrderStatusAssigned
			o.AssignedAgentID = &agentID
			o.EstimatedDeliveryAt = &eta
			return 1, nil
		}
	}
	return 0, nil
}

func (s *stubDispatchRepo) MarkOrderPostponed(ctx context.Context, orderID uuid.UUID) (int64, error) {
	for _, o := range s.orders {
		if o.ID == orderID && o.Status == enums.OrderStatusPending {
			o.Status = enums.OrderStatusPostponed
			return 1, nil
		}
	}
	return 0, nil
}

func (s *stubDispatchRepo) UpdateAgentAfterAssignment(ctx context.Context, agentID uuid.UUID, progress AgentProgress) error {
	for _, agents := range s.agents {
		for _, a := range agents {
			if a.ID == agentID {
				a.HoursWorked = progress.HoursWorked
				a.DistanceTravelled = progress.DistanceTravelled
				a.OrdersAssigned = progress.OrdersAssigned
				a.Latitude = progress.Latitude
				a.Longitude = progress.Longitude
				return nil
			}
		}
	}
	return nil
}

func (s *stubDispatchRepo) RecordAssignment(ctx context.Context, assignment *models.Assignment) error {
	s.assignments = append(s.assignments, *assignment)
	return nil
}

func (s *stubDispatchRepo) findOrder(t *testing.T, id uuid.UUID) *models.Order {
	t.Helper()
	for _, o := range s.orders {
		if o.ID == id {
			return o
		}
	}
	t.Fatalf("order %s not found", id)
	return nil
}

func (s *stubDispatchRepo) findAgent(t *testing.T, id uuid.UUID) *models.Agent {
	t.Helper()
	for _, agents := range s.agents {
		for _, a := range agents {
			if a.ID == id {
				return a
			}
		}
	}
	t.Fatalf("agent %s not found", id)
	return nil
}

func testParams() Params {
	return Params{
		MinutesPerKm:         5,
		MaxWorkingHours:      10,
		MaxDrivingDistanceKm: 100,
		WarehouseConcurrency: 1,
	}
}

func newTestEngine(t *testing.T, repo Repository) *Engine {
	t.Helper()
	engine, err := NewEngine(repo, stubTxRunner{}, nil, nil, testParams())
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	engine.now = func() time.Time {
		return time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	}
	return engine
}

func checkedIn() *time.Time {
	at := time.Date(2025, 3, 1, 7, 30, 0, 0, time.UTC)
	return &at
}

func addWarehouse(repo *stubDispatchRepo, lat, lon float64) models.Warehouse {
	wh := models.Warehouse{ID: uuid.New(), Name: "wh-" + uuid.NewString()[:8], Latitude: lat, Longitude: lon}
	repo.warehouses = append(repo.warehouses, wh)
	return wh
}

func addAgent(repo *stubDispatchRepo, wh models.Warehouse, a models.Agent) *models.Agent {
	a.ID = uuid.New()
	a.WarehouseID = wh.ID
	a.IsAvailable = true
	a.CheckedInAt = checkedIn()
	repo.agents[wh.ID] = append(repo.agents[wh.ID], &a)
	return repo.agents[wh.ID][len(repo.agents[wh.ID])-1]
}

func addOrder(repo *stubDispatchRepo, wh models.Warehouse, lat, lon float64) *models.Order {
	o := &models.Order{
		ID:          uuid.New(),
		WarehouseID: wh.ID,
		Status:      enums.OrderStatusPending,
		Latitude:    lat,
		Longitude:   lon,
	}
	repo.orders = append(repo.orders, o)
	return o
}

func TestRunAssignsNearestAgent(t *testing.T) {
	repo := newStubRepo()
	wh := addWarehouse(repo, 28.70, 77.10)

	// Both agents already worked today, so their own coordinates are the
	// reference. near is ~2.2km from the order, far ~50km.
	near := addAgent(repo, wh, models.Agent{Name: "near", Latitude: 28.72, Longitude: 77.10, OrdersAssigned: 1})
	far := addAgent(repo, wh, models.Agent{Name: "far", Latitude: 29.15, Longitude: 77.10, OrdersAssigned: 1})
	order := addOrder(repo, wh, 28.70, 77.10)

	engine := newTestEngine(t, repo)
	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.AssignedTotal != 1 || report.PostponedTotal != 0 {
		t.Fatalf("unexpected totals: assigned=%d postponed=%d", report.AssignedTotal, report.PostponedTotal)
	}
	got := repo.findOrder(t, order.ID)
	if got.Status != enums.OrderStatusAssigned {
		t.Fatalf("expected order assigned, got %s", got.Status)
	}
	if got.AssignedAgentID == nil || *got.AssignedAgentID != near.ID {
		t.Fatalf("expected nearest agent %s to win", near.ID)
	}
	if repo.findAgent(t, far.ID).OrdersAssigned != 1 {
		t.Fatalf("far agent should be untouched")
	}

	gotNear := repo.findAgent(t, near.ID)
	if gotNear.OrdersAssigned != 2 {
		t.Fatalf("expected near agent counter bump, got %d", gotNear.OrdersAssigned)
	}
	if gotNear.DistanceTravelled <= 2 || gotNear.DistanceTravelled >= 2.5 {
		t.Fatalf("expected ~2.2km added to distance, got %v", gotNear.DistanceTravelled)
	}
	if gotNear.Latitude != order.Latitude || gotNear.Longitude != order.Longitude {
		t.Fatalf("agent should end up at the delivery coordinate, got (%v,%v)", gotNear.Latitude, gotNear.Longitude)
	}
	if len(repo.assignments) != 1 || repo.assignments[0].OrderID != order.ID {
		t.Fatalf("expected one assignment record for the order")
	}
}

func TestRunUsesWarehouseAsReferenceBeforeFirstAssignment(t *testing.T) {
	repo := newStubRepo()
	wh := addWarehouse(repo, 28.70, 77.10)

	// Fresh agent physically far away still anchors at the warehouse.
	fresh := addAgent(repo, wh, models.Agent{Name: "fresh", Latitude: 35.00, Longitude: 80.00, OrdersAssigned: 0})
	order := addOrder(repo, wh, 28.70, 77.10)

	engine := newTestEngine(t, repo)
	if _, err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	got := repo.findOrder(t, order.ID)
	if got.Status != enums.OrderStatusAssigned {
		t.Fatalf("expected assignment from warehouse anchor, got %s", got.Status)
	}
	if len(repo.assignments) != 1 {
		t.Fatalf("expected one assignment record")
	}
	if repo.assignments[0].DistanceKm != 0 {
		t.Fatalf("expected zero distance from warehouse anchor, got %v", repo.assignments[0].DistanceKm)
	}
	if repo.findAgent(t, fresh.ID).HoursWorked != 0 {
		t.Fatalf("zero distance must not consume hours")
	}
}

func TestRunPostponesWhenDistanceBudgetExceeded(t *testing.T) {
	repo := newStubRepo()
	wh := addWarehouse(repo, 28.70, 77.10)

	// 99.5km travelled; the ~1.1km hop would cross the 100km cap.
	addAgent(repo, wh, models.Agent{Name: "spent", Latitude: 28.70, Longitude: 77.10, OrdersAssigned: 3, DistanceTravelled: 99.5})
	order := addOrder(repo, wh, 28.71, 77.10)

	engine := newTestEngine(t, repo)
	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.PostponedTotal != 1 {
		t.Fatalf("expected one postponed order, got %d", report.PostponedTotal)
	}
	if repo.findOrder(t, order.ID).Status != enums.OrderStatusPostponed {
		t.Fatalf("expected order postponed")
	}
	if len(repo.assignments) != 0 {
		t.Fatalf("no assignment should be recorded")
	}
}

func TestRunPostponesWhenHoursBudgetExceeded(t *testing.T) {
	repo := newStubRepo()
	wh := addWarehouse(repo, 28.70, 77.10)

	// ~1.1km at 5 min/km is ~0.09h; 9.95h worked leaves no room.
	addAgent(repo, wh, models.Agent{Name: "tired", Latitude: 28.70, Longitude: 77.10, OrdersAssigned: 3, HoursWorked: 9.95})
	order := addOrder(repo, wh, 28.71, 77.10)

	engine := newTestEngine(t, repo)
	if _, err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if repo.findOrder(t, order.ID).Status != enums.OrderStatusPostponed {
		t.Fatalf("expected order postponed on hours budget")
	}
}

func TestRunPostponesAllWithoutAgents(t *testing.T) {
	repo := newStubRepo()
	wh := addWarehouse(repo, 28.70, 77.10)
	first := addOrder(repo, wh, 28.71, 77.10)
	second := addOrder(repo, wh, 28.72, 77.10)

	engine := newTestEngine(t, repo)
	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.AssignedTotal != 0 || report.PostponedTotal != 2 {
		t.Fatalf("unexpected totals: assigned=%d postponed=%d", report.AssignedTotal, report.PostponedTotal)
	}
	if repo.findOrder(t, first.ID).Status != enums.OrderStatusPostponed {
		t.Fatalf("first order should be postponed")
	}
	if repo.findOrder(t, second.ID).Status != enums.OrderStatusPostponed {
		t.Fatalf("second order should be postponed")
	}
}

func TestRunAssignsAtMostOneOrderPerAgent(t *testing.T) {
	repo := newStubRepo()
	wh := addWarehouse(repo, 28.70, 77.10)
	only := addAgent(repo, wh, models.Agent{Name: "only", Latitude: 28.70, Longitude: 77.10, OrdersAssigned: 0})
	first := addOrder(repo, wh, 28.70, 77.10)
	second := addOrder(repo, wh, 28.70, 77.10)

	engine := newTestEngine(t, repo)
	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.AssignedTotal != 1 || report.PostponedTotal != 1 {
		t.Fatalf("unexpected totals: assigned=%d postponed=%d", report.AssignedTotal, report.PostponedTotal)
	}
	if repo.findOrder(t, first.ID).Status != enums.OrderStatusAssigned {
		t.Fatalf("earliest order should be assigned first")
	}
	if repo.findOrder(t, second.ID).Status != enums.OrderStatusPostponed {
		t.Fatalf("second order must wait for the next run")
	}
	if repo.findAgent(t, only.ID).OrdersAssigned != 1 {
		t.Fatalf("agent should carry exactly one assignment")
	}
}

func TestRunTieBreakKeepsEarlierAgent(t *testing.T) {
	repo := newStubRepo()
	wh := addWarehouse(repo, 28.70, 77.10)

	// Both fresh, both anchored at the warehouse: identical distances.
	winner := addAgent(repo, wh, models.Agent{Name: "first", Latitude: 30.00, Longitude: 80.00})
	addAgent(repo, wh, models.Agent{Name: "second", Latitude: 31.00, Longitude: 81.00})
	order := addOrder(repo, wh, 28.71, 77.10)

	engine := newTestEngine(t, repo)
	if _, err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	got := repo.findOrder(t, order.ID)
	if got.AssignedAgentID == nil || *got.AssignedAgentID != winner.ID {
		t.Fatalf("tie must keep the earlier agent")
	}
}

func TestRunIsIdempotentAcrossRepeats(t *testing.T) {
	repo := newStubRepo()
	wh := addWarehouse(repo, 28.70, 77.10)
	addAgent(repo, wh, models.Agent{Name: "solo", Latitude: 28.70, Longitude: 77.10})
	addOrder(repo, wh, 28.70, 77.10)
	addOrder(repo, wh, 28.71, 77.10)

	engine := newTestEngine(t, repo)
	if _, err := engine.Run(context.Background()); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	assignmentsAfterFirst := len(repo.assignments)
	statusAfterFirst := make(map[uuid.UUID]enums.OrderStatus)
	for _, o := range repo.orders {
		statusAfterFirst[o.ID] = o.Status
	}

	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if report.AssignedTotal != 0 || report.PostponedTotal != 0 {
		t.Fatalf("second run should be a no-op, got assigned=%d postponed=%d", report.AssignedTotal, report.PostponedTotal)
	}
	if len(repo.assignments) != assignmentsAfterFirst {
		t.Fatalf("second run must not add assignments")
	}
	for _, o := range repo.orders {
		if o.Status != statusAfterFirst[o.ID] {
			t.Fatalf("order %s changed status on repeat run", o.ID)
		}
	}
}

func TestRunProcessesWarehousesIndependently(t *testing.T) {
	repo := newStubRepo()
	east := addWarehouse(repo, 28.70, 77.10)
	west := addWarehouse(repo, 19.07, 72.87)

	addAgent(repo, east, models.Agent{Name: "east-1", Latitude: 28.70, Longitude: 77.10})
	eastOrder := addOrder(repo, east, 28.70, 77.10)
	westOrder := addOrder(repo, west, 19.07, 72.87)

	engine := newTestEngine(t, repo)
	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(report.Warehouses) != 2 {
		t.Fatalf("expected two warehouse reports, got %d", len(report.Warehouses))
	}
	if repo.findOrder(t, eastOrder.ID).Status != enums.OrderStatusAssigned {
		t.Fatalf("east order should be assigned")
	}
	// West has no agents: its backlog postpones without touching east.
	if repo.findOrder(t, westOrder.ID).Status != enums.OrderStatusPostponed {
		t.Fatalf("west order should be postponed")
	}
}

func TestNewEngineValidatesParams(t *testing.T) {
	repo := newStubRepo()
	if _, err := NewEngine(nil, stubTxRunner{}, nil, nil, testParams()); err == nil {
		t.Fatal("expected error for nil repository")
	}
	if _, err := NewEngine(repo, nil, nil, nil, testParams()); err == nil {
		t.Fatal("expected error for nil tx runner")
	}
	bad := testParams()
	bad.MaxWorkingHours = 0
	if _, err := NewEngine(repo, stubTxRunner{}, nil, nil, bad); err == nil {
		t.Fatal("expected error for non-positive budget")
	}
}
