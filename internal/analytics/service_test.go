package analytics

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/swiftdrop/dispatch-backend/pkg/enums"
)

type stubAnalyticsRepo struct {
	warehouses      int64
	agents          int64
	available       int64
	withOrders      int64
	withAssignments int64
	assignedSum     int64
	byStatus        map[enums.OrderStatus]int64
}

func (s *stubAnalyticsRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubAnalyticsRepo) CountWarehouses(ctx context.Context) (int64, error) {
	return s.warehouses, nil
}

func (s *stubAnalyticsRepo) CountAgents(ctx context.Context) (int64, error) {
	return s.agents, nil
}

func (s *stubAnalyticsRepo) CountAvailableAgents(ctx context.Context) (int64, error) {
	return s.available, nil
}

func (s *stubAnalyticsRepo) CountAgentsWithOrders(ctx context.Context) (int64, error) {
	return s.withOrders, nil
}

func (s *stubAnalyticsRepo) CountAgentsWithAssignments(ctx context.Context) (int64, error) {
	return s.withAssignments, nil
}

func (s *stubAnalyticsRepo) SumAssignedOrders(ctx context.Context) (int64, error) {
	return s.assignedSum, nil
}

func (s *stubAnalyticsRepo) CountOrdersByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	return s.byStatus, nil
}

func TestFleetSnapshotComputesRoundedRatios(t *testing.T) {
	repo := &stubAnalyticsRepo{
		warehouses:      2,
		agents:          6,
		available:       5,
		withOrders:      4,
		withAssignments: 4,
		assignedSum:     7,
		byStatus: map[enums.OrderStatus]int64{
			enums.OrderStatusPending:   3,
			enums.OrderStatusAssigned:  7,
			enums.OrderStatusPostponed: 1,
		},
	}

	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	got, err := svc.FleetSnapshot(context.Background())
	if err != nil {
		t.Fatalf("FleetSnapshot failed: %v", err)
	}

	if got.OrdersPending != 3 || got.OrdersAssigned != 7 || got.OrdersPostponed != 1 {
		t.Fatalf("unexpected order counts: %+v", got)
	}
	if got.OrdersTotal != 11 {
		t.Fatalf("expected 11 orders total, got %d", got.OrdersTotal)
	}
	if got.AvailableAgents != 5 {
		t.Fatalf("expected 5 available agents, got %d", got.AvailableAgents)
	}
	// 7 assigned over the 4 agents carrying orders = 1.75 exactly.
	if got.AvgOrdersPerActiveAgent != 1.75 {
		t.Fatalf("expected avg 1.75, got %v", got.AvgOrdersPerActiveAgent)
	}
	// 4 of 6 agents hold an assignment = 66.67 after rounding.
	if got.AgentUtilizationPct != 66.67 {
		t.Fatalf("expected utilization 66.67, got %v", got.AgentUtilizationPct)
	}
}

func TestFleetSnapshotEmptyFleetIsAllZeros(t *testing.T) {
	repo := &stubAnalyticsRepo{byStatus: map[enums.OrderStatus]int64{}}

	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	got, err := svc.FleetSnapshot(context.Background())
	if err != nil {
		t.Fatalf("FleetSnapshot failed: %v", err)
	}
	if got.OrdersTotal != 0 || got.AvgOrdersPerActiveAgent != 0 || got.AgentUtilizationPct != 0 {
		t.Fatalf("empty fleet must not divide by zero: %+v", got)
	}
}

func TestFleetSnapshotNoLoadedAgents(t *testing.T) {
	repo := &stubAnalyticsRepo{
		warehouses: 1,
		agents:     3,
		available:  2,
		byStatus: map[enums.OrderStatus]int64{
			enums.OrderStatusPending: 5,
		},
	}

	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	got, err := svc.FleetSnapshot(context.Background())
	if err != nil {
		t.Fatalf("FleetSnapshot failed: %v", err)
	}
	if got.AvgOrdersPerActiveAgent != 0 {
		t.Fatalf("no loaded agents must yield zero average, got %v", got.AvgOrdersPerActiveAgent)
	}
	if got.AgentUtilizationPct != 0 {
		t.Fatalf("no assignments must yield zero utilization, got %v", got.AgentUtilizationPct)
	}
}
