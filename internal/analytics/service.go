package analytics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/swiftdrop/dispatch-backend/pkg/enums"
	pkgerrors "github.com/swiftdrop/dispatch-backend/pkg/errors"
)

// FleetSnapshot is the operational overview of the delivery fleet.
type FleetSnapshot struct {
	Warehouses      int64 `json:"warehouses"`
	Agents          int64 `json:"agents"`
	AvailableAgents int64 `json:"available_agents"`
	OrdersTotal     int64 `json:"orders_total"`
	OrdersPending   int64 `json:"orders_pending"`
	OrdersAssigned  int64 `json:"orders_assigned"`
	OrdersPostponed int64 `json:"orders_postponed"`

	// AvgOrdersPerActiveAgent averages orders_assigned over the agents that
	// have at least one; AgentUtilizationPct is the share of all agents with
	// at least one assignment record. Both round to two decimal places and
	// are zero on an empty fleet.
	AvgOrdersPerActiveAgent float64 `json:"avg_orders_per_active_agent"`
	AgentUtilizationPct     float64 `json:"agent_utilization_pct"`
}

// Service provides fleet-level reporting.
type Service interface {
	FleetSnapshot(ctx context.Context) (*FleetSnapshot, error)
}

type service struct {
	repo Repository
}

// NewService builds an analytics service backed by the dispatch database.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("analytics repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) FleetSnapshot(ctx context.Context) (*FleetSnapshot, error) {
	warehouses, err := s.repo.CountWarehouses(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting warehouses")
	}
	agents, err := s.repo.CountAgents(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting agents")
	}
	available, err := s.repo.CountAvailableAgents(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting available agents")
	}
	withOrders, err := s.repo.CountAgentsWithOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting loaded agents")
	}
	withAssignments, err := s.repo.CountAgentsWithAssignments(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting assigned agents")
	}
	assignedSum, err := s.repo.SumAssignedOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing assigned orders")
	}
	byStatus, err := s.repo.CountOrdersByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting orders")
	}

	snapshot := &FleetSnapshot{
		Warehouses:      warehouses,
		Agents:          agents,
		AvailableAgents: available,
		OrdersPending:   byStatus[enums.OrderStatusPending],
		OrdersAssigned:  byStatus[enums.OrderStatusAssigned],
		OrdersPostponed: byStatus[enums.OrderStatusPostponed],
	}
	for _, n := range byStatus {
		snapshot.OrdersTotal += n
	}

	if withOrders > 0 {
		avg := decimal.NewFromInt(assignedSum).
			Div(decimal.NewFromInt(withOrders)).
			Round(2)
		snapshot.AvgOrdersPerActiveAgent = avg.InexactFloat64()
	}
	if agents > 0 {
		pct := decimal.NewFromInt(withAssignments).
			Div(decimal.NewFromInt(agents)).
			Mul(decimal.NewFromInt(100)).
			Round(2)
		snapshot.AgentUtilizationPct = pct.InexactFloat64()
	}
	return snapshot, nil
}
