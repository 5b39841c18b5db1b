package dispatch

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/swiftdrop/dispatch-backend/pkg/db/models"
	"github.com/swiftdrop/dispatch-backend/pkg/geo"
	"github.com/swiftdrop/dispatch-backend/pkg/logger"
	"github.com/swiftdrop/dispatch-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Params holds the allocation budgets. Travel time for an order is
// DistanceKm * MinutesPerKm; an agent is feasible for an order only if both
// the hours and the distance budget survive the addition.
type Params struct {
	MinutesPerKm         float64
	MaxWorkingHours      float64
	MaxDrivingDistanceKm float64
	WarehouseConcurrency int
}

// Engine runs the daily nearest-agent allocation across all warehouses.
type Engine struct {
	repo    Repository
	tx      txRunner
	logg    *logger.Logger
	metrics *metrics.DispatchMetrics
	params  Params
	now     func() time.Time
}

// NewEngine builds an allocation engine with the required dependencies.
func NewEngine(repo Repository, tx txRunner, logg *logger.Logger, m *metrics.DispatchMetrics, params Params) (*Engine, error) {
	if repo == nil {
		return nil, fmt.Errorf("dispatch repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.MinutesPerKm <= 0 || params.MaxWorkingHours <= 0 || params.MaxDrivingDistanceKm <= 0 {
		return nil, fmt.Errorf("allocation budgets must be positive")
	}
	if params.WarehouseConcurrency <= 0 {
		params.WarehouseConcurrency = 1
	}
	return &Engine{
		repo:    repo,
		tx:      tx,
		logg:    logg,
		metrics: m,
		params:  params,
		now:     time.Now,
	}, nil
}

// Run allocates pending orders for every warehouse. Warehouses are processed
// concurrently but each one commits in its own transaction, so a failure in
// one warehouse never rolls back another.
func (e *Engine) Run(ctx context.Context) (*RunReport, error) {
	startedAt := e.now().UTC()

	warehouses, err := e.repo.ListWarehouses(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing warehouses: %w", err)
	}

	var (
		mu      sync.Mutex
		reports []WarehouseReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.params.WarehouseConcurrency)

	for _, wh := range warehouses {
		wh := wh
		g.Go(func() error {
			report, err := e.runWarehouse(gctx, wh)
			if err != nil {
				return fmt.Errorf("warehouse %s: %w", wh.ID, err)
			}
			mu.Lock()
			reports = append(reports, *report)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].WarehouseName < reports[j].WarehouseName
	})

	out := &RunReport{
		StartedAt:  startedAt,
		FinishedAt: e.now().UTC(),
		Warehouses: reports,
	}
	for _, r := range reports {
		out.AssignedTotal += r.AssignedCount
		out.PostponedTotal += r.PostponedCount
	}

	if e.logg != nil {
		ctx = e.logg.WithFields(ctx, map[string]any{
			"warehouses": len(warehouses),
			"assigned":   out.AssignedTotal,
			"postponed":  out.PostponedTotal,
		})
		e.logg.Info(ctx, "allocation run completed")
	}
	return out, nil
}

// candidate is an agent in the working set with its run-local budget view.
// Until an agent's first assignment of the day its reference position is the
// warehouse itself; afterwards it is the agent's own coordinates.
type candidate struct {
	agent  models.Agent
	refLat float64
	refLon float64
}

func (e *Engine) runWarehouse(ctx context.Context, wh models.Warehouse) (*WarehouseReport, error) {
	started := e.now()
	report := &WarehouseReport{
		WarehouseID:   wh.ID,
		WarehouseName: wh.Name,
	}

	err := e.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := e.repo.WithTx(tx)

		agents, err := repo.ListAvailableAgents(ctx, wh.ID)
		if err != nil {
			return fmt.Errorf("listing agents: %w", err)
		}
		orders, err := repo.ListPendingOrders(ctx, wh.ID)
		if err != nil {
			return fmt.Errorf("listing pending orders: %w", err)
		}

		report.AgentsConsidered = len(agents)
		report.OrdersConsidered = len(orders)

		pool := make([]candidate, 0, len(agents))
		for _, a := range agents {
			c := candidate{agent: a, refLat: a.Latitude, refLon: a.Longitude}
			if a.OrdersAssigned == 0 {
				c.refLat, c.refLon = wh.Latitude, wh.Longitude
			}
			pool = append(pool, c)
		}

		for _, order := range orders {
			idx, dist := e.pickNearestFeasible(pool, order)
			if idx < 0 {
				rows, err := repo.MarkOrderPostponed(ctx, order.ID)
				if err != nil {
					return fmt.Errorf("postponing order %s: %w", order.ID, err)
				}
				if rows > 0 {
					report.PostponedCount++
					report.PostponedOrders = append(report.PostponedOrders, order.ID)
				}
				continue
			}

			picked := pool[idx]
			travel := time.Duration(dist * e.params.MinutesPerKm * float64(time.Minute))
			eta := e.now().Add(travel)

			rows, err := repo.MarkOrderAssigned(ctx, order.ID, picked.agent.ID, eta)
			if err != nil {
				return fmt.Errorf("assigning order %s: %w", order.ID, err)
			}
			if rows == 0 {
				// Raced out of pending by another writer; the agent keeps
				// its budget and stays in the pool.
				continue
			}

			// The agent ends the delivery at the order's coordinate.
			progress := AgentProgress{
				HoursWorked:       picked.agent.HoursWorked + dist*e.params.MinutesPerKm/60,
				DistanceTravelled: picked.agent.DistanceTravelled + dist,
				OrdersAssigned:    picked.agent.OrdersAssigned + 1,
				Latitude:          order.Latitude,
				Longitude:         order.Longitude,
			}
			if err := repo.UpdateAgentAfterAssignment(ctx, picked.agent.ID, progress); err != nil {
				return fmt.Errorf("updating agent %s: %w", picked.agent.ID, err)
			}
			if err := repo.RecordAssignment(ctx, &models.Assignment{
				AgentID:    picked.agent.ID,
				OrderID:    order.ID,
				DistanceKm: dist,
				AssignedAt: e.now().UTC(),
			}); err != nil {
				return fmt.Errorf("recording assignment: %w", err)
			}

			report.AssignedCount++
			pool = append(pool[:idx], pool[idx+1:]...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.ObserveWarehouseRun(wh.Name, report.AssignedCount, report.PostponedCount, e.now().Sub(started))
	}
	return report, nil
}

// pickNearestFeasible returns the index of the closest agent that can absorb
// the order within both budgets, or -1. Ties keep the earlier agent.
func (e *Engine) pickNearestFeasible(pool []candidate, order models.Order) (int, float64) {
	best := -1
	bestDist := 0.0
	for i, c := range pool {
		d := geo.DistanceKm(c.refLat, c.refLon, order.Latitude, order.Longitude)
		travelHours := d * e.params.MinutesPerKm / 60

		if c.agent.HoursWorked+travelHours > e.params.MaxWorkingHours {
			continue
		}
		if c.agent.DistanceTravelled+d > e.params.MaxDrivingDistanceKm {
			continue
		}
		if best == -1 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best, bestDist
}
