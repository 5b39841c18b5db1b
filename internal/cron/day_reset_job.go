package cron

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/swiftdrop/dispatch-backend/internal/agents"
	"github.com/swiftdrop/dispatch-backend/internal/orders"
	"github.com/swiftdrop/dispatch-backend/pkg/logger"
)

// DayResetJobParams configure the day rollover job.
type DayResetJobParams struct {
	Logger *logger.Logger
	DB     txRunner
	Orders orders.Repository
	Agents agents.Repository
}

// NewDayResetJob builds the job that rolls the fleet over to a new
// operational day: postponed orders return to the pending queue and agent
// daily budgets reset. Both happen in one transaction so a half-reset day
// is impossible.
func NewDayResetJob(params DayResetJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Agents == nil {
		return nil, fmt.Errorf("agents repository required")
	}
	return &dayResetJob{
		logg:   params.Logger,
		db:     params.DB,
		orders: params.Orders,
		agents: params.Agents,
	}, nil
}

type dayResetJob struct {
	logg   *logger.Logger
	db     txRunner
	orders orders.Repository
	agents agents.Repository
}

func (j *dayResetJob) Name() string { return "day-reset" }

func (j *dayResetJob) Run(ctx context.Context) error {
	var requeued, reset int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.orders.WithTx(tx).RequeuePostponed(ctx)
		if err != nil {
			return fmt.Errorf("requeueing postponed orders: %w", err)
		}
		requeued = rows

		rows, err = j.agents.WithTx(tx).ResetDaily(ctx)
		if err != nil {
			return fmt.Errorf("resetting agents: %w", err)
		}
		reset = rows
		return nil
	})
	if err != nil {
		return fmt.Errorf("day reset: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"orders_requeued": requeued,
		"agents_reset":    reset,
	})
	j.logg.Info(logCtx, "day reset complete")
	return nil
}
