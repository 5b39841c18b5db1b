package cron

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/swiftdrop/dispatch-backend/internal/dispatch"
	"github.com/swiftdrop/dispatch-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type allocator interface {
	Run(ctx context.Context) (*dispatch.RunReport, error)
}

// AllocationJobParams configure the daily allocation job.
type AllocationJobParams struct {
	Logger *logger.Logger
	Engine allocator
}

// NewAllocationJob wraps the allocation engine as a scheduled job.
func NewAllocationJob(params AllocationJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Engine == nil {
		return nil, fmt.Errorf("allocation engine required")
	}
	return &allocationJob{
		logg:   params.Logger,
		engine: params.Engine,
	}, nil
}

type allocationJob struct {
	logg   *logger.Logger
	engine allocator
}

func (j *allocationJob) Name() string { return "allocation" }

func (j *allocationJob) Run(ctx context.Context) error {
	report, err := j.engine.Run(ctx)
	if err != nil {
		return fmt.Errorf("allocation run: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"warehouses": len(report.Warehouses),
		"assigned":   report.AssignedTotal,
		"postponed":  report.PostponedTotal,
	})
	j.logg.Info(logCtx, "allocation job complete")
	return nil
}
