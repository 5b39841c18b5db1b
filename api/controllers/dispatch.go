package controllers

import (
	"context"
	"net/http"

	"github.com/swiftdrop/dispatch-backend/api/responses"
	"github.com/swiftdrop/dispatch-backend/internal/dispatch"
	pkgerrors "github.com/swiftdrop/dispatch-backend/pkg/errors"
	"github.com/swiftdrop/dispatch-backend/pkg/logger"
)

type allocationRunner interface {
	Run(ctx context.Context) (*dispatch.RunReport, error)
}

// DispatchRun triggers an allocation run on demand and returns the
// per-warehouse report. The run itself is safe to repeat; orders already
// assigned stay with their agent.
func DispatchRun(engine allocationRunner, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dispatch engine unavailable"))
			return
		}

		report, err := engine.Run(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
