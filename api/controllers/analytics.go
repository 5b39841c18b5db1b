package controllers

import (
	"net/http"

	"github.com/swiftdrop/dispatch-backend/api/responses"
	"github.com/swiftdrop/dispatch-backend/internal/analytics"
	pkgerrors "github.com/swiftdrop/dispatch-backend/pkg/errors"
	"github.com/swiftdrop/dispatch-backend/pkg/logger"
)

// AnalyticsFleet returns the fleet-wide operational snapshot.
func AnalyticsFleet(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		snapshot, err := svc.FleetSnapshot(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}
