package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/swiftdrop/dispatch-backend/api/responses"
	"github.com/swiftdrop/dispatch-backend/api/validators"
	"github.com/swiftdrop/dispatch-backend/internal/agents"
	pkgerrors "github.com/swiftdrop/dispatch-backend/pkg/errors"
	"github.com/swiftdrop/dispatch-backend/pkg/logger"
)

type createAgentRequest struct {
	WarehouseID string  `json:"warehouse_id" validate:"required,uuid4"`
	Name        string  `json:"name" validate:"required,min=1"`
	Phone       *string `json:"phone,omitempty"`
	Latitude    float64 `json:"latitude" validate:"latitude"`
	Longitude   float64 `json:"longitude" validate:"longitude"`
}

// AgentCreate enrolls a field agent under a warehouse.
func AgentCreate(svc agents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAgentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		warehouseID, err := uuid.Parse(req.WarehouseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid warehouse id"))
			return
		}

		created, err := svc.Create(r.Context(), agents.CreateAgentInput{
			WarehouseID: warehouseID,
			Name:        req.Name,
			Phone:       req.Phone,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AgentList returns agents, optionally filtered by warehouse.
func AgentList(svc agents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		warehouseID, err := validators.ParseQueryUUID(r, "warehouse_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), warehouseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AgentCheckIn marks an agent present for today's allocation run.
func AgentCheckIn(svc agents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agentID, err := uuid.Parse(chi.URLParam(r, "agentID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid agent id"))
			return
		}

		agent, err := svc.CheckIn(r.Context(), agentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, agent)
	}
}
