package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/swiftdrop/dispatch-backend/api/responses"
	"github.com/swiftdrop/dispatch-backend/api/validators"
	"github.com/swiftdrop/dispatch-backend/internal/orders"
	pkgerrors "github.com/swiftdrop/dispatch-backend/pkg/errors"
	"github.com/swiftdrop/dispatch-backend/pkg/logger"
)

type createOrderRequest struct {
	WarehouseID     string  `json:"warehouse_id" validate:"required,uuid4"`
	CustomerName    string  `json:"customer_name" validate:"required,min=1"`
	DeliveryAddress string  `json:"delivery_address" validate:"required,min=1"`
	Latitude        float64 `json:"latitude" validate:"latitude"`
	Longitude       float64 `json:"longitude" validate:"longitude"`
}

// OrderCreate places an order against a warehouse. New orders always
// enter the pending queue.
func OrderCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		warehouseID, err := uuid.Parse(req.WarehouseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid warehouse id"))
			return
		}

		created, err := svc.Create(r.Context(), orders.CreateOrderInput{
			WarehouseID:     warehouseID,
			CustomerName:    req.CustomerName,
			DeliveryAddress: req.DeliveryAddress,
			Latitude:        req.Latitude,
			Longitude:       req.Longitude,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// OrderList returns orders filtered by warehouse and/or status.
func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		warehouseID, err := validators.ParseQueryUUID(r, "warehouse_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := validators.ParseQueryOrderStatus(r, "status")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), orders.ListFilters{
			WarehouseID: warehouseID,
			Status:      status,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// OrderGet returns one order by ID.
func OrderGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
