package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealerhub/dealerhub-backend/api/responses"
	"github.com/dealerhub/dealerhub-backend/api/validators"
	stock "github.com/dealerhub/dealerhub-backend/internal/stock"
	"github.com/dealerhub/dealerhub-backend/pkg/enums"
	pkgerrors "github.com/dealerhub/dealerhub-backend/pkg/errors"
	"github.com/dealerhub/dealerhub-backend/pkg/logger"
)

type stockPayload struct {
	CarID    uuid.UUID       `json:"car_id" validate:"required"`
	Quantity int             `json:"quantity"`
	Status   string          `json:"status" validate:"required"`
	Price    decimal.Decimal `json:"price"`
	Notes    *string         `json:"notes"`
}

func StockList(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.QueryPagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, "stock retrieved", result.Items, result.Meta)
	}
}

func StockGetByCar(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		carID, err := validators.PathUUID(chi.URLParam(r, "carID"), "car_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetByCar(r.Context(), carID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "stock item retrieved", dto)
	}
}

func StockUpsert(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload stockPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseStockStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "stock validation failed").
				WithDetails(map[string]string{"status": "is not a recognized status"}))
			return
		}

		dto, err := svc.Upsert(r.Context(), stock.UpsertInput{
			CarID:    payload.CarID,
			Quantity: payload.Quantity,
			Status:   status,
			Price:    payload.Price,
			Notes:    payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "stock item saved", dto)
	}
}

func StockDelete(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		carID, err := validators.PathUUID(chi.URLParam(r, "carID"), "car_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), carID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "stock item deleted", nil)
	}
}
