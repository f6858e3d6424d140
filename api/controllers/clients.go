package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealerhub/dealerhub-backend/api/responses"
	"github.com/dealerhub/dealerhub-backend/api/validators"
	client "github.com/dealerhub/dealerhub-backend/internal/clients"
	"github.com/dealerhub/dealerhub-backend/pkg/logger"
)

type clientPayload struct {
	Name    string  `json:"name" validate:"required"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone"`
	Country *string `json:"country"`
	Notes   *string `json:"notes"`
}

func (p clientPayload) toInput() client.ClientInput {
	return client.ClientInput{
		Name:    p.Name,
		Email:   p.Email,
		Phone:   p.Phone,
		Country: p.Country,
		Notes:   p.Notes,
	}
}

type salePayload struct {
	CarID     uuid.UUID       `json:"car_id" validate:"required"`
	ClientID  uuid.UUID       `json:"client_id" validate:"required"`
	SoldPrice decimal.Decimal `json:"sold_price"`
	Currency  string          `json:"currency" validate:"required"`
	SoldAt    *time.Time      `json:"sold_at"`
}

func ClientsList(svc client.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.QueryPagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListClients(r.Context(), validators.QueryString(r, "search"), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, "clients retrieved", result.Clients, result.Meta)
	}
}

func ClientsGet(svc client.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetClient(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "client retrieved", dto)
	}
}

func ClientsCreate(svc client.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload clientPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateClient(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, "client created", dto)
	}
}

func ClientsUpdate(svc client.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload clientPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateClient(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "client updated", dto)
	}
}

func ClientsDelete(svc client.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteClient(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "client deleted", nil)
	}
}

func SalesRecord(svc client.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload salePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.RecordSale(r.Context(), client.SaleInput{
			CarID:     payload.CarID,
			ClientID:  payload.ClientID,
			SoldPrice: payload.SoldPrice,
			Currency:  payload.Currency,
			SoldAt:    payload.SoldAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, "sale recorded", dto)
	}
}

func SalesList(svc client.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.QueryPagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clientID, err := validators.QueryUUID(r, "client_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListSales(r.Context(), clientID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, "sales retrieved", result.Sales, result.Meta)
	}
}
