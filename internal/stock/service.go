package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dealerhub/dealerhub-backend/pkg/db/models"
	"github.com/dealerhub/dealerhub-backend/pkg/enums"
	pkgerrors "github.com/dealerhub/dealerhub-backend/pkg/errors"
	"github.com/dealerhub/dealerhub-backend/pkg/logger"
	"github.com/dealerhub/dealerhub-backend/pkg/pagination"
)

// StockItemDTO is the stock payload joined with its car summary.
type StockItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	CarID     uuid.UUID       `json:"car_id"`
	CarName   string          `json:"car_name"`
	PhotoURL  *string         `json:"photo_url,omitempty"`
	Quantity  int             `json:"quantity"`
	Status    string          `json:"status"`
	Price     decimal.Decimal `json:"price"`
	Notes     *string         `json:"notes,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// UpsertInput is the payload for creating or updating a stock row.
type UpsertInput struct {
	CarID    uuid.UUID
	Quantity int
	Status   enums.StockStatus
	Price    decimal.Decimal
	Notes    *string
}

// ListResult is one resolved stock page.
type ListResult struct {
	Items []StockItemDTO
	Meta  pagination.Meta
}

type carLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Car, error)
}

// Service exposes stock management operations.
type Service interface {
	List(ctx context.Context, params pagination.Params) (*ListResult, error)
	GetByCar(ctx context.Context, carID uuid.UUID) (*StockItemDTO, error)
	Upsert(ctx context.Context, input UpsertInput) (*StockItemDTO, error)
	Delete(ctx context.Context, carID uuid.UUID) error
}

type service struct {
	repo *Repository
	cars carLoader
	logg *logger.Logger
}

// NewService constructs a stock service instance.
func NewService(repo *Repository, cars carLoader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if cars == nil {
		return nil, fmt.Errorf("car loader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, cars: cars, logg: logg}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ListResult, error) {
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, mapDBError(err)
	}

	result := &ListResult{
		Items: make([]StockItemDTO, 0, len(rows)),
		Meta:  pagination.Resolve(params, int(total)),
	}
	for _, row := range rows {
		result.Items = append(result.Items, toDTO(row.Item, &row.Car))
	}
	return result, nil
}

func (s *service) GetByCar(ctx context.Context, carID uuid.UUID) (*StockItemDTO, error) {
	item, err := s.repo.FindByCarID(ctx, carID)
	if err != nil {
		return nil, mapDBError(err)
	}
	car, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return nil, mapDBError(err)
	}
	dto := toDTO(*item, car)
	return &dto, nil
}

func (s *service) Upsert(ctx context.Context, input UpsertInput) (*StockItemDTO, error) {
	if problems := validateInput(input); len(problems) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock validation failed").WithDetails(problems)
	}

	car, err := s.cars.FindByID(ctx, input.CarID)
	if err != nil {
		return nil, mapDBError(err)
	}

	item := &models.StockItem{
		CarID:    input.CarID,
		Quantity: input.Quantity,
		Status:   input.Status,
		Price:    input.Price,
		Notes:    input.Notes,
	}
	saved, err := s.repo.Upsert(ctx, item)
	if err != nil {
		return nil, mapDBError(err)
	}

	s.logg.Info(s.logg.WithCarID(ctx, input.CarID.String()), "stock upserted")
	dto := toDTO(*saved, car)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, carID uuid.UUID) error {
	if _, err := s.repo.FindByCarID(ctx, carID); err != nil {
		return mapDBError(err)
	}
	if err := s.repo.Delete(ctx, carID); err != nil {
		return mapDBError(err)
	}
	return nil
}

func validateInput(input UpsertInput) map[string]string {
	problems := map[string]string{}
	if input.CarID == uuid.Nil {
		problems["car_id"] = "is required"
	}
	if input.Quantity < 0 {
		problems["quantity"] = "must be at least 0"
	}
	if !input.Status.IsValid() {
		problems["status"] = "is not a recognized stock status"
	}
	if input.Price.IsNegative() {
		problems["price"] = "must be at least 0"
	}
	return problems
}

func toDTO(item models.StockItem, car *models.Car) StockItemDTO {
	dto := StockItemDTO{
		ID:        item.ID,
		CarID:     item.CarID,
		Quantity:  item.Quantity,
		Status:    item.Status.String(),
		Price:     item.Price,
		Notes:     item.Notes,
		UpdatedAt: item.UpdatedAt,
	}
	if car != nil {
		dto.CarName = car.Make + " " + car.Model
		for _, photo := range car.Photos {
			if photo.IsPrimary {
				url := photo.URL
				dto.PhotoURL = &url
				break
			}
		}
	}
	return dto
}

func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if appErr := pkgerrors.As(err); appErr != nil {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "stock item not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stock storage failure")
}
