package car

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealerhub/dealerhub-backend/pkg/db"
	"github.com/dealerhub/dealerhub-backend/pkg/db/models"
	"github.com/dealerhub/dealerhub-backend/pkg/enums"
	pkgerrors "github.com/dealerhub/dealerhub-backend/pkg/errors"
	"github.com/dealerhub/dealerhub-backend/pkg/logger"
	"github.com/dealerhub/dealerhub-backend/pkg/pagination"
)

// Service exposes car catalog management operations.
type Service interface {
	CreateCar(ctx context.Context, input CarInput) (*CarDTO, error)
	UpdateCar(ctx context.Context, id uuid.UUID, input CarInput) (*CarDTO, error)
	GetCar(ctx context.Context, id uuid.UUID) (*CarDTO, error)
	DeleteCar(ctx context.Context, id uuid.UUID) error
	ListCars(ctx context.Context, query ListQuery) (*ListResult, error)
	ReplacePhotos(ctx context.Context, id uuid.UUID, photos []PhotoDraft) (*CarDTO, error)
	ReplaceDetails(ctx context.Context, id uuid.UUID, details []DetailDraft) (*CarDTO, error)
	BulkStatus(ctx context.Context, ids []uuid.UUID, status enums.CarStatus) (int64, error)
	FilterOptions(ctx context.Context) (*FilterOptionsDTO, error)
}

// CarInput is the full editable payload for create and update.
type CarInput struct {
	Fields        FieldValues
	SubcategoryID *uuid.UUID
	Steering      *enums.SteeringSide
	Drive         *enums.DriveType
	Transmission  *enums.Transmission
	Fuel          *enums.FuelType
	GradeExterior *string
	GradeInterior *string
	Currency      string
	PriceBasis    *string
	Status        enums.CarStatus
	Photos        []PhotoDraft
	Details       []DetailDraft
}

type categoryLoader interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type service struct {
	repo       *Repository
	dbClient   *db.Client
	categories categoryLoader
	logg       *logger.Logger
}

// NewService constructs a car service instance.
func NewService(repo *Repository, dbClient *db.Client, categories categoryLoader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("car repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category loader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, dbClient: dbClient, categories: categories, logg: logg}, nil
}

func (s *service) validateInput(ctx context.Context, input CarInput) error {
	problems := Validate(input.Fields)

	if input.Status != "" && !input.Status.IsValid() {
		problems["status"] = "is not a recognized status"
	}
	if input.Transmission != nil && !input.Transmission.IsValid() {
		problems["transmission"] = "is not a recognized transmission"
	}
	if input.Drive != nil && !input.Drive.IsValid() {
		problems["drive"] = "is not a recognized drive type"
	}
	if input.Steering != nil && !input.Steering.IsValid() {
		problems["steering"] = "is not a recognized steering side"
	}
	if input.Fuel != nil && !input.Fuel.IsValid() {
		problems["fuel"] = "is not a recognized fuel type"
	}

	if len(problems) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "car validation failed").WithDetails(problems)
	}

	if input.Fields.CategoryID != nil {
		ok, err := s.categories.Exists(ctx, *input.Fields.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "car validation failed").
				WithDetails(map[string]string{"category_id": "does not exist"})
		}
	}
	return nil
}

func applyInput(target *models.Car, input CarInput) {
	f := input.Fields
	if f.CategoryID != nil {
		target.CategoryID = *f.CategoryID
	}
	target.SubcategoryID = input.SubcategoryID
	if f.RefNo != nil {
		target.RefNo = *f.RefNo
	} else {
		target.RefNo = ""
	}
	target.Make = f.Make
	target.Model = f.Model
	target.ModelCode = f.ModelCode
	target.Variant = f.Variant
	target.Year = f.Year
	target.RegYearMonth = f.RegYearMonth
	target.Mileage = f.Mileage
	target.EngineCC = f.EngineCC
	target.Transmission = input.Transmission
	target.Drive = input.Drive
	target.Steering = input.Steering
	target.Fuel = input.Fuel
	target.Color = f.Color
	target.Seats = f.Seats
	target.GradeOverall = f.GradeOverall
	target.GradeExterior = input.GradeExterior
	target.GradeInterior = input.GradeInterior
	target.PriceAmount = f.PriceAmount
	if input.Currency != "" {
		target.Currency = input.Currency
	}
	target.PriceBasis = input.PriceBasis
	target.FOBValue = f.FOBValue
	target.Freight = f.Freight
	target.ChassisNoMasked = f.ChassisNoMasked
	target.ChassisNoFull = f.ChassisNoFull
	target.Location = f.Location
	target.Country = f.Country
	if input.Status != "" {
		target.Status = input.Status
	}
	target.Notes = f.Notes
}

// CreateCar validates and persists a new listing with its collections.
func (s *service) CreateCar(ctx context.Context, input CarInput) (*CarDTO, error) {
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	record := &models.Car{}
	applyInput(record, input)

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Create(ctx, record); err != nil {
			return err
		}
		if err := repo.ReplacePhotos(ctx, record.ID, photoModels(record.ID, input.Photos)); err != nil {
			return err
		}
		return repo.ReplaceDetails(ctx, record.ID, detailModels(record.ID, input.Details))
	})
	if err != nil {
		return nil, mapDBError(err)
	}

	ctx = s.logg.WithCarID(ctx, record.ID.String())
	s.logg.Info(ctx, "car created")
	return s.GetCar(ctx, record.ID)
}

// UpdateCar validates and replaces the listing, including collections.
func (s *service) UpdateCar(ctx context.Context, id uuid.UUID, input CarInput) (*CarDTO, error) {
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapDBError(err)
	}

	applyInput(existing, input)

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.UpdateScalars(ctx, existing); err != nil {
			return err
		}
		if err := repo.ReplacePhotos(ctx, id, photoModels(id, input.Photos)); err != nil {
			return err
		}
		return repo.ReplaceDetails(ctx, id, detailModels(id, input.Details))
	})
	if err != nil {
		return nil, mapDBError(err)
	}

	ctx = s.logg.WithCarID(ctx, id.String())
	s.logg.Info(ctx, "car updated")
	return s.GetCar(ctx, id)
}

// GetCar loads one listing.
func (s *service) GetCar(ctx context.Context, id uuid.UUID) (*CarDTO, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapDBError(err)
	}
	return toCarDTO(record), nil
}

// DeleteCar removes the listing and its owned collections.
func (s *service) DeleteCar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return mapDBError(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapDBError(err)
	}
	ctx = s.logg.WithCarID(ctx, id.String())
	s.logg.Info(ctx, "car deleted")
	return nil
}

// ListCars resolves one catalog page with filters, sorting, and pagination.
func (s *service) ListCars(ctx context.Context, query ListQuery) (*ListResult, error) {
	rows, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, mapDBError(err)
	}

	meta := pagination.Resolve(query.Pagination, int(total))
	result := &ListResult{
		Cars: make([]CarDTO, 0, len(rows)),
		Meta: meta,
	}
	for i := range rows {
		result.Cars = append(result.Cars, *toCarDTO(&rows[i]))
	}
	return result, nil
}

// ReplacePhotos swaps the gallery after normalizing the primary flag and order.
func (s *service) ReplacePhotos(ctx context.Context, id uuid.UUID, photos []PhotoDraft) (*CarDTO, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, mapDBError(err)
	}
	if err := s.repo.ReplacePhotos(ctx, id, photoModels(id, photos)); err != nil {
		return nil, mapDBError(err)
	}
	return s.GetCar(ctx, id)
}

// ReplaceDetails swaps the detail sections, persisting display positions.
func (s *service) ReplaceDetails(ctx context.Context, id uuid.UUID, details []DetailDraft) (*CarDTO, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, mapDBError(err)
	}
	if err := s.repo.ReplaceDetails(ctx, id, detailModels(id, details)); err != nil {
		return nil, mapDBError(err)
	}
	return s.GetCar(ctx, id)
}

// BulkStatus transitions every listed car to the given status in one transaction.
func (s *service) BulkStatus(ctx context.Context, ids []uuid.UUID, status enums.CarStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "at least one car id is required")
	}
	if !status.IsValid() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "unknown car status").
			WithDetails(map[string]string{"status": status.String()})
	}

	var affected int64
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		var txErr error
		affected, txErr = s.repo.WithTx(tx).BulkStatus(ctx, ids, status)
		return txErr
	})
	if err != nil {
		return 0, mapDBError(err)
	}

	s.logg.Info(s.logg.WithField(ctx, "affected", affected), "bulk status applied")
	return affected, nil
}

// FilterOptions returns the server-declared filter enumerations.
func (s *service) FilterOptions(ctx context.Context) (*FilterOptionsDTO, error) {
	options, err := s.repo.FilterOptions(ctx)
	if err != nil {
		return nil, mapDBError(err)
	}
	return options, nil
}

func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if appErr := pkgerrors.As(err); appErr != nil {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "car not found")
	}
	if db.IsUniqueViolation(err) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "duplicate car record")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "car storage failure")
}
