package client

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dealerhub/dealerhub-backend/pkg/db"
	"github.com/dealerhub/dealerhub-backend/pkg/db/models"
	"github.com/dealerhub/dealerhub-backend/pkg/enums"
	pkgerrors "github.com/dealerhub/dealerhub-backend/pkg/errors"
	"github.com/dealerhub/dealerhub-backend/pkg/logger"
	"github.com/dealerhub/dealerhub-backend/pkg/pagination"
)

// ClientDTO is the client payload returned to callers.
type ClientDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Country   *string   `json:"country,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaleDTO is one recorded sale.
type SaleDTO struct {
	ID        uuid.UUID       `json:"id"`
	CarID     uuid.UUID       `json:"car_id"`
	ClientID  uuid.UUID       `json:"client_id"`
	SoldPrice decimal.Decimal `json:"sold_price"`
	Currency  string          `json:"currency"`
	SoldAt    time.Time       `json:"sold_at"`
}

// ClientInput is the create/update payload for a client.
type ClientInput struct {
	Name    string
	Email   *string
	Phone   *string
	Country *string
	Notes   *string
}

// SaleInput records a completed sale; the car is marked sold in the same
// transaction.
type SaleInput struct {
	CarID     uuid.UUID
	ClientID  uuid.UUID
	SoldPrice decimal.Decimal
	Currency  string
	SoldAt    *time.Time
}

// ListResult is one resolved client page.
type ListResult struct {
	Clients []ClientDTO
	Meta    pagination.Meta
}

// SalesResult is one resolved sales page.
type SalesResult struct {
	Sales []SaleDTO
	Meta  pagination.Meta
}

// CarCatalog is what the sale flow needs from the car domain.
type CarCatalog interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Car, error)
	MarkSold(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

// Service exposes client record-keeping and sale recording.
type Service interface {
	ListClients(ctx context.Context, search string, params pagination.Params) (*ListResult, error)
	GetClient(ctx context.Context, id uuid.UUID) (*ClientDTO, error)
	CreateClient(ctx context.Context, input ClientInput) (*ClientDTO, error)
	UpdateClient(ctx context.Context, id uuid.UUID, input ClientInput) (*ClientDTO, error)
	DeleteClient(ctx context.Context, id uuid.UUID) error
	RecordSale(ctx context.Context, input SaleInput) (*SaleDTO, error)
	ListSales(ctx context.Context, clientID *uuid.UUID, params pagination.Params) (*SalesResult, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	cars     CarCatalog
	logg     *logger.Logger
}

// NewService constructs a client service instance.
func NewService(repo *Repository, dbClient *db.Client, cars CarCatalog, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("client repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if cars == nil {
		return nil, fmt.Errorf("car catalog required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, dbClient: dbClient, cars: cars, logg: logg}, nil
}

func (s *service) ListClients(ctx context.Context, search string, params pagination.Params) (*ListResult, error) {
	rows, total, err := s.repo.List(ctx, search, params)
	if err != nil {
		return nil, mapDBError(err)
	}
	result := &ListResult{
		Clients: make([]ClientDTO, 0, len(rows)),
		Meta:    pagination.Resolve(params, int(total)),
	}
	for _, row := range rows {
		result.Clients = append(result.Clients, toClientDTO(row))
	}
	return result, nil
}

func (s *service) GetClient(ctx context.Context, id uuid.UUID) (*ClientDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapDBError(err)
	}
	dto := toClientDTO(*row)
	return &dto, nil
}

func (s *service) CreateClient(ctx context.Context, input ClientInput) (*ClientDTO, error) {
	if problems := validateClient(input); len(problems) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client validation failed").WithDetails(problems)
	}

	record := &models.Client{
		Name:    strings.TrimSpace(input.Name),
		Email:   input.Email,
		Phone:   input.Phone,
		Country: input.Country,
		Notes:   input.Notes,
	}
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, mapDBError(err)
	}

	s.logg.Info(s.logg.WithField(ctx, "client_id", created.ID.String()), "client created")
	dto := toClientDTO(*created)
	return &dto, nil
}

func (s *service) UpdateClient(ctx context.Context, id uuid.UUID, input ClientInput) (*ClientDTO, error) {
	if problems := validateClient(input); len(problems) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client validation failed").WithDetails(problems)
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapDBError(err)
	}

	record.Name = strings.TrimSpace(input.Name)
	record.Email = input.Email
	record.Phone = input.Phone
	record.Country = input.Country
	record.Notes = input.Notes

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, mapDBError(err)
	}
	dto := toClientDTO(*updated)
	return &dto, nil
}

func (s *service) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return mapDBError(err)
	}
	sales, err := s.repo.CountSales(ctx, id)
	if err != nil {
		return mapDBError(err)
	}
	if sales > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "client has recorded sales")
	}
	return mapDBError(s.repo.Delete(ctx, id))
}

// RecordSale stores the sale and marks the car sold in one transaction.
func (s *service) RecordSale(ctx context.Context, input SaleInput) (*SaleDTO, error) {
	if problems := validateSale(input); len(problems) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale validation failed").WithDetails(problems)
	}

	if _, err := s.repo.FindByID(ctx, input.ClientID); err != nil {
		return nil, mapDBError(err)
	}
	carRecord, err := s.cars.FindByID(ctx, input.CarID)
	if err != nil {
		return nil, mapDBError(err)
	}
	if carRecord.Status == enums.CarStatusSold {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "car is already sold")
	}

	soldAt := time.Now().UTC()
	if input.SoldAt != nil {
		soldAt = *input.SoldAt
	}
	currency := input.Currency
	if currency == "" {
		currency = carRecord.Currency
	}

	sale := &models.Sale{
		CarID:     input.CarID,
		ClientID:  input.ClientID,
		SoldPrice: input.SoldPrice,
		Currency:  currency,
		SoldAt:    soldAt,
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).CreateSale(ctx, sale); err != nil {
			return err
		}
		return s.cars.MarkSold(ctx, tx, input.CarID)
	})
	if err != nil {
		return nil, mapDBError(err)
	}

	ctx = s.logg.WithCarID(ctx, input.CarID.String())
	s.logg.Info(s.logg.WithField(ctx, "client_id", input.ClientID.String()), "sale recorded")
	dto := toSaleDTO(*sale)
	return &dto, nil
}

func (s *service) ListSales(ctx context.Context, clientID *uuid.UUID, params pagination.Params) (*SalesResult, error) {
	rows, total, err := s.repo.ListSales(ctx, clientID, params)
	if err != nil {
		return nil, mapDBError(err)
	}
	result := &SalesResult{
		Sales: make([]SaleDTO, 0, len(rows)),
		Meta:  pagination.Resolve(params, int(total)),
	}
	for _, row := range rows {
		result.Sales = append(result.Sales, toSaleDTO(row))
	}
	return result, nil
}

func validateClient(input ClientInput) map[string]string {
	problems := map[string]string{}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		problems["name"] = "is required"
	} else if len([]rune(name)) > 128 {
		problems["name"] = "must be at most 128 characters"
	}
	if input.Email != nil && *input.Email != "" {
		if _, err := mail.ParseAddress(*input.Email); err != nil {
			problems["email"] = "has an invalid format"
		}
	}
	return problems
}

func validateSale(input SaleInput) map[string]string {
	problems := map[string]string{}
	if input.CarID == uuid.Nil {
		problems["car_id"] = "is required"
	}
	if input.ClientID == uuid.Nil {
		problems["client_id"] = "is required"
	}
	if input.SoldPrice.IsNegative() {
		problems["sold_price"] = "must be at least 0"
	}
	return problems
}

func toClientDTO(m models.Client) ClientDTO {
	return ClientDTO{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Country:   m.Country,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toSaleDTO(m models.Sale) SaleDTO {
	return SaleDTO{
		ID:        m.ID,
		CarID:     m.CarID,
		ClientID:  m.ClientID,
		SoldPrice: m.SoldPrice,
		Currency:  m.Currency,
		SoldAt:    m.SoldAt,
	}
}

func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if appErr := pkgerrors.As(err); appErr != nil {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "client storage failure")
}
