package order

import (
	"context"
	"errors"
	"fmt"
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

// OrderDTO is the order payload returned to callers.
type OrderDTO struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber int64           `json:"order_number"`
	ClientID    uuid.UUID       `json:"client_id"`
	Status      string          `json:"status"`
	Currency    string          `json:"currency"`
	Total       decimal.Decimal `json:"total"`
	Notes       *string         `json:"notes,omitempty"`
	Items       []OrderItemDTO  `json:"items"`
	ConfirmedAt *time.Time      `json:"confirmed_at,omitempty"`
	DeliveredAt *time.Time      `json:"delivered_at,omitempty"`
	CancelledAt *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OrderItemDTO is one car line on an order.
type OrderItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	CarID     *uuid.UUID      `json:"car_id,omitempty"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// InvoiceDTO is the billing record issued from an order.
type InvoiceDTO struct {
	ID            uuid.UUID       `json:"id"`
	OrderID       uuid.UUID       `json:"order_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	IssuedAt      time.Time       `json:"issued_at"`
	DueAt         *time.Time      `json:"due_at,omitempty"`
	Paid          bool            `json:"paid"`
}

// OrderItemInput is one requested car line.
type OrderItemInput struct {
	CarID     uuid.UUID
	Quantity  int
	UnitPrice *decimal.Decimal
}

// CreateOrderInput is the payload for creating an order.
type CreateOrderInput struct {
	ClientID uuid.UUID
	Currency string
	Notes    *string
	Items    []OrderItemInput
}

// ListResult is one resolved order page.
type ListResult struct {
	Orders []OrderDTO
	Meta   pagination.Meta
}

// InvoiceListResult is one resolved invoice page.
type InvoiceListResult struct {
	Invoices []InvoiceDTO
	Meta     pagination.Meta
}

type clientChecker interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
}

type carLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Car, error)
}

// Service exposes order and invoice management operations.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, status *enums.OrderStatus, clientID *uuid.UUID, params pagination.Params) (*ListResult, error)
	TransitionOrder(ctx context.Context, id uuid.UUID, target enums.OrderStatus) (*OrderDTO, error)
	IssueInvoice(ctx context.Context, orderID uuid.UUID, dueAt *time.Time) (*InvoiceDTO, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*InvoiceDTO, error)
	ListInvoices(ctx context.Context, params pagination.Params) (*InvoiceListResult, error)
	MarkInvoicePaid(ctx context.Context, id uuid.UUID) (*InvoiceDTO, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	clients  clientChecker
	cars     carLoader
	logg     *logger.Logger
}

// NewService constructs an order service instance.
func NewService(repo *Repository, dbClient *db.Client, clients clientChecker, cars carLoader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if clients == nil {
		return nil, fmt.Errorf("client loader required")
	}
	if cars == nil {
		return nil, fmt.Errorf("car loader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, dbClient: dbClient, clients: clients, cars: cars, logg: logg}, nil
}

// CreateOrder validates the lines, snapshots car names and prices, and stores
// the order with a computed total.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if input.ClientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order validation failed").
			WithDetails(map[string]string{"client_id": "is required"})
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order validation failed").
			WithDetails(map[string]string{"items": "at least one line is required"})
	}

	if _, err := s.clients.FindByID(ctx, input.ClientID); err != nil {
		return nil, mapDBError(err)
	}

	currency := input.Currency
	items := make([]models.OrderItem, 0, len(input.Items))
	total := decimal.Zero

	for i, line := range input.Items {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order validation failed").
				WithDetails(map[string]string{fmt.Sprintf("items.%d.quantity", i): "must be at least 1"})
		}

		carRecord, err := s.cars.FindByID(ctx, line.CarID)
		if err != nil {
			return nil, mapDBError(err)
		}
		if carRecord.Status == enums.CarStatusSold {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "car is already sold").
				WithDetails(map[string]string{"car_id": line.CarID.String()})
		}

		unitPrice := carRecord.PriceAmount
		if line.UnitPrice != nil {
			if line.UnitPrice.IsNegative() {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "order validation failed").
					WithDetails(map[string]string{fmt.Sprintf("items.%d.unit_price", i): "must be at least 0"})
			}
			unitPrice = *line.UnitPrice
		}
		if currency == "" {
			currency = carRecord.Currency
		}

		carID := line.CarID
		items = append(items, models.OrderItem{
			CarID:     &carID,
			Name:      carRecord.Make + " " + carRecord.Model,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
		})
		total = total.Add(unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	record := &models.Order{
		ClientID: input.ClientID,
		Status:   enums.OrderStatusPending,
		Currency: currency,
		Total:    total,
		Notes:    input.Notes,
		Items:    items,
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		_, txErr := s.repo.WithTx(tx).Create(ctx, record)
		return txErr
	})
	if err != nil {
		return nil, mapDBError(err)
	}

	s.logg.Info(s.logg.WithField(ctx, "order_id", record.ID.String()), "order created")
	return s.GetOrder(ctx, record.ID)
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapDBError(err)
	}
	dto := toOrderDTO(*row)
	return &dto, nil
}

func (s *service) ListOrders(ctx context.Context, status *enums.OrderStatus, clientID *uuid.UUID, params pagination.Params) (*ListResult, error) {
	rows, total, err := s.repo.List(ctx, status, clientID, params)
	if err != nil {
		return nil, mapDBError(err)
	}
	result := &ListResult{
		Orders: make([]OrderDTO, 0, len(rows)),
		Meta:   pagination.Resolve(params, int(total)),
	}
	for _, row := range rows {
		result.Orders = append(result.Orders, toOrderDTO(row))
	}
	return result, nil
}

// TransitionOrder applies the status machine: pending → confirmed → delivered,
// with cancellation allowed from pending and confirmed.
func (s *service) TransitionOrder(ctx context.Context, id uuid.UUID, target enums.OrderStatus) (*OrderDTO, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").
			WithDetails(map[string]string{"status": target.String()})
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapDBError(err)
	}

	if !row.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status transition disallowed").
			WithDetails(map[string]string{"from": row.Status.String(), "to": target.String()})
	}

	now := time.Now().UTC()
	row.Status = target
	switch target {
	case enums.OrderStatusConfirmed:
		row.ConfirmedAt = &now
	case enums.OrderStatusDelivered:
		row.DeliveredAt = &now
	case enums.OrderStatusCancelled:
		row.CancelledAt = &now
	}

	if _, err := s.repo.UpdateScalars(ctx, row); err != nil {
		return nil, mapDBError(err)
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"order_id": id.String(), "status": target.String()})
	s.logg.Info(ctx, "order status changed")
	return s.GetOrder(ctx, id)
}

// IssueInvoice creates the invoice for a confirmed order. An order carries at
// most one invoice.
func (s *service) IssueInvoice(ctx context.Context, orderID uuid.UUID, dueAt *time.Time) (*InvoiceDTO, error) {
	row, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, mapDBError(err)
	}
	if row.Status != enums.OrderStatusConfirmed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "invoice requires a confirmed order").
			WithDetails(map[string]string{"status": row.Status.String()})
	}

	if _, err := s.repo.FindInvoiceByOrder(ctx, orderID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order already has an invoice")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, mapDBError(err)
	}

	now := time.Now().UTC()
	invoice := &models.Invoice{
		OrderID:       orderID,
		InvoiceNumber: fmt.Sprintf("INV-%s-%04d", now.Format("20060102"), row.OrderNumber%10000),
		Amount:        row.Total,
		Currency:      row.Currency,
		IssuedAt:      now,
		DueAt:         dueAt,
	}

	created, err := s.repo.CreateInvoice(ctx, invoice)
	if err != nil {
		return nil, mapDBError(err)
	}

	s.logg.Info(s.logg.WithField(ctx, "invoice_number", created.InvoiceNumber), "invoice issued")
	dto := toInvoiceDTO(*created)
	return &dto, nil
}

func (s *service) GetInvoice(ctx context.Context, id uuid.UUID) (*InvoiceDTO, error) {
	row, err := s.repo.FindInvoiceByID(ctx, id)
	if err != nil {
		return nil, mapDBError(err)
	}
	dto := toInvoiceDTO(*row)
	return &dto, nil
}

func (s *service) ListInvoices(ctx context.Context, params pagination.Params) (*InvoiceListResult, error) {
	rows, total, err := s.repo.ListInvoices(ctx, params)
	if err != nil {
		return nil, mapDBError(err)
	}
	result := &InvoiceListResult{
		Invoices: make([]InvoiceDTO, 0, len(rows)),
		Meta:     pagination.Resolve(params, int(total)),
	}
	for _, row := range rows {
		result.Invoices = append(result.Invoices, toInvoiceDTO(row))
	}
	return result, nil
}

func (s *service) MarkInvoicePaid(ctx context.Context, id uuid.UUID) (*InvoiceDTO, error) {
	row, err := s.repo.FindInvoiceByID(ctx, id)
	if err != nil {
		return nil, mapDBError(err)
	}
	if row.Paid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "invoice is already paid")
	}

	row.Paid = true
	updated, err := s.repo.UpdateInvoice(ctx, row)
	if err != nil {
		return nil, mapDBError(err)
	}
	dto := toInvoiceDTO(*updated)
	return &dto, nil
}

func toOrderDTO(m models.Order) OrderDTO {
	dto := OrderDTO{
		ID:          m.ID,
		OrderNumber: m.OrderNumber,
		ClientID:    m.ClientID,
		Status:      m.Status.String(),
		Currency:    m.Currency,
		Total:       m.Total,
		Notes:       m.Notes,
		Items:       make([]OrderItemDTO, 0, len(m.Items)),
		ConfirmedAt: m.ConfirmedAt,
		DeliveredAt: m.DeliveredAt,
		CancelledAt: m.CancelledAt,
		CreatedAt:   m.CreatedAt,
	}
	for _, item := range m.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:        item.ID,
			CarID:     item.CarID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return dto
}

func toInvoiceDTO(m models.Invoice) InvoiceDTO {
	return InvoiceDTO{
		ID:            m.ID,
		OrderID:       m.OrderID,
		InvoiceNumber: m.InvoiceNumber,
		Amount:        m.Amount,
		Currency:      m.Currency,
		IssuedAt:      m.IssuedAt,
		DueAt:         m.DueAt,
		Paid:          m.Paid,
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
	if db.IsUniqueViolation(err) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "duplicate record")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order storage failure")
}
