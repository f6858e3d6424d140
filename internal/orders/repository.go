package order

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealerhub/dealerhub-backend/pkg/db/models"
	"github.com/dealerhub/dealerhub-backend/pkg/enums"
	"github.com/dealerhub/dealerhub-backend/pkg/pagination"
)

// Repository wires together order and invoice persistence helpers.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads an order with its lines.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var row models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns one page of orders, optionally filtered by status and client.
func (r *Repository) List(ctx context.Context, status *enums.OrderStatus, clientID *uuid.UUID, params pagination.Params) ([]models.Order, int64, error) {
	qb := r.db.WithContext(ctx).Model(&models.Order{})
	if status != nil {
		qb = qb.Where("status = ?", *status)
	}
	if clientID != nil {
		qb = qb.Where("client_id = ?", *clientID)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	meta := pagination.Resolve(params, int(total))

	var rows []models.Order
	err := qb.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("created_at DESC").
		Offset(meta.Offset()).
		Limit(meta.PerPage).
		Find(&rows).Error
	return rows, total, err
}

// Create inserts an order with its lines.
func (r *Repository) Create(ctx context.Context, row *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// UpdateScalars saves the order row without touching its lines.
func (r *Repository) UpdateScalars(ctx context.Context, row *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Omit("Items").Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// FindInvoiceByOrder loads the invoice issued for an order, if any.
func (r *Repository) FindInvoiceByOrder(ctx context.Context, orderID uuid.UUID) (*models.Invoice, error) {
	var row models.Invoice
	if err := r.db.WithContext(ctx).First(&row, "order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindInvoiceByID loads one invoice.
func (r *Repository) FindInvoiceByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	var row models.Invoice
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateInvoice inserts an invoice row.
func (r *Repository) CreateInvoice(ctx context.Context, row *models.Invoice) (*models.Invoice, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// UpdateInvoice saves an invoice row.
func (r *Repository) UpdateInvoice(ctx context.Context, row *models.Invoice) (*models.Invoice, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// ListInvoices returns one page of invoices ordered by issue date.
func (r *Repository) ListInvoices(ctx context.Context, params pagination.Params) ([]models.Invoice, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Invoice{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	meta := pagination.Resolve(params, int(total))

	var rows []models.Invoice
	err := r.db.WithContext(ctx).
		Order("issued_at DESC").
		Offset(meta.Offset()).
		Limit(meta.PerPage).
		Find(&rows).Error
	return rows, total, err
}
