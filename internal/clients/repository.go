package client

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealerhub/dealerhub-backend/pkg/db/models"
	"github.com/dealerhub/dealerhub-backend/pkg/pagination"
)

// Repository wires together client and sale persistence helpers.
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

// FindByID loads one client.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	var row models.Client
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns one page of clients, optionally filtered by a name/email search.
func (r *Repository) List(ctx context.Context, search string, params pagination.Params) ([]models.Client, int64, error) {
	qb := r.db.WithContext(ctx).Model(&models.Client{})
	if needle := strings.TrimSpace(search); needle != "" {
		pattern := "%" + strings.ToLower(needle) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(email) LIKE ?)", pattern, pattern)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	meta := pagination.Resolve(params, int(total))

	var rows []models.Client
	err := qb.Order("name ASC").Offset(meta.Offset()).Limit(meta.PerPage).Find(&rows).Error
	return rows, total, err
}

// Create inserts a client row.
func (r *Repository) Create(ctx context.Context, row *models.Client) (*models.Client, error) {
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Update saves a client row.
func (r *Repository) Update(ctx context.Context, row *models.Client) (*models.Client, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Delete removes a client row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Client{}).Error
}

// CreateSale inserts a sale row.
func (r *Repository) CreateSale(ctx context.Context, sale *models.Sale) (*models.Sale, error) {
	if err := r.db.WithContext(ctx).Create(sale).Error; err != nil {
		return nil, err
	}
	return sale, nil
}

// ListSales returns one page of sales, optionally scoped to a client.
func (r *Repository) ListSales(ctx context.Context, clientID *uuid.UUID, params pagination.Params) ([]models.Sale, int64, error) {
	qb := r.db.WithContext(ctx).Model(&models.Sale{})
	if clientID != nil {
		qb = qb.Where("client_id = ?", *clientID)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	meta := pagination.Resolve(params, int(total))

	var rows []models.Sale
	err := qb.Order("sold_at DESC").Offset(meta.Offset()).Limit(meta.PerPage).Find(&rows).Error
	return rows, total, err
}

// CountSales reports how many sales reference the client.
func (r *Repository) CountSales(ctx context.Context, clientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("client_id = ?", clientID).
		Count(&count).Error
	return count, err
}
