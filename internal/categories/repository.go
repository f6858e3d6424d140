package category

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealerhub/dealerhub-backend/pkg/db/models"
)

// Repository wires together category persistence helpers.
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

// Exists reports whether a category row exists.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// FindByID loads one category.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListParents returns the top-level categories ordered by name.
func (r *Repository) ListParents(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Where("parent_category_id IS NULL").
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

// ListChildren returns the subcategories of the given parent ordered by name.
func (r *Repository) ListChildren(ctx context.Context, parentID uuid.UUID) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Where("parent_category_id = ?", parentID).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

// Create inserts a category and bumps the parent's children count.
func (r *Repository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	if category.ParentCategoryID != nil {
		if err := r.adjustChildrenCount(ctx, *category.ParentCategoryID, 1); err != nil {
			return nil, err
		}
	}
	return category, nil
}

// Update saves the category row.
func (r *Repository) Update(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes the category and decrements the parent's children count.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{}).Error; err != nil {
		return err
	}
	if category.ParentCategoryID != nil {
		return r.adjustChildrenCount(ctx, *category.ParentCategoryID, -1)
	}
	return nil
}

// CountCars reports how many cars reference the category.
func (r *Repository) CountCars(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Car{}).
		Where("category_id = ? OR subcategory_id = ?", id, id).
		Count(&count).Error
	return count, err
}

func (r *Repository) adjustChildrenCount(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		UpdateColumn("children_count", gorm.Expr("children_count + ?", delta)).Error
}
