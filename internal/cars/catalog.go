package car

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealerhub/dealerhub-backend/pkg/db/models"
	"github.com/dealerhub/dealerhub-backend/pkg/enums"
)

// Catalog is the narrow car surface other domains consume: lookups plus the
// sold transition used by the sale flow.
type Catalog struct {
	repo *Repository
}

// NewCatalog wraps the repository for cross-domain consumers.
func NewCatalog(repo *Repository) (*Catalog, error) {
	if repo == nil {
		return nil, fmt.Errorf("car repository required")
	}
	return &Catalog{repo: repo}, nil
}

// FindByID loads the car with its collections.
func (c *Catalog) FindByID(ctx context.Context, id uuid.UUID) (*models.Car, error) {
	return c.repo.FindByID(ctx, id)
}

// MarkSold flips the car status to sold inside the caller's transaction.
func (c *Catalog) MarkSold(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	affected, err := c.repo.WithTx(tx).BulkStatus(ctx, []uuid.UUID{id}, enums.CarStatusSold)
	if err != nil {
		return err
	}
	if affected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
