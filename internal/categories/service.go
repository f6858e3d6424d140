package category

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealerhub/dealerhub-backend/pkg/db/models"
	pkgerrors "github.com/dealerhub/dealerhub-backend/pkg/errors"
	"github.com/dealerhub/dealerhub-backend/pkg/logger"
)

// CategoryDTO is the category payload returned to clients.
type CategoryDTO struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	ParentCategoryID *uuid.UUID `json:"parent_category_id,omitempty"`
	Status           string     `json:"status"`
	ChildrenCount    int        `json:"children_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CategoryInput is the create/update payload.
type CategoryInput struct {
	Name             string
	ParentCategoryID *uuid.UUID
	Status           string
}

// Service exposes category management operations.
type Service interface {
	ListParents(ctx context.Context) ([]CategoryDTO, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]CategoryDTO, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService constructs a category service instance.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) ListParents(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListParents(ctx)
	if err != nil {
		return nil, mapDBError(err)
	}
	return toDTOs(rows), nil
}

func (s *service) ListChildren(ctx context.Context, parentID uuid.UUID) ([]CategoryDTO, error) {
	if _, err := s.repo.FindByID(ctx, parentID); err != nil {
		return nil, mapDBError(err)
	}
	rows, err := s.repo.ListChildren(ctx, parentID)
	if err != nil {
		return nil, mapDBError(err)
	}
	return toDTOs(rows), nil
}

func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapDBError(err)
	}
	dto := toDTO(*row)
	return &dto, nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	record := &models.Category{
		Name:             strings.TrimSpace(input.Name),
		ParentCategoryID: input.ParentCategoryID,
	}
	if input.Status != "" {
		record.Status = input.Status
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, mapDBError(err)
	}

	s.logg.Info(s.logg.WithField(ctx, "category_id", created.ID.String()), "category created")
	dto := toDTO(*created)
	return &dto, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*CategoryDTO, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}
	if input.ParentCategoryID != nil && *input.ParentCategoryID == id {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category cannot be its own parent")
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapDBError(err)
	}

	record.Name = strings.TrimSpace(input.Name)
	record.ParentCategoryID = input.ParentCategoryID
	if input.Status != "" {
		record.Status = input.Status
	}

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, mapDBError(err)
	}
	dto := toDTO(*updated)
	return &dto, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	inUse, err := s.repo.CountCars(ctx, id)
	if err != nil {
		return mapDBError(err)
	}
	if inUse > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category is referenced by existing cars")
	}

	children, err := s.repo.ListChildren(ctx, id)
	if err != nil {
		return mapDBError(err)
	}
	if len(children) > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category still has subcategories")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapDBError(err)
	}
	s.logg.Info(s.logg.WithField(ctx, "category_id", id.String()), "category deleted")
	return nil
}

func (s *service) validate(ctx context.Context, input CategoryInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category validation failed").
			WithDetails(map[string]string{"name": "is required"})
	}
	if len([]rune(name)) > 128 {
		return pkgerrors.New(pkgerrors.CodeValidation, "category validation failed").
			WithDetails(map[string]string{"name": "must be at most 128 characters"})
	}
	if input.ParentCategoryID != nil {
		ok, err := s.repo.Exists(ctx, *input.ParentCategoryID)
		if err != nil {
			return mapDBError(err)
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "category validation failed").
				WithDetails(map[string]string{"parent_category_id": "does not exist"})
		}
	}
	return nil
}

func toDTO(m models.Category) CategoryDTO {
	return CategoryDTO{
		ID:               m.ID,
		Name:             m.Name,
		ParentCategoryID: m.ParentCategoryID,
		Status:           m.Status,
		ChildrenCount:    m.ChildrenCount,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toDTOs(rows []models.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out
}

func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if appErr := pkgerrors.As(err); appErr != nil {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "category storage failure")
}
