package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/bodegonapp/bodegon-backend/pkg/db/models"
	"github.com/bodegonapp/bodegon-backend/pkg/enums"
	pkgerrors "github.com/bodegonapp/bodegon-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryRepository owns the category and subcategory tables shared by
// both product families.
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository builds a category repository tied to the provided DB.
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (r *CategoryRepository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) ListCategories(ctx context.Context, kind string) ([]models.Category, error) {
	var rows []models.Category
	query := r.db.WithContext(ctx).Order("name ASC")
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CategoryRepository) CreateSubcategory(ctx context.Context, subcategory *models.Subcategory) (*models.Subcategory, error) {
	if err := r.db.WithContext(ctx).Create(subcategory).Error; err != nil {
		return nil, err
	}
	return subcategory, nil
}

func (r *CategoryRepository) FindSubcategoryByID(ctx context.Context, id uuid.UUID) (*models.Subcategory, error) {
	var subcategory models.Subcategory
	if err := r.db.WithContext(ctx).First(&subcategory, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &subcategory, nil
}

func (r *CategoryRepository) ListSubcategories(ctx context.Context, categoryID uuid.UUID) ([]models.Subcategory, error) {
	var rows []models.Subcategory
	err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("name ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CategoryService exposes the category taxonomy operations used by the
// admin surface.
type CategoryService interface {
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error)
	CreateSubcategory(ctx context.Context, input CreateSubcategoryInput) (*models.Subcategory, error)
	ListCategories(ctx context.Context, kind string) ([]models.Category, error)
	ListSubcategories(ctx context.Context, categoryID uuid.UUID) ([]models.Subcategory, error)
}

type categoryService struct {
	repo categoryStore
}

// NewCategoryService builds the taxonomy service over the category
// repository.
func NewCategoryService(repo *CategoryRepository) (CategoryService, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotConfigured, "category service requires a repository")
	}
	return &categoryService{repo: repo}, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category kind")
	}
	if input.Kind == enums.CategoryKindRestaurant && input.RestaurantID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant categories require a restaurant id")
	}
	category := &models.Category{
		ID:           uuid.New(),
		Name:         name,
		Kind:         input.Kind,
		RestaurantID: input.RestaurantID,
		IsActive:     true,
	}
	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeWriteFailed, err, "create category")
	}
	return created, nil
}

func (s *categoryService) CreateSubcategory(ctx context.Context, input CreateSubcategoryInput) (*models.Subcategory, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subcategory name is required")
	}
	parent, err := s.repo.FindCategoryByID(ctx, input.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "parent category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load parent category")
	}
	subcategory := &models.Subcategory{
		ID:           uuid.New(),
		CategoryID:   input.CategoryID,
		Name:         name,
		RestaurantID: parent.RestaurantID,
		IsActive:     true,
	}
	created, err := s.repo.CreateSubcategory(ctx, subcategory)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeWriteFailed, err, "create subcategory")
	}
	return created, nil
}

func (s *categoryService) ListCategories(ctx context.Context, kind string) ([]models.Category, error) {
	rows, err := s.repo.ListCategories(ctx, kind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return rows, nil
}

func (s *categoryService) ListSubcategories(ctx context.Context, categoryID uuid.UUID) ([]models.Subcategory, error) {
	rows, err := s.repo.ListSubcategories(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list subcategories")
	}
	return rows, nil
}
