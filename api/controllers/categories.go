package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bodegonapp/bodegon-backend/api/responses"
	"github.com/bodegonapp/bodegon-backend/api/validators"
	catalogsvc "github.com/bodegonapp/bodegon-backend/internal/catalog"
	"github.com/bodegonapp/bodegon-backend/pkg/enums"
	pkgerrors "github.com/bodegonapp/bodegon-backend/pkg/errors"
	"github.com/bodegonapp/bodegon-backend/pkg/logger"
)

type createCategoryRequest struct {
	Name         string  `json:"name" validate:"required"`
	Kind         string  `json:"kind" validate:"required,oneof=bodegon restaurant"`
	RestaurantID *string `json:"restaurant_id,omitempty" validate:"omitempty,uuid"`
}

type createSubcategoryRequest struct {
	Name       string `json:"name" validate:"required"`
	CategoryID string `json:"category_id" validate:"required,uuid"`
}

// AdminCreateCategory adds a category to one family's taxonomy.
func AdminCreateCategory(svc catalogsvc.CategoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		var payload createCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalogsvc.CreateCategoryInput{
			Name: payload.Name,
			Kind: enums.CategoryKind(payload.Kind),
		}
		var err error
		if input.RestaurantID, err = parseOptionalUUID(payload.RestaurantID, "restaurant_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.CreateCategory(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

// AdminCreateSubcategory adds a subcategory under an existing category.
func AdminCreateSubcategory(svc catalogsvc.CategoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		var payload createSubcategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categoryID, err := uuid.Parse(payload.CategoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id"))
			return
		}

		subcategory, err := svc.CreateSubcategory(r.Context(), catalogsvc.CreateSubcategoryInput{
			Name:       payload.Name,
			CategoryID: categoryID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, subcategory)
	}
}

// ListCategories serves the taxonomy, optionally filtered by family.
func ListCategories(svc catalogsvc.CategoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := r.URL.Query().Get("kind")
		if kind != "" && !enums.CategoryKind(kind).IsValid() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown category kind"))
			return
		}

		categories, err := svc.ListCategories(r.Context(), kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

// ListSubcategories serves the subcategories of one category.
func ListSubcategories(svc catalogsvc.CategoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := uuid.Parse(chi.URLParam(r, "categoryId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id"))
			return
		}

		subcategories, err := svc.ListSubcategories(r.Context(), categoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"subcategories": subcategories})
	}
}
