package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bodegonapp/bodegon-backend/api/middleware"
	"github.com/bodegonapp/bodegon-backend/api/responses"
	"github.com/bodegonapp/bodegon-backend/api/validators"
	catalogsvc "github.com/bodegonapp/bodegon-backend/internal/catalog"
	"github.com/bodegonapp/bodegon-backend/pkg/enums"
	pkgerrors "github.com/bodegonapp/bodegon-backend/pkg/errors"
	"github.com/bodegonapp/bodegon-backend/pkg/logger"
)

type createProductRequest struct {
	Kind          string   `json:"kind" validate:"required,oneof=bodegon restaurant"`
	Name          string   `json:"name" validate:"required"`
	Description   *string  `json:"description,omitempty"`
	ImageURLs     []string `json:"image_urls,omitempty" validate:"omitempty,max=4,dive,url"`
	Price         string   `json:"price" validate:"required"`
	CategoryID    *string  `json:"category_id,omitempty"`
	SubcategoryID *string  `json:"subcategory_id,omitempty"`

	SKU             *string  `json:"sku,omitempty"`
	BarCode         *string  `json:"bar_code,omitempty"`
	IsDiscount      bool     `json:"is_discount,omitempty"`
	IsPromo         bool     `json:"is_promo,omitempty"`
	DiscountedPrice *string  `json:"discounted_price,omitempty"`
	BodegonIDs      []string `json:"bodegon_ids,omitempty" validate:"omitempty,dive,uuid"`

	RestaurantID *string `json:"restaurant_id,omitempty" validate:"omitempty,uuid"`
	IsAvailable  *bool   `json:"is_available,omitempty"`
}

func (p createProductRequest) toInput(createdBy *uuid.UUID) (catalogsvc.CreateProductInput, error) {
	input := catalogsvc.CreateProductInput{
		Kind:        enums.ProductKind(p.Kind),
		Name:        p.Name,
		Description: p.Description,
		ImageURLs:   p.ImageURLs,
		SKU:         p.SKU,
		BarCode:     p.BarCode,
		IsDiscount:  p.IsDiscount,
		IsPromo:     p.IsPromo,
		IsAvailable: p.IsAvailable,
		CreatedBy:   createdBy,
	}

	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}
	input.Price = price

	if p.DiscountedPrice != nil {
		discounted, err := decimal.NewFromString(*p.DiscountedPrice)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discounted price")
		}
		input.DiscountedPrice = &discounted
	}
	if input.CategoryID, err = parseOptionalUUID(p.CategoryID, "category_id"); err != nil {
		return input, err
	}
	if input.SubcategoryID, err = parseOptionalUUID(p.SubcategoryID, "subcategory_id"); err != nil {
		return input, err
	}
	if input.RestaurantID, err = parseOptionalUUID(p.RestaurantID, "restaurant_id"); err != nil {
		return input, err
	}
	for _, raw := range p.BodegonIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid bodegon id")
		}
		input.BodegonIDs = append(input.BodegonIDs, id)
	}
	return input, nil
}

type updateProductRequest struct {
	Name          *string   `json:"name,omitempty"`
	Description   *string   `json:"description,omitempty"`
	ImageURLs     *[]string `json:"image_urls,omitempty" validate:"omitempty,max=4,dive,url"`
	Price         *string   `json:"price,omitempty"`
	CategoryID    *string   `json:"category_id,omitempty" validate:"omitempty,uuid"`
	SubcategoryID *string   `json:"subcategory_id,omitempty" validate:"omitempty,uuid"`

	SKU             *string   `json:"sku,omitempty"`
	BarCode         *string   `json:"bar_code,omitempty"`
	IsDiscount      *bool     `json:"is_discount,omitempty"`
	IsPromo         *bool     `json:"is_promo,omitempty"`
	DiscountedPrice *string   `json:"discounted_price,omitempty"`
	BodegonIDs      *[]string `json:"bodegon_ids,omitempty" validate:"omitempty,dive,uuid"`

	IsActive    *bool `json:"is_active,omitempty"`
	IsAvailable *bool `json:"is_available,omitempty"`
}

func (p updateProductRequest) toInput() (catalogsvc.UpdateProductInput, error) {
	input := catalogsvc.UpdateProductInput{
		Name:        p.Name,
		Description: p.Description,
		ImageURLs:   p.ImageURLs,
		SKU:         p.SKU,
		BarCode:     p.BarCode,
		IsDiscount:  p.IsDiscount,
		IsPromo:     p.IsPromo,
		IsActive:    p.IsActive,
		IsAvailable: p.IsAvailable,
	}

	var err error
	if p.Price != nil {
		price, perr := decimal.NewFromString(*p.Price)
		if perr != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, perr, "invalid price")
		}
		input.Price = &price
	}
	if p.DiscountedPrice != nil {
		discounted, perr := decimal.NewFromString(*p.DiscountedPrice)
		if perr != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, perr, "invalid discounted price")
		}
		input.DiscountedPrice = &discounted
	}
	if input.CategoryID, err = parseOptionalUUID(p.CategoryID, "category_id"); err != nil {
		return input, err
	}
	if input.SubcategoryID, err = parseOptionalUUID(p.SubcategoryID, "subcategory_id"); err != nil {
		return input, err
	}
	if p.BodegonIDs != nil {
		ids := make([]uuid.UUID, 0, len(*p.BodegonIDs))
		for _, raw := range *p.BodegonIDs {
			id, perr := uuid.Parse(raw)
			if perr != nil {
				return input, pkgerrors.Wrap(pkgerrors.CodeValidation, perr, "invalid bodegon id")
			}
			ids = append(ids, id)
		}
		input.BodegonIDs = &ids
	}
	return input, nil
}

func parseOptionalUUID(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
	}
	return &id, nil
}

// AdminCreateProduct handles product creation in either family.
func AdminCreateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var createdBy *uuid.UUID
		if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
			if uid, err := uuid.Parse(raw); err == nil {
				createdBy = &uid
			}
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(createdBy)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminUpdateProduct applies a partial update to a product in either family.
func AdminUpdateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminDeleteProduct removes a product. Deleting an id that no longer
// exists still returns 200; the end state is what the caller asked for.
func AdminDeleteProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// GetProduct serves one product from either family.
func GetProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if product == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// GetProductInventory lists the bodegon ids where a product is available.
func GetProductInventory(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		ids, err := svc.GetInventory(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"product_id": productID, "bodegon_ids": ids})
	}
}

// ListBodegonProducts serves one cursor-paginated catalog page.
func ListBodegonProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		input := catalogsvc.ListBodegonProductsInput{
			Cursor:     query.Get("cursor"),
			Search:     query.Get("search"),
			ActiveOnly: query.Get("include_inactive") != "true",
		}
		if raw := query.Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid limit"))
				return
			}
			input.Limit = limit
		}

		var err error
		if input.CategoryID, err = parseOptionalQueryUUID(query.Get("category_id"), "category_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.SubcategoryID, err = parseOptionalQueryUUID(query.Get("subcategory_id"), "subcategory_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListBodegonProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// ListRestaurantProducts serves the full menu of one restaurant.
func ListRestaurantProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		restaurantID, err := uuid.Parse(chi.URLParam(r, "restaurantId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid restaurant id"))
			return
		}

		products, err := svc.ListRestaurantProducts(r.Context(), restaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"restaurant_id": restaurantID, "products": products})
	}
}

func parseOptionalQueryUUID(raw, field string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
	}
	return &id, nil
}
