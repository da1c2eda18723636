package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codewithtechdev/storefront-backend/api/responses"
	"github.com/codewithtechdev/storefront-backend/api/validators"
	"github.com/codewithtechdev/storefront-backend/internal/catalog"
	"github.com/codewithtechdev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/codewithtechdev/storefront-backend/pkg/errors"
	"github.com/codewithtechdev/storefront-backend/pkg/logger"
	"github.com/codewithtechdev/storefront-backend/pkg/money"
)

type productResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Category    string   `json:"category"`
	Price       string   `json:"price"`
	PriceCents  int64    `json:"price_cents"`
	ImageURL    *string  `json:"image_url,omitempty"`
	Features    []string `json:"features,omitempty"`
	IsFeatured  bool     `json:"is_featured"`
}

func newProductResponse(product models.Product) productResponse {
	cents := money.Cents(product.Price)
	return productResponse{
		ID:          product.ID.String(),
		Name:        product.Name,
		Description: product.Description,
		Category:    string(product.Category),
		Price:       money.FormatUSD(cents),
		PriceCents:  cents,
		ImageURL:    product.ImageURL,
		Features:    product.Features,
		IsFeatured:  product.IsFeatured,
	}
}

func newProductListResponse(products []models.Product) []productResponse {
	out := make([]productResponse, len(products))
	for i, product := range products {
		out[i] = newProductResponse(product)
	}
	return out
}

// ProductList serves the catalog with optional category and sort filters.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		products, err := svc.ListProducts(r.Context(), catalog.ListProductsInput{
			Category: r.URL.Query().Get("category"),
			Sort:     r.URL.Query().Get("sort"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductListResponse(products))
	}
}

// ProductFeatured serves the homepage spotlight picks.
func ProductFeatured(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 20)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.FeaturedProducts(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductListResponse(products))
	}
}

// ProductDetail serves one product page.
func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductResponse(*product))
	}
}

// ProductCategories lists the fixed category set.
func ProductCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		categories := svc.ListCategories(r.Context())
		out := make([]string, len(categories))
		for i, category := range categories {
			out[i] = string(category)
		}
		responses.WriteSuccess(w, out)
	}
}
