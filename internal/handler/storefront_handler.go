package handler

import (
	"net/http"

	"agrostore/internal/service"
	"agrostore/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// StorefrontHandler serves the public, unauthenticated storefront reads.
type StorefrontHandler struct {
	products   *service.ProductService
	categories *service.CategoryService
}

// NewStorefrontHandler creates a StorefrontHandler.
func NewStorefrontHandler(products *service.ProductService, categories *service.CategoryService) *StorefrontHandler {
	return &StorefrontHandler{products: products, categories: categories}
}

// ListProducts returns the storefront catalog, filterable by category, text
// query and price range. Products carry their denormalized category name so
// no join is needed client-side.
func (h *StorefrontHandler) ListProducts(c echo.Context) error {
	log := logger.FromContext(c)

	filter, err := parseProductFilter(c)
	if err != nil {
		return respondError(c, err)
	}

	products, err := h.products.List(c.Request().Context(), filter)
	if err != nil {
		log.Error("Failed to list storefront products", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, products)
}

// ListCategories returns all categories for the storefront navigation.
func (h *StorefrontHandler) ListCategories(c echo.Context) error {
	log := logger.FromContext(c)

	categories, err := h.categories.List(c.Request().Context())
	if err != nil {
		log.Error("Failed to list storefront categories", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, categories)
}
