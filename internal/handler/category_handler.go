package handler

import (
	"net/http"
	"strconv"

	"agrostore/internal/service"
	"agrostore/pkg/logger"
	"agrostore/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CategoryRequest defines the structure for category creation requests
type CategoryRequest struct {
	Name string `json:"name"`
}

// RenameCategoryRequest defines the structure for category rename requests.
// ConfirmCascade acknowledges that the rename will rewrite the category name
// on every referencing product.
type RenameCategoryRequest struct {
	NewName        string `json:"new_name"`
	ConfirmCascade bool   `json:"confirm_cascade"`
}

// CategoryHandler serves the category admin API.
type CategoryHandler struct {
	svc *service.CategoryService
}

// NewCategoryHandler creates a CategoryHandler.
func NewCategoryHandler(svc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// List retrieves all categories
func (h *CategoryHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Listing categories")

	categories, err := h.svc.List(c.Request().Context())
	if err != nil {
		log.Error("Failed to retrieve categories", zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Categories retrieved successfully", zap.Int("count", len(categories)))
	return c.JSON(http.StatusOK, categories)
}

// Create adds a new category
func (h *CategoryHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new category")

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	category, err := h.svc.Create(c.Request().Context(), req.Name)
	if err != nil {
		log.Warn("Failed to create category", zap.String("name", req.Name), zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RecordCategoryOperation("create")
	log.Info("Category created successfully",
		zap.Uint("category_id", category.ID),
		zap.String("name", category.Name))
	return c.JSON(http.StatusCreated, category)
}

// Rename changes a category's name, cascading to products once confirmed.
// A non-empty impact set without confirmation yields a 200 response with
// needs_confirmation set and nothing mutated.
func (h *CategoryHandler) Rename(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Category ID is required"})
	}
	log.Info("Renaming category", zap.Uint("category_id", id))

	var req RenameCategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	result, err := h.svc.Rename(c.Request().Context(), id, req.NewName, req.ConfirmCascade)
	if err != nil {
		log.Warn("Failed to rename category",
			zap.Uint("category_id", id),
			zap.String("new_name", req.NewName),
			zap.Error(err))
		return respondError(c, err)
	}

	if result.NeedsConfirmation {
		log.Info("Rename requires cascade confirmation",
			zap.Uint("category_id", id),
			zap.Int64("product_count", result.ProductCount))
		return c.JSON(http.StatusOK, echo.Map{
			"needs_confirmation": true,
			"product_count":      result.ProductCount,
		})
	}

	prometheus.RecordCategoryOperation("rename")
	log.Info("Category renamed successfully",
		zap.Uint("category_id", id),
		zap.Int64("updated_product_count", result.UpdatedProductCount))
	return c.JSON(http.StatusOK, echo.Map{
		"category":              result.Category,
		"updated_product_count": result.UpdatedProductCount,
	})
}

// Delete removes a category; blocked while products reference it
func (h *CategoryHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Category ID is required"})
	}
	log.Info("Deleting category", zap.Uint("category_id", id))

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		log.Warn("Failed to delete category", zap.Uint("category_id", id), zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RecordCategoryOperation("delete")
	log.Info("Category deleted successfully", zap.Uint("category_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Category deleted successfully"})
}

// parseID parses a numeric path parameter.
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
