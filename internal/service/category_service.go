// Package service holds the business workflows behind the HTTP handlers:
// the category rename coordinator, the product lifecycle manager, phone OTP
// authentication and cart management. Services receive injected stores and
// gateways and return apperr-classified failures.
package service

import (
	"context"
	"strings"

	"agrostore/internal/apperr"
	"agrostore/internal/model"

	"go.uber.org/zap"
)

// NormalizeCategoryName applies the single normalization rule used for
// storage, uniqueness checks and the no-op check: trim then upper-case.
func NormalizeCategoryName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// RenameResult is the tagged outcome of a rename attempt. When
// NeedsConfirmation is set, nothing was mutated and ProductCount carries the
// size of the impact set; the caller re-invokes with confirmCascade=true to
// proceed.
type RenameResult struct {
	NeedsConfirmation   bool            `json:"needs_confirmation"`
	ProductCount        int64           `json:"product_count,omitempty"`
	Category            *model.Category `json:"category,omitempty"`
	UpdatedProductCount int64           `json:"updated_product_count"`
}

// CategoryService coordinates category CRUD, including the rename cascade
// and delete blocking.
type CategoryService struct {
	categories model.CategoryStore
	products   model.ProductStore
	log        *zap.Logger
}

// NewCategoryService creates a CategoryService with injected stores.
func NewCategoryService(categories model.CategoryStore, products model.ProductStore, log *zap.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		products:   products,
		log:        log,
	}
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to retrieve categories", err)
	}
	return categories, nil
}

// Create adds a new category with a normalized, unique name.
func (s *CategoryService) Create(ctx context.Context, name string) (*model.Category, error) {
	normalized := NormalizeCategoryName(name)
	if normalized == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "Category name is required")
	}

	existing, err := s.categories.FindByName(ctx, normalized)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to check category name", err)
	}
	if existing != nil {
		s.log.Warn("Category with this name already exists", zap.String("name", normalized))
		return nil, apperr.New(apperr.KindConflict, "Category already exists")
	}

	category := &model.Category{Name: normalized}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to create category", err)
	}

	s.log.Info("Category created successfully",
		zap.Uint("category_id", category.ID),
		zap.String("name", category.Name))
	return category, nil
}

// Rename changes a category's name. When products reference the category and
// the cascade has not been confirmed, it mutates nothing and reports the
// impact count; with confirmation it renames the category and rewrites the
// denormalized category name on every referencing product.
func (s *CategoryService) Rename(ctx context.Context, id uint, newName string, confirmCascade bool) (*RenameResult, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to load category", err)
	}
	if category == nil {
		return nil, apperr.New(apperr.KindNotFound, "Category not found")
	}

	normalized := NormalizeCategoryName(newName)
	if normalized == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "Category name is required")
	}

	// Uniqueness against every category but this one.
	existing, err := s.categories.FindByName(ctx, normalized)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to check category name", err)
	}
	if existing != nil && existing.ID != id {
		s.log.Warn("Category name already exists",
			zap.Uint("category_id", id),
			zap.String("name", normalized))
		return nil, apperr.New(apperr.KindConflict, "Category name already exists")
	}

	if normalized == NormalizeCategoryName(category.Name) {
		return nil, apperr.New(apperr.KindInvalidInput, "No changes made to the category name")
	}

	// Impact set: products that carry this category's denormalized name.
	productCount, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to count products in category", err)
	}

	if productCount > 0 && !confirmCascade {
		s.log.Info("Category rename needs cascade confirmation",
			zap.Uint("category_id", id),
			zap.String("old_name", category.Name),
			zap.String("new_name", normalized),
			zap.Int64("product_count", productCount))
		return &RenameResult{NeedsConfirmation: true, ProductCount: productCount}, nil
	}

	oldName := category.Name
	category.Name = normalized
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to update category", err)
	}

	var updated int64
	if productCount > 0 {
		updated, err = s.products.UpdateCategoryName(ctx, id, normalized)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to update products with new category name", err)
		}
	}

	s.log.Info("Category renamed successfully",
		zap.Uint("category_id", id),
		zap.String("old_name", oldName),
		zap.String("new_name", normalized),
		zap.Int64("updated_products", updated))
	return &RenameResult{Category: category, UpdatedProductCount: updated}, nil
}

// Delete removes a category. Deletion is blocked, never cascaded, while any
// product still references it.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return apperr.Wrap(apperr.KindStorageFailure, "Failed to load category", err)
	}
	if category == nil {
		return apperr.New(apperr.KindNotFound, "Category not found")
	}

	count, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return apperr.Wrap(apperr.KindStorageFailure, "Failed to count products in category", err)
	}
	if count > 0 {
		s.log.Warn("Cannot delete category that is being used by products",
			zap.Uint("category_id", id),
			zap.Int64("product_count", count))
		return apperr.New(apperr.KindConflict, "Cannot delete category that is being used by products")
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return apperr.Wrap(apperr.KindStorageFailure, "Failed to delete category", err)
	}

	s.log.Info("Category deleted successfully",
		zap.Uint("category_id", id),
		zap.String("name", category.Name))
	return nil
}
