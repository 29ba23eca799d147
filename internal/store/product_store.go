package store

import (
	"context"
	"errors"
	"fmt"

	"agrostore/internal/model"

	"gorm.io/gorm"
)

// ProductStore persists products in Postgres.
type ProductStore struct {
	db *gorm.DB
}

var _ model.ProductStore = (*ProductStore)(nil)

// NewProductStore creates a ProductStore around an open database handle.
func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{db: db}
}

func (s *ProductStore) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	query := s.db.WithContext(ctx)
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		query = query.Where("name ILIKE ? OR brand ILIKE ?", pattern, pattern)
	}
	if filter.MinPrice > 0 {
		query = query.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("price <= ?", filter.MaxPrice)
	}

	var products []model.Product
	if err := query.Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *ProductStore) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product %d: %w", id, err)
	}
	return &product, nil
}

func (s *ProductStore) Create(ctx context.Context, product *model.Product) error {
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (s *ProductStore) Save(ctx context.Context, product *model.Product) error {
	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		return fmt.Errorf("failed to save product %d: %w", product.ID, err)
	}
	return nil
}

func (s *ProductStore) Delete(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&model.Product{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return nil
}

func (s *ProductStore) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count products in category %d: %w", categoryID, err)
	}
	return count, nil
}

// UpdateCategoryName rewrites the denormalized category name for every
// product in the category with one bulk update. Atomic per row, not across
// the whole set.
func (s *ProductStore) UpdateCategoryName(ctx context.Context, categoryID uint, name string) (int64, error) {
	result := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("category_id = ?", categoryID).
		Update("category_name", name)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update category name on products: %w", result.Error)
	}
	return result.RowsAffected, nil
}
