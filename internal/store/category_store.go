// Package store provides the gorm-backed implementations of the persistence
// interfaces declared in internal/model. Every store holds an injected
// *gorm.DB handle; there is no package-level connection state.
package store

import (
	"context"
	"errors"
	"fmt"

	"agrostore/internal/model"

	"gorm.io/gorm"
)

// CategoryStore persists categories in Postgres.
type CategoryStore struct {
	db *gorm.DB
}

var _ model.CategoryStore = (*CategoryStore)(nil)

// NewCategoryStore creates a CategoryStore around an open database handle.
func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := s.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryStore) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	err := s.db.WithContext(ctx).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category %d: %w", id, err)
	}
	return &category, nil
}

func (s *CategoryStore) FindByName(ctx context.Context, name string) (*model.Category, error) {
	var category model.Category
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category by name: %w", err)
	}
	return &category, nil
}

func (s *CategoryStore) Create(ctx context.Context, category *model.Category) error {
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (s *CategoryStore) Save(ctx context.Context, category *model.Category) error {
	if err := s.db.WithContext(ctx).Save(category).Error; err != nil {
		return fmt.Errorf("failed to save category %d: %w", category.ID, err)
	}
	return nil
}

func (s *CategoryStore) Delete(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&model.Category{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}
	return nil
}
