package store

import (
	"context"
	"errors"
	"fmt"

	"agrostore/internal/model"

	"gorm.io/gorm"
)

// CartStore persists cart items in Postgres.
type CartStore struct {
	db *gorm.DB
}

var _ model.CartStore = (*CartStore)(nil)

// NewCartStore creates a CartStore around an open database handle.
func NewCartStore(db *gorm.DB) *CartStore {
	return &CartStore{db: db}
}

func (s *CartStore) ItemsByCustomer(ctx context.Context, customerID uint) ([]model.CartItem, error) {
	var items []model.CartItem
	err := s.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("id").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	return items, nil
}

func (s *CartStore) FindByID(ctx context.Context, id uint) (*model.CartItem, error) {
	var item model.CartItem
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find cart item %d: %w", id, err)
	}
	return &item, nil
}

func (s *CartStore) FindByCustomerAndProduct(ctx context.Context, customerID, productID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := s.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find cart item: %w", err)
	}
	return &item, nil
}

func (s *CartStore) Create(ctx context.Context, item *model.CartItem) error {
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart item: %w", err)
	}
	return nil
}

func (s *CartStore) Save(ctx context.Context, item *model.CartItem) error {
	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("failed to save cart item %d: %w", item.ID, err)
	}
	return nil
}

func (s *CartStore) Delete(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&model.CartItem{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete cart item %d: %w", id, err)
	}
	return nil
}
