package service

import (
	"context"

	"agrostore/internal/apperr"
	"agrostore/internal/model"

	"go.uber.org/zap"
)

// CartLine is a cart item joined with its product snapshot.
type CartLine struct {
	Item    model.CartItem `json:"item"`
	Product *model.Product `json:"product,omitempty"`
}

// CartService manages a customer's cart.
type CartService struct {
	carts    model.CartStore
	products model.ProductStore
	log      *zap.Logger
}

// NewCartService creates a CartService with injected stores.
func NewCartService(carts model.CartStore, products model.ProductStore, log *zap.Logger) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		log:      log,
	}
}

// Add puts a product in the customer's cart. Adding a product that is
// already present bumps its quantity instead of creating a second row.
func (s *CartService) Add(ctx context.Context, customerID, productID uint, quantity int) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, apperr.New(apperr.KindInvalidInput, "Quantity must be at least 1")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to load product", err)
	}
	if product == nil {
		return nil, apperr.New(apperr.KindNotFound, "Product not found")
	}

	item, err := s.carts.FindByCustomerAndProduct(ctx, customerID, productID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to load cart item", err)
	}
	if item != nil {
		item.Quantity += quantity
		if err := s.carts.Save(ctx, item); err != nil {
			return nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to update cart item", err)
		}
		return item, nil
	}

	item = &model.CartItem{
		CustomerID: customerID,
		ProductID:  productID,
		Quantity:   quantity,
	}
	if err := s.carts.Create(ctx, item); err != nil {
		return nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to add cart item", err)
	}

	s.log.Info("Product added to cart",
		zap.Uint("customer_id", customerID),
		zap.Uint("product_id", productID),
		zap.Int("quantity", item.Quantity))
	return item, nil
}

// Items lists the customer's cart joined with product snapshots. A product
// deleted since it was carted yields a line with a nil product.
func (s *CartService) Items(ctx context.Context, customerID uint) ([]CartLine, error) {
	items, err := s.carts.ItemsByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to retrieve cart", err)
	}

	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to load cart product", err)
		}
		lines = append(lines, CartLine{Item: item, Product: product})
	}
	return lines, nil
}

// UpdateQuantity sets the quantity of a cart item owned by the customer.
func (s *CartService) UpdateQuantity(ctx context.Context, customerID, itemID uint, quantity int) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, apperr.New(apperr.KindInvalidInput, "Quantity must be at least 1")
	}

	item, err := s.ownedItem(ctx, customerID, itemID)
	if err != nil {
		return nil, err
	}

	item.Quantity = quantity
	if err := s.carts.Save(ctx, item); err != nil {
		return nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to update cart item", err)
	}
	return item, nil
}

// Remove deletes a cart item owned by the customer.
func (s *CartService) Remove(ctx context.Context, customerID, itemID uint) error {
	item, err := s.ownedItem(ctx, customerID, itemID)
	if err != nil {
		return err
	}
	if err := s.carts.Delete(ctx, item.ID); err != nil {
		return apperr.Wrap(apperr.KindStorageFailure, "Failed to remove cart item", err)
	}
	return nil
}

// ownedItem loads a cart item and hides other customers' items behind
// NotFound.
func (s *CartService) ownedItem(ctx context.Context, customerID, itemID uint) (*model.CartItem, error) {
	item, err := s.carts.FindByID(ctx, itemID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to load cart item", err)
	}
	if item == nil || item.CustomerID != customerID {
		return nil, apperr.New(apperr.KindNotFound, "Cart item not found")
	}
	return item, nil
}
