package service

import (
	"context"

	"agrostore/internal/apperr"
	"agrostore/internal/model"
	"agrostore/pkg/objstore"

	"go.uber.org/zap"
)

// MaxImageSize is the largest accepted product image, inclusive.
const MaxImageSize = 2 * 1024 * 1024

// DefaultDescription fills the description field when the caller leaves it
// empty.
const DefaultDescription = "No description available"

// ProductInput carries the scalar fields for a product create or update.
type ProductInput struct {
	Name        string
	Brand       string
	CategoryID  uint
	Price       float64
	Stock       int
	Description string
}

// ImageUpload carries an image file to attach to a product. A nil Data slice
// on update means "keep the current image".
type ImageUpload struct {
	Data        []byte
	ContentType string
}

// UpdateResult reports a committed product update. OrphanedImageKey is set
// when the replaced image could not be removed from the object store; the
// update itself still succeeded and the key is left for out-of-band cleanup.
type UpdateResult struct {
	Product          *model.Product
	OrphanedImageKey string
}

// ProductService manages the product lifecycle, keeping each record's stored
// image in sync with the object store. Record and image mutations are
// strictly sequenced so a record never references a deleted object.
type ProductService struct {
	products   model.ProductStore
	categories model.CategoryStore
	images     objstore.Gateway
	log        *zap.Logger
}

// NewProductService creates a ProductService with injected stores and the
// object store gateway.
func NewProductService(products model.ProductStore, categories model.CategoryStore, images objstore.Gateway, log *zap.Logger) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		images:     images,
		log:        log,
	}
}

// List returns products matching the filter.
func (s *ProductService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	products, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to retrieve products", err)
	}
	return products, nil
}

// Get returns a single product by id.
func (s *ProductService) Get(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to load product", err)
	}
	if product == nil {
		return nil, apperr.New(apperr.KindNotFound, "Product not found")
	}
	return product, nil
}

// Create validates the fields and image, uploads the image, then persists the
// record. A failed record create triggers a compensating delete of the
// freshly uploaded object so no orphan is left behind.
func (s *ProductService) Create(ctx context.Context, in ProductInput, image ImageUpload) (*model.Product, error) {
	category, err := s.validateInput(ctx, &in)
	if err != nil {
		return nil, err
	}
	if err := validateImage(image, true); err != nil {
		return nil, err
	}

	key, err := objstore.NewImageKey(image.ContentType)
	if err != nil {
		// Unreachable after validateImage, but keep the failure classified.
		return nil, apperr.Wrap(apperr.KindInvalidInput, "Image must be a JPEG, PNG or GIF", err)
	}

	imageURL, err := s.images.Put(ctx, key, image.Data, image.ContentType)
	if err != nil {
		s.log.Error("Failed to upload product image",
			zap.String("key", key),
			zap.Error(err))
		return nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to upload image", err)
	}

	product := &model.Product{
		Name:         in.Name,
		Brand:        in.Brand,
		CategoryID:   in.CategoryID,
		CategoryName: category.Name,
		Price:        in.Price,
		Stock:        in.Stock,
		Description:  in.Description,
		ImageURL:     imageURL,
	}

	if err := s.products.Create(ctx, product); err != nil {
		s.log.Error("Failed to create product, removing uploaded image",
			zap.String("key", key),
			zap.Error(err))
		// Compensating delete; the original persistence error is what the
		// caller must see.
		if delErr := s.images.Delete(ctx, key); delErr != nil {
			s.log.Warn("Compensating image delete failed, object orphaned",
				zap.String("key", key),
				zap.Error(delErr))
		}
		return nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to create product", err)
	}

	s.log.Info("Product created successfully",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.String("image_url", product.ImageURL))
	return product, nil
}

// Update rewrites a product's fields and optionally replaces its image. The
// record is persisted before the old image is deleted, so the record never
// references a missing object; a failed save after a new upload triggers a
// compensating delete of the new object and leaves the old one linked.
func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput, image ImageUpload) (*UpdateResult, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to load product", err)
	}
	if product == nil {
		return nil, apperr.New(apperr.KindNotFound, "Product not found")
	}

	category, err := s.validateInput(ctx, &in)
	if err != nil {
		return nil, err
	}

	newKey := ""
	newURL := ""
	if image.Data != nil {
		if err := validateImage(image, false); err != nil {
			return nil, err
		}
		newKey, err = objstore.NewImageKey(image.ContentType)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInvalidInput, "Image must be a JPEG, PNG or GIF", err)
		}
		newURL, err = s.images.Put(ctx, newKey, image.Data, image.ContentType)
		if err != nil {
			s.log.Error("Failed to upload replacement image",
				zap.Uint("product_id", id),
				zap.String("key", newKey),
				zap.Error(err))
			return nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to upload image", err)
		}
	}

	oldURL := product.ImageURL
	product.Name = in.Name
	product.Brand = in.Brand
	product.CategoryID = in.CategoryID
	product.CategoryName = category.Name
	product.Price = in.Price
	product.Stock = in.Stock
	product.Description = in.Description
	if newURL != "" {
		product.ImageURL = newURL
	}

	if err := s.products.Save(ctx, product); err != nil {
		if newKey != "" {
			// The record still points at the old image; the new upload is
			// unreferenced and must go.
			if delErr := s.images.Delete(ctx, newKey); delErr != nil {
				s.log.Warn("Compensating image delete failed, object orphaned",
					zap.String("key", newKey),
					zap.Error(delErr))
			}
		}
		return nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to update product", err)
	}

	result := &UpdateResult{Product: product}
	if newKey != "" && oldURL != "" {
		// The update is committed; losing the old object now is non-fatal.
		oldKey, keyErr := objstore.KeyFromURL(oldURL)
		if keyErr != nil {
			s.log.Warn("Cannot derive key for replaced image, object orphaned",
				zap.Uint("product_id", id),
				zap.String("image_url", oldURL),
				zap.Error(keyErr))
			result.OrphanedImageKey = oldURL
		} else if delErr := s.images.Delete(ctx, oldKey); delErr != nil {
			s.log.Warn("Failed to delete replaced image, object orphaned",
				zap.Uint("product_id", id),
				zap.String("key", oldKey),
				zap.Error(delErr))
			result.OrphanedImageKey = oldKey
		}
	}

	s.log.Info("Product updated successfully",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Bool("image_replaced", newKey != ""))
	return result, nil
}

// Delete removes a product together with its image. The image is deleted
// first and must succeed; if it fails the record survives so the operation
// stays retryable.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return apperr.Wrap(apperr.KindStorageFailure, "Failed to load product", err)
	}
	if product == nil {
		return apperr.New(apperr.KindNotFound, "Product not found")
	}

	key, err := objstore.KeyFromURL(product.ImageURL)
	if err != nil {
		s.log.Error("Cannot derive image key for product",
			zap.Uint("product_id", id),
			zap.String("image_url", product.ImageURL),
			zap.Error(err))
		return apperr.Wrap(apperr.KindStorageFailure, "Image key not found", err)
	}

	if err := s.images.Delete(ctx, key); err != nil {
		s.log.Error("Failed to delete image from object store",
			zap.Uint("product_id", id),
			zap.String("key", key),
			zap.Error(err))
		return apperr.Wrap(apperr.KindStorageFailure, "Failed to delete image", err)
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return apperr.Wrap(apperr.KindStorageFailure, "Failed to delete product", err)
	}

	s.log.Info("Product deleted successfully",
		zap.Uint("product_id", id),
		zap.String("name", product.Name))
	return nil
}

// validateInput checks the scalar fields, applies the description default and
// resolves the referenced category.
func (s *ProductService) validateInput(ctx context.Context, in *ProductInput) (*model.Category, error) {
	if in.Name == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "Product name is required")
	}
	if in.Brand == "" {
		return nil, apperr.New(apperr.KindInvalidInput, "Product brand is required")
	}
	if in.CategoryID == 0 {
		return nil, apperr.New(apperr.KindInvalidInput, "Product category is required")
	}
	if in.Price <= 0 {
		return nil, apperr.New(apperr.KindInvalidInput, "Product price must be greater than zero")
	}
	if in.Stock < 0 {
		return nil, apperr.New(apperr.KindInvalidInput, "Product stock cannot be negative")
	}
	if in.Description == "" {
		in.Description = DefaultDescription
	}

	category, err := s.categories.FindByID(ctx, in.CategoryID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorageFailure, "Failed to load category", err)
	}
	if category == nil {
		return nil, apperr.New(apperr.KindInvalidInput, "Product category does not exist")
	}
	return category, nil
}

// validateImage enforces presence, size and type limits before any upload
// happens.
func validateImage(image ImageUpload, required bool) error {
	if image.Data == nil {
		if required {
			return apperr.New(apperr.KindInvalidInput, "Product image is required")
		}
		return nil
	}
	if len(image.Data) == 0 {
		return apperr.New(apperr.KindInvalidInput, "Product image is empty")
	}
	if len(image.Data) > MaxImageSize {
		return apperr.New(apperr.KindInvalidInput, "Image size must be less than 2MB")
	}
	if _, ok := objstore.ExtensionByMIME(image.ContentType); !ok {
		return apperr.New(apperr.KindInvalidInput, "Image must be a JPEG, PNG or GIF")
	}
	return nil
}
