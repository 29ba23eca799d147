package handler

import (
	"io"
	"net/http"
	"strconv"

	"agrostore/internal/apperr"
	"agrostore/internal/model"
	"agrostore/internal/service"
	"agrostore/pkg/logger"
	"agrostore/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProductHandler serves the product admin API. Create and update accept
// multipart forms with scalar fields plus an `image` file part; the image is
// required on create and optional on update.
type ProductHandler struct {
	svc *service.ProductService
}

// NewProductHandler creates a ProductHandler.
func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// List handles retrieving all products with optional filtering
func (h *ProductHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Listing products with filters")

	filter, err := parseProductFilter(c)
	if err != nil {
		return respondError(c, err)
	}

	products, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		log.Error("Failed to list products", zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Products retrieved successfully", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// Get handles retrieving a single product by ID
func (h *ProductHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Product ID is required"})
	}
	log.Info("Getting product by ID", zap.Uint("product_id", id))

	product, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		log.Warn("Product not found", zap.Uint("product_id", id), zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, product)
}

// Create handles creating a new product with its image
func (h *ProductHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new product")

	input, image, err := parseProductForm(c)
	if err != nil {
		log.Warn("Invalid product form", zap.Error(err))
		return respondError(c, err)
	}

	product, err := h.svc.Create(c.Request().Context(), input, image)
	if err != nil {
		log.Warn("Failed to create product",
			zap.String("name", input.Name),
			zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RecordProductOperation("create")
	prometheus.RecordImageUpload(len(image.Data))
	log.Info("Product created successfully",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name))
	return c.JSON(http.StatusCreated, product)
}

// Update handles updating an existing product, optionally replacing its image
func (h *ProductHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Product ID is required"})
	}
	log.Info("Updating product", zap.Uint("product_id", id))

	input, image, err := parseProductForm(c)
	if err != nil {
		log.Warn("Invalid product form", zap.Uint("product_id", id), zap.Error(err))
		return respondError(c, err)
	}

	result, err := h.svc.Update(c.Request().Context(), id, input, image)
	if err != nil {
		log.Warn("Failed to update product", zap.Uint("product_id", id), zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RecordProductOperation("update")
	if image.Data != nil {
		prometheus.RecordImageUpload(len(image.Data))
	}
	log.Info("Product updated successfully",
		zap.Uint("product_id", id),
		zap.String("name", result.Product.Name))

	resp := echo.Map{"product": result.Product}
	if result.OrphanedImageKey != "" {
		resp["warning"] = "Previous image could not be removed from storage"
	}
	return c.JSON(http.StatusOK, resp)
}

// Delete handles deleting a product together with its stored image
func (h *ProductHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Product ID is required"})
	}
	log.Info("Deleting product", zap.Uint("product_id", id))

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		log.Warn("Failed to delete product", zap.Uint("product_id", id), zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RecordProductOperation("delete")
	log.Info("Product deleted successfully", zap.Uint("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}

// parseProductForm reads the multipart form for create/update. The image
// part is optional here; the service decides whether it is required.
func parseProductForm(c echo.Context) (service.ProductInput, service.ImageUpload, error) {
	var input service.ProductInput
	var image service.ImageUpload

	input.Name = c.FormValue("name")
	input.Brand = c.FormValue("brand")
	input.Description = c.FormValue("description")

	if raw := c.FormValue("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return input, image, apperr.New(apperr.KindInvalidInput, "Product category must be a valid id")
		}
		input.CategoryID = uint(id)
	}

	if raw := c.FormValue("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return input, image, apperr.New(apperr.KindInvalidInput, "Product price must be a number")
		}
		input.Price = price
	}

	if raw := c.FormValue("stock"); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			return input, image, apperr.New(apperr.KindInvalidInput, "Product stock must be an integer")
		}
		input.Stock = stock
	}

	file, err := c.FormFile("image")
	if err != nil {
		// No image part in the form.
		return input, image, nil
	}

	src, err := file.Open()
	if err != nil {
		return input, image, apperr.Wrap(apperr.KindInvalidInput, "Failed to read image", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return input, image, apperr.Wrap(apperr.KindInvalidInput, "Failed to read image", err)
	}

	image.Data = data
	image.ContentType = file.Header.Get("Content-Type")
	return input, image, nil
}

// parseProductFilter reads listing query parameters.
func parseProductFilter(c echo.Context) (model.ProductFilter, error) {
	var filter model.ProductFilter

	if raw := c.QueryParam("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return filter, apperr.New(apperr.KindInvalidInput, "category_id must be a valid id")
		}
		filter.CategoryID = uint(id)
	}

	filter.Query = c.QueryParam("q")

	if raw := c.QueryParam("min_price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, apperr.New(apperr.KindInvalidInput, "min_price must be a number")
		}
		filter.MinPrice = price
	}

	if raw := c.QueryParam("max_price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, apperr.New(apperr.KindInvalidInput, "max_price must be a number")
		}
		filter.MaxPrice = price
	}

	return filter, nil
}
