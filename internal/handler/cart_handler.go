package handler

import (
	"net/http"

	"agrostore/internal/middleware"
	"agrostore/internal/service"
	"agrostore/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AddCartItemRequest puts a product in the cart.
type AddCartItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// UpdateCartItemRequest changes a cart item's quantity.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartHandler serves the authenticated cart API.
type CartHandler struct {
	svc *service.CartService
}

// NewCartHandler creates a CartHandler.
func NewCartHandler(svc *service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

// List returns the customer's cart
func (h *CartHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	customerID, ok := middleware.CustomerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}

	lines, err := h.svc.Items(c.Request().Context(), customerID)
	if err != nil {
		log.Error("Failed to retrieve cart", zap.Uint("customer_id", customerID), zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, lines)
}

// Add puts a product in the cart
func (h *CartHandler) Add(c echo.Context) error {
	log := logger.FromContext(c)
	customerID, ok := middleware.CustomerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}

	var req AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, err := h.svc.Add(c.Request().Context(), customerID, req.ProductID, req.Quantity)
	if err != nil {
		log.Warn("Failed to add cart item",
			zap.Uint("customer_id", customerID),
			zap.Uint("product_id", req.ProductID),
			zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, item)
}

// UpdateQuantity changes a cart item's quantity
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	log := logger.FromContext(c)
	customerID, ok := middleware.CustomerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Cart item ID is required"})
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	item, err := h.svc.UpdateQuantity(c.Request().Context(), customerID, id, req.Quantity)
	if err != nil {
		log.Warn("Failed to update cart item",
			zap.Uint("customer_id", customerID),
			zap.Uint("item_id", id),
			zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, item)
}

// Remove deletes a cart item
func (h *CartHandler) Remove(c echo.Context) error {
	log := logger.FromContext(c)
	customerID, ok := middleware.CustomerIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Cart item ID is required"})
	}

	if err := h.svc.Remove(c.Request().Context(), customerID, id); err != nil {
		log.Warn("Failed to remove cart item",
			zap.Uint("customer_id", customerID),
			zap.Uint("item_id", id),
			zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Cart item removed successfully"})
}
